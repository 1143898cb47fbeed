package nn

import (
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Parameter is a named weight tensor owned by a layer.
//
// Parameters are fixed at build time and read-only during inference; they are
// replaced wholesale when pretrained weights are bound from a checkpoint.
// There is no gradient machinery here: training happens outside this library.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a parameter from an initialized tensor.
//
// The name identifies the parameter inside its layer ("gamma", "weight", ...);
// checkpoints address parameters as "layer<i>.<name>".
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Bind replaces the parameter tensor with pretrained weights.
// The replacement must match the allocated shape exactly.
func (p *Parameter[B]) Bind(t *tensor.Tensor[float32, B]) error {
	if !p.tensor.Shape().Equal(t.Shape()) {
		return shapeErrorf("bind "+p.name, t.Shape(), "expected shape %v", p.tensor.Shape())
	}
	p.tensor = t
	return nil
}
