package nn

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Sequential chains layers so the output of each feeds the next.
type Sequential[B tensor.Backend] struct {
	layers []Layer[B]
}

// NewSequential creates a sequential container over the given layers.
func NewSequential[B tensor.Backend](layers ...Layer[B]) *Sequential[B] {
	return &Sequential[B]{layers: layers}
}

// Layers returns the contained layers in order.
func (s *Sequential[B]) Layers() []Layer[B] {
	return s.layers
}

// Build implements Layer: builds each layer with the static shape propagated
// through its predecessors.
func (s *Sequential[B]) Build(inputShape tensor.Shape) error {
	shape := inputShape
	for i, layer := range s.layers {
		if err := layer.Build(shape); err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, layer.Config().ClassName, err)
		}
		next, err := layer.OutputShape(shape)
		if err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, layer.Config().ClassName, err)
		}
		shape = next
	}
	return nil
}

// Forward runs the layers in order.
func (s *Sequential[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	out := x
	for i, layer := range s.layers {
		var err error
		out, err = layer.Forward(out)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, layer.Config().ClassName, err)
		}
	}
	return out, nil
}

// OutputShape implements Layer.
func (s *Sequential[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	shape := inputShape
	for i, layer := range s.layers {
		next, err := layer.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, layer.Config().ClassName, err)
		}
		shape = next
	}
	return shape, nil
}

// Config implements Layer: the nested layer configs in order.
func (s *Sequential[B]) Config() LayerConfig {
	nested := make([]any, len(s.layers))
	for i, layer := range s.layers {
		nested[i] = layer.Config()
	}
	return LayerConfig{
		ClassName: ClassSequential,
		Config: map[string]any{
			"layers": nested,
		},
	}
}

// Parameters implements Layer: all contained parameters in layer order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range s.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}
