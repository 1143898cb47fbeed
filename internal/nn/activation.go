package nn

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Activation names accepted by Conv2D and Dense. The empty string means
// linear (no activation).
const (
	ActivationLinear  = ""
	ActivationRelu    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
)

func validateActivation(name string) error {
	switch name {
	case ActivationLinear, ActivationRelu, ActivationSigmoid, ActivationTanh:
		return nil
	default:
		return fmt.Errorf("%w: unsupported activation %q", ErrInvalidConfig, name)
	}
}

func applyActivation[B tensor.Backend](x *tensor.Tensor[float32, B], name string) *tensor.Tensor[float32, B] {
	switch name {
	case ActivationRelu:
		return x.Relu()
	case ActivationSigmoid:
		return x.Sigmoid()
	case ActivationTanh:
		return x.Tanh()
	default:
		return x
	}
}

// ReLU is a standalone rectified linear activation layer.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Build implements Layer.
func (l *ReLU[B]) Build(tensor.Shape) error { return nil }

// Forward computes max(x, 0) element-wise.
func (l *ReLU[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return x.Relu(), nil
}

// OutputShape implements Layer.
func (l *ReLU[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	return inputShape.Clone(), nil
}

// Config implements Layer.
func (l *ReLU[B]) Config() LayerConfig {
	return LayerConfig{ClassName: ClassReLU, Config: map[string]any{}}
}

// Parameters implements Layer.
func (l *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// Softmax normalizes the last axis into a probability distribution. The
// style predictor ends with it so its output can act as a style selector.
type Softmax[B tensor.Backend] struct{}

// NewSoftmax creates a Softmax layer over the last axis.
func NewSoftmax[B tensor.Backend]() *Softmax[B] {
	return &Softmax[B]{}
}

// Build implements Layer.
func (l *Softmax[B]) Build(tensor.Shape) error { return nil }

// Forward computes softmax along the last axis.
func (l *Softmax[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return x.Softmax(-1), nil
}

// OutputShape implements Layer.
func (l *Softmax[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	return inputShape.Clone(), nil
}

// Config implements Layer.
func (l *Softmax[B]) Config() LayerConfig {
	return LayerConfig{ClassName: ClassSoftmax, Config: map[string]any{}}
}

// Parameters implements Layer.
func (l *Softmax[B]) Parameters() []*Parameter[B] { return nil }
