package nn

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Deprocess modes. The mode names the activation the upstream network ends
// with, which dictates how activations map back to pixel range.
const (
	// DeprocessSigmoid passes inputs through unchanged: a sigmoid-terminated
	// network is expected to already produce pixel-range values.
	DeprocessSigmoid = "sigmoid"

	// DeprocessTanh rescales a symmetric [-1, 1] activation range into
	// [0, 255] pixel range via (x + 1) * 127.5.
	DeprocessTanh = "tanh"
)

// Deprocess maps normalized activations back to pixel range at the end of a
// stylization network. It is stateless and shape-preserving.
type Deprocess[B tensor.Backend] struct {
	mode string
}

// NewDeprocess creates a deprocessing layer. Modes other than "sigmoid" and
// "tanh" are rejected with ErrInvalidConfig.
func NewDeprocess[B tensor.Backend](mode string) (*Deprocess[B], error) {
	switch mode {
	case DeprocessSigmoid, DeprocessTanh:
		return &Deprocess[B]{mode: mode}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported deprocess mode %q", ErrInvalidConfig, mode)
	}
}

// Mode returns the configured deprocess mode.
func (l *Deprocess[B]) Mode() string {
	return l.mode
}

// Build implements Layer. Deprocess is weightless and accepts any shape.
func (l *Deprocess[B]) Build(tensor.Shape) error {
	return nil
}

// Forward applies the pixel-range mapping.
// Sigmoid mode maps x -> x; tanh mode maps -1 -> 0, 0 -> 127.5, 1 -> 255.
func (l *Deprocess[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	switch l.mode {
	case DeprocessSigmoid:
		return x.Clone(), nil
	case DeprocessTanh:
		return x.AddScalar(1.0).MulScalar(127.5), nil
	default:
		// Unreachable: the constructor rejects unknown modes.
		return nil, fmt.Errorf("%w: unsupported deprocess mode %q", ErrInvalidConfig, l.mode)
	}
}

// OutputShape implements Layer.
func (l *Deprocess[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	return inputShape.Clone(), nil
}

// Config implements Layer.
func (l *Deprocess[B]) Config() LayerConfig {
	return LayerConfig{
		ClassName: ClassDeprocess,
		Config: map[string]any{
			"mode": l.mode,
		},
	}
}

// Parameters implements Layer.
func (l *Deprocess[B]) Parameters() []*Parameter[B] {
	return nil
}
