package nn

import (
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// GlobalAveragePooling2D collapses the spatial axes of an NHWC tensor into a
// per-channel mean: [N, H, W, C] -> [N, C]. The style predictor uses it to
// turn conv features of any spatial extent into a fixed-size vector.
type GlobalAveragePooling2D[B tensor.Backend] struct{}

// NewGlobalAveragePooling2D creates a global average pooling layer.
func NewGlobalAveragePooling2D[B tensor.Backend]() *GlobalAveragePooling2D[B] {
	return &GlobalAveragePooling2D[B]{}
}

// Build implements Layer.
func (l *GlobalAveragePooling2D[B]) Build(inputShape tensor.Shape) error {
	_, err := l.OutputShape(inputShape)
	return err
}

// Forward averages over height then width.
func (l *GlobalAveragePooling2D[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if len(x.Shape()) != 4 {
		return nil, shapeErrorf("global average pooling", x.Shape(), "expected 4D input [N,H,W,C], got %dD", len(x.Shape()))
	}
	// After reducing the height axis (1), width becomes axis 1.
	return x.MeanDim(1, false).MeanDim(1, false), nil
}

// OutputShape implements Layer.
func (l *GlobalAveragePooling2D[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 4 {
		return nil, shapeErrorf("global average pooling", inputShape, "expected 4D input [N,H,W,C], got %dD", len(inputShape))
	}
	return tensor.Shape{inputShape[0], inputShape[3]}, nil
}

// Config implements Layer.
func (l *GlobalAveragePooling2D[B]) Config() LayerConfig {
	return LayerConfig{ClassName: ClassGlobalAveragePooling2D, Config: map[string]any{}}
}

// Parameters implements Layer.
func (l *GlobalAveragePooling2D[B]) Parameters() []*Parameter[B] {
	return nil
}
