package nn

import (
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// UpsampleNearest2D grows the spatial axes of an NHWC tensor by an integer
// factor using nearest-neighbor repetition. The transformer's decoder uses it
// between convolutions to undo the encoder's downsampling; nearest-neighbor
// upsampling avoids the checkerboard artifacts of transposed convolutions.
type UpsampleNearest2D[B tensor.Backend] struct {
	scale int
}

// NewUpsampleNearest2D creates an upsampling layer with the given integer
// scale factor.
func NewUpsampleNearest2D[B tensor.Backend](scale int) (*UpsampleNearest2D[B], error) {
	if scale <= 0 {
		return nil, shapeErrorf("upsample", nil, "invalid scale %d", scale)
	}
	return &UpsampleNearest2D[B]{scale: scale}, nil
}

// Build implements Layer.
func (l *UpsampleNearest2D[B]) Build(inputShape tensor.Shape) error {
	_, err := l.OutputShape(inputShape)
	return err
}

// Forward repeats each pixel scale×scale times.
func (l *UpsampleNearest2D[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if len(x.Shape()) != 4 {
		return nil, shapeErrorf("upsample", x.Shape(), "expected 4D input [N,H,W,C], got %dD", len(x.Shape()))
	}
	return x.UpsampleNearest2D(l.scale), nil
}

// OutputShape implements Layer.
func (l *UpsampleNearest2D[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 4 {
		return nil, shapeErrorf("upsample", inputShape, "expected 4D input [N,H,W,C], got %dD", len(inputShape))
	}
	return tensor.Shape{inputShape[0], inputShape[1] * l.scale, inputShape[2] * l.scale, inputShape[3]}, nil
}

// Config implements Layer.
func (l *UpsampleNearest2D[B]) Config() LayerConfig {
	return LayerConfig{
		ClassName: ClassUpsampleNearest2D,
		Config: map[string]any{
			"scale": l.scale,
		},
	}
}

// Parameters implements Layer.
func (l *UpsampleNearest2D[B]) Parameters() []*Parameter[B] {
	return nil
}
