package nn

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// PadReflect2D mirrors border pixels outward on the height and width axes of
// an NHWC tensor, without duplicating the edge pixel:
//
//	input row indices:   0 1 2 3
//	top=2 padded rows:   2 1 | 0 1 2 3
//
// Output shape is [batch, H+top+bottom, W+left+right, channels]. The input is
// never mutated. Padding amounts must satisfy 0 <= top,bottom <= H-1 and
// 0 <= left,right <= W-1, otherwise ErrInvalidPadding is returned — mirror
// reflection is undefined past that and the transform refuses to clamp.
//
// The two axes are independent: the reflection is applied as an index-select
// along height, then along width, and the result is identical in either
// order. Zero padding on every side is a pure copy.
func PadReflect2D[B tensor.Backend](x *tensor.Tensor[float32, B], top, bottom, left, right int) (*tensor.Tensor[float32, B], error) {
	shape := x.Shape()
	if len(shape) != 4 {
		return nil, shapeErrorf("reflection pad", shape, "expected 4D input [N,H,W,C], got %dD", len(shape))
	}

	h, w := shape[1], shape[2]

	hIdx, err := reflectIndices(h, top, bottom, "height")
	if err != nil {
		return nil, err
	}
	wIdx, err := reflectIndices(w, left, right, "width")
	if err != nil {
		return nil, err
	}

	out := x
	if hIdx != nil {
		idx, err := tensor.FromSlice[int32](hIdx, tensor.Shape{len(hIdx)}, x.Backend())
		if err != nil {
			return nil, err
		}
		out = out.IndexSelect(1, idx)
	}
	if wIdx != nil {
		idx, err := tensor.FromSlice[int32](wIdx, tensor.Shape{len(wIdx)}, x.Backend())
		if err != nil {
			return nil, err
		}
		out = out.IndexSelect(2, idx)
	}
	if hIdx == nil && wIdx == nil {
		out = x.Clone()
	}

	return out, nil
}

// reflectIndices builds the source index vector for one padded axis.
// Returns nil when no padding is requested on the axis.
func reflectIndices(size, before, after int, axis string) ([]int32, error) {
	if before < 0 || after < 0 {
		return nil, fmt.Errorf("%w: negative %s padding (%d, %d)", ErrInvalidPadding, axis, before, after)
	}
	if before > size-1 || after > size-1 {
		return nil, fmt.Errorf("%w: %s padding (%d, %d) exceeds input extent %d minus 1",
			ErrInvalidPadding, axis, before, after, size)
	}
	if before == 0 && after == 0 {
		return nil, nil
	}

	indices := make([]int32, 0, before+size+after)
	for j := -before; j < size+after; j++ {
		switch {
		case j < 0:
			indices = append(indices, int32(-j))
		case j >= size:
			indices = append(indices, int32(2*size-2-j))
		default:
			indices = append(indices, int32(j))
		}
	}
	return indices, nil
}

// ReflectionPadding2D is a layer wrapper around PadReflect2D with fixed
// padding amounts per spatial axis.
type ReflectionPadding2D[B tensor.Backend] struct {
	top    int
	bottom int
	left   int
	right  int
}

// NewReflectionPadding2D creates a reflection padding layer with independent
// amounts per side. Negative amounts are rejected with ErrInvalidPadding;
// whether the amounts fit the input extent is only checkable once an input
// arrives.
func NewReflectionPadding2D[B tensor.Backend](top, bottom, left, right int) (*ReflectionPadding2D[B], error) {
	if top < 0 || bottom < 0 || left < 0 || right < 0 {
		return nil, fmt.Errorf("%w: negative padding (%d, %d, %d, %d)", ErrInvalidPadding, top, bottom, left, right)
	}
	return &ReflectionPadding2D[B]{top: top, bottom: bottom, left: left, right: right}, nil
}

// NewUniformReflectionPadding2D creates a reflection padding layer with the
// same margin on all four sides.
func NewUniformReflectionPadding2D[B tensor.Backend](pad int) (*ReflectionPadding2D[B], error) {
	return NewReflectionPadding2D[B](pad, pad, pad, pad)
}

// Padding returns the configured amounts as ((top, bottom), (left, right)).
func (l *ReflectionPadding2D[B]) Padding() [2][2]int {
	return [2][2]int{{l.top, l.bottom}, {l.left, l.right}}
}

// Build implements Layer. The layer is weightless; Build only validates that
// the static spatial extents, when known, can accommodate the padding.
func (l *ReflectionPadding2D[B]) Build(inputShape tensor.Shape) error {
	_, err := l.OutputShape(inputShape)
	return err
}

// Forward applies the reflection padding.
func (l *ReflectionPadding2D[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return PadReflect2D(x, l.top, l.bottom, l.left, l.right)
}

// OutputShape implements Layer.
func (l *ReflectionPadding2D[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 4 {
		return nil, shapeErrorf("reflection pad", inputShape, "expected 4D input [N,H,W,C], got %dD", len(inputShape))
	}
	h, w := inputShape[1], inputShape[2]
	if l.top > h-1 || l.bottom > h-1 {
		return nil, fmt.Errorf("%w: height padding (%d, %d) exceeds input extent %d minus 1",
			ErrInvalidPadding, l.top, l.bottom, h)
	}
	if l.left > w-1 || l.right > w-1 {
		return nil, fmt.Errorf("%w: width padding (%d, %d) exceeds input extent %d minus 1",
			ErrInvalidPadding, l.left, l.right, w)
	}
	return tensor.Shape{inputShape[0], h + l.top + l.bottom, w + l.left + l.right, inputShape[3]}, nil
}

// Config implements Layer.
func (l *ReflectionPadding2D[B]) Config() LayerConfig {
	return LayerConfig{
		ClassName: ClassReflectionPadding2D,
		Config: map[string]any{
			"padding": [][]int{{l.top, l.bottom}, {l.left, l.right}},
		},
	}
}

// Parameters implements Layer. Reflection padding has no weights.
func (l *ReflectionPadding2D[B]) Parameters() []*Parameter[B] {
	return nil
}
