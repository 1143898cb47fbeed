package nn

import (
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// ConditionalInstanceNormalization is instance normalization whose affine
// parameters are selected from a per-style table instead of a single pair.
//
// gamma and beta are tables of shape [styleCount, C]. A selector vector of
// length styleCount mixes table rows: gamma_eff = selector · gammaTable (a
// matrix-vector product). With a one-hot selector this reduces to picking one
// style's parameters; a weighted selector blends styles. The default selector
// picks style index 0 exclusively.
//
// The selector is the only mutable state; the stylizer sets it once per
// forward pass from the style-prediction network's output.
type ConditionalInstanceNormalization[B tensor.Backend] struct {
	axis       int
	epsilon    float32
	scale      bool
	center     bool
	styleCount int

	gammaTable *Parameter[B] // [styleCount, C], nil unless scale
	betaTable  *Parameter[B] // [styleCount, C], nil unless center
	selector   []float32     // [styleCount]

	channels int
	built    bool
	backend  B
}

// NewConditionalInstanceNormalization creates a conditional instance
// normalization layer for styleCount styles. Options mirror
// NewInstanceNormalization. A non-positive styleCount is rejected.
func NewConditionalInstanceNormalization[B tensor.Backend](
	styleCount, axis int,
	epsilon float32,
	scale, center bool,
	backend B,
) (*ConditionalInstanceNormalization[B], error) {
	if styleCount <= 0 {
		return nil, shapeErrorf("conditional instance norm", nil, "style count must be positive, got %d", styleCount)
	}

	selector := make([]float32, styleCount)
	selector[0] = 1.0 // default: select style 0 exclusively

	return &ConditionalInstanceNormalization[B]{
		axis:       axis,
		epsilon:    epsilon,
		scale:      scale,
		center:     center,
		styleCount: styleCount,
		selector:   selector,
		backend:    backend,
	}, nil
}

// StyleCount returns the number of styles in the parameter tables.
func (l *ConditionalInstanceNormalization[B]) StyleCount() int {
	return l.styleCount
}

// SetSelector replaces the style selector. The vector length must equal the
// style count, else *ShapeError. The slice is copied.
func (l *ConditionalInstanceNormalization[B]) SetSelector(selector []float32) error {
	if len(selector) != l.styleCount {
		return shapeErrorf("set selector", tensor.Shape{len(selector)},
			"selector length %d does not match style count %d", len(selector), l.styleCount)
	}
	copy(l.selector, selector)
	return nil
}

// Selector returns a copy of the current style selector.
func (l *ConditionalInstanceNormalization[B]) Selector() []float32 {
	out := make([]float32, len(l.selector))
	copy(out, l.selector)
	return out
}

// Build implements Layer. Tables are initialized like the unconditional
// layer's vectors, replicated per style: gamma rows to ones, beta to zeros.
func (l *ConditionalInstanceNormalization[B]) Build(inputShape tensor.Shape) error {
	channelAxis, err := inputShape.NormalizeAxis(l.axis)
	if err != nil {
		return shapeErrorf("conditional instance norm build", inputShape, "%v", err)
	}
	if channelAxis == 0 {
		return shapeErrorf("conditional instance norm build", inputShape, "channel axis %d collides with the batch axis", l.axis)
	}
	channels := inputShape[channelAxis]
	if channels <= 0 {
		return shapeErrorf("conditional instance norm build", inputShape, "channel axis %d has unknown size", l.axis)
	}

	if l.built {
		if channels != l.channels {
			return shapeErrorf("conditional instance norm build", inputShape, "already built for %d channels", l.channels)
		}
		return nil
	}

	l.channels = channels
	tableShape := tensor.Shape{l.styleCount, channels}
	if l.scale {
		l.gammaTable = NewParameter("gamma_table", tensor.Ones[float32](tableShape, l.backend))
	}
	if l.center {
		l.betaTable = NewParameter("beta_table", tensor.Zeros[float32](tableShape, l.backend))
	}
	l.built = true
	return nil
}

// Forward applies the normalization with the table rows mixed by the current
// selector.
func (l *ConditionalInstanceNormalization[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if !l.built {
		if err := l.Build(x.Shape()); err != nil {
			return nil, err
		}
	}

	var gamma, beta *tensor.Tensor[float32, B]
	if l.scale || l.center {
		sel, err := tensor.FromSlice[float32](l.Selector(), tensor.Shape{1, l.styleCount}, l.backend)
		if err != nil {
			return nil, err
		}
		if l.scale {
			gamma = sel.MatMul(l.gammaTable.Tensor()).Reshape(l.channels)
		}
		if l.center {
			beta = sel.MatMul(l.betaTable.Tensor()).Reshape(l.channels)
		}
	}

	return instanceNorm(x, gamma, beta, l.axis, l.epsilon)
}

// OutputShape implements Layer. Normalization preserves the input shape.
func (l *ConditionalInstanceNormalization[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if _, err := inputShape.NormalizeAxis(l.axis); err != nil {
		return nil, shapeErrorf("conditional instance norm", inputShape, "%v", err)
	}
	return inputShape.Clone(), nil
}

// Config implements Layer. The selector is runtime state, not configuration,
// and is deliberately not serialized.
func (l *ConditionalInstanceNormalization[B]) Config() LayerConfig {
	return LayerConfig{
		ClassName: ClassConditionalInstanceNormalization,
		Config: map[string]any{
			"axis":        l.axis,
			"epsilon":     l.epsilon,
			"scale":       l.scale,
			"center":      l.center,
			"style_count": l.styleCount,
		},
	}
}

// Parameters implements Layer.
func (l *ConditionalInstanceNormalization[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	if l.gammaTable != nil {
		params = append(params, l.gammaTable)
	}
	if l.betaTable != nil {
		params = append(params, l.betaTable)
	}
	return params
}
