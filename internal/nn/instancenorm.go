package nn

import (
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// DefaultEpsilon is the numerical-stability constant used when a
// normalization layer is constructed without an explicit epsilon.
const DefaultEpsilon float32 = 1e-5

// instanceNorm standardizes x per sample and per channel: statistics are
// computed over every axis except the batch axis (0) and the channel axis,
// then x is mapped to (x - mean) / (sqrt(variance) + epsilon).
//
// Epsilon is added to the standard deviation, NOT to the variance; trained
// stylization weights assume this exact placement and moving it changes the
// numeric output.
//
// gamma and beta, when non-nil, must be 1-D of length C; they are broadcast
// to the channel axis and applied as out*gamma + beta. Either may be nil
// independently.
func instanceNorm[B tensor.Backend](
	x *tensor.Tensor[float32, B],
	gamma, beta *tensor.Tensor[float32, B],
	axis int,
	epsilon float32,
) (*tensor.Tensor[float32, B], error) {
	shape := x.Shape()
	channelAxis, err := shape.NormalizeAxis(axis)
	if err != nil {
		return nil, shapeErrorf("instance norm", shape, "%v", err)
	}
	if channelAxis == 0 {
		return nil, shapeErrorf("instance norm", shape, "channel axis %d collides with the batch axis", axis)
	}

	// Reduce over every axis except batch and channel. keepDim keeps axis
	// numbering stable across the sequential reductions.
	mean := x
	for ax := 1; ax < len(shape); ax++ {
		if ax == channelAxis {
			continue
		}
		mean = mean.MeanDim(ax, true)
	}

	centered := x.Sub(mean)

	variance := centered.Mul(centered)
	for ax := 1; ax < len(shape); ax++ {
		if ax == channelAxis {
			continue
		}
		variance = variance.MeanDim(ax, true)
	}

	out := centered.Div(variance.Sqrt().AddScalar(epsilon))

	if gamma != nil {
		out = out.Mul(alignToAxis(gamma, len(shape), channelAxis))
	}
	if beta != nil {
		out = out.Add(alignToAxis(beta, len(shape), channelAxis))
	}

	return out, nil
}

// alignToAxis reshapes a 1-D vector of length C so it broadcasts against a
// rank-ndim tensor along the given axis: all dimensions 1 except C at axis.
func alignToAxis[B tensor.Backend](v *tensor.Tensor[float32, B], ndim, axis int) *tensor.Tensor[float32, B] {
	target := make([]int, ndim)
	for i := range target {
		target[i] = 1
	}
	target[axis] = v.Shape()[0]
	return v.Reshape(target...)
}

// InstanceNormalization standardizes activations per sample and per channel,
// with optional learned affine re-scaling. This is the defining difference
// from batch normalization: statistics never cross the batch axis, so one
// image's contrast cannot leak into another's.
type InstanceNormalization[B tensor.Backend] struct {
	axis    int
	epsilon float32
	scale   bool
	center  bool

	gamma *Parameter[B] // learned scale [C], nil unless scale
	beta  *Parameter[B] // learned shift [C], nil unless center

	channels int
	built    bool
	backend  B
}

// NewInstanceNormalization creates an instance normalization layer.
//
// Parameters:
//   - axis: channel axis (negative counts from the end; -1 = NHWC channels)
//   - epsilon: stability constant added to the standard deviation
//   - scale, center: whether to learn gamma / beta (independently toggleable)
//
// Weights are allocated at Build time, once the channel count is known:
// gamma to ones, beta to zeros.
func NewInstanceNormalization[B tensor.Backend](axis int, epsilon float32, scale, center bool, backend B) *InstanceNormalization[B] {
	return &InstanceNormalization[B]{
		axis:    axis,
		epsilon: epsilon,
		scale:   scale,
		center:  center,
		backend: backend,
	}
}

// Build implements Layer. Fails with *ShapeError when the channel axis has no
// statically known size — the weight vectors cannot be allocated without a
// concrete channel count.
func (l *InstanceNormalization[B]) Build(inputShape tensor.Shape) error {
	channelAxis, err := inputShape.NormalizeAxis(l.axis)
	if err != nil {
		return shapeErrorf("instance norm build", inputShape, "%v", err)
	}
	if channelAxis == 0 {
		return shapeErrorf("instance norm build", inputShape, "channel axis %d collides with the batch axis", l.axis)
	}
	channels := inputShape[channelAxis]
	if channels <= 0 {
		return shapeErrorf("instance norm build", inputShape, "channel axis %d has unknown size", l.axis)
	}

	if l.built {
		if channels != l.channels {
			return shapeErrorf("instance norm build", inputShape, "already built for %d channels", l.channels)
		}
		return nil
	}

	l.channels = channels
	if l.scale {
		l.gamma = NewParameter("gamma", tensor.Ones[float32](tensor.Shape{channels}, l.backend))
	}
	if l.center {
		l.beta = NewParameter("beta", tensor.Zeros[float32](tensor.Shape{channels}, l.backend))
	}
	l.built = true
	return nil
}

// Forward applies the normalization. The layer builds itself on first use
// when Build was never called explicitly.
func (l *InstanceNormalization[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if !l.built {
		if err := l.Build(x.Shape()); err != nil {
			return nil, err
		}
	}

	var gamma, beta *tensor.Tensor[float32, B]
	if l.scale {
		gamma = l.gamma.Tensor()
	}
	if l.center {
		beta = l.beta.Tensor()
	}
	return instanceNorm(x, gamma, beta, l.axis, l.epsilon)
}

// OutputShape implements Layer. Normalization preserves the input shape.
func (l *InstanceNormalization[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if _, err := inputShape.NormalizeAxis(l.axis); err != nil {
		return nil, shapeErrorf("instance norm", inputShape, "%v", err)
	}
	return inputShape.Clone(), nil
}

// Config implements Layer.
func (l *InstanceNormalization[B]) Config() LayerConfig {
	return LayerConfig{
		ClassName: ClassInstanceNormalization,
		Config: map[string]any{
			"axis":    l.axis,
			"epsilon": l.epsilon,
			"scale":   l.scale,
			"center":  l.center,
		},
	}
}

// Parameters implements Layer.
func (l *InstanceNormalization[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	if l.gamma != nil {
		params = append(params, l.gamma)
	}
	if l.beta != nil {
		params = append(params, l.beta)
	}
	return params
}
