package nn

import (
	"math/rand"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Conv2D is a 2D convolutional layer over NHWC input.
//
// Input shape:  [batch, height, width, in_channels]
// Weight shape: [kernel_h, kernel_w, in_channels, filters]
// Bias shape:   [filters]
// Output shape: [batch, out_h, out_w, filters]
//
// The convolution itself is unpadded ("valid"); stylization networks pair it
// with a ReflectionPadding2D layer when "same" spatial extent is wanted, so
// border pixels are mirrored instead of zero-filled.
type Conv2D[B tensor.Backend] struct {
	filters    int
	kernelH    int
	kernelW    int
	strideH    int
	strideW    int
	useBias    bool
	activation string

	weight *Parameter[B]
	bias   *Parameter[B]

	inChannels int
	built      bool
	rng        *rand.Rand
	backend    B
}

// NewConv2D creates a convolutional layer.
//
// Parameters:
//   - filters: number of output channels
//   - kernelH, kernelW: kernel extent
//   - strideH, strideW: stride per spatial axis
//   - useBias: whether to add a per-filter bias
//   - activation: "", "relu", "sigmoid" or "tanh"
//
// The weight is allocated at Build time with Xavier initialization; bias
// starts at zero. An unsupported activation is rejected with ErrInvalidConfig.
func NewConv2D[B tensor.Backend](filters, kernelH, kernelW, strideH, strideW int, useBias bool, activation string, backend B) (*Conv2D[B], error) {
	if filters <= 0 {
		return nil, shapeErrorf("conv2d", nil, "invalid filter count %d", filters)
	}
	if kernelH <= 0 || kernelW <= 0 {
		return nil, shapeErrorf("conv2d", nil, "invalid kernel size (%d, %d)", kernelH, kernelW)
	}
	if strideH <= 0 || strideW <= 0 {
		return nil, shapeErrorf("conv2d", nil, "invalid strides (%d, %d)", strideH, strideW)
	}
	if err := validateActivation(activation); err != nil {
		return nil, err
	}

	return &Conv2D[B]{
		filters:    filters,
		kernelH:    kernelH,
		kernelW:    kernelW,
		strideH:    strideH,
		strideW:    strideW,
		useBias:    useBias,
		activation: activation,
		backend:    backend,
	}, nil
}

// SeedWeights sets the random source used for weight initialization at Build
// time. Tests use it for reproducible kernels.
func (l *Conv2D[B]) SeedWeights(rng *rand.Rand) {
	l.rng = rng
}

// Build implements Layer: allocates the kernel and bias once the input
// channel count is known.
func (l *Conv2D[B]) Build(inputShape tensor.Shape) error {
	if len(inputShape) != 4 {
		return shapeErrorf("conv2d build", inputShape, "expected 4D input [N,H,W,C], got %dD", len(inputShape))
	}
	inChannels := inputShape[3]
	if inChannels <= 0 {
		return shapeErrorf("conv2d build", inputShape, "channel axis has unknown size")
	}

	if l.built {
		if inChannels != l.inChannels {
			return shapeErrorf("conv2d build", inputShape, "already built for %d input channels", l.inChannels)
		}
		return nil
	}

	l.inChannels = inChannels

	weightShape := tensor.Shape{l.kernelH, l.kernelW, inChannels, l.filters}
	fanIn := inChannels * l.kernelH * l.kernelW
	fanOut := l.filters * l.kernelH * l.kernelW
	l.weight = NewParameter("weight", Xavier(fanIn, fanOut, weightShape, l.rng, l.backend))

	if l.useBias {
		l.bias = NewParameter("bias", tensor.Zeros[float32](tensor.Shape{l.filters}, l.backend))
	}
	l.built = true
	return nil
}

// Forward performs the convolution, bias add and activation.
func (l *Conv2D[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if !l.built {
		if err := l.Build(x.Shape()); err != nil {
			return nil, err
		}
	}
	if _, err := l.OutputShape(x.Shape()); err != nil {
		return nil, err
	}

	raw := l.backend.Conv2D(x.Raw(), l.weight.Tensor().Raw(), l.strideH, l.strideW, 0, 0)
	out := tensor.New[float32, B](raw, l.backend)

	if l.useBias {
		out = out.Add(l.bias.Tensor().Reshape(1, 1, 1, l.filters))
	}
	return applyActivation(out, l.activation), nil
}

// OutputShape implements Layer: valid convolution shape arithmetic.
func (l *Conv2D[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 4 {
		return nil, shapeErrorf("conv2d", inputShape, "expected 4D input [N,H,W,C], got %dD", len(inputShape))
	}
	if l.built && inputShape[3] != l.inChannels {
		return nil, shapeErrorf("conv2d", inputShape, "expected %d input channels", l.inChannels)
	}
	outH := (inputShape[1]-l.kernelH)/l.strideH + 1
	outW := (inputShape[2]-l.kernelW)/l.strideW + 1
	if outH <= 0 || outW <= 0 {
		return nil, shapeErrorf("conv2d", inputShape, "kernel (%d, %d) larger than input", l.kernelH, l.kernelW)
	}
	return tensor.Shape{inputShape[0], outH, outW, l.filters}, nil
}

// Config implements Layer.
func (l *Conv2D[B]) Config() LayerConfig {
	return LayerConfig{
		ClassName: ClassConv2D,
		Config: map[string]any{
			"filters":     l.filters,
			"kernel_size": []int{l.kernelH, l.kernelW},
			"strides":     []int{l.strideH, l.strideW},
			"use_bias":    l.useBias,
			"activation":  l.activation,
		},
	}
}

// Parameters implements Layer.
func (l *Conv2D[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	if l.weight != nil {
		params = append(params, l.weight)
	}
	if l.bias != nil {
		params = append(params, l.bias)
	}
	return params
}
