// Copyright 2025 The StyleNet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/stylenet-ml/stylenet/internal/nn"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Layer is the interface every network layer implements.
type Layer[B tensor.Backend] = nn.Layer[B]

// Parameter is a named weight tensor owned by a layer.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a parameter from an initialized tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Errors

// ErrInvalidPadding reports a reflection padding amount that is negative or
// too large for the padded dimension.
var ErrInvalidPadding = nn.ErrInvalidPadding

// ErrInvalidConfig reports an unknown layer class or malformed layer option.
var ErrInvalidConfig = nn.ErrInvalidConfig

// ShapeError reports an input tensor whose shape a layer cannot accept.
type ShapeError = nn.ShapeError

// Activation names accepted by Conv2D and Dense.
const (
	ActivationLinear  = nn.ActivationLinear
	ActivationRelu    = nn.ActivationRelu
	ActivationSigmoid = nn.ActivationSigmoid
	ActivationTanh    = nn.ActivationTanh
)

// DefaultEpsilon is the numerical-stability constant used when a
// normalization layer is constructed without an explicit epsilon.
const DefaultEpsilon = nn.DefaultEpsilon

// Layers

// ReflectionPadding2D pads the spatial axes of an NHWC tensor by mirroring
// interior rows and columns, without duplicating the edge.
type ReflectionPadding2D[B tensor.Backend] = nn.ReflectionPadding2D[B]

// NewReflectionPadding2D creates a reflection padding layer with separate
// amounts per side. Negative amounts fail with ErrInvalidPadding.
//
// Example:
//
//	pad, err := nn.NewReflectionPadding2D[*cpu.Backend](1, 1, 2, 2)
func NewReflectionPadding2D[B tensor.Backend](top, bottom, left, right int) (*ReflectionPadding2D[B], error) {
	return nn.NewReflectionPadding2D[B](top, bottom, left, right)
}

// NewUniformReflectionPadding2D creates a reflection padding layer with the
// same amount on all four sides.
func NewUniformReflectionPadding2D[B tensor.Backend](pad int) (*ReflectionPadding2D[B], error) {
	return nn.NewUniformReflectionPadding2D[B](pad)
}

// PadReflect2D applies reflection padding to an NHWC tensor directly,
// without constructing a layer.
func PadReflect2D[B tensor.Backend](x *tensor.Tensor[float32, B], top, bottom, left, right int) (*tensor.Tensor[float32, B], error) {
	return nn.PadReflect2D(x, top, bottom, left, right)
}

// InstanceNormalization standardizes each sample and channel over the
// spatial axes: (x - mean) / (sqrt(variance) + epsilon).
type InstanceNormalization[B tensor.Backend] = nn.InstanceNormalization[B]

// NewInstanceNormalization creates an instance normalization layer.
// axis selects the channel axis (negative counts from the end, -1 for
// NHWC). scale and center control the learnable gamma and beta vectors.
func NewInstanceNormalization[B tensor.Backend](axis int, epsilon float32, scale, center bool, backend B) *InstanceNormalization[B] {
	return nn.NewInstanceNormalization(axis, epsilon, scale, center, backend)
}

// ConditionalInstanceNormalization is instance normalization whose gamma
// and beta are mixed from per-style tables by a selector vector.
type ConditionalInstanceNormalization[B tensor.Backend] = nn.ConditionalInstanceNormalization[B]

// NewConditionalInstanceNormalization creates a conditional instance
// normalization layer for styleCount styles.
func NewConditionalInstanceNormalization[B tensor.Backend](styleCount, axis int, epsilon float32, scale, center bool, backend B) (*ConditionalInstanceNormalization[B], error) {
	return nn.NewConditionalInstanceNormalization(styleCount, axis, epsilon, scale, center, backend)
}

// Deprocess output modes.
const (
	DeprocessSigmoid = nn.DeprocessSigmoid
	DeprocessTanh    = nn.DeprocessTanh
)

// Deprocess maps a network's output activation range to [0, 255] pixels.
type Deprocess[B tensor.Backend] = nn.Deprocess[B]

// NewDeprocess creates a deprocess layer. Only DeprocessSigmoid and
// DeprocessTanh are accepted; anything else fails with ErrInvalidConfig.
func NewDeprocess[B tensor.Backend](mode string) (*Deprocess[B], error) {
	return nn.NewDeprocess[B](mode)
}

// Conv2D is a 2D convolution over NHWC input with valid (unpadded)
// boundary handling; pair it with ReflectionPadding2D to preserve size.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a convolution layer.
//
// Example:
//
//	conv, err := nn.NewConv2D(32, 3, 3, 1, 1, true, nn.ActivationRelu, backend)
func NewConv2D[B tensor.Backend](filters, kernelH, kernelW, strideH, strideW int, useBias bool, activation string, backend B) (*Conv2D[B], error) {
	return nn.NewConv2D(filters, kernelH, kernelW, strideH, strideW, useBias, activation, backend)
}

// Dense is a fully connected layer over [batch, features] input.
type Dense[B tensor.Backend] = nn.Dense[B]

// NewDense creates a dense layer with Xavier-initialized weights.
func NewDense[B tensor.Backend](units int, useBias bool, activation string, backend B) (*Dense[B], error) {
	return nn.NewDense(units, useBias, activation, backend)
}

// UpsampleNearest2D scales the spatial axes of an NHWC tensor by an
// integer factor using nearest-neighbor interpolation.
type UpsampleNearest2D[B tensor.Backend] = nn.UpsampleNearest2D[B]

// NewUpsampleNearest2D creates an upsampling layer.
func NewUpsampleNearest2D[B tensor.Backend](scale int) (*UpsampleNearest2D[B], error) {
	return nn.NewUpsampleNearest2D[B](scale)
}

// ReLU is the rectified linear activation as a standalone layer.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Softmax normalizes the last axis into a probability distribution.
type Softmax[B tensor.Backend] = nn.Softmax[B]

// NewSoftmax creates a softmax layer.
func NewSoftmax[B tensor.Backend]() *Softmax[B] {
	return nn.NewSoftmax[B]()
}

// GlobalAveragePooling2D reduces an NHWC tensor to [batch, channels] by
// averaging over the spatial axes.
type GlobalAveragePooling2D[B tensor.Backend] = nn.GlobalAveragePooling2D[B]

// NewGlobalAveragePooling2D creates a global average pooling layer.
func NewGlobalAveragePooling2D[B tensor.Backend]() *GlobalAveragePooling2D[B] {
	return nn.NewGlobalAveragePooling2D[B]()
}

// Sequential composes layers into a feed-forward stack.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential model from layers in order.
func NewSequential[B tensor.Backend](layers ...Layer[B]) *Sequential[B] {
	return nn.NewSequential(layers...)
}

// Initialization

// Xavier draws weights uniformly from the Glorot interval for the given
// fan-in and fan-out. A nil source falls back to the shared global
// generator.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}

// Serialization

// Layer class names used in serialized configurations.
const (
	ClassReflectionPadding2D              = nn.ClassReflectionPadding2D
	ClassInstanceNormalization            = nn.ClassInstanceNormalization
	ClassConditionalInstanceNormalization = nn.ClassConditionalInstanceNormalization
	ClassDeprocess                        = nn.ClassDeprocess
	ClassConv2D                           = nn.ClassConv2D
	ClassDense                            = nn.ClassDense
	ClassUpsampleNearest2D                = nn.ClassUpsampleNearest2D
	ClassReLU                             = nn.ClassReLU
	ClassSoftmax                          = nn.ClassSoftmax
	ClassGlobalAveragePooling2D           = nn.ClassGlobalAveragePooling2D
	ClassSequential                       = nn.ClassSequential
)

// LayerConfig is the serializable description of a layer: its class name
// plus the options needed to reconstruct it. Weights are not part of the
// configuration.
type LayerConfig = nn.LayerConfig

// BuildLayer reconstructs a layer from its configuration. Unknown class
// names and malformed options fail with ErrInvalidConfig.
func BuildLayer[B tensor.Backend](cfg LayerConfig, backend B) (Layer[B], error) {
	return nn.BuildLayer[B](cfg, backend)
}
