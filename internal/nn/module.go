// Package nn implements the stylization layers of the stylenet library.
//
// The package provides the building blocks arbitrary-style image-stylization
// models are assembled from:
//   - Layer interface: lifecycle contract shared by all layers
//   - ReflectionPadding2D: mirror border extension for NHWC images
//   - InstanceNormalization: per-sample, per-channel standardization
//   - ConditionalInstanceNormalization: style-table variant of the above
//   - Deprocess: activation-range to pixel-range mapping
//   - Conv2D, Dense, UpsampleNearest2D, pooling and activations: the
//     supporting layers the two stylization networks are built from
//   - Sequential: ordered layer container
//
// Layers delegate all tensor math to a tensor.Backend; they hold only fixed
// configuration and weight tables, and their forward passes are pure given
// those weights.
package nn

import (
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Layer is the lifecycle contract every stylenet layer implements.
//
// A layer is created unbuilt. Build is invoked once with the input shape so
// the layer can size its weight tensors from a concrete channel count;
// Forward builds on first use when Build was never called explicitly.
// OutputShape propagates static shapes without running any computation, and
// Config returns the serializable class-name-tagged record the layer can be
// reconstructed from.
//
// Forward never mutates its input and returns a freshly allocated output.
type Layer[B tensor.Backend] interface {
	// Build allocates weights for the given input shape. Calling Build a
	// second time is a no-op when the shape is compatible; incompatible
	// shapes return a *ShapeError.
	Build(inputShape tensor.Shape) error

	// Forward computes the layer output for the input tensor.
	Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error)

	// OutputShape returns the output shape for a given input shape.
	OutputShape(inputShape tensor.Shape) (tensor.Shape, error)

	// Config returns the layer's serializable configuration.
	Config() LayerConfig

	// Parameters returns the layer's weight parameters, empty for
	// weightless layers.
	Parameters() []*Parameter[B]
}
