// Copyright 2025 The StyleNet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers of the stylization
// pipeline.
//
// # Overview
//
// This package contains:
//   - Image layers: ReflectionPadding2D, UpsampleNearest2D, Deprocess
//   - Normalization: InstanceNormalization, ConditionalInstanceNormalization
//   - Core layers: Conv2D, Dense, GlobalAveragePooling2D
//   - Activations: ReLU, Softmax
//   - Utilities: Sequential, Layer interface, Parameter, LayerConfig
//
// All layers implement the Layer interface and operate on NHWC float32
// tensors. Layers are built lazily: parameters are allocated on the first
// Forward call, or explicitly via Build.
//
// # Basic Usage
//
//	import (
//	    "github.com/stylenet-ml/stylenet/nn"
//	    "github.com/stylenet-ml/stylenet/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    pad, _ := nn.NewUniformReflectionPadding2D[*cpu.Backend](1)
//	    conv, _ := nn.NewConv2D(32, 3, 3, 1, 1, true, nn.ActivationRelu, backend)
//	    norm := nn.NewInstanceNormalization(-1, nn.DefaultEpsilon, true, true, backend)
//
//	    model := nn.NewSequential[*cpu.Backend](pad, conv, norm)
//	    output, err := model.Forward(input)
//	}
//
// # Serialization
//
// Every layer reports a LayerConfig from Config(), and BuildLayer
// reconstructs a layer from one. The set of layer classes is closed:
// BuildLayer rejects unknown class names rather than consulting a
// registry.
package nn
