// Copyright 2025 The StyleNet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU compute backend.
package cpu

import (
	internalcpu "github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/tensor"
)

// Backend is the CPU backend implementation.
//
// It provides pure Go implementations of every tensor operation stylenet
// needs for inference. It is the only backend the library ships.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/stylenet-ml/stylenet/backend/cpu"
//	    "github.com/stylenet-ml/stylenet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{1, 256, 256, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
