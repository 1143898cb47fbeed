package cpu

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// IndexSelect selects slices along dim using a 1-D int32 index vector.
// The output shape equals the input shape with the size at dim replaced by
// the index length. Indices may repeat and appear in any order; reflection
// padding is built on exactly that.
//
// Example:
//
//	input: [1, 4, 4, 3], index: {3, 2, 1, 0}, dim: 1
//	output: [1, 4, 4, 3] with rows reversed along the height axis
func (cpu *CPUBackend) IndexSelect(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	if index.DType() != tensor.Int32 {
		panic(fmt.Sprintf("indexselect: index tensor must have dtype int32, got %s", index.DType()))
	}
	if len(index.Shape()) != 1 {
		panic(fmt.Sprintf("indexselect: index must be 1-D, got shape %v", index.Shape()))
	}

	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("indexselect: invalid dim %d for %dD tensor", dim, ndim))
	}

	indices := index.AsInt32()
	dimSize := shape[dim]
	for i, idx := range indices {
		if idx < 0 || int(idx) >= dimSize {
			panic(fmt.Sprintf("indexselect: index[%d]=%d out of range for dim %d (size %d)", i, idx, dim, dimSize))
		}
	}

	outShape := shape.Clone()
	outShape[dim] = len(indices)

	result, err := tensor.NewRaw(outShape, x.DType())
	if err != nil {
		panic(fmt.Sprintf("indexselect: %v", err))
	}

	// Each selected slice is a contiguous run of inner elements, repeated for
	// every outer index. Copy bytes directly so all dtypes share one path.
	elemSize := x.DType().Size()
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}

	src := x.Data()
	dst := result.Data()
	sliceBytes := inner * elemSize
	srcRowBytes := dimSize * sliceBytes
	dstRowBytes := len(indices) * sliceBytes

	for o := 0; o < outer; o++ {
		srcBase := o * srcRowBytes
		dstBase := o * dstRowBytes
		for j, idx := range indices {
			srcOff := srcBase + int(idx)*sliceBytes
			dstOff := dstBase + j*sliceBytes
			copy(dst[dstOff:dstOff+sliceBytes], src[srcOff:srcOff+sliceBytes])
		}
	}

	return result
}
