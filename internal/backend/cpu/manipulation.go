package cpu

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Cat concatenates tensors along the given dimension. All inputs must share
// dtype and shape except at dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}

	first := tensors[0]
	shape := first.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dimension %d out of range for %dD tensor", dim, ndim))
	}

	catSize := 0
	for _, t := range tensors {
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: dtype mismatch: %s vs %s", t.DType(), first.DType()))
		}
		ts := t.Shape()
		if len(ts) != ndim {
			panic(fmt.Sprintf("cat: rank mismatch: %d vs %d", len(ts), ndim))
		}
		for i := 0; i < ndim; i++ {
			if i != dim && ts[i] != shape[i] {
				panic(fmt.Sprintf("cat: shape mismatch at dim %d: %d vs %d", i, ts[i], shape[i]))
			}
		}
		catSize += ts[dim]
	}

	outShape := shape.Clone()
	outShape[dim] = catSize

	result, err := tensor.NewRaw(outShape, first.DType())
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	// Copy slab by slab: each input contributes contiguous runs of
	// rowBytes = dimSize*inner elements for every outer index.
	elemSize := first.DType().Size()
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}

	dst := result.Data()
	outRowBytes := catSize * inner * elemSize

	colOffset := 0
	for _, t := range tensors {
		dimSize := t.Shape()[dim]
		src := t.Data()
		srcRowBytes := dimSize * inner * elemSize
		for o := 0; o < outer; o++ {
			srcOff := o * srcRowBytes
			dstOff := o*outRowBytes + colOffset*inner*elemSize
			copy(dst[dstOff:dstOff+srcRowBytes], src[srcOff:srcOff+srcRowBytes])
		}
		colOffset += dimSize
	}

	return result
}
