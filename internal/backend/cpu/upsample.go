package cpu

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// UpsampleNearest2D repeats every spatial pixel scale×scale times.
//
// Input shape:  [batch, height, width, channels]
// Output shape: [batch, height*scale, width*scale, channels]
func (cpu *CPUBackend) UpsampleNearest2D(x *tensor.RawTensor, scale int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("upsample: input must be 4D [N,H,W,C], got %dD", len(shape)))
	}
	if scale <= 0 {
		panic(fmt.Sprintf("upsample: invalid scale %d", scale))
	}
	if scale == 1 {
		return x.Clone()
	}

	n, h, w, c := shape[0], shape[1], shape[2], shape[3]
	outShape := tensor.Shape{n, h * scale, w * scale, c}

	result, err := tensor.NewRaw(outShape, x.DType())
	if err != nil {
		panic(fmt.Sprintf("upsample: %v", err))
	}

	// Pixel channels are contiguous in NHWC, so work on raw bytes: replicate
	// each pixel horizontally, then replicate whole rows vertically.
	elemSize := x.DType().Size()
	pixBytes := c * elemSize
	srcRowBytes := w * pixBytes
	dstRowBytes := w * scale * pixBytes

	src := x.Data()
	dst := result.Data()

	for b := 0; b < n; b++ {
		for row := 0; row < h; row++ {
			srcOff := (b*h + row) * srcRowBytes
			dstRow0 := (b*h*scale + row*scale) * dstRowBytes

			// Horizontal replication into the first destination row.
			for col := 0; col < w; col++ {
				pix := src[srcOff+col*pixBytes : srcOff+(col+1)*pixBytes]
				for s := 0; s < scale; s++ {
					off := dstRow0 + (col*scale+s)*pixBytes
					copy(dst[off:off+pixBytes], pix)
				}
			}

			// Vertical replication of the completed row.
			for s := 1; s < scale; s++ {
				off := dstRow0 + s*dstRowBytes
				copy(dst[off:off+dstRowBytes], dst[dstRow0:dstRow0+dstRowBytes])
			}
		}
	}

	return result
}
