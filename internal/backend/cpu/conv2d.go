package cpu

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Conv2D performs 2D convolution on NHWC input.
//
// Input shape:  [batch, height, width, in_channels]
// Kernel shape: [kernel_h, kernel_w, in_channels, out_channels]
// Output shape: [batch, out_h, out_w, out_channels]
//
// Where:
//
//	out_h = (height + 2*padH - kernel_h) / strideH + 1
//	out_w = (width + 2*padW - kernel_w) / strideW + 1
//
// padH/padW apply symmetric zero padding. Stylization networks normally pad
// with a reflection layer and run the convolution unpadded, so the common
// call here is padH = padW = 0.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, strideH, strideW, padH, padW int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,H,W,C], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [K_h,K_w,C_in,C_out], got %dD", len(kernelShape)))
	}
	if strideH <= 0 || strideW <= 0 {
		panic(fmt.Sprintf("conv2d: invalid strides (%d, %d)", strideH, strideW))
	}
	if padH < 0 || padW < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding (%d, %d)", padH, padW))
	}

	n := inputShape[0]
	h := inputShape[1]
	w := inputShape[2]
	cIn := inputShape[3]
	kh := kernelShape[0]
	kw := kernelShape[1]
	cInK := kernelShape[2]
	cOut := kernelShape[3]

	if cIn != cInK {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, cInK))
	}

	hOut := (h+2*padH-kh)/strideH + 1
	wOut := (w+2*padW-kw)/strideW + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, hOut, wOut, cOut}, input.DType())
	if err != nil {
		panic(fmt.Sprintf("conv2d: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		conv2dKernel(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(),
			n, h, w, cIn, kh, kw, cOut, hOut, wOut, strideH, strideW, padH, padW)
	case tensor.Float64:
		conv2dKernel(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(),
			n, h, w, cIn, kh, kw, cOut, hOut, wOut, strideH, strideW, padH, padW)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

// conv2dKernel is a direct convolution over NHWC data. The channel axes are
// contiguous in memory, so the two innermost loops stream through both the
// input patch and the kernel rows sequentially.
func conv2dKernel[T ~float32 | ~float64](out, in, kern []T,
	n, h, w, cIn, kh, kw, cOut, hOut, wOut, strideH, strideW, padH, padW int,
) {
	inRow := w * cIn       // input elements per row
	inImg := h * inRow     // input elements per image
	outRow := wOut * cOut  // output elements per row
	outImg := hOut * outRow
	kernRow := kw * cIn * cOut // kernel elements per kernel row

	for b := 0; b < n; b++ {
		for oh := 0; oh < hOut; oh++ {
			ihBase := oh*strideH - padH
			for ow := 0; ow < wOut; ow++ {
				iwBase := ow*strideW - padW
				outOff := b*outImg + oh*outRow + ow*cOut

				for dkh := 0; dkh < kh; dkh++ {
					ih := ihBase + dkh
					if ih < 0 || ih >= h {
						continue
					}
					for dkw := 0; dkw < kw; dkw++ {
						iw := iwBase + dkw
						if iw < 0 || iw >= w {
							continue
						}
						inOff := b*inImg + ih*inRow + iw*cIn
						kernOff := dkh*kernRow + dkw*cIn*cOut
						for ic := 0; ic < cIn; ic++ {
							iv := in[inOff+ic]
							if iv == 0 {
								continue
							}
							kOff := kernOff + ic*cOut
							for oc := 0; oc < cOut; oc++ {
								out[outOff+oc] += iv * kern[kOff+oc]
							}
						}
					}
				}
			}
		}
	}
}
