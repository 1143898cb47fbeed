// Package imageio converts between on-disk images and the NHWC float32
// tensors the stylization models consume. Pixel values use the [0, 255]
// range in both directions; models that need a different range rescale
// internally.
package imageio

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Channels is the fixed channel count of image tensors.
const Channels = 3

// Open decodes an image file. Orientation metadata is applied so camera
// photos come out upright.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return img, nil
}

// Save encodes an image to path, with the format inferred from the
// extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	return nil
}

// Resize scales an image to width x height using Lanczos resampling.
// A zero width or height preserves the aspect ratio.
func Resize(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// ToTensor converts an image into a [1, H, W, 3] float32 tensor with pixel
// values in [0, 255]. Alpha is dropped.
func ToTensor[B tensor.Backend](img image.Image, b B) (*tensor.Tensor[float32, B], error) {
	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	h, w := bounds.Dy(), bounds.Dx()
	if h == 0 || w == 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	data := make([]float32, h*w*Channels)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			i := (y*w + x) * Channels
			data[i] = float32(row[x*4])
			data[i+1] = float32(row[x*4+1])
			data[i+2] = float32(row[x*4+2])
		}
	}
	return tensor.FromSlice(data, tensor.Shape{1, h, w, Channels}, b)
}

// FromTensor converts a [1, H, W, 3] or [H, W, 3] float32 tensor with
// values in [0, 255] back into an image. Values outside the range are
// clamped.
func FromTensor[B tensor.Backend](t *tensor.Tensor[float32, B]) (image.Image, error) {
	shape := t.Shape()
	switch {
	case len(shape) == 4 && shape[0] == 1 && shape[3] == Channels:
		shape = shape[1:]
	case len(shape) == 3 && shape[2] == Channels:
	default:
		return nil, fmt.Errorf("expected [1, H, W, 3] or [H, W, 3] tensor, got %v", t.Shape())
	}
	h, w := shape[0], shape[1]

	data := t.Data()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * Channels
			p := img.Pix[y*img.Stride+x*4:]
			p[0] = clampByte(data[i])
			p[1] = clampByte(data[i+1])
			p[2] = clampByte(data[i+2])
			p[3] = 0xff
		}
	}
	return img, nil
}

func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
