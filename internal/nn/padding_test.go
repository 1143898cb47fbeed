package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// imageTensor builds a [1, h, w, 1] tensor with sequential values for
// inspecting spatial rearrangements.
func imageTensor(t *testing.T, b *cpu.CPUBackend, h, w int) *tensor.Tensor[float32, *cpu.CPUBackend] {
	t.Helper()
	data := make([]float32, h*w)
	for i := range data {
		data[i] = float32(i)
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, h, w, 1}, b)
	require.NoError(t, err)
	return x
}

func TestPadReflect2D_MirrorWithoutEdge(t *testing.T) {
	backend := cpu.New()

	// Single row [0, 1, 2, 3]: left/right padding of 2 mirrors interior
	// values, never the edge itself.
	x, err := tensor.FromSlice([]float32{0, 1, 2, 3}, tensor.Shape{1, 1, 4, 1}, backend)
	require.NoError(t, err)

	out, err := PadReflect2D(x, 0, 0, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 1, 8, 1}, out.Shape())
	assert.Equal(t, []float32{2, 1, 0, 1, 2, 3, 2, 1}, out.Data())
}

func TestPadReflect2D_BothAxes(t *testing.T) {
	backend := cpu.New()

	// 2x2 image [[0, 1], [2, 3]] padded by 1 on every side.
	x, err := tensor.FromSlice([]float32{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)

	out, err := PadReflect2D(x, 1, 1, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 4, 4, 1}, out.Shape())
	expected := []float32{
		3, 2, 3, 2,
		1, 0, 1, 0,
		3, 2, 3, 2,
		1, 0, 1, 0,
	}
	assert.Equal(t, expected, out.Data())
}

func TestPadReflect2D_ZeroPadIsCopy(t *testing.T) {
	backend := cpu.New()
	x := imageTensor(t, backend, 3, 3)

	out, err := PadReflect2D(x, 0, 0, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, x.Shape(), out.Shape())
	assert.Equal(t, x.Data(), out.Data())

	// The result is a copy, not a view over the input.
	out.Data()[0] = 99
	assert.Equal(t, float32(0), x.Data()[0])
}

func TestPadReflect2D_PadCropRoundTrip(t *testing.T) {
	backend := cpu.New()
	x := imageTensor(t, backend, 4, 5)

	padded, err := PadReflect2D(x, 2, 1, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 7, 10, 1}, padded.Shape())

	// Cropping the padded interior recovers the input exactly.
	rows, err := tensor.FromSlice([]int32{2, 3, 4, 5}, tensor.Shape{4}, backend)
	require.NoError(t, err)
	cols, err := tensor.FromSlice([]int32{3, 4, 5, 6, 7}, tensor.Shape{5}, backend)
	require.NoError(t, err)
	cropped := padded.IndexSelect(1, rows).IndexSelect(2, cols)

	assert.Equal(t, x.Shape(), cropped.Shape())
	assert.Equal(t, x.Data(), cropped.Data())
}

func TestPadReflect2D_PaddingTooLarge(t *testing.T) {
	backend := cpu.New()
	x := imageTensor(t, backend, 4, 4)

	// Padding equal to the extent has no interior pixel to mirror from.
	_, err := PadReflect2D(x, 4, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPadding)

	_, err = PadReflect2D(x, 0, 0, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidPadding)

	// Maximum legal padding is extent minus one.
	out, err := PadReflect2D(x, 3, 3, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 10, 10, 1}, out.Shape())
}

func TestPadReflect2D_NegativePadding(t *testing.T) {
	backend := cpu.New()
	x := imageTensor(t, backend, 4, 4)

	_, err := PadReflect2D(x, -1, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPadding)
}

func TestPadReflect2D_RejectsNon4D(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	_, err = PadReflect2D(x, 1, 1, 1, 1)
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestReflectionPadding2D_Layer(t *testing.T) {
	backend := cpu.New()

	layer, err := NewReflectionPadding2D[*cpu.CPUBackend](1, 1, 1, 1)
	require.NoError(t, err)

	inShape := tensor.Shape{1, 4, 4, 3}
	require.NoError(t, layer.Build(inShape))

	outShape, err := layer.OutputShape(inShape)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 6, 6, 3}, outShape)

	x := tensor.Zeros[float32](inShape, backend)
	out, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 6, 6, 3}, out.Shape())
	for _, v := range out.Data() {
		assert.Equal(t, float32(0), v)
	}

	assert.Empty(t, layer.Parameters())
}

func TestReflectionPadding2D_NegativeConstructor(t *testing.T) {
	_, err := NewReflectionPadding2D[*cpu.CPUBackend](0, -2, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPadding)
}

func TestReflectionPadding2D_AsymmetricSides(t *testing.T) {
	backend := cpu.New()

	layer, err := NewReflectionPadding2D[*cpu.CPUBackend](2, 0, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, [2][2]int{{2, 0}, {0, 1}}, layer.Padding())

	x := imageTensor(t, backend, 3, 3)
	out, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 5, 4, 1}, out.Shape())

	// Row order: mirror rows 2, 1 above the original 0, 1, 2.
	// Column order: 0, 1, 2 plus mirrored column 1 on the right.
	expected := []float32{
		6, 7, 8, 7,
		3, 4, 5, 4,
		0, 1, 2, 1,
		3, 4, 5, 4,
		6, 7, 8, 7,
	}
	assert.Equal(t, expected, out.Data())
}
