package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

func TestConv2D_IdentityKernel(t *testing.T) {
	backend := cpu.New()

	layer, err := NewConv2D(1, 1, 1, 1, 1, false, ActivationLinear, backend)
	require.NoError(t, err)

	x := imageTensor(t, backend, 3, 3)
	require.NoError(t, layer.Build(x.Shape()))

	// A 1x1 kernel of value 1 passes the input through.
	one, err := tensor.FromSlice([]float32{1}, tensor.Shape{1, 1, 1, 1}, backend)
	require.NoError(t, err)
	require.NoError(t, layer.Parameters()[0].Bind(one))

	out, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, x.Shape(), out.Shape())
	assert.Equal(t, x.Data(), out.Data())
}

func TestConv2D_ValidShapeArithmetic(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name                 string
		kernel, stride       int
		inH, inW, outH, outW int
	}{
		{"3x3 stride 1", 3, 1, 8, 8, 6, 6},
		{"3x3 stride 2 on padded input", 3, 2, 10, 10, 4, 4},
		{"9x9 stride 1", 9, 1, 16, 16, 8, 8},
		{"1x1 stride 1", 1, 1, 5, 7, 5, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer, err := NewConv2D(4, tt.kernel, tt.kernel, tt.stride, tt.stride, true, ActivationLinear, backend)
			require.NoError(t, err)

			got, err := layer.OutputShape(tensor.Shape{2, tt.inH, tt.inW, 3})
			require.NoError(t, err)
			assert.Equal(t, tensor.Shape{2, tt.outH, tt.outW, 4}, got)
		})
	}
}

func TestConv2D_BiasAndActivation(t *testing.T) {
	backend := cpu.New()

	layer, err := NewConv2D(1, 1, 1, 1, 1, true, ActivationRelu, backend)
	require.NoError(t, err)

	x, err := tensor.FromSlice([]float32{-5, 1, 2, 3}, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)
	require.NoError(t, layer.Build(x.Shape()))

	one, err := tensor.FromSlice([]float32{1}, tensor.Shape{1, 1, 1, 1}, backend)
	require.NoError(t, err)
	bias, err := tensor.FromSlice([]float32{-1}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	require.NoError(t, layer.Parameters()[0].Bind(one))
	require.NoError(t, layer.Parameters()[1].Bind(bias))

	out, err := layer.Forward(x)
	require.NoError(t, err)

	// x - 1 then relu: [-6, 0, 1, 2] -> [0, 0, 1, 2].
	assert.Equal(t, []float32{0, 0, 1, 2}, out.Data())
}

func TestConv2D_KernelLargerThanInput(t *testing.T) {
	backend := cpu.New()

	layer, err := NewConv2D(1, 5, 5, 1, 1, true, ActivationLinear, backend)
	require.NoError(t, err)

	_, err = layer.OutputShape(tensor.Shape{1, 4, 4, 3})
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestConv2D_InvalidConstruction(t *testing.T) {
	backend := cpu.New()

	_, err := NewConv2D(0, 3, 3, 1, 1, true, ActivationLinear, backend)
	assert.Error(t, err)

	_, err = NewConv2D(8, 3, 3, 0, 1, true, ActivationLinear, backend)
	assert.Error(t, err)

	_, err = NewConv2D(8, 3, 3, 1, 1, true, "swish", backend)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDense_KnownValues(t *testing.T) {
	backend := cpu.New()

	layer, err := NewDense(2, true, ActivationLinear, backend)
	require.NoError(t, err)

	x, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)
	require.NoError(t, layer.Build(x.Shape()))

	weight, err := tensor.FromSlice([]float32{
		1, 0,
		0, 1,
		1, 1,
	}, tensor.Shape{3, 2}, backend)
	require.NoError(t, err)
	bias, err := tensor.FromSlice([]float32{10, -10}, tensor.Shape{2}, backend)
	require.NoError(t, err)
	require.NoError(t, layer.Parameters()[0].Bind(weight))
	require.NoError(t, layer.Parameters()[1].Bind(bias))

	out, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2}, out.Shape())
	assert.InDelta(t, 14.0, out.Data()[0], 1e-5) // 1+3+10
	assert.InDelta(t, -5.0, out.Data()[1], 1e-5) // 2+3-10
}

func TestGlobalAveragePooling2D_Means(t *testing.T) {
	backend := cpu.New()

	data := []float32{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 2, 2}, backend)
	require.NoError(t, err)

	layer := NewGlobalAveragePooling2D[*cpu.CPUBackend]()
	out, err := layer.Forward(x)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 2}, out.Shape())
	assert.InDelta(t, 2.5, out.Data()[0], 1e-5)
	assert.InDelta(t, 25.0, out.Data()[1], 1e-5)
}
