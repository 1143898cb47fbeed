package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

func TestDeprocess_TanhMapping(t *testing.T) {
	backend := cpu.New()

	x, err := tensor.FromSlice([]float32{-1, -0.5, 0, 0.5, 1}, tensor.Shape{1, 1, 5, 1}, backend)
	require.NoError(t, err)

	layer, err := NewDeprocess[*cpu.CPUBackend](DeprocessTanh)
	require.NoError(t, err)

	out, err := layer.Forward(x)
	require.NoError(t, err)

	expected := []float32{0, 63.75, 127.5, 191.25, 255}
	for i, want := range expected {
		assert.InDelta(t, want, out.Data()[i], 1e-4, "index %d", i)
	}
}

func TestDeprocess_SigmoidIdentity(t *testing.T) {
	backend := cpu.New()

	data := []float32{0, 17.5, 127.5, 255}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 1, 4, 1}, backend)
	require.NoError(t, err)

	layer, err := NewDeprocess[*cpu.CPUBackend](DeprocessSigmoid)
	require.NoError(t, err)

	out, err := layer.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, data, out.Data())

	// Identity still returns a fresh tensor, not the input.
	out.Data()[0] = -1
	assert.Equal(t, float32(0), x.Data()[0])
}

func TestDeprocess_UnknownMode(t *testing.T) {
	_, err := NewDeprocess[*cpu.CPUBackend]("linear")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewDeprocess[*cpu.CPUBackend]("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDeprocess_ShapePreserved(t *testing.T) {
	layer, err := NewDeprocess[*cpu.CPUBackend](DeprocessTanh)
	require.NoError(t, err)

	shape, err := layer.OutputShape(tensor.Shape{1, 4, 4, 3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 4, 4, 3}, shape)
	assert.Nil(t, layer.Parameters())
}
