package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// padNormStack is the canonical stylization building block: reflection pad,
// valid conv, normalization, activation.
func padNormStack(t *testing.T, backend *cpu.CPUBackend) *Sequential[*cpu.CPUBackend] {
	t.Helper()
	pad, err := NewUniformReflectionPadding2D[*cpu.CPUBackend](1)
	require.NoError(t, err)
	conv, err := NewConv2D(8, 3, 3, 1, 1, true, ActivationLinear, backend)
	require.NoError(t, err)
	norm := NewInstanceNormalization(-1, DefaultEpsilon, true, true, backend)
	return NewSequential[*cpu.CPUBackend](pad, conv, norm, NewReLU[*cpu.CPUBackend]())
}

func TestSequential_BuildAndForward(t *testing.T) {
	backend := cpu.New()
	model := padNormStack(t, backend)

	inShape := tensor.Shape{1, 4, 4, 3}
	require.NoError(t, model.Build(inShape))

	outShape, err := model.OutputShape(inShape)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 4, 4, 8}, outShape)

	x := tensor.Zeros[float32](inShape, backend)
	out, err := model.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, outShape, out.Shape())
}

func TestSequential_ZeroInputThroughPadConvNorm(t *testing.T) {
	backend := cpu.New()
	model := padNormStack(t, backend)

	// A zero image stays zero through pad (mirror of zeros), conv with
	// zero bias contribution, normalization of a constant channel, and
	// relu.
	x := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 3}, backend)
	out, err := model.Forward(x)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{1, 4, 4, 8}, out.Shape())
	for i, v := range out.Data() {
		assert.Equal(t, float32(0), v, "index %d", i)
	}
}

func TestSequential_ParametersCollected(t *testing.T) {
	backend := cpu.New()
	model := padNormStack(t, backend)
	require.NoError(t, model.Build(tensor.Shape{1, 4, 4, 3}))

	// conv weight+bias, norm gamma+beta.
	assert.Len(t, model.Parameters(), 4)
}

func TestSequential_BuildErrorNamesLayer(t *testing.T) {
	_ = cpu.New()

	pad, err := NewUniformReflectionPadding2D[*cpu.CPUBackend](4)
	require.NoError(t, err)
	model := NewSequential[*cpu.CPUBackend](pad)

	// Padding 4 does not fit extent 4.
	err = model.Build(tensor.Shape{1, 4, 4, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPadding)
	assert.Contains(t, err.Error(), "layer 0")
}

func TestSequential_EmptyIsIdentity(t *testing.T) {
	backend := cpu.New()
	model := NewSequential[*cpu.CPUBackend]()

	x, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)

	out, err := model.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, x.Data(), out.Data())
}
