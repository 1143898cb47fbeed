package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// channelStats computes per-channel mean and variance of a [1, H, W, C]
// tensor for verifying normalization output.
func channelStats(data []float32, channels int) (mean, variance []float32) {
	mean = make([]float32, channels)
	variance = make([]float32, channels)
	n := len(data) / channels
	for i, v := range data {
		mean[i%channels] += v
	}
	for c := range mean {
		mean[c] /= float32(n)
	}
	for i, v := range data {
		d := v - mean[i%channels]
		variance[i%channels] += d * d
	}
	for c := range variance {
		variance[c] /= float32(n)
	}
	return mean, variance
}

func TestInstanceNormalization_ZeroMeanUnitVariance(t *testing.T) {
	backend := cpu.New()

	data := []float32{
		1, 10, 2, 20,
		3, 30, 4, 40,
		5, 50, 6, 60,
		7, 70, 8, 80,
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 4, 2}, backend)
	require.NoError(t, err)

	layer := NewInstanceNormalization(-1, DefaultEpsilon, true, true, backend)
	out, err := layer.Forward(x)
	require.NoError(t, err)
	require.Equal(t, x.Shape(), out.Shape())

	mean, variance := channelStats(out.Data(), 2)
	for c := 0; c < 2; c++ {
		assert.InDelta(t, 0.0, mean[c], 1e-5, "channel %d mean", c)
		assert.InDelta(t, 1.0, variance[c], 1e-2, "channel %d variance", c)
	}
}

func TestInstanceNormalization_ExactMomentsZeroEpsilon(t *testing.T) {
	backend := cpu.New()

	// One image with three channels, each sweeping distinct values over
	// the 4x4 spatial grid. Zero epsilon demands nonzero variance per
	// channel.
	data := make([]float32, 4*4*3)
	for i := 0; i < 16; i++ {
		data[i*3] = float32(i + 1)
		data[i*3+1] = float32(2 * i)
		data[i*3+2] = float32(-i)
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 4, 4, 3}, backend)
	require.NoError(t, err)

	out, err := instanceNorm(x, nil, nil, -1, 0)
	require.NoError(t, err)

	var sum, sumSq float64
	for i := 0; i < 16; i++ {
		v := float64(out.Data()[i*3])
		sum += v
		sumSq += v * v
	}
	assert.InDelta(t, 0.0, sum/16, 1e-6)
	assert.InDelta(t, 1.0, sumSq/16, 1e-5)
}

func TestInstanceNormalization_EpsilonOnStd(t *testing.T) {
	backend := cpu.New()

	// Channel values {0, 2} have mean 1 and variance 1, so with a large
	// epsilon the output is (x-1)/(1+eps). Adding epsilon to the variance
	// instead would give (x-1)/sqrt(1+eps), a visibly different value.
	data := []float32{0, 2, 0, 2}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)

	const eps = 0.5
	out, err := instanceNorm(x, nil, nil, -1, eps)
	require.NoError(t, err)

	want := float32(1.0 / 1.5) // (2-1)/(sqrt(1)+0.5)
	assert.InDelta(t, -want, out.Data()[0], 1e-6)
	assert.InDelta(t, want, out.Data()[1], 1e-6)

	// Guard against the variance placement: 1/sqrt(1.5) would be ~0.816.
	wrong := float32(1.0 / math.Sqrt(1.5))
	assert.Greater(t, math.Abs(float64(out.Data()[1]-wrong)), 0.1)
}

func TestInstanceNormalization_ConstantChannel(t *testing.T) {
	backend := cpu.New()

	// A constant channel has zero variance; epsilon keeps the division
	// finite and the output collapses to zero.
	x := tensor.Full[float32](tensor.Shape{1, 3, 3, 2}, 7.5, backend)

	out, err := instanceNorm(x, nil, nil, -1, DefaultEpsilon)
	require.NoError(t, err)
	for i, v := range out.Data() {
		assert.Equal(t, float32(0), v, "index %d", i)
	}
}

func TestInstanceNormalization_PerSampleStatistics(t *testing.T) {
	backend := cpu.New()

	// Two samples with very different scales: each must be normalized with
	// its own statistics, so both come out identical.
	data := []float32{
		1, 2, 3, 4,
		100, 200, 300, 400,
	}
	x, err := tensor.FromSlice(data, tensor.Shape{2, 2, 2, 1}, backend)
	require.NoError(t, err)

	out, err := instanceNorm(x, nil, nil, -1, 0)
	require.NoError(t, err)

	first := out.Data()[:4]
	second := out.Data()[4:]
	for i := range first {
		assert.InDelta(t, first[i], second[i], 1e-5, "index %d", i)
	}
}

func TestInstanceNormalization_AffineParameters(t *testing.T) {
	backend := cpu.New()

	data := []float32{0, 2, 0, 2}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)

	layer := NewInstanceNormalization(-1, 0, true, true, backend)
	require.NoError(t, layer.Build(x.Shape()))

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "gamma", params[0].Name())
	assert.Equal(t, "beta", params[1].Name())

	gamma, err := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	beta, err := tensor.FromSlice([]float32{10}, tensor.Shape{1}, backend)
	require.NoError(t, err)
	require.NoError(t, params[0].Bind(gamma))
	require.NoError(t, params[1].Bind(beta))

	out, err := layer.Forward(x)
	require.NoError(t, err)

	// Normalized values are -1 and 1; scaled by 2 and shifted by 10.
	assert.InDelta(t, 8.0, out.Data()[0], 1e-5)
	assert.InDelta(t, 12.0, out.Data()[1], 1e-5)
}

func TestInstanceNormalization_NoAffine(t *testing.T) {
	backend := cpu.New()

	layer := NewInstanceNormalization(-1, DefaultEpsilon, false, false, backend)
	require.NoError(t, layer.Build(tensor.Shape{1, 4, 4, 3}))
	assert.Empty(t, layer.Parameters())
}

func TestInstanceNormalization_BatchAxisRejected(t *testing.T) {
	backend := cpu.New()

	layer := NewInstanceNormalization(0, DefaultEpsilon, true, true, backend)
	err := layer.Build(tensor.Shape{1, 4, 4, 3})
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestInstanceNormalization_RebuildMismatch(t *testing.T) {
	backend := cpu.New()

	layer := NewInstanceNormalization(-1, DefaultEpsilon, true, true, backend)
	require.NoError(t, layer.Build(tensor.Shape{1, 4, 4, 3}))

	// Same channel count is fine, a different one is not.
	require.NoError(t, layer.Build(tensor.Shape{1, 8, 8, 3}))
	err := layer.Build(tensor.Shape{1, 4, 4, 16})
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestInstanceNormalization_ConfigRoundTrip(t *testing.T) {
	backend := cpu.New()

	layer := NewInstanceNormalization(-1, 0.001, true, false, backend)
	cfg := layer.Config()
	assert.Equal(t, ClassInstanceNormalization, cfg.ClassName)

	rebuilt, err := BuildLayer(cfg, backend)
	require.NoError(t, err)
	assert.Equal(t, cfg, rebuilt.Config())
}
