package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/nn"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// tinyPredictorArch is a style prediction trunk small enough for unit
// tests: one strided conv block, pooling, and a 2-way softmax head.
func tinyPredictorArch() []nn.LayerConfig {
	return []nn.LayerConfig{
		padCfg(1),
		convCfg(4, 3, 2),
		instanceNormCfg(),
		reluCfg(),
		{ClassName: nn.ClassGlobalAveragePooling2D, Config: map[string]any{}},
		{ClassName: nn.ClassDense, Config: map[string]any{
			"units":      2,
			"use_bias":   true,
			"activation": "",
		}},
		{ClassName: nn.ClassSoftmax, Config: map[string]any{}},
	}
}

// tinyTransformerArch is a minimal conditional stylization network for two
// styles.
func tinyTransformerArch() []nn.LayerConfig {
	return []nn.LayerConfig{
		padCfg(1),
		convCfg(4, 3, 1),
		conditionalNormCfg(2),
		reluCfg(),
		padCfg(1),
		{ClassName: nn.ClassConv2D, Config: map[string]any{
			"filters":     3,
			"kernel_size": []int{3, 3},
			"strides":     []int{1, 1},
			"use_bias":    true,
			"activation":  "tanh",
		}},
		{ClassName: nn.ClassDeprocess, Config: map[string]any{"mode": "tanh"}},
	}
}

func TestNetwork_BuildAndForward(t *testing.T) {
	backend := cpu.New()

	net, err := NewNetwork(tinyPredictorArch(), backend)
	require.NoError(t, err)

	inShape := tensor.Shape{1, 8, 8, 3}
	require.NoError(t, net.Build(inShape))

	outShape, err := net.OutputShape(inShape)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2}, outShape)

	x := tensor.Zeros[float32](inShape, backend)
	out, err := net.ForwardWithProgress(x, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2}, out.Shape())

	// Softmax output sums to one.
	sum := out.Data()[0] + out.Data()[1]
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestNetwork_ProgressCallback(t *testing.T) {
	backend := cpu.New()

	net, err := NewNetwork(tinyPredictorArch(), backend)
	require.NoError(t, err)
	require.NoError(t, net.Build(tensor.Shape{1, 8, 8, 3}))

	var classes []string
	x := tensor.Zeros[float32](tensor.Shape{1, 8, 8, 3}, backend)
	_, err = net.ForwardWithProgress(x, func(index, total int, className string) {
		assert.Equal(t, 7, total)
		classes = append(classes, className)
	})
	require.NoError(t, err)
	assert.Len(t, classes, 7)
	assert.Equal(t, nn.ClassReflectionPadding2D, classes[0])
	assert.Equal(t, nn.ClassSoftmax, classes[6])
}

func TestNetwork_NamedParameters(t *testing.T) {
	backend := cpu.New()

	net, err := NewNetwork(tinyPredictorArch(), backend)
	require.NoError(t, err)
	require.NoError(t, net.Build(tensor.Shape{1, 8, 8, 3}))

	params := net.NamedParameters()
	for _, name := range []string{
		"layer1.weight", "layer1.bias",
		"layer2.gamma", "layer2.beta",
		"layer5.weight", "layer5.bias",
	} {
		assert.Contains(t, params, name)
	}
	assert.Len(t, params, 6)
}

func TestNetwork_SaveLoadPreservesOutput(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "predictor.stn")
	inShape := tensor.Shape{1, 8, 8, 3}

	net, err := NewNetwork(tinyPredictorArch(), backend)
	require.NoError(t, err)
	require.NoError(t, net.Build(inShape))
	require.NoError(t, net.Save(path, "StylePredictor", false))

	loaded, err := LoadNetwork(path, inShape, backend)
	require.NoError(t, err)

	data := make([]float32, inShape.NumElements())
	for i := range data {
		data[i] = float32(i%17) - 8
	}
	x, err := tensor.FromSlice(data, inShape, backend)
	require.NoError(t, err)

	want, err := net.Forward(x)
	require.NoError(t, err)
	got, err := loaded.Forward(x)
	require.NoError(t, err)

	for i := range want.Data() {
		assert.InDelta(t, want.Data()[i], got.Data()[i], 1e-6, "index %d", i)
	}
}

func TestNetwork_BindWeightsErrors(t *testing.T) {
	backend := cpu.New()

	net, err := NewNetwork(tinyPredictorArch(), backend)
	require.NoError(t, err)

	// Unbuilt networks have no parameters to bind.
	assert.Error(t, net.BindWeights(nil))

	require.NoError(t, net.Build(tensor.Shape{1, 8, 8, 3}))

	stray, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32)
	require.NoError(t, err)
	err = net.BindWeights(map[string]*tensor.RawTensor{"layer0.ghost": stray})
	assert.Error(t, err)
}

func TestNetwork_UnknownLayerClass(t *testing.T) {
	backend := cpu.New()

	_, err := NewNetwork([]nn.LayerConfig{
		{ClassName: "LSTM", Config: map[string]any{}},
	}, backend)
	assert.ErrorIs(t, err, nn.ErrInvalidConfig)
}

func TestDefaultArchitectures_ShapeContracts(t *testing.T) {
	backend := cpu.New()

	pred, err := NewNetwork(DefaultPredictorArchitecture(8), backend)
	require.NoError(t, err)
	shape, err := pred.OutputShape(tensor.Shape{1, 256, 256, 3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 8}, shape)

	trans, err := NewNetwork(DefaultTransformerArchitecture(8), backend)
	require.NoError(t, err)
	shape, err = trans.OutputShape(tensor.Shape{1, 256, 256, 3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 256, 256, 3}, shape)

	// The transformer also accepts other spatial sizes divisible by 4.
	shape, err = trans.OutputShape(tensor.Shape{1, 128, 192, 3})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 128, 192, 3}, shape)
}
