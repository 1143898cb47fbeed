package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylenet-ml/stylenet/internal/backend/cpu"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// bindTables fills a built conditional layer's gamma and beta tables with
// the given [styleCount, channels] values.
func bindTables(t *testing.T, backend *cpu.CPUBackend, layer *ConditionalInstanceNormalization[*cpu.CPUBackend], gamma, beta []float32, styleCount, channels int) {
	t.Helper()
	params := layer.Parameters()
	require.Len(t, params, 2)

	g, err := tensor.FromSlice(gamma, tensor.Shape{styleCount, channels}, backend)
	require.NoError(t, err)
	b, err := tensor.FromSlice(beta, tensor.Shape{styleCount, channels}, backend)
	require.NoError(t, err)
	require.NoError(t, params[0].Bind(g))
	require.NoError(t, params[1].Bind(b))
}

func TestConditionalInstanceNormalization_OneHotMatchesPlain(t *testing.T) {
	backend := cpu.New()

	data := []float32{
		1, 10, 2, 20,
		3, 30, 4, 40,
	}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 2, 2}, backend)
	require.NoError(t, err)

	const styles = 3
	cond, err := NewConditionalInstanceNormalization(styles, -1, DefaultEpsilon, true, true, backend)
	require.NoError(t, err)
	require.NoError(t, cond.Build(x.Shape()))

	gammaTable := []float32{
		1.0, 1.0,
		2.0, 0.5,
		3.0, 4.0,
	}
	betaTable := []float32{
		0.0, 0.0,
		1.0, -1.0,
		5.0, 6.0,
	}
	bindTables(t, backend, cond, gammaTable, betaTable, styles, 2)

	for style := 0; style < styles; style++ {
		selector := make([]float32, styles)
		selector[style] = 1.0
		require.NoError(t, cond.SetSelector(selector))

		got, err := cond.Forward(x)
		require.NoError(t, err)

		// Reference: plain instance norm with that style's row applied
		// as gamma and beta.
		gRow, err := tensor.FromSlice(gammaTable[style*2:style*2+2], tensor.Shape{2}, backend)
		require.NoError(t, err)
		bRow, err := tensor.FromSlice(betaTable[style*2:style*2+2], tensor.Shape{2}, backend)
		require.NoError(t, err)
		want, err := instanceNorm(x, gRow, bRow, -1, DefaultEpsilon)
		require.NoError(t, err)

		for i := range want.Data() {
			assert.InDelta(t, want.Data()[i], got.Data()[i], 1e-5, "style %d index %d", style, i)
		}
	}
}

func TestConditionalInstanceNormalization_SelectorBlending(t *testing.T) {
	backend := cpu.New()

	data := []float32{0, 2, 0, 2}
	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 2, 1}, backend)
	require.NoError(t, err)

	cond, err := NewConditionalInstanceNormalization(2, -1, 0, true, true, backend)
	require.NoError(t, err)
	require.NoError(t, cond.Build(x.Shape()))
	bindTables(t, backend, cond, []float32{2, 4}, []float32{0, 10}, 2, 1)

	// Equal-weight blend mixes the table rows linearly before they are
	// applied: gamma = 3, beta = 5.
	require.NoError(t, cond.SetSelector([]float32{0.5, 0.5}))
	out, err := cond.Forward(x)
	require.NoError(t, err)

	// Normalized values are -1 and 1.
	assert.InDelta(t, -3.0+5.0, out.Data()[0], 1e-5)
	assert.InDelta(t, 3.0+5.0, out.Data()[1], 1e-5)
}

func TestConditionalInstanceNormalization_DefaultSelector(t *testing.T) {
	backend := cpu.New()

	cond, err := NewConditionalInstanceNormalization(4, -1, DefaultEpsilon, true, true, backend)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 0, 0, 0}, cond.Selector())
}

func TestConditionalInstanceNormalization_SelectorLengthMismatch(t *testing.T) {
	backend := cpu.New()

	cond, err := NewConditionalInstanceNormalization(3, -1, DefaultEpsilon, true, true, backend)
	require.NoError(t, err)

	err = cond.SetSelector([]float32{1, 0})
	var shapeErr *ShapeError
	assert.ErrorAs(t, err, &shapeErr)

	// The stored selector is unchanged after a rejected update.
	assert.Equal(t, []float32{1, 0, 0}, cond.Selector())
}

func TestConditionalInstanceNormalization_SelectorIsCopied(t *testing.T) {
	backend := cpu.New()

	cond, err := NewConditionalInstanceNormalization(2, -1, DefaultEpsilon, true, true, backend)
	require.NoError(t, err)

	sel := []float32{0.25, 0.75}
	require.NoError(t, cond.SetSelector(sel))
	sel[0] = 99

	assert.Equal(t, []float32{0.25, 0.75}, cond.Selector())
}

func TestConditionalInstanceNormalization_InvalidStyleCount(t *testing.T) {
	backend := cpu.New()

	_, err := NewConditionalInstanceNormalization(0, -1, DefaultEpsilon, true, true, backend)
	assert.Error(t, err)
}

func TestConditionalInstanceNormalization_ConfigOmitsSelector(t *testing.T) {
	backend := cpu.New()

	cond, err := NewConditionalInstanceNormalization(8, -1, DefaultEpsilon, true, true, backend)
	require.NoError(t, err)
	require.NoError(t, cond.SetSelector([]float32{0, 0, 1, 0, 0, 0, 0, 0}))

	cfg := cond.Config()
	assert.Equal(t, ClassConditionalInstanceNormalization, cfg.ClassName)
	assert.Equal(t, 8, cfg.Config["style_count"])
	assert.NotContains(t, cfg.Config, "selector")

	// Rebuilding from config starts from the default selector again.
	rebuilt, err := BuildLayer(cfg, backend)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 0, 0, 0, 0, 0}, rebuilt.(*ConditionalInstanceNormalization[*cpu.CPUBackend]).Selector())
}
