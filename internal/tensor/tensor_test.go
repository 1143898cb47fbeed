package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend satisfies Backend without implementing any operation; the
// constructors and accessors under test never dispatch to the backend.
type fakeBackend struct {
	Backend
}

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 48, Shape{1, 4, 4, 3}.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 7, Shape{7}.NumElements())
}

func TestShape_Validate(t *testing.T) {
	assert.NoError(t, Shape{1, 256, 256, 3}.Validate())
	assert.Error(t, Shape{1, 0, 4}.Validate())
	assert.Error(t, Shape{-2}.Validate())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{48, 12, 3, 1}, Shape{1, 4, 4, 3}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
}

func TestShape_NormalizeAxis(t *testing.T) {
	s := Shape{1, 4, 4, 3}

	ax, err := s.NormalizeAxis(-1)
	require.NoError(t, err)
	assert.Equal(t, 3, ax)

	ax, err = s.NormalizeAxis(1)
	require.NoError(t, err)
	assert.Equal(t, 1, ax)

	_, err = s.NormalizeAxis(4)
	assert.Error(t, err)
	_, err = s.NormalizeAxis(-5)
	assert.Error(t, err)
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		needs   bool
		wantErr bool
	}{
		{"equal", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{"column", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{"row", Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{"rank lift", Shape{4}, Shape{2, 4}, Shape{2, 4}, true, false},
		{"channel vector", Shape{1, 1, 1, 3}, Shape{1, 4, 4, 3}, Shape{1, 4, 4, 3}, true, false},
		{"incompatible", Shape{2, 3}, Shape{2, 4}, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, needs, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.needs, needs)
		})
	}
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	backend := &fakeBackend{}

	_, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, backend)
	assert.Error(t, err)
}

func TestFromSlice_DataIsCopied(t *testing.T) {
	backend := &fakeBackend{}

	src := []float32{1, 2, 3, 4}
	x, err := FromSlice(src, Shape{2, 2}, backend)
	require.NoError(t, err)

	src[0] = 99
	assert.Equal(t, float32(1), x.Data()[0])
}

func TestTensor_At(t *testing.T) {
	backend := &fakeBackend{}

	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)
	require.NoError(t, err)

	assert.Equal(t, float32(1), x.At(0, 0))
	assert.Equal(t, float32(6), x.At(1, 2))
	assert.Equal(t, float32(4), x.At(1, 0))
}

func TestTensor_CloneIsDeep(t *testing.T) {
	backend := &fakeBackend{}

	x, err := FromSlice([]float32{1, 2}, Shape{2}, backend)
	require.NoError(t, err)

	y := x.Clone()
	y.Data()[0] = 42
	assert.Equal(t, float32(1), x.Data()[0])
}

func TestRawTensor_TypedViews(t *testing.T) {
	raw, err := NewRaw(Shape{2, 2}, Float32)
	require.NoError(t, err)

	view := raw.AsFloat32()
	require.Len(t, view, 4)
	view[3] = 7

	// The view aliases the underlying buffer.
	assert.Equal(t, float32(7), raw.AsFloat32()[3])
	assert.Equal(t, 16, raw.ByteSize())
}

func TestRawTensor_InvalidShape(t *testing.T) {
	_, err := NewRaw(Shape{2, 0}, Float32)
	assert.Error(t, err)
}

func TestDataType_Size(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, 1, Uint8.Size())
}
