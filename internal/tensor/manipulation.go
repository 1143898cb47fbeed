package tensor

// Cat concatenates tensors along the given dimension.
// All tensors must share shape except at dim.
//
// Example:
//
//	a := tensor.Zeros[float32](tensor.Shape{1, 2, 4, 3}, backend)
//	b := tensor.Zeros[float32](tensor.Shape{1, 3, 4, 3}, backend)
//	c := tensor.Cat([]*tensor.Tensor[float32, B]{a, b}, 1) // [1, 5, 4, 3]
func Cat[T DType, B Backend](tensors []*Tensor[T, B], dim int) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.raw
	}
	b := tensors[0].backend
	return New[T, B](b.Cat(raws, dim), b)
}

// Unsqueeze adds a dimension of size 1 at the given position.
func (t *Tensor[T, B]) Unsqueeze(dim int) *Tensor[T, B] {
	raw := t.backend.Unsqueeze(t.raw, dim)
	return New[T, B](raw, t.backend)
}

// Squeeze removes a dimension of size 1 at the given position.
func (t *Tensor[T, B]) Squeeze(dim int) *Tensor[T, B] {
	raw := t.backend.Squeeze(t.raw, dim)
	return New[T, B](raw, t.backend)
}

// Expand broadcasts the tensor to the given shape. Dimensions of size 1 are
// repeated; other dimensions must match.
func (t *Tensor[T, B]) Expand(shape Shape) *Tensor[T, B] {
	raw := t.backend.Expand(t.raw, shape)
	return New[T, B](raw, t.backend)
}

// IndexSelect selects slices along dim using an int32 index vector.
// The output has the same shape as the input except at dim, where it has
// one entry per index. Indices may repeat and appear in any order, which is
// what reflection padding relies on.
//
// Example:
//
//	x := ... // [1, 4, 4, 3]
//	idx, _ := tensor.FromSlice[int32]([]int32{1, 0, 1, 2, 3, 2}, tensor.Shape{6}, backend)
//	y := x.IndexSelect(2, idx) // [1, 4, 6, 3]
func (t *Tensor[T, B]) IndexSelect(dim int, index *Tensor[int32, B]) *Tensor[T, B] {
	raw := t.backend.IndexSelect(t.raw, dim, index.raw)
	return New[T, B](raw, t.backend)
}

// UpsampleNearest2D repeats each spatial pixel scale×scale times (NHWC input).
func (t *Tensor[T, B]) UpsampleNearest2D(scale int) *Tensor[T, B] {
	raw := t.backend.UpsampleNearest2D(t.raw, scale)
	return New[T, B](raw, t.backend)
}
