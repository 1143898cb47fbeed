package tensor

// Add performs element-wise addition with broadcasting: result = t + other.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Add(t.raw, other.raw)
	return New[T, B](raw, t.backend)
}

// Sub performs element-wise subtraction with broadcasting: result = t - other.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Sub(t.raw, other.raw)
	return New[T, B](raw, t.backend)
}

// Mul performs element-wise multiplication with broadcasting: result = t * other.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Mul(t.raw, other.raw)
	return New[T, B](raw, t.backend)
}

// Div performs element-wise division with broadcasting: result = t / other.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.Div(t.raw, other.raw)
	return New[T, B](raw, t.backend)
}

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	raw := t.backend.MatMul(t.raw, other.raw)
	return New[T, B](raw, t.backend)
}

// Reshape returns a tensor with the same data viewed under a new shape.
// The new shape must describe the same number of elements.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	raw := t.backend.Reshape(t.raw, Shape(newShape))
	return New[T, B](raw, t.backend)
}

// Transpose permutes the tensor's axes. With no arguments it reverses them.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	raw := t.backend.Transpose(t.raw, axes...)
	return New[T, B](raw, t.backend)
}

// AddScalar adds a scalar to every element.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	raw := t.backend.AddScalar(t.raw, scalar)
	return New[T, B](raw, t.backend)
}

// SubScalar subtracts a scalar from every element.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	raw := t.backend.SubScalar(t.raw, scalar)
	return New[T, B](raw, t.backend)
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	raw := t.backend.MulScalar(t.raw, scalar)
	return New[T, B](raw, t.backend)
}

// DivScalar divides every element by a scalar.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	raw := t.backend.DivScalar(t.raw, scalar)
	return New[T, B](raw, t.backend)
}

// Sqrt computes the element-wise square root.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	raw := t.backend.Sqrt(t.raw)
	return New[T, B](raw, t.backend)
}

// Rsqrt computes the element-wise reciprocal square root (1/sqrt(x)).
func (t *Tensor[T, B]) Rsqrt() *Tensor[T, B] {
	raw := t.backend.Rsqrt(t.raw)
	return New[T, B](raw, t.backend)
}

// Exp computes the element-wise exponential.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	raw := t.backend.Exp(t.raw)
	return New[T, B](raw, t.backend)
}

// Tanh computes the element-wise hyperbolic tangent.
func (t *Tensor[T, B]) Tanh() *Tensor[T, B] {
	raw := t.backend.Tanh(t.raw)
	return New[T, B](raw, t.backend)
}

// Sigmoid computes the element-wise logistic sigmoid.
func (t *Tensor[T, B]) Sigmoid() *Tensor[T, B] {
	raw := t.backend.Sigmoid(t.raw)
	return New[T, B](raw, t.backend)
}

// Relu computes the element-wise rectified linear unit: max(x, 0).
func (t *Tensor[T, B]) Relu() *Tensor[T, B] {
	raw := t.backend.Relu(t.raw)
	return New[T, B](raw, t.backend)
}

// Softmax computes softmax along the given dimension.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	raw := t.backend.Softmax(t.raw, dim)
	return New[T, B](raw, t.backend)
}

// Sum computes the total sum of all elements (scalar result, shape []).
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	raw := t.backend.Sum(t.raw)
	return New[T, B](raw, t.backend)
}

// SumDim sums along a dimension. Negative dims index from the end.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	raw := t.backend.SumDim(t.raw, dim, keepDim)
	return New[T, B](raw, t.backend)
}

// MeanDim computes the mean along a dimension. Negative dims index from the end.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	raw := t.backend.MeanDim(t.raw, dim, keepDim)
	return New[T, B](raw, t.backend)
}
