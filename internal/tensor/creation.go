package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{1, 4, 4, 3}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy))
	if err != nil {
		panic("zeros: " + err.Error())
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, T(1), b)
}

// Full creates a tensor filled with the given value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float tensor with values drawn from the standard normal
// distribution (mean 0, variance 1), using the given source. A nil source
// falls back to the shared global generator.
func Randn[T ~float32 | ~float64, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		if rng != nil {
			data[i] = T(rng.NormFloat64())
		} else {
			data[i] = T(rand.NormFloat64())
		}
	}
	return t
}

// Uniform creates a float tensor with values drawn uniformly from [low, high).
func Uniform[T ~float32 | ~float64, B Backend](shape Shape, low, high float64, rng *rand.Rand, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	span := high - low
	for i := range data {
		var u float64
		if rng != nil {
			u = rng.Float64()
		} else {
			u = rand.Float64()
		}
		data[i] = T(low + u*span)
	}
	return t
}

// OneHot creates a 1-D float32 tensor of the given length with a single 1.0
// at the given index. Used for style selectors.
func OneHot[B Backend](length, index int, b B) *Tensor[float32, B] {
	t := Zeros[float32, B](Shape{length}, b)
	if index < 0 || index >= length {
		panic("onehot: index out of range")
	}
	t.Data()[index] = 1.0
	return t
}
