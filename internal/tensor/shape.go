package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
//
// Image tensors in stylenet are laid out NHWC:
// Shape{batch, height, width, channels}.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// NormalizeAxis resolves a possibly-negative axis index against the shape's
// rank (-1 means the last axis). Returns an error when the axis falls outside
// the tensor's rank.
func (s Shape) NormalizeAxis(axis int) (int, error) {
	ndim := len(s)
	if axis < 0 {
		axis += ndim
	}
	if axis < 0 || axis >= ndim {
		return 0, fmt.Errorf("axis %d out of range for %dD shape %v", axis, ndim, s)
	}
	return axis, nil
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Returns the broadcasted shape, a flag indicating if broadcasting is needed,
// and an error if the shapes are incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), true, nil
//	(1, 5) + (3, 5) → (3, 5), true, nil
//	(4,)   + (2, 4) → (2, 4), true, nil
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	la, lb := len(a), len(b)
	n := la
	if lb > n {
		n = lb
	}

	out := make(Shape, n)
	needsBroadcast := la != lb

	for i := 0; i < n; i++ {
		da, db := 1, 1
		if i >= n-la {
			da = a[i-(n-la)]
		}
		if i >= n-lb {
			db = b[i-(n-lb)]
		}

		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i] = db
			needsBroadcast = true
		case db == 1:
			out[i] = da
			needsBroadcast = true
		default:
			return nil, false, fmt.Errorf("shapes %v and %v are not broadcastable (dim %d: %d vs %d)", a, b, i, da, db)
		}
	}

	return out, needsBroadcast, nil
}
