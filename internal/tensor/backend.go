package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations; the layer
// code composes these primitives and never loops over elements itself.
//
// The only implementation shipped with stylenet is the pure-Go CPU backend.
// GPU backends are deliberately out of scope for this library.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D performs 2D convolution on NHWC input.
	// Input shape: [batch, height, width, in_channels]
	// Kernel shape: [kernel_h, kernel_w, in_channels, out_channels]
	// padH/padW apply symmetric zero padding to the spatial axes.
	Conv2D(input, kernel *RawTensor, strideH, strideW, padH, padW int) *RawTensor

	// Scalar operations (element-wise with scalar).
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	MulScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise).
	Sqrt(x *RawTensor) *RawTensor
	Rsqrt(x *RawTensor) *RawTensor
	Exp(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	Relu(x *RawTensor) *RawTensor
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                            // total sum (scalar result)
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension

	// Shape operations.
	Reshape(x *RawTensor, newShape Shape) *RawTensor
	Transpose(x *RawTensor, axes ...int) *RawTensor
	Expand(x *RawTensor, shape Shape) *RawTensor // broadcast to shape
	Unsqueeze(x *RawTensor, dim int) *RawTensor  // add dimension of size 1
	Squeeze(x *RawTensor, dim int) *RawTensor    // remove dimension of size 1

	// Joining and indexing.
	Cat(tensors []*RawTensor, dim int) *RawTensor                   // concatenate along dimension
	IndexSelect(x *RawTensor, dim int, index *RawTensor) *RawTensor // select rows along dim by int32 index vector

	// Image operations.
	UpsampleNearest2D(x *RawTensor, scale int) *RawTensor // nearest-neighbor spatial upsampling (NHWC)

	// Type conversion.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata.
	Name() string
}
