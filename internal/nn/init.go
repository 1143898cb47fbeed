package nn

import (
	"math"
	"math/rand"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Xavier creates a tensor with Xavier/Glorot uniform initialization:
// values drawn uniformly from [-limit, limit] with
// limit = sqrt(6 / (fanIn + fanOut)).
//
// Freshly constructed networks use this before pretrained weights are bound;
// it keeps activation magnitudes stable through deep conv stacks.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return tensor.Uniform[float32](shape, -limit, limit, rng, backend)
}
