package nn

import (
	"math/rand"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Dense is a fully connected layer: output = activation(x @ W + b).
//
// Input shape:  [batch, in_features]
// Weight shape: [in_features, units]
// Bias shape:   [units]
// Output shape: [batch, units]
//
// The style predictor uses it as the head that turns pooled image features
// into style logits.
type Dense[B tensor.Backend] struct {
	units      int
	useBias    bool
	activation string

	weight *Parameter[B]
	bias   *Parameter[B]

	inFeatures int
	built      bool
	rng        *rand.Rand
	backend    B
}

// NewDense creates a fully connected layer. An unsupported activation is
// rejected with ErrInvalidConfig.
func NewDense[B tensor.Backend](units int, useBias bool, activation string, backend B) (*Dense[B], error) {
	if units <= 0 {
		return nil, shapeErrorf("dense", nil, "invalid unit count %d", units)
	}
	if err := validateActivation(activation); err != nil {
		return nil, err
	}
	return &Dense[B]{
		units:      units,
		useBias:    useBias,
		activation: activation,
		backend:    backend,
	}, nil
}

// SeedWeights sets the random source used for weight initialization at Build
// time.
func (l *Dense[B]) SeedWeights(rng *rand.Rand) {
	l.rng = rng
}

// Build implements Layer.
func (l *Dense[B]) Build(inputShape tensor.Shape) error {
	if len(inputShape) != 2 {
		return shapeErrorf("dense build", inputShape, "expected 2D input [N,features], got %dD", len(inputShape))
	}
	inFeatures := inputShape[1]
	if inFeatures <= 0 {
		return shapeErrorf("dense build", inputShape, "feature axis has unknown size")
	}

	if l.built {
		if inFeatures != l.inFeatures {
			return shapeErrorf("dense build", inputShape, "already built for %d features", l.inFeatures)
		}
		return nil
	}

	l.inFeatures = inFeatures
	l.weight = NewParameter("weight", Xavier(inFeatures, l.units, tensor.Shape{inFeatures, l.units}, l.rng, l.backend))
	if l.useBias {
		l.bias = NewParameter("bias", tensor.Zeros[float32](tensor.Shape{l.units}, l.backend))
	}
	l.built = true
	return nil
}

// Forward performs the matrix multiply, bias add and activation.
func (l *Dense[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if !l.built {
		if err := l.Build(x.Shape()); err != nil {
			return nil, err
		}
	}
	if len(x.Shape()) != 2 || x.Shape()[1] != l.inFeatures {
		return nil, shapeErrorf("dense", x.Shape(), "expected input [N,%d]", l.inFeatures)
	}

	out := x.MatMul(l.weight.Tensor())
	if l.useBias {
		out = out.Add(l.bias.Tensor().Reshape(1, l.units))
	}
	return applyActivation(out, l.activation), nil
}

// OutputShape implements Layer.
func (l *Dense[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	if len(inputShape) != 2 {
		return nil, shapeErrorf("dense", inputShape, "expected 2D input [N,features], got %dD", len(inputShape))
	}
	return tensor.Shape{inputShape[0], l.units}, nil
}

// Config implements Layer.
func (l *Dense[B]) Config() LayerConfig {
	return LayerConfig{
		ClassName: ClassDense,
		Config: map[string]any{
			"units":      l.units,
			"use_bias":   l.useBias,
			"activation": l.activation,
		},
	}
}

// Parameters implements Layer.
func (l *Dense[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	if l.weight != nil {
		params = append(params, l.weight)
	}
	if l.bias != nil {
		params = append(params, l.bias)
	}
	return params
}
