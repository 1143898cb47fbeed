package model

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/stylenet-ml/stylenet/internal/nn"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// DefaultStyleSize is the spatial size style images are assumed to be
// resized to before prediction. The predictor is fully convolutional with
// global pooling so other sizes also work; this is the size the shipped
// weights were trained at.
const DefaultStyleSize = 256

// Stylizer is the full arbitrary-stylization pipeline: a style prediction
// network plus a style transformer network sharing a style count.
type Stylizer[B tensor.Backend] struct {
	predictor   *Network[B]
	transformer *Network[B]
	styleCount  int
	backend     B
}

// NewStylizer wires up a predictor and a transformer. The predictor's
// output width and the transformer's conditional normalization tables must
// agree on the style count.
func NewStylizer[B tensor.Backend](predictor, transformer *Network[B], backend B) (*Stylizer[B], error) {
	styleCount := 0
	for _, layer := range transformer.Layers() {
		cin, ok := layer.(*nn.ConditionalInstanceNormalization[B])
		if !ok {
			continue
		}
		if styleCount == 0 {
			styleCount = cin.StyleCount()
		} else if cin.StyleCount() != styleCount {
			return nil, errors.Errorf("transformer mixes style counts %d and %d", styleCount, cin.StyleCount())
		}
	}
	if styleCount == 0 {
		return nil, errors.New("transformer has no conditional instance normalization layers")
	}

	predOut, err := predictor.OutputShape(tensor.Shape{1, DefaultStyleSize, DefaultStyleSize, 3})
	if err != nil {
		return nil, errors.Wrap(err, "predictor output shape")
	}
	if len(predOut) != 2 || predOut[1] != styleCount {
		return nil, errors.Errorf("predictor output shape %v does not match transformer style count %d", predOut, styleCount)
	}

	return &Stylizer[B]{
		predictor:   predictor,
		transformer: transformer,
		styleCount:  styleCount,
		backend:     backend,
	}, nil
}

// LoadStylizer loads the two networks of the pipeline from their .stn
// checkpoints.
func LoadStylizer[B tensor.Backend](predictorPath, transformerPath string, backend B) (*Stylizer[B], error) {
	predictor, err := LoadNetwork(predictorPath, tensor.Shape{1, DefaultStyleSize, DefaultStyleSize, 3}, backend)
	if err != nil {
		return nil, errors.Wrap(err, "load predictor")
	}
	transformer, err := LoadNetwork(transformerPath, tensor.Shape{1, DefaultStyleSize, DefaultStyleSize, 3}, backend)
	if err != nil {
		return nil, errors.Wrap(err, "load transformer")
	}
	return NewStylizer(predictor, transformer, backend)
}

// StyleCount returns the number of styles the pipeline was trained on.
func (s *Stylizer[B]) StyleCount() int {
	return s.styleCount
}

// Predictor returns the style prediction network.
func (s *Stylizer[B]) Predictor() *Network[B] {
	return s.predictor
}

// Transformer returns the style transformer network.
func (s *Stylizer[B]) Transformer() *Network[B] {
	return s.transformer
}

// Predict runs the style prediction network on a [1, H, W, 3] style image
// tensor and returns the selector vector.
func (s *Stylizer[B]) Predict(style *tensor.Tensor[float32, B]) ([]float32, error) {
	out, err := s.predictor.Forward(style)
	if err != nil {
		return nil, errors.Wrap(err, "predict style")
	}
	shape := out.Shape()
	if len(shape) != 2 || shape[0] != 1 || shape[1] != s.styleCount {
		return nil, errors.Errorf("unexpected predictor output shape %v", shape)
	}
	selector := make([]float32, s.styleCount)
	copy(selector, out.Data())
	return selector, nil
}

// StylizeOptions tunes a stylization pass.
type StylizeOptions struct {
	// Blend interpolates between the identity selector (one-hot style 0,
	// blend 0) and the predicted selector (blend 1). Values outside [0, 1]
	// extrapolate.
	Blend float32

	// Progress, when set, receives per-layer progress of the transformer
	// pass.
	Progress ProgressFunc
}

// Stylize renders the content image under the style image's predicted
// selector. Both tensors are [1, H, W, 3] with values in [0, 255]; the
// output has the transformer's output geometry for the content size.
func (s *Stylizer[B]) Stylize(content, style *tensor.Tensor[float32, B], opts StylizeOptions) (*tensor.Tensor[float32, B], error) {
	selector, err := s.Predict(style)
	if err != nil {
		return nil, err
	}
	return s.StylizeWithSelector(content, blendSelector(selector, opts.Blend), opts.Progress)
}

// StylizeWithSelector renders the content image under an explicit selector,
// bypassing style prediction.
func (s *Stylizer[B]) StylizeWithSelector(content *tensor.Tensor[float32, B], selector []float32, progress ProgressFunc) (*tensor.Tensor[float32, B], error) {
	if err := s.setSelector(selector); err != nil {
		return nil, err
	}
	klog.V(2).Infof("stylizing %v with selector %v", content.Shape(), selector)
	out, err := s.transformer.ForwardWithProgress(content, progress)
	if err != nil {
		return nil, errors.Wrap(err, "transform content")
	}
	return out, nil
}

// setSelector pushes the selector into every conditional normalization
// layer of the transformer.
func (s *Stylizer[B]) setSelector(selector []float32) error {
	for i, layer := range s.transformer.Layers() {
		cin, ok := layer.(*nn.ConditionalInstanceNormalization[B])
		if !ok {
			continue
		}
		if err := cin.SetSelector(selector); err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
	}
	return nil
}

// blendSelector interpolates between the one-hot style-0 selector and the
// predicted one. blend 1 returns the prediction unchanged.
func blendSelector(predicted []float32, blend float32) []float32 {
	if blend == 1.0 {
		return predicted
	}
	out := make([]float32, len(predicted))
	for i, v := range predicted {
		out[i] = blend * v
	}
	if len(out) > 0 {
		out[0] += 1.0 - blend
	}
	return out
}
