// Package model composes layers into runnable networks and implements the
// two-network arbitrary stylization pipeline: a style prediction network
// that maps a style image to a selector vector, and a style transformer
// network that renders a content image under that selector.
package model

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/stylenet-ml/stylenet/internal/nn"
	"github.com/stylenet-ml/stylenet/internal/serialization"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// ProgressFunc reports per-layer progress during a forward pass. It is
// called after each layer completes with the layer index, total layer
// count, and the layer's class name.
type ProgressFunc func(index, total int, className string)

// Network is an ordered stack of layers instantiated from a checkpoint
// architecture. Unlike the raw layer stack it tracks parameter names of
// the form "layer<i>.<name>" so pretrained weights can be bound to it.
type Network[B tensor.Backend] struct {
	layers  []nn.Layer[B]
	built   bool
	backend B
}

// NewNetwork instantiates a network from an ordered list of layer
// configurations.
func NewNetwork[B tensor.Backend](architecture []nn.LayerConfig, backend B) (*Network[B], error) {
	layers := make([]nn.Layer[B], 0, len(architecture))
	for i, cfg := range architecture {
		layer, err := nn.BuildLayer(cfg, backend)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d (%s)", i, cfg.ClassName)
		}
		layers = append(layers, layer)
	}
	return &Network[B]{layers: layers, backend: backend}, nil
}

// Layers returns the network's layers in order.
func (n *Network[B]) Layers() []nn.Layer[B] {
	return n.layers
}

// Build allocates every layer's parameters by propagating the input shape
// through the stack.
func (n *Network[B]) Build(inputShape tensor.Shape) error {
	shape := inputShape
	for i, layer := range n.layers {
		if err := layer.Build(shape); err != nil {
			return errors.Wrapf(err, "build layer %d (%s)", i, layer.Config().ClassName)
		}
		next, err := layer.OutputShape(shape)
		if err != nil {
			return errors.Wrapf(err, "layer %d (%s) output shape", i, layer.Config().ClassName)
		}
		shape = next
	}
	n.built = true
	return nil
}

// Forward runs the input through every layer in order.
func (n *Network[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return n.ForwardWithProgress(x, nil)
}

// ForwardWithProgress is Forward with a per-layer progress callback.
// A nil callback is allowed.
func (n *Network[B]) ForwardWithProgress(x *tensor.Tensor[float32, B], progress ProgressFunc) (*tensor.Tensor[float32, B], error) {
	out := x
	for i, layer := range n.layers {
		var err error
		out, err = layer.Forward(out)
		if err != nil {
			return nil, errors.Wrapf(err, "forward layer %d (%s)", i, layer.Config().ClassName)
		}
		if progress != nil {
			progress(i, len(n.layers), layer.Config().ClassName)
		}
	}
	return out, nil
}

// OutputShape propagates an input shape through the stack without
// allocating parameters.
func (n *Network[B]) OutputShape(inputShape tensor.Shape) (tensor.Shape, error) {
	shape := inputShape
	for i, layer := range n.layers {
		next, err := layer.OutputShape(shape)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d (%s)", i, layer.Config().ClassName)
		}
		shape = next
	}
	return shape, nil
}

// Architecture returns the serializable layer configurations.
func (n *Network[B]) Architecture() []nn.LayerConfig {
	arch := make([]nn.LayerConfig, len(n.layers))
	for i, layer := range n.layers {
		arch[i] = layer.Config()
	}
	return arch
}

// NamedParameters returns every parameter keyed by its checkpoint name,
// "layer<i>.<name>". The network must be built first.
func (n *Network[B]) NamedParameters() map[string]*nn.Parameter[B] {
	params := make(map[string]*nn.Parameter[B])
	for i, layer := range n.layers {
		for _, p := range layer.Parameters() {
			params[fmt.Sprintf("layer%d.%s", i, p.Name())] = p
		}
	}
	return params
}

// BindWeights replaces the network's parameters with checkpoint weights.
// Every network parameter must have a matching weight of the same shape;
// weights with no matching parameter are an error too, since they signal
// an architecture mismatch.
func (n *Network[B]) BindWeights(weights map[string]*tensor.RawTensor) error {
	if !n.built {
		return errors.New("network must be built before binding weights")
	}
	params := n.NamedParameters()
	for name, raw := range weights {
		param, ok := params[name]
		if !ok {
			return errors.Errorf("checkpoint weight %q has no matching parameter", name)
		}
		if raw.DType() != tensor.Float32 {
			return errors.Errorf("weight %q: expected float32, got %s", name, raw.DType())
		}
		if err := param.Bind(tensor.New[float32](raw, n.backend)); err != nil {
			return errors.Wrapf(err, "weight %q", name)
		}
		delete(params, name)
	}
	if len(params) > 0 {
		for name := range params {
			return errors.Errorf("parameter %q has no weight in checkpoint", name)
		}
	}
	return nil
}

// Save writes the network's architecture and weights to a .stn checkpoint.
func (n *Network[B]) Save(path, modelType string, float16 bool) error {
	weights := make(map[string]*tensor.RawTensor)
	for name, p := range n.NamedParameters() {
		weights[name] = p.Tensor().Raw()
	}
	return serialization.Save(path, n.Architecture(), weights, serialization.SaveOptions{
		ModelType: modelType,
		Float16:   float16,
	})
}

// LoadNetwork reads a checkpoint, instantiates its architecture, builds it
// for the given input shape, and binds the stored weights.
func LoadNetwork[B tensor.Backend](path string, inputShape tensor.Shape, backend B) (*Network[B], error) {
	if info, err := os.Stat(path); err == nil {
		klog.V(1).Infof("loading checkpoint %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	}
	ckpt, err := serialization.Load(path, serialization.LoadOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	net, err := NewNetwork(ckpt.Architecture(), backend)
	if err != nil {
		return nil, errors.Wrapf(err, "instantiate %s", path)
	}
	if err := net.Build(inputShape); err != nil {
		return nil, errors.Wrapf(err, "build %s", path)
	}
	if err := net.BindWeights(ckpt.Weights); err != nil {
		return nil, errors.Wrapf(err, "bind weights from %s", path)
	}
	klog.V(1).Infof("loaded %s: %s, %d layers, %d tensors",
		path, ckpt.Header.ModelType, len(net.layers), len(ckpt.Weights))
	return net, nil
}
