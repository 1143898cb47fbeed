package nn

import (
	"fmt"

	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// Layer class names used in serialized configurations. The set is closed:
// stylization models are assembled from exactly these layer kinds, so
// reconstruction dispatches over one switch instead of a dynamic registry.
const (
	ClassReflectionPadding2D              = "ReflectionPadding2D"
	ClassInstanceNormalization            = "InstanceNormalization"
	ClassConditionalInstanceNormalization = "ConditionalInstanceNormalization"
	ClassDeprocess                        = "Deprocess"
	ClassConv2D                           = "Conv2D"
	ClassDense                            = "Dense"
	ClassUpsampleNearest2D                = "UpsampleNearest2D"
	ClassReLU                             = "ReLU"
	ClassSoftmax                          = "Softmax"
	ClassGlobalAveragePooling2D           = "GlobalAveragePooling2D"
	ClassSequential                       = "Sequential"
)

// LayerConfig is the class-name-tagged configuration record a layer
// serializes to and reconstructs from. Config keys and value forms are fixed
// per class; round-tripping a layer through Config and BuildLayer is
// lossless.
type LayerConfig struct {
	ClassName string         `json:"class_name"`
	Config    map[string]any `json:"config"`
}

// BuildLayer reconstructs a layer from its serialized configuration.
// Unknown class names and malformed option values fail with ErrInvalidConfig.
// Weights are not part of the configuration; the caller builds the layer and
// binds pretrained weights afterwards.
func BuildLayer[B tensor.Backend](cfg LayerConfig, backend B) (Layer[B], error) {
	switch cfg.ClassName {
	case ClassReflectionPadding2D:
		pad, err := parsePadding(cfg.Config["padding"])
		if err != nil {
			return nil, err
		}
		return NewReflectionPadding2D[B](pad[0][0], pad[0][1], pad[1][0], pad[1][1])

	case ClassInstanceNormalization:
		axis, err := cfgInt(cfg, "axis")
		if err != nil {
			return nil, err
		}
		epsilon, err := cfgFloat32(cfg, "epsilon")
		if err != nil {
			return nil, err
		}
		scale, err := cfgBool(cfg, "scale")
		if err != nil {
			return nil, err
		}
		center, err := cfgBool(cfg, "center")
		if err != nil {
			return nil, err
		}
		return NewInstanceNormalization[B](axis, epsilon, scale, center, backend), nil

	case ClassConditionalInstanceNormalization:
		axis, err := cfgInt(cfg, "axis")
		if err != nil {
			return nil, err
		}
		epsilon, err := cfgFloat32(cfg, "epsilon")
		if err != nil {
			return nil, err
		}
		scale, err := cfgBool(cfg, "scale")
		if err != nil {
			return nil, err
		}
		center, err := cfgBool(cfg, "center")
		if err != nil {
			return nil, err
		}
		styleCount, err := cfgInt(cfg, "style_count")
		if err != nil {
			return nil, err
		}
		return NewConditionalInstanceNormalization[B](styleCount, axis, epsilon, scale, center, backend)

	case ClassDeprocess:
		mode, err := cfgString(cfg, "mode")
		if err != nil {
			return nil, err
		}
		return NewDeprocess[B](mode)

	case ClassConv2D:
		filters, err := cfgInt(cfg, "filters")
		if err != nil {
			return nil, err
		}
		kernel, err := cfgIntPair(cfg, "kernel_size")
		if err != nil {
			return nil, err
		}
		strides, err := cfgIntPair(cfg, "strides")
		if err != nil {
			return nil, err
		}
		useBias, err := cfgBool(cfg, "use_bias")
		if err != nil {
			return nil, err
		}
		activation, err := cfgString(cfg, "activation")
		if err != nil {
			return nil, err
		}
		return NewConv2D[B](filters, kernel[0], kernel[1], strides[0], strides[1], useBias, activation, backend)

	case ClassDense:
		units, err := cfgInt(cfg, "units")
		if err != nil {
			return nil, err
		}
		useBias, err := cfgBool(cfg, "use_bias")
		if err != nil {
			return nil, err
		}
		activation, err := cfgString(cfg, "activation")
		if err != nil {
			return nil, err
		}
		return NewDense[B](units, useBias, activation, backend)

	case ClassUpsampleNearest2D:
		scale, err := cfgInt(cfg, "scale")
		if err != nil {
			return nil, err
		}
		return NewUpsampleNearest2D[B](scale)

	case ClassReLU:
		return NewReLU[B](), nil

	case ClassSoftmax:
		return NewSoftmax[B](), nil

	case ClassGlobalAveragePooling2D:
		return NewGlobalAveragePooling2D[B](), nil

	case ClassSequential:
		rawLayers, ok := cfg.Config["layers"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: Sequential config missing layer list", ErrInvalidConfig)
		}
		layers := make([]Layer[B], 0, len(rawLayers))
		for i, raw := range rawLayers {
			nested, err := layerConfigFromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: Sequential layer %d: %v", ErrInvalidConfig, i, err)
			}
			layer, err := BuildLayer(nested, backend)
			if err != nil {
				return nil, fmt.Errorf("Sequential layer %d: %w", i, err)
			}
			layers = append(layers, layer)
		}
		return NewSequential(layers...), nil

	default:
		return nil, fmt.Errorf("%w: unknown layer class %q", ErrInvalidConfig, cfg.ClassName)
	}
}

// layerConfigFromAny converts a decoded JSON value back to a LayerConfig.
// Accepts both LayerConfig (pre-serialization) and map form (post-JSON).
func layerConfigFromAny(v any) (LayerConfig, error) {
	switch c := v.(type) {
	case LayerConfig:
		return c, nil
	case map[string]any:
		name, ok := c["class_name"].(string)
		if !ok {
			return LayerConfig{}, fmt.Errorf("missing class_name")
		}
		config, ok := c["config"].(map[string]any)
		if !ok {
			return LayerConfig{}, fmt.Errorf("missing config for class %q", name)
		}
		return LayerConfig{ClassName: name, Config: config}, nil
	default:
		return LayerConfig{}, fmt.Errorf("unexpected layer config type %T", v)
	}
}

// parsePadding accepts the three construction-time padding forms —
// a scalar, a 2-element [height, width] pair, or a full 2×2
// [[top, bottom], [left, right]] — and normalizes to the 2×2 form.
func parsePadding(v any) ([2][2]int, error) {
	var out [2][2]int

	if n, ok := anyToInt(v); ok {
		return [2][2]int{{n, n}, {n, n}}, nil
	}

	list, ok := anyToList(v)
	if !ok || len(list) != 2 {
		return out, fmt.Errorf("%w: padding must be a scalar, a 2-element pair, or a 2x2 nested pair, got %v", ErrInvalidConfig, v)
	}

	// [height, width] pair of scalars.
	if h, okH := anyToInt(list[0]); okH {
		w, okW := anyToInt(list[1])
		if !okW {
			return out, fmt.Errorf("%w: mixed padding forms in %v", ErrInvalidConfig, v)
		}
		return [2][2]int{{h, h}, {w, w}}, nil
	}

	// [[top, bottom], [left, right]] nested pairs.
	for i := 0; i < 2; i++ {
		pair, ok := anyToList(list[i])
		if !ok || len(pair) != 2 {
			return out, fmt.Errorf("%w: padding pair %d must have exactly 2 entries, got %v", ErrInvalidConfig, i, list[i])
		}
		for j := 0; j < 2; j++ {
			n, ok := anyToInt(pair[j])
			if !ok {
				return out, fmt.Errorf("%w: padding entries must be integers, got %v", ErrInvalidConfig, pair[j])
			}
			out[i][j] = n
		}
	}
	return out, nil
}

func cfgInt(cfg LayerConfig, key string) (int, error) {
	v, ok := cfg.Config[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s config missing %q", ErrInvalidConfig, cfg.ClassName, key)
	}
	n, ok := anyToInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s option %q must be an integer, got %T", ErrInvalidConfig, cfg.ClassName, key, v)
	}
	return n, nil
}

func cfgFloat32(cfg LayerConfig, key string) (float32, error) {
	v, ok := cfg.Config[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s config missing %q", ErrInvalidConfig, cfg.ClassName, key)
	}
	switch f := v.(type) {
	case float32:
		return f, nil
	case float64:
		return float32(f), nil
	case int:
		return float32(f), nil
	default:
		return 0, fmt.Errorf("%w: %s option %q must be a number, got %T", ErrInvalidConfig, cfg.ClassName, key, v)
	}
}

func cfgBool(cfg LayerConfig, key string) (bool, error) {
	v, ok := cfg.Config[key]
	if !ok {
		return false, fmt.Errorf("%w: %s config missing %q", ErrInvalidConfig, cfg.ClassName, key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s option %q must be a boolean, got %T", ErrInvalidConfig, cfg.ClassName, key, v)
	}
	return b, nil
}

func cfgString(cfg LayerConfig, key string) (string, error) {
	v, ok := cfg.Config[key]
	if !ok {
		return "", fmt.Errorf("%w: %s config missing %q", ErrInvalidConfig, cfg.ClassName, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s option %q must be a string, got %T", ErrInvalidConfig, cfg.ClassName, key, v)
	}
	return s, nil
}

func cfgIntPair(cfg LayerConfig, key string) ([2]int, error) {
	var out [2]int
	v, ok := cfg.Config[key]
	if !ok {
		return out, fmt.Errorf("%w: %s config missing %q", ErrInvalidConfig, cfg.ClassName, key)
	}
	list, ok := anyToList(v)
	if !ok || len(list) != 2 {
		return out, fmt.Errorf("%w: %s option %q must be a 2-element list, got %v", ErrInvalidConfig, cfg.ClassName, key, v)
	}
	for i := 0; i < 2; i++ {
		n, ok := anyToInt(list[i])
		if !ok {
			return out, fmt.Errorf("%w: %s option %q entries must be integers, got %v", ErrInvalidConfig, cfg.ClassName, key, list[i])
		}
		out[i] = n
	}
	return out, nil
}

// anyToInt accepts the integer encodings that survive a JSON round trip.
func anyToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// anyToList accepts the list encodings that survive a JSON round trip.
func anyToList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []int:
		out := make([]any, len(l))
		for i, n := range l {
			out[i] = n
		}
		return out, true
	case [][]int:
		out := make([]any, len(l))
		for i, n := range l {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]any, len(l))
		for i, n := range l {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}
