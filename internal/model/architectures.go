package model

import "github.com/stylenet-ml/stylenet/internal/nn"

// Architecture builders for the two networks of the stylization pipeline.
// These describe the shipped pretrained models; checkpoints carry their own
// architecture, so these are used when creating fresh models for export.

func padCfg(pad int) nn.LayerConfig {
	return nn.LayerConfig{
		ClassName: nn.ClassReflectionPadding2D,
		Config:    map[string]any{"padding": [][]int{{pad, pad}, {pad, pad}}},
	}
}

func convCfg(filters, kernel, stride int) nn.LayerConfig {
	return nn.LayerConfig{
		ClassName: nn.ClassConv2D,
		Config: map[string]any{
			"filters":     filters,
			"kernel_size": []int{kernel, kernel},
			"strides":     []int{stride, stride},
			"use_bias":    true,
			"activation":  "",
		},
	}
}

func instanceNormCfg() nn.LayerConfig {
	return nn.LayerConfig{
		ClassName: nn.ClassInstanceNormalization,
		Config: map[string]any{
			"axis":    -1,
			"epsilon": nn.DefaultEpsilon,
			"scale":   true,
			"center":  true,
		},
	}
}

func conditionalNormCfg(styleCount int) nn.LayerConfig {
	return nn.LayerConfig{
		ClassName: nn.ClassConditionalInstanceNormalization,
		Config: map[string]any{
			"axis":        -1,
			"epsilon":     nn.DefaultEpsilon,
			"scale":       true,
			"center":      true,
			"style_count": styleCount,
		},
	}
}

func reluCfg() nn.LayerConfig {
	return nn.LayerConfig{ClassName: nn.ClassReLU, Config: map[string]any{}}
}

func upsampleCfg(scale int) nn.LayerConfig {
	return nn.LayerConfig{
		ClassName: nn.ClassUpsampleNearest2D,
		Config:    map[string]any{"scale": scale},
	}
}

// DefaultPredictorArchitecture is the style prediction network: a strided
// conv trunk pooled down to a single vector, projected to a styleCount-way
// softmax selector.
func DefaultPredictorArchitecture(styleCount int) []nn.LayerConfig {
	arch := []nn.LayerConfig{}
	for _, filters := range []int{32, 64, 128, 192} {
		arch = append(arch,
			padCfg(1),
			convCfg(filters, 3, 2),
			instanceNormCfg(),
			reluCfg(),
		)
	}
	arch = append(arch,
		nn.LayerConfig{ClassName: nn.ClassGlobalAveragePooling2D, Config: map[string]any{}},
		nn.LayerConfig{
			ClassName: nn.ClassDense,
			Config: map[string]any{
				"units":      styleCount,
				"use_bias":   true,
				"activation": "",
			},
		},
		nn.LayerConfig{ClassName: nn.ClassSoftmax, Config: map[string]any{}},
	)
	return arch
}

// DefaultTransformerArchitecture is the style transformer network: a
// reflection-padded conv encoder, a conv body, and a nearest-neighbor
// upsampling decoder. Every conv except the last is followed by a
// conditional instance normalization keyed to the selector, and the output
// is mapped to [0, 255] by a tanh deprocess stage.
func DefaultTransformerArchitecture(styleCount int) []nn.LayerConfig {
	block := func(filters, kernel, stride int) []nn.LayerConfig {
		return []nn.LayerConfig{
			padCfg(kernel / 2),
			convCfg(filters, kernel, stride),
			conditionalNormCfg(styleCount),
			reluCfg(),
		}
	}

	var arch []nn.LayerConfig
	// Encoder.
	arch = append(arch, block(32, 9, 1)...)
	arch = append(arch, block(64, 3, 2)...)
	arch = append(arch, block(128, 3, 2)...)
	// Body.
	arch = append(arch, block(128, 3, 1)...)
	arch = append(arch, block(128, 3, 1)...)
	// Decoder.
	arch = append(arch, upsampleCfg(2))
	arch = append(arch, block(64, 3, 1)...)
	arch = append(arch, upsampleCfg(2))
	arch = append(arch, block(32, 3, 1)...)
	// Output projection.
	arch = append(arch,
		padCfg(4),
		nn.LayerConfig{
			ClassName: nn.ClassConv2D,
			Config: map[string]any{
				"filters":     3,
				"kernel_size": []int{9, 9},
				"strides":     []int{1, 1},
				"use_bias":    true,
				"activation":  "tanh",
			},
		},
		nn.LayerConfig{
			ClassName: nn.ClassDeprocess,
			Config:    map[string]any{"mode": "tanh"},
		},
	)
	return arch
}
