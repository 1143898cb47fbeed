// Package serialization implements the .stn checkpoint format that stylenet
// models persist to.
//
// Layout of a .stn file:
//
//	offset 0:  magic bytes "STYL" (4 bytes)
//	offset 4:  format version (uint32, little endian)
//	offset 8:  SHA-256 checksum of the data section (32 bytes)
//	offset 40: header size (uint64, little endian)
//	offset 48: header JSON
//	...        zero padding up to a 64-byte boundary
//	...        tensor data section (tensors at the offsets the header lists)
//
// The header carries the model architecture as an ordered list of
// class-name-tagged layer configurations plus the metadata of every weight
// tensor. Weight payloads are stored float32 by default and optionally
// float16 to halve checkpoint size; float16 payloads are widened back to
// float32 on load.
package serialization

import (
	"fmt"
	"time"

	"github.com/stylenet-ml/stylenet/internal/nn"
)

// Format constants.
const (
	MagicBytes      = "STYL"
	FormatVersion   = 1
	HeaderAlignment = 64 // tensor data aligned for direct slice interpretation
	ChecksumSize    = 32 // SHA-256

	// fixedPrefixSize is the byte size of everything before the header JSON:
	// magic + version + checksum + header size.
	fixedPrefixSize = 4 + 4 + ChecksumSize + 8

	// MaxHeaderSize bounds the header JSON so a corrupted size field cannot
	// trigger a huge allocation.
	MaxHeaderSize = 16 * 1024 * 1024

	// MaxTensorNameLen bounds serialized tensor names.
	MaxTensorNameLen = 256
)

// Data type string constants for serialization.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
	DTypeFloat16 = "float16" // storage-only: widened to float32 on load
	DTypeInt32   = "int32"
	DTypeUint8   = "uint8"
)

// Header is the JSON header of a .stn file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	LibraryVersion string            `json:"library_version"`
	ModelID        string            `json:"model_id"`   // UUID assigned at save time
	ModelType      string            `json:"model_type"` // e.g. "StylePredictor", "StyleTransformer"
	CreatedAt      time.Time         `json:"created_at"`
	Architecture   []nn.LayerConfig  `json:"architecture"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// TensorMeta describes one weight tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // e.g. "layer3.gamma_table"
	DType  string `json:"dtype"`  // storage dtype, may be "float16"
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

// storageSize returns the serialized byte size of one element of a storage
// dtype string.
func storageSize(dtype string) (int, error) {
	switch dtype {
	case DTypeFloat32, DTypeInt32:
		return 4, nil
	case DTypeFloat64:
		return 8, nil
	case DTypeFloat16:
		return 2, nil
	case DTypeUint8:
		return 1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDType, dtype)
	}
}
