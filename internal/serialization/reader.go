package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/x448/float16"

	"github.com/stylenet-ml/stylenet/internal/nn"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// LoadOptions controls checkpoint deserialization.
type LoadOptions struct {
	// SkipChecksum disables SHA-256 verification of the data section.
	// Useful for very large checkpoints on trusted storage.
	SkipChecksum bool
}

// Checkpoint is a fully loaded .stn file: the parsed header plus every
// weight tensor decoded into memory. Float16 payloads are widened to
// float32.
type Checkpoint struct {
	Header  Header
	Weights map[string]*tensor.RawTensor
}

// Architecture returns the ordered layer configurations stored in the
// checkpoint header.
func (c *Checkpoint) Architecture() []nn.LayerConfig {
	return c.Header.Architecture
}

// Weight returns the named weight tensor, or ErrTensorNotFound.
func (c *Checkpoint) Weight(name string) (*tensor.RawTensor, error) {
	raw, ok := c.Weights[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	return raw, nil
}

// Load reads and fully decodes a .stn checkpoint.
func Load(path string, opts LoadOptions) (*Checkpoint, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	return Decode(buf, opts)
}

// Decode parses a .stn checkpoint from an in-memory buffer.
func Decode(buf []byte, opts LoadOptions) (*Checkpoint, error) {
	if len(buf) < fixedPrefixSize {
		return nil, fmt.Errorf("%w: file too short", ErrInvalidMagic)
	}
	if !bytes.Equal(buf[:4], []byte(MagicBytes)) {
		return nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(buf[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: %d (supported: %d)", ErrUnsupportedVersion, version, FormatVersion)
	}
	storedChecksum := buf[8 : 8+ChecksumSize]
	headerSize := binary.LittleEndian.Uint64(buf[8+ChecksumSize : fixedPrefixSize])
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}
	headerEnd := int64(fixedPrefixSize) + int64(headerSize)
	if headerEnd > int64(len(buf)) {
		return nil, validationErrorf("", "header size %d exceeds file size %d", headerSize, len(buf))
	}

	var header Header
	if err := json.Unmarshal(buf[fixedPrefixSize:headerEnd], &header); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	dataStart := alignUp(headerEnd, HeaderAlignment)
	if dataStart > int64(len(buf)) {
		return nil, validationErrorf("", "data section starts past end of file")
	}
	data := buf[dataStart:]

	if err := ValidateHeader(&header, int64(len(data))); err != nil {
		return nil, err
	}

	if !opts.SkipChecksum {
		// Checksum covers the packed tensor payloads, not trailing bytes.
		sum := sha256.New()
		for _, meta := range header.Tensors {
			sum.Write(data[meta.Offset : meta.Offset+meta.Size])
		}
		if !bytes.Equal(sum.Sum(nil), storedChecksum) {
			return nil, ErrChecksumMismatch
		}
	}

	weights := make(map[string]*tensor.RawTensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		raw, err := decodeTensor(meta, data[meta.Offset:meta.Offset+meta.Size])
		if err != nil {
			return nil, fmt.Errorf("decode tensor %q: %w", meta.Name, err)
		}
		weights[meta.Name] = raw
	}
	return &Checkpoint{Header: header, Weights: weights}, nil
}

// decodeTensor turns storage bytes back into a RawTensor. Float16 payloads
// are widened to float32.
func decodeTensor(meta TensorMeta, data []byte) (*tensor.RawTensor, error) {
	shape := tensor.Shape(meta.Shape)
	switch meta.DType {
	case DTypeFloat32:
		raw, err := tensor.NewRaw(shape, tensor.Float32)
		if err != nil {
			return nil, err
		}
		dst := raw.AsFloat32()
		for i := range dst {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return raw, nil
	case DTypeFloat16:
		raw, err := tensor.NewRaw(shape, tensor.Float32)
		if err != nil {
			return nil, err
		}
		dst := raw.AsFloat32()
		for i := range dst {
			dst[i] = float16.Frombits(binary.LittleEndian.Uint16(data[i*2:])).Float32()
		}
		return raw, nil
	case DTypeFloat64:
		raw, err := tensor.NewRaw(shape, tensor.Float64)
		if err != nil {
			return nil, err
		}
		dst := raw.AsFloat64()
		for i := range dst {
			dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
		return raw, nil
	case DTypeInt32:
		raw, err := tensor.NewRaw(shape, tensor.Int32)
		if err != nil {
			return nil, err
		}
		dst := raw.AsInt32()
		for i := range dst {
			dst[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
		return raw, nil
	case DTypeUint8:
		raw, err := tensor.NewRaw(shape, tensor.Uint8)
		if err != nil {
			return nil, err
		}
		copy(raw.Data(), data)
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDType, meta.DType)
	}
}
