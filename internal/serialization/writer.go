package serialization

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/x448/float16"

	"github.com/stylenet-ml/stylenet/internal/nn"
	"github.com/stylenet-ml/stylenet/internal/tensor"
)

// LibraryVersion is stamped into every checkpoint header.
const LibraryVersion = "0.3.0"

// SaveOptions controls checkpoint serialization.
type SaveOptions struct {
	// ModelType is a free-form tag describing the architecture, e.g.
	// "StylePredictor".
	ModelType string

	// Float16 stores float32 weights as IEEE 754 half precision, halving
	// checkpoint size. Other dtypes are stored unchanged.
	Float16 bool

	// Metadata is copied into the header verbatim.
	Metadata map[string]string
}

// Save writes a checkpoint with the given architecture and named weight
// tensors to path. Tensors are laid out in their sorted name order so the
// output is deterministic for a given model.
func Save(path string, architecture []nn.LayerConfig, weights map[string]*tensor.RawTensor, opts SaveOptions) error {
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	// Encode payloads first so offsets and the checksum are known before
	// anything is written.
	metas := make([]TensorMeta, 0, len(names))
	payloads := make([][]byte, 0, len(names))
	var offset int64
	for _, name := range names {
		raw := weights[name]
		data, dtype, err := encodeTensor(raw, opts.Float16)
		if err != nil {
			return fmt.Errorf("encode tensor %q: %w", name, err)
		}
		metas = append(metas, TensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  append([]int(nil), raw.Shape()...),
			Offset: offset,
			Size:   int64(len(data)),
		})
		payloads = append(payloads, data)
		offset += int64(len(data))
	}

	checksum := sha256.New()
	for _, data := range payloads {
		checksum.Write(data)
	}

	header := Header{
		FormatVersion:  FormatVersion,
		LibraryVersion: LibraryVersion,
		ModelID:        uuid.NewString(),
		ModelType:      opts.ModelType,
		CreatedAt:      time.Now().UTC(),
		Architecture:   architecture,
		Tensors:        metas,
		Metadata:       opts.Metadata,
	}
	headerJSON, err := json.Marshal(&header)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, len(headerJSON))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create checkpoint: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	if _, err := w.WriteString(MagicBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(FormatVersion)); err != nil {
		return err
	}
	if _, err := w.Write(checksum.Sum(nil)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return err
	}
	if _, err := w.Write(headerJSON); err != nil {
		return err
	}

	// Pad to the data section alignment boundary.
	dataStart := alignUp(int64(fixedPrefixSize+len(headerJSON)), HeaderAlignment)
	padding := dataStart - int64(fixedPrefixSize+len(headerJSON))
	if padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return err
		}
	}

	for i, data := range payloads {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write tensor %q: %w", names[i], err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush checkpoint: %w", err)
	}
	return f.Sync()
}

// encodeTensor serializes a raw tensor into its storage bytes, converting
// float32 to float16 when requested.
func encodeTensor(raw *tensor.RawTensor, toFloat16 bool) ([]byte, string, error) {
	if toFloat16 && raw.DType() == tensor.Float32 {
		src := raw.AsFloat32()
		data := make([]byte, len(src)*2)
		for i, v := range src {
			binary.LittleEndian.PutUint16(data[i*2:], float16.Fromfloat32(v).Bits())
		}
		return data, DTypeFloat16, nil
	}

	switch raw.DType() {
	case tensor.Float32:
		src := raw.AsFloat32()
		data := make([]byte, len(src)*4)
		for i, v := range src {
			binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
		}
		return data, DTypeFloat32, nil
	case tensor.Float64:
		src := raw.AsFloat64()
		data := make([]byte, len(src)*8)
		for i, v := range src {
			binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
		}
		return data, DTypeFloat64, nil
	case tensor.Int32:
		src := raw.AsInt32()
		data := make([]byte, len(src)*4)
		for i, v := range src {
			binary.LittleEndian.PutUint32(data[i*4:], uint32(v))
		}
		return data, DTypeInt32, nil
	case tensor.Uint8:
		data := make([]byte, len(raw.Data()))
		copy(data, raw.Data())
		return data, DTypeUint8, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedDType, raw.DType())
	}
}

func alignUp(n, alignment int64) int64 {
	return (n + alignment - 1) / alignment * alignment
}
