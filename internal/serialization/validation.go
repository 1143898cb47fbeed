package serialization

// ValidateHeader checks the structural consistency of a checkpoint header
// against the size of the file's data section: tensor names, dtype sizes,
// shape/size agreement, and offset bounds and overlap.
func ValidateHeader(h *Header, dataSize int64) error {
	type span struct {
		name       string
		start, end int64
	}
	spans := make([]span, 0, len(h.Tensors))
	seen := make(map[string]bool, len(h.Tensors))

	for _, meta := range h.Tensors {
		if meta.Name == "" {
			return validationErrorf("", "empty tensor name")
		}
		if len(meta.Name) > MaxTensorNameLen {
			return validationErrorf(meta.Name[:MaxTensorNameLen], "name exceeds %d bytes", MaxTensorNameLen)
		}
		if seen[meta.Name] {
			return validationErrorf(meta.Name, "duplicate tensor name")
		}
		seen[meta.Name] = true

		elemSize, err := storageSize(meta.DType)
		if err != nil {
			return validationErrorf(meta.Name, "%v", err)
		}
		elements := int64(1)
		for _, dim := range meta.Shape {
			if dim <= 0 {
				return validationErrorf(meta.Name, "invalid dimension %d", dim)
			}
			elements *= int64(dim)
		}
		if want := elements * int64(elemSize); meta.Size != want {
			return validationErrorf(meta.Name, "size %d does not match shape %v with dtype %s (want %d)",
				meta.Size, meta.Shape, meta.DType, want)
		}
		if meta.Offset < 0 {
			return validationErrorf(meta.Name, "negative offset %d", meta.Offset)
		}
		if meta.Offset+meta.Size > dataSize {
			return validationErrorf(meta.Name, "extends past end of data section (%d+%d > %d)",
				meta.Offset, meta.Size, dataSize)
		}
		spans = append(spans, span{meta.Name, meta.Offset, meta.Offset + meta.Size})
	}

	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].start < spans[j].end && spans[j].start < spans[i].end {
				return validationErrorf(spans[i].name, "overlaps tensor %q", spans[j].name)
			}
		}
	}
	return nil
}
