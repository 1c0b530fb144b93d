package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/born-ml/layerwise/internal/tensor"
)

// Write encodes tensors and metadata to w. Tensors are written in name order.
// The SHA-256 of the data section is added to the metadata under ChecksumKey.
func Write[T tensor.Numeric](w io.Writer, tensors map[string]*tensor.Tensor[T], metadata map[string]string) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	names := slices.Sorted(maps.Keys(tensors))
	dtype := dtypeToSafeTensors(tensor.DTypeOf[T]())

	header := make(map[string]any, len(names)+1)
	var data []byte
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}

		t := tensors[name]
		begin := int64(len(data))
		data = encode(data, t.Data())

		shape := make([]int64, t.Rank())
		for i, dim := range t.Shape() {
			shape[i] = int64(dim)
		}
		header[name] = TensorHeader{
			DType:       dtype,
			Shape:       shape,
			DataOffsets: [2]int64{begin, int64(len(data))},
		}
	}

	meta := make(map[string]string, len(metadata)+1)
	maps.Copy(meta, metadata)
	meta[ChecksumKey] = ComputeChecksum(data)
	header[metadataKey] = meta

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if pad := len(headerJSON) % headerAlignment; pad != 0 {
		headerJSON = append(headerJSON, bytes.Repeat([]byte{' '}, headerAlignment-pad)...)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// WriteFile writes tensors to a SafeTensors file at path, replacing any
// existing file.
func WriteFile[T tensor.Numeric](path string, tensors map[string]*tensor.Tensor[T], metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return Write(file, tensors, metadata)
}
