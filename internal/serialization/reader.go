package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/born-ml/layerwise/internal/tensor"
)

// File is a decoded SafeTensors file held in memory.
type File struct {
	metadata map[string]string
	tensors  []TensorMeta // sorted by name
	data     []byte
}

// Decode reads and validates a SafeTensors stream.
//
// Tensor names, dtypes, byte ranges and sizes are validated, and the data
// checksum is verified when the metadata carries one.
func Decode(r io.Reader) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	f := &File{metadata: make(map[string]string)}
	for name, raw := range entries {
		if name == metadataKey {
			if err := json.Unmarshal(raw, &f.metadata); err != nil {
				return nil, fmt.Errorf("failed to parse metadata: %w", err)
			}
			continue
		}

		meta, err := parseTensorHeader(name, raw)
		if err != nil {
			return nil, err
		}
		f.tensors = append(f.tensors, meta)
	}
	sort.Slice(f.tensors, func(i, j int) bool {
		return f.tensors[i].Name < f.tensors[j].Name
	})

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateTensorOffsets(f.tensors, int64(len(data))); err != nil {
		return nil, err
	}
	if stored, ok := f.metadata[ChecksumKey]; ok {
		if err := ValidateChecksum(data, stored); err != nil {
			return nil, err
		}
	}
	f.data = data

	return f, nil
}

func parseTensorHeader(name string, raw json.RawMessage) (TensorMeta, error) {
	if err := ValidateTensorName(name); err != nil {
		return TensorMeta{}, err
	}

	var h TensorHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return TensorMeta{}, fmt.Errorf("failed to parse tensor %q: %w", name, err)
	}

	dtype, ok := safeTensorsToDtype(h.DType)
	if !ok {
		return TensorMeta{}, &ValidationError{Type: "unsupported_dtype", Tensor: name, Details: h.DType}
	}

	shape := make(tensor.Shape, len(h.Shape))
	elems := int64(1)
	for i, dim := range h.Shape {
		if dim <= 0 {
			return TensorMeta{}, &ValidationError{
				Type:    "invalid_shape",
				Tensor:  name,
				Details: fmt.Sprintf("dimension %d is %d", i, dim),
			}
		}
		if dim > math.MaxInt/elems {
			return TensorMeta{}, &ValidationError{
				Type:    "invalid_shape",
				Tensor:  name,
				Details: fmt.Sprintf("shape %v overflows", h.Shape),
			}
		}
		elems *= dim
		shape[i] = int(dim)
	}
	size := int64(dtype.Size())
	if elems > math.MaxInt/size {
		return TensorMeta{}, &ValidationError{
			Type:    "invalid_shape",
			Tensor:  name,
			Details: fmt.Sprintf("%v %s overflows the byte size", h.Shape, dtype),
		}
	}

	meta := TensorMeta{
		Name:  name,
		DType: dtype,
		Shape: shape,
		Begin: h.DataOffsets[0],
		End:   h.DataOffsets[1],
	}
	if want := elems * size; meta.End-meta.Begin != want {
		return TensorMeta{}, &ValidationError{
			Type:    "size_mismatch",
			Tensor:  name,
			Details: fmt.Sprintf("%d bytes for %v %s, want %d", meta.End-meta.Begin, shape, dtype, want),
		}
	}
	return meta, nil
}

// ReadFile decodes the SafeTensors file at path.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best effort close
	}()

	return Decode(file)
}

// Metadata returns a copy of the metadata entries.
func (f *File) Metadata() map[string]string {
	out := make(map[string]string, len(f.metadata))
	for k, v := range f.metadata {
		out[k] = v
	}
	return out
}

// Tensors returns the tensor entries in name order.
func (f *File) Tensors() []TensorMeta {
	return append([]TensorMeta(nil), f.tensors...)
}

func (f *File) lookup(name string) (TensorMeta, bool) {
	i := sort.Search(len(f.tensors), func(i int) bool { return f.tensors[i].Name >= name })
	if i < len(f.tensors) && f.tensors[i].Name == name {
		return f.tensors[i], true
	}
	return TensorMeta{}, false
}

// ReadTensor decodes the named tensor. The stored dtype must match T.
func ReadTensor[T tensor.Numeric](f *File, name string) (*tensor.Tensor[T], error) {
	meta, ok := f.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	if want := tensor.DTypeOf[T](); meta.DType != want {
		return nil, fmt.Errorf("%w: %q is %s, requested %s", ErrDTypeMismatch, name, meta.DType, want)
	}

	t := tensor.New[T](meta.Shape)
	decode(t.Data(), f.data[meta.Begin:meta.End])
	return t, nil
}

// ReadStateDict decodes every tensor in the file.
func ReadStateDict[T tensor.Numeric](f *File) (map[string]*tensor.Tensor[T], error) {
	out := make(map[string]*tensor.Tensor[T], len(f.tensors))
	for _, meta := range f.tensors {
		t, err := ReadTensor[T](f, meta.Name)
		if err != nil {
			return nil, err
		}
		out[meta.Name] = t
	}
	return out, nil
}
