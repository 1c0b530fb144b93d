package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/layerwise/internal/tensor"
)

func encodeTensors[T tensor.Numeric](t *testing.T, tensors map[string]*tensor.Tensor[T]) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tensors, map[string]string{"epochs": "10"}))
	return buf.Bytes()
}

func TestRoundTrip_Float64(t *testing.T) {
	tensors := map[string]*tensor.Tensor[float64]{
		"fc1.weights": tensor.MustFromSlice([]float64{1, -2.5, 3, 0.125, 1e-9, -7}, tensor.Shape{3, 2}),
		"fc1.bias":    tensor.MustFromSlice([]float64{0.5, -0.5}, tensor.Shape{1, 2}),
	}

	f, err := Decode(bytes.NewReader(encodeTensors(t, tensors)))
	require.NoError(t, err)

	metas := f.Tensors()
	require.Len(t, metas, 2)
	assert.Equal(t, "fc1.bias", metas[0].Name)
	assert.Equal(t, "fc1.weights", metas[1].Name)
	assert.Equal(t, tensor.Float64, metas[1].DType)
	assert.Equal(t, tensor.Shape{3, 2}, metas[1].Shape)

	got, err := ReadStateDict[float64](f)
	require.NoError(t, err)
	for name, want := range tensors {
		assert.True(t, got[name].Equal(want), name)
	}

	meta := f.Metadata()
	assert.Equal(t, "10", meta["epochs"])
	assert.Len(t, meta[ChecksumKey], 64)
}

func TestRoundTrip_OtherTypes(t *testing.T) {
	f32 := map[string]*tensor.Tensor[float32]{"w": tensor.MustFromSlice([]float32{1.5, -2, 3.25}, tensor.Shape{3})}
	f, err := Decode(bytes.NewReader(encodeTensors(t, f32)))
	require.NoError(t, err)
	w32, err := ReadTensor[float32](f, "w")
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2, 3.25}, w32.Data())

	i64 := map[string]*tensor.Tensor[int64]{"n": tensor.MustFromSlice([]int64{-1 << 40, 0, 7}, tensor.Shape{1, 3})}
	f, err = Decode(bytes.NewReader(encodeTensors(t, i64)))
	require.NoError(t, err)
	n, err := ReadTensor[int64](f, "n")
	require.NoError(t, err)
	assert.Equal(t, []int64{-1 << 40, 0, 7}, n.Data())

	i32 := map[string]*tensor.Tensor[int32]{"k": tensor.MustFromSlice([]int32{-3, 4}, tensor.Shape{2})}
	f, err = Decode(bytes.NewReader(encodeTensors(t, i32)))
	require.NoError(t, err)
	k, err := ReadTensor[int32](f, "k")
	require.NoError(t, err)
	assert.Equal(t, []int32{-3, 4}, k.Data())
}

func TestWrite_HeaderAlignment(t *testing.T) {
	raw := encodeTensors(t, map[string]*tensor.Tensor[float32]{"x": tensor.Ones[float32](tensor.Shape{1})})

	size := binary.LittleEndian.Uint64(raw[:8])
	assert.Zero(t, size%headerAlignment)
	assert.Len(t, raw, 8+int(size)+4)
}

func TestWrite_InvalidName(t *testing.T) {
	for _, name := range []string{"", "../etc", "a/b", metadataKey} {
		var buf bytes.Buffer
		err := Write(&buf, map[string]*tensor.Tensor[float64]{name: tensor.Ones[float64](tensor.Shape{1})}, nil)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "name %q: %v", name, err)
	}
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	raw := encodeTensors(t, map[string]*tensor.Tensor[float64]{"w": tensor.Ones[float64](tensor.Shape{2, 2})})
	raw[len(raw)-1] ^= 0xFF

	_, err := Decode(bytes.NewReader(raw))
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecode_Truncated(t *testing.T) {
	raw := encodeTensors(t, map[string]*tensor.Tensor[float64]{"w": tensor.Ones[float64](tensor.Shape{2, 2})})

	_, err := Decode(bytes.NewReader(raw[:len(raw)-8]))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, "out_of_bounds", verr.Type)

	_, err = Decode(bytes.NewReader(raw[:4]))
	require.Error(t, err)
}

func TestDecode_HeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1)))

	_, err := Decode(&buf)
	require.ErrorIs(t, err, ErrHeaderTooLarge)
}

// rawFile assembles a stream from a hand-written header.
func rawFile(header string, data []byte) *bytes.Reader {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(header)))
	buf.WriteString(header)
	buf.Write(data)
	return bytes.NewReader(buf.Bytes())
}

func TestDecode_ValidatesEntries(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		errType string
	}{
		{"unknown dtype", `{"w":{"dtype":"BF16","shape":[1],"data_offsets":[0,2]}}`, "unsupported_dtype"},
		{"size mismatch", `{"w":{"dtype":"F32","shape":[2],"data_offsets":[0,4]}}`, "size_mismatch"},
		{"zero dim", `{"w":{"dtype":"F32","shape":[0],"data_offsets":[0,0]}}`, "invalid_shape"},
		{"element count overflow", `{"w":{"dtype":"F32","shape":[4294967296,4294967296],"data_offsets":[0,0]}}`, "invalid_shape"},
		{"byte size overflow", `{"w":{"dtype":"F64","shape":[4611686018427387904],"data_offsets":[0,0]}}`, "invalid_shape"},
		{"overlap", `{"a":{"dtype":"F32","shape":[2],"data_offsets":[0,8]},"b":{"dtype":"F32","shape":[1],"data_offsets":[4,8]}}`, "offset_overlap"},
		{"bad name", `{"a/b":{"dtype":"F32","shape":[1],"data_offsets":[0,4]}}`, "invalid_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(rawFile(tt.header, make([]byte, 8)))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.errType, verr.Type)
		})
	}
}

func TestReadTensor_Errors(t *testing.T) {
	raw := encodeTensors(t, map[string]*tensor.Tensor[float32]{"w": tensor.Ones[float32](tensor.Shape{2})})
	f, err := Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	_, err = ReadTensor[float64](f, "w")
	require.ErrorIs(t, err, ErrDTypeMismatch)

	_, err = ReadTensor[float32](f, "missing")
	require.ErrorIs(t, err, ErrTensorNotFound)

	_, err = ReadStateDict[int32](f)
	require.ErrorIs(t, err, ErrDTypeMismatch)
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "kind: details", (&ValidationError{Type: "kind", Details: "details"}).Error())
	assert.Equal(t, `kind: tensor "a": d`, (&ValidationError{Type: "kind", Tensor: "a", Details: "d"}).Error())
	assert.Equal(t, `kind: tensors "a" and "b": d`, (&ValidationError{Type: "kind", Tensor: "a", Tensor2: "b", Details: "d"}).Error())
}

func TestWriteFile_ReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.safetensors")
	w := tensor.MustFromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})

	require.NoError(t, WriteFile(path, map[string]*tensor.Tensor[float64]{"w": w}, nil))

	f, err := ReadFile(path)
	require.NoError(t, err)
	got, err := ReadTensor[float64](f, "w")
	require.NoError(t, err)
	assert.True(t, got.Equal(w))

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
