package serialization

import (
	"encoding/binary"
	"math"

	"github.com/born-ml/layerwise/internal/tensor"
)

// Format limits and reserved keys.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount   = 100_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 4096              // Maximum tensor name length

	// ChecksumKey is the metadata entry holding the hex SHA-256 of the data section.
	ChecksumKey = "checksum_sha256"

	metadataKey     = "__metadata__"
	headerAlignment = 8
)

// TensorHeader is the per-tensor entry of the JSON header.
type TensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// TensorMeta describes a decoded tensor entry. Begin and End are byte
// offsets into the data section.
type TensorMeta struct {
	Name  string
	DType tensor.DataType
	Shape tensor.Shape
	Begin int64
	End   int64
}

// dtypeToSafeTensors converts tensor.DataType to the SafeTensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return "F32"
	case tensor.Float64:
		return "F64"
	case tensor.Int32:
		return "I32"
	case tensor.Int64:
		return "I64"
	default:
		return "unknown"
	}
}

// safeTensorsToDtype converts a SafeTensors dtype string to tensor.DataType.
func safeTensorsToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case "F32":
		return tensor.Float32, true
	case "F64":
		return tensor.Float64, true
	case "I32":
		return tensor.Int32, true
	case "I64":
		return tensor.Int64, true
	default:
		return 0, false
	}
}

// encode appends the little-endian bytes of data to buf.
func encode[T tensor.Numeric](buf []byte, data []T) []byte {
	switch tensor.DTypeOf[T]() {
	case tensor.Float32:
		for _, v := range data {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
		}
	case tensor.Float64:
		for _, v := range data {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(float64(v)))
		}
	case tensor.Int32:
		for _, v := range data {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(v)))
		}
	case tensor.Int64:
		for _, v := range data {
			buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(v)))
		}
	}
	return buf
}

// decode fills dst from little-endian bytes.
func decode[T tensor.Numeric](dst []T, raw []byte) {
	switch tensor.DTypeOf[T]() {
	case tensor.Float32:
		for i := range dst {
			dst[i] = T(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
		}
	case tensor.Float64:
		for i := range dst {
			dst[i] = T(math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:])))
		}
	case tensor.Int32:
		for i := range dst {
			dst[i] = T(int32(binary.LittleEndian.Uint32(raw[i*4:])))
		}
	case tensor.Int64:
		for i := range dst {
			dst[i] = T(int64(binary.LittleEndian.Uint64(raw[i*8:])))
		}
	}
}
