package tensor

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/layerwise/internal/parallel"
)

// kernels is the parallel configuration used by the integer fallbacks.
var kernels = parallel.DefaultConfig()

// MatMul performs matrix multiplication.
//
// Requirements:
//   - For 2D tensors: (M, K) @ (K, N) → (M, N)
//   - For batched: (B, M, K) @ (B, K, N) → (B, M, N)
//
// float32 and float64 tensors are multiplied with gonum BLAS; other element
// types, named float types included, use a row-parallel naive kernel. Panics with a ShapeError on incompatible shapes.
//
// Example:
//
//	a := tensor.Randn[float32](tensor.Shape{3, 4})
//	b := tensor.Randn[float32](tensor.Shape{4, 5})
//	c := a.MatMul(b) // Shape: [3, 5]
func (t *Tensor[T]) MatMul(other *Tensor[T]) *Tensor[T] {
	a, b := t.shape, other.shape

	switch {
	case len(a) == 2 && len(b) == 2:
		if a[1] != b[0] {
			mismatch("matmul", a, b)
		}
		out := New[T](Shape{a[0], b[1]})
		matmul(out.data, t.data, other.data, a[0], a[1], b[1])
		return out

	case len(a) == 3 && len(b) == 3:
		if a[0] != b[0] || a[2] != b[1] {
			mismatch("batch_matmul", a, b)
		}
		batch, m, k, n := a[0], a[1], a[2], b[2]
		out := New[T](Shape{batch, m, n})
		for i := 0; i < batch; i++ {
			matmul(out.data[i*m*n:(i+1)*m*n], t.data[i*m*k:(i+1)*m*k], other.data[i*k*n:(i+1)*k*n], m, k, n)
		}
		return out

	default:
		mismatch("matmul", a, b)
		return nil
	}
}

// matmul computes c = a @ b for row-major [m,k] and [k,n] operands.
func matmul[T Numeric](c, a, b []T, m, k, n int) {
	switch cs := any(c).(type) {
	case []float64:
		dst := mat.NewDense(m, n, cs)
		dst.Mul(mat.NewDense(m, k, any(a).([]float64)), mat.NewDense(k, n, any(b).([]float64)))
	case []float32:
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas32.General{Rows: m, Cols: k, Stride: k, Data: any(a).([]float32)},
			blas32.General{Rows: k, Cols: n, Stride: n, Data: any(b).([]float32)},
			0,
			blas32.General{Rows: m, Cols: n, Stride: n, Data: cs},
		)
	default:
		parallel.Rows(m, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				for j := 0; j < n; j++ {
					var sum T
					for kIdx := 0; kIdx < k; kIdx++ {
						sum += a[i*k+kIdx] * b[kIdx*n+j]
					}
					c[i*n+j] = sum
				}
			}
		}, kernels)
	}
}

// Transpose swaps the two matrix axes: [M, N] → [N, M] for 2D tensors and
// [B, M, N] → [B, N, M] for batched ones. Vectors are treated as a single row.
func (t *Tensor[T]) Transpose() *Tensor[T] {
	switch len(t.shape) {
	case 0, 1, 2:
		src := t.shape.Flatten2D()
		out := New[T](Shape{src[1], src[0]})
		transpose(out.data, t.data, src[0], src[1])
		return out
	case 3:
		batch, m, n := t.shape[0], t.shape[1], t.shape[2]
		out := New[T](Shape{batch, n, m})
		for i := 0; i < batch; i++ {
			transpose(out.data[i*m*n:(i+1)*m*n], t.data[i*m*n:(i+1)*m*n], m, n)
		}
		return out
	default:
		panic(&ShapeError{Op: "transpose", Left: t.shape.Clone(), Right: Shape{3}})
	}
}

func transpose[T Numeric](dst, src []T, m, n int) {
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			dst[j*m+i] = src[i*n+j]
		}
	}
}

// T is a shortcut for Transpose.
func (t *Tensor[T]) T() *Tensor[T] {
	return t.Transpose()
}
