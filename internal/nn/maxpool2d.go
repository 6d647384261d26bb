package nn

import (
	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// PoolingParameters configures a square pooling window.
type PoolingParameters struct {
	Size   int // Window size W.
	Stride int // Step S between windows.
}

// PoolingFunction reduces one channel of a window to a single value.
type PoolingFunction[T tensor.Float] interface {
	Reduce(window []T) T
}

// MaxPooling keeps the largest value of the window.
type MaxPooling[T tensor.Float] struct{}

// Reduce returns the maximum of window.
func (MaxPooling[T]) Reduce(window []T) T {
	return cpu.MaxReduce(window)
}

// MeanPooling averages the window.
type MeanPooling[T tensor.Float] struct{}

// Reduce returns the mean of window.
func (MeanPooling[T]) Reduce(window []T) T {
	return cpu.MeanReduce(window)
}

// Pooling reduces W x W windows per channel:
//
//	out[r,c,k] = reduce(in[r*S : r*S+W, c*S : c*S+W, k])
//
// Windows are taken over the padded input, so the predecessor's border
// supplies values near the edges. Use PaddingMin ahead of max pooling when
// the border must never win.
//
// Example:
//
//	// 4x4x2 -> 2x2x2
//	pool, err := nn.NewPooling(params, nn.PoolingParameters{Size: 2, Stride: 2}, nn.MaxPooling[float32]{})
type Pooling[T tensor.Float] struct {
	base[T]
	pool PoolingParameters
	fn   PoolingFunction[T]
}

// NewPooling creates a Pooling layer.
//
// Requires (OutputShape.Rows-1)*S + W <= input rows, the same for columns,
// and equal input and output channel counts.
func NewPooling[T tensor.Float](params Parameters[T], pool PoolingParameters, fn PoolingFunction[T], opts ...Option) (*Pooling[T], error) {
	b, err := newBase(KindPooling, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, configErrorf(KindPooling, "nil pooling function")
	}
	if pool.Size <= 0 || pool.Stride <= 0 {
		return nil, configErrorf(KindPooling, "invalid window %d stride %d", pool.Size, pool.Stride)
	}

	in, out := params.Input.Shape(), params.OutputShape
	if in.Channels != out.Channels {
		return nil, configErrorf(KindPooling, "input channels %d != output channels %d", in.Channels, out.Channels)
	}
	if out.Rows > 0 && (out.Rows-1)*pool.Stride+pool.Size > in.Rows {
		return nil, configErrorf(KindPooling, "%d output rows with window %d stride %d need %d input rows, input has %d",
			out.Rows, pool.Size, pool.Stride, (out.Rows-1)*pool.Stride+pool.Size, in.Rows)
	}
	if out.Columns > 0 && (out.Columns-1)*pool.Stride+pool.Size > in.Columns {
		return nil, configErrorf(KindPooling, "%d output columns with window %d stride %d need %d input columns, input has %d",
			out.Columns, pool.Size, pool.Stride, (out.Columns-1)*pool.Stride+pool.Size, in.Columns)
	}

	return &Pooling[T]{base: b, pool: pool, fn: fn}, nil
}

// Compute reduces every window.
func (l *Pooling[T]) Compute() {
	cpu.Pool2D(l.output, l.interior, l.params.Input, l.pool.Size, l.pool.Stride, l.fn.Reduce, l.parallel)
}
