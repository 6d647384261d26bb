package nn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// FullyConnected multiplies the flattened input interior by a weight matrix.
//
// The input interior is flattened row-major (rows, columns, channels) into x
// of length N, and y = W * x. Two weight layouts are accepted:
//
//   - W is OutputShape.NumElements() x N: y is written row-major into the
//     output interior.
//   - W is OutputShape.Channels x N: y[k] is written to channel k of every
//     output location.
//
// Both agree when the output has a single spatial location.
//
// Example:
//
//	// 2 inputs -> 3 hidden units
//	weights := mat.NewDense(3, 2, []float64{...})
//	fc, err := nn.NewFullyConnected(nn.ChainParameters(input, tensor.NewShape(1, 1, 3), tensor.NoPadding()), weights)
type FullyConnected[T tensor.Float] struct {
	base[T]
	weights   *mat.Dense
	scratch   *cpu.DenseScratch
	broadcast bool
}

// NewFullyConnected creates a FullyConnected layer. weights is copied.
func NewFullyConnected[T tensor.Float](params Parameters[T], weights mat.Matrix, opts ...Option) (*FullyConnected[T], error) {
	b, err := newBase(KindFullyConnected, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	if weights == nil {
		return nil, configErrorf(KindFullyConnected, "nil weights")
	}

	n := params.InputShape().NumElements()
	out := params.OutputShape
	rows, cols := weights.Dims()
	if cols != n {
		return nil, configErrorf(KindFullyConnected, "weights have %d columns, flattened input has %d elements", cols, n)
	}

	var broadcast bool
	switch {
	case rows == out.NumElements():
	case rows == out.Channels:
		broadcast = true
	default:
		return nil, configErrorf(KindFullyConnected, "weights have %d rows, want %d (output elements) or %d (output channels)",
			rows, out.NumElements(), out.Channels)
	}

	return &FullyConnected[T]{
		base:      b,
		weights:   mat.DenseCopyOf(weights),
		scratch:   cpu.NewDenseScratch(rows, cols),
		broadcast: broadcast,
	}, nil
}

// Weights returns the weight matrix.
func (l *FullyConnected[T]) Weights() mat.Matrix {
	return l.weights
}

// Compute writes W * x into the output interior.
func (l *FullyConnected[T]) Compute() {
	p := l.params
	y := cpu.Dense(p.Input, p.InputPadding.Size, p.InputShape(), l.weights, l.scratch)

	dst := l.interior
	idx := 0
	for r := 0; r < dst.Rows; r++ {
		for c := 0; c < dst.Columns; c++ {
			res := l.output.Pixel(dst.Offset+r, dst.Offset+c)
			if l.broadcast {
				idx = 0
			}
			for k := range res {
				res[k] = T(y[idx])
				idx++
			}
		}
	}
}
