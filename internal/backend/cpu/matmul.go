package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/predictors/internal/tensor"
)

// DenseScratch holds the vectors reused by Dense across calls.
type DenseScratch struct {
	x *mat.VecDense
	y *mat.VecDense
}

// NewDenseScratch allocates scratch for a weight matrix of rows x cols.
func NewDenseScratch(rows, cols int) *DenseScratch {
	return &DenseScratch{
		x: mat.NewVecDense(cols, nil),
		y: mat.NewVecDense(rows, nil),
	}
}

// Dense flattens the region of in starting at (srcOffset, srcOffset) with
// srcShape row-major into x and returns y = weights * x.
//
// The returned slice aliases scratch and is valid until the next call.
func Dense[T tensor.Float](in *tensor.Tensor[T], srcOffset int, srcShape tensor.Shape, weights *mat.Dense, scratch *DenseScratch) []float64 {
	rows, cols := weights.Dims()
	if cols != srcShape.NumElements() {
		panic(fmt.Sprintf("dense: weights have %d columns, input region has %d elements", cols, srcShape.NumElements()))
	}
	if srcShape.Channels != in.NumChannels() {
		panic(fmt.Sprintf("dense: input channels %d != region channels %d", in.NumChannels(), srcShape.Channels))
	}

	x := scratch.x.RawVector().Data
	idx := 0
	for r := 0; r < srcShape.Rows; r++ {
		for c := 0; c < srcShape.Columns; c++ {
			for _, v := range in.Pixel(srcOffset+r, srcOffset+c) {
				x[idx] = float64(v)
				idx++
			}
		}
	}

	scratch.y.MulVec(weights, scratch.x)
	return scratch.y.RawVector().Data[:rows]
}
