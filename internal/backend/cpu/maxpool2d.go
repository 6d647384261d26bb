package cpu

import (
	"fmt"

	"github.com/born-ml/predictors/internal/parallel"
	"github.com/born-ml/predictors/internal/tensor"
)

// Pool2D reduces size x size windows of in with the given stride into dst.
//
// The window for output cell (r, c) covers rows [r*stride, r*stride+size) and
// columns [c*stride, c*stride+size) of the padded input, so the input's
// border supplies values near the edges.
//
// Example (2x2 max pool, stride=2):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
func Pool2D[T tensor.Float](out *tensor.Tensor[T], dst Interior, in *tensor.Tensor[T], size, stride int, reduce func(window []T) T, cfg parallel.Config) {
	checkInterior("pool2d", out, dst)
	if size <= 0 {
		panic(fmt.Sprintf("pool2d: invalid window size %d", size))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("pool2d: invalid stride %d", stride))
	}
	if dst.Rows > 0 && dst.Columns > 0 &&
		((dst.Rows-1)*stride+size > in.NumRows() || (dst.Columns-1)*stride+size > in.NumColumns()) {
		panic(fmt.Sprintf("pool2d: %dx%d output with window %d stride %d does not fit input %v",
			dst.Rows, dst.Columns, size, stride, in.Shape()))
	}
	if in.NumChannels() != out.NumChannels() {
		panic(fmt.Sprintf("pool2d: input channels %d != output channels %d", in.NumChannels(), out.NumChannels()))
	}

	channels := in.NumChannels()
	parallel.ForRows(dst.Rows, func() []T {
		return make([]T, size*size)
	}, func(r int, window []T) {
		hStart := r * stride
		for c := 0; c < dst.Columns; c++ {
			wStart := c * stride
			res := out.Pixel(dst.Offset+r, dst.Offset+c)
			for k := 0; k < channels; k++ {
				idx := 0
				for kh := 0; kh < size; kh++ {
					for kw := 0; kw < size; kw++ {
						window[idx] = in.Pixel(hStart+kh, wStart+kw)[k]
						idx++
					}
				}
				res[k] = reduce(window)
			}
		}
	}, cfg)
}

// MaxReduce returns the largest value of window.
func MaxReduce[T tensor.Float](window []T) T {
	maxVal := tensor.Lowest[T]()
	for _, v := range window {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// MeanReduce returns the arithmetic mean of window.
func MeanReduce[T tensor.Float](window []T) T {
	if len(window) == 0 {
		return 0
	}
	var sum float64
	for _, v := range window {
		sum += float64(v)
	}
	return T(sum / float64(len(window)))
}
