package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/predictors/internal/parallel"
	"github.com/born-ml/predictors/internal/tensor"
)

// Elementwise computes out[r,c,k] = f(in[r,c,k], k) over the interior dst.
//
// The source region starts at (srcOffset, srcOffset) of in and has the same
// extents as dst; channel counts must match.
func Elementwise[T tensor.Float](out *tensor.Tensor[T], dst Interior, in *tensor.Tensor[T], srcOffset int, f func(x T, channel int) T, cfg parallel.Config) {
	checkInterior("elementwise", out, dst)
	checkSource("elementwise", in, srcOffset, dst, out.NumChannels())

	parallel.For(dst.Rows, func(r int) {
		for c := 0; c < dst.Columns; c++ {
			src := in.Pixel(srcOffset+r, srcOffset+c)
			res := out.Pixel(dst.Offset+r, dst.Offset+c)
			for k, x := range src {
				res[k] = f(x, k)
			}
		}
	}, cfg)
}

// Softmax computes softmax across channels independently at every location of dst.
// Softmax(x_k) = exp(x_k - max) / sum_j exp(x_j - max).
//
// When the max is +Inf the channels equal to it share the mass evenly and the
// rest get 0; a location of all -Inf is uniform. Otherwise NaN propagates.
func Softmax[T tensor.Float](out *tensor.Tensor[T], dst Interior, in *tensor.Tensor[T], srcOffset int, cfg parallel.Config) {
	checkInterior("softmax", out, dst)
	checkSource("softmax", in, srcOffset, dst, out.NumChannels())

	parallel.For(dst.Rows, func(r int) {
		for c := 0; c < dst.Columns; c++ {
			src := in.Pixel(srcOffset+r, srcOffset+c)
			res := out.Pixel(dst.Offset+r, dst.Offset+c)
			if len(src) == 0 {
				continue
			}

			// Find max for numerical stability
			maxVal := math.Inf(-1)
			for _, x := range src {
				maxVal = math.Max(maxVal, float64(x))
			}

			// Infinite max: the limit puts all mass on the channels holding it
			if math.IsInf(maxVal, 0) {
				var n int
				for _, x := range src {
					if float64(x) == maxVal {
						n++
					}
				}
				for k, x := range src {
					res[k] = 0
					if float64(x) == maxVal {
						res[k] = T(1 / float64(n))
					}
				}
				continue
			}

			// Compute exp(x - max) and sum
			var sum float64
			exps := make([]float64, len(src))
			for k, x := range src {
				exps[k] = math.Exp(float64(x) - maxVal)
				sum += exps[k]
			}

			// Normalize
			for k := range res {
				res[k] = T(exps[k] / sum)
			}
		}
	}, cfg)
}

func checkSource[T tensor.Float](op string, in *tensor.Tensor[T], srcOffset int, dst Interior, channels int) {
	if srcOffset < 0 || srcOffset+dst.Rows > in.NumRows() || srcOffset+dst.Columns > in.NumColumns() {
		panic(fmt.Sprintf("%s: source region at offset %d with %dx%d does not fit input %v",
			op, srcOffset, dst.Rows, dst.Columns, in.Shape()))
	}
	if in.NumChannels() != channels {
		panic(fmt.Sprintf("%s: input channels %d != output channels %d", op, in.NumChannels(), channels))
	}
}
