// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the padded 3-D tensors the predictors engine computes on.
//
// # Overview
//
// A tensor is a dense rows x columns x channels array stored row-major with
// the channel index varying fastest. Every layer output is a tensor whose
// logical shape is surrounded by a border of padding cells:
//   - Shape: rows, columns, channels
//   - Padding: scheme and border size
//   - Tensor[T]: float32 or float64 storage
//
// # Basic Usage
//
//	import "github.com/born-ml/predictors/tensor"
//
//	func main() {
//	    // 4x4 interior with a one-cell border of -1
//	    shape := tensor.NewShape(4, 4, 3)
//	    pad := tensor.MinusOnePadding(1)
//
//	    t := tensor.NewFromShape[float32](shape.Padded(pad.Size))
//	    tensor.FillPadding(t, pad)
//	    t.Set(1, 1, 0, 2.5)
//	}
//
// # Padding Schemes
//
//   - PaddingNone: no border (size must be 0)
//   - PaddingZeros, PaddingOnes, PaddingMinusOnes: constant borders
//   - PaddingAlternatingZeroAndOnes: (row + column) mod 2
//   - PaddingMin, PaddingMax: lowest or highest finite value of T
//
// # Bounds
//
// Element access outside the declared extents always panics.
package tensor
