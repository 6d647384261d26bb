// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/predictors/internal/tensor"
)

// Float is the set of element types a Tensor can hold.
type Float = tensor.Float

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// Data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Shape is a rows x columns x channels triple.
type Shape = tensor.Shape

// NewShape creates a shape.
func NewShape(rows, columns, channels int) Shape {
	return tensor.NewShape(rows, columns, channels)
}

// Tensor is a dense row-major 3-D array with channels varying fastest.
type Tensor[T Float] = tensor.Tensor[T]

// New creates a zero-filled tensor.
func New[T Float](rows, columns, channels int) *Tensor[T] {
	return tensor.New[T](rows, columns, channels)
}

// NewFromShape creates a zero-filled tensor of the given shape.
func NewFromShape[T Float](shape Shape) *Tensor[T] {
	return tensor.NewFromShape[T](shape)
}

// FromSlice creates a tensor holding a copy of data laid out row-major.
//
// Example:
//
//	t, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.NewShape(1, 2, 2))
func FromSlice[T Float](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// PaddingScheme selects the value of border cells.
type PaddingScheme = tensor.PaddingScheme

// Padding schemes.
const (
	PaddingNone                   = tensor.PaddingNone
	PaddingZeros                  = tensor.PaddingZeros
	PaddingOnes                   = tensor.PaddingOnes
	PaddingMinusOnes              = tensor.PaddingMinusOnes
	PaddingAlternatingZeroAndOnes = tensor.PaddingAlternatingZeroAndOnes
	PaddingMin                    = tensor.PaddingMin
	PaddingMax                    = tensor.PaddingMax
)

// Padding is a border scheme and size.
type Padding = tensor.Padding

// NoPadding returns a zero-size padding.
func NoPadding() Padding { return tensor.NoPadding() }

// ZeroPadding returns a border of size cells filled with 0.
func ZeroPadding(size int) Padding { return tensor.ZeroPadding(size) }

// OnePadding returns a border of size cells filled with 1.
func OnePadding(size int) Padding { return tensor.OnePadding(size) }

// MinusOnePadding returns a border of size cells filled with -1.
func MinusOnePadding(size int) Padding { return tensor.MinusOnePadding(size) }

// AlternatingPadding returns a checkerboard border of size cells.
func AlternatingPadding(size int) Padding { return tensor.AlternatingPadding(size) }

// FillPadding writes the border cells of t according to p.
func FillPadding[T Float](t *Tensor[T], p Padding) {
	tensor.FillPadding(t, p)
}
