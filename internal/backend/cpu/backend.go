// Package cpu implements the CPU kernels behind every neural network layer.
//
// Kernels read a predecessor's padded output tensor and write only the
// interior of the layer's own output tensor. Shape validation is the
// caller's job: a kernel panics on inconsistent geometry, the same way the
// tensor package panics on out-of-range access.
package cpu

import (
	"fmt"

	"github.com/born-ml/predictors/internal/tensor"
)

// Interior locates the non-padding region of an output tensor.
type Interior struct {
	Offset  int // Padding size of the output tensor.
	Rows    int
	Columns int
}

// InteriorOf returns the interior of a tensor with the given logical shape and padding size.
func InteriorOf(shape tensor.Shape, padding int) Interior {
	return Interior{Offset: padding, Rows: shape.Rows, Columns: shape.Columns}
}

// Name returns the backend name.
func Name() string {
	return "CPU"
}

// checkInterior panics if dst does not fit inside out.
func checkInterior[T tensor.Float](op string, out *tensor.Tensor[T], dst Interior) {
	if dst.Offset < 0 || dst.Rows < 0 || dst.Columns < 0 ||
		dst.Offset+dst.Rows > out.NumRows() || dst.Offset+dst.Columns > out.NumColumns() {
		panic(fmt.Sprintf("%s: interior %+v does not fit output %v", op, dst, out.Shape()))
	}
}
