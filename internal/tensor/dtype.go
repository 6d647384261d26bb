// Package tensor provides the padded 3-D tensor used by the neural network predictor.
package tensor

import "math"

// Float is a constraint for supported element types.
// It uses Go generics to keep float32 and float64 pipelines type-safe.
type Float interface {
	~float32 | ~float64
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// DataTypeOf infers the DataType of T.
func DataTypeOf[T Float]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	default:
		return Float64
	}
}

// Lowest returns the most negative finite value representable by T.
func Lowest[T Float]() T {
	return -Highest[T]()
}

// Highest returns the largest finite value representable by T.
func Highest[T Float]() T {
	if DataTypeOf[T]() == Float32 {
		f := float32(math.MaxFloat32)
		return T(f)
	}
	f := math.MaxFloat64
	return T(f)
}
