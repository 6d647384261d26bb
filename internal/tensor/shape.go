package tensor

import "fmt"

// Shape represents the logical extents of a 3-D tensor.
//
// Channels is the fastest-varying axis in memory; per-channel parameters
// (bias, scale, mean, variance) are indexed by it.
type Shape struct {
	Rows     int
	Columns  int
	Channels int
}

// NewShape is shorthand for Shape{rows, columns, channels}.
func NewShape(rows, columns, channels int) Shape {
	return Shape{Rows: rows, Columns: columns, Channels: channels}
}

// NumElements returns the total number of elements in the shape.
func (s Shape) NumElements() int {
	return s.Rows * s.Columns * s.Channels
}

// Validate checks that no extent is negative.
func (s Shape) Validate() error {
	if s.Rows < 0 || s.Columns < 0 || s.Channels < 0 {
		return fmt.Errorf("invalid shape %v: extents must be non-negative", s)
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s == other
}

// Padded returns the shape grown by size cells on all four spatial sides.
// Channels are never padded.
func (s Shape) Padded(size int) Shape {
	return Shape{Rows: s.Rows + 2*size, Columns: s.Columns + 2*size, Channels: s.Channels}
}

// Unpadded returns the interior shape left after removing size border cells.
func (s Shape) Unpadded(size int) Shape {
	return Shape{Rows: s.Rows - 2*size, Columns: s.Columns - 2*size, Channels: s.Channels}
}

// ComputeStrides calculates row-major strides for (rows, columns, channels).
func (s Shape) ComputeStrides() [3]int {
	return [3]int{s.Columns * s.Channels, s.Channels, 1}
}

// String formats the shape as (rows, columns, channels).
func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Rows, s.Columns, s.Channels)
}
