package tensor

import "fmt"

// Tensor is a dense rows × columns × channels array of T.
//
// Storage is row-major with channels varying fastest, so the channel
// vector of one spatial location is contiguous (see Pixel).
//
// Example:
//
//	t := tensor.New[float32](4, 4, 2)
//	t.Set(1, 1, 0, 10)
//	v := t.At(1, 1, 0) // 10
type Tensor[T Float] struct {
	shape   Shape
	strides [3]int
	data    []T
}

// New creates a zero-initialized tensor.
//
// Panics if any extent is negative.
func New[T Float](rows, columns, channels int) *Tensor[T] {
	return NewFromShape[T](NewShape(rows, columns, channels))
}

// NewFromShape creates a zero-initialized tensor with the given shape.
func NewFromShape[T Float](shape Shape) *Tensor[T] {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return &Tensor[T]{
		shape:   shape,
		strides: shape.ComputeStrides(),
		data:    make([]T, shape.NumElements()),
	}
}

// FromSlice creates a tensor from row-major data.
// The slice is copied into the tensor's memory.
func FromSlice[T Float](data []T, shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t := NewFromShape[T](shape)
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T]) Shape() Shape {
	return t.shape
}

// NumRows returns the number of rows.
func (t *Tensor[T]) NumRows() int {
	return t.shape.Rows
}

// NumColumns returns the number of columns.
func (t *Tensor[T]) NumColumns() int {
	return t.shape.Columns
}

// NumChannels returns the number of channels.
func (t *Tensor[T]) NumChannels() int {
	return t.shape.Channels
}

// NumElements returns the total number of elements.
func (t *Tensor[T]) NumElements() int {
	return len(t.data)
}

// DType returns the tensor's data type.
func (t *Tensor[T]) DType() DataType {
	return DataTypeOf[T]()
}

// Data returns the backing slice in row-major order.
// Writes through the slice are visible in the tensor.
func (t *Tensor[T]) Data() []T {
	return t.data
}

// Strides returns the element strides of (row, column, channel).
func (t *Tensor[T]) Strides() [3]int {
	return t.strides
}

// At returns the element at (row, column, channel).
//
// Panics if the index lies outside the declared extents.
func (t *Tensor[T]) At(row, column, channel int) T {
	return t.data[t.index(row, column, channel)]
}

// Set writes the element at (row, column, channel).
//
// Panics if the index lies outside the declared extents.
func (t *Tensor[T]) Set(row, column, channel int, value T) {
	t.data[t.index(row, column, channel)] = value
}

// Pixel returns the channel vector at (row, column) as a view into the tensor.
func (t *Tensor[T]) Pixel(row, column int) []T {
	start := t.pixelIndex(row, column)
	return t.data[start : start+t.shape.Channels : start+t.shape.Channels]
}

// Fill overwrites every element with value.
func (t *Tensor[T]) Fill(value T) {
	for i := range t.data {
		t.data[i] = value
	}
}

// Clone returns a deep copy of the tensor.
func (t *Tensor[T]) Clone() *Tensor[T] {
	c := NewFromShape[T](t.shape)
	copy(c.data, t.data)
	return c
}

// Region copies the sub-tensor starting at (row, column) with the given
// rows and columns (all channels) into a new row-major slice.
func (t *Tensor[T]) Region(row, column, rows, columns int) []T {
	out := make([]T, 0, rows*columns*t.shape.Channels)
	if rows <= 0 || columns <= 0 {
		return out
	}
	t.pixelIndex(row+rows-1, column+columns-1)
	for r := row; r < row+rows; r++ {
		start := t.pixelIndex(r, column)
		out = append(out, t.data[start:start+columns*t.shape.Channels]...)
	}
	return out
}

// String returns a short description of the tensor.
func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor[%s]%v", t.DType(), t.shape)
}

func (t *Tensor[T]) index(row, column, channel int) int {
	if row < 0 || row >= t.shape.Rows ||
		column < 0 || column >= t.shape.Columns ||
		channel < 0 || channel >= t.shape.Channels {
		panic(fmt.Sprintf("tensor: index (%d, %d, %d) out of range for shape %v", row, column, channel, t.shape))
	}
	return row*t.strides[0] + column*t.strides[1] + channel
}

func (t *Tensor[T]) pixelIndex(row, column int) int {
	if row < 0 || row >= t.shape.Rows || column < 0 || column >= t.shape.Columns {
		panic(fmt.Sprintf("tensor: location (%d, %d) out of range for shape %v", row, column, t.shape))
	}
	return row*t.strides[0] + column*t.strides[1]
}
