package tensor

import "fmt"

// PaddingScheme selects the value written into a tensor's border cells.
type PaddingScheme int

// Supported padding schemes.
const (
	PaddingNone PaddingScheme = iota
	PaddingZeros
	PaddingOnes
	PaddingMinusOnes
	PaddingAlternatingZeroAndOnes
	PaddingMin
	PaddingMax
)

// String returns the scheme name.
func (s PaddingScheme) String() string {
	switch s {
	case PaddingNone:
		return "none"
	case PaddingZeros:
		return "zeros"
	case PaddingOnes:
		return "ones"
	case PaddingMinusOnes:
		return "minus-ones"
	case PaddingAlternatingZeroAndOnes:
		return "alternating-zero-and-ones"
	case PaddingMin:
		return "min"
	case PaddingMax:
		return "max"
	default:
		return fmt.Sprintf("PaddingScheme(%d)", int(s))
	}
}

// Padding describes a uniform border of Size cells on all four spatial sides.
type Padding struct {
	Scheme PaddingScheme
	Size   int
}

// NoPadding returns a zero-size padding.
func NoPadding() Padding {
	return Padding{Scheme: PaddingNone}
}

// ZeroPadding returns a border of size cells filled with 0.
func ZeroPadding(size int) Padding {
	return Padding{Scheme: PaddingZeros, Size: size}
}

// OnePadding returns a border of size cells filled with 1.
func OnePadding(size int) Padding {
	return Padding{Scheme: PaddingOnes, Size: size}
}

// MinusOnePadding returns a border of size cells filled with -1.
func MinusOnePadding(size int) Padding {
	return Padding{Scheme: PaddingMinusOnes, Size: size}
}

// AlternatingPadding returns a checkerboard border of size cells.
func AlternatingPadding(size int) Padding {
	return Padding{Scheme: PaddingAlternatingZeroAndOnes, Size: size}
}

// Validate checks the descriptor.
func (p Padding) Validate() error {
	if p.Size < 0 {
		return fmt.Errorf("invalid padding size %d", p.Size)
	}
	if p.Scheme < PaddingNone || p.Scheme > PaddingMax {
		return fmt.Errorf("unknown padding scheme %v", p.Scheme)
	}
	if p.Scheme == PaddingNone && p.Size != 0 {
		return fmt.Errorf("padding scheme none requires size 0, got %d", p.Size)
	}
	return nil
}

// String formats the descriptor.
func (p Padding) String() string {
	return fmt.Sprintf("%s/%d", p.Scheme, p.Size)
}

// PaddingValue returns the value of the border cell at (row, column) under scheme.
func PaddingValue[T Float](scheme PaddingScheme, row, column int) T {
	switch scheme {
	case PaddingOnes:
		return 1
	case PaddingMinusOnes:
		return -1
	case PaddingAlternatingZeroAndOnes:
		return T((row + column) % 2)
	case PaddingMin:
		return Lowest[T]()
	case PaddingMax:
		return Highest[T]()
	default:
		return 0
	}
}

// FillPadding writes the border cells of t according to p.
// Interior cells are left untouched.
//
// Panics if the border does not fit inside t.
func FillPadding[T Float](t *Tensor[T], p Padding) {
	if p.Size == 0 {
		return
	}
	rows, columns, channels := t.shape.Rows, t.shape.Columns, t.shape.Channels
	if 2*p.Size > rows || 2*p.Size > columns {
		panic(fmt.Sprintf("tensor: padding %v does not fit shape %v", p, t.shape))
	}

	for r := 0; r < rows; r++ {
		inRowBorder := r < p.Size || r >= rows-p.Size
		for c := 0; c < columns; c++ {
			if !inRowBorder && c >= p.Size && c < columns-p.Size {
				continue
			}
			v := PaddingValue[T](p.Scheme, r, c)
			base := r*t.strides[0] + c*t.strides[1]
			for k := 0; k < channels; k++ {
				t.data[base+k] = v
			}
		}
	}
}

// IsBorder reports whether (row, column) lies in the border of a tensor with
// the given shape padded by size cells.
func IsBorder(shape Shape, size, row, column int) bool {
	return row < size || row >= shape.Rows-size || column < size || column >= shape.Columns-size
}
