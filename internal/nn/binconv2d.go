package nn

import (
	"fmt"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// BinaryConvolutionMethod selects how a BinaryConvolutional layer computes its output.
type BinaryConvolutionMethod int

// Binary convolution strategies. Both produce the same values within 1e-4.
const (
	// Gemm multiplies unrolled +-1 input patches with the +-1 filter matrix.
	Gemm BinaryConvolutionMethod = iota
	// Bitwise packs signs into words and counts differing bits.
	Bitwise
)

// String returns the method name.
func (m BinaryConvolutionMethod) String() string {
	switch m {
	case Gemm:
		return "gemm"
	case Bitwise:
		return "bitwise"
	default:
		return fmt.Sprintf("BinaryConvolutionMethod(%d)", int(m))
	}
}

// BinaryConvolutionalParameters configures a BinaryConvolutional layer.
// The filter count is the output channel count.
type BinaryConvolutionalParameters struct {
	ReceptiveField int
	Stride         int
	Method         BinaryConvolutionMethod
}

// BinaryConvolutional convolves sign-binarized inputs with sign-binarized
// filters and rescales each filter by the mean absolute value of its real
// weights:
//
//	out[r,c,f] = alpha_f * sum_{i,j,k} sign(w[f*R+i, j, k]) * sign(in[r*s+i, c*s+j, k])
//
// sign(x) is +1 for x > 0 and -1 otherwise, so zero maps to -1.
//
// The Bitwise method requires a Zeros input border when the input is padded.
type BinaryConvolutional[T tensor.Float] struct {
	base[T]
	conv    BinaryConvolutionalParameters
	filters *cpu.BinaryFilters
	packed  []uint64
}

// NewBinaryConvolutional creates a BinaryConvolutional layer from real-valued
// weights shaped (R*F, R, inputChannels).
func NewBinaryConvolutional[T tensor.Float](params Parameters[T], conv BinaryConvolutionalParameters, weights *tensor.Tensor[T], opts ...Option) (*BinaryConvolutional[T], error) {
	b, err := newBase(KindBinaryConvolutional, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	g, err := convGeometry(KindBinaryConvolutional, params, conv.ReceptiveField, conv.Stride, params.OutputShape.Channels, weights, b.interior)
	if err != nil {
		return nil, err
	}

	l := &BinaryConvolutional[T]{base: b, conv: conv, filters: cpu.PrepareBinaryFilters(weights, g)}
	switch conv.Method {
	case Gemm:
	case Bitwise:
		if pad := params.InputPadding; pad.Size > 0 && pad.Scheme != tensor.PaddingZeros {
			return nil, configErrorf(KindBinaryConvolutional, "bitwise method needs zeros input padding, got %v", pad)
		}
		in := params.Input
		l.packed = make([]uint64, in.NumRows()*in.NumColumns()*l.filters.Words)
	default:
		return nil, configErrorf(KindBinaryConvolutional, "unknown method %v", conv.Method)
	}
	return l, nil
}

// Method returns the binary convolution strategy.
func (l *BinaryConvolutional[T]) Method() BinaryConvolutionMethod {
	return l.conv.Method
}

// Scales returns the per-filter scale factors.
func (l *BinaryConvolutional[T]) Scales() []float64 {
	return l.filters.Scales
}

// Compute convolves the binarized input with every binarized filter.
func (l *BinaryConvolutional[T]) Compute() {
	if l.conv.Method == Bitwise {
		cpu.BinaryConv2DBitwise(l.output, l.interior, l.params.Input, l.filters, l.packed, l.parallel)
		return
	}
	cpu.BinaryConv2DGemm(l.output, l.interior, l.params.Input, l.filters, l.parallel)
}
