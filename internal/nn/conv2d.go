package nn

import (
	"fmt"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// ConvolutionMethod selects how a Convolutional layer computes its output.
type ConvolutionMethod int

// Convolution strategies. Both produce the same values within 1e-6 relative tolerance.
const (
	// Columnwise accumulates each output cell directly.
	Columnwise ConvolutionMethod = iota
	// Diagonal computes one matrix product per output row and filter row
	// and sums along its diagonals.
	Diagonal
)

// String returns the method name.
func (m ConvolutionMethod) String() string {
	switch m {
	case Columnwise:
		return "columnwise"
	case Diagonal:
		return "diagonal"
	default:
		return fmt.Sprintf("ConvolutionMethod(%d)", int(m))
	}
}

// ConvolutionalParameters configures a Convolutional layer.
type ConvolutionalParameters struct {
	ReceptiveField int // Odd window size R.
	Stride         int
	Method         ConvolutionMethod
	NumFilters     int // Output channels F.
}

// Convolutional applies F real-valued R x R filters to the padded input:
//
//	out[r,c,f] = sum_{i,j,k} w[f*R+i, j, k] * in[r*s+i, c*s+j, k]
//
// Weights are shaped (R*F, R, inputChannels); filter f occupies rows [f*R, f*R+R).
// The predecessor's padding supplies the border the filter reads near edges.
//
// Example:
//
//	// 3x3 filters, same spatial size: predecessor padded by 1
//	conv, err := nn.NewConvolutional(params, nn.ConvolutionalParameters{
//	    ReceptiveField: 3, Stride: 1, Method: nn.Diagonal, NumFilters: 16,
//	}, weights)
type Convolutional[T tensor.Float] struct {
	base[T]
	conv     ConvolutionalParameters
	geometry cpu.ConvGeometry
	weights  *tensor.Tensor[T]
	diagonal *cpu.DiagonalFilters
}

// NewConvolutional creates a Convolutional layer. weights is copied.
func NewConvolutional[T tensor.Float](params Parameters[T], conv ConvolutionalParameters, weights *tensor.Tensor[T], opts ...Option) (*Convolutional[T], error) {
	b, err := newBase(KindConvolutional, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	g, err := convGeometry(KindConvolutional, params, conv.ReceptiveField, conv.Stride, conv.NumFilters, weights, b.interior)
	if err != nil {
		return nil, err
	}

	l := &Convolutional[T]{base: b, conv: conv, geometry: g, weights: weights.Clone()}
	switch conv.Method {
	case Columnwise:
	case Diagonal:
		l.diagonal = cpu.PrepareDiagonalFilters(l.weights, g)
	default:
		return nil, configErrorf(KindConvolutional, "unknown method %v", conv.Method)
	}
	return l, nil
}

// Method returns the convolution strategy.
func (l *Convolutional[T]) Method() ConvolutionMethod {
	return l.conv.Method
}

// Compute convolves the input with every filter.
func (l *Convolutional[T]) Compute() {
	if l.conv.Method == Diagonal {
		cpu.Conv2DDiagonal(l.output, l.interior, l.params.Input, l.diagonal, l.parallel)
		return
	}
	cpu.Conv2DColumnwise(l.output, l.interior, l.params.Input, l.weights, l.geometry, l.parallel)
}

// convGeometry validates the window and weights shared by both convolution layers.
func convGeometry[T tensor.Float](kind Kind, params Parameters[T], receptiveField, stride, filters int, weights *tensor.Tensor[T], dst cpu.Interior) (cpu.ConvGeometry, error) {
	if receptiveField <= 0 || receptiveField%2 == 0 {
		return cpu.ConvGeometry{}, configErrorf(kind, "receptive field must be odd and positive, got %d", receptiveField)
	}
	if filters != params.OutputShape.Channels {
		return cpu.ConvGeometry{}, configErrorf(kind, "%d filters but %d output channels", filters, params.OutputShape.Channels)
	}

	g := cpu.ConvGeometry{ReceptiveField: receptiveField, Stride: stride, Filters: filters}
	if err := g.Validate(params.Input.Shape(), dst); err != nil {
		return cpu.ConvGeometry{}, configErrorf(kind, "%v", err)
	}
	if weights == nil {
		return cpu.ConvGeometry{}, configErrorf(kind, "nil weights")
	}
	if want := g.WeightsShape(params.Input.NumChannels()); !weights.Shape().Equal(want) {
		return cpu.ConvGeometry{}, configErrorf(kind, "weights shape %v, want %v", weights.Shape(), want)
	}
	return g, nil
}
