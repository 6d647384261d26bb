package nn

import (
	"fmt"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// InputParameters configures the Input layer.
type InputParameters struct {
	InputShape    tensor.Shape
	OutputShape   tensor.Shape
	OutputPadding tensor.Padding
	Scale         float64 // Multiplier applied to every stored value.
}

// DefaultInputParameters returns unpadded parameters for shape with Scale 1.
func DefaultInputParameters(shape tensor.Shape) InputParameters {
	return InputParameters{
		InputShape:    shape,
		OutputShape:   shape,
		OutputPadding: tensor.NoPadding(),
		Scale:         1,
	}
}

// Input is the root of every layer chain.
//
// SetInput stores a flat vector row-major into the logical input shape and
// Compute writes Scale * stored into the output interior:
//
//	out[r,c,k] = Scale * in[r,c,k]
//
// Example:
//
//	input, err := nn.NewInput[float32](nn.DefaultInputParameters(tensor.NewShape(1, 1, 2)))
//	err = input.SetInput([]float32{0, 1})
//	input.Compute()
type Input[T tensor.Float] struct {
	base[T]
	stored *tensor.Tensor[T]
	scale  T
}

// NewInput creates an Input layer.
//
// InputShape must equal OutputShape.
func NewInput[T tensor.Float](p InputParameters, opts ...Option) (*Input[T], error) {
	if err := p.InputShape.Validate(); err != nil {
		return nil, configErrorf(KindInput, "input shape: %v", err)
	}
	if !p.InputShape.Equal(p.OutputShape) {
		return nil, configErrorf(KindInput, "input shape %v != output shape %v", p.InputShape, p.OutputShape)
	}

	b, err := allocateBase[T](KindInput, p.OutputShape, p.OutputPadding, newOptions(opts))
	if err != nil {
		return nil, err
	}
	stored := tensor.NewFromShape[T](p.InputShape)
	b.params.Input = stored
	b.params.InputPadding = tensor.NoPadding()

	return &Input[T]{base: b, stored: stored, scale: T(p.Scale)}, nil
}

// SetInput copies values into the stored input.
// len(values) must equal the number of elements of the input shape.
func (l *Input[T]) SetInput(values []T) error {
	if n := l.stored.NumElements(); len(values) != n {
		return fmt.Errorf("%w: input layer expects %d values, got %d", ErrInputSize, n, len(values))
	}
	copy(l.stored.Data(), values)
	return nil
}

// Compute writes the scaled input into the output interior.
func (l *Input[T]) Compute() {
	scale := l.scale
	cpu.Elementwise(l.output, l.interior, l.stored, 0, func(x T, _ int) T {
		return scale * x
	}, l.parallel)
}
