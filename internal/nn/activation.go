package nn

import (
	"math"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// ActivationFunction is a scalar nonlinearity applied cell by cell.
type ActivationFunction[T tensor.Float] interface {
	Apply(x T) T
}

// ReLU is the Rectified Linear Unit: f(x) = max(0, x).
type ReLU[T tensor.Float] struct{}

// Apply returns max(0, x).
func (ReLU[T]) Apply(x T) T {
	if x > 0 {
		return x
	}
	return 0
}

// LeakyReLU is f(x) = x for x > 0, Alpha*x otherwise.
type LeakyReLU[T tensor.Float] struct {
	Alpha T // Negative slope.
}

// Apply returns x or Alpha*x.
func (a LeakyReLU[T]) Apply(x T) T {
	if x > 0 {
		return x
	}
	return a.Alpha * x
}

// Sigmoid is f(x) = 1 / (1 + exp(-x)).
//
// Evaluated in split form so exp never overflows:
// x >= 0 uses 1/(1+e^-x), x < 0 uses e^x/(1+e^x).
type Sigmoid[T tensor.Float] struct{}

// Apply returns sigmoid(x).
func (Sigmoid[T]) Apply(x T) T {
	v := float64(x)
	if v >= 0 {
		return T(1 / (1 + math.Exp(-v)))
	}
	e := math.Exp(v)
	return T(e / (1 + e))
}

// Tanh is the hyperbolic tangent.
type Tanh[T tensor.Float] struct{}

// Apply returns tanh(x).
func (Tanh[T]) Apply(x T) T {
	return T(math.Tanh(float64(x)))
}

// HardSigmoid is the piecewise linear f(x) = clamp(0.2x + 0.5, 0, 1).
type HardSigmoid[T tensor.Float] struct{}

// Apply returns clamp(0.2x + 0.5, 0, 1).
func (HardSigmoid[T]) Apply(x T) T {
	return T(math.Min(1, math.Max(0, 0.2*float64(x)+0.5)))
}

// Activation applies an ActivationFunction to every interior cell:
//
//	out[r,c,k] = f(in[r,c,k])
//
// Example:
//
//	relu, err := nn.NewActivation(params, nn.ReLU[float32]{})
type Activation[T tensor.Float] struct {
	base[T]
	fn ActivationFunction[T]
}

// NewActivation creates an Activation layer.
func NewActivation[T tensor.Float](params Parameters[T], fn ActivationFunction[T], opts ...Option) (*Activation[T], error) {
	b, err := newBase(KindActivation, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	if fn == nil {
		return nil, configErrorf(KindActivation, "nil activation function")
	}
	if err := b.requireSameShape(); err != nil {
		return nil, err
	}
	return &Activation[T]{base: b, fn: fn}, nil
}

// Function returns the activation function.
func (l *Activation[T]) Function() ActivationFunction[T] {
	return l.fn
}

// Compute applies the activation function.
func (l *Activation[T]) Compute() {
	fn := l.fn
	cpu.Elementwise(l.output, l.interior, l.params.Input, l.params.InputPadding.Size, func(x T, _ int) T {
		return fn.Apply(x)
	}, l.parallel)
}

// Softmax normalizes across channels at every spatial location:
//
//	out[r,c,k] = exp(in[r,c,k]) / sum_j exp(in[r,c,j])
//
// The maximum is subtracted before exponentiation.
type Softmax[T tensor.Float] struct {
	base[T]
}

// NewSoftmax creates a Softmax layer.
func NewSoftmax[T tensor.Float](params Parameters[T], opts ...Option) (*Softmax[T], error) {
	b, err := newBase(KindSoftmax, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	if err := b.requireSameShape(); err != nil {
		return nil, err
	}
	return &Softmax[T]{base: b}, nil
}

// Compute writes the softmax of every location.
func (l *Softmax[T]) Compute() {
	cpu.Softmax(l.output, l.interior, l.params.Input, l.params.InputPadding.Size, l.parallel)
}
