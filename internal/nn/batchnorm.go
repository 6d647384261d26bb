package nn

import (
	"math"
	"slices"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// MinVariance is the smallest variance + epsilon a BatchNormalization
// channel accepts.
const MinVariance = 1e-12

// BatchNormalizationParameters holds per-channel statistics.
type BatchNormalizationParameters[T tensor.Float] struct {
	Mean     []T
	Variance []T
	Epsilon  T // Added to every variance. Zero by default.
}

// BatchNormalization normalizes every channel with fixed statistics:
//
//	out[r,c,k] = (in[r,c,k] - mean[k]) / sqrt(variance[k] + epsilon)
//
// Construction fails with a NumericalError when variance[k] + epsilon is not
// a finite number greater than MinVariance, so Compute never divides by zero.
type BatchNormalization[T tensor.Float] struct {
	base[T]
	mean   []T
	invStd []T
}

// NewBatchNormalization creates a BatchNormalization layer.
func NewBatchNormalization[T tensor.Float](params Parameters[T], bn BatchNormalizationParameters[T], opts ...Option) (*BatchNormalization[T], error) {
	b, err := newBase(KindBatchNormalization, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	if err := b.requireSameShape(); err != nil {
		return nil, err
	}
	if err := b.requireChannels("mean", len(bn.Mean)); err != nil {
		return nil, err
	}
	if err := b.requireChannels("variance", len(bn.Variance)); err != nil {
		return nil, err
	}

	invStd := make([]T, len(bn.Variance))
	for k, v := range bn.Variance {
		denom := float64(v) + float64(bn.Epsilon)
		if math.IsNaN(denom) || math.IsInf(denom, 0) || denom <= MinVariance {
			return nil, &NumericalError{Layer: KindBatchNormalization, Channel: k, Value: denom}
		}
		invStd[k] = T(1 / math.Sqrt(denom))
	}

	return &BatchNormalization[T]{base: b, mean: slices.Clone(bn.Mean), invStd: invStd}, nil
}

// Compute normalizes every interior cell.
func (l *BatchNormalization[T]) Compute() {
	cpu.Elementwise(l.output, l.interior, l.params.Input, l.params.InputPadding.Size, func(x T, k int) T {
		return (x - l.mean[k]) * l.invStd[k]
	}, l.parallel)
}
