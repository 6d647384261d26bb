package nn

import (
	"slices"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// Bias adds a per-channel offset:
//
//	out[r,c,k] = in[r,c,k] + bias[k]
type Bias[T tensor.Float] struct {
	base[T]
	bias []T
}

// NewBias creates a Bias layer. bias is copied; it needs one entry per channel.
func NewBias[T tensor.Float](params Parameters[T], bias []T, opts ...Option) (*Bias[T], error) {
	b, err := newBase(KindBias, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	if err := b.requireSameShape(); err != nil {
		return nil, err
	}
	if err := b.requireChannels("bias", len(bias)); err != nil {
		return nil, err
	}
	return &Bias[T]{base: b, bias: slices.Clone(bias)}, nil
}

// Compute adds the bias to every interior cell.
func (l *Bias[T]) Compute() {
	cpu.Elementwise(l.output, l.interior, l.params.Input, l.params.InputPadding.Size, func(x T, k int) T {
		return x + l.bias[k]
	}, l.parallel)
}
