package nn

import (
	"slices"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/tensor"
)

// Scaling multiplies by a per-channel factor:
//
//	out[r,c,k] = in[r,c,k] * scale[k]
type Scaling[T tensor.Float] struct {
	base[T]
	scale []T
}

// NewScaling creates a Scaling layer. scale is copied; it needs one entry per channel.
func NewScaling[T tensor.Float](params Parameters[T], scale []T, opts ...Option) (*Scaling[T], error) {
	b, err := newBase(KindScaling, params, newOptions(opts))
	if err != nil {
		return nil, err
	}
	if err := b.requireSameShape(); err != nil {
		return nil, err
	}
	if err := b.requireChannels("scale", len(scale)); err != nil {
		return nil, err
	}
	return &Scaling[T]{base: b, scale: slices.Clone(scale)}, nil
}

// Compute scales every interior cell.
func (l *Scaling[T]) Compute() {
	cpu.Elementwise(l.output, l.interior, l.params.Input, l.params.InputPadding.Size, func(x T, k int) T {
		return x * l.scale[k]
	}, l.parallel)
}
