// Package nn implements the forward-only layer chain of the predictors engine.
//
// This package provides:
//   - Layer interface: Base contract for all layers (Compute, Output)
//   - Input, Bias, Scaling, BatchNormalization: Per-element and per-channel transforms
//   - Activation, Softmax: Scalar and per-location nonlinearities
//   - Pooling, FullyConnected: Windowed and dense reductions
//   - Convolutional, BinaryConvolutional: Real and sign-binarized 2D convolution
//   - Predictor: Container driving a strict chain of layers
//
// Every layer owns one output tensor sized to its logical shape plus a
// padding border. The border is written once at construction; Compute only
// writes the interior. A layer reads its predecessor's output and never
// mutates it.
package nn

import (
	"fmt"

	"github.com/born-ml/predictors/internal/backend/cpu"
	"github.com/born-ml/predictors/internal/parallel"
	"github.com/born-ml/predictors/internal/tensor"
)

// Kind identifies a layer variant.
type Kind int

// Layer kinds.
const (
	KindInput Kind = iota
	KindBias
	KindScaling
	KindBatchNormalization
	KindActivation
	KindSoftmax
	KindPooling
	KindFullyConnected
	KindConvolutional
	KindBinaryConvolutional
	KindPredictor
)

// String returns the layer kind name.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindBias:
		return "bias"
	case KindScaling:
		return "scaling"
	case KindBatchNormalization:
		return "batch_normalization"
	case KindActivation:
		return "activation"
	case KindSoftmax:
		return "softmax"
	case KindPooling:
		return "pooling"
	case KindFullyConnected:
		return "fully_connected"
	case KindConvolutional:
		return "convolutional"
	case KindBinaryConvolutional:
		return "binary_convolutional"
	case KindPredictor:
		return "predictor"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Layer is the base contract every layer honors.
//
// Layers are chained: each layer's Parameters().Input is its predecessor's
// Output(). The chain is built once and computed strictly in order.
type Layer[T tensor.Float] interface {
	// Compute writes the interior of the output tensor from the input.
	// It may be called any number of times; the border is never touched.
	Compute()

	// Output returns the full padded output tensor.
	Output() *tensor.Tensor[T]

	// Parameters returns the geometry the layer was built with.
	Parameters() Parameters[T]

	// Kind returns the layer variant.
	Kind() Kind
}

// Parameters describes where a layer reads from and what it produces.
type Parameters[T tensor.Float] struct {
	// Input is the predecessor's padded output. Borrowed, never written.
	Input *tensor.Tensor[T]

	// InputPadding is the border already present around Input's interior.
	InputPadding tensor.Padding

	// OutputShape is the logical (unpadded) shape of the output.
	OutputShape tensor.Shape

	// OutputPadding is the border added around the output interior.
	OutputPadding tensor.Padding
}

// ChainParameters returns the parameters of a layer reading prev's output.
func ChainParameters[T tensor.Float](prev Layer[T], outputShape tensor.Shape, outputPadding tensor.Padding) Parameters[T] {
	return Parameters[T]{
		Input:         prev.Output(),
		InputPadding:  prev.Parameters().OutputPadding,
		OutputShape:   outputShape,
		OutputPadding: outputPadding,
	}
}

// InputShape returns the interior shape of Input.
func (p Parameters[T]) InputShape() tensor.Shape {
	return p.Input.Shape().Unpadded(p.InputPadding.Size)
}

// base holds the state shared by all layers.
type base[T tensor.Float] struct {
	kind     Kind
	params   Parameters[T]
	output   *tensor.Tensor[T]
	interior cpu.Interior
	parallel parallel.Config
}

// newBase validates params and allocates the padded output tensor with its
// border filled.
func newBase[T tensor.Float](kind Kind, params Parameters[T], o options) (base[T], error) {
	if params.Input == nil {
		return base[T]{}, configErrorf(kind, "nil input tensor")
	}
	if err := params.InputPadding.Validate(); err != nil {
		return base[T]{}, configErrorf(kind, "input padding: %v", err)
	}
	in := params.Input.Shape()
	if 2*params.InputPadding.Size > in.Rows || 2*params.InputPadding.Size > in.Columns {
		return base[T]{}, configErrorf(kind, "input padding %v does not fit input %v", params.InputPadding, in)
	}
	b, err := allocateBase[T](kind, params.OutputShape, params.OutputPadding, o)
	if err != nil {
		return base[T]{}, err
	}
	b.params = params
	return b, nil
}

func allocateBase[T tensor.Float](kind Kind, shape tensor.Shape, padding tensor.Padding, o options) (base[T], error) {
	if err := shape.Validate(); err != nil {
		return base[T]{}, configErrorf(kind, "output shape: %v", err)
	}
	if err := padding.Validate(); err != nil {
		return base[T]{}, configErrorf(kind, "output padding: %v", err)
	}

	output := tensor.NewFromShape[T](shape.Padded(padding.Size))
	tensor.FillPadding(output, padding)

	return base[T]{
		kind:     kind,
		params:   Parameters[T]{OutputShape: shape, OutputPadding: padding},
		output:   output,
		interior: cpu.InteriorOf(shape, padding.Size),
		parallel: o.parallel,
	}, nil
}

// Output returns the full padded output tensor.
func (b *base[T]) Output() *tensor.Tensor[T] {
	return b.output
}

// Parameters returns the layer geometry.
func (b *base[T]) Parameters() Parameters[T] {
	return b.params
}

// Kind returns the layer variant.
func (b *base[T]) Kind() Kind {
	return b.kind
}

// requireSameShape checks that the input interior matches the output shape,
// as every elementwise layer requires.
func (b *base[T]) requireSameShape() error {
	if in := b.params.InputShape(); !in.Equal(b.params.OutputShape) {
		return configErrorf(b.kind, "input interior %v != output shape %v", in, b.params.OutputShape)
	}
	return nil
}

// requireChannels checks the length of a per-channel parameter vector.
func (b *base[T]) requireChannels(name string, n int) error {
	if want := b.params.OutputShape.Channels; n != want {
		return configErrorf(b.kind, "%s has %d entries, want one per channel (%d)", name, n, want)
	}
	return nil
}
