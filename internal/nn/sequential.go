package nn

import (
	"context"
	"log/slog"

	"github.com/born-ml/predictors/internal/tensor"
)

// Predictor drives a strict chain of layers rooted at an Input layer.
//
// Predict feeds a vector into the Input layer, computes every layer in
// order, and returns the last layer's interior flattened row-major.
// Repeated calls overwrite every output tensor in place, so a Predictor
// must not be used from several goroutines at once.
//
// Example:
//
//	input, _ := nn.NewInput[float32](nn.DefaultInputParameters(tensor.NewShape(1, 1, 2)))
//	fc, _ := nn.NewFullyConnected(nn.ChainParameters[float32](input, tensor.NewShape(1, 1, 1), tensor.NoPadding()), weights)
//	model, err := nn.NewPredictor(input, []nn.Layer[float32]{fc})
//	y, err := model.Predict([]float32{0, 1})
type Predictor[T tensor.Float] struct {
	input  *Input[T]
	layers []Layer[T]
	logger *slog.Logger
}

// NewPredictor validates the chain and takes ownership of it.
//
// layers[0] must read input's output tensor and layers[i] must read
// layers[i-1]'s output tensor, declaring the padding its predecessor writes. Only WithLogger applies here; layers take
// their own options.
func NewPredictor[T tensor.Float](input *Input[T], layers []Layer[T], opts ...Option) (*Predictor[T], error) {
	o := newOptions(opts)
	if input == nil {
		return nil, configErrorf(KindPredictor, "nil input layer")
	}

	var prev Layer[T] = input
	for i, l := range layers {
		if l == nil {
			return nil, configErrorf(KindPredictor, "layer %d is nil", i)
		}
		if l.Parameters().Input != prev.Output() {
			return nil, configErrorf(KindPredictor, "layer %d (%s) does not read the output of layer %d (%s)",
				i, l.Kind(), i-1, prev.Kind())
		}
		if got, want := l.Parameters().InputPadding, prev.Parameters().OutputPadding; got != want {
			return nil, configErrorf(KindPredictor, "layer %d (%s) declares input padding %v, layer %d (%s) writes %v",
				i, l.Kind(), got, i-1, prev.Kind(), want)
		}
		prev = l
	}

	p := &Predictor[T]{
		input:  input,
		layers: append([]Layer[T](nil), layers...),
		logger: o.logger,
	}
	p.logger.Debug("predictor built",
		slog.Int("layers", len(layers)),
		slog.String("input", p.InputShape().String()),
		slog.String("output", p.OutputShape().String()),
		slog.String("dtype", tensor.DataTypeOf[T]().String()))
	return p, nil
}

// Predict runs one forward pass.
//
// len(x) must equal the input shape's element count; the result has
// OutputShape().NumElements() values.
func (p *Predictor[T]) Predict(x []T) ([]T, error) {
	if err := p.input.SetInput(x); err != nil {
		return nil, err
	}

	trace := p.logger.Enabled(context.Background(), slog.LevelDebug)
	p.input.Compute()
	for i, l := range p.layers {
		l.Compute()
		if trace {
			p.logger.Debug("layer computed", slog.Int("index", i), slog.String("kind", l.Kind().String()))
		}
	}

	return Interior(p.lastLayer()), nil
}

// InputLayer returns the root Input layer.
func (p *Predictor[T]) InputLayer() *Input[T] {
	return p.input
}

// Layers returns the downstream layers in chain order.
func (p *Predictor[T]) Layers() []Layer[T] {
	return p.layers
}

// NumLayers returns the number of downstream layers.
func (p *Predictor[T]) NumLayers() int {
	return len(p.layers)
}

// InputShape returns the logical shape Predict expects.
func (p *Predictor[T]) InputShape() tensor.Shape {
	return p.input.params.OutputShape
}

// OutputShape returns the logical shape of the prediction.
func (p *Predictor[T]) OutputShape() tensor.Shape {
	return p.lastLayer().Parameters().OutputShape
}

func (p *Predictor[T]) lastLayer() Layer[T] {
	if len(p.layers) == 0 {
		return p.input
	}
	return p.layers[len(p.layers)-1]
}

// Interior returns the interior of l's output flattened row-major.
func Interior[T tensor.Float](l Layer[T]) []T {
	params := l.Parameters()
	pad, shape := params.OutputPadding.Size, params.OutputShape
	return l.Output().Region(pad, pad, shape.Rows, shape.Columns)
}
