// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/predictors/internal/nn"
	"github.com/born-ml/predictors/internal/parallel"
	"github.com/born-ml/predictors/internal/tensor"
)

// Errors.
var (
	ErrConfiguration = nn.ErrConfiguration
	ErrNumerical     = nn.ErrNumerical
	ErrInputSize     = nn.ErrInputSize
)

// ConfigError reports a shape or parameter mismatch.
type ConfigError = nn.ConfigError

// NumericalError reports an unusable per-channel statistic.
type NumericalError = nn.NumericalError

// Kind identifies a layer variant.
type Kind = nn.Kind

// Layer is the contract every layer honors.
type Layer[T tensor.Float] = nn.Layer[T]

// Parameters describes where a layer reads from and what it produces.
type Parameters[T tensor.Float] = nn.Parameters[T]

// ChainParameters returns the parameters of a layer reading prev's output.
func ChainParameters[T tensor.Float](prev Layer[T], outputShape tensor.Shape, outputPadding tensor.Padding) Parameters[T] {
	return nn.ChainParameters(prev, outputShape, outputPadding)
}

// Interior returns the interior of l's output flattened row-major.
func Interior[T tensor.Float](l Layer[T]) []T {
	return nn.Interior(l)
}

// Option configures layers and predictors.
type Option = nn.Option

// ParallelConfig controls the intra-layer parallel loop.
type ParallelConfig = parallel.Config

// DefaultParallelConfig returns a config using every CPU.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// SequentialConfig returns a config that never spawns goroutines.
func SequentialConfig() ParallelConfig {
	return parallel.Sequential()
}

// WithParallel sets the intra-layer parallel loop configuration.
func WithParallel(cfg ParallelConfig) Option {
	return nn.WithParallel(cfg)
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return nn.WithLogger(logger)
}

// Input layer

// InputParameters configures the Input layer.
type InputParameters = nn.InputParameters

// Input is the root of every layer chain.
type Input[T tensor.Float] = nn.Input[T]

// DefaultInputParameters returns unpadded parameters for shape with Scale 1.
func DefaultInputParameters(shape tensor.Shape) InputParameters {
	return nn.DefaultInputParameters(shape)
}

// NewInput creates an Input layer.
func NewInput[T tensor.Float](p InputParameters, opts ...Option) (*Input[T], error) {
	return nn.NewInput[T](p, opts...)
}

// Per-channel layers

// Bias adds a per-channel offset.
type Bias[T tensor.Float] = nn.Bias[T]

// NewBias creates a Bias layer.
func NewBias[T tensor.Float](params Parameters[T], bias []T, opts ...Option) (*Bias[T], error) {
	return nn.NewBias(params, bias, opts...)
}

// Scaling multiplies by a per-channel factor.
type Scaling[T tensor.Float] = nn.Scaling[T]

// NewScaling creates a Scaling layer.
func NewScaling[T tensor.Float](params Parameters[T], scale []T, opts ...Option) (*Scaling[T], error) {
	return nn.NewScaling(params, scale, opts...)
}

// BatchNormalizationParameters holds per-channel statistics.
type BatchNormalizationParameters[T tensor.Float] = nn.BatchNormalizationParameters[T]

// BatchNormalization normalizes every channel with fixed statistics.
type BatchNormalization[T tensor.Float] = nn.BatchNormalization[T]

// NewBatchNormalization creates a BatchNormalization layer.
func NewBatchNormalization[T tensor.Float](params Parameters[T], bn BatchNormalizationParameters[T], opts ...Option) (*BatchNormalization[T], error) {
	return nn.NewBatchNormalization(params, bn, opts...)
}

// Activations

// ActivationFunction is a scalar nonlinearity.
type ActivationFunction[T tensor.Float] = nn.ActivationFunction[T]

// ReLU is max(0, x).
type ReLU[T tensor.Float] = nn.ReLU[T]

// LeakyReLU is x for x > 0 and Alpha*x otherwise.
type LeakyReLU[T tensor.Float] = nn.LeakyReLU[T]

// Sigmoid is 1 / (1 + exp(-x)).
type Sigmoid[T tensor.Float] = nn.Sigmoid[T]

// Tanh is the hyperbolic tangent.
type Tanh[T tensor.Float] = nn.Tanh[T]

// HardSigmoid is clamp(0.2x + 0.5, 0, 1).
type HardSigmoid[T tensor.Float] = nn.HardSigmoid[T]

// Activation applies an ActivationFunction to every interior cell.
type Activation[T tensor.Float] = nn.Activation[T]

// NewActivation creates an Activation layer.
//
// Example:
//
//	relu, err := nn.NewActivation(params, nn.ReLU[float32]{})
func NewActivation[T tensor.Float](params Parameters[T], fn ActivationFunction[T], opts ...Option) (*Activation[T], error) {
	return nn.NewActivation(params, fn, opts...)
}

// Softmax normalizes across channels at every location.
type Softmax[T tensor.Float] = nn.Softmax[T]

// NewSoftmax creates a Softmax layer.
func NewSoftmax[T tensor.Float](params Parameters[T], opts ...Option) (*Softmax[T], error) {
	return nn.NewSoftmax(params, opts...)
}

// Spatial layers

// PoolingParameters configures a square pooling window.
type PoolingParameters = nn.PoolingParameters

// PoolingFunction reduces a window to one value.
type PoolingFunction[T tensor.Float] = nn.PoolingFunction[T]

// MaxPooling keeps the largest value of the window.
type MaxPooling[T tensor.Float] = nn.MaxPooling[T]

// MeanPooling averages the window.
type MeanPooling[T tensor.Float] = nn.MeanPooling[T]

// Pooling reduces windows per channel.
type Pooling[T tensor.Float] = nn.Pooling[T]

// NewPooling creates a Pooling layer.
func NewPooling[T tensor.Float](params Parameters[T], pool PoolingParameters, fn PoolingFunction[T], opts ...Option) (*Pooling[T], error) {
	return nn.NewPooling(params, pool, fn, opts...)
}

// FullyConnected multiplies the flattened input interior by a weight matrix.
type FullyConnected[T tensor.Float] = nn.FullyConnected[T]

// NewFullyConnected creates a FullyConnected layer.
func NewFullyConnected[T tensor.Float](params Parameters[T], weights mat.Matrix, opts ...Option) (*FullyConnected[T], error) {
	return nn.NewFullyConnected(params, weights, opts...)
}

// Convolution

// ConvolutionMethod selects the real-valued convolution strategy.
type ConvolutionMethod = nn.ConvolutionMethod

// Convolution strategies.
const (
	Columnwise = nn.Columnwise
	Diagonal   = nn.Diagonal
)

// ConvolutionalParameters configures a Convolutional layer.
type ConvolutionalParameters = nn.ConvolutionalParameters

// Convolutional applies real-valued filters.
type Convolutional[T tensor.Float] = nn.Convolutional[T]

// NewConvolutional creates a Convolutional layer.
func NewConvolutional[T tensor.Float](params Parameters[T], conv ConvolutionalParameters, weights *tensor.Tensor[T], opts ...Option) (*Convolutional[T], error) {
	return nn.NewConvolutional(params, conv, weights, opts...)
}

// BinaryConvolutionMethod selects the binary convolution strategy.
type BinaryConvolutionMethod = nn.BinaryConvolutionMethod

// Binary convolution strategies.
const (
	Gemm    = nn.Gemm
	Bitwise = nn.Bitwise
)

// BinaryConvolutionalParameters configures a BinaryConvolutional layer.
type BinaryConvolutionalParameters = nn.BinaryConvolutionalParameters

// BinaryConvolutional applies sign-binarized filters.
type BinaryConvolutional[T tensor.Float] = nn.BinaryConvolutional[T]

// NewBinaryConvolutional creates a BinaryConvolutional layer.
func NewBinaryConvolutional[T tensor.Float](params Parameters[T], conv BinaryConvolutionalParameters, weights *tensor.Tensor[T], opts ...Option) (*BinaryConvolutional[T], error) {
	return nn.NewBinaryConvolutional(params, conv, weights, opts...)
}

// Predictor

// Predictor drives a strict chain of layers.
type Predictor[T tensor.Float] = nn.Predictor[T]

// NewPredictor validates the chain and takes ownership of it.
func NewPredictor[T tensor.Float](input *Input[T], layers []Layer[T], opts ...Option) (*Predictor[T], error) {
	return nn.NewPredictor(input, layers, opts...)
}
