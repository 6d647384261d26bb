// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers and predictor of the inference engine.
//
// # Overview
//
// This package contains:
//   - Layers: Input, Bias, Scaling, BatchNormalization, Activation, Softmax,
//     Pooling, FullyConnected, Convolutional, BinaryConvolutional
//   - Activations: ReLU, LeakyReLU, Sigmoid, Tanh, HardSigmoid
//   - Pooling functions: MaxPooling, MeanPooling
//   - Predictor: a strict chain of layers rooted at an Input layer
//
// Inference only: there are no gradients and no parameter updates.
//
// # Basic Usage
//
//	import (
//	    "gonum.org/v1/gonum/mat"
//
//	    "github.com/born-ml/predictors/nn"
//	    "github.com/born-ml/predictors/tensor"
//	)
//
//	func main() {
//	    input, _ := nn.NewInput[float32](nn.DefaultInputParameters(tensor.NewShape(1, 1, 2)))
//	    hidden := tensor.NewShape(1, 1, 3)
//	    fc, _ := nn.NewFullyConnected(nn.ChainParameters[float32](input, hidden, tensor.NoPadding()), weights)
//	    relu, _ := nn.NewActivation(nn.ChainParameters[float32](fc, hidden, tensor.NoPadding()), nn.ReLU[float32]{})
//
//	    model, err := nn.NewPredictor(input, []nn.Layer[float32]{fc, relu})
//	    y, err := model.Predict([]float32{0, 1})
//	}
//
// # Padding
//
// Each layer's output carries a border described by its output padding.
// The border is written once at construction and supplies the values a
// successor's convolution or pooling window reads near the edges.
//
// # Errors
//
// Constructors fail fast. Shape and parameter mismatches wrap
// ErrConfiguration; unusable batch normalization statistics wrap
// ErrNumerical; a Predict vector of the wrong length wraps ErrInputSize.
package nn
