package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/predictors/nn"
	"github.com/born-ml/predictors/tensor"
)

func newXORCommand(a *app) *cobra.Command {
	var double bool
	cmd := &cobra.Command{
		Use:   "xor",
		Short: "Run the reference 2-3-1 XOR network",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if double {
				return runXOR[float64](a)
			}
			return runXOR[float32](a)
		},
	}
	cmd.Flags().BoolVar(&double, "float64", false, "compute in float64 instead of float32")
	return cmd
}

func runXOR[T tensor.Float](a *app) error {
	model, err := buildXOR[T](nn.WithParallel(a.parallel), nn.WithLogger(a.logger))
	if err != nil {
		return err
	}

	for _, x := range [][]T{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		y, err := model.Predict(x)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%v xor %v -> %.3f\n", x[0], x[1], y[0])
	}
	return nil
}

// buildXOR assembles Input -> FullyConnected -> Bias -> ReLU -> FullyConnected -> Bias
// with trained weights.
func buildXOR[T tensor.Float](opts ...nn.Option) (*nn.Predictor[T], error) {
	input, err := nn.NewInput[T](nn.DefaultInputParameters(tensor.NewShape(1, 1, 2)), opts...)
	if err != nil {
		return nil, err
	}

	hidden, output := tensor.NewShape(1, 1, 3), tensor.NewShape(1, 1, 1)
	fc1, err := nn.NewFullyConnected(nn.ChainParameters[T](input, hidden, tensor.NoPadding()), mat.NewDense(3, 2, []float64{
		-0.97461396, 1.40845299,
		-0.14135513, -0.54136097,
		0.99313086, -0.99083692,
	}), opts...)
	if err != nil {
		return nil, err
	}
	bias1, err := nn.NewBias(nn.ChainParameters[T](fc1, hidden, tensor.NoPadding()), []T{-0.43837756, -0.90868396, -0.0323102}, opts...)
	if err != nil {
		return nil, err
	}
	relu, err := nn.NewActivation(nn.ChainParameters[T](bias1, hidden, tensor.NoPadding()), nn.ReLU[T]{}, opts...)
	if err != nil {
		return nil, err
	}
	fc2, err := nn.NewFullyConnected(nn.ChainParameters[T](relu, output, tensor.NoPadding()), mat.NewDense(1, 3, []float64{
		1.03084767, -0.10772263, 1.04077697,
	}), opts...)
	if err != nil {
		return nil, err
	}
	bias2, err := nn.NewBias(nn.ChainParameters[T](fc2, output, tensor.NoPadding()), []T{1.40129846e-20}, opts...)
	if err != nil {
		return nil, err
	}

	return nn.NewPredictor(input, []nn.Layer[T]{fc1, bias1, relu, fc2, bias2}, opts...)
}
