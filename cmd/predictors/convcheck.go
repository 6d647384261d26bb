package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/born-ml/predictors/nn"
	"github.com/born-ml/predictors/tensor"
)

// Agreement tolerances between convolution strategies.
const (
	convRelTolerance   = 1e-6
	binaryAbsTolerance = 1e-4
)

type convCheckOptions struct {
	receptiveField int
	stride         int
	rows           int
	cols           int
	channels       int
	filters        int
	seed           uint64
}

func newConvCheckCommand(a *app) *cobra.Command {
	var o convCheckOptions
	cmd := &cobra.Command{
		Use:   "conv-check",
		Short: "Compare convolution strategies on random data",
		Long: `Runs columnwise and diagonal convolution, then gemm and bitwise binary
convolution, on the same random input and reports the largest deviation.
Fails when a pair disagrees beyond its tolerance.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runConvCheck(a, o)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.receptiveField, "receptive-field", 3, "odd filter window size")
	f.IntVar(&o.stride, "stride", 1, "filter stride")
	f.IntVar(&o.rows, "rows", 16, "input rows")
	f.IntVar(&o.cols, "cols", 16, "input columns")
	f.IntVar(&o.channels, "channels", 8, "input channels")
	f.IntVar(&o.filters, "filters", 4, "number of filters")
	f.Uint64Var(&o.seed, "seed", 1, "random seed")
	return cmd
}

func runConvCheck(a *app, o convCheckOptions) error {
	if o.receptiveField <= 0 || o.stride <= 0 || o.rows <= 0 || o.cols <= 0 || o.channels <= 0 || o.filters <= 0 {
		return fmt.Errorf("conv-check: all sizes must be positive")
	}
	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	opts := []nn.Option{nn.WithParallel(a.parallel), nn.WithLogger(a.logger)}

	// same-size convolution: the input layer carries the border the filters read
	pad := o.receptiveField / 2
	input, err := nn.NewInput[float64](nn.InputParameters{
		InputShape:    tensor.NewShape(o.rows, o.cols, o.channels),
		OutputShape:   tensor.NewShape(o.rows, o.cols, o.channels),
		OutputPadding: tensor.ZeroPadding(pad),
		Scale:         1,
	}, opts...)
	if err != nil {
		return err
	}
	if err := input.SetInput(randomValues(rng, o.rows*o.cols*o.channels)); err != nil {
		return err
	}
	input.Compute()

	outShape := tensor.NewShape(
		(o.rows+2*pad-o.receptiveField)/o.stride+1,
		(o.cols+2*pad-o.receptiveField)/o.stride+1,
		o.filters)
	params := nn.ChainParameters[float64](input, outShape, tensor.NoPadding())

	weights := tensor.New[float64](o.receptiveField*o.filters, o.receptiveField, o.channels)
	copy(weights.Data(), randomValues(rng, weights.NumElements()))

	var results [4][]float64
	for i, method := range []nn.ConvolutionMethod{nn.Columnwise, nn.Diagonal} {
		conv, err := nn.NewConvolutional(params, nn.ConvolutionalParameters{
			ReceptiveField: o.receptiveField, Stride: o.stride, Method: method, NumFilters: o.filters,
		}, weights, opts...)
		if err != nil {
			return err
		}
		conv.Compute()
		results[i] = nn.Interior[float64](conv)
	}
	for i, method := range []nn.BinaryConvolutionMethod{nn.Gemm, nn.Bitwise} {
		conv, err := nn.NewBinaryConvolutional(params, nn.BinaryConvolutionalParameters{
			ReceptiveField: o.receptiveField, Stride: o.stride, Method: method,
		}, weights, opts...)
		if err != nil {
			return err
		}
		conv.Compute()
		results[2+i] = nn.Interior[float64](conv)
	}

	convDev := maxDeviation(results[0], results[1], true)
	binaryDev := maxDeviation(results[2], results[3], false)
	a.logger.Info("conv-check done",
		slog.String("output", outShape.String()),
		slog.Float64("conv_rel", convDev),
		slog.Float64("binary_abs", binaryDev))

	fmt.Fprintf(a.out, "output shape:                %v\n", outShape)
	fmt.Fprintf(a.out, "columnwise vs diagonal (rel): %.3e\n", convDev)
	fmt.Fprintf(a.out, "gemm vs bitwise (abs):        %.3e\n", binaryDev)

	if convDev > convRelTolerance {
		return fmt.Errorf("conv-check: diagonal deviates from columnwise by %.3e (tolerance %.0e)", convDev, convRelTolerance)
	}
	if binaryDev > binaryAbsTolerance {
		return fmt.Errorf("conv-check: bitwise deviates from gemm by %.3e (tolerance %.0e)", binaryDev, binaryAbsTolerance)
	}
	return nil
}

func randomValues(rng *rand.Rand, n int) []float64 {
	return lo.Times(n, func(int) float64 {
		return rng.Float64()*2 - 1
	})
}

// maxDeviation returns the largest absolute, or relative, difference
// between a and b.
func maxDeviation(a, b []float64, relative bool) float64 {
	return lo.Max(lo.Map(a, func(x float64, i int) float64 {
		d := math.Abs(x - b[i])
		if relative {
			d /= math.Max(1, math.Max(math.Abs(x), math.Abs(b[i])))
		}
		return d
	}))
}
