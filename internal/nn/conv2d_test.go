package nn

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/predictors/internal/tensor"
)

// convWeights lays out two 3x3x2 filters, row-major then depth order.
func convWeights[T tensor.Float]() *tensor.Tensor[T] {
	values := []T{
		1, 3, 2, 3, 1, 1, 2, 3, 1,
		2, 4, 1, 3, 1, 2, 1, 4, 2,
		1, 2, 1, 2, 3, 2, 1, 2, 1,
		0, 3, 2, 3, 1, 2, 1, 0, 2,
	}
	w := tensor.New[T](6, 3, 2)
	idx := 0
	for f := 0; f < 2; f++ {
		for k := 0; k < 2; k++ {
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					w.Set(f*3+i, j, k, values[idx])
					idx++
				}
			}
		}
	}
	return w
}

// convInput is a 1x2x2 interior inside a one-cell border.
func convInput[T tensor.Float](padding tensor.Padding) Parameters[T] {
	in := tensor.New[T](3, 4, 2)
	tensor.FillPadding(in, padding)
	in.Set(1, 1, 0, 2)
	in.Set(1, 2, 0, 1)
	in.Set(1, 1, 1, 3)
	in.Set(1, 2, 1, 2)
	return Parameters[T]{
		Input:         in,
		InputPadding:  padding,
		OutputShape:   tensor.NewShape(1, 2, 2),
		OutputPadding: tensor.NoPadding(),
	}
}

func randomParameters(rng *rand.Rand, rows, cols, channels, pad int, padding tensor.Padding) Parameters[float64] {
	in := tensor.New[float64](rows+2*pad, cols+2*pad, channels)
	for i := range in.Data() {
		in.Data()[i] = rng.Float64()*2 - 1
	}
	tensor.FillPadding(in, padding)
	return Parameters[float64]{Input: in, InputPadding: padding}
}

func randomWeights(rng *rand.Rand, R, F, C int) *tensor.Tensor[float64] {
	w := tensor.New[float64](R*F, R, C)
	for i := range w.Data() {
		w.Data()[i] = rng.Float64()*2 - 1
	}
	return w
}

func TestConvolutional_ReferenceValues(t *testing.T) {
	for _, method := range []ConvolutionMethod{Columnwise, Diagonal} {
		t.Run(method.String(), func(t *testing.T) {
			l, err := NewConvolutional(convInput[float32](tensor.ZeroPadding(1)), ConvolutionalParameters{
				ReceptiveField: 3, Stride: 1, Method: method, NumFilters: 2,
			}, convWeights[float32]())
			require.NoError(t, err)
			assert.Equal(t, method, l.Method())

			l.Compute()
			out := l.Output()
			assert.InDelta(t, 10, out.At(0, 0, 0), 1e-4)
			assert.InDelta(t, 15, out.At(0, 0, 1), 1e-4)
			assert.InDelta(t, 18, out.At(0, 1, 0), 1e-4)
			assert.InDelta(t, 18, out.At(0, 1, 1), 1e-4)
		})
	}
}

// TestConvolutional_MethodsAgree compares both strategies on random inputs
// of several geometries, writing into padded outputs.
func TestConvolutional_MethodsAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))

	cases := []struct {
		name                           string
		R, stride, rows, cols, C, F, p int
	}{
		{"1x1", 1, 1, 5, 4, 3, 2, 0},
		{"3x3 same", 3, 1, 8, 9, 4, 3, 1},
		{"3x3 stride 2", 3, 2, 9, 9, 2, 4, 1},
		{"5x5 same", 5, 1, 6, 6, 5, 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := randomParameters(rng, tc.rows, tc.cols, tc.C, tc.p, tensor.AlternatingPadding(tc.p))
			if tc.p == 0 {
				params.InputPadding = tensor.NoPadding()
			}
			params.OutputShape = tensor.NewShape(
				(tc.rows+2*tc.p-tc.R)/tc.stride+1,
				(tc.cols+2*tc.p-tc.R)/tc.stride+1,
				tc.F)
			params.OutputPadding = tensor.OnePadding(1)
			w := randomWeights(rng, tc.R, tc.F, tc.C)

			columnwise, err := NewConvolutional(params, ConvolutionalParameters{
				ReceptiveField: tc.R, Stride: tc.stride, Method: Columnwise, NumFilters: tc.F,
			}, w)
			require.NoError(t, err)
			diagonal, err := NewConvolutional(params, ConvolutionalParameters{
				ReceptiveField: tc.R, Stride: tc.stride, Method: Diagonal, NumFilters: tc.F,
			}, w)
			require.NoError(t, err)

			columnwise.Compute()
			diagonal.Compute()

			if diff := cmp.Diff(columnwise.Output().Data(), diagonal.Output().Data(), cmpopts.EquateApprox(1e-6, 1e-12)); diff != "" {
				t.Errorf("diagonal differs from columnwise (-columnwise +diagonal):\n%s", diff)
			}
		})
	}
}

func TestConvolutional_Errors(t *testing.T) {
	params := convInput[float64](tensor.ZeroPadding(1))
	w := convWeights[float64]()

	tests := []struct {
		name    string
		params  Parameters[float64]
		conv    ConvolutionalParameters
		weights *tensor.Tensor[float64]
	}{
		{"even receptive field", params, ConvolutionalParameters{ReceptiveField: 2, Stride: 1, NumFilters: 2}, w},
		{"zero stride", params, ConvolutionalParameters{ReceptiveField: 3, NumFilters: 2}, w},
		{"filter count", params, ConvolutionalParameters{ReceptiveField: 3, Stride: 1, NumFilters: 3}, w},
		{"weights shape", params, ConvolutionalParameters{ReceptiveField: 3, Stride: 1, NumFilters: 2}, tensor.New[float64](3, 3, 2)},
		{"nil weights", params, ConvolutionalParameters{ReceptiveField: 3, Stride: 1, NumFilters: 2}, nil},
		{"unknown method", params, ConvolutionalParameters{ReceptiveField: 3, Stride: 1, NumFilters: 2, Method: 7}, w},
		{"output too large", Parameters[float64]{
			Input: params.Input, InputPadding: params.InputPadding, OutputShape: tensor.NewShape(1, 3, 2),
		}, ConvolutionalParameters{ReceptiveField: 3, Stride: 1, NumFilters: 2}, w},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewConvolutional(tt.params, tt.conv, tt.weights)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Nil(t, l)
		})
	}
}

func TestConvolutional_CopiesWeights(t *testing.T) {
	w := convWeights[float64]()
	l, err := NewConvolutional(convInput[float64](tensor.ZeroPadding(1)), ConvolutionalParameters{
		ReceptiveField: 3, Stride: 1, Method: Columnwise, NumFilters: 2,
	}, w)
	require.NoError(t, err)
	w.Fill(0)

	l.Compute()
	assert.InDelta(t, 10, l.Output().At(0, 0, 0), 1e-9)
}

func TestBinaryConvolutional_ReferenceValues(t *testing.T) {
	tests := []struct {
		method  BinaryConvolutionMethod
		padding tensor.Padding
	}{
		{Gemm, tensor.MinusOnePadding(1)},
		{Gemm, tensor.ZeroPadding(1)},
		{Bitwise, tensor.ZeroPadding(1)},
	}

	for _, tt := range tests {
		t.Run(tt.method.String()+"/"+tt.padding.Scheme.String(), func(t *testing.T) {
			l, err := NewBinaryConvolutional(convInput[float32](tt.padding), BinaryConvolutionalParameters{
				ReceptiveField: 3, Stride: 1, Method: tt.method,
			}, convWeights[float32]())
			require.NoError(t, err)
			assert.Equal(t, tt.method, l.Method())
			assert.InDelta(t, 37.0/18.0, l.Scales()[0], 1e-12)

			l.Compute()
			out := l.Output()
			assert.InDelta(t, -20.5555553, out.At(0, 0, 0), 1e-4)
			assert.InDelta(t, -9.66666603, out.At(0, 0, 1), 1e-4)
			assert.InDelta(t, -20.5555553, out.At(0, 1, 0), 1e-4)
			assert.InDelta(t, -9.66666603, out.At(0, 1, 1), 1e-4)
		})
	}
}

func TestBinaryConvolutional_MethodsAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 14))

	for _, C := range []int{1, 8, 64, 100} {
		params := randomParameters(rng, 6, 5, C, 1, tensor.ZeroPadding(1))
		params.OutputShape = tensor.NewShape(6, 5, 3)
		params.OutputPadding = tensor.ZeroPadding(1)
		w := randomWeights(rng, 3, 3, C)

		gemm, err := NewBinaryConvolutional(params, BinaryConvolutionalParameters{ReceptiveField: 3, Stride: 1, Method: Gemm}, w)
		require.NoError(t, err)
		bitwise, err := NewBinaryConvolutional(params, BinaryConvolutionalParameters{ReceptiveField: 3, Stride: 1, Method: Bitwise}, w)
		require.NoError(t, err)

		for range 2 {
			gemm.Compute()
			bitwise.Compute()
		}

		if diff := cmp.Diff(gemm.Output().Data(), bitwise.Output().Data(), cmpopts.EquateApprox(0, 1e-4)); diff != "" {
			t.Errorf("C=%d: bitwise differs from gemm (-gemm +bitwise):\n%s", C, diff)
		}
	}
}

func TestBinaryConvolutional_BitwiseNeedsZeroPadding(t *testing.T) {
	for _, padding := range []tensor.Padding{tensor.MinusOnePadding(1), tensor.OnePadding(1), tensor.AlternatingPadding(1)} {
		_, err := NewBinaryConvolutional(convInput[float64](padding), BinaryConvolutionalParameters{
			ReceptiveField: 3, Stride: 1, Method: Bitwise,
		}, convWeights[float64]())
		assert.ErrorIs(t, err, ErrConfiguration, padding.String())

		_, err = NewBinaryConvolutional(convInput[float64](padding), BinaryConvolutionalParameters{
			ReceptiveField: 3, Stride: 1, Method: Gemm,
		}, convWeights[float64]())
		assert.NoError(t, err, padding.String())
	}
}

func TestBinaryConvolutional_Errors(t *testing.T) {
	params := convInput[float64](tensor.ZeroPadding(1))

	_, err := NewBinaryConvolutional(params, BinaryConvolutionalParameters{ReceptiveField: 3, Stride: 1, Method: 5}, convWeights[float64]())
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewBinaryConvolutional(params, BinaryConvolutionalParameters{ReceptiveField: 1, Stride: 1}, convWeights[float64]())
	assert.ErrorIs(t, err, ErrConfiguration)
}
