package cpu

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/predictors/internal/parallel"
	"github.com/born-ml/predictors/internal/tensor"
)

// referenceWeights lays out two 3x3x2 filters, row-major then depth order.
var referenceWeights = []float64{
	1, 3, 2, 3, 1, 1, 2, 3, 1,
	2, 4, 1, 3, 1, 2, 1, 4, 2,
	1, 2, 1, 2, 3, 2, 1, 2, 1,
	0, 3, 2, 3, 1, 2, 1, 0, 2,
}

func buildWeights[T tensor.Float](values []float64, R, F, C int) *tensor.Tensor[T] {
	w := tensor.New[T](R*F, R, C)
	idx := 0
	for f := 0; f < F; f++ {
		for k := 0; k < C; k++ {
			for i := 0; i < R; i++ {
				for j := 0; j < R; j++ {
					w.Set(f*R+i, j, k, T(values[idx]))
					idx++
				}
			}
		}
	}
	return w
}

// referenceInput is a 1x2x2 interior padded by one zero cell.
func referenceInput[T tensor.Float](border T) *tensor.Tensor[T] {
	in := tensor.New[T](3, 4, 2)
	in.Fill(border)
	in.Set(1, 1, 0, 2)
	in.Set(1, 2, 0, 1)
	in.Set(1, 1, 1, 3)
	in.Set(1, 2, 1, 2)
	return in
}

func randomTensor(rng *rand.Rand, rows, cols, channels int) *tensor.Tensor[float64] {
	t := tensor.New[float64](rows, cols, channels)
	for i := range t.Data() {
		t.Data()[i] = rng.Float64()*2 - 1
	}
	return t
}

// TestConv2D_ReferenceValues tests both strategies on a hand-checked example.
func TestConv2D_ReferenceValues(t *testing.T) {
	g := ConvGeometry{ReceptiveField: 3, Stride: 1, Filters: 2}
	in := referenceInput[float32](0)
	w := buildWeights[float32](referenceWeights, 3, 2, 2)
	dst := Interior{Rows: 1, Columns: 2}

	columnwise := tensor.New[float32](1, 2, 2)
	Conv2DColumnwise(columnwise, dst, in, w, g, parallel.Sequential())

	diagonal := tensor.New[float32](1, 2, 2)
	Conv2DDiagonal(diagonal, dst, in, PrepareDiagonalFilters(w, g), parallel.Sequential())

	for name, out := range map[string]*tensor.Tensor[float32]{"columnwise": columnwise, "diagonal": diagonal} {
		assert.InDelta(t, 10, out.At(0, 0, 0), 1e-4, name)
		assert.InDelta(t, 15, out.At(0, 0, 1), 1e-4, name)
		assert.InDelta(t, 18, out.At(0, 1, 0), 1e-4, name)
		assert.InDelta(t, 18, out.At(0, 1, 1), 1e-4, name)
	}
}

// TestConv2D_StrategiesAgree compares columnwise and diagonal on random data.
func TestConv2D_StrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	cases := []struct {
		name                        string
		R, stride, rows, cols, C, F int
	}{
		{"1x1", 1, 1, 4, 5, 3, 2},
		{"3x3", 3, 1, 6, 7, 4, 3},
		{"3x3 stride 2", 3, 2, 3, 4, 2, 5},
		{"5x5", 5, 1, 2, 3, 70, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := ConvGeometry{ReceptiveField: tc.R, Stride: tc.stride, Filters: tc.F}
			inRows := (tc.rows-1)*tc.stride + tc.R
			inCols := (tc.cols-1)*tc.stride + tc.R
			in := randomTensor(rng, inRows, inCols, tc.C)
			w := randomTensor(rng, tc.R*tc.F, tc.R, tc.C)

			// write into a padded output to exercise the interior offset
			dst := Interior{Offset: 1, Rows: tc.rows, Columns: tc.cols}
			a := tensor.New[float64](tc.rows+2, tc.cols+2, tc.F)
			b := tensor.New[float64](tc.rows+2, tc.cols+2, tc.F)

			Conv2DColumnwise(a, dst, in, w, g, parallel.DefaultConfig())
			Conv2DDiagonal(b, dst, in, PrepareDiagonalFilters(w, g), parallel.DefaultConfig())

			if diff := cmp.Diff(a.Data(), b.Data(), cmpopts.EquateApprox(1e-6, 1e-12)); diff != "" {
				t.Errorf("diagonal differs from columnwise (-columnwise +diagonal):\n%s", diff)
			}
		})
	}
}

func TestConvGeometry_Validate(t *testing.T) {
	g := ConvGeometry{ReceptiveField: 3, Stride: 1, Filters: 1}
	require.NoError(t, g.Validate(tensor.NewShape(5, 5, 1), Interior{Rows: 3, Columns: 3}))
	require.Error(t, g.Validate(tensor.NewShape(4, 5, 1), Interior{Rows: 3, Columns: 3}))
	require.Error(t, ConvGeometry{ReceptiveField: 3, Filters: 1}.Validate(tensor.NewShape(5, 5, 1), Interior{}))
	require.Error(t, ConvGeometry{ReceptiveField: 3, Stride: 1}.Validate(tensor.NewShape(5, 5, 1), Interior{}))
}

func TestConv2D_BadWeightsPanics(t *testing.T) {
	g := ConvGeometry{ReceptiveField: 3, Stride: 1, Filters: 2}
	in := referenceInput[float64](0)
	out := tensor.New[float64](1, 2, 2)
	w := tensor.New[float64](3, 3, 2)

	assert.Panics(t, func() {
		Conv2DColumnwise(out, Interior{Rows: 1, Columns: 2}, in, w, g, parallel.Sequential())
	})
}

func BenchmarkConv2D(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	g := ConvGeometry{ReceptiveField: 3, Stride: 1, Filters: 16}
	in := randomTensor(rng, 34, 34, 16)
	w := randomTensor(rng, 3*16, 3, 16)
	out := tensor.New[float64](32, 32, 16)
	dst := Interior{Rows: 32, Columns: 32}
	filters := PrepareDiagonalFilters(w, g)

	b.Run("columnwise", func(b *testing.B) {
		for b.Loop() {
			Conv2DColumnwise(out, dst, in, w, g, parallel.Sequential())
		}
	})
	b.Run("diagonal", func(b *testing.B) {
		for b.Loop() {
			Conv2DDiagonal(out, dst, in, filters, parallel.Sequential())
		}
	})
}
