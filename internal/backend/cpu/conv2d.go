package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/predictors/internal/parallel"
	"github.com/born-ml/predictors/internal/tensor"
)

// ConvGeometry describes a square convolution window.
type ConvGeometry struct {
	ReceptiveField int // Window size R.
	Stride         int
	Filters        int // Output channels F.
}

// Validate checks the geometry against an input tensor and an output interior.
func (g ConvGeometry) Validate(in tensor.Shape, dst Interior) error {
	if g.ReceptiveField <= 0 {
		return fmt.Errorf("receptive field must be positive, got %d", g.ReceptiveField)
	}
	if g.Stride <= 0 {
		return fmt.Errorf("stride must be positive, got %d", g.Stride)
	}
	if g.Filters <= 0 {
		return fmt.Errorf("filter count must be positive, got %d", g.Filters)
	}
	if dst.Rows > 0 && (dst.Rows-1)*g.Stride+g.ReceptiveField > in.Rows {
		return fmt.Errorf("%d output rows need %d input rows, input has %d",
			dst.Rows, (dst.Rows-1)*g.Stride+g.ReceptiveField, in.Rows)
	}
	if dst.Columns > 0 && (dst.Columns-1)*g.Stride+g.ReceptiveField > in.Columns {
		return fmt.Errorf("%d output columns need %d input columns, input has %d",
			dst.Columns, (dst.Columns-1)*g.Stride+g.ReceptiveField, in.Columns)
	}
	return nil
}

// WeightsShape returns the weight tensor shape for inputChannels: (R*F, R, C).
// Filter f occupies rows [f*R, f*R+R).
func (g ConvGeometry) WeightsShape(inputChannels int) tensor.Shape {
	return tensor.NewShape(g.ReceptiveField*g.Filters, g.ReceptiveField, inputChannels)
}

// Conv2DColumnwise performs direct convolution:
//
//	out[r,c,f] = sum_{i,j,k} w[f*R+i, j, k] * in[r*s+i, c*s+j, k]
//
// over the padded input. Accumulation is done in float64.
func Conv2DColumnwise[T tensor.Float](out *tensor.Tensor[T], dst Interior, in, weights *tensor.Tensor[T], g ConvGeometry, cfg parallel.Config) {
	checkConv("conv2d", out, dst, in, weights, g)

	R, s := g.ReceptiveField, g.Stride
	parallel.For(dst.Rows, func(r int) {
		for c := 0; c < dst.Columns; c++ {
			res := out.Pixel(dst.Offset+r, dst.Offset+c)
			for f := 0; f < g.Filters; f++ {
				var sum float64
				for i := 0; i < R; i++ {
					for j := 0; j < R; j++ {
						w := weights.Pixel(f*R+i, j)
						x := in.Pixel(r*s+i, c*s+j)
						for k := range w {
							sum += float64(w[k]) * float64(x[k])
						}
					}
				}
				res[f] = T(sum)
			}
		}
	}, cfg)
}

// DiagonalFilters holds the weights regrouped for Conv2DDiagonal.
// Rows[i] is an (F*R) x C matrix whose row f*R+j is the tap (i, j) of filter f.
type DiagonalFilters struct {
	Rows     []*mat.Dense
	Geometry ConvGeometry
	Channels int
}

// PrepareDiagonalFilters regroups weights by filter row.
func PrepareDiagonalFilters[T tensor.Float](weights *tensor.Tensor[T], g ConvGeometry) *DiagonalFilters {
	R, C := g.ReceptiveField, weights.NumChannels()
	if !weights.Shape().Equal(g.WeightsShape(C)) {
		panic(fmt.Sprintf("conv2d: weights shape %v != %v", weights.Shape(), g.WeightsShape(C)))
	}

	rows := make([]*mat.Dense, R)
	for i := 0; i < R; i++ {
		m := mat.NewDense(g.Filters*R, C, nil)
		for f := 0; f < g.Filters; f++ {
			for j := 0; j < R; j++ {
				for k, w := range weights.Pixel(f*R+i, j) {
					m.Set(f*R+j, k, float64(w))
				}
			}
		}
		rows[i] = m
	}
	return &DiagonalFilters{Rows: rows, Geometry: g, Channels: C}
}

type diagonalScratch struct {
	x   *mat.Dense // input row: columns x channels
	m   *mat.Dense // product: (F*R) x columns
	acc []float64  // dst.Columns x F
}

// Conv2DDiagonal computes the same sum as Conv2DColumnwise by reformulating it
// as one matrix product per (output row, filter row):
//
//	M = W_i * X^T            W_i: (F*R) x C, X: input row r*s+i as columns x C
//	out[r,c,f] += sum_j M[f*R+j, c*s+j]
//
// Each output value is the sum along a diagonal of M, and every product walks
// a contiguous input row.
func Conv2DDiagonal[T tensor.Float](out *tensor.Tensor[T], dst Interior, in *tensor.Tensor[T], filters *DiagonalFilters, cfg parallel.Config) {
	g := filters.Geometry
	checkInterior("conv2d", out, dst)
	if err := g.Validate(in.Shape(), dst); err != nil {
		panic(fmt.Sprintf("conv2d: %v", err))
	}
	if in.NumChannels() != filters.Channels || out.NumChannels() != g.Filters {
		panic(fmt.Sprintf("conv2d: channel mismatch: input %d, filters %d, output %d, filter count %d",
			in.NumChannels(), filters.Channels, out.NumChannels(), g.Filters))
	}
	if dst.Rows == 0 || dst.Columns == 0 {
		return
	}

	R, s, F, C := g.ReceptiveField, g.Stride, g.Filters, in.NumChannels()
	inCols := in.NumColumns()
	rowLen := inCols * C
	data := in.Data()

	parallel.ForRows(dst.Rows, func() *diagonalScratch {
		return &diagonalScratch{
			x:   mat.NewDense(inCols, C, nil),
			m:   mat.NewDense(F*R, inCols, nil),
			acc: make([]float64, dst.Columns*F),
		}
	}, func(r int, sc *diagonalScratch) {
		clear(sc.acc)
		xRaw := sc.x.RawMatrix()
		for i := 0; i < R; i++ {
			row := data[(r*s+i)*rowLen : (r*s+i+1)*rowLen]
			for idx, v := range row {
				xRaw.Data[idx] = float64(v)
			}

			sc.m.Mul(filters.Rows[i], sc.x.T())

			mRaw := sc.m.RawMatrix()
			for f := 0; f < F; f++ {
				for j := 0; j < R; j++ {
					diag := mRaw.Data[(f*R+j)*mRaw.Stride+j:]
					for c := 0; c < dst.Columns; c++ {
						sc.acc[c*F+f] += diag[c*s]
					}
				}
			}
		}

		for c := 0; c < dst.Columns; c++ {
			res := out.Pixel(dst.Offset+r, dst.Offset+c)
			for f := range res {
				res[f] = T(sc.acc[c*F+f])
			}
		}
	}, cfg)
}

func checkConv[T tensor.Float](op string, out *tensor.Tensor[T], dst Interior, in, weights *tensor.Tensor[T], g ConvGeometry) {
	checkInterior(op, out, dst)
	if err := g.Validate(in.Shape(), dst); err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	if !weights.Shape().Equal(g.WeightsShape(in.NumChannels())) {
		panic(fmt.Sprintf("%s: weights shape %v != %v", op, weights.Shape(), g.WeightsShape(in.NumChannels())))
	}
	if out.NumChannels() != g.Filters {
		panic(fmt.Sprintf("%s: output channels %d != filter count %d", op, out.NumChannels(), g.Filters))
	}
}
