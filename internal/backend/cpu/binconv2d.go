package cpu

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/predictors/internal/parallel"
	"github.com/born-ml/predictors/internal/tensor"
)

const wordBits = 64

// Binarize maps x to +1 when x > 0 and to -1 otherwise.
func Binarize[T tensor.Float](x T) T {
	if x > 0 {
		return 1
	}
	return -1
}

// WordsPerPixel returns the number of uint64 words holding the sign bits of channels values.
func WordsPerPixel(channels int) int {
	return (channels + wordBits - 1) / wordBits
}

// BinaryFilters holds the binarized form of a convolution weight tensor.
type BinaryFilters struct {
	Geometry ConvGeometry
	Channels int

	// Signs is F x K with K = R*R*C, entries +-1, columns ordered (i, j, k).
	Signs *mat.Dense

	// Packed[f] holds R*R*Words words; bit k%64 of word (i*R+j)*Words + k/64
	// is set when tap (i, j, k) of filter f is positive.
	Packed [][]uint64
	Words  int

	// Scales[f] is the mean absolute value of filter f's real weights.
	Scales []float64
}

// PatchSize returns K = R*R*C, the number of binary products per output value.
func (b *BinaryFilters) PatchSize() int {
	return b.Geometry.ReceptiveField * b.Geometry.ReceptiveField * b.Channels
}

// PrepareBinaryFilters binarizes weights shaped (R*F, R, C).
func PrepareBinaryFilters[T tensor.Float](weights *tensor.Tensor[T], g ConvGeometry) *BinaryFilters {
	R, C := g.ReceptiveField, weights.NumChannels()
	if !weights.Shape().Equal(g.WeightsShape(C)) {
		panic(fmt.Sprintf("binconv2d: weights shape %v != %v", weights.Shape(), g.WeightsShape(C)))
	}

	words := WordsPerPixel(C)
	K := R * R * C
	b := &BinaryFilters{
		Geometry: g,
		Channels: C,
		Signs:    mat.NewDense(g.Filters, K, nil),
		Packed:   make([][]uint64, g.Filters),
		Words:    words,
		Scales:   make([]float64, g.Filters),
	}

	for f := 0; f < g.Filters; f++ {
		packed := make([]uint64, R*R*words)
		var absSum float64
		col := 0
		for i := 0; i < R; i++ {
			for j := 0; j < R; j++ {
				tap := packed[(i*R+j)*words : (i*R+j+1)*words]
				for k, w := range weights.Pixel(f*R+i, j) {
					absSum += math.Abs(float64(w))
					b.Signs.Set(f, col, float64(Binarize(w)))
					if w > 0 {
						tap[k/wordBits] |= 1 << uint(k%wordBits)
					}
					col++
				}
			}
		}
		b.Packed[f] = packed
		b.Scales[f] = absSum / float64(K)
	}
	return b
}

type gemmScratch struct {
	patches *mat.Dense // dst.Columns x K
	dots    *mat.Dense // dst.Columns x F
}

// BinaryConv2DGemm convolves sign(in) with sign(w) as one matrix product per
// output row: the +-1 patches of the row (im2col) times Signs^T, then scales
// filter f by Scales[f].
func BinaryConv2DGemm[T tensor.Float](out *tensor.Tensor[T], dst Interior, in *tensor.Tensor[T], filters *BinaryFilters, cfg parallel.Config) {
	checkBinary("binconv2d", out, dst, in, filters)
	if dst.Rows == 0 || dst.Columns == 0 {
		return
	}

	g := filters.Geometry
	R, s, K := g.ReceptiveField, g.Stride, filters.PatchSize()

	parallel.ForRows(dst.Rows, func() *gemmScratch {
		return &gemmScratch{
			patches: mat.NewDense(dst.Columns, K, nil),
			dots:    mat.NewDense(dst.Columns, g.Filters, nil),
		}
	}, func(r int, sc *gemmScratch) {
		pRaw := sc.patches.RawMatrix()
		for c := 0; c < dst.Columns; c++ {
			row := pRaw.Data[c*pRaw.Stride : c*pRaw.Stride+K]
			idx := 0
			for i := 0; i < R; i++ {
				for j := 0; j < R; j++ {
					for _, x := range in.Pixel(r*s+i, c*s+j) {
						row[idx] = float64(Binarize(x))
						idx++
					}
				}
			}
		}

		sc.dots.Mul(sc.patches, filters.Signs.T())

		for c := 0; c < dst.Columns; c++ {
			res := out.Pixel(dst.Offset+r, dst.Offset+c)
			for f := range res {
				res[f] = T(filters.Scales[f] * sc.dots.At(c, f))
			}
		}
	}, cfg)
}

// PackSigns writes the sign bits of every location of in into packed, which
// must hold rows*columns*WordsPerPixel(channels) words.
func PackSigns[T tensor.Float](in *tensor.Tensor[T], packed []uint64, cfg parallel.Config) {
	words := WordsPerPixel(in.NumChannels())
	need := in.NumRows() * in.NumColumns() * words
	if len(packed) < need {
		panic(fmt.Sprintf("binconv2d: packed buffer has %d words, need %d", len(packed), need))
	}

	cols := in.NumColumns()
	parallel.For(in.NumRows(), func(r int) {
		for c := 0; c < cols; c++ {
			dst := packed[(r*cols+c)*words : (r*cols+c+1)*words]
			clear(dst)
			for k, x := range in.Pixel(r, c) {
				if x > 0 {
					dst[k/wordBits] |= 1 << uint(k%wordBits)
				}
			}
		}
	}, cfg)
}

// BinaryConv2DBitwise computes the same values as BinaryConv2DGemm from packed
// sign bits. For K binary products, matching bits contribute +1 and differing
// bits -1, so dot = K - 2*popcount(x XOR w). Unused high bits are zero in both
// operands and never count.
//
// packed is scratch of at least rows*columns*Words words of in.
func BinaryConv2DBitwise[T tensor.Float](out *tensor.Tensor[T], dst Interior, in *tensor.Tensor[T], filters *BinaryFilters, packed []uint64, cfg parallel.Config) {
	checkBinary("binconv2d", out, dst, in, filters)
	PackSigns(in, packed, cfg)

	g := filters.Geometry
	R, s, W := g.ReceptiveField, g.Stride, filters.Words
	K := filters.PatchSize()
	inCols := in.NumColumns()

	parallel.For(dst.Rows, func(r int) {
		for c := 0; c < dst.Columns; c++ {
			res := out.Pixel(dst.Offset+r, dst.Offset+c)
			for f := range res {
				weights := filters.Packed[f]
				differing := 0
				for i := 0; i < R; i++ {
					for j := 0; j < R; j++ {
						xs := packed[((r*s+i)*inCols+c*s+j)*W:]
						ws := weights[(i*R+j)*W:]
						for w := 0; w < W; w++ {
							differing += popcount(xs[w] ^ ws[w])
						}
					}
				}
				res[f] = T(filters.Scales[f] * float64(K-2*differing))
			}
		}
	}, cfg)
}

func checkBinary[T tensor.Float](op string, out *tensor.Tensor[T], dst Interior, in *tensor.Tensor[T], filters *BinaryFilters) {
	checkInterior(op, out, dst)
	if err := filters.Geometry.Validate(in.Shape(), dst); err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}
	if in.NumChannels() != filters.Channels || out.NumChannels() != filters.Geometry.Filters {
		panic(fmt.Sprintf("%s: channel mismatch: input %d, filters %d, output %d, filter count %d",
			op, in.NumChannels(), filters.Channels, out.NumChannels(), filters.Geometry.Filters))
	}
}
