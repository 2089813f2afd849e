package analytics

import (
	"fmt"
	"math"

	"github.com/okian/screener/internal/domain/types"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// projectionDims is the number of principal components kept.
const projectionDims = 2

// Project maps the rows of x onto their first two principal components.
// Component signs are fixed so the largest-magnitude loading is positive,
// which keeps the output stable for a given input.
func Project(x *mat.Dense) ([]types.Point, error) {
	n, d := x.Dims()
	if n < projectionDims || d < projectionDims {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooFewPoints, n, d)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return nil, ErrProjection
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	means := make([]float64, d)
	for j := 0; j < d; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}

	signs := [projectionDims]float64{}
	for k := 0; k < projectionDims; k++ {
		best, sign := 0.0, 1.0
		for j := 0; j < d; j++ {
			if v := vecs.At(j, k); math.Abs(v) > best {
				best = math.Abs(v)
				sign = math.Copysign(1, v)
			}
		}
		signs[k] = sign
	}

	out := make([]types.Point, n)
	for i := 0; i < n; i++ {
		var xy [projectionDims]float64
		for k := 0; k < projectionDims; k++ {
			var s float64
			for j := 0; j < d; j++ {
				s += (x.At(i, j) - means[j]) * vecs.At(j, k)
			}
			xy[k] = s * signs[k]
		}
		if math.IsNaN(xy[0]) || math.IsNaN(xy[1]) {
			return nil, fmt.Errorf("%w: non-finite coordinate", ErrProjection)
		}
		out[i] = types.Point{X: xy[0], Y: xy[1]}
	}
	return out, nil
}
