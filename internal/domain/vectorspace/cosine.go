package vectorspace

import (
	"fmt"
	"math"
)

// Cosine returns the cosine similarity of a and b. A zero vector has
// similarity 0 with anything.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine %d vs %d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// Similarities returns the cosine similarity of query against every row.
func Similarities(query []float64, rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		s, err := Cosine(query, r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// Pairwise returns the symmetric cosine similarity matrix of rows.
func Pairwise(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = make([]float64, len(rows))
	}
	for i := range rows {
		out[i][i] = 1
		for j := i + 1; j < len(rows); j++ {
			s, err := Cosine(rows[i], rows[j])
			if err != nil {
				return nil, fmt.Errorf("pair %d,%d: %w", i, j, err)
			}
			out[i][j] = s
			out[j][i] = s
		}
	}
	return out, nil
}
