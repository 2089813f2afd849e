package analytics

import (
	"fmt"
	"sort"

	"github.com/okian/screener/internal/domain/types"
)

// MaxNeighbors is the number of nearest candidates kept per candidate.
const MaxNeighbors = 5

// Neighbors returns, for every row of sim, the other candidates ordered by
// similarity descending and cut to limit. Ties keep candidate order.
func Neighbors(sim [][]float64, filenames []string, limit int) ([][]types.Neighbor, error) {
	n := len(filenames)
	if len(sim) != n {
		return nil, fmt.Errorf("%w: %d rows for %d candidates", ErrNeighbors, len(sim), n)
	}
	out := make([][]types.Neighbor, n)
	for i := range sim {
		if len(sim[i]) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrNeighbors, i, len(sim[i]))
		}
		row := make([]types.Neighbor, 0, n-1)
		for j := range sim[i] {
			if j == i {
				continue
			}
			row = append(row, types.Neighbor{Filename: filenames[j], Sim: sim[i][j]})
		}
		sort.SliceStable(row, func(a, b int) bool { return row[a].Sim > row[b].Sim })
		if len(row) > limit {
			row = row[:limit]
		}
		out[i] = row
	}
	return out, nil
}
