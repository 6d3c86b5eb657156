package scheduler

import (
	"errors"
	"fmt"
	"math"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

var (
	ErrInfeasibleMatrix = errors.New("infeasible matrix")
	ErrRaggedMatrix     = errors.New("ragged matrix")
)

const inf = math.MaxInt64 / 4

// Solution is a minimum-cost matching of every row to a distinct column
type Solution struct {
	// Pairs has one entry per row, ordered by row
	Pairs []models.Assignment
	Total int64
}

// Solve finds a minimum total cost assignment of rows to columns using the
// Kuhn-Munkres algorithm with row and column potentials. Each row is matched
// to exactly one column and no column is used twice; extra columns stay
// unmatched. Runs in O(rows² · cols).
func Solve(m Matrix) (Solution, error) {
	n := m.Rows()
	if n == 0 {
		return Solution{Pairs: []models.Assignment{}}, nil
	}
	cols := m.Cols()
	for i, row := range m {
		if len(row) != cols {
			return Solution{}, fmt.Errorf("%w: row %d has %d columns, row 0 has %d", ErrRaggedMatrix, i, len(row), cols)
		}
	}
	if n > cols {
		return Solution{}, fmt.Errorf("%w: %d people but only %d occurrences", ErrInfeasibleMatrix, n, cols)
	}

	// 1-based; column 0 is a virtual column used to start each augmentation.
	u := make([]int64, n+1)
	v := make([]int64, cols+1)
	p := make([]int, cols+1)   // p[j] is the row matched to column j, 0 if free
	way := make([]int, cols+1) // previous column on the alternating path
	minv := make([]int64, cols+1)
	used := make([]bool, cols+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := int64(inf)
			j1 := 0
			for j := 1; j <= cols; j++ {
				if used[j] {
					continue
				}
				cur := m[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= cols; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		// flip the augmenting path
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for j := 1; j <= cols; j++ {
		if p[j] != 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}

	sol := Solution{Pairs: make([]models.Assignment, n)}
	for i, j := range rowToCol {
		c := m[i][j]
		sol.Pairs[i] = models.Assignment{PersonIndex: i, OccurrenceIndex: j, Cost: c}
		sol.Total += c
	}
	return sol, nil
}
