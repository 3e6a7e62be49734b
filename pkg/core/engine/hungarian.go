package engine

import "math"

// solveAssignment runs the Kuhn–Munkres algorithm on a rectangular cost
// matrix, padding to square with the penalty value. It returns, for each
// row, the assigned column index or -1. Infeasible pairs must be encoded as
// costs >= the penalty; callers reject those pairs afterwards.
func solveAssignment(cost [][]float64, penalty float64) []int {
	nRows := len(cost)
	nCols := 0
	for i := range cost {
		if len(cost[i]) > nCols {
			nCols = len(cost[i])
		}
	}
	if nRows == 0 || nCols == 0 {
		return make([]int, nRows)
	}

	n := nRows
	if nCols > n {
		n = nCols
	}

	a := make([][]float64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			a[i][j] = penalty
		}
	}
	for i := 0; i < nRows; i++ {
		for j := 0; j < len(cost[i]); j++ {
			a[i][j] = cost[i][j]
		}
	}

	// Potentials over rows (u) and columns (v); p[j] is the row matched to
	// column j, way[j] the previous column on the augmenting path
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := 1; j <= n; j++ {
			minv[j] = math.Inf(1)
		}
		used[0] = true
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
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
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	result := make([]int, nRows)
	for i := range result {
		result[i] = -1
	}
	for j := 1; j <= n; j++ {
		if p[j] == 0 {
			continue
		}
		row := p[j] - 1
		col := j - 1
		if row < nRows && col < nCols {
			result[row] = col
		}
	}
	return result
}
