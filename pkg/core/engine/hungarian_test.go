package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveAssignment_SquareOptimal(t *testing.T) {
	// Row 0 must take column 1 and row 1 column 0 for total 3, even though
	// both rows individually prefer column 0
	cost := [][]float64{
		{1, 2},
		{2, 4},
	}

	assigned := solveAssignment(cost, DefaultPenaltyCost)

	assert.Equal(t, []int{1, 0}, assigned)
}

func TestSolveAssignment_DiagonalWhenIndependent(t *testing.T) {
	cost := [][]float64{
		{1, 10, 10},
		{10, 1, 10},
		{10, 10, 1},
	}

	assigned := solveAssignment(cost, DefaultPenaltyCost)

	assert.Equal(t, []int{0, 1, 2}, assigned)
}

func TestSolveAssignment_MoreRowsThanColumns(t *testing.T) {
	// Two orders compete for one professional; total cost is minimized by
	// giving the professional to the closer order and padding the other
	cost := [][]float64{
		{2.22},
		{1.11},
	}

	assigned := solveAssignment(cost, DefaultPenaltyCost)

	assert.Equal(t, -1, assigned[0], "losing row pads out of the real columns")
	assert.Equal(t, 0, assigned[1])
}

func TestSolveAssignment_MoreColumnsThanRows(t *testing.T) {
	cost := [][]float64{
		{5, 1, 9},
	}

	assigned := solveAssignment(cost, DefaultPenaltyCost)

	assert.Equal(t, []int{1}, assigned)
}

func TestSolveAssignment_PenaltyPairsStillReported(t *testing.T) {
	// The solver may match a penalty pair when nothing feasible remains;
	// callers reject pairs whose cost reaches the penalty
	cost := [][]float64{
		{DefaultPenaltyCost, 1},
		{DefaultPenaltyCost, DefaultPenaltyCost},
	}

	assigned := solveAssignment(cost, DefaultPenaltyCost)

	assert.Equal(t, 1, assigned[0])
	if assigned[1] >= 0 {
		assert.GreaterOrEqual(t, cost[1][assigned[1]], DefaultPenaltyCost)
	}
}

func TestSolveAssignment_OptimalityAgainstAllPermutations(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}

	assigned := solveAssignment(cost, DefaultPenaltyCost)

	total := 0.0
	seen := make(map[int]bool)
	for i, j := range assigned {
		assert.GreaterOrEqual(t, j, 0)
		assert.False(t, seen[j], "columns must be distinct")
		seen[j] = true
		total += cost[i][j]
	}

	// Exhaustive check over all 6 permutations of a 3x3 matrix
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range perms {
		alt := 0.0
		for i, j := range perm {
			alt += cost[i][j]
		}
		assert.LessOrEqual(t, total, alt, "assignment beaten by permutation %v", perm)
	}
}

func TestSolveAssignment_EmptyMatrix(t *testing.T) {
	assert.Empty(t, solveAssignment(nil, DefaultPenaltyCost))
	assert.Equal(t, []int{}, solveAssignment([][]float64{}, DefaultPenaltyCost))
}
