package draw

import "math"

// Hungarian solves the square assignment problem for cost and returns, for
// every row, the column it is assigned to. The total cost of the assignment is
// minimal. It runs in O(n^3) using row and column potentials.
func Hungarian(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// 1-based arrays; column 0 is a sentinel.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[col] = row
	way := make([]int, n+1)

	for row := 1; row <= n; row++ {
		match[0] = row
		col0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[col0] = true
			r := match[col0]
			delta := math.Inf(1)
			col1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[r-1][j-1] - u[r] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = col0
				}
				if minv[j] < delta {
					delta = minv[j]
					col1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			col0 = col1
			if match[col0] == 0 {
				break
			}
		}
		for col0 != 0 {
			col1 := way[col0]
			match[col0] = match[col1]
			col0 = col1
		}
	}

	assign := make([]int, n)
	for j := 1; j <= n; j++ {
		if match[j] > 0 {
			assign[match[j]-1] = j - 1
		}
	}
	return assign
}
