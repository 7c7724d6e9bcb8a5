package game

// MaxConnectedArea returns the size of the largest 4-directionally-connected
// group of true cells in the grid, or 0 if there is none. The grid may be any
// rectangular size; the input is not modified.
func MaxConnectedArea(grid [][]bool) int {
	rows := len(grid)
	if rows == 0 {
		return 0
	}
	cols := len(grid[0])
	if cols == 0 {
		return 0
	}

	visited := make([][]bool, rows)
	for r := range visited {
		visited[r] = make([]bool, cols)
	}

	type cell struct{ r, c int }

	best := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !grid[r][c] || visited[r][c] {
				continue
			}

			// Iterative flood fill from this cell
			area := 0
			stack := []cell{{r, c}}
			visited[r][c] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				area++

				for _, next := range [4]cell{
					{cur.r - 1, cur.c},
					{cur.r + 1, cur.c},
					{cur.r, cur.c - 1},
					{cur.r, cur.c + 1},
				} {
					if next.r < 0 || next.r >= rows || next.c < 0 || next.c >= cols {
						continue
					}
					if !grid[next.r][next.c] || visited[next.r][next.c] {
						continue
					}
					visited[next.r][next.c] = true
					stack = append(stack, next)
				}
			}

			if area > best {
				best = area
			}
		}
	}
	return best
}
