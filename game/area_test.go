package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// boolGrid converts rows of 'x' (true) and '.' (false) into a boolean grid.
func boolGrid(rows ...string) [][]bool {
	grid := make([][]bool, len(rows))
	for r, row := range rows {
		grid[r] = make([]bool, len(row))
		for c, ch := range row {
			grid[r][c] = ch == 'x'
		}
	}
	return grid
}

func TestMaxConnectedArea(t *testing.T) {
	tests := []struct {
		name string
		grid [][]bool
		want int
	}{
		{name: "nil grid", grid: nil, want: 0},
		{name: "empty rows", grid: [][]bool{{}, {}}, want: 0},
		{name: "all false", grid: boolGrid("...", "...", "..."), want: 0},
		{name: "single cell", grid: boolGrid("...", ".x.", "..."), want: 1},
		{name: "all true", grid: boolGrid("xxx", "xxx"), want: 6},
		{
			name: "diagonal cells are not connected",
			grid: boolGrid(
				"x.x",
				".x.",
				"x.x",
			),
			want: 1,
		},
		{
			name: "largest of several regions wins",
			grid: boolGrid(
				"xx..x",
				"x...x",
				"....x",
				"xx..x",
			),
			want: 4,
		},
		{
			name: "non-square grid",
			grid: boolGrid(
				"xxxxxxx",
				"......x",
			),
			want: 8,
		},
		{
			name: "snake region",
			grid: boolGrid(
				"xxxxx",
				"....x",
				"xxxxx",
				"x....",
				"xxxxx",
			),
			want: 17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxConnectedArea(tt.grid))
		})
	}
}

func TestMaxConnectedAreaDoesNotModifyInput(t *testing.T) {
	grid := boolGrid("xx", "x.")
	MaxConnectedArea(grid)
	assert.Equal(t, boolGrid("xx", "x."), grid)
}
