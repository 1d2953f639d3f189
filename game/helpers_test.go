package game

import "sort"

// plantedGrid は地雷だけを置いた盤面を作ります。NeighborCount は計算しません
func plantedGrid(rows, columns int, mines ...Position) Grid {
	grid := newGrid(rows, columns)
	for _, p := range mines {
		grid.Cells[p.Row][p.Column].IsMine = true
	}
	return grid
}

// countedGrid は地雷を置いて NeighborCount も計算した盤面を作ります
func countedGrid(rows, columns int, mines ...Position) Grid {
	grid := plantedGrid(rows, columns, mines...)
	for _, p := range mines {
		for _, n := range Neighbors(grid, p) {
			if !grid.Cells[n.Row][n.Column].IsMine {
				grid.Cells[n.Row][n.Column].NeighborCount++
			}
		}
	}
	return grid
}

func revealedPositions(grid Grid) []Position {
	var out []Position
	for _, row := range grid.Cells {
		for _, c := range row {
			if c.IsRevealed {
				out = append(out, c.Position)
			}
		}
	}
	sortPositions(out)
	return out
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Row != ps[j].Row {
			return ps[i].Row < ps[j].Row
		}
		return ps[i].Column < ps[j].Column
	})
}
