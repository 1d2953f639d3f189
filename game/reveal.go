package game

// Reveal は指定された座標のマスを開け、同じ盤面を返します
// フラグがあるマスは開けません。周囲の地雷数が0のマスからは連鎖して開けます
// 盤面外の座標は呼び出し側のバグなので panic します
func Reveal(grid Grid, target Position) Grid {
	mustBeOnBoard(grid, target)

	if grid.Cells[target.Row][target.Column].IsFlagged {
		return grid
	}

	// 再帰ではなくスタックで Flood Fill する
	stack := []Position{target}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &grid.Cells[p.Row][p.Column]
		cell.IsRevealed = true

		// 地雷と数字マスでは連鎖を止める
		if cell.IsMine || cell.NeighborCount > 0 {
			continue
		}
		for _, n := range Neighbors(grid, p) {
			neighbor := grid.Cells[n.Row][n.Column]
			if !neighbor.IsMine && !neighbor.IsRevealed {
				stack = append(stack, n)
			}
		}
	}

	return grid
}

// ToggleFlag は指定された座標のフラッグを切り替え、同じ盤面を返します
// 開いたマスにも立てられますが、ゲームには影響しません
func ToggleFlag(grid Grid, target Position) Grid {
	mustBeOnBoard(grid, target)

	cell := &grid.Cells[target.Row][target.Column]
	cell.IsFlagged = !cell.IsFlagged

	return grid
}
