package game

// Status は盤面の状態からゲームの勝敗を判定します
// 地雷が1つでも開いていれば Lost、地雷以外が全部開いていれば Won
func Status(grid Grid) GameStatus {
	total, revealed, mines := 0, 0, 0

	for _, row := range grid.Cells {
		for _, cell := range row {
			if cell.IsMine && cell.IsRevealed {
				return Lost
			}
			if cell.IsMine {
				mines++
			}
			if cell.IsRevealed {
				revealed++
			}
			total++
		}
	}

	if total-revealed == mines {
		return Won
	}
	return InProgress
}
