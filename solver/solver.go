package solver

import (
	"math/rand/v2"

	"minesweeper/ai"
	"minesweeper/game"
)

// Move は Solver が提案する次の一手です
type Move struct {
	Position   game.Position
	Action     game.Action
	IsGuess    bool    // 運任せかどうか
	Strategy   string  // "Logic", "Tank", "Tank(Prob)", "AI", "Random"
	Confidence float64 // 0.0 ~ 1.0 (安全確率)
}

// Solver はプレイヤーに見えている情報だけで次の手を考えます
// 未開封マスの IsMine は読みません
type Solver struct {
	Grid  game.Grid
	AiNet *ai.Network // nil なら AI は使わない
	rng   *rand.Rand
}

// New は盤面に対する Solver を返します。rng が nil ならグローバルな乱数源を使います
func New(grid game.Grid, rng *rand.Rand) *Solver {
	return &Solver{Grid: grid, rng: rng}
}

// NextMove は次の一手を返します。打つ手がなければ nil
func (s *Solver) NextMove() *Move {
	// 1. 論理的に「絶対に安全」
	if move := s.findSafeMove(); move != nil {
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 2. 論理的に「絶対に地雷」
	if move := s.findFlagMove(); move != nil {
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 3. タンクアルゴリズムで確定する手
	tank := NewTankSolver(s.Grid).Solve()
	if tank != nil && tank.Confidence == 1.0 {
		return tank
	}

	// 4. AI があれば AI、なければタンクの確率
	if s.AiNet != nil {
		if move := s.findAIMove(); move != nil {
			move.IsGuess = true
			return move
		}
	}
	if tank != nil {
		tank.IsGuess = true
		return tank
	}

	// 5. ランダム
	move := s.findRandomMove()
	if move != nil {
		move.IsGuess = true
	}
	return move
}

func (s *Solver) findSafeMove() *Move {
	for _, row := range s.Grid.Cells {
		for _, cell := range row {
			if !cell.IsRevealed || cell.IsMine || cell.NeighborCount == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(s.Grid, cell.Position)
			if flags == cell.NeighborCount && len(hidden) > 0 {
				return &Move{Position: hidden[0], Action: game.ActionClick}
			}
		}
	}
	return nil
}

func (s *Solver) findFlagMove() *Move {
	for _, row := range s.Grid.Cells {
		for _, cell := range row {
			if !cell.IsRevealed || cell.IsMine || cell.NeighborCount == 0 {
				continue
			}
			totalHidden, _, hidden := neighborsInfo(s.Grid, cell.Position)
			if totalHidden == cell.NeighborCount && len(hidden) > 0 {
				return &Move{Position: hidden[0], Action: game.ActionFlag}
			}
		}
	}
	return nil
}

// findAIMove は AI が最も安全だと判断した未開封マスを返します
func (s *Solver) findAIMove() *Move {
	bestProb := 1.0 // 地雷確率（低いほうが良い）
	var bestMove *Move

	for _, row := range s.Grid.Cells {
		for _, c := range row {
			if c.IsRevealed || c.IsFlagged {
				continue
			}
			prob := s.AiNet.Predict(ai.Features(s.Grid, c.Position))
			// より安全なマスが見つかったら更新
			if bestMove == nil || prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					Position:   c.Position,
					Action:     game.ActionClick,
					Strategy:   "AI",
					Confidence: 1.0 - prob, // 安全確率
				}
			}
		}
	}
	return bestMove
}

func (s *Solver) findRandomMove() *Move {
	var candidates []game.Position
	for _, row := range s.Grid.Cells {
		for _, c := range row {
			if !c.IsRevealed && !c.IsFlagged {
				candidates = append(candidates, c.Position)
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	var i int
	if s.rng != nil {
		i = s.rng.IntN(len(candidates))
	} else {
		i = rand.IntN(len(candidates))
	}
	return &Move{
		Position:   candidates[i],
		Action:     game.ActionClick,
		Strategy:   "Random",
		Confidence: 0.0,
	}
}

// neighborsInfo は周囲の未開封マス数 (フラグ込み)、フラグ数、フラグのない未開封マスを返します
func neighborsInfo(grid game.Grid, p game.Position) (totalHidden int, flags int, hiddenList []game.Position) {
	for _, n := range game.Neighbors(grid, p) {
		neighbor := grid.Cells[n.Row][n.Column]
		if neighbor.IsRevealed {
			continue
		}
		totalHidden++
		if neighbor.IsFlagged {
			flags++
		} else {
			hiddenList = append(hiddenList, n)
		}
	}
	return
}
