package solver

import (
	"minesweeper/game"
)

// 1セグメントで総当たりする未開封マスの上限
const maxSegmentUnknowns = 18

// TankSolver はバックトラック探索を行う構造体
type TankSolver struct {
	Grid game.Grid
}

func NewTankSolver(grid game.Grid) *TankSolver {
	return &TankSolver{Grid: grid}
}

// Solve はタンクアルゴリズムを実行し、確定した安全な手または地雷を返します
// 確定する手がなければ、地雷確率が最も低いマスを開ける手を返します
func (ts *TankSolver) Solve() *Move {
	// 1. 全ての境界マスと、それに関連する数字マスを特定してグループ化（連結成分分解）
	segments := ts.createSegments()

	var bestMove *Move
	bestProb := 1.0 // 1.0 = 地雷確率100% (最悪)

	// 各セグメントごとに独立して解く
	for _, seg := range segments {
		if len(seg.unknowns) > maxSegmentUnknowns {
			continue
		}

		solutions := ts.solveSegment(seg)
		if len(solutions) == 0 {
			continue // 解なし（矛盾）
		}

		// 各マスの地雷確率を計算
		counts := make([]int, len(seg.unknowns))
		for _, sol := range solutions {
			for i, isMine := range sol {
				if isMine {
					counts[i]++
				}
			}
		}

		total := float64(len(solutions))
		for i, count := range counts {
			prob := float64(count) / total
			p := seg.unknowns[i]

			// 確定安全 (0%)
			if count == 0 {
				return &Move{Position: p, Action: game.ActionClick, Strategy: "Tank", Confidence: 1.0}
			}
			// 確定地雷 (100%)
			if count == len(solutions) {
				return &Move{Position: p, Action: game.ActionFlag, Strategy: "Tank", Confidence: 1.0}
			}

			// 確率が低いほうが安全
			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					Position:   p,
					Action:     game.ActionClick,
					Strategy:   "Tank(Prob)",
					Confidence: 1.0 - prob,
				}
			}
		}
	}

	return bestMove
}

// --- セグメント（連結成分）管理 ---

type segment struct {
	unknowns []game.Position // このセグメントに含まれる未開封マス
	rules    []rule          // このセグメント内の数字マス制約
}

type rule struct {
	cells []int // unknownsのインデックスのリスト
	mines int   // 必要な地雷数
}

func (ts *TankSolver) key(p game.Position) int {
	return p.Row*ts.Grid.Columns + p.Column
}

func (ts *TankSolver) createSegments() []*segment {
	// 1. 全ての「数字マス」と「それに隣接する未開封マス」の関係をリスト化
	unknownMap := make(map[int]game.Position)
	var order []int // map の順序に依存しないように登録順を覚える
	var numbered []game.Position

	for _, row := range ts.Grid.Cells {
		for _, c := range row {
			if !c.IsRevealed || c.IsMine || c.NeighborCount == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(ts.Grid, c.Position)
			if flags == c.NeighborCount || len(hidden) == 0 {
				continue
			}
			for _, h := range hidden {
				k := ts.key(h)
				if _, ok := unknownMap[k]; !ok {
					unknownMap[k] = h
					order = append(order, k)
				}
			}
			numbered = append(numbered, c.Position)
		}
	}

	// 2. 連結成分分解
	// unknownsをノード、数字マスをエッジとしたグラフを作る
	adj := make(map[int][]int)
	for _, np := range numbered {
		_, _, hidden := neighborsInfo(ts.Grid, np)
		for i := 0; i < len(hidden)-1; i++ {
			u1 := ts.key(hidden[i])
			for j := i + 1; j < len(hidden); j++ {
				u2 := ts.key(hidden[j])
				adj[u1] = append(adj[u1], u2)
				adj[u2] = append(adj[u2], u1)
			}
		}
	}

	visited := make(map[int]bool)
	var segments []*segment

	for _, k := range order {
		if visited[k] {
			continue
		}

		// BFSでグループ探索
		var groupKeys []int
		queue := []int{k}
		visited[k] = true

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			groupKeys = append(groupKeys, curr)

			for _, n := range adj[curr] {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}

		seg := &segment{unknowns: make([]game.Position, len(groupKeys))}
		localIndex := make(map[int]int)
		for i, gk := range groupKeys {
			seg.unknowns[i] = unknownMap[gk]
			localIndex[gk] = i
		}

		// ルール生成
		for _, np := range numbered {
			_, flags, hidden := neighborsInfo(ts.Grid, np)
			// 連結しているので最初の1つが含まれていれば全て含まれている
			if _, ok := localIndex[ts.key(hidden[0])]; !ok {
				continue
			}
			r := rule{
				cells: make([]int, len(hidden)),
				mines: ts.Grid.Cells[np.Row][np.Column].NeighborCount - flags,
			}
			for i, h := range hidden {
				r.cells[i] = localIndex[ts.key(h)]
			}
			seg.rules = append(seg.rules, r)
		}
		segments = append(segments, seg)
	}

	return segments
}

// --- 探索ロジック ---

func (ts *TankSolver) solveSegment(seg *segment) [][]bool {
	var solutions [][]bool
	config := make([]bool, len(seg.unknowns))
	ts.backtrack(seg, 0, config, &solutions)
	return solutions
}

func (ts *TankSolver) backtrack(seg *segment, index int, config []bool, solutions *[][]bool) {
	if index == len(seg.unknowns) {
		if ts.isValid(seg, config, index, true) {
			sol := make([]bool, len(config))
			copy(sol, config)
			*solutions = append(*solutions, sol)
		}
		return
	}

	// 枝刈り
	if !ts.isValid(seg, config, index, false) {
		return
	}

	// 仮定1: 地雷
	config[index] = true
	ts.backtrack(seg, index+1, config, solutions)

	// 仮定2: 安全
	config[index] = false
	ts.backtrack(seg, index+1, config, solutions)
}

// isValid は決定済み (インデックスが decided 未満) のマスだけでルールを確認します
func (ts *TankSolver) isValid(seg *segment, config []bool, decided int, isFinal bool) bool {
	for _, r := range seg.rules {
		mines, undecided := 0, 0
		for _, idx := range r.cells {
			if idx >= decided {
				undecided++
				continue
			}
			if config[idx] {
				mines++
			}
		}

		if isFinal {
			// 最終チェック: 地雷数がぴったり一致すること
			if mines != r.mines {
				return false
			}
			continue
		}
		// 途中チェック: 超えている、または残り全部地雷でも足りない
		if mines > r.mines || mines+undecided < r.mines {
			return false
		}
	}
	return true
}
