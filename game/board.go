package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Generator は地雷配置に使う乱数源を持ちます
// rng を持つ Generator は goroutine セーフではありません
type Generator struct {
	rng *rand.Rand
}

// NewGenerator は指定された乱数源を使う Generator を返します
// rng が nil ならグローバルな乱数源を使います
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

var defaultGenerator = &Generator{}

// Create はグローバルな乱数源で盤面を生成します
func Create(rows, columns, mineCount int) (Grid, error) {
	return defaultGenerator.Create(rows, columns, mineCount)
}

// MaxMines は rows x columns の盤面に置ける地雷の最大数を返します
func MaxMines(rows, columns int) int {
	return rows*columns - 1
}

// Create は指定されたサイズと地雷数で盤面を初期化して返します
func (g *Generator) Create(rows, columns, mineCount int) (Grid, error) {
	maxMines := MaxMines(rows, columns)
	if rows < 1 || columns < 1 || mineCount < 0 || mineCount > maxMines {
		return Grid{}, &InvalidConfigurationError{
			Rows:      rows,
			Columns:   columns,
			MineCount: mineCount,
			MaxMines:  maxMines,
		}
	}

	grid := newGrid(rows, columns)
	mines := g.pickMines(grid, mineCount)

	for _, p := range mines {
		grid.Cells[p.Row][p.Column].IsMine = true
	}
	// 地雷を全部置いてから数える
	for _, p := range mines {
		for _, n := range Neighbors(grid, p) {
			cell := &grid.Cells[n.Row][n.Column]
			if !cell.IsMine {
				cell.NeighborCount++
			}
		}
	}

	return grid, nil
}

// pickMines は全座標をシャッフルし、先頭 count 個を地雷の位置として返します
func (g *Generator) pickMines(grid Grid, count int) []Position {
	positions := make([]Position, 0, grid.Rows*grid.Columns)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			positions = append(positions, Position{Row: row, Column: col})
		}
	}

	swap := func(i, j int) { positions[i], positions[j] = positions[j], positions[i] }
	if g == nil || g.rng == nil {
		rand.Shuffle(len(positions), swap)
	} else {
		g.rng.Shuffle(len(positions), swap)
	}

	return positions[:count]
}

func newGrid(rows, columns int) Grid {
	cells := make([][]Cell, rows)
	for row := 0; row < rows; row++ {
		cells[row] = make([]Cell, columns)
		for col := 0; col < columns; col++ {
			cells[row][col].Position = Position{Row: row, Column: col}
		}
	}
	return Grid{Rows: rows, Columns: columns, Cells: cells}
}

// IsOnBoard は座標が盤面内かどうかを返します
func IsOnBoard(p Position, grid Grid) bool {
	return p.Row >= 0 && p.Row < grid.Rows && p.Column >= 0 && p.Column < grid.Columns
}

// Neighbors は周囲8マスのうち盤面内にある座標を返します (端はループしない)
func Neighbors(grid Grid, p Position) []Position {
	out := make([]Position, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Position{Row: p.Row + dr, Column: p.Column + dc}
			if IsOnBoard(n, grid) {
				out = append(out, n)
			}
		}
	}
	return out
}

func mustBeOnBoard(grid Grid, p Position) {
	if !IsOnBoard(p, grid) {
		panic(OutOfBoundsError{Position: p, Rows: grid.Rows, Columns: grid.Columns})
	}
}

// At は指定された座標のマスを返します
func (g Grid) At(p Position) Cell {
	mustBeOnBoard(g, p)
	return g.Cells[p.Row][p.Column]
}

// Clone は盤面のディープコピーを返します
func (g Grid) Clone() Grid {
	cells := make([][]Cell, len(g.Cells))
	for row := range g.Cells {
		cells[row] = make([]Cell, len(g.Cells[row]))
		copy(cells[row], g.Cells[row])
	}
	return Grid{Rows: g.Rows, Columns: g.Columns, Cells: cells}
}

func (g Grid) count(match func(Cell) bool) int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if match(c) {
				n++
			}
		}
	}
	return n
}

func (g Grid) MineCount() int {
	return g.count(func(c Cell) bool { return c.IsMine })
}

func (g Grid) FlagCount() int {
	return g.count(func(c Cell) bool { return c.IsFlagged })
}

func (g Grid) RevealedCount() int {
	return g.count(func(c Cell) bool { return c.IsRevealed })
}

// String はデバッグ用に盤面を文字列にします
// 未開封は「-」、フラグは「F」、開いた地雷は「*」、0は「.」、それ以外は数字
func (g Grid) String() string {
	var b strings.Builder
	b.WriteString("   ")
	for col := 0; col < g.Columns; col++ {
		fmt.Fprintf(&b, "%d ", col%10)
	}
	b.WriteString("\n")

	for row := 0; row < g.Rows; row++ {
		fmt.Fprintf(&b, "%d: ", row%10)
		for _, cell := range g.Cells[row] {
			switch {
			case cell.IsRevealed && cell.IsMine:
				b.WriteString("* ")
			case cell.IsRevealed && cell.NeighborCount == 0:
				b.WriteString(". ")
			case cell.IsRevealed:
				fmt.Fprintf(&b, "%d ", cell.NeighborCount)
			case cell.IsFlagged:
				b.WriteString("F ")
			default:
				b.WriteString("- ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
