package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"minesweeper/ai"
	"minesweeper/game"
	"minesweeper/solver"
)

// Game は1つのゲームの盤面と操作履歴を管理します
// 操作は Mutex で1つずつ処理されます
type Game struct {
	ID         uuid.UUID
	PlayerName string
	MineCount  int
	CreatedAt  time.Time

	mu          sync.Mutex
	grid        game.Grid
	moves       game.MoveLog
	status      game.GameStatus
	lastMovedAt time.Time

	now     func() time.Time
	logger  *slog.Logger
	network *ai.Network
}

// Snapshot はある時点のゲームのコピーです。元のゲームとは共有しません
type Snapshot struct {
	ID          uuid.UUID
	PlayerName  string
	MineCount   int
	Status      game.GameStatus
	Grid        game.Grid
	Moves       []game.Move
	CreatedAt   time.Time
	LastMovedAt time.Time
}

// Click はマスを開けます
func (g *Game) Click(p game.Position) (Snapshot, error) {
	return g.apply(p, game.ActionClick)
}

// ToggleFlag はフラグを切り替えます
func (g *Game) ToggleFlag(p game.Position) (Snapshot, error) {
	return g.apply(p, game.ActionFlag)
}

func (g *Game) apply(p game.Position, action game.Action) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// 終わったゲームと盤面外の座標は盤面を変えずに返す
	if g.status != game.InProgress {
		return g.snapshotLocked(), ErrGameFinished
	}
	if !game.IsOnBoard(p, g.grid) {
		return g.snapshotLocked(), fmt.Errorf("%w: %s on %dx%d board", ErrInvalidPosition, p, g.grid.Rows, g.grid.Columns)
	}

	now := g.now()
	g.moves.Append(game.Move{Position: p, Action: action, Timestamp: now})

	switch action {
	case game.ActionClick:
		game.Reveal(g.grid, p)
	case game.ActionFlag:
		game.ToggleFlag(g.grid, p)
	}
	g.status = game.Status(g.grid)
	g.lastMovedAt = now

	g.logger.Debug("move applied",
		"game_id", g.ID,
		"action", action.String(),
		"row", p.Row,
		"column", p.Column,
		"status", g.status.String())
	if g.status != game.InProgress {
		g.logger.Info("game finished",
			"game_id", g.ID,
			"player", g.PlayerName,
			"status", g.status.String(),
			"moves", g.moves.Len())
	}

	return g.snapshotLocked(), nil
}

// Hint は Solver に次の一手を考えさせます。盤面は変えません
func (g *Game) Hint() (*solver.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != game.InProgress {
		return nil, ErrGameFinished
	}
	s := solver.New(g.grid.Clone(), nil)
	s.AiNet = g.network
	return s.NextMove(), nil
}

// Status は現在の状態を返します
func (g *Game) Status() game.GameStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          g.ID,
		PlayerName:  g.PlayerName,
		MineCount:   g.MineCount,
		Status:      g.status,
		Grid:        g.grid.Clone(),
		Moves:       g.moves.Moves(),
		CreatedAt:   g.CreatedAt,
		LastMovedAt: g.lastMovedAt,
	}
}
