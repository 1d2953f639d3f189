package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"minesweeper/ai"
	"minesweeper/config"
	"minesweeper/game"
)

var fixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	tick := 0
	clock := func() time.Time {
		tick++
		return fixedTime.Add(time.Duration(tick) * time.Second)
	}
	base := []Option{
		WithGenerator(game.NewGenerator(rand.New(rand.NewPCG(10, 20)))),
		WithTimeFunc(clock),
	}
	return NewManager(config.Default().Limits, append(base, opts...)...)
}

func newTestGame(t *testing.T, m *Manager, rows, columns, mines int) *Game {
	t.Helper()
	g, err := m.New(NewGameRequest{PlayerName: "alice", Rows: rows, Columns: columns, MineCount: mines})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func findCell(grid game.Grid, match func(game.Cell) bool) (game.Position, bool) {
	for _, row := range grid.Cells {
		for _, c := range row {
			if match(c) {
				return c.Position, true
			}
		}
	}
	return game.Position{}, false
}

func TestNewValidation(t *testing.T) {
	m := newTestManager(t)
	tests := []struct {
		name  string
		req   NewGameRequest
		field string
	}{
		{"empty name", NewGameRequest{PlayerName: "", Rows: 5, Columns: 5, MineCount: 3}, "player name"},
		{"long name", NewGameRequest{PlayerName: strings.Repeat("x", 21), Rows: 5, Columns: 5, MineCount: 3}, "player name"},
		{"too few rows", NewGameRequest{PlayerName: "bob", Rows: 1, Columns: 5, MineCount: 1}, "rows"},
		{"too many columns", NewGameRequest{PlayerName: "bob", Rows: 5, Columns: 81, MineCount: 1}, "columns"},
		{"too many mines", NewGameRequest{PlayerName: "bob", Rows: 2, Columns: 2, MineCount: 4}, "mine count"},
		{"negative mines", NewGameRequest{PlayerName: "bob", Rows: 2, Columns: 2, MineCount: -1}, "mine count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.New(tt.req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, vErr.Field)
			}
		})
	}
	if len(m.List()) != 0 {
		t.Error("invalid requests should not register games")
	}
}

func TestNewTooManyMinesCarriesMax(t *testing.T) {
	m := newTestManager(t)
	_, err := m.New(NewGameRequest{PlayerName: "bob", Rows: 2, Columns: 2, MineCount: 4})
	if !errors.Is(err, game.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "(4)") {
		t.Errorf("expected rows * columns in message, got %q", err.Error())
	}
}

func TestNewGame(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, 9, 9, 10)

	snap := g.Snapshot()
	if snap.Status != game.InProgress {
		t.Errorf("expected InProgress, got %s", snap.Status)
	}
	if snap.Grid.MineCount() != 10 || snap.MineCount != 10 {
		t.Errorf("expected 10 mines, got grid=%d game=%d", snap.Grid.MineCount(), snap.MineCount)
	}
	if len(snap.Moves) != 0 {
		t.Errorf("expected empty move log, got %d", len(snap.Moves))
	}
	if !snap.CreatedAt.Equal(snap.LastMovedAt) {
		t.Errorf("expected created == last moved, got %v and %v", snap.CreatedAt, snap.LastMovedAt)
	}
	if snap.ID == uuid.Nil {
		t.Error("expected an id")
	}
}

func TestClickMineLoses(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, 5, 5, 5)

	mine, _ := findCell(g.Snapshot().Grid, func(c game.Cell) bool { return c.IsMine })
	snap, err := g.Click(mine)
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if snap.Status != game.Lost {
		t.Fatalf("expected Lost, got %s", snap.Status)
	}

	// 終わったゲームは操作を受け付けない
	after, err := g.Click(game.Position{Row: 0, Column: 0})
	if !errors.Is(err, ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}
	if len(after.Moves) != 1 {
		t.Errorf("rejected move should not be logged, got %d moves", len(after.Moves))
	}
	if _, err := g.ToggleFlag(game.Position{Row: 0, Column: 0}); !errors.Is(err, ErrGameFinished) {
		t.Errorf("expected ErrGameFinished for flag, got %v", err)
	}
	if _, err := g.Hint(); !errors.Is(err, ErrGameFinished) {
		t.Errorf("expected ErrGameFinished for hint, got %v", err)
	}
}

func TestClickAllSafeCellsWins(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, 6, 6, 6)

	for {
		snap := g.Snapshot()
		p, ok := findCell(snap.Grid, func(c game.Cell) bool { return !c.IsMine && !c.IsRevealed })
		if !ok {
			break
		}
		if _, err := g.Click(p); err != nil {
			t.Fatalf("Click %s failed: %v", p, err)
		}
	}
	if s := g.Status(); s != game.Won {
		t.Fatalf("expected Won, got %s", s)
	}
}

func TestInvalidPosition(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, 3, 3, 1)

	for _, p := range []game.Position{{Row: -1, Column: 0}, {Row: 0, Column: 3}, {Row: 3, Column: 3}} {
		snap, err := g.Click(p)
		if !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("%s: expected ErrInvalidPosition, got %v", p, err)
		}
		if len(snap.Moves) != 0 {
			t.Errorf("%s: invalid move should not be logged", p)
		}
	}
	if _, err := g.ToggleFlag(game.Position{Row: 5, Column: 5}); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition for flag, got %v", err)
	}
}

func TestFlagBlocksClick(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, 4, 4, 3)

	p := game.Position{Row: 1, Column: 1}
	if _, err := g.ToggleFlag(p); err != nil {
		t.Fatalf("ToggleFlag failed: %v", err)
	}
	snap, err := g.Click(p)
	if err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	if snap.Grid.At(p).IsRevealed {
		t.Error("flagged cell should stay hidden")
	}
	if snap.Status != game.InProgress {
		t.Errorf("expected InProgress, got %s", snap.Status)
	}

	want := []game.Move{
		{Position: p, Action: game.ActionFlag, Timestamp: fixedTime.Add(2 * time.Second)},
		{Position: p, Action: game.ActionClick, Timestamp: fixedTime.Add(3 * time.Second)},
	}
	if diff := cmp.Diff(want, snap.Moves); diff != "" {
		t.Errorf("move log mismatch (-want +got):\n%s", diff)
	}
	if !snap.LastMovedAt.Equal(want[1].Timestamp) {
		t.Errorf("expected last moved at %v, got %v", want[1].Timestamp, snap.LastMovedAt)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, 4, 4, 2)

	snap := g.Snapshot()
	snap.Grid.Cells[0][0].IsRevealed = true

	if g.Snapshot().Grid.At(game.Position{}).IsRevealed {
		t.Fatal("changing a snapshot changed the game")
	}
}

func TestConcurrentMovesAreSerialized(t *testing.T) {
	m := NewManager(config.Default().Limits)
	g := newTestGame(t, m, 10, 10, 0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			for col := 0; col < 10; col++ {
				if _, err := g.ToggleFlag(game.Position{Row: row, Column: col}); err != nil {
					t.Errorf("ToggleFlag failed: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	snap := g.Snapshot()
	if len(snap.Moves) != 100 {
		t.Errorf("expected 100 moves, got %d", len(snap.Moves))
	}
	if snap.Grid.FlagCount() != 100 {
		t.Errorf("expected 100 flags, got %d", snap.Grid.FlagCount())
	}
}

func TestHint(t *testing.T) {
	m := newTestManager(t)
	g := newTestGame(t, m, 9, 9, 10)

	move, err := g.Hint()
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if move == nil || !game.IsOnBoard(move.Position, g.Snapshot().Grid) {
		t.Fatalf("expected a hint on the board, got %+v", move)
	}
	if len(g.Snapshot().Moves) != 0 {
		t.Error("Hint should not record a move")
	}
}

func TestManagerLookup(t *testing.T) {
	m := newTestManager(t)
	first := newTestGame(t, m, 3, 3, 1)
	second := newTestGame(t, m, 3, 3, 1)

	got, err := m.Get(second.ID)
	if err != nil || got != second {
		t.Fatalf("Get returned %v, %v", got, err)
	}

	list := m.List()
	if len(list) != 2 || list[0] != first || list[1] != second {
		t.Fatalf("expected games in creation order, got %v", list)
	}

	if err := m.Remove(first.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := m.Get(first.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
	if err := m.Remove(first.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound on second remove, got %v", err)
	}
}

func TestManagerLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := newTestManager(t, WithLogger(logger))
	g := newTestGame(t, m, 3, 3, 8)

	safe, _ := findCell(g.Snapshot().Grid, func(c game.Cell) bool { return !c.IsMine })
	if _, err := g.Click(safe); err != nil {
		t.Fatalf("Click failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"game created", "move applied", "game finished", "status=Won", "player=alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got:\n%s", want, out)
		}
	}
}

func TestHintUsesNetwork(t *testing.T) {
	// 入力を無視して常に地雷確率 0.5 を返す
	data, err := json.Marshal(ai.Weights{
		Fc1Weight: [][]float64{make([]float64, ai.InputSize)},
		Fc1Bias:   []float64{0},
		Fc2Weight: [][]float64{{1}},
		Fc2Bias:   []float64{0},
		Fc3Weight: [][]float64{{1}},
		Fc3Bias:   []float64{0},
	})
	if err != nil {
		t.Fatal(err)
	}
	net, err := ai.NewNetwork(data)
	if err != nil {
		t.Fatal(err)
	}

	m := newTestManager(t, WithNetwork(net))
	g := newTestGame(t, m, 4, 4, 3)

	move, err := g.Hint()
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if move == nil || move.Strategy != "AI" || !move.IsGuess {
		t.Fatalf("expected an AI guess on a fresh board, got %+v", move)
	}
	if move.Position != (game.Position{Row: 0, Column: 0}) {
		t.Errorf("expected the first hidden cell, got %s", move.Position)
	}
}
