package viewmodel

import (
	"encoding/json"
	"time"

	"minesweeper/game"
	"minesweeper/session"
)

// Tile はマスの表示の種類です
type Tile string

const (
	TileUnclicked     Tile = "unclicked"
	TileClicked       Tile = "clicked" // 周囲に地雷がない開いたマス
	TileNumber        Tile = "number"
	TileFlagged       Tile = "flagged"
	TileMineExploded  Tile = "mine-exploded"
	TileFlagIncorrect Tile = "flag-incorrect"
	TileMineLocation  Tile = "mine-location"
)

type CellView struct {
	Tile  Tile `json:"tile"`
	Count int  `json:"count,omitempty"`
}

type GameView struct {
	ID             string       `json:"id"`
	PlayerName     string       `json:"player_name"`
	Status         string       `json:"status"`
	Rows           int          `json:"rows"`
	Columns        int          `json:"columns"`
	MineCount      int          `json:"mine_count"`
	MinesRemaining int          `json:"mines_remaining"`
	Moves          int          `json:"moves"`
	LastMovedAt    time.Time    `json:"last_moved_at"`
	Cells          [][]CellView `json:"cells"`
}

// TileFor はマスとゲームの状態から表示を決めます
// ゲーム中は地雷の位置を見せず、終わったら全ての地雷と間違ったフラグを見せます
func TileFor(c game.Cell, status game.GameStatus) CellView {
	if c.IsMine && c.IsRevealed {
		return CellView{Tile: TileMineExploded}
	}

	if status == game.InProgress {
		switch {
		case c.IsFlagged:
			return CellView{Tile: TileFlagged}
		case c.IsRevealed:
			return revealedView(c)
		}
		return CellView{Tile: TileUnclicked}
	}

	switch {
	case c.IsFlagged && !c.IsMine:
		return CellView{Tile: TileFlagIncorrect}
	case c.IsFlagged:
		return CellView{Tile: TileFlagged}
	case c.IsRevealed:
		return revealedView(c)
	case c.IsMine:
		return CellView{Tile: TileMineLocation}
	}
	return CellView{Tile: TileUnclicked}
}

func revealedView(c game.Cell) CellView {
	if c.NeighborCount == 0 {
		return CellView{Tile: TileClicked}
	}
	return CellView{Tile: TileNumber, Count: c.NeighborCount}
}

// NewGameView はスナップショットから表示用の構造体を作ります
func NewGameView(s session.Snapshot) GameView {
	grid := make([][]CellView, s.Grid.Rows)
	for r, row := range s.Grid.Cells {
		grid[r] = make([]CellView, len(row))
		for c, cell := range row {
			grid[r][c] = TileFor(cell, s.Status)
		}
	}

	return GameView{
		ID:             s.ID.String(),
		PlayerName:     s.PlayerName,
		Status:         s.Status.Code(),
		Rows:           s.Grid.Rows,
		Columns:        s.Grid.Columns,
		MineCount:      s.MineCount,
		MinesRemaining: s.MineCount - s.Grid.FlagCount(),
		Moves:          len(s.Moves),
		LastMovedAt:    s.LastMovedAt,
		Cells:          grid,
	}
}

// JSON は GameView を JSON 文字列にします
func (v GameView) JSON() (string, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
