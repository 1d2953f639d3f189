package game

import (
	"fmt"
	"time"
)

// Position は盤面上の座標 (行, 列) を表します
type Position struct {
	Row    int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}

// Cell は1つのマスの情報を持ちます
type Cell struct {
	Position      Position
	IsMine        bool // 地雷かどうか
	IsRevealed    bool // すでに開けられたか
	IsFlagged     bool // フラグが立てられているか
	NeighborCount int  // 周囲8マスにある地雷の数 (地雷マスでは使わない)
}

// Grid はゲーム盤面全体を持ちます
// Cells は Cells[row][column] でアクセスします
type Grid struct {
	Rows    int
	Columns int
	Cells   [][]Cell
}

// GameStatus はゲームの状態です。盤面から毎回計算されます
type GameStatus int

const (
	InProgress GameStatus = iota
	Won
	Lost
)

func (s GameStatus) String() string {
	switch s {
	case InProgress:
		return "InProgress"
	case Won:
		return "Won"
	case Lost:
		return "Lost"
	}
	return fmt.Sprintf("GameStatus(%d)", int(s))
}

// Code は保存用の1文字コード ("I", "W", "L") を返します
func (s GameStatus) Code() string {
	switch s {
	case Won:
		return "W"
	case Lost:
		return "L"
	}
	return "I"
}

func (s GameStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action はプレイヤーの操作の種類です
type Action int

const (
	ActionClick Action = iota
	ActionFlag
)

func (a Action) String() string {
	if a == ActionFlag {
		return "flag"
	}
	return "click"
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Move は1回の操作の記録です
type Move struct {
	Position  Position
	Action    Action
	Timestamp time.Time
}

// MoveLog は追記専用の操作履歴です
type MoveLog struct {
	moves []Move
}

// Append は操作を末尾に追加します
func (l *MoveLog) Append(m Move) {
	l.moves = append(l.moves, m)
}

func (l *MoveLog) Len() int {
	return len(l.moves)
}

// Moves は履歴のコピーを返します
func (l *MoveLog) Moves() []Move {
	out := make([]Move, len(l.moves))
	copy(out, l.moves)
	return out
}

// Last は最後の操作を返します。履歴が空なら false
func (l *MoveLog) Last() (Move, bool) {
	if len(l.moves) == 0 {
		return Move{}, false
	}
	return l.moves[len(l.moves)-1], true
}
