package main

import (
	"fmt"
	"strconv"
	"strings"

	"minesweeper/game"
)

// scriptedMove は --moves で指定された1手です
type scriptedMove struct {
	Action   game.Action
	Position game.Position
}

// parseMoves は "c:0,0 f:1,2" のような手順を読みます
// 区切りは空白かセミコロン。c/click は開ける、f/flag はフラグ
func parseMoves(s string) ([]scriptedMove, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ' ' || r == '\t' || r == '\n'
	})

	moves := make([]scriptedMove, 0, len(fields))
	for _, f := range fields {
		kind, coords, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("invalid move %q: expected ACTION:ROW,COLUMN", f)
		}

		var action game.Action
		switch strings.ToLower(kind) {
		case "c", "click":
			action = game.ActionClick
		case "f", "flag":
			action = game.ActionFlag
		default:
			return nil, fmt.Errorf("invalid move %q: unknown action %q", f, kind)
		}

		rowStr, colStr, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("invalid move %q: expected ROW,COLUMN", f)
		}
		row, err := strconv.Atoi(rowStr)
		if err != nil {
			return nil, fmt.Errorf("invalid move %q: bad row: %w", f, err)
		}
		col, err := strconv.Atoi(colStr)
		if err != nil {
			return nil, fmt.Errorf("invalid move %q: bad column: %w", f, err)
		}

		moves = append(moves, scriptedMove{Action: action, Position: game.Position{Row: row, Column: col}})
	}
	return moves, nil
}
