package game

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration は盤面の設定が不正なときのエラーです
// errors.Is で InvalidConfigurationError と一致します
var ErrInvalidConfiguration = errors.New("invalid board configuration")

// InvalidConfigurationError は Create に渡された設定の詳細を持ちます
type InvalidConfigurationError struct {
	Rows      int
	Columns   int
	MineCount int
	MaxMines  int // 配置できる地雷の最大数
}

func (e *InvalidConfigurationError) Error() string {
	switch {
	case e.Rows < 1:
		return fmt.Sprintf("invalid board configuration: rows must be >= 1, got %d", e.Rows)
	case e.Columns < 1:
		return fmt.Sprintf("invalid board configuration: columns must be >= 1, got %d", e.Columns)
	case e.MineCount < 0:
		return fmt.Sprintf("invalid board configuration: mine count must be >= 0, got %d", e.MineCount)
	default:
		return fmt.Sprintf("invalid board configuration: mine count must be <= %d (rows * columns - 1), got %d",
			e.MaxMines, e.MineCount)
	}
}

func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// OutOfBoundsError は盤面外の座標で操作しようとしたときの panic 値です
type OutOfBoundsError struct {
	Position Position
	Rows     int
	Columns  int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("position %s is outside the %dx%d grid", e.Position, e.Rows, e.Columns)
}
