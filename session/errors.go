package session

import (
	"errors"
	"fmt"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFinished    = errors.New("game is no longer in progress")
	ErrInvalidPosition = errors.New("invalid position")
)

// ValidationError は新しいゲームのリクエストが不正なときのエラーです
type ValidationError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
