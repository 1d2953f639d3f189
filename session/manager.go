// Package session はゲームの状態をメモリ上で管理します
// エンジン (game パッケージ) は状態を持たないので、ゲームごとの排他と履歴はここで扱います
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"minesweeper/ai"
	"minesweeper/config"
	"minesweeper/game"
)

// NewGameRequest は新しいゲームの設定です
type NewGameRequest struct {
	PlayerName string
	Rows       int
	Columns    int
	MineCount  int
}

// Manager はゲームを ID で管理します
type Manager struct {
	limits config.Limits
	logger *slog.Logger
	now    func() time.Time

	genMu sync.Mutex // Generator の乱数源は goroutine セーフではない
	gen   *game.Generator

	network *ai.Network

	mu    sync.RWMutex
	games map[uuid.UUID]*Game
}

// Option は Manager の設定を変更します
type Option func(*Manager)

// WithGenerator は地雷配置に使う Generator を設定します
func WithGenerator(gen *game.Generator) Option {
	return func(m *Manager) {
		m.gen = gen
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithNetwork はヒントの推測に使うネットワークを設定します
func WithNetwork(net *ai.Network) Option {
	return func(m *Manager) {
		m.network = net
	}
}

// WithTimeFunc はテスト用に時刻の取得方法を設定します
func WithTimeFunc(fn func() time.Time) Option {
	return func(m *Manager) {
		m.now = fn
	}
}

// NewManager は Manager を初期化します
func NewManager(limits config.Limits, opts ...Option) *Manager {
	m := &Manager{
		limits: limits,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		gen:    game.NewGenerator(nil),
		games:  make(map[uuid.UUID]*Game),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// New はリクエストを検証して新しいゲームを作ります
func (m *Manager) New(req NewGameRequest) (*Game, error) {
	if err := m.validate(req); err != nil {
		return nil, err
	}

	m.genMu.Lock()
	grid, err := m.gen.Create(req.Rows, req.Columns, req.MineCount)
	m.genMu.Unlock()
	if err != nil {
		var cfgErr *game.InvalidConfigurationError
		if errors.As(err, &cfgErr) {
			reason := fmt.Sprintf("must be < rows * columns (%d)", cfgErr.MaxMines+1)
			if req.MineCount < 0 {
				reason = "must not be negative"
			}
			return nil, &ValidationError{
				Field:  "mine count",
				Value:  req.MineCount,
				Reason: reason,
				Err:    err,
			}
		}
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	now := m.now()
	g := &Game{
		ID:          uuid.New(),
		PlayerName:  req.PlayerName,
		MineCount:   req.MineCount,
		CreatedAt:   now,
		grid:        grid,
		status:      game.Status(grid),
		lastMovedAt: now,
		now:         m.now,
		logger:      m.logger,
		network:     m.network,
	}

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()

	m.logger.Info("game created",
		"game_id", g.ID,
		"player", g.PlayerName,
		"rows", req.Rows,
		"columns", req.Columns,
		"mines", req.MineCount)

	return g, nil
}

func (m *Manager) validate(req NewGameRequest) error {
	if n := utf8.RuneCountInString(req.PlayerName); n < 1 || n > m.limits.MaxPlayerName {
		return &ValidationError{
			Field:  "player name",
			Value:  fmt.Sprintf("%q", req.PlayerName),
			Reason: fmt.Sprintf("must be between 1 and %d characters", m.limits.MaxPlayerName),
		}
	}
	for _, dim := range []struct {
		field string
		value int
	}{{"rows", req.Rows}, {"columns", req.Columns}} {
		if dim.value < m.limits.MinSize || dim.value > m.limits.MaxSize {
			return &ValidationError{
				Field:  dim.field,
				Value:  dim.value,
				Reason: fmt.Sprintf("must be between %d and %d", m.limits.MinSize, m.limits.MaxSize),
			}
		}
	}
	return nil
}

// Get は ID でゲームを探します
func (m *Manager) Get(id uuid.UUID) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// List は全てのゲームを作成順に返します
func (m *Manager) List() []*Game {
	m.mu.RLock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		}
		return games[i].ID.String() < games[j].ID.String()
	})
	return games
}

// Remove はゲームを破棄します
func (m *Manager) Remove(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(m.games, id)
	m.logger.Debug("game removed", "game_id", id)
	return nil
}
