// Package config は盤面の制限、難易度プリセット、ログ設定を YAML から読み込みます
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"minesweeper/game"
)

// Preset は難易度ごとの盤面サイズと地雷数です
type Preset struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
	Mines   int `yaml:"mines"`
}

// Limits は新しいゲームを作るときの入力チェックに使います
type Limits struct {
	MinSize       int `yaml:"min_size"`
	MaxSize       int `yaml:"max_size"`
	MaxPlayerName int `yaml:"max_player_name"`
}

type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

type Config struct {
	Limits  Limits            `yaml:"limits"`
	Presets map[string]Preset `yaml:"presets"`
	Log     Log               `yaml:"log"`
}

// Default はファイルがないときの設定を返します
func Default() Config {
	return Config{
		Limits: Limits{MinSize: 2, MaxSize: 80, MaxPlayerName: 20},
		Presets: map[string]Preset{
			"beginner":     {Rows: 9, Columns: 9, Mines: 10},
			"intermediate": {Rows: 16, Columns: 16, Mines: 40},
			"expert":       {Rows: 16, Columns: 30, Mines: 99},
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load は YAML ファイルを読み、デフォルト値に上書きします
// path が空ならデフォルトをそのまま返します
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse は YAML を読み込んで検証します。未知のキーはエラーにします
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は制限とプリセットが矛盾していないか確認します
func (c Config) Validate() error {
	var errs []error
	l := c.Limits
	if l.MinSize < 1 {
		errs = append(errs, fmt.Errorf("limits.min_size must be >= 1, got %d", l.MinSize))
	}
	if l.MaxSize < l.MinSize {
		errs = append(errs, fmt.Errorf("limits.max_size (%d) must be >= min_size (%d)", l.MaxSize, l.MinSize))
	}
	if l.MaxPlayerName < 1 {
		errs = append(errs, fmt.Errorf("limits.max_player_name must be >= 1, got %d", l.MaxPlayerName))
	}

	for _, name := range c.PresetNames() {
		p := c.Presets[name]
		if p.Rows < l.MinSize || p.Rows > l.MaxSize || p.Columns < l.MinSize || p.Columns > l.MaxSize {
			errs = append(errs, fmt.Errorf("preset %q: %dx%d is outside %d..%d", name, p.Rows, p.Columns, l.MinSize, l.MaxSize))
		}
		if maxMines := game.MaxMines(p.Rows, p.Columns); p.Mines < 0 || p.Mines > maxMines {
			errs = append(errs, fmt.Errorf("preset %q: mines must be in 0..%d, got %d", name, maxMines, p.Mines))
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// PresetNames はプリセット名をソートして返します
func (c Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset は名前でプリセットを探します
func (c Config) Preset(name string) (Preset, bool) {
	p, ok := c.Presets[name]
	return p, ok
}
