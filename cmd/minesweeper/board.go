package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"minesweeper/config"
	"minesweeper/game"
)

// boardFlags は play と simulate で共通の盤面指定です
type boardFlags struct {
	preset  string
	rows    int
	columns int
	mines   int
	seed    uint64
}

func (b *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&b.preset, "preset", "p", "beginner", "Difficulty preset")
	cmd.Flags().IntVar(&b.rows, "rows", 0, "Rows (overrides the preset)")
	cmd.Flags().IntVar(&b.columns, "columns", 0, "Columns (overrides the preset)")
	cmd.Flags().IntVar(&b.mines, "mines", 0, "Mine count (overrides the preset)")
	cmd.Flags().Uint64Var(&b.seed, "seed", 0, "Seed for mine placement (0 picks a random seed)")
}

// resolve はプリセットにフラグの値を上書きした盤面設定を返します
func (b *boardFlags) resolve(cmd *cobra.Command, cfg config.Config) (config.Preset, error) {
	p, ok := cfg.Preset(b.preset)
	if !ok {
		return config.Preset{}, fmt.Errorf("unknown preset %q (available: %v)", b.preset, cfg.PresetNames())
	}
	if cmd.Flags().Changed("rows") {
		p.Rows = b.rows
	}
	if cmd.Flags().Changed("columns") {
		p.Columns = b.columns
	}
	if cmd.Flags().Changed("mines") {
		p.Mines = b.mines
	}
	return p, nil
}

func (b *boardFlags) generator() *game.Generator {
	if b.seed == 0 {
		return game.NewGenerator(nil)
	}
	return game.NewGenerator(rand.New(rand.NewPCG(b.seed, b.seed)))
}
