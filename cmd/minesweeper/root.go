package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"minesweeper/config"
)

// app はコマンド間で共有する設定とロガーです
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "minesweeper",
		Short: "Minesweeper rules engine driver",
		Long: `minesweeper drives the gameboard engine from the command line.

Examples:
  minesweeper presets
  minesweeper play --preset beginner --seed 1 --moves "c:4,4 f:0,0"
  minesweeper simulate --games 500 --preset expert --csv results.csv`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a YAML config file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log-format", flags.Lookup("log-format"))
	a.v.SetEnvPrefix("MINESWEEPER")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(newPresetsCmd(a), newPlayCmd(a), newSimulateCmd(a))
	return root
}

// load は設定ファイルを読み、フラグと環境変数で上書きしてからロガーを作ります
func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v.GetString("config"))
	if err != nil {
		return err
	}
	if level := a.v.GetString("log-level"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if format := a.v.GetString("log-format"); format != "" {
		cfg.Log.Format = strings.ToLower(format)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)

	a.logger.Debug("configuration loaded",
		"config", a.v.GetString("config"),
		"level", cfg.Log.Level,
		"format", cfg.Log.Format,
		"presets", len(cfg.Presets))
	return nil
}
