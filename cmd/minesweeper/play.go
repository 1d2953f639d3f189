package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"minesweeper/game"
	"minesweeper/session"
	"minesweeper/viewmodel"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		board   boardFlags
		player  string
		script  string
		hint    bool
		debug   bool
		weights string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Create a game, apply scripted moves and print the board as JSON",
		Long: `Create a game, apply the moves given with --moves in order and print the
resulting view as JSON. Moves after the game has ended are ignored.

Examples:
  minesweeper play --seed 7 --moves "c:4,4"
  minesweeper play --rows 5 --columns 5 --mines 3 --moves "f:0,0; c:2,2" --hint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			moves, err := parseMoves(script)
			if err != nil {
				return err
			}
			preset, err := board.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}

			netOpt, err := networkOption(weights)
			if err != nil {
				return err
			}

			m := session.NewManager(a.cfg.Limits,
				session.WithGenerator(board.generator()),
				session.WithLogger(a.logger),
				netOpt)
			g, err := m.New(session.NewGameRequest{
				PlayerName: player,
				Rows:       preset.Rows,
				Columns:    preset.Columns,
				MineCount:  preset.Mines,
			})
			if err != nil {
				return fmt.Errorf("failed to create game: %w", err)
			}

			for _, mv := range moves {
				if mv.Action == game.ActionFlag {
					_, err = g.ToggleFlag(mv.Position)
				} else {
					_, err = g.Click(mv.Position)
				}
				if errors.Is(err, session.ErrGameFinished) {
					a.logger.Debug("ignoring move after game end", "row", mv.Position.Row, "column", mv.Position.Column)
					break
				}
				if err != nil {
					return fmt.Errorf("move %s %s: %w", mv.Action, mv.Position, err)
				}
			}

			snap := g.Snapshot()
			if debug {
				fmt.Fprint(cmd.ErrOrStderr(), snap.Grid.String())
			}

			out, err := viewmodel.NewGameView(snap).JSON()
			if err != nil {
				return fmt.Errorf("failed to encode view: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			if hint {
				move, err := g.Hint()
				switch {
				case errors.Is(err, session.ErrGameFinished):
				case err != nil:
					return err
				case move != nil:
					fmt.Fprintf(cmd.OutOrStdout(), "hint: %s %s (%s, confidence %.2f)\n",
						move.Action, move.Position, move.Strategy, move.Confidence)
				}
			}
			return nil
		},
	}

	board.register(cmd)
	cmd.Flags().StringVar(&player, "player", "player", "Player name")
	cmd.Flags().StringVarP(&script, "moves", "m", "", `Moves to apply, e.g. "c:0,0 f:1,2"`)
	cmd.Flags().BoolVar(&hint, "hint", false, "Print the solver's suggested next move")
	cmd.Flags().BoolVar(&debug, "debug", false, "Print the raw board to stderr")
	cmd.Flags().StringVar(&weights, "weights", "", "Network weights (JSON) used by --hint for guesses")
	return cmd
}
