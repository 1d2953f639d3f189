package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"minesweeper/ai"
	"minesweeper/game"
	"minesweeper/session"
)

// result は Bot の1試合分の結果です
type result struct {
	Index    int
	ID       string
	Status   game.GameStatus
	Moves    int
	Revealed int
	Guesses  int
}

func newSimulateCmd(a *app) *cobra.Command {
	var (
		board       boardFlags
		games       int
		csvPath     string
		datasetPath string
		weights     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Let the solver play games against itself and report the results",
		Long: `Let the solver play games to the end, one hint at a time, and print the
win rate. With --csv every game is written as one row:
game,id,status,moves,revealed,guesses

With --dataset every guess is recorded for training the network loaded
by --weights: the 25 cells around the guessed cell and whether it was a mine.

The seed fixes the boards; guesses made by the solver stay random.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if games < 1 {
				return fmt.Errorf("--games must be >= 1, got %d", games)
			}
			preset, err := board.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}

			var writer *csv.Writer
			if csvPath != "" {
				file, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", csvPath, err)
				}
				defer file.Close()
				writer = csv.NewWriter(file)
				if err := writer.Write([]string{"game", "id", "status", "moves", "revealed", "guesses"}); err != nil {
					return err
				}
			}

			var dataset *csv.Writer
			if datasetPath != "" {
				file, err := os.Create(datasetPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", datasetPath, err)
				}
				defer file.Close()
				dataset = csv.NewWriter(file)
				if err := dataset.Write(datasetHeader()); err != nil {
					return err
				}
			}

			netOpt, err := networkOption(weights)
			if err != nil {
				return err
			}

			m := session.NewManager(a.cfg.Limits,
				session.WithGenerator(board.generator()),
				session.WithLogger(a.logger),
				netOpt)
			req := session.NewGameRequest{
				PlayerName: "bot",
				Rows:       preset.Rows,
				Columns:    preset.Columns,
				MineCount:  preset.Mines,
			}

			a.logger.Info("simulation started",
				"games", games,
				"rows", preset.Rows,
				"columns", preset.Columns,
				"mines", preset.Mines)

			won := 0
			for i := 0; i < games; i++ {
				res, err := playOut(m, req, dataset)
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				res.Index = i
				if res.Status == game.Won {
					won++
				}
				if writer != nil {
					if err := writeResult(writer, res); err != nil {
						return err
					}
				}
			}

			if writer != nil {
				writer.Flush()
				if err := writer.Error(); err != nil {
					return fmt.Errorf("failed to write %s: %w", csvPath, err)
				}
			}
			if dataset != nil {
				dataset.Flush()
				if err := dataset.Error(); err != nil {
					return fmt.Errorf("failed to write %s: %w", datasetPath, err)
				}
			}

			printSummary(cmd.OutOrStdout(), games, won)
			return nil
		},
	}

	board.register(cmd)
	cmd.Flags().IntVarP(&games, "games", "n", 100, "Number of games to play")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write per-game results to this CSV file")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Record every guess as training data to this CSV file")
	cmd.Flags().StringVar(&weights, "weights", "", "Network weights (JSON) used for guesses")
	return cmd
}

// playOut は1試合を最後まで Bot に打たせ、終わったゲームを破棄します
// dataset が nil でなければ運任せの手を記録します
func playOut(m *session.Manager, req session.NewGameRequest, dataset *csv.Writer) (result, error) {
	g, err := m.New(req)
	if err != nil {
		return result{}, err
	}
	defer m.Remove(g.ID)

	res := result{ID: g.ID.String()}
	for g.Status() == game.InProgress {
		move, err := g.Hint()
		if err != nil {
			return result{}, err
		}
		if move == nil {
			break // 打つ手なし
		}
		if move.IsGuess {
			res.Guesses++
			if dataset != nil {
				if err := recordGuess(dataset, g.Snapshot().Grid, move.Position); err != nil {
					return result{}, err
				}
			}
		}

		if move.Action == game.ActionFlag {
			_, err = g.ToggleFlag(move.Position)
		} else {
			_, err = g.Click(move.Position)
		}
		if err != nil {
			return result{}, err
		}
	}

	snap := g.Snapshot()
	res.Status = snap.Status
	res.Moves = len(snap.Moves)
	res.Revealed = snap.Grid.RevealedCount()
	return res, nil
}

func writeResult(w *csv.Writer, r result) error {
	return w.Write([]string{
		strconv.Itoa(r.Index),
		r.ID,
		r.Status.Code(),
		strconv.Itoa(r.Moves),
		strconv.Itoa(r.Revealed),
		strconv.Itoa(r.Guesses),
	})
}

// datasetHeader は周囲5x5マスの情報(25個) + 正解ラベルです
func datasetHeader() []string {
	header := make([]string, 0, ai.InputSize+1)
	for i := 0; i < ai.InputSize; i++ {
		header = append(header, fmt.Sprintf("cell_%d", i))
	}
	return append(header, "is_mine")
}

// recordGuess は推測する直前の盤面を1行書きます。ラベルは 0:安全, 1:地雷
func recordGuess(w *csv.Writer, grid game.Grid, p game.Position) error {
	row := make([]string, 0, ai.InputSize+1)
	for _, v := range ai.Features(grid, p) {
		row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
	}
	label := "0"
	if grid.At(p).IsMine {
		label = "1"
	}
	return w.Write(append(row, label))
}

func printSummary(w io.Writer, games, won int) {
	lost := games - won
	fmt.Fprintf(w, "played %d games: %d won, %d lost (%.1f%% win rate)\n",
		games, won, lost, float64(won)*100/float64(games))
}
