package game

import "testing"

func TestStatus(t *testing.T) {
	tests := []struct {
		name  string
		setup func() Grid
		want  GameStatus
	}{
		{
			name: "win",
			setup: func() Grid {
				grid := plantedGrid(3, 3, Position{0, 1})
				for r := range grid.Cells {
					for c := range grid.Cells[r] {
						if !grid.Cells[r][c].IsMine {
							grid.Cells[r][c].IsRevealed = true
						}
					}
				}
				return grid
			},
			want: Won,
		},
		{
			name: "loss",
			setup: func() Grid {
				grid := plantedGrid(3, 3, Position{0, 1})
				grid.Cells[0][1].IsRevealed = true
				return grid
			},
			want: Lost,
		},
		{
			name: "loss beats all safe revealed",
			setup: func() Grid {
				grid := plantedGrid(2, 2, Position{0, 0}, Position{0, 1})
				for r := range grid.Cells {
					for c := range grid.Cells[r] {
						grid.Cells[r][c].IsRevealed = true
					}
				}
				return grid
			},
			want: Lost,
		},
		{
			name: "in progress",
			setup: func() Grid {
				grid := plantedGrid(3, 3, cornerMines()...)
				grid.Cells[0][0].IsRevealed = true
				return grid
			},
			want: InProgress,
		},
		{
			name: "fresh board",
			setup: func() Grid {
				return countedGrid(3, 3, Position{1, 1})
			},
			want: InProgress,
		},
		{
			name: "flags do not win",
			setup: func() Grid {
				grid := plantedGrid(2, 1, Position{0, 0})
				grid.Cells[0][0].IsFlagged = true
				return grid
			},
			want: InProgress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := tt.setup()
			got := Status(grid)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
			if again := Status(grid); again != got {
				t.Errorf("status is not stable: %s then %s", got, again)
			}
		})
	}
}

func TestGameStatusCodes(t *testing.T) {
	tests := map[GameStatus]string{InProgress: "I", Won: "W", Lost: "L"}
	for s, code := range tests {
		if s.Code() != code {
			t.Errorf("%s: expected code %q, got %q", s, code, s.Code())
		}
	}
}

func TestMoveLogAppendOnly(t *testing.T) {
	var log MoveLog
	if _, ok := log.Last(); ok {
		t.Fatal("empty log should have no last move")
	}

	log.Append(Move{Position: Position{0, 0}, Action: ActionClick})
	log.Append(Move{Position: Position{1, 1}, Action: ActionFlag})

	moves := log.Moves()
	moves[0].Action = ActionFlag
	if log.Moves()[0].Action != ActionClick {
		t.Fatal("Moves should return a copy")
	}
	if log.Len() != 2 {
		t.Fatalf("expected 2 moves, got %d", log.Len())
	}
	last, _ := log.Last()
	if last.Action != ActionFlag || last.Action.String() != "flag" {
		t.Errorf("unexpected last move %+v", last)
	}
}
