package games

import (
	"fmt"

	"guildbot/domain"
)

const (
	MinLadderColumns = 2
	MaxLadderColumns = 6

	// LadderRows is the number of rung rows drawn between top and bottom
	LadderRows = 8
)

// Ladder is a randomly generated ghost-leg board. Rungs[row][gap] connects column gap
// to column gap+1; two rungs in the same row never share a column.
type Ladder struct {
	Columns     int
	Rungs       [][]bool
	WinningSlot int
}

// NewLadder builds a board with the given number of columns
func NewLadder(columns int, rng RandomSource) (*Ladder, error) {
	if columns < MinLadderColumns || columns > MaxLadderColumns {
		return nil, domain.NewValidationError("columns",
			fmt.Sprintf("must be between %d and %d, got %d", MinLadderColumns, MaxLadderColumns, columns))
	}

	rungs := make([][]bool, LadderRows)
	for row := range rungs {
		rungs[row] = make([]bool, columns-1)
		for gap := 0; gap < columns-1; gap++ {
			if gap > 0 && rungs[row][gap-1] {
				continue
			}
			rungs[row][gap] = rng.Intn(2) == 1
		}
	}

	return &Ladder{
		Columns:     columns,
		Rungs:       rungs,
		WinningSlot: rng.Intn(columns),
	}, nil
}

// Trace follows the ladder from a top column and returns the bottom slot reached
func (l *Ladder) Trace(start int) int {
	col := start
	for _, row := range l.Rungs {
		switch {
		case col < len(row) && row[col]:
			col++
		case col > 0 && row[col-1]:
			col--
		}
	}
	return col
}

// Path returns the column occupied after each row, starting with start
func (l *Ladder) Path(start int) []int {
	path := []int{start}
	col := start
	for _, row := range l.Rungs {
		switch {
		case col < len(row) && row[col]:
			col++
		case col > 0 && row[col-1]:
			col--
		}
		path = append(path, col)
	}
	return path
}

// LadderResult describes a resolved ladder pick
type LadderResult struct {
	Result
	Start int
	End   int
}

// Play settles a pick from start (0-based). Reaching the winning slot pays Columns x.
func (l *Ladder) Play(bet int64, start int) (*LadderResult, error) {
	if err := ValidateBet(bet); err != nil {
		return nil, err
	}
	if start < 0 || start >= l.Columns {
		return nil, domain.NewValidationError("column", fmt.Sprintf("must be between 1 and %d", l.Columns))
	}

	end := l.Trace(start)
	outcome := OutcomeLoss
	if end == l.WinningSlot {
		outcome = OutcomeWin
	}

	return &LadderResult{
		Result: settle(GameLadder, bet, outcome, int64(l.Columns), 1),
		Start:  start,
		End:    end,
	}, nil
}
