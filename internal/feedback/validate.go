package feedback

import (
	"fmt"

	"github.com/lox/rivers/internal/boards"
	"github.com/lox/rivers/poker"
)

// Verdict is the outcome for one non-neutral player on one board.
type Verdict struct {
	Player      string
	Sentiment   Sentiment
	Improvement Improvement
}

// Consistent reports whether the improvement agrees with the sentiment.
func (v Verdict) Consistent() bool {
	return v.Sentiment.Accepts(v.Improvement.Improved())
}

// ValidationResult is the consistency check of one board.
type ValidationResult struct {
	Board     boards.Board
	Valid     bool
	Matches   []Verdict
	Conflicts []Verdict
	// Neutral counts players whose sentiment was neutral.
	Neutral int
	// Skipped lists players left out because of unknown hole cards.
	Skipped []string
}

// Validate checks every player's sentiment against board. Neutral players are
// counted and never analysed. A non-neutral player with an unknown hole card
// fails with poker.ErrUnknownCard; use Filter first to drop them.
func Validate(players []PlayerRecord, board boards.Board) (ValidationResult, error) {
	baseline, err := poker.Evaluate(board[:])
	if err != nil {
		return ValidationResult{}, fmt.Errorf("board %s: %w", board, err)
	}

	result := ValidationResult{Board: board}
	for _, p := range players {
		if p.Sentiment == Neutral {
			result.Neutral++
			continue
		}

		imp, err := analyze(p.Hole, board, baseline)
		if err != nil {
			return ValidationResult{}, fmt.Errorf("player %s: %w", p.ID, err)
		}

		v := Verdict{Player: p.ID, Sentiment: p.Sentiment, Improvement: imp}
		if v.Consistent() {
			result.Matches = append(result.Matches, v)
		} else {
			result.Conflicts = append(result.Conflicts, v)
		}
	}

	result.Valid = len(result.Conflicts) == 0
	return result, nil
}
