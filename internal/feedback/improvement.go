package feedback

import (
	"fmt"

	"github.com/lox/rivers/internal/boards"
	"github.com/lox/rivers/poker"
)

// Improvement compares a player's best seven-card hand with the board
// played alone.
type Improvement struct {
	Baseline poker.HandRank
	Player   poker.HandRank
	// Delta is Baseline - Player; positive means the hole cards helped.
	Delta    int
	Category poker.Category
}

// Improved reports whether the hole cards made a strictly better hand.
func (i Improvement) Improved() bool {
	return i.Delta > 0
}

// Analyze ranks hole+board against the board alone.
func Analyze(hole [2]poker.Card, board boards.Board) (Improvement, error) {
	baseline, err := poker.Evaluate(board[:])
	if err != nil {
		return Improvement{}, fmt.Errorf("board %s: %w", board, err)
	}
	return analyze(hole, board, baseline)
}

func analyze(hole [2]poker.Card, board boards.Board, baseline poker.HandRank) (Improvement, error) {
	if !hole[0].Known() || !hole[1].Known() {
		return Improvement{}, fmt.Errorf("%w: hole cards %s %s", poker.ErrUnknownCard, hole[0], hole[1])
	}

	cards := [7]poker.Card{hole[0], hole[1], board[0], board[1], board[2], board[3], board[4]}
	player, err := poker.Evaluate(cards[:])
	if err != nil {
		return Improvement{}, err
	}

	return Improvement{
		Baseline: baseline,
		Player:   player,
		Delta:    int(baseline) - int(player),
		Category: player.Category(),
	}, nil
}
