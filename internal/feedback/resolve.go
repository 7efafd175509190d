package feedback

import (
	"fmt"

	"github.com/lox/rivers/internal/boards"
	"github.com/lox/rivers/poker"
)

// Slot names one hole-card position (1 or 2) of a player.
type Slot struct {
	Player   string
	Position int
}

func (s Slot) String() string {
	return fmt.Sprintf("player %s card %d", s.Player, s.Position)
}

// Table is the card accounting for a set of players: which cards are held,
// which hole-card slots are unknown and which cards may still reach the board.
type Table struct {
	Known      poker.Hand
	Unknown    []Slot
	Remaining  []poker.Card
	Candidates int
}

// Generator returns a board generator over the remaining cards.
func (t *Table) Generator() (*boards.Generator, error) {
	return boards.New(t.Remaining)
}

// DuplicateCardError reports a card held in two hole-card slots.
type DuplicateCardError struct {
	Card   poker.Card
	First  Slot
	Second Slot
}

func (e *DuplicateCardError) Error() string {
	if e.First.Player == e.Second.Player {
		return fmt.Sprintf("duplicate card %s: held twice by player %s", e.Card, e.First.Player)
	}
	return fmt.Sprintf("duplicate card %s: held by player %s and player %s", e.Card, e.First.Player, e.Second.Player)
}

func (e *DuplicateCardError) Unwrap() error {
	return poker.ErrDuplicateCard
}

// Resolve collects every known hole card and returns the remaining deck in
// canonical order. A card appearing in more than one slot is a
// *DuplicateCardError.
func Resolve(players []PlayerRecord) (*Table, error) {
	t := &Table{}
	owners := make(map[poker.Card]Slot)

	for _, p := range players {
		for i, c := range p.Hole {
			slot := Slot{Player: p.ID, Position: i + 1}
			if !c.Known() {
				t.Unknown = append(t.Unknown, slot)
				continue
			}
			if !c.Valid() {
				return nil, fmt.Errorf("%s: %w", slot, poker.ErrInvalidCard)
			}
			if first, ok := owners[c]; ok {
				return nil, &DuplicateCardError{Card: c, First: first, Second: slot}
			}
			owners[c] = slot
			t.Known.AddCard(c)
		}
	}

	t.Remaining = poker.FullDeck().Without(t.Known).Cards()
	t.Candidates = boards.Combinations(len(t.Remaining), boards.Size)
	return t, nil
}

// BoardCardError reports a board card that a player already holds.
type BoardCardError struct {
	Card   poker.Card
	Holder Slot
}

func (e *BoardCardError) Error() string {
	return fmt.Sprintf("duplicate card %s: on the board and held by %s", e.Card, e.Holder)
}

func (e *BoardCardError) Unwrap() error {
	return poker.ErrDuplicateCard
}

// CheckBoard fails with a *BoardCardError when the board reuses a known hole
// card of any player, whatever their sentiment.
func CheckBoard(players []PlayerRecord, board boards.Board) error {
	onBoard := board.Hand()
	for _, p := range players {
		for i, c := range p.Hole {
			if c.Known() && onBoard.HasCard(c) {
				return &BoardCardError{Card: c, Holder: Slot{Player: p.ID, Position: i + 1}}
			}
		}
	}
	return nil
}
