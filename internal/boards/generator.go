// Package boards enumerates candidate five-card boards drawn from the cards
// left in the deck. Enumeration is lexicographic over the canonically sorted
// remaining cards and every board is addressable by its index, so callers can
// split the space into ranges without materialising it.
package boards

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/lox/rivers/poker"
)

// Size is the number of cards on a complete board.
const Size = 5

var (
	ErrTooFewCards      = errors.New("not enough cards to form a board")
	ErrIndexOutOfRange  = errors.New("board index out of range")
	ErrInvalidBoardSize = errors.New("board must have exactly 5 cards")
)

// Board is a candidate board in ascending canonical order.
type Board [Size]poker.Card

// Cards returns the board as a slice.
func (b Board) Cards() []poker.Card {
	return b[:]
}

// Hand returns the board as a card set.
func (b Board) Hand() poker.Hand {
	return poker.NewHand(b[:]...)
}

func (b Board) String() string {
	return poker.FormatCards(b[:])
}

// ParseBoard parses exactly five distinct known cards and sorts them.
func ParseBoard(s string) (Board, error) {
	cards, err := poker.ParseCards(s)
	if err != nil {
		return Board{}, err
	}
	if len(cards) != Size {
		return Board{}, fmt.Errorf("%w: got %d", ErrInvalidBoardSize, len(cards))
	}
	if err := checkCards(cards); err != nil {
		return Board{}, err
	}
	poker.SortCards(cards)
	return Board(cards), nil
}

// Generator lists every five-card subset of a fixed card pool. It is
// immutable after construction and safe for concurrent use.
type Generator struct {
	cards []poker.Card
	count int
}

// New creates a generator over remaining. The input is copied and sorted
// canonically; it must hold at least five distinct known cards.
func New(remaining []poker.Card) (*Generator, error) {
	if err := checkCards(remaining); err != nil {
		return nil, err
	}
	if len(remaining) < Size {
		return nil, fmt.Errorf("%w: have %d cards", ErrTooFewCards, len(remaining))
	}

	cards := slices.Clone(remaining)
	poker.SortCards(cards)
	return &Generator{
		cards: cards,
		count: Combinations(len(cards), Size),
	}, nil
}

// FromHand creates a generator over the cards in h.
func FromHand(h poker.Hand) (*Generator, error) {
	return New(h.Cards())
}

// Count returns the number of candidate boards.
func (g *Generator) Count() int {
	return g.count
}

// Cards returns a copy of the card pool in enumeration order.
func (g *Generator) Cards() []poker.Card {
	return slices.Clone(g.cards)
}

// At returns the i-th board in lexicographic order.
func (g *Generator) At(i int) (Board, error) {
	if i < 0 || i >= g.count {
		return Board{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, g.count)
	}
	return g.board(g.unrank(i)), nil
}

// All yields every board with its index.
func (g *Generator) All() iter.Seq2[int, Board] {
	return g.Range(0, g.count)
}

// Range yields the boards with indices in [start, end). Bounds are clamped to
// the generator's index space. The sequence can be iterated more than once.
func (g *Generator) Range(start, end int) iter.Seq2[int, Board] {
	start = max(start, 0)
	end = min(end, g.count)

	return func(yield func(int, Board) bool) {
		if start >= end {
			return
		}
		idx := g.unrank(start)
		for i := start; i < end; i++ {
			if !yield(i, g.board(idx)) {
				return
			}
			if !successor(&idx, len(g.cards)) {
				return
			}
		}
	}
}

func (g *Generator) board(idx [Size]int) Board {
	var b Board
	for p, x := range idx {
		b[p] = g.cards[x]
	}
	return b
}

// unrank maps a lexicographic index to positions in the card pool using the
// combinatorial number system.
func (g *Generator) unrank(i int) [Size]int {
	var idx [Size]int
	n := len(g.cards)
	x := 0
	for p := range Size {
		for {
			c := Combinations(n-x-1, Size-p-1)
			if i < c {
				break
			}
			i -= c
			x++
		}
		idx[p] = x
		x++
	}
	return idx
}

// successor advances idx to the next subset in lexicographic order.
func successor(idx *[Size]int, n int) bool {
	for p := Size - 1; p >= 0; p-- {
		if idx[p] < n-Size+p {
			idx[p]++
			for q := p + 1; q < Size; q++ {
				idx[q] = idx[q-1] + 1
			}
			return true
		}
	}
	return false
}

func checkCards(cards []poker.Card) error {
	var seen poker.Hand
	for i, c := range cards {
		switch {
		case !c.Known():
			return fmt.Errorf("%w at position %d", poker.ErrUnknownCard, i)
		case !c.Valid():
			return fmt.Errorf("%w at position %d", poker.ErrInvalidCard, i)
		case seen.HasCard(c):
			return fmt.Errorf("%w: %s", poker.ErrDuplicateCard, c)
		}
		seen.AddCard(c)
	}
	return nil
}

var binomials = func() (t [53][Size + 1]int) {
	for n := range t {
		t[n][0] = 1
		for k := 1; k <= Size && k <= n; k++ {
			t[n][k] = t[n-1][k-1] + t[n-1][k]
		}
	}
	return t
}()

// Combinations returns C(n, k) for the board-sized values used here
// (0 <= n <= 52, 0 <= k <= 5) and 0 outside that domain.
func Combinations(n, k int) int {
	if n < 0 || k < 0 || k > Size || n >= len(binomials) || k > n {
		return 0
	}
	return binomials[n][k]
}
