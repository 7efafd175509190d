package poker

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Card is a single playing card encoded as one bit of a 52-bit field.
// Bit position = suit*13 + rank, where rank 0 is a deuce and 12 is an ace.
// The zero value is NoCard and marks an unknown or missing card.
type Card uint64

// NoCard is the sentinel for a hole-card slot whose value is not known.
const NoCard Card = 0

// UnknownToken is the textual form of NoCard accepted at input boundaries.
const UnknownToken = "??"

// Ranks
const (
	Two uint8 = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suits
const (
	Clubs uint8 = iota
	Diamonds
	Hearts
	Spades
)

const (
	numRanks = 13
	numSuits = 4
	numCards = numRanks * numSuits

	deckMask = uint64(1)<<numCards - 1
)

var (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// NewCard creates a card from a rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (uint(suit)*numRanks + uint(rank))
}

// Valid reports whether c is exactly one of the 52 cards.
func (c Card) Valid() bool {
	return c != 0 && uint64(c)&^deckMask == 0 && c&(c-1) == 0
}

// Known reports whether c holds a card value rather than the NoCard sentinel.
func (c Card) Known() bool {
	return c != NoCard
}

func (c Card) position() uint8 {
	return uint8(bits.TrailingZeros64(uint64(c)))
}

// Rank returns the card rank (0-12).
func (c Card) Rank() uint8 {
	return c.position() % numRanks
}

// Suit returns the card suit (0-3).
func (c Card) Suit() uint8 {
	return c.position() / numRanks
}

// Index returns the canonical ordinal of the card (0-51), ordering cards by
// rank first and suit second. Deuce of clubs is 0, ace of spades is 51.
func (c Card) Index() int {
	return int(c.Rank())*numSuits + int(c.Suit())
}

// CardFromIndex is the inverse of Card.Index.
func CardFromIndex(i int) Card {
	return NewCard(uint8(i/numSuits), uint8(i%numSuits))
}

// String returns the two-character notation, e.g. "As" or "Td".
func (c Card) String() string {
	if c == NoCard {
		return UnknownToken
	}
	if !c.Valid() {
		return "!!"
	}
	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

// Compare orders cards canonically (rank, then suit).
func (c Card) Compare(other Card) int {
	return c.Index() - other.Index()
}

// ErrInvalidCardString is returned when card text cannot be parsed.
var ErrInvalidCardString = errors.New("invalid card")

// ParseCard parses card notation such as "As", "td", "10h" or "QS".
// The unknown token "??" is rejected; use ParseHoleCard for input that may
// carry unknown slots.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return NoCard, fmt.Errorf("%w %q: expected rank and suit", ErrInvalidCardString, s)
	}

	rankText, suitChar := s[:len(s)-1], s[len(s)-1]

	var rank uint8
	switch strings.ToUpper(rankText) {
	case "10", "T":
		rank = Ten
	default:
		if len(rankText) != 1 {
			return NoCard, fmt.Errorf("%w %q: unknown rank %q", ErrInvalidCardString, s, rankText)
		}
		idx := strings.IndexByte(rankChars, upper(rankText[0]))
		if idx < 0 {
			return NoCard, fmt.Errorf("%w %q: unknown rank %q", ErrInvalidCardString, s, rankText)
		}
		rank = uint8(idx)
	}

	suit := strings.IndexByte(suitChars, lower(suitChar))
	if suit < 0 {
		return NoCard, fmt.Errorf("%w %q: unknown suit %q", ErrInvalidCardString, s, suitChar)
	}

	return NewCard(rank, uint8(suit)), nil
}

// ParseHoleCard parses a hole-card slot, mapping "??" (or an empty slot) to NoCard.
func ParseHoleCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == UnknownToken {
		return NoCard, nil
	}
	return ParseCard(s)
}

// ParseCards parses a list of cards separated by spaces or commas, or packed
// together without separators ("AsKsQs").
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	var cards []Card
	for _, field := range fields {
		if card, err := ParseCard(field); err == nil {
			cards = append(cards, card)
			continue
		}
		packed, err := parsePacked(field)
		if err != nil {
			return nil, err
		}
		cards = append(cards, packed...)
	}
	return cards, nil
}

func parsePacked(s string) ([]Card, error) {
	var cards []Card
	for i := 0; i < len(s); {
		width := 2
		if strings.HasPrefix(s[i:], "10") {
			width = 3
		}
		if i+width > len(s) {
			return nil, fmt.Errorf("%w: incomplete card at position %d in %q", ErrInvalidCardString, i, s)
		}
		card, err := ParseCard(s[i : i+width])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
		i += width
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error. Intended for tests and literals.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

// SortCards sorts cards in canonical order (rank, then suit) in place.
func SortCards(cards []Card) {
	slices.SortFunc(cards, Card.Compare)
}

// FormatCards joins card notation with single spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}
