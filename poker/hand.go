package poker

import "math/bits"

// Hand is a set of cards stored as a bitfield, one bit per Card.
type Hand uint64

// NewHand creates a hand from the given cards. NoCard values are ignored.
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h.AddCard(c)
	}
	return h
}

// FullDeck returns the hand holding all 52 cards.
func FullDeck() Hand {
	return Hand(deckMask)
}

// AddCard adds a card to the hand.
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// RemoveCard removes a card from the hand.
func (h *Hand) RemoveCard(c Card) {
	*h &^= Hand(c)
}

// HasCard checks if the hand contains a specific card.
func (h Hand) HasCard(c Card) bool {
	return c != NoCard && h&Hand(c) == Hand(c)
}

// CountCards returns the number of cards in the hand.
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// Union returns the cards held by either hand.
func (h Hand) Union(other Hand) Hand {
	return h | other
}

// Without returns h minus the cards in other.
func (h Hand) Without(other Hand) Hand {
	return h &^ other
}

// Overlaps reports whether the hands share any card.
func (h Hand) Overlaps(other Hand) bool {
	return h&other != 0
}

// GetSuitMask returns a 13-bit rank mask for the given suit.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16(uint64(h)>>(uint(suit)*numRanks)) & 0x1FFF
}

// RankMask returns the 13-bit mask of ranks present in any suit.
func (h Hand) RankMask() uint16 {
	var mask uint16
	for suit := range uint8(numSuits) {
		mask |= h.GetSuitMask(suit)
	}
	return mask
}

// Cards returns the cards of the hand in canonical order (rank, then suit).
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for rank := range uint8(numRanks) {
		for suit := range uint8(numSuits) {
			if c := NewCard(rank, suit); h.HasCard(c) {
				cards = append(cards, c)
			}
		}
	}
	return cards
}

// String formats the hand's cards in canonical order.
func (h Hand) String() string {
	return FormatCards(h.Cards())
}
