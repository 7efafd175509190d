package poker

import (
	"errors"
	"fmt"
	"math/bits"
)

// HandRank represents the strength of a poker hand. Lower values are stronger:
// 1 is a royal flush and WorstHandRank is 7-5-4-3-2 offsuit.
type HandRank uint16

// Category enumerates the classes of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

const (
	straightFlushCount = 10
	fourOfAKindCount   = 13 * 12
	fullHouseCount     = 13 * 12
	flushCount         = 1277
	straightCount      = 10
	threeOfAKindCount  = 13 * 66
	twoPairCount       = 78 * 11
	onePairCount       = 13 * 220
	highCardCount      = 1277
)

const (
	baseStraightFlush = 1
	baseFourOfAKind   = baseStraightFlush + straightFlushCount
	baseFullHouse     = baseFourOfAKind + fourOfAKindCount
	baseFlush         = baseFullHouse + fullHouseCount
	baseStraight      = baseFlush + flushCount
	baseThreeOfAKind  = baseStraight + straightCount
	baseTwoPair       = baseThreeOfAKind + threeOfAKindCount
	baseOnePair       = baseTwoPair + twoPairCount
	baseHighCard      = baseOnePair + onePairCount
)

// BestHandRank and WorstHandRank bound every valid HandRank.
const (
	BestHandRank  HandRank = baseStraightFlush
	WorstHandRank HandRank = baseHighCard + highCardCount - 1
)

// Hand sizes accepted by Evaluate.
const (
	MinHandSize = 5
	MaxHandSize = 7
)

var (
	ErrInvalidHandSize = errors.New("invalid hand size")
	ErrUnknownCard     = errors.New("unknown card in hand")
	ErrInvalidCard     = errors.New("invalid card value")
	ErrDuplicateCard   = errors.New("duplicate card")
)

// handTypeBoundaries mark the exclusive upper bound for each category in ascending strength order.
var handTypeBoundaries = [...]HandRank{
	HandRank(baseFourOfAKind),
	HandRank(baseFullHouse),
	HandRank(baseFlush),
	HandRank(baseStraight),
	HandRank(baseThreeOfAKind),
	HandRank(baseTwoPair),
	HandRank(baseOnePair),
	HandRank(baseHighCard),
}

// Category returns the class of hand (pair, flush, etc.).
func (hr HandRank) Category() Category {
	switch {
	case hr < handTypeBoundaries[0]:
		return StraightFlush
	case hr < handTypeBoundaries[1]:
		return FourOfAKind
	case hr < handTypeBoundaries[2]:
		return FullHouse
	case hr < handTypeBoundaries[3]:
		return Flush
	case hr < handTypeBoundaries[4]:
		return Straight
	case hr < handTypeBoundaries[5]:
		return ThreeOfAKind
	case hr < handTypeBoundaries[6]:
		return TwoPair
	case hr < handTypeBoundaries[7]:
		return Pair
	default:
		return HighCard
	}
}

// Valid reports whether hr lies within [BestHandRank, WorstHandRank].
func (hr HandRank) Valid() bool {
	return hr >= BestHandRank && hr <= WorstHandRank
}

// String returns the category name of the hand.
func (hr HandRank) String() string {
	if !hr.Valid() {
		return "Unknown"
	}
	return hr.Category().String()
}

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Evaluate ranks 5, 6 or 7 distinct cards. Six- and seven-card hands are
// reduced to the strongest of their five-card subsets; every subset is scored.
func Evaluate(cards []Card) (HandRank, error) {
	if err := checkHand(cards); err != nil {
		return 0, err
	}

	if len(cards) == 5 {
		return evaluate5(cards[0], cards[1], cards[2], cards[3], cards[4]), nil
	}

	best := WorstHandRank + 1
	for _, idx := range fiveCardSubsets[len(cards)] {
		rank := evaluate5(cards[idx[0]], cards[idx[1]], cards[idx[2]], cards[idx[3]], cards[idx[4]])
		if rank < best {
			best = rank
		}
	}
	return best, nil
}

// EvaluateHand ranks the cards held in h.
func EvaluateHand(h Hand) (HandRank, error) {
	return Evaluate(h.Cards())
}

// MustEvaluate is Evaluate for inputs known to be valid; it panics on error.
func MustEvaluate(cards []Card) HandRank {
	rank, err := Evaluate(cards)
	if err != nil {
		panic(err)
	}
	return rank
}

// CompareHands compares two hands and returns 1 if a wins, -1 if b wins, 0 for tie
func CompareHands(a, b HandRank) int {
	if a < b {
		return 1
	} else if a > b {
		return -1
	}
	return 0
}

func checkHand(cards []Card) error {
	if len(cards) < MinHandSize || len(cards) > MaxHandSize {
		return fmt.Errorf("%w: got %d cards, want %d to %d", ErrInvalidHandSize, len(cards), MinHandSize, MaxHandSize)
	}

	var seen Hand
	for i, c := range cards {
		switch {
		case c == NoCard:
			return fmt.Errorf("%w at position %d", ErrUnknownCard, i)
		case !c.Valid():
			return fmt.Errorf("%w %#x at position %d", ErrInvalidCard, uint64(c), i)
		case seen.HasCard(c):
			return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen.AddCard(c)
	}
	return nil
}

// evaluate5 scores exactly five distinct, valid cards.
func evaluate5(c0, c1, c2, c3, c4 Card) HandRank {
	h := Hand(c0 | c1 | c2 | c3 | c4)
	rankMask := h.RankMask()

	for suit := range uint8(numSuits) {
		if h.GetSuitMask(suit) == rankMask && bits.OnesCount16(rankMask) == 5 {
			return tables.flush[rankMask]
		}
	}

	if bits.OnesCount16(rankMask) == 5 {
		return tables.unique[rankMask]
	}

	product := primes[c0.Rank()] * primes[c1.Rank()] * primes[c2.Rank()] * primes[c3.Rank()] * primes[c4.Rank()]
	return tables.paired[product]
}

// fiveCardSubsets[n] lists every 5-card index subset of an n-card hand.
var fiveCardSubsets = func() [MaxHandSize + 1][][5]uint8 {
	var subsets [MaxHandSize + 1][][5]uint8
	for n := MinHandSize; n <= MaxHandSize; n++ {
		for a := 0; a < n; a++ {
			for b := a + 1; b < n; b++ {
				for c := b + 1; c < n; c++ {
					for d := c + 1; d < n; d++ {
						for e := d + 1; e < n; e++ {
							subsets[n] = append(subsets[n], [5]uint8{uint8(a), uint8(b), uint8(c), uint8(d), uint8(e)})
						}
					}
				}
			}
		}
	}
	return subsets
}()
