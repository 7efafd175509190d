package boards

import (
	"math/bits"

	"github.com/lox/rivers/poker"
)

// Wetness grades how coordinated a board is, from dry to very wet.
type Wetness int

const (
	Dry Wetness = iota
	SemiWet
	Wet
	VeryWet
)

// Wetnesses lists every grade from driest to wettest.
var Wetnesses = [...]Wetness{Dry, SemiWet, Wet, VeryWet}

func (w Wetness) String() string {
	switch w {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// Texture summarises flush, straight and pairing potential of a set of
// community cards.
type Texture struct {
	Wetness Wetness
	// MaxSuit is the largest number of cards sharing a suit.
	MaxSuit  int
	Monotone bool
	Rainbow  bool
	// Connected is the longest run of consecutive ranks, counting the ace
	// as both high and low.
	Connected int
	Pairs     int
	// HighCards counts tens and above.
	HighCards int
}

// Texture analyses the board.
func (b Board) Texture() Texture {
	return AnalyzeTexture(b.Hand())
}

// AnalyzeTexture analyses any set of community cards. Fewer than three cards
// are always dry.
func AnalyzeTexture(h poker.Hand) Texture {
	n := h.CountCards()
	if n == 0 {
		return Texture{}
	}

	var t Texture
	suits := 0
	var rankCounts [13]int
	for suit := range uint8(4) {
		mask := h.GetSuitMask(suit)
		count := bits.OnesCount16(mask)
		if count > 0 {
			suits++
		}
		t.MaxSuit = max(t.MaxSuit, count)
		for rank := range 13 {
			if mask&(1<<rank) != 0 {
				rankCounts[rank]++
			}
		}
	}
	t.Monotone = suits == 1 && n >= 3
	t.Rainbow = suits == n && n >= 3

	for _, c := range rankCounts {
		if c >= 2 {
			t.Pairs++
		}
	}

	ranks := h.RankMask()
	t.HighCards = bits.OnesCount16(ranks & 0x1F00)
	t.Connected = longestRun(uint32(ranks)<<1 | uint32(ranks>>poker.Ace&1))

	if n < 3 {
		return t
	}

	score := 0
	switch {
	case t.Monotone, t.MaxSuit >= 4:
		score += 4
	case t.MaxSuit == 3:
		score += 3
	case t.MaxSuit == 2:
		score++
	}
	switch {
	case t.Connected >= 4:
		score += 4
	case t.Connected == 3:
		score += 3
	case t.Connected == 2:
		score++
	}
	if t.Pairs > 0 {
		score++
	}
	if t.HighCards >= 3 {
		score++
	}

	switch {
	case score <= 0:
		t.Wetness = Dry
	case score <= 3:
		t.Wetness = SemiWet
	case score <= 5:
		t.Wetness = Wet
	default:
		t.Wetness = VeryWet
	}
	return t
}

// longestRun returns the length of the longest run of set bits.
func longestRun(mask uint32) int {
	n := 0
	for mask != 0 {
		mask &= mask << 1
		n++
	}
	return n
}
