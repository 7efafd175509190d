package poker

// HoleCategory is a coarse preflop strength bucket for a pair of hole cards.
type HoleCategory string

const (
	CategoryPremium HoleCategory = "Premium"
	CategoryStrong  HoleCategory = "Strong"
	CategoryMedium  HoleCategory = "Medium"
	CategoryWeak    HoleCategory = "Weak"
	CategoryTrash   HoleCategory = "Trash"
	CategoryUnknown HoleCategory = "Unknown"
)

// CategorizeHoleCards buckets two hole cards.
// Premium: JJ+, AK. Strong: TT, AQ, AJ. Medium: 77-99, suited broadway.
// Weak: 22-66, suited cards at most two ranks apart. Trash: everything else.
// Unknown is returned when either card is missing or invalid.
func CategorizeHoleCards(hole [2]Card) HoleCategory {
	if !hole[0].Valid() || !hole[1].Valid() || hole[0] == hole[1] {
		return CategoryUnknown
	}

	low, high := hole[0].Rank(), hole[1].Rank()
	if low > high {
		low, high = high, low
	}
	suited := hole[0].Suit() == hole[1].Suit()
	paired := low == high

	switch {
	case paired && low >= Jack, low == King && high == Ace:
		return CategoryPremium
	case paired && low == Ten, high == Ace && (low == Queen || low == Jack):
		return CategoryStrong
	case paired && low >= Seven, suited && low >= Ten:
		return CategoryMedium
	case paired, suited && high-low <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}
