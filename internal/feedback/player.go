// Package feedback models what players said about their hands after the
// river and checks candidate boards against it.
package feedback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/rivers/poker"
)

// Sentiment is a player's qualitative report about their hand on the river.
type Sentiment uint8

const (
	Neutral Sentiment = iota
	Improved
	NotImproved
)

var ErrInvalidSentiment = errors.New("invalid sentiment")

func (s Sentiment) String() string {
	switch s {
	case Improved:
		return "improved"
	case NotImproved:
		return "not improved"
	default:
		return "neutral"
	}
}

// Accepts reports whether an improvement outcome agrees with the sentiment.
// Neutral accepts nothing; callers count it separately.
func (s Sentiment) Accepts(improved bool) bool {
	switch s {
	case Improved:
		return improved
	case NotImproved:
		return !improved
	default:
		return false
	}
}

// ParseSentiment accepts the spellings used in player sheets.
func ParseSentiment(text string) (Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "improved", "yes", "y", "+":
		return Improved, nil
	case "not improved", "not_improved", "notimproved", "no", "n", "-":
		return NotImproved, nil
	case "neutral", "unknown", "?", "":
		return Neutral, nil
	default:
		return Neutral, fmt.Errorf("%w %q", ErrInvalidSentiment, text)
	}
}

// PlayerRecord is one player's hole cards and reported sentiment. Either hole
// card may be poker.NoCard when it was not seen.
type PlayerRecord struct {
	ID        string
	Hole      [2]poker.Card
	Sentiment Sentiment
}

// NewPlayer parses two hole-card tokens ("??" for unknown) into a record.
func NewPlayer(id, card1, card2 string, sentiment Sentiment) (PlayerRecord, error) {
	p := PlayerRecord{ID: id, Sentiment: sentiment}
	for i, text := range []string{card1, card2} {
		c, err := poker.ParseHoleCard(text)
		if err != nil {
			return PlayerRecord{}, fmt.Errorf("player %s card %d: %w", id, i+1, err)
		}
		p.Hole[i] = c
	}
	return p, nil
}

// Known reports whether both hole cards are known.
func (p PlayerRecord) Known() bool {
	return p.Hole[0].Known() && p.Hole[1].Known()
}

func (p PlayerRecord) String() string {
	return fmt.Sprintf("%s [%s %s] %s", p.ID, p.Hole[0], p.Hole[1], p.Sentiment)
}

// Filter separates players that can be checked against a board from
// non-neutral players whose hole cards are not fully known. Neutral players
// are always kept since they are counted but never analysed.
func Filter(players []PlayerRecord) (kept, skipped []PlayerRecord) {
	for _, p := range players {
		if p.Sentiment != Neutral && !p.Known() {
			skipped = append(skipped, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, skipped
}
