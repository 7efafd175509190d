// Package roster loads player sheets: a CSV with one row per player giving
// the player number, both hole cards and the reported sentiment.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/rivers/internal/feedback"
)

// Column headers, matched case-insensitively.
const (
	ColumnPlayer    = "player no"
	ColumnCard1     = "card 1"
	ColumnCard2     = "card 2"
	ColumnSentiment = "sentiment"
)

var ErrMissingColumn = errors.New("missing column")

// LoadFile reads a player sheet from path.
func LoadFile(path string) ([]feedback.PlayerRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open player sheet: %w", err)
	}
	defer f.Close()

	players, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return players, nil
}

// Load parses a player sheet. The sentiment column is optional; without it
// every player is neutral. Blank rows are ignored.
func Load(r io.Reader) ([]feedback.PlayerRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty sheet", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{ColumnPlayer, ColumnCard1, ColumnCard2} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, required)
		}
	}
	sentimentCol, hasSentiment := cols[ColumnSentiment]

	field := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var players []feedback.PlayerRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(row) {
			continue
		}

		sentiment := feedback.Neutral
		if hasSentiment {
			sentiment, err = feedback.ParseSentiment(field(row, sentimentCol))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}

		id := field(row, cols[ColumnPlayer])
		if id == "" {
			return nil, fmt.Errorf("line %d: empty player number", line)
		}
		p, err := feedback.NewPlayer(id, field(row, cols[ColumnCard1]), field(row, cols[ColumnCard2]), sentiment)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		players = append(players, p)
	}
	return players, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
