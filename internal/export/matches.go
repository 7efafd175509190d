package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/lox/rivers/internal/search"
)

// MatchesHeader is the first row written by WriteMatches.
var MatchesHeader = []string{"Index", "Board", "Board Hand", "Texture", "Players"}

// WriteMatches writes one CSV row per matching board in index order. The
// players column lists id:category pairs separated by spaces.
func WriteMatches(w io.Writer, matches []search.Match) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(MatchesHeader); err != nil {
		return err
	}

	for _, m := range matches {
		baseline := ""
		players := make([]string, 0, len(m.Result.Matches))
		for _, v := range m.Result.Matches {
			baseline = v.Improvement.Baseline.String()
			players = append(players, v.Player+":"+strings.ReplaceAll(v.Improvement.Category.String(), " ", "_"))
		}
		row := []string{strconv.Itoa(m.Index), m.Board.String(), baseline, m.Board.Texture().Wetness.String(), strings.Join(players, " ")}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveMatches writes matches to filename atomically.
func SaveMatches(filename string, matches []search.Match) error {
	return WriteAtomic(filename, 0o644, func(w io.Writer) error {
		return WriteMatches(w, matches)
	})
}
