// Package report renders exclusion tables, search results and single-board
// checks for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/rivers/internal/boards"
	"github.com/lox/rivers/internal/feedback"
	"github.com/lox/rivers/internal/search"
	"github.com/lox/rivers/poker"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	cardStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	conflictStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	neutralStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

// Reporter writes reports to an output stream.
type Reporter struct {
	w io.Writer
}

// New creates a reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) tab() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
}

// Exclusion prints the card accounting for a set of players.
func (r *Reporter) Exclusion(table *feedback.Table) {
	fmt.Fprintf(r.w, "%s\n", headerStyle.Render("known cards"))
	fmt.Fprintf(r.w, "%s\n\n", cardStyle.Render(orDash(table.Known.String())))

	fmt.Fprintf(r.w, "%s\n", headerStyle.Render("unknown slots"))
	if len(table.Unknown) == 0 {
		fmt.Fprintf(r.w, "-\n\n")
	} else {
		for _, slot := range table.Unknown {
			fmt.Fprintf(r.w, "%s\n", slot)
		}
		fmt.Fprintln(r.w)
	}

	fmt.Fprintf(r.w, "%s (%d)\n", headerStyle.Render("remaining deck"), len(table.Remaining))
	fmt.Fprintf(r.w, "%s\n\n", orDash(poker.FormatCards(table.Remaining)))
	fmt.Fprintf(r.w, "%d candidate boards\n", table.Candidates)
}

// Players prints one row per player with a preflop bucket for known hands.
func (r *Reporter) Players(players []feedback.PlayerRecord) {
	w := r.tab()
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("player"),
		headerStyle.Render("hole"),
		headerStyle.Render("preflop"),
		headerStyle.Render("sentiment"))

	for _, p := range players {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.ID,
			cardStyle.Render(fmt.Sprintf("%s %s", p.Hole[0], p.Hole[1])),
			categoryStyle.Render(string(poker.CategorizeHoleCards(p.Hole))),
			sentimentStyle(p.Sentiment).Render(p.Sentiment.String()))
	}
	w.Flush()
}

// Search prints a summary of a search followed by up to show matching boards.
func (r *Reporter) Search(result *search.Result, show int) {
	fmt.Fprintf(r.w, "%s\n", headerStyle.Render("search"))
	w := r.tab()
	fmt.Fprintf(w, "examined\t%d of %d\n", result.Examined, result.Total)
	if result.Frontier != result.Examined {
		fmt.Fprintf(w, "complete prefix\t%d\n", result.Frontier)
	}
	fmt.Fprintf(w, "matches\t%s\n", matchStyle.Render(fmt.Sprint(len(result.Matches))))
	if len(result.Matches) > 0 {
		fmt.Fprintf(w, "textures\t%s\n", wetnessSummary(result.Matches))
	}
	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "failures\t%s\n", conflictStyle.Render(fmt.Sprint(len(result.Failures))))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "skipped players\t%s\n", strings.Join(result.Skipped, ", "))
	}
	fmt.Fprintf(w, "elapsed\t%v\n", result.Elapsed.Truncate(time.Millisecond))
	w.Flush()

	if len(result.Matches) == 0 || show == 0 {
		return
	}

	fmt.Fprintln(r.w)
	w = r.tab()
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("#"),
		headerStyle.Render("board"),
		headerStyle.Render("board hand"),
		headerStyle.Render("texture"),
		headerStyle.Render("players"))
	for i, m := range result.Matches {
		if i == show {
			break
		}
		var verdicts []string
		for _, v := range m.Result.Matches {
			verdicts = append(verdicts, fmt.Sprintf("%s:%s%s", v.Player, v.Improvement.Category, deltaSuffix(v.Improvement)))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			m.Index,
			cardStyle.Render(m.Board.String()),
			categoryStyle.Render(baselineCategory(m.Result)),
			m.Board.Texture().Wetness,
			strings.Join(verdicts, "  "))
	}
	w.Flush()

	if len(result.Matches) > show {
		fmt.Fprintf(r.w, "... %d more\n", len(result.Matches)-show)
	}
}

// Failures prints up to show candidate failures.
func (r *Reporter) Failures(failures []search.Failure, show int) {
	for i, f := range failures {
		if i == show {
			fmt.Fprintf(r.w, "... %d more failures\n", len(failures)-show)
			return
		}
		fmt.Fprintf(r.w, "%s %d %s: %v\n", conflictStyle.Render("failed"), f.Index, f.Board, f.Err)
	}
}

// Validation prints the per-player breakdown of one board.
func (r *Reporter) Validation(res feedback.ValidationResult) {
	verdict := matchStyle.Render("consistent")
	if !res.Valid {
		verdict = conflictStyle.Render("inconsistent")
	}
	fmt.Fprintf(r.w, "%s %s: %s\n\n", headerStyle.Render("board"), cardStyle.Render(res.Board.String()), verdict)

	w := r.tab()
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("player"),
		headerStyle.Render("sentiment"),
		headerStyle.Render("hand"),
		headerStyle.Render("delta"),
		headerStyle.Render("result"))
	for _, v := range res.Matches {
		r.verdictRow(w, v, matchStyle.Render("match"))
	}
	for _, v := range res.Conflicts {
		r.verdictRow(w, v, conflictStyle.Render("conflict"))
	}
	w.Flush()

	if res.Neutral > 0 {
		fmt.Fprintf(r.w, "%s\n", neutralStyle.Render(fmt.Sprintf("%d neutral", res.Neutral)))
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(r.w, "skipped (unknown cards): %s\n", strings.Join(res.Skipped, ", "))
	}
}

func (r *Reporter) verdictRow(w io.Writer, v feedback.Verdict, outcome string) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%+d\t%s\n",
		v.Player,
		sentimentStyle(v.Sentiment).Render(v.Sentiment.String()),
		categoryStyle.Render(v.Improvement.Category.String()),
		v.Improvement.Delta,
		outcome)
}

// Rank prints the strength of one hand.
func (r *Reporter) Rank(cards []poker.Card, rank poker.HandRank) {
	fmt.Fprintf(r.w, "%s\t%s (%d)\n",
		cardStyle.Render(poker.FormatCards(cards)),
		categoryStyle.Render(rank.String()),
		rank)
}

func sentimentStyle(s feedback.Sentiment) lipgloss.Style {
	switch s {
	case feedback.Improved:
		return matchStyle
	case feedback.NotImproved:
		return conflictStyle
	default:
		return neutralStyle
	}
}

func baselineCategory(res feedback.ValidationResult) string {
	if len(res.Matches) > 0 {
		return res.Matches[0].Improvement.Baseline.String()
	}
	rank, err := poker.Evaluate(res.Board[:])
	if err != nil {
		return "-"
	}
	return rank.String()
}

// wetnessSummary counts matching boards per texture grade, omitting empty
// grades.
func wetnessSummary(matches []search.Match) string {
	var counts [len(boards.Wetnesses)]int
	for _, m := range matches {
		counts[m.Board.Texture().Wetness]++
	}
	var parts []string
	for _, wet := range boards.Wetnesses {
		if counts[wet] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", wet, counts[wet]))
		}
	}
	return strings.Join(parts, ", ")
}

func deltaSuffix(imp feedback.Improvement) string {
	if imp.Improved() {
		return "+"
	}
	return ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
