package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lox/rivers/internal/boards"
	"github.com/lox/rivers/internal/export"
	"github.com/lox/rivers/internal/feedback"
	"github.com/lox/rivers/internal/report"
	"github.com/lox/rivers/internal/search"
	"github.com/lox/rivers/poker"
)

// TableCmd prints the exclusion table.
type TableCmd struct{}

func (cmd *TableCmd) Run(g *Globals) error {
	_, players, err := g.query()
	if err != nil {
		return err
	}
	table, err := feedback.Resolve(players)
	if err != nil {
		return err
	}

	r := report.New(g.out())
	r.Players(players)
	fmt.Fprintln(g.out())
	r.Exclusion(table)
	return nil
}

// SearchCmd runs the board search.
type SearchCmd struct {
	Limit     int           `short:"n" help:"Maximum number of candidates to examine (overrides config)"`
	Workers   int           `short:"w" help:"Number of worker goroutines (overrides config)"`
	ChunkSize int           `help:"Candidates per work unit (overrides config)"`
	Deadline  time.Duration `short:"d" help:"Stop after this long, e.g. 30s (overrides config)"`
	Show      int           `short:"s" default:"-1" help:"Number of matching boards to print (overrides config)"`
	Output    string        `short:"o" type:"path" help:"Also write every matching board to this CSV file"`
}

func (cmd *SearchCmd) Run(g *Globals) error {
	settings, players, err := g.query()
	if err != nil {
		return err
	}
	logger, err := g.logger(settings.LogLevel)
	if err != nil {
		return err
	}

	if cmd.Limit > 0 {
		settings.Limit = cmd.Limit
	}
	if cmd.Workers > 0 {
		settings.Workers = cmd.Workers
	}
	if cmd.ChunkSize > 0 {
		settings.ChunkSize = cmd.ChunkSize
	}
	if cmd.Show >= 0 {
		settings.Show = cmd.Show
	}
	opts, err := settings.Options()
	if err != nil {
		return err
	}
	if cmd.Deadline > 0 {
		opts.Deadline = cmd.Deadline
	}

	table, err := feedback.Resolve(players)
	if err != nil {
		return err
	}
	gen, err := table.Generator()
	if err != nil {
		return err
	}

	opts.Logger = logger
	opts.Progress = func(p search.Progress) {
		logger.Info("Progress",
			"examined", p.Examined,
			"total", p.Total,
			"matched", p.Matched,
			"failed", p.Failed,
			"elapsed", p.Elapsed.Truncate(time.Millisecond))
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	result, runErr := search.Run(ctx, players, gen, opts)

	r := report.New(g.out())
	r.Search(result, settings.Show)
	if len(result.Failures) > 0 {
		fmt.Fprintln(g.out())
		r.Failures(result.Failures, settings.Show)
	}

	if cmd.Output != "" {
		if err := export.SaveMatches(cmd.Output, result.Matches); err != nil {
			return err
		}
		logger.Info("Wrote matches", "path", cmd.Output, "count", len(result.Matches))
	}

	// An interrupted search still reports what it found.
	if runErr != nil && !errors.Is(runErr, search.ErrDeadlineExceeded) {
		return runErr
	}
	return nil
}

// CheckCmd validates one board.
type CheckCmd struct {
	Board []string `arg:"" help:"Board cards, e.g. 'Ad 7c 7d 2s 9h' or Ad7c7d2s9h"`
}

func (cmd *CheckCmd) Run(g *Globals) error {
	_, players, err := g.query()
	if err != nil {
		return err
	}
	if _, err := feedback.Resolve(players); err != nil {
		return err
	}

	board, err := boards.ParseBoard(strings.Join(cmd.Board, " "))
	if err != nil {
		return err
	}

	res, err := search.Check(players, board)
	if err != nil {
		return err
	}
	report.New(g.out()).Validation(res)
	return nil
}

// RankCmd ranks hands given on the command line or dealt at random.
type RankCmd struct {
	Cards  []string `arg:"" optional:"" help:"Hand of 5 to 7 cards, e.g. 'As Ks Qs Js Ts'"`
	Random int      `help:"Deal this many random 7-card hands instead"`
	Seed   int64    `help:"Random seed for --random (0 uses the current time)"`
}

func (cmd *RankCmd) Run(g *Globals) error {
	r := report.New(g.out())

	if cmd.Random > 0 {
		seed := cmd.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		deck := poker.NewDeck(poker.NewRand(seed))
		for range cmd.Random {
			deck.Shuffle()
			cards := deck.Deal(poker.MaxHandSize)
			rank, err := poker.Evaluate(cards)
			if err != nil {
				return err
			}
			r.Rank(cards, rank)
		}
		return nil
	}

	if len(cmd.Cards) == 0 {
		return errors.New("give a hand to rank or use --random")
	}
	cards, err := poker.ParseCards(strings.Join(cmd.Cards, " "))
	if err != nil {
		return err
	}
	rank, err := poker.Evaluate(cards)
	if err != nil {
		return err
	}
	r.Rank(cards, rank)
	return nil
}
