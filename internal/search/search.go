// Package search walks candidate boards and keeps the ones consistent with
// every player's reported sentiment.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/rivers/internal/boards"
	"github.com/lox/rivers/internal/feedback"
)

const (
	DefaultChunkSize     = 4096
	DefaultProgressEvery = 50000
)

var (
	ErrCandidateEvaluation = errors.New("candidate evaluation failed")
	ErrDeadlineExceeded    = errors.New("search deadline exceeded")
)

// Options configures a search. The zero value examines every candidate on
// the calling goroutine with no deadline.
type Options struct {
	// Limit caps the number of candidates examined; 0 means all.
	Limit int
	// Workers > 1 spreads chunks over that many goroutines.
	Workers   int
	ChunkSize int
	// Deadline bounds the wall time of the search, measured with Clock.
	Deadline time.Duration
	Clock    quartz.Clock
	Logger   *log.Logger
	// Progress is called every ProgressEvery examined candidates. Calls are
	// serialised.
	Progress      func(Progress)
	ProgressEvery int
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ChunkSize < 1 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Clock == nil {
		o.Clock = quartz.NewReal()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.ProgressEvery < 1 {
		o.ProgressEvery = DefaultProgressEvery
	}
	return o
}

// Progress is a snapshot of a running search.
type Progress struct {
	Examined int
	Matched  int
	Failed   int
	Total    int
	Elapsed  time.Duration
}

// Match is a board that satisfied every non-neutral player.
type Match struct {
	Index  int
	Board  boards.Board
	Result feedback.ValidationResult
}

// Failure records a candidate that could not be evaluated.
type Failure struct {
	Index int
	Board boards.Board
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%v: candidate %d (%s): %v", ErrCandidateEvaluation, f.Index, f.Board, f.Err)
}

func (f Failure) Unwrap() []error {
	return []error{ErrCandidateEvaluation, f.Err}
}

// Result holds everything found before the search finished or stopped.
type Result struct {
	Matches  []Match
	Failures []Failure
	// Examined counts every candidate evaluated, including failures.
	Examined int
	// Frontier is the length of the index prefix that was fully examined.
	// It equals Examined unless a parallel search was interrupted.
	Frontier int
	Total    int
	// Skipped lists non-neutral players left out for unknown hole cards.
	Skipped []string
	Elapsed time.Duration
}

// Complete reports whether every candidate up to Total was examined.
func (r *Result) Complete() bool {
	return r.Frontier == r.Total
}

// Check validates a single board with the same player filtering as Run. A
// board reusing any player's known hole card fails with a
// *feedback.BoardCardError, including cards held by neutral or skipped
// players.
func Check(players []feedback.PlayerRecord, board boards.Board) (feedback.ValidationResult, error) {
	if err := feedback.CheckBoard(players, board); err != nil {
		return feedback.ValidationResult{}, err
	}
	kept, skipped := feedback.Filter(players)
	res, err := feedback.Validate(kept, board)
	if err != nil {
		return res, err
	}
	res.Skipped = playerIDs(skipped)
	return res, nil
}

// Run examines candidates from gen in index order and returns the valid
// boards, also in index order. It always returns a non-nil Result; when the
// context is cancelled or the deadline passes, the Result holds what was found
// so far and the error says why the search stopped.
func Run(ctx context.Context, players []feedback.PlayerRecord, gen *boards.Generator, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	kept, skipped := feedback.Filter(players)
	for _, p := range skipped {
		logger.Warn("Skipping player with unknown hole cards", "player", p.ID, "sentiment", p.Sentiment)
	}

	total := gen.Count()
	if opts.Limit > 0 && opts.Limit < total {
		total = opts.Limit
	}

	r := &runner{
		all:     players,
		players: kept,
		gen:     gen,
		opts:    opts,
		total:   total,
		start:   opts.Clock.Now(),
	}
	if opts.Deadline > 0 {
		r.deadline = r.start.Add(opts.Deadline)
	}

	logger.Info("Starting search",
		"candidates", total,
		"players", len(kept),
		"skipped", len(skipped),
		"workers", opts.Workers,
		"chunk_size", opts.ChunkSize)

	chunks := make([]chunk, (total+opts.ChunkSize-1)/opts.ChunkSize)
	for i := range chunks {
		chunks[i].start = i * opts.ChunkSize
		chunks[i].end = min(chunks[i].start+opts.ChunkSize, total)
	}

	var err error
	if opts.Workers == 1 || len(chunks) <= 1 {
		err = r.sequential(ctx, chunks)
	} else {
		err = r.parallel(ctx, chunks)
	}
	if ctx.Err() != nil {
		err = ctx.Err()
	}

	result := r.collect(chunks)
	result.Skipped = playerIDs(skipped)

	fields := []any{
		"examined", result.Examined,
		"matches", len(result.Matches),
		"failures", len(result.Failures),
		"elapsed", result.Elapsed,
	}
	if err != nil {
		logger.Warn("Search stopped early", append(fields, "frontier", result.Frontier, "error", err)...)
		return result, err
	}
	logger.Info("Search complete", fields...)
	return result, nil
}

type chunk struct {
	start, end int
	examined   int
	matches    []Match
	failures   []Failure
}

type runner struct {
	all      []feedback.PlayerRecord
	players  []feedback.PlayerRecord
	gen      *boards.Generator
	opts     Options
	total    int
	start    time.Time
	deadline time.Time

	mu       sync.Mutex
	examined int
	matched  int
	failed   int
}

func (r *runner) sequential(ctx context.Context, chunks []chunk) error {
	for i := range chunks {
		if err := r.process(ctx, &chunks[i]); err != nil {
			return err
		}
	}
	return nil
}

// parallel hands chunks to a fixed pool of workers in index order. Each
// chunk is written only by the worker that took it.
func (r *runner) parallel(ctx context.Context, chunks []chunk) error {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := range chunks {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := range r.opts.Workers {
		g.Go(func() error {
			for i := range jobs {
				if err := r.process(gctx, &chunks[i]); err != nil {
					return err
				}
				r.opts.Logger.Debug("Chunk complete", "worker", w, "start", chunks[i].start, "end", chunks[i].end)
			}
			return nil
		})
	}

	return g.Wait()
}

func (r *runner) process(ctx context.Context, c *chunk) error {
	for i, board := range r.gen.Range(c.start, c.end) {
		if err := r.stopped(ctx); err != nil {
			return err
		}

		res, err := r.validate(board)
		c.examined++
		switch {
		case err != nil:
			f := Failure{Index: i, Board: board, Err: err}
			c.failures = append(c.failures, f)
			r.opts.Logger.Debug("Candidate failed", "index", i, "board", board, "error", err)
		case res.Valid:
			c.matches = append(c.matches, Match{Index: i, Board: board, Result: res})
		}
		r.record(err == nil && res.Valid, err != nil)
	}
	return nil
}

func (r *runner) validate(board boards.Board) (feedback.ValidationResult, error) {
	if err := feedback.CheckBoard(r.all, board); err != nil {
		return feedback.ValidationResult{}, err
	}
	return feedback.Validate(r.players, board)
}

func (r *runner) stopped(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.deadline.IsZero() && !r.opts.Clock.Now().Before(r.deadline) {
		return ErrDeadlineExceeded
	}
	return nil
}

func (r *runner) record(matched, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.examined++
	if matched {
		r.matched++
	}
	if failed {
		r.failed++
	}
	if r.opts.Progress != nil && r.examined%r.opts.ProgressEvery == 0 {
		r.opts.Progress(Progress{
			Examined: r.examined,
			Matched:  r.matched,
			Failed:   r.failed,
			Total:    r.total,
			Elapsed:  r.opts.Clock.Since(r.start),
		})
	}
}

func (r *runner) collect(chunks []chunk) *Result {
	result := &Result{Total: r.total, Elapsed: r.opts.Clock.Since(r.start)}
	frontierOpen := true
	for _, c := range chunks {
		result.Examined += c.examined
		result.Matches = append(result.Matches, c.matches...)
		result.Failures = append(result.Failures, c.failures...)
		if frontierOpen {
			result.Frontier += c.examined
			frontierOpen = c.examined == c.end-c.start
		}
	}
	return result
}

func playerIDs(players []feedback.PlayerRecord) []string {
	var ids []string
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}
