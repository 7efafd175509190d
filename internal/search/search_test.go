package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rivers/internal/boards"
	"github.com/lox/rivers/internal/feedback"
	"github.com/lox/rivers/poker"
)

func testPlayers(t *testing.T) []feedback.PlayerRecord {
	t.Helper()
	var players []feedback.PlayerRecord
	for _, row := range []struct {
		id, c1, c2 string
		s          feedback.Sentiment
	}{
		{"1", "As", "Ah", feedback.Improved},
		{"2", "2h", "3h", feedback.NotImproved},
		{"3", "??", "??", feedback.Neutral},
		{"4", "??", "Qs", feedback.Improved},
	} {
		p, err := feedback.NewPlayer(row.id, row.c1, row.c2, row.s)
		require.NoError(t, err)
		players = append(players, p)
	}
	return players
}

func testGenerator(t *testing.T, cards string) *boards.Generator {
	t.Helper()
	gen, err := boards.New(poker.MustParseCards(cards))
	require.NoError(t, err)
	return gen
}

const pool14 = "2c 3d 4h 5s 6c 7d 8h 9s Tc Jd Qh Kd Ac Ad"

// expectedMatches validates every board directly.
func expectedMatches(t *testing.T, players []feedback.PlayerRecord, gen *boards.Generator) []int {
	t.Helper()
	kept, _ := feedback.Filter(players)
	var idx []int
	for i, b := range gen.All() {
		res, err := feedback.Validate(kept, b)
		require.NoError(t, err)
		if res.Valid {
			idx = append(idx, i)
		}
	}
	return idx
}

func matchIndices(r *Result) []int {
	var idx []int
	for _, m := range r.Matches {
		idx = append(idx, m.Index)
	}
	return idx
}

func prefix(idx []int, n int) []int {
	var out []int
	for _, i := range idx {
		if i < n {
			out = append(out, i)
		}
	}
	return out
}

func TestRunFindsEveryConsistentBoard(t *testing.T) {
	t.Parallel()
	players := testPlayers(t)
	gen := testGenerator(t, pool14)
	want := expectedMatches(t, players, gen)
	require.NotEmpty(t, want)

	result, err := Run(context.Background(), players, gen, Options{})
	require.NoError(t, err)

	assert.Equal(t, want, matchIndices(result))
	assert.Equal(t, gen.Count(), result.Examined)
	assert.Equal(t, gen.Count(), result.Total)
	assert.True(t, result.Complete())
	assert.Empty(t, result.Failures)
	assert.Equal(t, []string{"4"}, result.Skipped)

	for _, m := range result.Matches {
		at, err := gen.At(m.Index)
		require.NoError(t, err)
		assert.Equal(t, at, m.Board)
		assert.True(t, m.Result.Valid)
		assert.Equal(t, 1, m.Result.Neutral)
	}
}

func TestRunKnownBoardIsAMatch(t *testing.T) {
	t.Parallel()
	gen := testGenerator(t, pool14)
	result, err := Run(context.Background(), testPlayers(t), gen, Options{})
	require.NoError(t, err)

	// Aces make the ace-high straight; the deuce and trey add nothing to a king-high straight.
	var found bool
	for _, m := range result.Matches {
		if m.Board.String() == "9s Tc Jd Qh Kd" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRunParallelMatchesSequential(t *testing.T) {
	t.Parallel()
	players := testPlayers(t)
	gen := testGenerator(t, pool14)

	sequential, err := Run(context.Background(), players, gen, Options{})
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 7} {
		parallel, err := Run(context.Background(), players, gen, Options{Workers: workers, ChunkSize: 37})
		require.NoError(t, err)
		assert.Equal(t, sequential.Matches, parallel.Matches, "workers=%d", workers)
		assert.Equal(t, sequential.Examined, parallel.Examined)
		assert.Equal(t, parallel.Total, parallel.Frontier)
	}
}

func TestRunLimit(t *testing.T) {
	t.Parallel()
	players := testPlayers(t)
	gen := testGenerator(t, pool14)
	want := expectedMatches(t, players, gen)

	result, err := Run(context.Background(), players, gen, Options{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 500, result.Examined)
	assert.Equal(t, 500, result.Total)
	assert.Equal(t, prefix(want, 500), matchIndices(result))

	// A limit beyond the space is the whole space.
	result, err = Run(context.Background(), players, gen, Options{Limit: 1 << 30})
	require.NoError(t, err)
	assert.Equal(t, gen.Count(), result.Examined)
}

func TestRunCancellationKeepsPrefix(t *testing.T) {
	t.Parallel()
	players := testPlayers(t)
	gen := testGenerator(t, pool14)

	limited, err := Run(context.Background(), players, gen, Options{Limit: 300})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := Run(ctx, players, gen, Options{
		ProgressEvery: 100,
		Progress: func(p Progress) {
			if p.Examined == 300 {
				cancel()
			}
		},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Equal(t, 300, result.Examined)
	assert.Equal(t, 300, result.Frontier)
	assert.False(t, result.Complete())
	assert.Equal(t, limited.Matches, result.Matches)
}

func TestRunParallelCancellation(t *testing.T) {
	t.Parallel()
	players := testPlayers(t)
	gen := testGenerator(t, pool14)
	want := expectedMatches(t, players, gen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := Run(ctx, players, gen, Options{
		Workers:       4,
		ChunkSize:     50,
		ProgressEvery: 10,
		Progress: func(p Progress) {
			if p.Examined >= 400 {
				cancel()
			}
		},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, result.Frontier, result.Examined)
	assert.Less(t, result.Examined, gen.Count())

	// Everything in the fully examined prefix was found, and nothing found
	// is outside the valid set.
	got := matchIndices(result)
	assert.Subset(t, want, got)
	assert.Subset(t, got, prefix(want, result.Frontier))
}

func TestRunDeadlineWithMockClock(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mockClock := quartz.NewMock(t)
	players := testPlayers(t)
	gen := testGenerator(t, pool14)

	result, err := Run(ctx, players, gen, Options{
		Deadline:      10 * time.Second,
		Clock:         mockClock,
		ProgressEvery: 100,
		Progress: func(Progress) {
			mockClock.Advance(time.Second).MustWait(ctx)
		},
	})
	require.ErrorIs(t, err, ErrDeadlineExceeded)
	assert.Equal(t, 1000, result.Examined)
	assert.Equal(t, 1000, result.Frontier)
	assert.Equal(t, 10*time.Second, result.Elapsed)
}

func TestRunIsolatesCandidateFailures(t *testing.T) {
	t.Parallel()
	players := testPlayers(t)
	// The pool contains the ace of spades, which player 1 holds.
	gen := testGenerator(t, "As 2c 4h 6c 8h Tc Qh Kd 9s 3d")

	result, err := Run(context.Background(), players, gen, Options{})
	require.NoError(t, err)
	assert.Equal(t, gen.Count(), result.Examined)
	assert.Len(t, result.Failures, boards.Combinations(9, 4))

	ace := poker.MustParseCards("As")[0]
	for _, f := range result.Failures {
		assert.True(t, f.Board.Hand().HasCard(ace))
		assert.ErrorIs(t, f, ErrCandidateEvaluation)
		assert.ErrorIs(t, f, poker.ErrDuplicateCard)
		assert.True(t, errors.Is(f.Err, poker.ErrDuplicateCard))
	}
	for _, m := range result.Matches {
		assert.False(t, m.Board.Hand().HasCard(ace))
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()
	board, err := boards.ParseBoard("Ad 7c 7d 2s 9h")
	require.NoError(t, err)

	res, err := Check(testPlayers(t), board)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"4"}, res.Skipped)
	assert.Equal(t, 1, res.Neutral)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, "2", res.Conflicts[0].Player)
}

func TestCheckRejectsBoardReusingHeldCards(t *testing.T) {
	t.Parallel()
	players := []feedback.PlayerRecord{}
	for _, row := range []struct {
		id, c1, c2 string
		s          feedback.Sentiment
	}{
		{"1", "As", "Ah", feedback.Improved},
		{"3", "Qd", "Qc", feedback.Neutral},
		{"4", "??", "Ks", feedback.Improved},
	} {
		p, err := feedback.NewPlayer(row.id, row.c1, row.c2, row.s)
		require.NoError(t, err)
		players = append(players, p)
	}

	tests := []struct {
		name   string
		board  string
		holder string
	}{
		{"neutral holder", "Qd 7c 7d 2s 9h", "player 3 card 1"},
		{"skipped holder", "Ks 7c 7d 2s 9h", "player 4 card 2"},
		{"active holder", "Ah 7c 7d 2s 9h", "player 1 card 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			board, err := boards.ParseBoard(tt.board)
			require.NoError(t, err)

			_, err = Check(players, board)
			var onBoard *feedback.BoardCardError
			require.ErrorAs(t, err, &onBoard)
			assert.ErrorIs(t, err, poker.ErrDuplicateCard)
			assert.Equal(t, tt.holder, onBoard.Holder.String())
		})
	}
}

func TestRunFailsCandidatesReusingNeutralCards(t *testing.T) {
	t.Parallel()
	players := testPlayers(t)
	neutral, err := feedback.NewPlayer("5", "Qh", "Jd", feedback.Neutral)
	require.NoError(t, err)
	players = append(players, neutral)
	gen := testGenerator(t, pool14)

	result, err := Run(context.Background(), players, gen, Options{})
	require.NoError(t, err)
	assert.Equal(t, gen.Count(), result.Examined)

	held := poker.NewHand(neutral.Hole[:]...)
	// Boards holding neither Qh nor Jd: C(12, 5).
	assert.Len(t, result.Failures, gen.Count()-boards.Combinations(12, 5))
	for _, f := range result.Failures {
		assert.True(t, f.Board.Hand().Overlaps(held))
		var onBoard *feedback.BoardCardError
		assert.ErrorAs(t, f, &onBoard)
	}
	for _, m := range result.Matches {
		assert.False(t, m.Board.Hand().Overlaps(held))
	}
}
