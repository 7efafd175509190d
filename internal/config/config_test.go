package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/rivers/internal/feedback"
	"github.com/lox/rivers/internal/search"
)

const query = `
search {
  limit     = 50000
  workers   = 4
  deadline  = "30s"
  log_level = "debug"
}

player "1" {
  cards     = ["As", "Ah"]
  sentiment = "improved"
}

player "2" {
  cards     = ["Ks", "Kh"]
  sentiment = "not improved"
}

player "3" {
  cards = ["??", "??"]
}
`

func TestParse(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(query), "query.hcl")
	require.NoError(t, err)

	assert.Equal(t, 50000, cfg.Search.Limit)
	assert.Equal(t, 4, cfg.Search.Workers)
	assert.Equal(t, search.DefaultChunkSize, cfg.Search.ChunkSize)
	assert.Equal(t, "debug", cfg.Search.LogLevel)
	assert.Equal(t, 20, cfg.Search.Show)

	opts, err := cfg.Search.Options()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Deadline)
	assert.Equal(t, 50000, opts.Limit)
	assert.Equal(t, 4, opts.Workers)

	players, err := cfg.Records()
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "1", players[0].ID)
	assert.Equal(t, feedback.Improved, players[0].Sentiment)
	assert.Equal(t, feedback.NotImproved, players[1].Sentiment)
	assert.Equal(t, feedback.Neutral, players[2].Sentiment)
	assert.False(t, players[2].Known())
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(`player "a" { cards = ["2c", "2d"] }`), "min.hcl")
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchSettings(), cfg.Search)
	assert.Len(t, cfg.Players, 1)
}

func TestParseShowZero(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(`
search {
  show = 0
}
player "a" { cards = ["2c", "2d"] }
`), "quiet.hcl")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Search.Show)

	cfg, err = Parse([]byte(`
search {
  limit = 10
}
player "a" { cards = ["2c", "2d"] }
`), "default.hcl")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Search.Show)
}

func TestOptionsRejectsInvalidDeadline(t *testing.T) {
	t.Parallel()
	s := DefaultSearchSettings()
	s.Deadline = "soon"
	_, err := s.Options()
	assert.ErrorContains(t, err, `invalid deadline "soon"`)

	s.Deadline = "2m"
	opts, err := s.Options()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, opts.Deadline)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `search {`, "failed to parse HCL"},
		{"unknown attribute", `search { colour = "red" }`, "failed to decode HCL"},
		{"bad deadline", `search { deadline = "soon" }`, "invalid deadline"},
		{"bad workers", `search { workers = -2 }`, "invalid workers"},
		{"bad log level", `search { log_level = "loud" }`, "invalid log_level"},
		{"three cards", `player "1" { cards = ["As", "Ah", "Ad"] }`, "expected 2 cards"},
		{"duplicate id", "player \"1\" { cards = [\"As\", \"Ah\"] }\nplayer \"1\" { cards = [\"Ks\", \"Kh\"] }", "more than once"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.src), "bad.hcl")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRecordsErrors(t *testing.T) {
	t.Parallel()
	cfg, err := Parse([]byte(`player "1" {
  cards     = ["As", "Ah"]
  sentiment = "ecstatic"
}`), "q.hcl")
	require.NoError(t, err)
	_, err = cfg.Records()
	assert.ErrorIs(t, err, feedback.ErrInvalidSentiment)

	cfg, err = Parse([]byte(`player "1" { cards = ["As", "Xx"] }`), "q.hcl")
	require.NoError(t, err)
	_, err = cfg.Records()
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "query.hcl")
	require.NoError(t, os.WriteFile(path, []byte(query), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Players, 3)

	_, err = Load(filepath.Join(t.TempDir(), "nope.hcl"))
	assert.Error(t, err)
}
