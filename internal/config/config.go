// Package config loads query files written in HCL: a search block holding
// the driver settings and one player block per player.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/rivers/internal/feedback"
	"github.com/lox/rivers/internal/search"
)

// QueryConfig represents a complete query file with defaults applied
type QueryConfig struct {
	Search  SearchSettings
	Players []PlayerConfig
}

// SearchSettings contains the search driver settings
type SearchSettings struct {
	Limit     int
	Workers   int
	ChunkSize int
	Deadline  string
	LogLevel  string
	Show      int
}

// searchBlock is the search block as written. Show is a pointer so that
// show = 0 can turn the listing off.
type searchBlock struct {
	Limit     int    `hcl:"limit,optional"`
	Workers   int    `hcl:"workers,optional"`
	ChunkSize int    `hcl:"chunk_size,optional"`
	Deadline  string `hcl:"deadline,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	Show      *int   `hcl:"show,optional"`
}

// PlayerConfig defines one player. Cards holds both hole cards, "??" for
// unknown.
type PlayerConfig struct {
	ID        string   `hcl:"id,label"`
	Cards     []string `hcl:"cards"`
	Sentiment string   `hcl:"sentiment,optional"`
}

type fileConfig struct {
	Search  *searchBlock   `hcl:"search,block"`
	Players []PlayerConfig `hcl:"player,block"`
}

// DefaultSearchSettings returns the settings used when a file leaves them out.
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{
		Workers:   1,
		ChunkSize: search.DefaultChunkSize,
		LogLevel:  "info",
		Show:      20,
	}
}

// Load reads and validates a query file.
func Load(filename string) (*QueryConfig, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*QueryConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := &QueryConfig{
		Search:  DefaultSearchSettings(),
		Players: raw.Players,
	}
	if s := raw.Search; s != nil {
		config.Search.Limit = s.Limit
		if s.Workers != 0 {
			config.Search.Workers = s.Workers
		}
		if s.ChunkSize != 0 {
			config.Search.ChunkSize = s.ChunkSize
		}
		if s.LogLevel != "" {
			config.Search.LogLevel = s.LogLevel
		}
		if s.Show != nil {
			config.Search.Show = *s.Show
		}
		config.Search.Deadline = s.Deadline
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the query configuration
func (c *QueryConfig) Validate() error {
	s := c.Search
	if s.Limit < 0 {
		return fmt.Errorf("invalid limit: %d", s.Limit)
	}
	if s.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", s.Workers)
	}
	if s.ChunkSize < 1 {
		return fmt.Errorf("invalid chunk_size: %d", s.ChunkSize)
	}
	if s.Show < 0 {
		return fmt.Errorf("invalid show: %d", s.Show)
	}
	if _, err := s.DeadlineDuration(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}

	seen := make(map[string]bool)
	for _, p := range c.Players {
		if seen[p.ID] {
			return fmt.Errorf("player %q defined more than once", p.ID)
		}
		seen[p.ID] = true
		if len(p.Cards) != 2 {
			return fmt.Errorf("player %q: expected 2 cards, got %d", p.ID, len(p.Cards))
		}
	}
	return nil
}

// DeadlineDuration parses the deadline; an empty value means none.
func (s SearchSettings) DeadlineDuration() (time.Duration, error) {
	if s.Deadline == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Deadline)
	if err != nil {
		return 0, fmt.Errorf("invalid deadline %q: %w", s.Deadline, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid deadline %q: must not be negative", s.Deadline)
	}
	return d, nil
}

// Options converts the settings into search options.
func (s SearchSettings) Options() (search.Options, error) {
	deadline, err := s.DeadlineDuration()
	if err != nil {
		return search.Options{}, err
	}
	return search.Options{
		Limit:     s.Limit,
		Workers:   s.Workers,
		ChunkSize: s.ChunkSize,
		Deadline:  deadline,
	}, nil
}

// Records converts the player blocks into player records in file order.
func (c *QueryConfig) Records() ([]feedback.PlayerRecord, error) {
	players := make([]feedback.PlayerRecord, 0, len(c.Players))
	for _, p := range c.Players {
		sentiment, err := feedback.ParseSentiment(p.Sentiment)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", p.ID, err)
		}
		record, err := feedback.NewPlayer(p.ID, p.Cards[0], p.Cards[1], sentiment)
		if err != nil {
			return nil, err
		}
		players = append(players, record)
	}
	return players, nil
}
