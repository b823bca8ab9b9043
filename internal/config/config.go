// Package config loads solver and session settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"

	"github.com/lox/pileclear/internal/advisor"
	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/randutil"
)

// Config is the complete configuration.
type Config struct {
	LogLevel string
	Solver   Solver
	Session  Session
}

// Solver configures the move advisor.
type Solver struct {
	Trials        int    `hcl:"trials,optional"`
	NodesPerTrial int    `hcl:"nodes_per_trial,optional"`
	ExactNodes    int    `hcl:"exact_nodes,optional"` // 0 = unbounded
	TraceEvery    int    `hcl:"trace_every,optional"` // 0 = off
	RNG           string `hcl:"rng,optional"`
}

// Session configures a run of self-play games.
type Session struct {
	Games    int    `hcl:"games,optional"`
	Seed     int64  `hcl:"seed,optional"` // 0 = seed from the clock
	Parallel int    `hcl:"parallel,optional"`
	HandSize int    `hcl:"hand_size,optional"`
	MaxTurns int    `hcl:"max_turns,optional"`
	Verify   bool   `hcl:"verify,optional"`
	History  string `hcl:"history,optional"`
}

// file mirrors the HCL layout; both blocks are optional.
type file struct {
	LogLevel string   `hcl:"log_level,optional"`
	Solver   *Solver  `hcl:"solver,block"`
	Session  *Session `hcl:"session,block"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Solver: Solver{
			Trials:        5000,
			NodesPerTrial: 250,
			RNG:           string(randutil.PCG),
		},
		Session: Session{
			Games:    10,
			Parallel: 1,
			HandSize: 5,
			MaxTurns: 200,
		},
	}
}

// Load reads the configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. Unset values take their defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", formatDiags(diags))
	}

	cfg := Default()
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.Solver != nil {
		cfg.Solver.merge(*raw.Solver)
	}
	if raw.Session != nil {
		cfg.Session.merge(*raw.Session)
	}
	return cfg, nil
}

func formatDiags(diags hcl.Diagnostics) string {
	if len(diags) == 1 {
		return diags[0].Error()
	}
	return diags.Error()
}

func (s *Solver) merge(o Solver) {
	if o.Trials != 0 {
		s.Trials = o.Trials
	}
	if o.NodesPerTrial != 0 {
		s.NodesPerTrial = o.NodesPerTrial
	}
	s.ExactNodes = o.ExactNodes
	s.TraceEvery = o.TraceEvery
	if o.RNG != "" {
		s.RNG = o.RNG
	}
}

func (s *Session) merge(o Session) {
	if o.Games != 0 {
		s.Games = o.Games
	}
	s.Seed = o.Seed
	if o.Parallel != 0 {
		s.Parallel = o.Parallel
	}
	if o.HandSize != 0 {
		s.HandSize = o.HandSize
	}
	if o.MaxTurns != 0 {
		s.MaxTurns = o.MaxTurns
	}
	s.Verify = o.Verify
	s.History = o.History
}

// Validate checks the configuration for values the solver cannot use.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	s := c.Solver
	if s.Trials <= 0 {
		return fmt.Errorf("solver: trials must be positive, got %d", s.Trials)
	}
	if s.NodesPerTrial <= 0 {
		return fmt.Errorf("solver: nodes_per_trial must be positive, got %d", s.NodesPerTrial)
	}
	if s.ExactNodes < 0 {
		return fmt.Errorf("solver: exact_nodes must not be negative, got %d", s.ExactNodes)
	}
	if s.TraceEvery < 0 {
		return fmt.Errorf("solver: trace_every must not be negative, got %d", s.TraceEvery)
	}
	if _, err := randutil.ParseKind(s.RNG); err != nil {
		return fmt.Errorf("solver: %w", err)
	}

	g := c.Session
	if g.Games <= 0 {
		return fmt.Errorf("session: games must be positive, got %d", g.Games)
	}
	if g.Parallel <= 0 {
		return fmt.Errorf("session: parallel must be positive, got %d", g.Parallel)
	}
	if g.HandSize <= 0 || 2*g.HandSize > cards.DeckSize {
		return fmt.Errorf("session: hand_size must be between 1 and %d, got %d", cards.DeckSize/2, g.HandSize)
	}
	if g.MaxTurns <= 0 {
		return fmt.Errorf("session: max_turns must be positive, got %d", g.MaxTurns)
	}
	return nil
}

// AdvisorOptions converts the solver settings for the advisor.
func (s Solver) AdvisorOptions(seed int64, logger zerolog.Logger) advisor.Options {
	kind, _ := randutil.ParseKind(s.RNG)
	return advisor.Options{
		Trials:        s.Trials,
		NodesPerTrial: uint64(s.NodesPerTrial),
		ExactNodes:    uint64(s.ExactNodes),
		TraceEvery:    uint64(s.TraceEvery),
		Seed:          seed,
		RNG:           kind,
		Logger:        logger,
	}
}
