package main

import (
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/pileclear/cmd/pileclear/shared"
	"github.com/lox/pileclear/internal/display"
	"github.com/lox/pileclear/internal/session"
)

// PlayCmd runs self-play games. Flags override the configuration file.
type PlayCmd struct {
	Games    *int   `help:"Number of games to play"`
	Seed     *int64 `help:"Seed of the first deal; 0 uses the clock"`
	Parallel *int   `help:"Games played concurrently"`
	Trials   *int   `help:"Determinization trials per move"`
	Nodes    *int   `help:"Search node budget per trial"`
	RNG      string `help:"Random generator (pcg|xoshiro)"`
	Verify   bool   `help:"Check state invariants after every move"`
	History  string `help:"Append game transcripts to this TOML file" type:"path"`
	Quiet    bool   `short:"q" help:"Only print the summary"`
	Line     bool   `help:"Print the winning line behind each recommendation"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}

	if c.Games != nil {
		cfg.Session.Games = *c.Games
	}
	if c.Seed != nil {
		cfg.Session.Seed = *c.Seed
	}
	if c.Parallel != nil {
		cfg.Session.Parallel = *c.Parallel
	}
	if c.Trials != nil {
		cfg.Solver.Trials = *c.Trials
	}
	if c.Nodes != nil {
		cfg.Solver.NodesPerTrial = *c.Nodes
	}
	if c.RNG != "" {
		cfg.Solver.RNG = c.RNG
	}
	if c.Verify {
		cfg.Session.Verify = true
	}
	if c.History != "" {
		cfg.Session.History = c.History
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seed := cfg.Session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info().Int64("seed", seed).Msg("Using random seed")
	}

	out := display.New(os.Stdout, !g.NoColor)
	runCfg := session.Config{
		Games:    cfg.Session.Games,
		Seed:     seed,
		Parallel: cfg.Session.Parallel,
		HandSize: cfg.Session.HandSize,
		MaxTurns: cfg.Session.MaxTurns,
		Verify:   cfg.Session.Verify,
		History:  cfg.Session.History,
		Advisor:  cfg.Solver.AdvisorOptions(seed, logger),
		Logger:   logger,
		Clock:    quartz.NewReal(),
	}

	// Per-turn output only makes sense when games run one at a time.
	if !c.Quiet && cfg.Session.Parallel == 1 {
		runCfg.OnTurn = func(ev session.TurnEvent) {
			if ev.Turn == 0 {
				fmt.Fprintf(os.Stdout, "\n\nGAME %d\n", ev.Game+1)
			}
			out.State(ev.State)
			fmt.Fprintf(os.Stdout, "\nTURN %d (player %d)\n", ev.Turn+1, ev.Advice.Player+1)
			out.Tallies(ev.Advice)
			if c.Line && len(ev.Advice.Line) > 0 {
				out.Line(ev.Advice.Line)
			}
		}
	}

	runner, err := session.New(runCfg)
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	out.Summary(report.Stats)
	return nil
}
