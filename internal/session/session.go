// Package session plays complete games with the advisor choosing every move
// for both players, and aggregates the results.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pileclear/internal/advisor"
	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/game"
	"github.com/lox/pileclear/internal/history"
	"github.com/lox/pileclear/internal/randutil"
	"github.com/lox/pileclear/internal/statistics"
)

// Config holds configuration for a session.
type Config struct {
	Games    int
	Seed     int64 // game i is dealt with Seed+i
	Parallel int
	HandSize int
	MaxTurns int
	Verify   bool // check state invariants after every move

	// History, when set, is the transcript file games are appended to.
	History string

	Advisor advisor.Options
	Logger  zerolog.Logger
	Clock   quartz.Clock

	// OnTurn is called before each move is committed. With Parallel > 1 it
	// may be called from several goroutines at once.
	OnTurn func(TurnEvent)
}

// TurnEvent describes a turn about to be played.
type TurnEvent struct {
	Game   int
	Turn   int
	State  *game.State // before the move; must not be modified
	Advice advisor.Recommendation
}

// Report is the outcome of Run.
type Report struct {
	Stats   *statistics.Statistics
	Results []statistics.GameResult
	Games   []history.Transcript
}

// Runner plays self-play games.
type Runner struct {
	cfg Config
}

// New validates cfg and returns a runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}
	if cfg.HandSize <= 0 {
		cfg.HandSize = game.DefaultHandSize
	}
	if 2*cfg.HandSize > cards.DeckSize {
		return nil, fmt.Errorf("hand size %d too large", cfg.HandSize)
	}
	if cfg.MaxTurns <= 0 {
		return nil, fmt.Errorf("max turns must be positive, got %d", cfg.MaxTurns)
	}
	if err := cfg.Advisor.Validate(); err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	return &Runner{cfg: cfg}, nil
}

// Run plays every game, at most Parallel at a time, and aggregates results
// in game order.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := r.cfg.Clock.Now()
	results := make([]statistics.GameResult, r.cfg.Games)
	transcripts := make([]history.Transcript, r.cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallel)
	for i := 0; i < r.cfg.Games; i++ {
		g.Go(func() error {
			result, tr, err := r.Play(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			transcripts[i] = *tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Stats:   &statistics.Statistics{},
		Results: results,
		Games:   transcripts,
	}
	for _, result := range results {
		report.Stats.Add(result)
	}
	if err := report.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	if r.cfg.History != "" {
		if err := r.appendHistory(transcripts); err != nil {
			return nil, err
		}
	}

	r.cfg.Logger.Info().
		Int("games", report.Stats.Games).
		Int("wins", report.Stats.Wins).
		Float64("win_rate", report.Stats.WinRate()).
		Dur("elapsed", r.cfg.Clock.Since(start)).
		Msg("Session finished")
	return report, nil
}

func (r *Runner) appendHistory(games []history.Transcript) error {
	existing, err := history.Load(r.cfg.History)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if err := history.Save(r.cfg.History, append(existing, games...)); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Play plays game index to the end.
func (r *Runner) Play(ctx context.Context, index int) (statistics.GameResult, *history.Transcript, error) {
	seed := r.cfg.Seed + int64(index)
	kind := r.cfg.Advisor.RNG
	s := game.Deal(randutil.NewKind(kind, seed), r.cfg.HandSize)

	start := r.cfg.Clock.Now()
	tr := history.NewTranscript(s, seed, start)
	tr.RNG = string(kind)

	logger := r.cfg.Logger.With().Str("game_id", tr.ID).Int("game", index+1).Int64("seed", seed).Logger()
	logger.Debug().Msg("Game starting")

	result := statistics.GameResult{Seed: seed}
	player := 0
	for turn := 0; ; turn++ {
		if err := ctx.Err(); err != nil {
			return result, nil, err
		}
		if s.Lost() {
			break
		}
		if s.HandEmpty(player) {
			player = 1 - player
		}
		if s.HandEmpty(player) {
			result.Won = true
			break
		}
		if turn >= r.cfg.MaxTurns {
			result.Capped = true
			logger.Warn().Int("turns", turn).Msg("Turn limit reached")
			break
		}

		opts := r.cfg.Advisor
		opts.Seed = randutil.Derive(seed, turn)
		opts.Logger = logger
		rec, err := advisor.Recommend(s, player, opts)
		if err != nil {
			return result, nil, err
		}
		result.Nodes += rec.Nodes
		result.Trials += rec.Trials
		if rec.Exact {
			result.Exact++
		}
		if r.cfg.OnTurn != nil {
			r.cfg.OnTurn(TurnEvent{Game: index, Turn: turn, State: s, Advice: rec})
		}
		if !rec.Found {
			break
		}

		if _, err := s.Play(player, rec.Move); err != nil {
			return result, nil, fmt.Errorf("turn %d: %w", turn, err)
		}
		if r.cfg.Verify {
			if err := s.Verify(); err != nil {
				return result, nil, fmt.Errorf("turn %d after %s: %w", turn, rec.Move, err)
			}
		}
		result.Turns++
		tr.Record(history.Turn{
			Player:   player,
			Move:     rec.Move.String(),
			Exact:    rec.Exact,
			Trials:   rec.Trials,
			Wins:     rec.Wins,
			Losses:   rec.Losses,
			Unknowns: rec.Unknowns,
			Nodes:    rec.Nodes,
			Piles:    s.PileCount(),
		})
		player = 1 - player
	}

	result.Piles = s.PileCount()
	result.Duration = r.cfg.Clock.Since(start)
	switch {
	case result.Won:
		tr.Result = history.ResultWin
	case result.Capped:
		tr.Result = history.ResultCapped
	default:
		tr.Result = history.ResultLoss
	}

	logger.Info().
		Str("result", tr.Result).
		Int("turns", result.Turns).
		Int("piles", result.Piles).
		Uint64("nodes", result.Nodes).
		Dur("duration", result.Duration.Round(time.Millisecond)).
		Msg("Game finished")
	return result, tr, nil
}
