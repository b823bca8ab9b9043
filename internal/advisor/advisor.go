// Package advisor recommends a move for the player to act when the opponent's
// hand is partly hidden.
//
// Each trial deals the opponent a fresh hand from the unseen cards, keeping
// cards that have been revealed, and runs a budgeted search with one root
// move forced. Trials are tallied per root move and the best scoring move is
// recommended. Once the draw pile is empty nothing is hidden any more and a
// single exact search replaces the trials.
package advisor

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lox/pileclear/internal/game"
	"github.com/lox/pileclear/internal/randutil"
	"github.com/lox/pileclear/internal/search"
)

// Options configures a recommendation.
type Options struct {
	Trials        int
	NodesPerTrial uint64
	ExactNodes    uint64 // node budget of the exact search, 0 = unbounded
	Seed          int64
	RNG           randutil.Kind
	TraceEvery    uint64
	Logger        zerolog.Logger
}

// DefaultOptions returns the settings used by the command line tools.
func DefaultOptions() Options {
	return Options{
		Trials:        5000,
		NodesPerTrial: 250,
		RNG:           randutil.PCG,
		Logger:        zerolog.Nop(),
	}
}

// Validate checks the options for obvious mistakes.
func (o Options) Validate() error {
	if o.Trials <= 0 {
		return errors.New("trials must be positive")
	}
	if o.NodesPerTrial == 0 {
		return errors.New("nodes per trial must be positive")
	}
	if _, err := randutil.ParseKind(string(o.RNG)); err != nil {
		return err
	}
	return nil
}

// Recommendation is the result of Recommend.
type Recommendation struct {
	Player int
	Move   game.Move
	Found  bool // a move with a positive score exists
	Won    bool // both hands were already empty
	Exact  bool // the draw pile was empty and one exact search was run

	Tallies  []Tally
	Trials   int
	Wins     int
	Losses   int
	Unknowns int
	Nodes    uint64

	// Line is a winning continuation starting with Move, when one was seen.
	Line []game.Move
}

// Recommend picks a move for player. If player has no cards the turn passes
// to the opponent and the recommendation is made for them. The state is not
// modified.
func Recommend(s *game.State, player int, opts Options) (Recommendation, error) {
	if err := opts.Validate(); err != nil {
		return Recommendation{}, fmt.Errorf("invalid advisor options: %w", err)
	}
	if player < 0 || player >= game.Players {
		return Recommendation{}, fmt.Errorf("invalid player %d", player)
	}

	if s.HandEmpty(player) {
		player = 1 - player
	}
	rec := Recommendation{Player: player, Move: game.NoMove}
	if s.HandEmpty(player) {
		rec.Won = true
		return rec, nil
	}

	work := s.Clone()
	searchOpts := search.Options{TraceEvery: opts.TraceEvery}
	if opts.TraceEvery > 0 {
		searchOpts.Trace = func(nodes uint64, depth int) {
			opts.Logger.Debug().Uint64("nodes", nodes).Int("depth", depth).Msg("Search progress")
		}
	}

	tallies := newTallySet()
	if work.DrawSize() == 0 {
		rec.Exact = true
		searchOpts.NodeBudget = opts.ExactNodes
		se := search.New(work, searchOpts)
		outcome := se.Search(player, search.NoForce)
		rec.Trials = 1
		rec.Nodes = se.Nodes()
		rec.count(outcome)
		if outcome == search.Win {
			m, _ := se.RootMove()
			tallies.record(m, outcome, se.Line())
		}
	} else {
		searchOpts.NodeBudget = opts.NodesPerTrial
		se := search.New(work, searchOpts)
		rng := randutil.NewKind(opts.RNG, opts.Seed)
		other := 1 - player

		for trial := 0; trial < opts.Trials; trial++ {
			hidden := work.ReturnHidden(other)
			work.ShuffleDraw(rng)
			work.DealTo(other, hidden)

			outcome := se.Search(player, trial)
			rec.Trials++
			rec.Nodes += se.Nodes()
			rec.count(outcome)

			m, ok := se.RootMove()
			if !ok {
				continue
			}
			if t := tallies.record(m, outcome, se.Line()); t.Wins > opts.Trials/2 {
				break
			}
		}
	}

	rec.Tallies = tallies.list
	if i, ok := Best(rec.Tallies); ok {
		rec.Found = true
		rec.Move = rec.Tallies[i].Move
		rec.Line = rec.Tallies[i].Line
	}

	opts.Logger.Debug().
		Int("player", player).
		Bool("exact", rec.Exact).
		Int("trials", rec.Trials).
		Int("wins", rec.Wins).
		Int("losses", rec.Losses).
		Int("unknowns", rec.Unknowns).
		Uint64("nodes", rec.Nodes).
		Stringer("move", rec.Move).
		Msg("Recommendation")

	return rec, nil
}

func (r *Recommendation) count(o search.Outcome) {
	switch o {
	case search.Win:
		r.Wins++
	case search.Loss:
		r.Losses++
	case search.Unknown:
		r.Unknowns++
	}
}
