package statistics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// GameResult is the outcome of one self-play game.
type GameResult struct {
	Seed     int64 // RNG seed of the deal (for replay)
	Won      bool
	Capped   bool // stopped by the turn limit, counted as a loss
	Turns    int
	Piles    int    // piles on the table when the game ended
	Nodes    uint64 // search nodes spent over the whole game
	Trials   int    // determinization trials over the whole game
	Exact    int    // turns decided by an exact search
	Duration time.Duration
}

// Statistics aggregates game results.
type Statistics struct {
	Games  int
	Wins   int
	Losses int
	Capped int

	Turns []float64 // per game, for median/percentile calculation

	Nodes    uint64
	Trials   int
	Exact    int
	Duration time.Duration

	// Losses by the number of piles left on the table, 0..5
	LossesByPiles [6]int
}

// Add incorporates a game result.
func (s *Statistics) Add(r GameResult) {
	s.Games++
	if r.Won {
		s.Wins++
	} else {
		s.Losses++
		if r.Capped {
			s.Capped++
		}
		if r.Piles >= 0 && r.Piles < len(s.LossesByPiles) {
			s.LossesByPiles[r.Piles]++
		}
	}
	s.Turns = append(s.Turns, float64(r.Turns))
	s.Nodes += r.Nodes
	s.Trials += r.Trials
	s.Exact += r.Exact
	s.Duration += r.Duration
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	s.Games += other.Games
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Capped += other.Capped
	s.Turns = append(s.Turns, other.Turns...)
	s.Nodes += other.Nodes
	s.Trials += other.Trials
	s.Exact += other.Exact
	s.Duration += other.Duration
	for i := range s.LossesByPiles {
		s.LossesByPiles[i] += other.LossesByPiles[i]
	}
}

// WinRate returns the fraction of games won.
func (s *Statistics) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// Variance returns the sample variance of the win indicator.
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	p := s.WinRate()
	n := float64(s.Games)
	return p * (1 - p) * n / (n - 1)
}

// StdError returns the standard error of the win rate
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the win rate,
// clamped to [0, 1].
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	rate := s.WinRate()
	margin := 1.96 * s.StdError()
	return math.Max(0, rate-margin), math.Min(1, rate+margin)
}

// NodesPerGame returns the mean number of search nodes per game.
func (s *Statistics) NodesPerGame() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Nodes) / float64(s.Games)
}

// MedianTurns returns the median game length.
func (s *Statistics) MedianTurns() float64 {
	return s.TurnPercentile(0.5)
}

// TurnPercentile returns the game length at the given percentile (0.0 to 1.0)
func (s *Statistics) TurnPercentile(p float64) float64 {
	if len(s.Turns) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Turns))
	copy(sorted, s.Turns)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other.
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if s.Wins+s.Losses != s.Games {
		return fmt.Errorf("wins (%d) + losses (%d) does not match games (%d)", s.Wins, s.Losses, s.Games)
	}
	if s.Capped > s.Losses {
		return fmt.Errorf("capped games (%d) exceed losses (%d)", s.Capped, s.Losses)
	}
	if len(s.Turns) != s.Games {
		return fmt.Errorf("turns array length (%d) does not match games count (%d)", len(s.Turns), s.Games)
	}

	byPiles := 0
	for _, n := range s.LossesByPiles {
		byPiles += n
	}
	if byPiles != s.Losses {
		return fmt.Errorf("losses by piles total (%d) does not match losses (%d)", byPiles, s.Losses)
	}
	return nil
}
