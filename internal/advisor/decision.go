package advisor

import (
	"github.com/lox/pileclear/internal/game"
	"github.com/lox/pileclear/internal/search"
)

// Tally counts trial outcomes for one candidate root move.
type Tally struct {
	Move     game.Move
	Wins     int
	Losses   int
	Unknowns int

	// Line is the first winning line found through Move, if any.
	Line []game.Move
}

// Score weighs a win twice as much as an unresolved trial, which counts as a
// coin flip.
func (t Tally) Score() int {
	return 2*t.Wins + t.Unknowns
}

// Trials is the number of trials attributed to the move.
func (t Tally) Trials() int {
	return t.Wins + t.Losses + t.Unknowns
}

// Best returns the index of the highest scoring tally. Ties go to the tally
// recorded first. It reports false when no tally has a positive score.
func Best(tallies []Tally) (int, bool) {
	best, bestScore := -1, 0
	for i, t := range tallies {
		if s := t.Score(); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, best >= 0
}

// tallySet keeps tallies in the order their moves were first seen.
type tallySet struct {
	list  []Tally
	index map[game.Move]int
}

func newTallySet() *tallySet {
	return &tallySet{index: make(map[game.Move]int)}
}

func (ts *tallySet) record(m game.Move, outcome search.Outcome, line []game.Move) *Tally {
	i, ok := ts.index[m]
	if !ok {
		i = len(ts.list)
		ts.index[m] = i
		ts.list = append(ts.list, Tally{Move: m})
	}

	t := &ts.list[i]
	switch outcome {
	case search.Win:
		t.Wins++
		if t.Line == nil {
			t.Line = line
		}
	case search.Loss:
		t.Losses++
	case search.Unknown:
		t.Unknowns++
	}
	return t
}
