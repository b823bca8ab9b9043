// Package search runs the exhaustive backtracking search over a game.State.
//
// The searcher owns no copy of the position: it applies each move in place,
// recurses and undoes the move before trying the next one, so the state is
// unchanged whenever Search returns. A node budget bounds the work; running
// out yields Unknown rather than a guess.
package search

import (
	"github.com/lox/pileclear/internal/game"
)

// Outcome is the verdict of a search.
type Outcome int8

const (
	Loss Outcome = iota
	Win
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Loss:
		return "loss"
	case Win:
		return "win"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// NoForce lets the root consider every legal move.
const NoForce = -1

// Options configures a Searcher.
type Options struct {
	// NodeBudget caps the number of nodes per Search. Zero means unbounded.
	NodeBudget uint64

	// DisablePrune turns off the feasibility bound.
	DisablePrune bool

	// Trace, when set, is called every TraceEvery nodes.
	Trace      func(nodes uint64, depth int)
	TraceEvery uint64
}

// Searcher explores the game tree below a state it mutates and restores.
type Searcher struct {
	state *game.State
	opts  Options

	nodes    uint64
	depth    int
	winDepth int
	stack    []game.Move   // move tried at each depth on the current path
	bufs     [][]game.Move // move list storage per depth
}

// New returns a searcher over s.
func New(s *game.State, opts Options) *Searcher {
	return &Searcher{state: s, opts: opts}
}

// Search reports whether the game can still be won with player to move.
//
// force selects a single root move: the legal move at index force modulo the
// number of legal moves. NoForce searches every root move, best-first.
func (se *Searcher) Search(player, force int) Outcome {
	se.nodes = 0
	se.depth = 0
	se.winDepth = -1
	se.stack = se.stack[:0]
	return se.play(player, false, force)
}

// Nodes returns the number of nodes visited by the last Search.
func (se *Searcher) Nodes() uint64 {
	return se.nodes
}

// RootMove returns the last root move tried by the last Search. After a Win it
// is the winning move; after a forced search it is the forced move.
func (se *Searcher) RootMove() (game.Move, bool) {
	if len(se.stack) == 0 {
		return game.NoMove, false
	}
	return se.stack[0], true
}

// Line returns the moves leading to the win found by the last Search, or nil
// if it did not return Win.
func (se *Searcher) Line() []game.Move {
	if se.winDepth < 0 {
		return nil
	}
	return append([]game.Move(nil), se.stack[:se.winDepth]...)
}

func (se *Searcher) play(player int, prune bool, force int) Outcome {
	se.nodes++
	if se.opts.Trace != nil && se.opts.TraceEvery > 0 && se.nodes%se.opts.TraceEvery == 0 {
		se.opts.Trace(se.nodes, se.depth)
	}

	s := se.state
	if s.Lost() {
		return Loss
	}
	if s.HandEmpty(player) {
		player = 1 - player
	}
	if s.HandEmpty(player) {
		se.winDepth = se.depth
		return Win
	}
	if se.opts.NodeBudget > 0 && se.nodes >= se.opts.NodeBudget {
		return Unknown
	}
	if prune && !se.opts.DisablePrune && s.DrawSize() == 0 && !Feasible(s) {
		return Loss
	}

	moves := s.LegalMoves(player, se.buffer())
	se.bufs[se.depth] = moves
	if force >= 0 {
		if len(moves) > 0 {
			moves[0] = moves[force%len(moves)]
			moves = moves[:1]
		}
	} else {
		Order(s, moves)
	}

	result := Loss
	for _, m := range moves {
		se.record(m)
		u := s.Apply(player, m)
		se.depth++
		r := se.play(1-player, m.Card.Action().IsRemoval(), NoForce)
		se.depth--
		s.Undo(u)

		switch r {
		case Win:
			return Win
		case Unknown:
			result = Unknown
		}
	}
	return result
}

func (se *Searcher) buffer() []game.Move {
	for len(se.bufs) <= se.depth {
		se.bufs = append(se.bufs, make([]game.Move, 0, 32))
	}
	return se.bufs[se.depth]
}

func (se *Searcher) record(m game.Move) {
	if se.depth < len(se.stack) {
		se.stack[se.depth] = m
		return
	}
	se.stack = append(se.stack, m)
}
