package search

import (
	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/game"
)

// Feasible is a necessary condition for winning. A live card whose color and
// kind both lack a live remover can only leave the table inside a pile whose
// face is a removable COVER card, so each COVER card rescues at most one such
// card. If the stuck cards left over still fill the table the game is lost.
func Feasible(s *game.State) bool {
	stuck := s.CardsLeft()
	for color := cards.Color(0); color < cards.NumColors; color++ {
		for kind := cards.Kind(0); kind < cards.NumColors; kind++ {
			if s.Alive(color, kind) && (s.CanRemoveColor(color) || s.CanRemoveKind(kind)) {
				stuck--
			}
		}
	}
	return stuck-s.CoverCount() < game.MaxPiles
}

type priority int8

const (
	demote priority = iota - 1
	neutral
	promote
)

// Order moves promising moves to the front and hopeless ones to the back.
// It only changes how fast a win is found, never whether one exists.
func Order(s *game.State, moves []game.Move) {
	colors, kinds := s.FaceCounts()

	lo, hi := 0, len(moves)-1
	for i := 0; i <= hi; {
		switch classify(moves[i], colors, kinds) {
		case promote:
			moves[i], moves[lo] = moves[lo], moves[i]
			lo++
			i++
		case demote:
			moves[i], moves[hi] = moves[hi], moves[i]
			hi--
		default:
			i++
		}
	}
}

func classify(m game.Move, colors, kinds [cards.NumColors]int) priority {
	card := cards.Get(m.Card)
	switch card.Action {
	case cards.PlusOne:
		if m.Extra != cards.None && m.Extra.Action() == cards.PlusOne {
			return promote
		}
	case cards.RemoveKind:
		return byMatches(kinds[card.RemovesKind])
	case cards.RemoveColor:
		return byMatches(colors[card.RemovesColor])
	case cards.Take:
		if m.Extra == cards.None {
			break
		}
		switch head := m.Extra.Action(); {
		case head.IsRemoval():
			return promote
		case head == cards.PlusOne:
			return demote
		}
	}
	return neutral
}

func byMatches(n int) priority {
	switch {
	case n >= 2:
		return promote
	case n == 0:
		return demote
	}
	return neutral
}
