package game

import "github.com/lox/pileclear/internal/cards"

// LegalMoves appends the legal moves of player to buf[:0] and returns it.
// The order follows the hand order and, for each card, the order of its
// secondary candidates, so searches over the result are reproducible. The
// state is not modified.
func (s *State) LegalMoves(player int, buf []Move) []Move {
	moves := buf[:0]
	free := s.FreeSlots()
	handLen := s.HandLen(player)

	idx := 0
	for c := s.at(handOf(player)); c != cards.None; c, idx = s.at(downOf(c)), idx+1 {
		action := c.Action()
		switch action {
		case cards.RemoveKind, cards.RemoveColor:
			moves = append(moves, Move{Card: c, Extra: cards.None})

		case cards.Give, cards.PlusOne:
			need := 1
			if action == cards.PlusOne && handLen > 1 {
				need = 2
			}
			if free < need {
				continue
			}

			pairs := 0
			j := 0
			for e := s.at(handOf(player)); e != cards.None; e, j = s.at(downOf(e)), j+1 {
				if e == c {
					continue
				}
				pairs++
				// two PLUS_ONE cards form one unordered pair
				if action == cards.PlusOne && e.Action() == cards.PlusOne && j < idx {
					continue
				}
				moves = append(moves, Move{Card: c, Extra: e})
			}
			if pairs == 0 {
				moves = append(moves, Move{Card: c, Extra: cards.None})
			}

		case cards.Cover, cards.Take:
			pairs := 0
			for p := s.at(tableSlot); p != cards.None; p = s.at(rightOf(p)) {
				if action == cards.Take && p.Action() == cards.Take {
					continue
				}
				moves = append(moves, Move{Card: c, Extra: p})
				pairs++
			}
			if pairs == 0 && free >= 1 {
				moves = append(moves, Move{Card: c, Extra: cards.None})
			}
		}
	}
	return moves
}
