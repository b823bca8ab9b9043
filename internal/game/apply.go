package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/pileclear/internal/cards"
)

// Move is a card played from hand together with its optional secondary card:
// another hand card for GIVE and PLUS_ONE, or the head of a table pile for
// COVER and TAKE.
type Move struct {
	Card  cards.CardID
	Extra cards.CardID
}

// NoMove is the zero-information move.
var NoMove = Move{Card: cards.None, Extra: cards.None}

func (m Move) String() string {
	if m.Extra == cards.None {
		return m.Card.String()
	}
	return m.Card.String() + " " + m.Extra.String()
}

// ParseMove is the inverse of Move.String.
func ParseMove(s string) (Move, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	m := NoMove
	var err error
	if m.Card, err = cards.Parse(fields[0]); err != nil {
		return NoMove, err
	}
	if len(fields) == 2 {
		if m.Extra, err = cards.Parse(fields[1]); err != nil {
			return NoMove, err
		}
	}
	return m, nil
}

// Undo records what Apply changed so that Undo can reverse it exactly.
type Undo struct {
	Move   Move
	Player int

	hand  slot // slot that pointed at the played card
	extra slot // slot that pointed at the secondary card or pile
	tail  slot // COVER: pile tail now holding the card; TAKE: hand tail holding the pile

	removed   [MaxPiles]cards.CardID
	removedAt [MaxPiles]slot
	nRemoved  int

	placed bool
	drew   bool
	opened uint64 // cards revealed by Play
}

// Removed returns the heads of the piles discarded by the move.
func (u *Undo) Removed() []cards.CardID {
	return append([]cards.CardID(nil), u.removed[:u.nRemoved]...)
}

// Apply performs a move for player in place and returns the record needed to
// undo it. The move must come from LegalMoves on the same state.
func (s *State) Apply(player int, m Move) Undo {
	u := Undo{Move: m, Player: player, extra: noSlot, tail: noSlot}
	c := m.Card
	action := c.Action()

	u.hand = s.findInHand(player, c)
	s.set(u.hand, s.at(downOf(c)))
	s.set(downOf(c), cards.None)

	if m.Extra != cards.None {
		switch action {
		case cards.Give, cards.PlusOne:
			u.extra = s.findInHand(player, m.Extra)
		case cards.Cover, cards.Take:
			u.extra = s.findOnTable(m.Extra)
		}
	}

	if action.IsRemoval() {
		for p := tableSlot; s.at(p) != cards.None; {
			head := s.at(p)
			if !c.Matches(s.Face(head)) {
				p = rightOf(head)
				continue
			}
			u.removed[u.nRemoved] = head
			u.removedAt[u.nRemoved] = p
			u.nRemoved++

			s.pileCount--
			for r := head; r != cards.None; r = s.at(downOf(r)) {
				s.discard(r)
			}
			s.set(p, s.at(rightOf(head)))
			s.set(rightOf(head), cards.None)
		}
	}

	if u.extra != noSlot {
		switch action {
		case cards.Cover:
			t := downOf(s.at(u.extra))
			for s.at(t) != cards.None {
				t = downOf(s.at(t))
			}
			s.set(t, c)
			u.tail = t

		case cards.Take:
			t := handOf(player)
			for s.at(t) != cards.None {
				t = downOf(s.at(t))
			}
			pile := s.at(u.extra)
			s.set(u.extra, c)
			s.set(rightOf(c), s.at(rightOf(pile)))
			s.set(rightOf(pile), cards.None)
			s.set(t, pile)
			u.tail = t

		case cards.PlusOne:
			second := s.at(u.extra)
			s.set(rightOf(second), s.at(tableSlot))
			s.set(tableSlot, second)
			s.set(u.extra, s.at(downOf(second)))
			s.set(downOf(second), cards.None)
			s.pileCount++

		case cards.Give:
			give := s.at(u.extra)
			other := handOf(1 - player)
			head := s.at(other)
			s.set(other, give)
			s.set(u.extra, s.at(downOf(give)))
			s.set(downOf(give), head)
		}
	}

	u.placed = u.extra == noSlot || (action != cards.Cover && action != cards.Take)
	if u.placed {
		s.set(rightOf(c), s.at(tableSlot))
		s.set(tableSlot, c)
		s.pileCount++
	}

	if s.drawSize > 0 {
		s.drawSize--
		d := s.draw[s.drawSize]
		s.set(downOf(d), s.at(handOf(player)))
		s.set(handOf(player), d)
		u.drew = true
	}

	return u
}

// Undo reverses Apply. Records must be undone in the reverse order of the
// Apply calls that produced them.
func (s *State) Undo(u Undo) {
	c := u.Move.Card
	player := u.Player

	if u.drew {
		d := s.at(handOf(player))
		s.set(handOf(player), s.at(downOf(d)))
		s.set(downOf(d), cards.None)
		s.drawSize++
	}

	if u.placed {
		s.set(tableSlot, s.at(rightOf(c)))
		s.set(rightOf(c), cards.None)
		s.pileCount--
	}

	for i := u.nRemoved - 1; i >= 0; i-- {
		head, p := u.removed[i], u.removedAt[i]
		s.set(rightOf(head), s.at(p))
		s.set(p, head)
		s.pileCount++
		for r := head; r != cards.None; r = s.at(downOf(r)) {
			s.restore(r)
		}
	}

	if u.extra != noSlot {
		switch c.Action() {
		case cards.Cover:
			s.set(u.tail, cards.None)

		case cards.Take:
			pile := s.at(u.tail)
			s.set(u.extra, pile)
			s.set(rightOf(pile), s.at(rightOf(c)))
			s.set(rightOf(c), cards.None)
			s.set(u.tail, cards.None)

		case cards.PlusOne:
			second := s.at(tableSlot)
			s.set(tableSlot, s.at(rightOf(second)))
			s.set(rightOf(second), cards.None)
			s.set(downOf(second), s.at(u.extra))
			s.set(u.extra, second)
			s.pileCount--

		case cards.Give:
			other := handOf(1 - player)
			give := s.at(other)
			s.set(other, s.at(downOf(give)))
			s.set(downOf(give), s.at(u.extra))
			s.set(u.extra, give)
		}
	}

	s.set(downOf(c), s.at(u.hand))
	s.set(u.hand, c)

	for i := 0; u.opened != 0 && i < cards.DeckSize; i++ {
		if u.opened&(1<<i) != 0 {
			s.open[i] = false
		}
	}
}

// Play validates and applies a move on an authoritative game. Unlike Apply it
// reveals the cards that change hands: the whole pile picked up by TAKE and
// the card passed by GIVE.
func (s *State) Play(player int, m Move) (Undo, error) {
	if s.Lost() {
		return Undo{}, ErrGameOver
	}
	if player < 0 || player >= Players {
		return Undo{}, fmt.Errorf("%w: player %d", ErrIllegalMove, player)
	}
	if !slices.Contains(s.LegalMoves(player, nil), m) {
		return Undo{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	u := s.Apply(player, m)

	var shown []cards.CardID
	switch {
	case m.Extra == cards.None:
	case m.Card.Action() == cards.Take:
		for r := m.Extra; r != cards.None; r = s.at(downOf(r)) {
			shown = append(shown, r)
		}
	case m.Card.Action() == cards.Give:
		shown = append(shown, m.Extra)
	}
	for _, r := range shown {
		if !s.open[r] {
			s.open[r] = true
			u.opened |= 1 << uint(r)
		}
	}
	return u, nil
}
