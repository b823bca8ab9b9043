package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/pileclear/internal/cards"
)

const (
	// MaxPiles is the number of simultaneous piles that loses the game.
	MaxPiles = 5
	// DefaultHandSize is the number of cards dealt to each player.
	DefaultHandSize = 5
	// Players is the number of players.
	Players = 2
)

var (
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameOver        = errors.New("game is over")
	ErrBadPosition     = errors.New("invalid position")
	ErrBrokenInvariant = errors.New("state invariant violated")
)

// slot addresses one link cell. Links are stored in a single array so that a
// slot plays the role of a pointer to a "next" pointer: the down link of every
// card, the right link of every card, the two hand heads and the table head.
type slot int16

const (
	rightBase slot = cards.DeckSize
	handBase  slot = 2 * cards.DeckSize
	tableSlot slot = handBase + Players
	numSlots       = int(tableSlot) + 1

	noSlot slot = -1
)

func downOf(c cards.CardID) slot  { return slot(c) }
func rightOf(c cards.CardID) slot { return rightBase + slot(c) }
func handOf(player int) slot      { return handBase + slot(player) }

// State is the complete game position. Hands and piles are chains of card IDs:
// a hand is linked through down links from its head; the table is linked
// through right links between pile heads, and each pile continues through
// down links from its head to its face card, which decides matching.
//
// Right links are only set on pile heads; every other card has right == None.
// State holds no pointers or slices, so a plain assignment copies it.
type State struct {
	links [numSlots]cards.CardID

	draw     [cards.DeckSize]cards.CardID
	drawSize int

	open [cards.DeckSize]bool

	cardsLeft      int
	alive          [cards.NumColors][cards.NumColors]bool // [color][kind]
	pileCount      int
	coverCount     int
	canRemoveColor [cards.NumColors]bool
	canRemoveKind  [cards.NumColors]bool
}

// NewState returns a state with every card in the draw pile, ordered by ID.
func NewState() *State {
	s := &State{}
	for i := range s.links {
		s.links[i] = cards.None
	}
	for i := range s.draw {
		s.draw[i] = cards.CardID(i)
	}
	s.drawSize = cards.DeckSize
	s.recount()
	return s
}

// Deal shuffles a fresh deck and deals handSize cards to each player.
func Deal(rng *rand.Rand, handSize int) *State {
	s := NewState()
	s.ShuffleDraw(rng)
	for p := 0; p < Players; p++ {
		s.DealTo(p, handSize)
	}
	return s
}

// Position describes a state card by card. Cards listed nowhere are
// considered discarded.
type Position struct {
	Hands    [Players][]cards.CardID
	Table    [][]cards.CardID // each pile from head to face
	Draw     []cards.CardID   // bottom first; the last card is drawn next
	Revealed []cards.CardID
}

// FromPosition builds a state from an explicit position.
func FromPosition(pos Position) (*State, error) {
	s := &State{}
	for i := range s.links {
		s.links[i] = cards.None
	}

	var seen [cards.DeckSize]bool
	claim := func(c cards.CardID) error {
		if !c.Valid() {
			return fmt.Errorf("%w: card id %d", ErrBadPosition, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: %s listed twice", ErrBadPosition, c)
		}
		seen[c] = true
		return nil
	}

	for p, hand := range pos.Hands {
		at := handOf(p)
		for _, c := range hand {
			if err := claim(c); err != nil {
				return nil, err
			}
			s.set(at, c)
			at = downOf(c)
		}
	}

	if len(pos.Table) > MaxPiles {
		return nil, fmt.Errorf("%w: %d piles", ErrBadPosition, len(pos.Table))
	}
	at := tableSlot
	for _, pile := range pos.Table {
		if len(pile) == 0 {
			return nil, fmt.Errorf("%w: empty pile", ErrBadPosition)
		}
		for i, c := range pile {
			if err := claim(c); err != nil {
				return nil, err
			}
			if i > 0 {
				s.set(downOf(pile[i-1]), c)
			}
		}
		s.set(at, pile[0])
		at = rightOf(pile[0])
	}

	for _, c := range pos.Draw {
		if err := claim(c); err != nil {
			return nil, err
		}
		s.draw[s.drawSize] = c
		s.drawSize++
	}

	for _, c := range pos.Revealed {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: card id %d", ErrBadPosition, c)
		}
		s.open[c] = true
	}

	s.recount()
	return s, nil
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := *s
	return &c
}

func (s *State) at(sl slot) cards.CardID     { return s.links[sl] }
func (s *State) set(sl slot, c cards.CardID) { s.links[sl] = c }

// findInHand returns the slot that points at c in the player's hand.
func (s *State) findInHand(player int, c cards.CardID) slot {
	for sl := handOf(player); s.at(sl) != cards.None; sl = downOf(s.at(sl)) {
		if s.at(sl) == c {
			return sl
		}
	}
	return noSlot
}

// findOnTable returns the slot that points at the pile headed by c.
func (s *State) findOnTable(c cards.CardID) slot {
	for sl := tableSlot; s.at(sl) != cards.None; sl = rightOf(s.at(sl)) {
		if s.at(sl) == c {
			return sl
		}
	}
	return noSlot
}

// Face returns the card that decides matching for the pile headed by head.
func (s *State) Face(head cards.CardID) cards.CardID {
	for s.at(downOf(head)) != cards.None {
		head = s.at(downOf(head))
	}
	return head
}

// FaceCounts counts table piles per face color and face kind.
func (s *State) FaceCounts() (colors, kinds [cards.NumColors]int) {
	for p := s.at(tableSlot); p != cards.None; p = s.at(rightOf(p)) {
		f := s.Face(p)
		colors[f.Color()]++
		kinds[f.Kind()]++
	}
	return colors, kinds
}

// Hand returns the player's cards in hand order.
func (s *State) Hand(player int) []cards.CardID {
	var out []cards.CardID
	for c := s.at(handOf(player)); c != cards.None; c = s.at(downOf(c)) {
		out = append(out, c)
	}
	return out
}

// HandLen returns the number of cards in the player's hand.
func (s *State) HandLen(player int) int {
	n := 0
	for c := s.at(handOf(player)); c != cards.None; c = s.at(downOf(c)) {
		n++
	}
	return n
}

// HandEmpty reports whether the player holds no cards.
func (s *State) HandEmpty(player int) bool {
	return s.at(handOf(player)) == cards.None
}

// Table returns every pile from head to face, in table order.
func (s *State) Table() [][]cards.CardID {
	var piles [][]cards.CardID
	for p := s.at(tableSlot); p != cards.None; p = s.at(rightOf(p)) {
		var pile []cards.CardID
		for c := p; c != cards.None; c = s.at(downOf(c)) {
			pile = append(pile, c)
		}
		piles = append(piles, pile)
	}
	return piles
}

// Draw returns the draw pile, bottom first.
func (s *State) Draw() []cards.CardID {
	return append([]cards.CardID(nil), s.draw[:s.drawSize]...)
}

func (s *State) DrawSize() int                     { return s.drawSize }
func (s *State) PileCount() int                    { return s.pileCount }
func (s *State) CardsLeft() int                    { return s.cardsLeft }
func (s *State) CoverCount() int                   { return s.coverCount }
func (s *State) IsOpen(c cards.CardID) bool        { return s.open[c] }
func (s *State) CanRemoveColor(c cards.Color) bool { return s.canRemoveColor[c] }
func (s *State) CanRemoveKind(k cards.Kind) bool   { return s.canRemoveKind[k] }

// Alive reports whether the card of the given color and kind is not discarded.
func (s *State) Alive(color cards.Color, kind cards.Kind) bool {
	return s.alive[color][kind]
}

// FreeSlots is the number of piles that can still be added without losing.
func (s *State) FreeSlots() int {
	return MaxPiles - 1 - s.pileCount
}

// Won reports whether both hands are empty.
func (s *State) Won() bool {
	return s.HandEmpty(0) && s.HandEmpty(1)
}

// Lost reports whether the table is full.
func (s *State) Lost() bool {
	return s.pileCount >= MaxPiles
}

// discard removes a card from the bookkeeping aggregates.
func (s *State) discard(c cards.CardID) {
	card := cards.Get(c)
	switch card.Action {
	case cards.Cover:
		s.coverCount--
	case cards.RemoveKind:
		s.canRemoveKind[card.RemovesKind] = false
	case cards.RemoveColor:
		s.canRemoveColor[card.RemovesColor] = false
	}
	s.alive[card.Color][card.Kind] = false
	s.cardsLeft--
}

// restore is the inverse of discard.
func (s *State) restore(c cards.CardID) {
	card := cards.Get(c)
	switch card.Action {
	case cards.Cover:
		s.coverCount++
	case cards.RemoveKind:
		s.canRemoveKind[card.RemovesKind] = true
	case cards.RemoveColor:
		s.canRemoveColor[card.RemovesColor] = true
	}
	s.alive[card.Color][card.Kind] = true
	s.cardsLeft++
}

// recount rebuilds every aggregate from the hands, table and draw pile.
func (s *State) recount() {
	s.cardsLeft = 0
	s.pileCount = 0
	s.coverCount = 0
	s.alive = [cards.NumColors][cards.NumColors]bool{}
	s.canRemoveColor = [cards.NumColors]bool{}
	s.canRemoveKind = [cards.NumColors]bool{}

	for _, c := range s.liveCards() {
		s.restore(c)
	}
	for p := s.at(tableSlot); p != cards.None; p = s.at(rightOf(p)) {
		s.pileCount++
	}
}

// liveCards lists every card in a hand, on the table or in the draw pile.
func (s *State) liveCards() []cards.CardID {
	live := make([]cards.CardID, 0, cards.DeckSize)
	for p := 0; p < Players; p++ {
		live = append(live, s.Hand(p)...)
	}
	for _, pile := range s.Table() {
		live = append(live, pile...)
	}
	return append(live, s.draw[:s.drawSize]...)
}

// ShuffleDraw shuffles the draw pile in place.
func (s *State) ShuffleDraw(rng *rand.Rand) {
	n := s.drawSize
	for i := 0; i < n; i++ {
		j := i + rng.IntN(n-i)
		s.draw[i], s.draw[j] = s.draw[j], s.draw[i]
	}
}

// DealTo moves up to n cards from the top of the draw pile to the front of
// the player's hand. It returns the number dealt.
func (s *State) DealTo(player, n int) int {
	dealt := 0
	for ; dealt < n && s.drawSize > 0; dealt++ {
		s.drawSize--
		c := s.draw[s.drawSize]
		s.set(downOf(c), s.at(handOf(player)))
		s.set(handOf(player), c)
	}
	return dealt
}

// ReturnHidden moves every card of the player's hand that is not open back
// onto the draw pile and returns how many were moved. Open cards keep their
// relative order.
func (s *State) ReturnHidden(player int) int {
	n := 0
	for sl := handOf(player); s.at(sl) != cards.None; {
		c := s.at(sl)
		if s.open[c] {
			sl = downOf(c)
			continue
		}
		s.set(sl, s.at(downOf(c)))
		s.set(downOf(c), cards.None)
		s.draw[s.drawSize] = c
		s.drawSize++
		n++
	}
	return n
}
