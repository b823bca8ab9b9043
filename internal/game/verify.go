package game

import (
	"fmt"

	"github.com/lox/pileclear/internal/cards"
)

// Verify checks that every live card sits in exactly one place and that the
// bookkeeping aggregates match a full recount. It returns an error wrapping
// ErrBrokenInvariant describing the first violation found.
func (s *State) Verify() error {
	var where [cards.DeckSize]string
	claim := func(c cards.CardID, loc string) error {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %d in %s", ErrBrokenInvariant, c, loc)
		}
		if where[c] != "" {
			return fmt.Errorf("%w: %s in both %s and %s", ErrBrokenInvariant, c, where[c], loc)
		}
		where[c] = loc
		return nil
	}

	for p := 0; p < Players; p++ {
		loc := fmt.Sprintf("hand %d", p)
		steps := 0
		for c := s.at(handOf(p)); c != cards.None; c = s.at(downOf(c)) {
			if steps++; steps > cards.DeckSize {
				return fmt.Errorf("%w: cycle in %s", ErrBrokenInvariant, loc)
			}
			if err := claim(c, loc); err != nil {
				return err
			}
			if s.at(rightOf(c)) != cards.None {
				return fmt.Errorf("%w: %s in %s has a right link", ErrBrokenInvariant, c, loc)
			}
		}
	}

	piles := 0
	for p := s.at(tableSlot); p != cards.None; p = s.at(rightOf(p)) {
		if piles++; piles > cards.DeckSize {
			return fmt.Errorf("%w: cycle on table", ErrBrokenInvariant)
		}
		loc := fmt.Sprintf("pile %d", piles)
		for c := p; c != cards.None; c = s.at(downOf(c)) {
			if err := claim(c, loc); err != nil {
				return err
			}
			if c != p && s.at(rightOf(c)) != cards.None {
				return fmt.Errorf("%w: %s inside %s has a right link", ErrBrokenInvariant, c, loc)
			}
		}
	}

	for _, c := range s.draw[:s.drawSize] {
		if err := claim(c, "draw pile"); err != nil {
			return err
		}
		if s.at(downOf(c)) != cards.None || s.at(rightOf(c)) != cards.None {
			return fmt.Errorf("%w: %s in draw pile is linked", ErrBrokenInvariant, c)
		}
	}

	want := *s
	want.recount()
	switch {
	case want.cardsLeft != s.cardsLeft:
		return fmt.Errorf("%w: cards left %d, recount %d", ErrBrokenInvariant, s.cardsLeft, want.cardsLeft)
	case want.pileCount != s.pileCount:
		return fmt.Errorf("%w: pile count %d, recount %d", ErrBrokenInvariant, s.pileCount, want.pileCount)
	case want.coverCount != s.coverCount:
		return fmt.Errorf("%w: cover count %d, recount %d", ErrBrokenInvariant, s.coverCount, want.coverCount)
	case want.alive != s.alive:
		return fmt.Errorf("%w: color/kind matrix differs from recount", ErrBrokenInvariant)
	case want.canRemoveColor != s.canRemoveColor:
		return fmt.Errorf("%w: color remover flags differ from recount", ErrBrokenInvariant)
	case want.canRemoveKind != s.canRemoveKind:
		return fmt.Errorf("%w: kind remover flags differ from recount", ErrBrokenInvariant)
	}
	return nil
}
