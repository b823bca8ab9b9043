// Package cards defines the 36-card deck: one card per (color, action) pair,
// with the kind and removal targets derived from those two attributes.
package cards

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// NumColors is the number of card colors and also the number of kinds.
	NumColors = 6
	// NumActions is the number of card actions.
	NumActions = 6
	// DeckSize is the number of cards in the game.
	DeckSize = NumColors * NumActions
)

// ErrUnknownCard is returned when a card name cannot be parsed.
var ErrUnknownCard = errors.New("unknown card")

// Color is one of the six card colors.
type Color int8

const (
	Green Color = iota
	Red
	Gray
	Purple
	Blue
	Yellow
)

var colorNames = [NumColors]string{"GREEN", "RED", "GRAY", "PURPLE", "BLUE", "YELLOW"}

func (c Color) String() string {
	if c < 0 || int(c) >= NumColors {
		return "?"
	}
	return colorNames[c]
}

// Action is what a card does when played.
type Action int8

const (
	RemoveKind Action = iota
	RemoveColor
	Cover
	Give
	Take
	PlusOne
)

var actionNames = [NumActions]string{"REMOVE_TYPE", "REMOVE_COLOR", "COVER", "GIVE", "TAKE", "PLUS_ONE"}

func (a Action) String() string {
	if a < 0 || int(a) >= NumActions {
		return "?"
	}
	return actionNames[a]
}

// IsRemoval reports whether the action discards matching piles.
func (a Action) IsRemoval() bool {
	return a == RemoveKind || a == RemoveColor
}

// Kind is the creature printed on a card. It is fully determined by color and
// action.
type Kind int8

const (
	Dragon Kind = iota
	Goose
	Cat
	Unicorn
	Frog
	Zombie
)

var kindNames = [NumColors]string{"DRAGON", "GOOSE", "CAT", "UNICORN", "FROG", "ZOMBIE"}

func (k Kind) String() string {
	if k < 0 || int(k) >= NumColors {
		return "?"
	}
	return kindNames[k]
}

// CardID identifies one of the 36 cards. None marks an absent card.
type CardID int8

// None is the absent card.
const None CardID = -1

// Card holds the immutable attributes of a card.
type Card struct {
	ID     CardID
	Color  Color
	Action Action
	Kind   Kind

	// Only meaningful for RemoveColor and RemoveKind cards.
	RemovesColor Color
	RemovesKind  Kind
}

var deck = buildDeck()

func buildDeck() [DeckSize]Card {
	var d [DeckSize]Card
	for i := range d {
		color := Color(i % NumColors)
		action := Action(i / NumColors)
		kind := Kind((int(color) - int(action) + NumColors) % NumColors)
		d[i] = Card{
			ID:           CardID(i),
			Color:        color,
			Action:       action,
			Kind:         kind,
			RemovesColor: Color((int(color) + 1) % NumColors),
			RemovesKind:  Kind((int(kind) + NumColors - 1) % NumColors),
		}
	}
	return d
}

// Deck returns all 36 cards ordered by ID.
func Deck() [DeckSize]Card {
	return deck
}

// Get returns the attributes of a card.
func Get(id CardID) Card {
	return deck[id]
}

// ID returns the card with the given color and action.
func ID(color Color, action Action) CardID {
	return CardID(int(action)*NumColors + int(color))
}

// Valid reports whether id names a real card.
func (id CardID) Valid() bool {
	return id >= 0 && int(id) < DeckSize
}

func (id CardID) Color() Color   { return deck[id].Color }
func (id CardID) Action() Action { return deck[id].Action }
func (id CardID) Kind() Kind     { return deck[id].Kind }

// Matches reports whether a removal card id discards a pile showing face.
func (id CardID) Matches(face CardID) bool {
	c := deck[id]
	switch c.Action {
	case RemoveColor:
		return deck[face].Color == c.RemovesColor
	case RemoveKind:
		return deck[face].Kind == c.RemovesKind
	}
	return false
}

// String returns a name such as "RED/TAKE" that Parse accepts.
func (id CardID) String() string {
	if id == None {
		return "-"
	}
	if !id.Valid() {
		return "?"
	}
	c := deck[id]
	return c.Color.String() + "/" + c.Action.String()
}

// Describe returns a longer description including the kind and removal target.
func (c Card) Describe() string {
	s := fmt.Sprintf("%s %s %s", c.Color, c.Kind, c.Action)
	switch c.Action {
	case RemoveKind:
		s += ":" + c.RemovesKind.String()
	case RemoveColor:
		s += ":" + c.RemovesColor.String()
	}
	return s
}

// Parse accepts "color/action" (case insensitive, "-" may replace "_") or a
// numeric card ID.
func Parse(s string) (CardID, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= DeckSize {
			return None, fmt.Errorf("%w: id %d out of range", ErrUnknownCard, n)
		}
		return CardID(n), nil
	}

	colorStr, actionStr, ok := strings.Cut(strings.ToUpper(s), "/")
	if !ok {
		return None, fmt.Errorf("%w: %q (want color/action)", ErrUnknownCard, s)
	}
	actionStr = strings.ReplaceAll(actionStr, "-", "_")
	if actionStr == "REMOVE_KIND" {
		actionStr = "REMOVE_TYPE"
	}

	color, action := -1, -1
	for i, name := range colorNames {
		if name == colorStr {
			color = i
		}
	}
	for i, name := range actionNames {
		if name == actionStr {
			action = i
		}
	}
	if color < 0 || action < 0 {
		return None, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
	return ID(Color(color), Action(action)), nil
}

// ParseList parses a comma or whitespace separated list of card names.
func ParseList(s string) ([]CardID, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ids := make([]CardID, 0, len(fields))
	for _, f := range fields {
		id, err := Parse(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
