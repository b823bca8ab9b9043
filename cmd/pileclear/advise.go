package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lox/pileclear/internal/advisor"
	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/display"
	"github.com/lox/pileclear/internal/game"
)

// AdviseCmd recommends a move for a position described card by card. The
// player asking is player 1; cards not listed anywhere, and not discarded,
// are unseen.
type AdviseCmd struct {
	Hand      string   `required:"" help:"Your hand, e.g. red/take,green/cover"`
	Opponent  int      `required:"" help:"Number of cards in the opponent's hand"`
	Revealed  string   `help:"Opponent cards you have seen"`
	Table     []string `help:"A pile from bottom to face; repeat for each pile" sep:"none"`
	Discarded string   `help:"Cards removed from play"`
	Seed      int64    `help:"Seed for the determinization trials" default:"1"`
	Trials    *int     `help:"Determinization trials"`
	Nodes     *int     `help:"Search node budget per trial"`
	Line      bool     `help:"Print the winning line"`
}

func (c *AdviseCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	if c.Trials != nil {
		cfg.Solver.Trials = *c.Trials
	}
	if c.Nodes != nil {
		cfg.Solver.NodesPerTrial = *c.Nodes
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	pos, err := c.position()
	if err != nil {
		return err
	}
	s, err := game.FromPosition(pos)
	if err != nil {
		return err
	}

	rec, err := advisor.Recommend(s, 0, cfg.Solver.AdvisorOptions(c.Seed, logger))
	if err != nil {
		return err
	}

	out := display.New(os.Stdout, !g.NoColor)
	out.State(s)
	fmt.Fprintln(os.Stdout)
	out.Tallies(rec)
	if c.Line && len(rec.Line) > 0 {
		out.Line(rec.Line)
	}
	return nil
}

func (c *AdviseCmd) position() (game.Position, error) {
	var pos game.Position
	var err error

	if pos.Hands[0], err = cards.ParseList(c.Hand); err != nil {
		return pos, fmt.Errorf("hand: %w", err)
	}
	if pos.Revealed, err = cards.ParseList(c.Revealed); err != nil {
		return pos, fmt.Errorf("revealed: %w", err)
	}
	for _, arg := range c.Table {
		pile, err := cards.ParseList(arg)
		if err != nil {
			return pos, fmt.Errorf("table: %w", err)
		}
		pos.Table = append(pos.Table, pile)
	}
	discarded, err := cards.ParseList(c.Discarded)
	if err != nil {
		return pos, fmt.Errorf("discarded: %w", err)
	}

	if c.Opponent < len(pos.Revealed) {
		return pos, fmt.Errorf("opponent holds %d cards but %d are revealed", c.Opponent, len(pos.Revealed))
	}

	var known [cards.DeckSize]bool
	mark := func(ids []cards.CardID) {
		for _, id := range ids {
			known[id] = true
		}
	}
	mark(pos.Hands[0])
	mark(pos.Revealed)
	mark(discarded)
	for _, pile := range pos.Table {
		mark(pile)
	}

	var unseen []cards.CardID
	for id := cards.CardID(0); id < cards.DeckSize; id++ {
		if !known[id] {
			unseen = append(unseen, id)
		}
	}

	// Hidden opponent cards are placeholders; the advisor redeals them.
	hidden := c.Opponent - len(pos.Revealed)
	if hidden > len(unseen) {
		return pos, errors.New("not enough unseen cards for the opponent's hand")
	}
	pos.Hands[1] = append(append([]cards.CardID{}, pos.Revealed...), unseen[:hidden]...)
	pos.Draw = unseen[hidden:]
	return pos, nil
}
