package main

import (
	"os"

	"github.com/lox/pileclear/internal/display"
)

type DeckCmd struct{}

func (c *DeckCmd) Run(g *Globals) error {
	display.New(os.Stdout, !g.NoColor).Deck()
	return nil
}
