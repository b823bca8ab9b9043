package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/game"
)

func TestOrderRemovers(t *testing.T) {
	zombies := id(cards.Green, cards.RemoveKind)  // two zombie faces on the table
	greens := id(cards.Yellow, cards.RemoveColor) // no green faces
	cover := id(cards.Blue, cards.Cover)
	s := mustPosition(t, game.Position{
		Hands: [game.Players][]cards.CardID{{greens, cover, zombies}, nil},
		Table: [][]cards.CardID{{id(cards.Red, cards.Cover)}, {id(cards.Gray, cards.Give)}},
	})

	moves := s.LegalMoves(0, nil)
	require.Len(t, moves, 4)
	generated := append([]game.Move(nil), moves...)

	Order(s, moves)
	assert.ElementsMatch(t, generated, moves)
	assert.Equal(t, zombies, moves[0].Card)
	assert.Equal(t, greens, moves[3].Card)
}

func TestOrderTakes(t *testing.T) {
	take := id(cards.Yellow, cards.Take)
	plusOne := id(cards.Purple, cards.PlusOne)
	remover := id(cards.Green, cards.RemoveColor)
	s := mustPosition(t, game.Position{
		Hands: [game.Players][]cards.CardID{{take}, nil},
		Table: [][]cards.CardID{{plusOne}, {remover}, {id(cards.Blue, cards.Cover)}},
	})

	moves := s.LegalMoves(0, nil)
	require.Len(t, moves, 3)
	Order(s, moves)
	assert.Equal(t, game.Move{Card: take, Extra: remover}, moves[0])
	assert.Equal(t, game.Move{Card: take, Extra: plusOne}, moves[2])
}

func TestOrderPromotesDoublePlusOne(t *testing.T) {
	p1, p2 := id(cards.Green, cards.PlusOne), id(cards.Red, cards.PlusOne)
	s := mustPosition(t, game.Position{
		Hands: [game.Players][]cards.CardID{{p1, id(cards.Blue, cards.Cover), p2}, nil},
	})
	moves := s.LegalMoves(0, nil)
	Order(s, moves)
	assert.Equal(t, game.Move{Card: p1, Extra: p2}, moves[0])
}

func TestFeasibleCountsCovers(t *testing.T) {
	stuck := game.Position{
		Table: [][]cards.CardID{
			{id(cards.Gray, cards.Take)},
			{id(cards.Yellow, cards.Give)},
			{id(cards.Purple, cards.PlusOne)},
			{id(cards.Red, cards.Give)},
		},
		Hands: [game.Players][]cards.CardID{{id(cards.Red, cards.RemoveKind)}, nil},
	}
	assert.False(t, Feasible(mustPosition(t, stuck)))

	stuck.Hands[1] = []cards.CardID{id(cards.Gray, cards.Cover)} // a dragon
	s := mustPosition(t, stuck)
	require.Equal(t, 1, s.CoverCount())
	assert.True(t, Feasible(s))

	assert.True(t, Feasible(game.NewState()))
}
