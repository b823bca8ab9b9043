package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/game"
	"github.com/lox/pileclear/internal/search"
)

func TestBest(t *testing.T) {
	tests := []struct {
		name    string
		tallies []Tally
		want    int
		found   bool
	}{
		{"empty", nil, -1, false},
		{"all lost", []Tally{{Losses: 3}, {Losses: 1}}, -1, false},
		{"wins beat unknowns", []Tally{{Unknowns: 3}, {Wins: 2}}, 1, true},
		{"unknowns count as half", []Tally{{Wins: 1}, {Unknowns: 3}}, 1, true},
		{"ties go to the first seen", []Tally{{Wins: 1}, {Unknowns: 2}, {Wins: 1}}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := Best(tt.tallies)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTallySetKeepsFirstSeenOrder(t *testing.T) {
	a := game.Move{Card: id(cards.Red, cards.Cover), Extra: cards.None}
	b := game.Move{Card: id(cards.Blue, cards.Take), Extra: id(cards.Red, cards.Cover)}
	line := []game.Move{a}

	ts := newTallySet()
	ts.record(b, search.Loss, nil)
	ts.record(a, search.Unknown, nil)
	ts.record(b, search.Win, line)
	ts.record(b, search.Win, []game.Move{b, a})

	require.Len(t, ts.list, 2)
	assert.Equal(t, Tally{Move: b, Wins: 2, Losses: 1, Line: line}, ts.list[0])
	assert.Equal(t, Tally{Move: a, Unknowns: 1}, ts.list[1])
	assert.Equal(t, 4, ts.list[0].Score())
	assert.Equal(t, 3, ts.list[0].Trials())
}
