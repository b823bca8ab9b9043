package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckAttributes(t *testing.T) {
	d := Deck()
	seen := make(map[[2]int]bool)
	kinds := make(map[[2]int]bool)

	for i, c := range d {
		assert.Equal(t, CardID(i), c.ID)
		assert.Equal(t, Kind((int(c.Color)-int(c.Action)+6)%6), c.Kind)
		assert.Equal(t, c.ID, ID(c.Color, c.Action))
		seen[[2]int{int(c.Color), int(c.Action)}] = true
		kinds[[2]int{int(c.Color), int(c.Kind)}] = true
	}

	assert.Len(t, seen, DeckSize, "one card per (color, action)")
	assert.Len(t, kinds, DeckSize, "one card per (color, kind)")
}

func TestRemovalTargetsAreUnique(t *testing.T) {
	colors := make(map[Color]bool)
	kinds := make(map[Kind]bool)
	for _, c := range Deck() {
		switch c.Action {
		case RemoveColor:
			assert.NotEqual(t, c.Color, c.RemovesColor)
			colors[c.RemovesColor] = true
		case RemoveKind:
			kinds[c.RemovesKind] = true
		}
	}
	assert.Len(t, colors, NumColors)
	assert.Len(t, kinds, NumColors)
}

func TestMatches(t *testing.T) {
	remover := ID(Green, RemoveColor)
	require.Equal(t, Red, Get(remover).RemovesColor)

	assert.True(t, remover.Matches(ID(Red, Cover)))
	assert.True(t, remover.Matches(ID(Red, Take)))
	assert.False(t, remover.Matches(ID(Green, Take)))
	assert.False(t, ID(Green, Cover).Matches(ID(Red, Cover)))

	kindRemover := ID(Blue, RemoveKind)
	target := Get(kindRemover).RemovesKind
	for _, c := range Deck() {
		assert.Equal(t, c.Kind == target, kindRemover.Matches(c.ID), c.Describe())
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CardID
		wantErr bool
	}{
		{name: "upper case", input: "RED/TAKE", want: ID(Red, Take)},
		{name: "lower case with dash", input: "purple/plus-one", want: ID(Purple, PlusOne)},
		{name: "kind alias", input: "gray/remove_kind", want: ID(Gray, RemoveKind)},
		{name: "numeric id", input: "35", want: 35},
		{name: "numeric out of range", input: "36", wantErr: true},
		{name: "missing separator", input: "redtake", wantErr: true},
		{name: "unknown color", input: "pink/take", wantErr: true},
		{name: "unknown action", input: "red/steal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCard)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, c := range Deck() {
		got, err := Parse(c.ID.String())
		require.NoError(t, err)
		assert.Equal(t, c.ID, got)
	}
	assert.Equal(t, "-", None.String())
}

func TestParseList(t *testing.T) {
	ids, err := ParseList("red/take, green/cover  blue/give")
	require.NoError(t, err)
	assert.Equal(t, []CardID{ID(Red, Take), ID(Green, Cover), ID(Blue, Give)}, ids)

	_, err = ParseList("red/take,nope")
	assert.Error(t, err)
}
