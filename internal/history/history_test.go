package history

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/game"
	"github.com/lox/pileclear/internal/randutil"
)

type view struct {
	Hands [game.Players][]cards.CardID
	Table [][]cards.CardID
	Draw  []cards.CardID
	Open  []cards.CardID
}

func viewOf(s *game.State) view {
	v := view{Table: s.Table(), Draw: s.Draw()}
	for p := range v.Hands {
		v.Hands[p] = s.Hand(p)
	}
	for c := cards.CardID(0); c < cards.DeckSize; c++ {
		if s.IsOpen(c) {
			v.Open = append(v.Open, c)
		}
	}
	return v
}

// playGame plays the first legal move each turn and records it.
func playGame(t *testing.T, seed int64, turns int) (*Transcript, *game.State) {
	t.Helper()
	s := game.Deal(randutil.New(seed), game.DefaultHandSize)
	tr := NewTranscript(s, seed, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	player := 0
	for i := 0; i < turns && !s.Lost(); i++ {
		if s.HandEmpty(player) {
			player = 1 - player
		}
		moves := s.LegalMoves(player, nil)
		if len(moves) == 0 {
			break
		}
		_, err := s.Play(player, moves[0])
		require.NoError(t, err)
		tr.Record(Turn{Player: player, Move: moves[0].String(), Trials: 1, Piles: s.PileCount()})
		player = 1 - player
	}
	tr.Result = ResultLoss
	return tr, s
}

func TestTranscriptReplay(t *testing.T) {
	tr, s := playGame(t, 4, 8)
	require.NotEmpty(t, tr.Turns)
	assert.Equal(t, 1, tr.Turns[0].Number)
	assert.Equal(t, game.DefaultHandSize, tr.HandSize)

	replayed, err := tr.Replay()
	require.NoError(t, err)
	require.NoError(t, replayed.Verify())
	assert.Equal(t, viewOf(s), viewOf(replayed))
}

func TestReplayRejectsIllegalMove(t *testing.T) {
	tr, _ := playGame(t, 4, 2)
	tr.Turns[1].Player = tr.Turns[0].Player
	tr.Turns[1].Move = tr.Turns[0].Move

	_, err := tr.Replay()
	assert.ErrorIs(t, err, game.ErrIllegalMove)
}

func TestEncodeDecode(t *testing.T) {
	a, _ := playGame(t, 1, 5)
	b, _ := playGame(t, 2, 5)
	b.Result = ResultWin
	b.RNG = "xoshiro"

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []Transcript{*a, *b}))
	assert.Contains(t, buf.String(), "[[game]]")

	games, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, games, 2)
	for i := range games {
		games[i].Started = games[i].Started.UTC()
	}
	assert.Equal(t, *a, games[0])
	assert.Equal(t, *b, games[1])
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("[[game]]\nid = \"x\"\ncolour = \"red\"\n"))
	assert.ErrorContains(t, err, "unknown key")
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.toml")

	games, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, games)

	tr, _ := playGame(t, 9, 6)
	require.NoError(t, Save(path, []Transcript{*tr}))

	games, err = Load(path)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, tr.ID, games[0].ID)

	_, err = games[0].Replay()
	assert.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, 36)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
