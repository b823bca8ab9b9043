// Package history records self-play games as TOML transcripts that can be
// replayed move by move.
package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/lox/pileclear/internal/cards"
	"github.com/lox/pileclear/internal/fileutil"
	"github.com/lox/pileclear/internal/game"
)

// Game results as written to transcripts.
const (
	ResultWin    = "win"
	ResultLoss   = "loss"
	ResultCapped = "capped"
)

// Transcript is one complete game.
type Transcript struct {
	ID       string    `toml:"id"`
	Seed     int64     `toml:"seed"`
	RNG      string    `toml:"rng,omitempty"`
	HandSize int       `toml:"hand_size"`
	Started  time.Time `toml:"started"`
	Result   string    `toml:"result"`
	Deal     Deal      `toml:"deal"`
	Turns    []Turn    `toml:"turns"`
}

// Deal is the position before the first move.
type Deal struct {
	Hands [game.Players][]string `toml:"hands"`
	Draw  []string               `toml:"draw"` // bottom first
}

// Turn is one committed move and the statistics behind it.
type Turn struct {
	Number   int    `toml:"number"`
	Player   int    `toml:"player"`
	Move     string `toml:"move"`
	Exact    bool   `toml:"exact,omitempty"`
	Trials   int    `toml:"trials"`
	Wins     int    `toml:"wins"`
	Losses   int    `toml:"losses"`
	Unknowns int    `toml:"unknowns"`
	Nodes    uint64 `toml:"nodes"`
	Piles    int    `toml:"piles"`
}

type file struct {
	Games []Transcript `toml:"game"`
}

// NewID returns a time-ordered game ID.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewTranscript starts a transcript for a freshly dealt game.
func NewTranscript(s *game.State, seed int64, started time.Time) *Transcript {
	t := &Transcript{
		ID:      NewID(),
		Seed:    seed,
		Started: started.UTC(),
	}
	for p := range t.Deal.Hands {
		t.Deal.Hands[p] = names(s.Hand(p))
	}
	t.Deal.Draw = names(s.Draw())
	t.HandSize = s.HandLen(0)
	return t
}

// Record appends a committed move.
func (t *Transcript) Record(turn Turn) {
	turn.Number = len(t.Turns) + 1
	t.Turns = append(t.Turns, turn)
}

// Replay rebuilds the game from the deal and plays every recorded move,
// returning the final state.
func (t *Transcript) Replay() (*game.State, error) {
	var pos game.Position
	for p, hand := range t.Deal.Hands {
		ids, err := parse(hand)
		if err != nil {
			return nil, fmt.Errorf("game %s: hand %d: %w", t.ID, p, err)
		}
		pos.Hands[p] = ids
	}
	draw, err := parse(t.Deal.Draw)
	if err != nil {
		return nil, fmt.Errorf("game %s: draw: %w", t.ID, err)
	}
	pos.Draw = draw

	s, err := game.FromPosition(pos)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", t.ID, err)
	}
	for _, turn := range t.Turns {
		m, err := game.ParseMove(turn.Move)
		if err != nil {
			return nil, fmt.Errorf("game %s turn %d: %w", t.ID, turn.Number, err)
		}
		if _, err := s.Play(turn.Player, m); err != nil {
			return nil, fmt.Errorf("game %s turn %d: %w", t.ID, turn.Number, err)
		}
	}
	return s, nil
}

// Encode writes transcripts as a TOML document with one [[game]] table each.
func Encode(w io.Writer, games []Transcript) error {
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(file{Games: games})
}

// Decode reads transcripts written by Encode.
func Decode(r io.Reader) ([]Transcript, error) {
	var f file
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode history: unknown key %q", undecoded[0].String())
	}
	return f.Games, nil
}

// Save writes transcripts to path atomically.
func Save(path string, games []Transcript) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, games)
	})
}

// Load reads transcripts from path. A missing file holds no games.
func Load(path string) ([]Transcript, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func names(ids []cards.CardID) []string {
	out := make([]string, len(ids))
	for i, c := range ids {
		out[i] = c.String()
	}
	return out
}

func parse(names []string) ([]cards.CardID, error) {
	ids := make([]cards.CardID, len(names))
	for i, n := range names {
		c, err := cards.Parse(n)
		if err != nil {
			return nil, err
		}
		ids[i] = c
	}
	return ids, nil
}
