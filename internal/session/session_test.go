package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pileclear/internal/advisor"
	"github.com/lox/pileclear/internal/history"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	opts := advisor.DefaultOptions()
	opts.Trials = 30
	opts.NodesPerTrial = 100
	opts.ExactNodes = 200_000
	return Config{
		Games:    3,
		Seed:     100,
		MaxTurns: 200,
		Verify:   true,
		Advisor:  opts,
		Logger:   zerolog.Nop(),
		Clock:    quartz.NewMock(t),
	}
}

func TestRunRecordsEveryGame(t *testing.T) {
	cfg := testConfig(t)
	clock := quartz.NewMock(t)
	cfg.Clock = clock

	var mu sync.Mutex
	calls := make(map[int]int)
	cfg.OnTurn = func(ev TurnEvent) {
		mu.Lock()
		calls[ev.Game]++
		mu.Unlock()
		assert.Contains(t, []int{0, 1}, ev.Advice.Player)
		clock.Advance(time.Second).MustWait(context.Background())
	}

	r, err := New(cfg)
	require.NoError(t, err)
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, report.Stats.Games)
	require.Len(t, report.Games, 3)
	for i, result := range report.Results {
		assert.Equal(t, cfg.Seed+int64(i), result.Seed)
		assert.Equal(t, time.Duration(calls[i])*time.Second, result.Duration, "game %d", i)
		assert.False(t, result.Capped)

		tr := report.Games[i]
		assert.Len(t, tr.Turns, result.Turns)
		final, err := tr.Replay()
		require.NoError(t, err, "game %d", i)
		assert.Equal(t, result.Piles, final.PileCount())
		if result.Won {
			assert.Equal(t, history.ResultWin, tr.Result)
			assert.True(t, final.Won())
		} else {
			assert.Equal(t, history.ResultLoss, tr.Result)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func(parallel int) *Report {
		cfg := testConfig(t)
		cfg.Games = 4
		cfg.Parallel = parallel
		r, err := New(cfg)
		require.NoError(t, err)
		report, err := r.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	a, b := run(1), run(3)
	assert.Equal(t, a.Results, b.Results)
	for i := range a.Games {
		assert.Equal(t, a.Games[i].Deal, b.Games[i].Deal)
		assert.Equal(t, a.Games[i].Turns, b.Games[i].Turns)
	}
}

func TestTurnLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxTurns = 1
	r, err := New(cfg)
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	for _, result := range report.Results {
		assert.False(t, result.Won)
		assert.LessOrEqual(t, result.Turns, 1)
		if result.Capped {
			assert.Equal(t, 1, result.Turns)
		}
	}
	assert.Equal(t, report.Stats.Losses, report.Stats.Games)
}

func TestRunAppendsHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Games = 2
	cfg.History = filepath.Join(t.TempDir(), "games.toml")
	r, err := New(cfg)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.NoError(t, err)
	_, err = r.Run(context.Background())
	require.NoError(t, err)

	games, err := history.Load(cfg.History)
	require.NoError(t, err)
	require.Len(t, games, 4)
	assert.Equal(t, games[0].Turns, games[2].Turns)
	assert.NotEqual(t, games[0].ID, games[2].ID)
}

func TestRunCancelled(t *testing.T) {
	r, err := New(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewValidates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Games = 0
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.HandSize = 20
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Advisor.Trials = 0
	_, err = New(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.MaxTurns = 0
	_, err = New(cfg)
	assert.Error(t, err)
}
