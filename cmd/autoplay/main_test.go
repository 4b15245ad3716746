package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mazequest/api"
	"github.com/wricardo/mazequest/game/config"
	"github.com/wricardo/mazequest/game/engine"
	"github.com/wricardo/mazequest/game/service"
	"github.com/wricardo/mazequest/game/session"
)

func TestOpposite(t *testing.T) {
	for _, d := range engine.Directions {
		assert.Equal(t, d, opposite(opposite(d)))
		assert.NotEqual(t, d, opposite(d))
	}
	assert.Equal(t, engine.Direction(""), opposite("sideways"))
}

func TestExplorerSolvesEngine(t *testing.T) {
	cfg := engine.DefaultConfig()
	for _, seed := range []int64{1, 2, 3, 42} {
		eng, err := engine.NewEngine(cfg, seed)
		require.NoError(t, err)

		explorer := NewExplorer()
		// every path cell is entered at most twice per level
		budget := 0
		for level := 1; level <= cfg.MaxLevel; level++ {
			size := cfg.SizeForLevel(level)
			budget += 2 * size * size
		}

		moves := 0
		for !eng.IsGameOver() && moves < budget {
			d := explorer.NextMove(eng.GetState())
			require.NotEmpty(t, d, "seed %d: explorer gave up at %s", seed, eng.GetPlayerPosition())

			outcome, err := eng.SubmitMove(string(d))
			require.NoError(t, err)
			assert.NotEqual(t, engine.Blocked, outcome.Result, "explorer only takes open directions")
			moves++
		}

		assert.True(t, eng.IsVictory(), "seed %d not solved in %d moves", seed, moves)
		assert.Equal(t, cfg.ScorePerLevel*cfg.MaxLevel, eng.GetScore())
	}
}

func TestExplorerGameOver(t *testing.T) {
	explorer := NewExplorer()
	assert.Equal(t, engine.Direction(""), explorer.NextMove(nil))
	assert.Equal(t, engine.Direction(""), explorer.NextMove(&engine.GameState{GameOver: true}))
}

func TestExplorerBacktracks(t *testing.T) {
	explorer := NewExplorer()
	start := &engine.GameState{
		Level:         1,
		PlayerPos:     engine.Position{X: 1, Y: 1},
		Goal:          engine.Position{X: 3, Y: 3},
		PossibleMoves: []engine.Direction{engine.Right},
	}
	require.Equal(t, engine.Right, explorer.NextMove(start))
	assert.Equal(t, 1, explorer.Depth())

	// dead end at (2,1): the only way out is back
	deadEnd := &engine.GameState{
		Level:         1,
		PlayerPos:     engine.Position{X: 2, Y: 1},
		Goal:          engine.Position{X: 3, Y: 3},
		PossibleMoves: []engine.Direction{engine.Left},
	}
	assert.Equal(t, engine.Left, explorer.NextMove(deadEnd))
	assert.Equal(t, 0, explorer.Depth())

	// nothing left to try
	assert.Equal(t, engine.Direction(""), explorer.NextMove(start))

	// a new level starts from scratch
	start.Level = 2
	assert.Equal(t, engine.Right, explorer.NextMove(start))
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	small := `{"name":"small","description":"test","base_size":3,"growth_per_level":2,"max_level":2,"score_per_level":25,"messages":{"welcome":"hi","victory":"won %d"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.json"), []byte(small), 0644))

	configs, err := config.NewManager(dir)
	require.NoError(t, err)
	svc := service.NewGameService(session.NewManager(), configs, nil)

	srv := httptest.NewServer(api.NewServer(svc, nil))
	t.Cleanup(srv.Close)
	return srv
}

func TestPlayOverAPI(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	client := NewClient(srv.URL)

	seed := int64(5)
	info, err := client.CreateSession(ctx, "small", &seed)
	require.NoError(t, err)
	require.NotEmpty(t, client.SessionID())
	assert.Equal(t, int64(5), info.Seed)

	res, err := play(ctx, client, NewExplorer(), info.GameState, 1000, 0, false)
	require.NoError(t, err)
	assert.True(t, res.State.Victory)
	assert.Equal(t, 50, res.State.Score)
	assert.Zero(t, res.Blocked)
	assert.Greater(t, res.Moves, 0)

	state, err := client.GetState(ctx)
	require.NoError(t, err)
	assert.True(t, state.GameOver)
	assert.Equal(t, res.Moves, state.TotalMoves)

	// a finished game refuses further moves
	_, err = client.Move(ctx, engine.Up)
	assert.Error(t, err)

	state, err = client.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Level)
	assert.False(t, state.GameOver)
}

func TestPlayMoveLimit(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	client := NewClient(srv.URL)

	info, err := client.CreateSession(ctx, "small", nil)
	require.NoError(t, err)

	res, err := play(ctx, client, NewExplorer(), info.GameState, 1, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Moves)
	assert.False(t, res.State.GameOver)
}

func TestClientErrors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	client := NewClient(srv.URL)

	_, err := client.Resume(ctx, "missing1")
	assert.Error(t, err)

	_, err = client.CreateSession(ctx, "nope", nil)
	assert.Error(t, err)
}
