package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mazequest/game/engine"
	"github.com/wricardo/mazequest/game/service"
)

type fakeRecorder struct {
	gameID string
	scores []int
}

func (f *fakeRecorder) Record(ctx context.Context, gameID string, score int) (*service.ProgressRecord, error) {
	f.gameID = gameID
	f.scores = append(f.scores, score)
	return &service.ProgressRecord{GameID: gameID, BestScore: score, Plays: len(f.scores)}, nil
}

func smallConfig() *engine.GameConfig {
	cfg := engine.DefaultConfig()
	cfg.BaseSize = 3
	cfg.GrowthPerLevel = 2
	cfg.MaxLevel = 2
	cfg.ScorePerLevel = 10
	return cfg
}

func newTestApp(t *testing.T, rec Recorder) (*App, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	screen.SetSize(60, 30)
	t.Cleanup(screen.Fini)

	eng, err := engine.NewEngine(smallConfig(), 11)
	require.NoError(t, err)
	return New(screen, eng, "maze:small", rec), screen
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }

func runeKey(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

// keyFor returns a key press that moves in d, cycling through the bindings
func keyFor(d engine.Direction, i int) *tcell.EventKey {
	bindings := map[engine.Direction][]*tcell.EventKey{
		engine.Up:    {key(tcell.KeyUp), runeKey('w'), runeKey('k')},
		engine.Down:  {key(tcell.KeyDown), runeKey('s'), runeKey('j')},
		engine.Left:  {key(tcell.KeyLeft), runeKey('a'), runeKey('h')},
		engine.Right: {key(tcell.KeyRight), runeKey('d'), runeKey('l')},
	}
	keys := bindings[d]
	return keys[i%len(keys)]
}

func screenText(s tcell.SimulationScreen) []string {
	cells, width, height := s.GetContents()
	lines := make([]string, height)
	for y := 0; y < height; y++ {
		var b strings.Builder
		for x := 0; x < width; x++ {
			runes := cells[y*width+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

func TestKeyDirection(t *testing.T) {
	for _, d := range []engine.Direction{engine.Up, engine.Down, engine.Left, engine.Right} {
		for i := 0; i < 3; i++ {
			got, ok := keyDirection(keyFor(d, i))
			assert.True(t, ok)
			assert.Equal(t, d, got)
		}
	}
	_, ok := keyDirection(runeKey('x'))
	assert.False(t, ok)
	_, ok = keyDirection(key(tcell.KeyEnter))
	assert.False(t, ok)
}

func TestHandleKey_QuitKeys(t *testing.T) {
	app, _ := newTestApp(t, nil)
	ctx := context.Background()

	assert.True(t, app.HandleKey(ctx, runeKey('q')))
	assert.True(t, app.HandleKey(ctx, key(tcell.KeyEscape)))
	assert.True(t, app.HandleKey(ctx, key(tcell.KeyCtrlC)))
	assert.False(t, app.HandleKey(ctx, runeKey('x')))
}

func TestHandleKey_WallBump(t *testing.T) {
	app, _ := newTestApp(t, nil)

	// (1,0) is always border wall
	assert.False(t, app.HandleKey(context.Background(), key(tcell.KeyUp)))
	assert.Equal(t, engine.StartPosition(), app.engine.GetPlayerPosition())
	assert.Equal(t, 1, app.engine.GetState().TotalMoves)
}

func TestPlayToVictoryRecordsProgress(t *testing.T) {
	rec := &fakeRecorder{}
	app, screen := newTestApp(t, rec)
	ctx := context.Background()

	for level := 1; level <= 2; level++ {
		route, err := app.engine.Hint()
		require.NoError(t, err)
		for i, d := range route {
			app.HandleKey(ctx, keyFor(d, i))
		}
		if level == 1 {
			assert.Equal(t, 2, app.engine.Level())
		}
	}

	require.True(t, app.engine.IsVictory())
	assert.Equal(t, []int{20}, rec.scores)
	assert.Equal(t, "maze:small", rec.gameID)

	app.Draw()
	text := strings.Join(screenText(screen), "\n")
	assert.Contains(t, text, "Level 2/2  Score 20")
	assert.Contains(t, text, "Victory! Best score 20")

	// moves after the end are reported, not applied
	app.HandleKey(ctx, key(tcell.KeyLeft))
	assert.Len(t, rec.scores, 1)

	// restart
	app.HandleKey(ctx, runeKey('r'))
	assert.Equal(t, 1, app.engine.Level())
	assert.False(t, app.engine.IsGameOver())
	assert.Equal(t, engine.StartPosition(), app.engine.GetPlayerPosition())
}

func TestDraw(t *testing.T) {
	app, screen := newTestApp(t, nil)
	app.Draw()

	lines := screenText(screen)
	state := app.engine.GetState()
	require.Equal(t, state.Grid.Layout()[0], lines[0])
	assert.Equal(t, '@', rune(lines[1][1]))
	goal := state.Goal
	assert.Equal(t, 'G', rune(lines[goal.Y][goal.X]))
	assert.Contains(t, strings.Join(lines, "\n"), helpLine)

	_, style, _ := cellContent(screen, 1, 1)
	assert.Equal(t, playerStyle, style)
}

func cellContent(s tcell.SimulationScreen, x, y int) (rune, tcell.Style, int) {
	mainc, _, style, width := s.GetContent(x, y)
	return mainc, style, width
}

func TestRun(t *testing.T) {
	t.Run("quit key", func(t *testing.T) {
		app, screen := newTestApp(t, nil)
		done := make(chan error, 1)
		go func() { done <- app.Run(context.Background()) }()

		screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after q")
		}
	})

	t.Run("context cancel", func(t *testing.T) {
		app, _ := newTestApp(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.Run(ctx) }()

		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancel")
		}
	})
}
