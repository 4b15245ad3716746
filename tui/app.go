// Package tui is the terminal player. It draws the current level with tcell
// and turns key presses into engine moves.
package tui

import (
	"context"
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/mazequest/game/engine"
	"github.com/wricardo/mazequest/game/render"
	"github.com/wricardo/mazequest/game/service"
)

// Recorder stores the score of a finished game. progress.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, gameID string, score int) (*service.ProgressRecord, error)
}

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	pathStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	goalStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	textStyle   = tcell.StyleDefault
	helpStyle   = tcell.StyleDefault.Foreground(tcell.ColorTeal)
)

const helpLine = "arrows/wasd/hjkl move  r restart  q quit"

// App runs one game on a screen
type App struct {
	screen   tcell.Screen
	engine   *engine.GameEngine
	gameID   string
	progress Recorder

	status string
	best   int
}

// New creates a player for eng. The screen must already be initialized.
// progress may be nil.
func New(screen tcell.Screen, eng *engine.GameEngine, gameID string, progress Recorder) *App {
	return &App{
		screen:   screen,
		engine:   eng,
		gameID:   gameID,
		progress: progress,
		status:   eng.GetConfig().Messages.Welcome,
	}
}

// Run draws the game and handles events until the player quits or ctx is done
func (a *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	a.Draw()
	for {
		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			a.screen.Sync()
			a.Draw()
		case *tcell.EventKey:
			if a.HandleKey(ctx, ev) {
				return nil
			}
			a.Draw()
		}
	}
}

// keyDirection maps a key to a move. ok is false for keys that do not move.
func keyDirection(ev *tcell.EventKey) (engine.Direction, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return engine.Up, true
	case tcell.KeyDown:
		return engine.Down, true
	case tcell.KeyLeft:
		return engine.Left, true
	case tcell.KeyRight:
		return engine.Right, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'k':
			return engine.Up, true
		case 's', 'j':
			return engine.Down, true
		case 'a', 'h':
			return engine.Left, true
		case 'd', 'l':
			return engine.Right, true
		}
	}
	return "", false
}

// HandleKey applies one key press and reports whether the player quit
func (a *App) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
		return true
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return true
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
		a.engine.Reset()
		a.status = "Restarted at level 1"
		return false
	}

	d, ok := keyDirection(ev)
	if !ok {
		return false
	}
	outcome, err := a.engine.SubmitMove(string(d))
	if err != nil {
		a.status = err.Error()
		return false
	}
	a.status = a.engine.GetState().Message
	if outcome.GameOver {
		a.record(ctx, outcome.Score)
	}
	return false
}

func (a *App) record(ctx context.Context, score int) {
	if a.progress == nil {
		return
	}
	rec, err := a.progress.Record(ctx, a.gameID, score)
	if err != nil {
		log.Printf("Warning: Failed to record progress for %s: %v", a.gameID, err)
		return
	}
	a.best = rec.BestScore
}

// Draw renders the maze and status lines
func (a *App) Draw() {
	a.screen.Clear()
	state := a.engine.GetState()

	lines := render.ASCII(render.SceneFromState(state))
	y := 0
	x := 0
	for _, r := range lines {
		if r == '\n' {
			y++
			x = 0
			continue
		}
		a.screen.SetContent(x, y, r, nil, cellStyle(r))
		x++
	}

	y += 2
	a.text(0, y, textStyle, fmt.Sprintf("Level %d/%d  Score %d  Moves %d", state.Level, state.MaxLevel, state.Score, state.TotalMoves))
	y++
	if state.Victory {
		a.text(0, y, goalStyle, fmt.Sprintf("Victory! Best score %d. Press r to play again.", a.best))
		y++
	}
	if a.status != "" {
		a.text(0, y, textStyle, a.status)
		y++
	}
	a.text(0, y, helpStyle, helpLine)
	a.screen.Show()
}

func (a *App) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func cellStyle(r rune) tcell.Style {
	switch r {
	case engine.PlayerChar:
		return playerStyle
	case engine.GoalChar:
		return goalStyle
	case engine.PathChar:
		return pathStyle
	default:
		return wallStyle
	}
}
