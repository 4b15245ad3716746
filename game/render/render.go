// Package render draws mazes as text and images. It only reads engine
// values; nothing here changes game state.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"

	"github.com/wricardo/mazequest/game/engine"
)

// MaxScale bounds the pixels per cell of PNG output
const MaxScale = 64

// Scene is what to draw on top of a grid
type Scene struct {
	Grid   *engine.Grid
	Player *engine.Position
	Goal   *engine.Position
	// Route cells are drawn with RouteChar / the route colour
	Route []engine.Position
}

// RouteChar marks hint cells in ASCII output
const RouteChar = '*'

// Palette used by PNG
var (
	WallColor   = color.RGBA{R: 0x2b, G: 0x2d, B: 0x42, A: 0xff}
	PathColor   = color.RGBA{R: 0xed, G: 0xf2, B: 0xf4, A: 0xff}
	PlayerColor = color.RGBA{R: 0xef, G: 0x23, B: 0x3c, A: 0xff}
	GoalColor   = color.RGBA{R: 0x2a, G: 0x9d, B: 0x8f, A: 0xff}
	RouteColor  = color.RGBA{R: 0xff, G: 0xd1, B: 0x66, A: 0xff}
)

// SceneFromState builds the scene for the current level of a game
func SceneFromState(state *engine.GameState) Scene {
	player := state.PlayerPos
	goal := state.Goal
	return Scene{Grid: state.Grid, Player: &player, Goal: &goal}
}

// ASCII returns one line per row. The player wins over the goal when both
// share a cell.
func ASCII(s Scene) string {
	if s.Grid == nil {
		return ""
	}
	rows := make([][]byte, s.Grid.Rows())
	for y, line := range s.Grid.Layout() {
		rows[y] = []byte(line)
	}
	put := func(p engine.Position, c byte) {
		if s.Grid.InBounds(p.X, p.Y) {
			rows[p.Y][p.X] = c
		}
	}
	for _, p := range s.Route {
		put(p, RouteChar)
	}
	if s.Goal != nil {
		put(*s.Goal, engine.GoalChar)
	}
	if s.Player != nil {
		put(*s.Player, engine.PlayerChar)
	}

	var b strings.Builder
	for y, row := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.Write(row)
	}
	return b.String()
}

// Image draws the scene at one pixel per cell and scales it up with
// nearest-neighbour sampling so cells stay sharp
func Image(s Scene, scale int) (*image.RGBA, error) {
	if s.Grid == nil {
		return nil, fmt.Errorf("render: nil grid")
	}
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("render: scale %d out of range 1..%d", scale, MaxScale)
	}

	cols, rows := s.Grid.Cols(), s.Grid.Rows()
	small := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := WallColor
			if s.Grid.At(x, y) == engine.Path {
				c = PathColor
			}
			small.SetRGBA(x, y, c)
		}
	}
	for _, p := range s.Route {
		small.SetRGBA(p.X, p.Y, RouteColor)
	}
	if s.Goal != nil {
		small.SetRGBA(s.Goal.X, s.Goal.Y, GoalColor)
	}
	if s.Player != nil {
		small.SetRGBA(s.Player.X, s.Player.Y, PlayerColor)
	}

	if scale == 1 {
		return small, nil
	}
	big := image.NewRGBA(image.Rect(0, 0, cols*scale, rows*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)
	return big, nil
}

// PNG encodes the scaled scene to w
func PNG(w io.Writer, s Scene, scale int) error {
	img, err := Image(s, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
