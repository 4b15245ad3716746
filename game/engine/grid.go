package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Grid is a rectangular, row-major array of cells
type Grid struct {
	cols  int
	rows  int
	cells []Cell
}

// NewGrid allocates a grid with every cell set to Wall
func NewGrid(cols, rows int) *Grid {
	return &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
	}
}

// ParseGrid builds a grid from text rows using '#' for wall and '.' for path.
// The player and goal markers are read as path.
func ParseGrid(layout []string) (*Grid, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidDimensions)
	}
	cols := len(layout[0])
	g := NewGrid(cols, len(layout))
	for y, row := range layout {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidDimensions, y, len(row), cols)
		}
		for x := 0; x < cols; x++ {
			switch row[x] {
			case WallChar:
			case PathChar, PlayerChar, GoalChar:
				g.cells[y*cols+x] = Path
			default:
				return nil, fmt.Errorf("invalid character '%c' at row %d, col %d", row[x], y, x)
			}
		}
	}
	return g, nil
}

// Cols returns the grid width
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether (x, y) lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// At returns the cell at (x, y); out of bounds reads as Wall
func (g *Grid) At(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[y*g.cols+x]
}

// IsPath reports whether p is an in-bounds path cell
func (g *Grid) IsPath(p Position) bool {
	return g.At(p.X, p.Y) == Path
}

func (g *Grid) set(x, y int, c Cell) {
	g.cells[y*g.cols+x] = c
}

// Equal reports whether two grids have the same size and cells
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.cols != other.cols || g.rows != other.rows {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Layout returns the grid as text rows
func (g *Grid) Layout() []string {
	rows := make([]string, g.rows)
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		b.Reset()
		for x := 0; x < g.cols; x++ {
			if g.At(x, y) == Path {
				b.WriteByte(PathChar)
			} else {
				b.WriteByte(WallChar)
			}
		}
		rows[y] = b.String()
	}
	return rows
}

// String renders the grid as newline separated rows
func (g *Grid) String() string {
	return strings.Join(g.Layout(), "\n")
}

// MarshalJSON encodes the grid as its text layout
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Layout())
}

// UnmarshalJSON decodes a text layout produced by MarshalJSON
func (g *Grid) UnmarshalJSON(data []byte) error {
	var layout []string
	if err := json.Unmarshal(data, &layout); err != nil {
		return err
	}
	parsed, err := ParseGrid(layout)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
