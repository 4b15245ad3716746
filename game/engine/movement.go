package engine

import "fmt"

// Navigator tracks one player position over a grid.
// It is not safe for concurrent use; MazeSession serializes access.
type Navigator struct {
	grid   *Grid
	pos    Position
	goal   Position
	status Status
	moves  int
}

// NewNavigator places a player at start with the given goal.
// Both positions must be path cells.
func NewNavigator(grid *Grid, start, goal Position) (*Navigator, error) {
	if grid == nil {
		return nil, fmt.Errorf("navigator: nil grid")
	}
	if !grid.IsPath(start) {
		return nil, fmt.Errorf("%w: start %s", ErrInvalidPosition, start)
	}
	if !grid.IsPath(goal) {
		return nil, fmt.Errorf("%w: goal %s", ErrInvalidPosition, goal)
	}
	return &Navigator{
		grid:   grid,
		pos:    start,
		goal:   goal,
		status: StatusIdle,
	}, nil
}

// Position returns the player's current cell
func (n *Navigator) Position() Position { return n.pos }

// Goal returns the goal cell
func (n *Navigator) Goal() Position { return n.goal }

// Status returns the level lifecycle state
func (n *Navigator) Status() Status { return n.status }

// Moves returns the number of accepted moves, blocked ones excluded
func (n *Navigator) Moves() int { return n.moves }

// Grid returns the grid being navigated
func (n *Navigator) Grid() *Grid { return n.grid }

// CanMove reports whether a move in d would leave the player on a path cell
func (n *Navigator) CanMove(d Direction) bool {
	if n.status == StatusComplete || !d.Valid() {
		return false
	}
	return n.grid.IsPath(n.pos.Add(d))
}

// PossibleMoves lists the open directions from the current cell
func (n *Navigator) PossibleMoves() []Direction {
	var possible []Direction
	for _, d := range Directions {
		if n.CanMove(d) {
			possible = append(possible, d)
		}
	}
	return possible
}

// Move steps the player one cell in d.
// Walls and the outside of the grid block the move without error.
func (n *Navigator) Move(d Direction) (MoveResult, error) {
	if !d.Valid() {
		return Blocked, fmt.Errorf("%w: %q", ErrUnknownDirection, string(d))
	}
	if n.status == StatusComplete {
		return Blocked, ErrLevelComplete
	}
	if n.status == StatusIdle {
		n.status = StatusInProgress
	}

	next := n.pos.Add(d)
	if !n.grid.IsPath(next) {
		return Blocked, nil
	}

	n.pos = next
	n.moves++
	if n.pos == n.goal {
		n.status = StatusComplete
		return Reached, nil
	}
	return Moved, nil
}

// LocalView returns the 3x3 neighborhood around the player as text rows.
// Cells outside the grid are shown as wall.
func (n *Navigator) LocalView() []string {
	view := make([]string, 3)
	for dy := -1; dy <= 1; dy++ {
		row := make([]byte, 3)
		for dx := -1; dx <= 1; dx++ {
			p := Position{X: n.pos.X + dx, Y: n.pos.Y + dy}
			switch {
			case dx == 0 && dy == 0:
				row[dx+1] = PlayerChar
			case p == n.goal:
				row[dx+1] = GoalChar
			case n.grid.IsPath(p):
				row[dx+1] = PathChar
			default:
				row[dx+1] = WallChar
			}
		}
		view[dy+1] = string(row)
	}
	return view
}
