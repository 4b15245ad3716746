package engine

import (
	"fmt"
	"sync"
)

// MazeSession owns the grid, player and goal for a single level.
// Moves are serialized so only one is ever in flight.
type MazeSession struct {
	mu    sync.Mutex
	level int
	seed  int64
	nav   *Navigator
}

// NewMazeSession generates a cols x rows maze from seed and places the
// player at the start
func NewMazeSession(level int, cols, rows int, seed int64) (*MazeSession, error) {
	grid, err := Generate(cols, rows, NewSource(seed))
	if err != nil {
		return nil, err
	}
	return newMazeSessionFromGrid(level, seed, grid, StartPosition())
}

func newMazeSessionFromGrid(level int, seed int64, grid *Grid, player Position) (*MazeSession, error) {
	nav, err := NewNavigator(grid, player, GoalPosition(grid.Cols(), grid.Rows()))
	if err != nil {
		return nil, err
	}
	switch player {
	case StartPosition():
	case nav.goal:
		nav.status = StatusComplete
	default:
		nav.status = StatusInProgress
	}
	return &MazeSession{level: level, seed: seed, nav: nav}, nil
}

// RestoreMazeSession rebuilds a level from its seed and checks it against a
// previously persisted grid. The player is placed at pos.
func RestoreMazeSession(level int, seed int64, persisted *Grid, pos Position) (*MazeSession, error) {
	if persisted == nil {
		return nil, fmt.Errorf("restore level %d: %w", level, ErrSeedMismatch)
	}
	grid, err := Generate(persisted.Cols(), persisted.Rows(), NewSource(seed))
	if err != nil {
		return nil, fmt.Errorf("restore level %d: %w", level, err)
	}
	if !grid.Equal(persisted) {
		return nil, fmt.Errorf("restore level %d with seed %d: %w", level, seed, ErrSeedMismatch)
	}
	s, err := newMazeSessionFromGrid(level, seed, grid, pos)
	if err != nil {
		return nil, fmt.Errorf("restore level %d: %w", level, err)
	}
	return s, nil
}

// Move applies one step under the session lock
func (s *MazeSession) Move(d Direction) (MoveResult, Position, Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.nav.Position()
	result, err := s.nav.Move(d)
	return result, from, s.nav.Position(), err
}

// Info returns the level description handed to the shell
func (s *MazeSession) Info() *LevelInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &LevelInfo{
		Level: s.level,
		Seed:  s.seed,
		Grid:  s.nav.Grid(),
		Start: StartPosition(),
		Goal:  s.nav.Goal(),
	}
}

// Level returns the level number the maze was built for
func (s *MazeSession) Level() int { return s.level }

// Seed returns the seed the maze was generated from
func (s *MazeSession) Seed() int64 { return s.seed }

// Grid returns the session's grid. Callers must not modify it.
func (s *MazeSession) Grid() *Grid { return s.nav.Grid() }

// Goal returns the goal cell
func (s *MazeSession) Goal() Position { return s.nav.Goal() }

// Position returns the player's current cell
func (s *MazeSession) Position() Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Position()
}

// Status returns the level lifecycle state
func (s *MazeSession) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Status()
}

// CanMove reports whether d is open from the current cell
func (s *MazeSession) CanMove(d Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.CanMove(d)
}

// PossibleMoves lists the open directions from the current cell
func (s *MazeSession) PossibleMoves() []Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.PossibleMoves()
}

// LocalView returns the 3x3 neighborhood around the player
func (s *MazeSession) LocalView() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.LocalView()
}

// Moves returns the number of accepted steps taken in this level
func (s *MazeSession) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav.Moves()
}
