package main

import (
	"github.com/wricardo/mazequest/game/engine"
)

// Explorer finds the goal using only what a player sees each turn: its
// position, the goal and the open directions around it. It walks a depth
// first search, preferring the unvisited neighbour closest to the goal, and
// retraces its own steps out of dead ends. In a perfect maze every corridor
// is walked at most twice.
type Explorer struct {
	level   int
	visited map[engine.Position]bool
	trail   []engine.Direction
}

func NewExplorer() *Explorer {
	e := &Explorer{}
	e.Reset()
	return e
}

// Reset forgets everything learned about the current maze
func (e *Explorer) Reset() {
	e.level = 0
	e.visited = make(map[engine.Position]bool)
	e.trail = e.trail[:0]
}

// NextMove returns the direction to try from state, or "" when the maze is
// exhausted or the game is over
func (e *Explorer) NextMove(state *engine.GameState) engine.Direction {
	if state == nil || state.GameOver {
		return ""
	}
	if state.Level != e.level {
		e.Reset()
		e.level = state.Level
	}

	pos := state.PlayerPos
	e.visited[pos] = true

	var best engine.Direction
	bestDist := -1
	for _, d := range state.PossibleMoves {
		next := pos.Add(d)
		if e.visited[next] {
			continue
		}
		if dist := engine.ManhattanDistance(next, state.Goal); bestDist < 0 || dist < bestDist {
			best, bestDist = d, dist
		}
	}
	if best != "" {
		e.trail = append(e.trail, best)
		return best
	}

	if len(e.trail) == 0 {
		return ""
	}
	last := e.trail[len(e.trail)-1]
	e.trail = e.trail[:len(e.trail)-1]
	return opposite(last)
}

// Depth is the length of the path currently held from the level start
func (e *Explorer) Depth() int { return len(e.trail) }

func opposite(d engine.Direction) engine.Direction {
	switch d {
	case engine.Up:
		return engine.Down
	case engine.Down:
		return engine.Up
	case engine.Left:
		return engine.Right
	case engine.Right:
		return engine.Left
	}
	return ""
}
