package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source supplies the random choices made while carving.
// *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a deterministic Source for the given seed
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// RandomSeed returns a seed read from the operating system's CSPRNG
func RandomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("engine: reading random seed: %v", err))
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

// LevelSeed derives the seed for a level from a game's base seed
func LevelSeed(base int64, level int) int64 {
	return int64(uint64(base) + uint64(level)*0x9E3779B97F4A7C15)
}

// StartPosition is where the player enters every maze
func StartPosition() Position {
	return Position{X: 1, Y: 1}
}

// GoalPosition is the exit for a maze of the given size
func GoalPosition(cols, rows int) Position {
	return Position{X: cols - 2, Y: rows - 2}
}

// Generate carves a perfect maze of cols x rows cells.
//
// Carving starts at (1,1) and walks the lattice of odd coordinates with an
// explicit stack: the top node picks one of its uncarved neighbors two cells
// away, opens the wall between them and pushes it, or is popped when it has
// none. Neighbors are always collected in up, down, left, right order so the
// same Source yields the same maze.
func Generate(cols, rows int, rng Source) (*Grid, error) {
	if cols < MinDimension || rows < MinDimension {
		return nil, fmt.Errorf("%w: %dx%d (minimum %d)", ErrInvalidDimensions, cols, rows, MinDimension)
	}
	if rng == nil {
		return nil, fmt.Errorf("generate: nil random source")
	}

	g := NewGrid(cols, rows)
	start := StartPosition()
	g.set(start.X, start.Y, Path)

	stack := []Position{start}
	candidates := make([]Position, 0, len(Directions))
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		candidates = candidates[:0]
		for _, d := range Directions {
			dx, dy := d.Delta()
			nx, ny := cur.X+2*dx, cur.Y+2*dy
			if nx <= 0 || nx >= cols-1 || ny <= 0 || ny >= rows-1 {
				continue
			}
			if g.At(nx, ny) == Wall {
				candidates = append(candidates, Position{X: nx, Y: ny})
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := candidates[rng.Intn(len(candidates))]
		g.set((cur.X+next.X)/2, (cur.Y+next.Y)/2, Path)
		g.set(next.X, next.Y, Path)
		stack = append(stack, next)
	}

	connectGoal(g)
	return g, nil
}

// connectGoal opens the goal cell and, when it lies off the odd lattice,
// the straight run back to the nearest carved node. Each opened cell touches
// exactly one path cell when it is opened, so the maze stays a tree.
func connectGoal(g *Grid) {
	goal := GoalPosition(g.cols, g.rows)
	node := Position{X: goal.X, Y: goal.Y}
	if node.X%2 == 0 {
		node.X--
	}
	if node.Y%2 == 0 {
		node.Y--
	}

	x, y := node.X, node.Y
	for x < goal.X {
		x++
		g.set(x, y, Path)
	}
	for y < goal.Y {
		y++
		g.set(x, y, Path)
	}
	g.set(goal.X, goal.Y, Path)
}
