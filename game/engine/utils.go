package engine

import "fmt"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// FindPath returns the shortest sequence of cells from one path cell to
// another, both ends included. It returns nil when to is unreachable.
func FindPath(grid *Grid, from, to Position) []Position {
	if !grid.IsPath(from) || !grid.IsPath(to) {
		return nil
	}

	prev := map[Position]Position{from: from}
	queue := []Position{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		for _, d := range Directions {
			next := cur.Add(d)
			if _, seen := prev[next]; seen || !grid.IsPath(next) {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}

	if _, ok := prev[to]; !ok {
		return nil
	}
	var path []Position
	for p := to; p != from; p = prev[p] {
		path = append(path, p)
	}
	path = append(path, from)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathDirections converts a cell path into the moves that walk it
func PathDirections(path []Position) []Direction {
	if len(path) < 2 {
		return nil
	}
	dirs := make([]Direction, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		for _, d := range Directions {
			if path[i-1].Add(d) == path[i] {
				dirs = append(dirs, d)
				break
			}
		}
	}
	return dirs
}

// Reachable counts the path cells connected to from
func Reachable(grid *Grid, from Position) int {
	if !grid.IsPath(from) {
		return 0
	}
	seen := map[Position]bool{from: true}
	stack := []Position{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range Directions {
			next := cur.Add(d)
			if !seen[next] && grid.IsPath(next) {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return len(seen)
}

// CountPathCells counts the path cells in the grid
func CountPathCells(grid *Grid) int {
	count := 0
	for _, c := range grid.cells {
		if c == Path {
			count++
		}
	}
	return count
}

// CountEdges counts pairs of orthogonally adjacent path cells
func CountEdges(grid *Grid) int {
	edges := 0
	for y := 0; y < grid.rows; y++ {
		for x := 0; x < grid.cols; x++ {
			if grid.At(x, y) != Path {
				continue
			}
			if grid.At(x+1, y) == Path {
				edges++
			}
			if grid.At(x, y+1) == Path {
				edges++
			}
		}
	}
	return edges
}

// DeadEnds returns the path cells with exactly one open neighbor
func DeadEnds(grid *Grid) []Position {
	var ends []Position
	for y := 0; y < grid.rows; y++ {
		for x := 0; x < grid.cols; x++ {
			p := Position{X: x, Y: y}
			if !grid.IsPath(p) {
				continue
			}
			open := 0
			for _, d := range Directions {
				if grid.IsPath(p.Add(d)) {
					open++
				}
			}
			if open == 1 {
				ends = append(ends, p)
			}
		}
	}
	return ends
}

// VerifyMaze checks the structural guarantees of a generated maze: a solid
// border, open start and goal, every path cell connected to the start, and
// no cycles.
func VerifyMaze(grid *Grid) error {
	for x := 0; x < grid.cols; x++ {
		if grid.At(x, 0) != Wall || grid.At(x, grid.rows-1) != Wall {
			return fmt.Errorf("border breached in column %d", x)
		}
	}
	for y := 0; y < grid.rows; y++ {
		if grid.At(0, y) != Wall || grid.At(grid.cols-1, y) != Wall {
			return fmt.Errorf("border breached in row %d", y)
		}
	}

	start := StartPosition()
	goal := GoalPosition(grid.cols, grid.rows)
	if !grid.IsPath(start) {
		return fmt.Errorf("start %s is not a path cell", start)
	}
	if !grid.IsPath(goal) {
		return fmt.Errorf("goal %s is not a path cell", goal)
	}

	cells := CountPathCells(grid)
	if reached := Reachable(grid, start); reached != cells {
		return fmt.Errorf("only %d of %d path cells reachable from start", reached, cells)
	}
	if edges := CountEdges(grid); edges != cells-1 {
		return fmt.Errorf("path cells do not form a tree: %d edges for %d cells", edges, cells)
	}
	return nil
}
