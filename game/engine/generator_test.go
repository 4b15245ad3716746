package engine

import (
	"errors"
	"testing"
)

// recordingSource wraps a deterministic source and remembers every bound
// it was asked for
type recordingSource struct {
	inner  Source
	bounds []int
}

func (r *recordingSource) Intn(n int) int {
	r.bounds = append(r.bounds, n)
	return r.inner.Intn(n)
}

// firstSource always picks the first candidate
type firstSource struct{}

func (firstSource) Intn(int) int { return 0 }

func TestGenerate_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
	}{
		{"zero", 0, 0},
		{"narrow", 4, 10},
		{"short", 10, 4},
		{"negative", -5, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := Generate(tt.cols, tt.rows, NewSource(1))
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Fatalf("Expected ErrInvalidDimensions, got %v", err)
			}
			if grid != nil {
				t.Error("Expected nil grid on error")
			}
		})
	}
}

func TestGenerate_NilSource(t *testing.T) {
	if _, err := Generate(10, 10, nil); err == nil {
		t.Error("Expected error for nil source")
	}
}

func TestGenerate_Invariants(t *testing.T) {
	sizes := []struct{ cols, rows int }{
		{5, 5}, {6, 6}, {7, 9}, {9, 7}, {10, 7}, {7, 10},
		{10, 10}, {11, 11}, {12, 12}, {14, 14}, {21, 15}, {40, 30},
	}

	for _, size := range sizes {
		for seed := int64(1); seed <= 20; seed++ {
			grid, err := Generate(size.cols, size.rows, NewSource(seed))
			if err != nil {
				t.Fatalf("%dx%d seed %d: unexpected error: %v", size.cols, size.rows, seed, err)
			}
			if grid.Cols() != size.cols || grid.Rows() != size.rows {
				t.Fatalf("Expected %dx%d grid, got %dx%d", size.cols, size.rows, grid.Cols(), grid.Rows())
			}
			if err := VerifyMaze(grid); err != nil {
				t.Errorf("%dx%d seed %d: %v\n%s", size.cols, size.rows, seed, err, grid)
			}
		}
	}
}

func TestGenerate_GoalConnectedForEvenDimensions(t *testing.T) {
	for _, size := range []int{6, 8, 10, 12, 14, 16} {
		for seed := int64(0); seed < 10; seed++ {
			grid, err := Generate(size, size, NewSource(seed))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			goal := GoalPosition(size, size)
			path := FindPath(grid, StartPosition(), goal)
			if path == nil {
				t.Fatalf("%dx%d seed %d: goal %s unreachable\n%s", size, size, seed, goal, grid)
			}
			if path[len(path)-1] != goal {
				t.Errorf("Expected path to end at goal %s, ended at %s", goal, path[len(path)-1])
			}
		}
	}
}

func TestGenerate_PathCellCount(t *testing.T) {
	// A 10x10 grid has a 4x4 node lattice: 16 nodes joined by 15 carved
	// walls, plus the two cells that join the goal at (8,8).
	for seed := int64(0); seed < 10; seed++ {
		grid, err := Generate(10, 10, NewSource(seed))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := CountPathCells(grid); got != 33 {
			t.Errorf("seed %d: expected 33 path cells, got %d", seed, got)
		}
	}

	grid, err := Generate(11, 11, NewSource(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := CountPathCells(grid); got != 49 {
		t.Errorf("Expected 49 path cells for 11x11, got %d", got)
	}
}

func TestGenerate_SmallestMaze(t *testing.T) {
	grid, err := Generate(5, 5, NewSource(99))
	if err != nil {
		t.Fatalf("Expected 5x5 to generate, got %v", err)
	}
	if !grid.IsPath(Position{X: 1, Y: 1}) {
		t.Error("Expected (1,1) to be a path cell")
	}
	if !grid.IsPath(Position{X: 3, Y: 3}) {
		t.Error("Expected goal (3,3) to be a path cell")
	}
	// four lattice nodes and the three walls between them
	if got := CountPathCells(grid); got != 7 {
		t.Errorf("Expected 7 path cells, got %d\n%s", got, grid)
	}
	if err := VerifyMaze(grid); err != nil {
		t.Error(err)
	}
}

func TestGenerate_Determinism(t *testing.T) {
	a, err := Generate(21, 17, NewSource(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(21, 17, NewSource(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.Equal(b) {
		t.Errorf("Expected identical grids for the same seed\n%s\n\n%s", a, b)
	}

	c, err := Generate(31, 31, NewSource(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := Generate(31, 31, NewSource(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Equal(d) {
		t.Error("Expected different seeds to produce different 31x31 mazes")
	}
}

func TestGenerate_ChoiceBounds(t *testing.T) {
	src := &recordingSource{inner: NewSource(5)}
	if _, err := Generate(15, 15, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// one pick per carved node after the start
	if len(src.bounds) != 7*7-1 {
		t.Errorf("Expected %d random picks, got %d", 7*7-1, len(src.bounds))
	}
	for _, n := range src.bounds {
		if n < 1 || n > 4 {
			t.Fatalf("Expected candidate count between 1 and 4, got %d", n)
		}
	}
}

func TestGenerate_FirstCandidateSource(t *testing.T) {
	grid, err := Generate(9, 9, firstSource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := VerifyMaze(grid); err != nil {
		t.Fatal(err)
	}
	// up is never open from the start, so down is always tried first
	if !grid.IsPath(Position{X: 1, Y: 2}) {
		t.Errorf("Expected first carve to go down from the start\n%s", grid)
	}
}

func TestGenerate_FirstMoveFromStart(t *testing.T) {
	grid, err := Generate(10, 10, NewSource(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := VerifyMaze(grid); err != nil {
		t.Fatal(err)
	}

	nav, err := NewNavigator(grid, StartPosition(), GoalPosition(10, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := nav.Move(Right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grid.At(2, 1) == Path {
		if result != Moved || nav.Position() != (Position{X: 2, Y: 1}) {
			t.Errorf("Expected Moved to (2,1), got %s at %s", result, nav.Position())
		}
	} else {
		if result != Blocked || nav.Position() != StartPosition() {
			t.Errorf("Expected Blocked at (1,1), got %s at %s", result, nav.Position())
		}
	}
}

func TestLevelSeed(t *testing.T) {
	if LevelSeed(42, 1) == LevelSeed(42, 2) {
		t.Error("Expected distinct seeds per level")
	}
	if LevelSeed(42, 3) != LevelSeed(42, 3) {
		t.Error("Expected level seed derivation to be stable")
	}
	if RandomSeed() < 0 {
		t.Error("Expected non-negative random seed")
	}
}
