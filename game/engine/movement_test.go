package engine

import (
	"errors"
	"reflect"
	"testing"
)

var testLayout = []string{
	"#######",
	"#.....#",
	"###.#.#",
	"#...#.#",
	"#######",
}

func createTestNavigator(t *testing.T) (*Navigator, *Grid) {
	t.Helper()
	grid, err := ParseGrid(testLayout)
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}
	nav, err := NewNavigator(grid, Position{X: 1, Y: 1}, Position{X: 5, Y: 3})
	if err != nil {
		t.Fatalf("Failed to create navigator: %v", err)
	}
	return nav, grid
}

func TestNewNavigator_InvalidPositions(t *testing.T) {
	grid, err := ParseGrid(testLayout)
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}

	tests := []struct {
		name        string
		start, goal Position
	}{
		{"start on border", Position{X: 0, Y: 0}, Position{X: 5, Y: 3}},
		{"start outside", Position{X: -1, Y: 1}, Position{X: 5, Y: 3}},
		{"goal on wall", Position{X: 1, Y: 1}, Position{X: 2, Y: 2}},
		{"goal outside", Position{X: 1, Y: 1}, Position{X: 9, Y: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNavigator(grid, tt.start, tt.goal)
			if !errors.Is(err, ErrInvalidPosition) {
				t.Errorf("Expected ErrInvalidPosition, got %v", err)
			}
		})
	}

	if _, err := NewNavigator(nil, Position{}, Position{}); err == nil {
		t.Error("Expected error for nil grid")
	}
}

func TestNavigator_InitialState(t *testing.T) {
	nav, _ := createTestNavigator(t)

	if nav.Status() != StatusIdle {
		t.Errorf("Expected idle status, got %s", nav.Status())
	}
	if nav.Position() != (Position{X: 1, Y: 1}) {
		t.Errorf("Expected start (1,1), got %s", nav.Position())
	}
	if nav.Goal() != (Position{X: 5, Y: 3}) {
		t.Errorf("Expected goal (5,3), got %s", nav.Goal())
	}
	if nav.Moves() != 0 {
		t.Errorf("Expected 0 moves, got %d", nav.Moves())
	}
}

func TestNavigator_WallCollision(t *testing.T) {
	nav, grid := createTestNavigator(t)
	before := grid.String()

	for _, d := range []Direction{Up, Left, Down} {
		result, err := nav.Move(d)
		if err != nil {
			t.Fatalf("Expected no error for blocked move, got %v", err)
		}
		if result != Blocked {
			t.Errorf("Expected %s to be blocked, got %s", d, result)
		}
		if nav.Position() != (Position{X: 1, Y: 1}) {
			t.Errorf("Expected position unchanged, got %s", nav.Position())
		}
	}

	if grid.String() != before {
		t.Error("Expected grid unchanged by blocked moves")
	}
	if nav.Moves() != 0 {
		t.Errorf("Expected blocked moves not to count, got %d", nav.Moves())
	}
	if nav.Status() != StatusInProgress {
		t.Errorf("Expected in_progress after first attempt, got %s", nav.Status())
	}
}

func TestNavigator_OutOfBounds(t *testing.T) {
	grid, err := ParseGrid([]string{".."})
	if err != nil {
		t.Fatalf("Failed to parse layout: %v", err)
	}
	nav, err := NewNavigator(grid, Position{X: 0, Y: 0}, Position{X: 1, Y: 0})
	if err != nil {
		t.Fatalf("Failed to create navigator: %v", err)
	}

	for _, d := range []Direction{Left, Up, Down} {
		result, err := nav.Move(d)
		if err != nil || result != Blocked {
			t.Errorf("Expected %s off the grid to be blocked, got %s (%v)", d, result, err)
		}
	}
	if nav.Position() != (Position{X: 0, Y: 0}) {
		t.Errorf("Expected position unchanged, got %s", nav.Position())
	}
}

func TestNavigator_UnknownDirection(t *testing.T) {
	nav, _ := createTestNavigator(t)

	for _, d := range []Direction{"", "diagonal", "UP"} {
		_, err := nav.Move(d)
		if !errors.Is(err, ErrUnknownDirection) {
			t.Errorf("Expected ErrUnknownDirection for %q, got %v", d, err)
		}
	}
	if nav.Status() != StatusIdle {
		t.Errorf("Expected rejected directions not to start the level, got %s", nav.Status())
	}
}

func TestNavigator_ReachGoal(t *testing.T) {
	nav, _ := createTestNavigator(t)
	route := []Direction{Right, Right, Right, Right, Down, Down}

	for i, d := range route {
		result, err := nav.Move(d)
		if err != nil {
			t.Fatalf("Move %d (%s): unexpected error: %v", i, d, err)
		}
		want := Moved
		if i == len(route)-1 {
			want = Reached
		}
		if result != want {
			t.Fatalf("Move %d (%s): expected %s, got %s", i, d, want, result)
		}
	}

	if nav.Status() != StatusComplete {
		t.Errorf("Expected complete status, got %s", nav.Status())
	}
	if nav.Moves() != len(route) {
		t.Errorf("Expected %d moves, got %d", len(route), nav.Moves())
	}

	if _, err := nav.Move(Up); !errors.Is(err, ErrLevelComplete) {
		t.Errorf("Expected ErrLevelComplete after reaching goal, got %v", err)
	}
	if nav.CanMove(Up) {
		t.Error("Expected CanMove false after completion")
	}
}

func TestNavigator_PossibleMoves(t *testing.T) {
	nav, _ := createTestNavigator(t)

	if got := nav.PossibleMoves(); !reflect.DeepEqual(got, []Direction{Right}) {
		t.Errorf("Expected [right] at start, got %v", got)
	}

	nav.Move(Right)
	nav.Move(Right)
	want := []Direction{Down, Left, Right}
	if got := nav.PossibleMoves(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v at (3,1), got %v", want, got)
	}
	if !nav.CanMove(Down) {
		t.Error("Expected CanMove(down) at (3,1)")
	}
	if nav.CanMove(Up) {
		t.Error("Expected CanMove(up) false at (3,1)")
	}
	if nav.CanMove("sideways") {
		t.Error("Expected CanMove false for unknown direction")
	}
}

func TestNavigator_LocalView(t *testing.T) {
	nav, _ := createTestNavigator(t)

	want := []string{
		"###",
		"#@.",
		"###",
	}
	if got := nav.LocalView(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	for _, d := range []Direction{Right, Right, Right, Right, Down} {
		nav.Move(d)
	}
	want = []string{
		"..#",
		"#@#",
		"#G#",
	}
	if got := nav.LocalView(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v next to goal, got %v", want, got)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"up", Up, false},
		{"  Down ", Down, false},
		{"WEST", Left, false},
		{"east", Right, false},
		{"ArrowUp", Up, false},
		{"north", Up, false},
		{"south", Down, false},
		{"arrowleft", Left, false},
		{"arrowright", Right, false},
		{"jump", "", true},
		{"", "", true},
		{"upp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDirection) {
					t.Errorf("Expected ErrUnknownDirection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMoveResult_Text(t *testing.T) {
	for _, r := range []MoveResult{Blocked, Moved, Reached} {
		text, err := r.MarshalText()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var back MoveResult
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if back != r {
			t.Errorf("Expected %s, got %s", r, back)
		}
	}

	var r MoveResult
	if err := r.UnmarshalText([]byte("teleported")); err == nil {
		t.Error("Expected error for unknown result")
	}
}
