package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrUnknownDirection  = errors.New("unknown direction")
	ErrInvalidPosition   = errors.New("position is not on a path cell")
	ErrLevelComplete     = errors.New("level already complete")
	ErrGameOver          = errors.New("game is over")
	ErrInvalidLevel      = errors.New("invalid level")
	ErrSeedMismatch      = errors.New("persisted grid does not match seed")
	ErrRulesetMismatch   = errors.New("persisted game belongs to another ruleset")
)

// Cell is the binary state of a grid cell
type Cell uint8

const (
	Wall Cell = iota
	Path
)

const (
	// Validation constants
	MinDimension = 5
	MaxDimension = 101
	MaxLevels    = 40
	MaxBulkMoves = 50

	WallChar   = '#'
	PathChar   = '.'
	PlayerChar = '@'
	GoalChar   = 'G'
)

// String returns the single character used for the cell in text layouts
func (c Cell) String() string {
	if c == Path {
		return string(PathChar)
	}
	return string(WallChar)
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by the direction's unit delta
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four axis moves
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every valid direction in carving order
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection converts user input into a Direction.
// Anything other than the four directions, their compass names or the
// browser arrow key names is rejected.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "north", "arrowup":
		return Up, nil
	case "down", "south", "arrowdown":
		return Down, nil
	case "left", "west", "arrowleft":
		return Left, nil
	case "right", "east", "arrowright":
		return Right, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Valid reports whether d is one of the four directions
func (d Direction) Valid() bool {
	switch d {
	case Up, Down, Left, Right:
		return true
	}
	return false
}

// Delta returns the unit step for the direction
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// MoveResult is the outcome of a single navigation step
type MoveResult int

const (
	Blocked MoveResult = iota
	Moved
	Reached
)

func (r MoveResult) String() string {
	switch r {
	case Blocked:
		return "blocked"
	case Moved:
		return "moved"
	case Reached:
		return "reached"
	default:
		return "unknown"
	}
}

// MarshalText encodes the result by name
func (r MoveResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a result name
func (r *MoveResult) UnmarshalText(text []byte) error {
	switch string(text) {
	case "blocked":
		*r = Blocked
	case "moved":
		*r = Moved
	case "reached":
		*r = Reached
	default:
		return fmt.Errorf("unknown move result %q", text)
	}
	return nil
}

// Status is the lifecycle of a level
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

// LevelInfo is what the shell receives when a level starts
type LevelInfo struct {
	Level int      `json:"level"`
	Seed  int64    `json:"seed"`
	Grid  *Grid    `json:"grid"`
	Start Position `json:"start"`
	Goal  Position `json:"goal"`
}

// MoveOutcome describes one submitted move from the shell's point of view
type MoveOutcome struct {
	Direction      Direction  `json:"direction"`
	Result         MoveResult `json:"result"`
	From           Position   `json:"from"`
	To             Position   `json:"to"`
	Level          int        `json:"level"`
	LevelCompleted bool       `json:"level_completed,omitempty"`
	NextLevel      int        `json:"next_level,omitempty"`
	GameOver       bool       `json:"game_over,omitempty"`
	Score          int        `json:"score,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	Grid       *Grid    `json:"grid"`
	Cols       int      `json:"cols"`
	Rows       int      `json:"rows"`
	PlayerPos  Position `json:"player_pos"`
	Start      Position `json:"start"`
	Goal       Position `json:"goal"`
	Level      int      `json:"level"`
	MaxLevel   int      `json:"max_level"`
	Seed       int64    `json:"seed"`
	LevelSeed  int64    `json:"level_seed"`
	Status     Status   `json:"status"`
	Score      int      `json:"score"`
	Message    string   `json:"message"`
	GameOver   bool     `json:"game_over"`
	Victory    bool     `json:"victory"`
	ConfigName string   `json:"config_name"`

	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`
	LevelMoves  int                `json:"level_moves"`

	// Computed helper views (not required for core game logic)
	LocalView3x3  []string    `json:"local_view_3x3,omitempty"`
	PossibleMoves []Direction `json:"possible_moves,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       Direction  `json:"action"`
	Result       MoveResult `json:"result"`
	FromPosition Position   `json:"from_position"`
	ToPosition   Position   `json:"to_position"`
	Level        int        `json:"level"`
	Timestamp    int64      `json:"timestamp"`
	MoveNumber   int        `json:"move_number"`
}

// GameConfig represents a ruleset loaded from JSON
type GameConfig struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	BaseSize       int    `json:"base_size"`
	GrowthPerLevel int    `json:"growth_per_level"`
	MaxLevel       int    `json:"max_level"`
	ScorePerLevel  int    `json:"score_per_level"`
	Messages       struct {
		Welcome       string `json:"welcome"`
		LevelStart    string `json:"level_start"`
		LevelComplete string `json:"level_complete"`
		Victory       string `json:"victory"`
		HitWall       string `json:"hit_wall"`
		GameOver      string `json:"game_over"`
	} `json:"messages"`
}

// SizeForLevel returns the maze side length used at level
func (c *GameConfig) SizeForLevel(level int) int {
	return c.BaseSize + c.GrowthPerLevel*level
}
