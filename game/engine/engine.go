package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Level management
	StartLevel(level int) (*LevelInfo, error)
	Level() int
	MaxLevel() int

	// Game state management
	GetState() *GameState
	RestoreState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool
	IsVictory() bool
	GetScore() int
	GetPlayerPosition() Position

	// Movement operations
	SubmitMove(direction string) (*MoveOutcome, error)
	BulkMove(moves []string) ([]*MoveOutcome, error)
	CanMove(direction string) bool
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Helpers
	GetLocalView() []string
	Hint() ([]Direction, error)
}

// GameEngine is the level shell around MazeSession. It starts each level,
// forwards moves, and advances when the goal is reached.
type GameEngine struct {
	config   *GameConfig
	seed     int64
	maze     *MazeSession
	score    int
	gameOver bool
	victory  bool
	message  string

	history    []MoveHistoryEntry
	totalMoves int

	now func() time.Time
}

// NewEngine creates an engine for the ruleset and starts level 1.
// Every level's maze is derived from seed.
func NewEngine(config *GameConfig, seed int64) (*GameEngine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:  config,
		seed:    seed,
		history: []MoveHistoryEntry{},
		now:     time.Now,
	}
	if _, err := e.StartLevel(1); err != nil {
		return nil, err
	}
	e.message = config.Messages.Welcome
	return e, nil
}

// StartLevel replaces the current maze with a fresh one for level
func (e *GameEngine) StartLevel(level int) (*LevelInfo, error) {
	if level < 1 || level > e.config.MaxLevel {
		return nil, fmt.Errorf("%w: %d (levels run 1..%d)", ErrInvalidLevel, level, e.config.MaxLevel)
	}
	size := e.config.SizeForLevel(level)
	maze, err := NewMazeSession(level, size, size, LevelSeed(e.seed, level))
	if err != nil {
		return nil, fmt.Errorf("start level %d: %w", level, err)
	}

	e.maze = maze
	e.gameOver = false
	e.victory = false
	if e.config.Messages.LevelStart != "" {
		e.message = fmt.Sprintf(e.config.Messages.LevelStart, level)
	}
	return maze.Info(), nil
}

// Level returns the current level number
func (e *GameEngine) Level() int { return e.maze.Level() }

// MaxLevel returns the last level of the ruleset
func (e *GameEngine) MaxLevel() int { return e.config.MaxLevel }

// Seed returns the base seed all levels are derived from
func (e *GameEngine) Seed() int64 { return e.seed }

// Maze returns the current level's session
func (e *GameEngine) Maze() *MazeSession { return e.maze }

// SubmitMove parses direction and applies it to the current level.
// Reaching the goal advances to the next level, or ends the game with a
// score after the last one.
func (e *GameEngine) SubmitMove(direction string) (*MoveOutcome, error) {
	if e.gameOver {
		return nil, ErrGameOver
	}
	d, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	level := e.maze.Level()
	result, from, to, err := e.maze.Move(d)
	if err != nil {
		return nil, err
	}
	e.addMoveToHistory(d, result, from, to, level)

	outcome := &MoveOutcome{
		Direction: d,
		Result:    result,
		From:      from,
		To:        to,
		Level:     level,
		Score:     e.score,
	}

	switch result {
	case Blocked:
		e.message = e.config.Messages.HitWall
	case Moved:
		e.message = ""
	case Reached:
		outcome.LevelCompleted = true
		e.score = e.config.ScorePerLevel * level
		outcome.Score = e.score
		if level >= e.config.MaxLevel {
			e.gameOver = true
			e.victory = true
			outcome.GameOver = true
			e.message = fmt.Sprintf(e.config.Messages.Victory, e.score)
			break
		}
		if _, err := e.StartLevel(level + 1); err != nil {
			return outcome, err
		}
		outcome.NextLevel = level + 1
		if e.config.Messages.LevelComplete != "" {
			e.message = fmt.Sprintf(e.config.Messages.LevelComplete, level)
		}
	}

	return outcome, nil
}

// BulkMove executes moves in order. It stops after the first blocked move
// or when the game ends, and fails before moving if any direction is unknown.
func (e *GameEngine) BulkMove(moves []string) ([]*MoveOutcome, error) {
	if len(moves) > MaxBulkMoves {
		return nil, fmt.Errorf("too many moves: %d (maximum %d)", len(moves), MaxBulkMoves)
	}
	for _, m := range moves {
		if _, err := ParseDirection(m); err != nil {
			return nil, err
		}
	}

	outcomes := make([]*MoveOutcome, 0, len(moves))
	for _, m := range moves {
		if e.gameOver {
			break
		}
		outcome, err := e.SubmitMove(m)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
		if outcome.Result == Blocked {
			break
		}
	}
	return outcomes, nil
}

// CanMove checks if the player can move in the specified direction
func (e *GameEngine) CanMove(direction string) bool {
	if e.gameOver {
		return false
	}
	d, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	return e.maze.CanMove(d)
}

// GetPossibleMoves returns all valid directions the player can move
func (e *GameEngine) GetPossibleMoves() []Direction {
	if e.gameOver {
		return nil
	}
	return e.maze.PossibleMoves()
}

// Hint returns the moves from the player to the goal of the current level
func (e *GameEngine) Hint() ([]Direction, error) {
	if e.gameOver {
		return nil, ErrGameOver
	}
	path := FindPath(e.maze.Grid(), e.maze.Position(), e.maze.Goal())
	if path == nil {
		return nil, fmt.Errorf("no path from %s to %s", e.maze.Position(), e.maze.Goal())
	}
	return PathDirections(path), nil
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	grid := e.maze.Grid()
	history := make([]MoveHistoryEntry, len(e.history))
	copy(history, e.history)
	return &GameState{
		Grid:          grid,
		Cols:          grid.Cols(),
		Rows:          grid.Rows(),
		PlayerPos:     e.maze.Position(),
		Start:         StartPosition(),
		Goal:          e.maze.Goal(),
		Level:         e.maze.Level(),
		MaxLevel:      e.config.MaxLevel,
		Seed:          e.seed,
		LevelSeed:     e.maze.Seed(),
		Status:        e.maze.Status(),
		Score:         e.score,
		Message:       e.message,
		GameOver:      e.gameOver,
		Victory:       e.victory,
		ConfigName:    e.config.Name,
		MoveHistory:   history,
		TotalMoves:    e.totalMoves,
		LevelMoves:    e.maze.Moves(),
		LocalView3x3:  e.maze.LocalView(),
		PossibleMoves: e.GetPossibleMoves(),
	}
}

// RestoreState rebuilds the engine from a persisted snapshot. The level's
// maze is regenerated from the snapshot's seed and must match its grid.
func (e *GameEngine) RestoreState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Level < 1 || state.Level > e.config.MaxLevel {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, state.Level)
	}
	if state.ConfigName != "" && state.ConfigName != e.config.Name {
		return fmt.Errorf("snapshot of %q restored into %q: %w", state.ConfigName, e.config.Name, ErrRulesetMismatch)
	}
	if state.Grid == nil {
		return fmt.Errorf("restore level %d: missing grid", state.Level)
	}
	size := e.config.SizeForLevel(state.Level)
	if state.Grid.Cols() != size || state.Grid.Rows() != size {
		return fmt.Errorf("level %d grid is %dx%d, ruleset uses %dx%d: %w",
			state.Level, state.Grid.Cols(), state.Grid.Rows(), size, size, ErrRulesetMismatch)
	}
	levelSeed := LevelSeed(state.Seed, state.Level)
	if state.LevelSeed != 0 && state.LevelSeed != levelSeed {
		return fmt.Errorf("level seed %d does not derive from base seed %d: %w", state.LevelSeed, state.Seed, ErrSeedMismatch)
	}
	maze, err := RestoreMazeSession(state.Level, levelSeed, state.Grid, state.PlayerPos)
	if err != nil {
		return err
	}
	maze.nav.moves = state.LevelMoves

	e.seed = state.Seed
	e.maze = maze
	e.score = state.Score
	e.gameOver = state.GameOver
	e.victory = state.Victory
	e.message = state.Message
	e.history = append([]MoveHistoryEntry{}, state.MoveHistory...)
	e.totalMoves = state.TotalMoves
	return nil
}

// Reset restarts the game at level 1 with the same seed. The cumulative
// move history and total are kept.
func (e *GameEngine) Reset() *GameState {
	e.score = 0
	if _, err := e.StartLevel(1); err != nil {
		// level 1 was playable when the engine was created
		panic(fmt.Sprintf("engine: restarting level 1: %v", err))
	}
	e.message = e.config.Messages.Welcome
	return e.GetState()
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool { return e.gameOver }

// IsVictory returns whether every level was completed
func (e *GameEngine) IsVictory() bool { return e.victory }

// GetScore returns the current score
func (e *GameEngine) GetScore() int { return e.score }

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position { return e.maze.Position() }

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig { return e.config }

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry { return e.history }

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// GetLocalView returns the 3x3 view around the player
func (e *GameEngine) GetLocalView() []string { return e.maze.LocalView() }

func (e *GameEngine) addMoveToHistory(d Direction, result MoveResult, from, to Position, level int) {
	e.totalMoves++
	e.history = append(e.history, MoveHistoryEntry{
		Action:       d,
		Result:       result,
		FromPosition: from,
		ToPosition:   to,
		Level:        level,
		Timestamp:    e.now().Unix(),
		MoveNumber:   e.totalMoves,
	})
}
