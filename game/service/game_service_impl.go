package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/mazequest/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	progress ProgressStore
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. progress may be nil,
// in which case finished games are not recorded.
func NewGameService(sessions SessionManager, configs ConfigManager, progress ProgressStore) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		progress: progress,
	}
}

// CreateSession creates a new game session. A nil seed picks a random one.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, s.configLoadError(configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.configs.DefaultID()
	}

	gameSeed := engine.RandomSeed()
	if seed != nil {
		gameSeed = *seed
	}

	session, err := s.sessions.Create("", configID, config, gameSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("[SESSION] created %s (config %s, seed %d)", session.ID, configID, gameSeed)

	return sessionInfo(session), nil
}

// configLoadError lists the available configs when the requested one is missing
func (s *gameServiceImpl) configLoadError(configName string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("failed to load config '%s': %w", configName, err)
	}
	ids := make([]string, 0, len(available))
	for _, cfg := range available {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("failed to load config '%s' (available: %v): %w", configName, ids, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// touching the session writes its access time
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	log.Printf("[SESSION] deleted %s", sessionID)
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	grid := sess.Engine.Maze().Grid()
	outcome, err := sess.Engine.SubmitMove(direction)
	if err != nil {
		return nil, err
	}
	log.Printf("[MOVE] %s %s level %d: %s %s -> %s", sessionID, outcome.Direction, outcome.Level, outcome.Result, outcome.From, outcome.To)

	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:   outcome.Result != engine.Blocked,
		Result:    outcome.Result,
		GameState: state,
		Message:   state.Message,
		Events:    append(events, outcomeEvents(outcome, state)...),
	}
	if outcome.Result == engine.Blocked {
		result.AttemptedTo = attemptInfo(grid, outcome.From.Add(outcome.Direction))
	} else {
		step := stepInfo(1, outcome)
		result.Step = &step
	}

	s.afterOutcome(ctx, sess, outcome)
	s.save(sessionID, "move")
	return result, nil
}

// BulkMove executes multiple moves in sequence
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.GetState()
	result.StartPos = start.PlayerPos
	result.StartLevel = start.Level

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	if sess.Engine.IsGameOver() && len(moves) > 0 {
		result.Success = false
		result.StoppedReason = "game is already over"
		result.StopReasonCode = "game_over"
		result.StoppedOnMove = 1
	} else {
		grids := make(map[int]*engine.Grid)
		grids[sess.Engine.Level()] = sess.Engine.Maze().Grid()

		outcomes, err := sess.Engine.BulkMove(moves)
		if err != nil && len(outcomes) == 0 {
			return nil, err
		}

		for i, outcome := range outcomes {
			result.Events = append(result.Events, outcomeEvents(outcome, nil)...)
			s.afterOutcome(ctx, sess, outcome)
			if outcome.NextLevel > 0 {
				grids[outcome.NextLevel] = sess.Engine.Maze().Grid()
			}

			if outcome.Result == engine.Blocked {
				target := outcome.From.Add(outcome.Direction)
				result.Success = false
				result.StoppedOnMove = i + 1
				result.StoppedReason = fmt.Sprintf("move %d blocked: %s", i+1, outcome.Direction)
				result.AttemptedTo = attemptInfo(grids[outcome.Level], target)
				result.StopReasonCode = "blocked_" + result.AttemptedTo.TileType
				break
			}

			result.MovesExecuted++
			result.Steps = append(result.Steps, stepInfo(i+1, outcome))
			if outcome.GameOver {
				result.StopReasonCode = "victory"
				if i < len(moves)-1 {
					result.StoppedOnMove = i + 1
					result.StoppedReason = "game finished"
				}
			}
		}
		if err != nil {
			log.Printf("[MOVE] %s bulk stopped early: %v", sessionID, err)
		}
	}

	end := sess.Engine.GetState()
	result.GameState = end
	result.EndPos = end.PlayerPos
	result.EndLevel = end.Level
	result.ScoreDelta = end.Score - start.Score
	result.GameOver = end.GameOver
	result.Message = end.Message
	result.PossibleMoves = end.PossibleMoves
	result.LocalView3x3 = end.LocalView3x3

	log.Printf("[MOVE] %s bulk: %d/%d executed, level %d -> %d", sessionID, result.MovesExecuted, len(moves), result.StartLevel, result.EndLevel)
	s.save(sessionID, "bulk moves")
	return result, nil
}

// Reset restarts a session at level 1
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.Reset()
	log.Printf("[LEVEL] %s reset to level 1", sessionID)
	s.save(sessionID, "reset")
	return state, nil
}

// Hint returns the route from the player to the goal of the current level
func (s *gameServiceImpl) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	moves, err := sess.Engine.Hint()
	if err != nil {
		return nil, err
	}
	hint := &HintResult{
		Level:    sess.Engine.Level(),
		From:     sess.Engine.GetPlayerPosition(),
		Goal:     sess.Engine.Maze().Goal(),
		Moves:    moves,
		Distance: len(moves),
	}
	if len(moves) > 0 {
		hint.Next = moves[0]
	}
	return hint, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	// touching the session writes its access time
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		// most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// GetProgress returns every recorded game's progress
func (s *gameServiceImpl) GetProgress(ctx context.Context) ([]*ProgressRecord, error) {
	if s.progress == nil {
		return []*ProgressRecord{}, nil
	}
	return s.progress.All(ctx)
}

// ResetProgress clears all recorded progress
func (s *gameServiceImpl) ResetProgress(ctx context.Context) error {
	if s.progress == nil {
		return nil
	}
	return s.progress.Reset(ctx)
}

// afterOutcome logs level transitions and records the score of a finished game
func (s *gameServiceImpl) afterOutcome(ctx context.Context, sess *Session, outcome *engine.MoveOutcome) {
	if !outcome.LevelCompleted {
		return
	}
	if outcome.NextLevel > 0 {
		log.Printf("[LEVEL] %s completed level %d, starting level %d", sess.ID, outcome.Level, outcome.NextLevel)
		return
	}
	log.Printf("[LEVEL] %s finished the game with score %d", sess.ID, outcome.Score)
	if s.progress == nil {
		return
	}
	if _, err := s.progress.Record(ctx, ProgressGameID(sess.ConfigID), outcome.Score); err != nil {
		log.Printf("Warning: Failed to record progress for session %s: %v", sess.ID, err)
	}
}

func (s *gameServiceImpl) save(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, after, err)
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		Seed:           sess.Engine.Seed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Game reset to level 1",
		Timestamp: time.Now(),
	}
}

// outcomeEvents describes a move outcome as events. state, when given,
// supplies the player-facing message for the final event.
func outcomeEvents(outcome *engine.MoveOutcome, state *engine.GameState) []GameEvent {
	now := time.Now()
	if outcome.Result == engine.Blocked {
		return []GameEvent{{
			Type:      "blocked",
			Message:   fmt.Sprintf("Blocked moving %s from (%d,%d)", outcome.Direction, outcome.From.X, outcome.From.Y),
			Timestamp: now,
			Position:  outcome.From,
		}}
	}

	events := []GameEvent{{
		Type:      "move",
		Message:   fmt.Sprintf("Moved %s to (%d,%d)", outcome.Direction, outcome.To.X, outcome.To.Y),
		Timestamp: now,
		Position:  outcome.To,
	}}
	if outcome.LevelCompleted {
		events = append(events, GameEvent{
			Type:      "level_complete",
			Message:   fmt.Sprintf("Level %d complete! Score: %d", outcome.Level, outcome.Score),
			Timestamp: now,
			Position:  outcome.To,
		})
	}
	if outcome.GameOver {
		msg := fmt.Sprintf("Victory! Final score: %d", outcome.Score)
		if state != nil && state.Message != "" {
			msg = state.Message
		}
		events = append(events, GameEvent{
			Type:      "victory",
			Message:   msg,
			Timestamp: now,
		})
	}
	return events
}

func stepInfo(idx int, outcome *engine.MoveOutcome) StepInfo {
	return StepInfo{
		Idx:            idx,
		Dir:            outcome.Direction,
		From:           outcome.From,
		To:             outcome.To,
		Result:         outcome.Result,
		Level:          outcome.Level,
		LevelCompleted: outcome.LevelCompleted,
		Victory:        outcome.GameOver,
	}
}

// attemptInfo describes the cell a blocked move tried to enter
func attemptInfo(grid *engine.Grid, target engine.Position) *AttemptInfo {
	info := &AttemptInfo{X: target.X, Y: target.Y, TileChar: string(engine.WallChar), TileType: "wall"}
	if grid == nil || !grid.InBounds(target.X, target.Y) {
		info.TileType = "boundary"
		return info
	}
	if grid.IsPath(target) {
		info.TileChar = string(engine.PathChar)
		info.TileType = "path"
		info.Passable = true
	}
	return info
}
