package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/wricardo/mazequest/game/engine"
	"github.com/wricardo/mazequest/game/service"
)

var errNotFound = errors.New("not found")

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, configID string, config *engine.GameConfig, seed int64) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config, seed)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		ConfigID:       configID,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func createTestConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "test"
	config.Description = "Two small mazes"
	config.BaseSize = 3
	config.GrowthPerLevel = 2
	config.MaxLevel = 2
	config.ScorePerLevel = 50
	return config
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"default": engine.DefaultConfig(),
			"test":    createTestConfig(),
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
			MaxLevel:    config.MaxLevel,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) DefaultID() string {
	return "default"
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

// MockProgressStore implements service.ProgressStore in memory
type MockProgressStore struct {
	records map[string]*service.ProgressRecord
}

func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{records: make(map[string]*service.ProgressRecord)}
}

func (m *MockProgressStore) Record(ctx context.Context, gameID string, score int) (*service.ProgressRecord, error) {
	rec, ok := m.records[gameID]
	if !ok {
		rec = &service.ProgressRecord{GameID: gameID}
		m.records[gameID] = rec
	}
	if score > rec.BestScore {
		rec.BestScore = score
	}
	rec.Plays++
	rec.LastPlayed = time.Now()
	return rec, nil
}

func (m *MockProgressStore) Get(ctx context.Context, gameID string) (*service.ProgressRecord, error) {
	rec, ok := m.records[gameID]
	if !ok {
		return nil, errNotFound
	}
	return rec, nil
}

func (m *MockProgressStore) All(ctx context.Context) ([]*service.ProgressRecord, error) {
	result := make([]*service.ProgressRecord, 0, len(m.records))
	for _, rec := range m.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].GameID < result[j].GameID })
	return result, nil
}

func (m *MockProgressStore) Reset(ctx context.Context) error {
	m.records = make(map[string]*service.ProgressRecord)
	return nil
}

func newTestService() (service.GameService, *MockSessionManager, *MockProgressStore) {
	sessions := NewMockSessionManager()
	progress := NewMockProgressStore()
	return service.NewGameService(sessions, NewMockConfigManager(), progress), sessions, progress
}

func seed(v int64) *int64 { return &v }

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    bool
	}{
		{"create with default config", "", "default", false},
		{"create with specific config", "test", "test", false},
		{"create with invalid config", "nonexistent", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName, seed(7))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errNotFound) {
					t.Errorf("Expected wrapped config error, got %v", err)
				}
				return
			}
			if session.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %s, got %s", tt.wantConfig, session.ConfigName)
			}
			if session.Seed != 7 {
				t.Errorf("Expected seed 7, got %d", session.Seed)
			}
			if session.GameState == nil || session.GameState.Level != 1 {
				t.Error("Expected a level 1 game state")
			}
		})
	}

	random, err := svc.CreateSession(ctx, "test", nil)
	if err != nil {
		t.Fatalf("CreateSession() with random seed error = %v", err)
	}
	if random.GameState.Grid == nil {
		t.Error("Expected a generated grid")
	}
}

func TestGameService_Move(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()

	info, err := svc.CreateSession(ctx, "test", seed(3))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	t.Run("invalid session", func(t *testing.T) {
		if _, err := svc.Move(ctx, "nonexistent", "up", false); !errors.Is(err, errNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		if _, err := svc.Move(ctx, info.ID, "diagonal", false); !errors.Is(err, engine.ErrUnknownDirection) {
			t.Errorf("Expected ErrUnknownDirection, got %v", err)
		}
	})

	t.Run("blocked by wall", func(t *testing.T) {
		res, err := svc.Move(ctx, info.ID, "up", false)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if res.Success || res.Result != engine.Blocked {
			t.Errorf("Expected blocked move, got %s", res.Result)
		}
		if res.AttemptedTo == nil || res.AttemptedTo.TileType != "wall" || res.AttemptedTo.Passable {
			t.Errorf("Expected impassable wall attempt, got %+v", res.AttemptedTo)
		}
		if res.AttemptedTo.X != 1 || res.AttemptedTo.Y != 0 {
			t.Errorf("Expected attempt at (1,0), got (%d,%d)", res.AttemptedTo.X, res.AttemptedTo.Y)
		}
		if len(res.Events) != 1 || res.Events[0].Type != "blocked" {
			t.Errorf("Expected a single blocked event, got %+v", res.Events)
		}
	})

	t.Run("step along the hint", func(t *testing.T) {
		hint, err := svc.Hint(ctx, info.ID)
		if err != nil {
			t.Fatalf("Hint() error = %v", err)
		}
		res, err := svc.Move(ctx, info.ID, string(hint.Next), false)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if !res.Success || res.Step == nil || res.Step.Dir != hint.Next {
			t.Errorf("Expected successful step %s, got %+v", hint.Next, res.Step)
		}
		if res.GameState.PlayerPos != res.Step.To {
			t.Error("Expected state to reflect the step")
		}
	})

	t.Run("reset before move", func(t *testing.T) {
		res, err := svc.Move(ctx, info.ID, "up", true)
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if res.Events[0].Type != "reset" {
			t.Errorf("Expected reset event first, got %s", res.Events[0].Type)
		}
		if res.GameState.PlayerPos != engine.StartPosition() {
			t.Errorf("Expected player at start, got %s", res.GameState.PlayerPos)
		}
	})

	if sessions.saves == 0 {
		t.Error("Expected moves to persist the session")
	}
}

func TestGameService_PlayToVictory(t *testing.T) {
	ctx := context.Background()
	svc, _, progress := newTestService()

	info, err := svc.CreateSession(ctx, "test", seed(11))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var last *service.MoveResult
	for level := 1; level <= 2; level++ {
		hint, err := svc.Hint(ctx, info.ID)
		if err != nil {
			t.Fatalf("Hint() error = %v", err)
		}
		if hint.Level != level || hint.Distance != len(hint.Moves) {
			t.Fatalf("Unexpected hint %+v", hint)
		}
		for _, d := range hint.Moves {
			last, err = svc.Move(ctx, info.ID, string(d), false)
			if err != nil {
				t.Fatalf("Move() error = %v", err)
			}
		}
	}

	if !last.GameState.GameOver || !last.GameState.Victory {
		t.Fatal("Expected victory after the last level")
	}
	if last.GameState.Score != 100 {
		t.Errorf("Expected score 2*50, got %d", last.GameState.Score)
	}
	types := map[string]bool{}
	for _, ev := range last.Events {
		types[ev.Type] = true
	}
	if !types["level_complete"] || !types["victory"] {
		t.Errorf("Expected level_complete and victory events, got %+v", last.Events)
	}

	records, err := svc.GetProgress(ctx)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if len(records) != 1 || records[0].GameID != "maze:test" || records[0].BestScore != 100 {
		t.Errorf("Expected maze:test best score 100, got %+v", records)
	}

	if _, err := svc.Move(ctx, info.ID, "up", false); !errors.Is(err, engine.ErrGameOver) {
		t.Errorf("Expected ErrGameOver, got %v", err)
	}

	if err := svc.ResetProgress(ctx); err != nil {
		t.Fatalf("ResetProgress() error = %v", err)
	}
	if len(progress.records) != 0 {
		t.Error("Expected progress cleared")
	}
}

func TestGameService_BulkMove(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	info, err := svc.CreateSession(ctx, "test", seed(5))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	t.Run("invalid session", func(t *testing.T) {
		if _, err := svc.BulkMove(ctx, "nonexistent", []string{"up"}, false); err == nil {
			t.Error("Expected error")
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		if _, err := svc.BulkMove(ctx, info.ID, []string{"up", "nowhere"}, false); !errors.Is(err, engine.ErrUnknownDirection) {
			t.Errorf("Expected ErrUnknownDirection, got %v", err)
		}
	})

	t.Run("empty moves", func(t *testing.T) {
		res, err := svc.BulkMove(ctx, info.ID, []string{}, false)
		if err != nil {
			t.Fatalf("BulkMove() error = %v", err)
		}
		if res.MovesExecuted != 0 || !res.Success {
			t.Errorf("Expected nothing executed, got %+v", res)
		}
	})

	t.Run("stops at wall", func(t *testing.T) {
		hint, err := svc.Hint(ctx, info.ID)
		if err != nil {
			t.Fatalf("Hint() error = %v", err)
		}
		res, err := svc.BulkMove(ctx, info.ID, []string{string(hint.Next), "up", "up", "up", "up", "right"}, true)
		if err != nil {
			t.Fatalf("BulkMove() error = %v", err)
		}
		if res.Success {
			t.Fatal("Expected the run to hit a wall")
		}
		if res.StopReasonCode != "blocked_wall" || res.AttemptedTo == nil {
			t.Errorf("Expected blocked_wall with attempt, got %s %+v", res.StopReasonCode, res.AttemptedTo)
		}
		if res.StoppedOnMove != res.MovesExecuted+1 || len(res.Steps) != res.MovesExecuted {
			t.Errorf("Inconsistent stop: executed %d, stopped on %d", res.MovesExecuted, res.StoppedOnMove)
		}
		if res.MovesExecuted < 1 {
			t.Error("Expected the hinted first move to execute")
		}
	})

	t.Run("truncates long input", func(t *testing.T) {
		moves := make([]string, engine.MaxBulkMoves+10)
		for i := range moves {
			moves[i] = "up"
		}
		res, err := svc.BulkMove(ctx, info.ID, moves, true)
		if err != nil {
			t.Fatalf("BulkMove() error = %v", err)
		}
		if !res.Truncated || res.Limit != engine.MaxBulkMoves || res.RequestedMoves != len(moves) {
			t.Errorf("Expected truncation to %d, got %+v", engine.MaxBulkMoves, res)
		}
	})

	t.Run("solves a level", func(t *testing.T) {
		if _, err := svc.Reset(ctx, info.ID); err != nil {
			t.Fatalf("Reset() error = %v", err)
		}
		hint, err := svc.Hint(ctx, info.ID)
		if err != nil {
			t.Fatalf("Hint() error = %v", err)
		}
		moves := make([]string, len(hint.Moves))
		for i, d := range hint.Moves {
			moves[i] = string(d)
		}
		res, err := svc.BulkMove(ctx, info.ID, moves, false)
		if err != nil {
			t.Fatalf("BulkMove() error = %v", err)
		}
		if !res.Success || res.StartLevel != 1 || res.EndLevel != 2 {
			t.Errorf("Expected level 1 -> 2, got %d -> %d", res.StartLevel, res.EndLevel)
		}
		if res.ScoreDelta != 50 {
			t.Errorf("Expected score delta 50, got %d", res.ScoreDelta)
		}
		if !res.Steps[len(res.Steps)-1].LevelCompleted {
			t.Error("Expected the last step to complete the level")
		}
	})
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	info, err := svc.CreateSession(ctx, "test", seed(9))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := svc.Move(ctx, info.ID, "up", false); err != nil {
			t.Fatalf("Failed to move: %v", err)
		}
	}

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		wantMoves int
		wantFirst int
		wantNext  bool
		wantErr   bool
	}{
		{"default options", info.ID, service.HistoryOptions{}, 5, 5, false, false},
		{"ascending page", info.ID, service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"}, 2, 1, true, false},
		{"descending second page", info.ID, service.HistoryOptions{Page: 2, Limit: 2, Order: "desc"}, 2, 3, true, false},
		{"past the end", info.ID, service.HistoryOptions{Page: 9, Limit: 2, Order: "asc"}, 0, 0, false, false},
		{"invalid session", "nonexistent", service.HistoryOptions{}, 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetMoveHistory(ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetMoveHistory() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.Moves == nil {
				t.Fatal("GetMoveHistory() returned nil moves slice")
			}
			if len(result.Moves) != tt.wantMoves {
				t.Errorf("Expected %d moves, got %d", tt.wantMoves, len(result.Moves))
			}
			if tt.wantMoves > 0 && result.Moves[0].MoveNumber != tt.wantFirst {
				t.Errorf("Expected first move number %d, got %d", tt.wantFirst, result.Moves[0].MoveNumber)
			}
			if result.HasNext != tt.wantNext {
				t.Errorf("Expected HasNext %v, got %v", tt.wantNext, result.HasNext)
			}
			if result.TotalMoves != 5 {
				t.Errorf("Expected 5 total moves, got %d", result.TotalMoves)
			}
		})
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	var ids []string
	for i := 0; i < 3; i++ {
		info, err := svc.CreateSession(ctx, "test", nil)
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
		ids = append(ids, info.ID)
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}

	if err := svc.DeleteSession(ctx, ids[0]); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, ids[0]); !errors.Is(err, errNotFound) {
		t.Errorf("Expected deleted session to be gone, got %v", err)
	}
	if err := svc.DeleteSession(ctx, ids[0]); err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	info, err := svc.CreateSession(ctx, "test", seed(2))
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	hint, err := svc.Hint(ctx, info.ID)
	if err != nil {
		t.Fatalf("Hint() error = %v", err)
	}
	if _, err := svc.Move(ctx, info.ID, string(hint.Next), false); err != nil {
		t.Fatalf("Failed to move: %v", err)
	}

	state, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if state.PlayerPos != engine.StartPosition() || state.Level != 1 {
		t.Errorf("Expected level 1 at start, got level %d at %s", state.Level, state.PlayerPos)
	}
	if !state.Grid.Equal(info.GameState.Grid) {
		t.Error("Expected the same level 1 maze after reset")
	}
}

func TestGameService_Configs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d (%v)", len(configs), err)
	}

	custom := createTestConfig()
	custom.Name = "custom"
	if err := svc.SaveConfig(ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	loaded, err := svc.LoadConfig(ctx, "custom")
	if err != nil || loaded.Name != "custom" {
		t.Errorf("Expected saved config to load, got %v", err)
	}

	custom.MaxLevel = 0
	if err := svc.SaveConfig(ctx, "broken", custom); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
}
