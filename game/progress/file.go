package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wricardo/mazequest/game/service"
)

// FileStore keeps every record in a single JSON object keyed by game id
type FileStore struct {
	path string
	now  func() time.Time

	mu      sync.Mutex
	records map[string]*service.ProgressRecord
}

// NewFileStore loads path if it exists. A missing file is an empty store.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("progress file path is required")
	}
	s := &FileStore{
		path:    filepath.Clean(path),
		now:     time.Now,
		records: make(map[string]*service.ProgressRecord),
	}

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read progress file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse progress file: %w", err)
	}
	for id, rec := range s.records {
		rec.GameID = id
	}
	return s, nil
}

// Record adds a finished game with score
func (s *FileStore) Record(ctx context.Context, gameID string, score int) (*service.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validate(gameID, score); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[gameID]
	if !ok {
		rec = &service.ProgressRecord{GameID: gameID}
		s.records[gameID] = rec
	}
	prev := *rec
	merge(rec, score)
	rec.LastPlayed = s.now().UTC()

	if err := s.flush(); err != nil {
		if ok {
			*rec = prev
		} else {
			delete(s.records, gameID)
		}
		return nil, err
	}
	out := *rec
	return &out, nil
}

// Get returns the record for gameID
func (s *FileStore) Get(ctx context.Context, gameID string) (*service.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[gameID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", gameID, ErrProgressNotFound)
	}
	out := *rec
	return &out, nil
}

// All returns every record ordered by game id
func (s *FileStore) All(ctx context.Context) ([]*service.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*service.ProgressRecord, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

// Reset clears every record
func (s *FileStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.records
	s.records = make(map[string]*service.ProgressRecord)
	if err := s.flush(); err != nil {
		s.records = old
		return err
	}
	return nil
}

// Close is a no-op; every change is already on disk
func (s *FileStore) Close() error { return nil }

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create progress directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write progress file: %w", err)
	}
	return nil
}
