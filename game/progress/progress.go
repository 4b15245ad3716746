// Package progress records the best score of every finished game.
//
// Two backends implement service.ProgressStore: FileStore keeps all records
// in one JSON document, SQLiteStore keeps one row per game. A record's best
// score never decreases; Reset clears every record.
package progress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/mazequest/game/service"
)

// ErrProgressNotFound is returned by Get for a game that was never recorded
var ErrProgressNotFound = errors.New("progress not found")

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Store is a ProgressStore that holds resources
type Store interface {
	service.ProgressStore
	Close() error
}

// Open returns the store for backend at path. BackendNone returns a nil
// store, which the service treats as "do not record".
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		s, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown progress backend %q (want file, sqlite or none)", backend)
	}
}

// merge applies one finished game to a record
func merge(rec *service.ProgressRecord, score int) {
	if score > rec.BestScore {
		rec.BestScore = score
	}
	rec.Plays++
}

func validate(gameID string, score int) error {
	if strings.TrimSpace(gameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if score < 0 {
		return fmt.Errorf("score must not be negative: %d", score)
	}
	return nil
}
