// Package session provides session management for the maze game.
//
// Manager keeps one service.Session per player, each with its own
// engine.GameEngine built from a ruleset and a seed. IDs are the first eight
// characters of a random UUID unless the caller supplies one, and lookups are
// case-insensitive.
//
// Persistence:
//
// With a SessionPersistence attached, sessions are saved on creation and
// whenever the service saves them, and Get falls back to the store for
// sessions not in memory. FilePersistence writes one JSON file per session
// holding the base seed, ruleset id and game state. Loading regenerates the
// current level's maze from the seed and rejects files whose maze does not
// match (engine.ErrSeedMismatch).
//
// Usage:
//
//	store, _ := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManagerWithPersistence(store)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.Create("", "classic", rules, engine.RandomSeed())
//
// Cleanup:
//
// CleanupExpiredSessions drops idle sessions from memory; their files stay
// on disk and are reloaded on the next access.
package session
