// Package service provides the business logic layer for the maze game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Move processing, bulk moves and hints
//   - Move history tracking
//   - Best-score progress recording
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages ruleset loading and validation.
// ProgressStore keeps the best score of every finished game.
//
// Architecture:
//
// The service layer sits between the transports (HTTP/WebSocket/MCP/terminal)
// and the game engine. Each session owns a GameEngine created from a ruleset
// and a seed, so the same seed and ruleset always produce the same mazes.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	progress, _ := progress.NewFileStore("progress.json")
//	gameService := service.NewGameService(sessionMgr, configMgr, progress)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, "right", false)
package service
