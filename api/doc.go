// Package api provides the HTTP REST API for the maze game.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session, body {"config_id": "classic", "seed": 42} (both optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - Body {"direction": "up", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - Body {"moves": ["up", "right"], "reset": false}
//   - POST /api/sessions/{id}/reset - Restart at level 1 with the same seed
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//   - GET /api/sessions/{id}/hint - Shortest route to the current goal
//   - GET /api/sessions/{id}/maze.txt - ASCII maze (?route=true overlays the hint)
//   - GET /api/sessions/{id}/maze.png - PNG maze (?scale=16&route=true)
//
// Configuration:
//   - GET /api/configs - List rulesets
//   - POST /api/configs - Save a ruleset
//   - GET /api/configs/{name} - Get a ruleset
//
// Progress:
//   - GET /api/progress - Best score per ruleset
//   - DELETE /api/progress - Clear recorded progress
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket updates for a session
//
// Errors are returned as {"error": "..."}. Unknown directions and malformed
// bodies are 400, missing sessions and rulesets are 404, and moves after
// the game has ended are 409.
//
// Usage:
//
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
