// Package mcp exposes the maze game to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call is translated into a REST API
// request against a running server, and the JSON response is formatted as
// text for the agent.
//
// MCP Tools:
//   - create_session, get_session, list_sessions
//   - game_state: maze, position, level and score
//   - move, bulk_move: movement, with an intent argument for the agent's reasoning
//   - reset_game: restart at level 1 with the same seed
//   - move_history: paginated history
//   - hint: shortest route to the current goal
//   - render_maze: ASCII maze, optionally with the hint route
//   - describe_cell: one grid cell, read straight from the state JSON
//   - list_configs, get_progress, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
