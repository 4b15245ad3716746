// Package websocket provides the live WebSocket transport for the maze game.
//
// A Hub keeps the connected clients of every session. The REST API calls
// BroadcastToSession after each state change, and every client attached to
// that session receives the new state.
//
// Message Protocol:
//
//   - Outgoing: {"session_id", "event", "game_state", "data"} where event is
//     state_update, move_result or error
//   - Incoming: {"type":"move","direction":"up"}; the move is applied
//     through the hub's Mover and the result is broadcast to the session
//
// Usage:
//
//	hub := websocket.NewHub(gameService)
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
