package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tidwall/gjson"

	"github.com/wricardo/mazequest/game/engine"
	"github.com/wricardo/mazequest/game/render"
	"github.com/wricardo/mazequest/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Quest",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Quest - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk the player (@) from the top-left corner to the goal (G) of each maze.
Every completed level generates a larger maze; finish the last level to win.

AVAILABLE TOOLS:
- create_session: Create a new game session (optional config_id and seed)
- get_session / list_sessions: Inspect sessions
- game_state: Current maze, position, level and score
- move: Single move (up/down/left/right) - requires intent explanation
- bulk_move: Up to 50 moves at once - requires intent explanation
- reset_game: Restart at level 1 with the same seed
- move_history: View past moves
- hint: Shortest route from the player to the goal
- render_maze: ASCII maze, optionally with the hint route drawn as *
- describe_cell: Details of one grid cell
- list_configs: Available rulesets
- get_progress: Best score per ruleset
- game_instructions: Rules and legend

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional ruleset and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "Ruleset to use (optional, see list_configs)",
				},
				"seed": map[string]any{
					"type":        "integer",
					"description": "Seed for reproducible mazes (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell. Moving into a wall leaves the player in place.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"direction": map[string]any{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Why you are making this move",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Restart the game before moving",
				},
			},
			Required: []string{"session_id", "direction", "intent"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in order. Stops at the first blocked move or when the game ends.", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"moves": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "enum": []string{"up", "down", "left", "right"}},
					"description": "Directions to execute",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "Why you are making these moves",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Restart the game before moving",
				},
			},
			Required: []string{"session_id", "moves", "intent"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Restart the game at level 1 with the same seed",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the move history of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Moves per page (default 20, max 100)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Shortest route from the player to the goal of the current level",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionIDProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_maze",
		Description: "Render the maze as ASCII text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"route": map[string]any{
					"type":        "boolean",
					"description": "Draw the hint route as *",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRenderMaze)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed info about a specific grid cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"x": map[string]any{
					"type":        "integer",
					"description": "Column, 0 is the left edge",
				},
				"y": map[string]any{
					"type":        "integer",
					"description": "Row, 0 is the top edge",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	// Configuration and progress
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rulesets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_progress",
		Description: "Best score per ruleset across all sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGetProgress)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules and grid legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

// apiRaw performs a request and returns the response body
func (c *Client) apiRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		if msg := gjson.GetBytes(data, "error"); msg.Exists() {
			return nil, fmt.Errorf("%s", msg.String())
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}
	return data, nil
}

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	data, err := c.apiRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(data, result)
	}
	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]any{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}
	if args := request.GetArguments(); args["seed"] != nil {
		body["seed"] = int64(request.GetFloat("seed", 0))
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n\n%s",
		session.ID, session.ConfigName, session.Seed, formatGameState(session.GameState))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level := 0
		if s.GameState != nil {
			level = s.GameState.Level
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Level: %d, Created: %s)\n",
			s.ID, s.ConfigName, level, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(request.GetString("session_id", ""), ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(request.GetString("session_id", ""), "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]any{
		"direction": request.GetString("direction", ""),
		"reset":     request.GetBool("reset", false),
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(request.GetString("session_id", ""), "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	body := map[string]any{
		"moves": request.GetStringSlice("moves", []string{}),
		"reset": request.GetBool("reset", false),
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(request.GetString("session_id", ""), "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(request.GetString("session_id", ""), "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var hint service.HintResult
	if err := c.apiCall(ctx, "GET", sessionPath(request.GetString("session_id", ""), "/hint"), nil, &hint); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHint(&hint)), nil
}

func (c *Client) handleRenderMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := sessionPath(request.GetString("session_id", ""), "/maze.txt")
	if request.GetBool("route", false) {
		path += "?route=true"
	}
	data, err := c.apiRaw(ctx, "GET", path, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.TrimRight(string(data), "\n")), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	x := request.GetInt("x", -1)
	y := request.GetInt("y", -1)

	raw, err := c.apiRaw(ctx, "GET", sessionPath(sessionID, "/state"), nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := describeCell(raw, x, y)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		first := cfg.BaseSize + cfg.GrowthPerLevel
		last := cfg.BaseSize + cfg.GrowthPerLevel*cfg.MaxLevel
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Levels: %d, Maze: %dx%d up to %dx%d, %d points per level\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.MaxLevel, first, first, last, last, cfg.ScorePerLevel)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count   int                       `json:"count"`
		Records []*service.ProgressRecord `json:"records"`
	}
	if err := c.apiCall(ctx, "GET", "/api/progress", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if response.Count == 0 {
		return mcp.NewToolResultText("No finished games recorded yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Progress (%d):\n\n", response.Count)
	for _, r := range response.Records {
		fmt.Fprintf(&b, "- %s: best %d over %d plays (last %s)\n",
			r.GameID, r.BestScore, r.Plays, r.LastPlayed.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Maze Quest - Complete Instructions

GAME OBJECTIVE:
Guide the player from the start (1,1) to the goal of each maze. Reaching the
goal completes the level and the next, larger maze starts immediately. Finish
the last level to win.

GRID LEGEND:
  %c  Wall (impassable)
  %c  Path
  %c  You
  %c  Goal

COORDINATES:
x grows to the right, y grows downward. (0,0) is the top-left wall corner.

MOVEMENT COMMANDS:
up, down, left, right. Moving into a wall is not an error; the move is
recorded as blocked and you stay in place.

BULK MOVES:
bulk_move takes at most %d directions. Every direction is checked before any
move is made. Execution stops at the first blocked move or when the game ends.

SCORING:
Completing level N sets the score to N times the ruleset's points per level.

STRATEGY:
- Use game_state or render_maze to see the whole maze
- Use describe_cell when unsure what a character is
- Use hint when stuck; render_maze with route=true draws the hint
- Every maze is a tree, so there is exactly one route to the goal
`, engine.WallChar, engine.PathChar, engine.PlayerChar, engine.GoalChar, engine.MaxBulkMoves)

	return mcp.NewToolResultText(instructions), nil
}

// describeCell reads one cell out of a raw game state document
func describeCell(raw []byte, x, y int) (string, error) {
	state := gjson.ParseBytes(raw)
	cols := int(state.Get("cols").Int())
	rows := int(state.Get("rows").Int())
	if x < 0 || x >= cols || y < 0 || y >= rows {
		return "", fmt.Errorf("coordinates (%d, %d) are out of bounds, grid is %dx%d (x 0-%d, y 0-%d)",
			x, y, cols, rows, cols-1, rows-1)
	}

	row := state.Get(fmt.Sprintf("grid.%d", y)).String()
	if x >= len(row) {
		return "", fmt.Errorf("row %d is shorter than %d cells", y, x+1)
	}
	cellChar := rune(row[x])

	cellType, passable, description := "Wall", false, "Wall - IMPASSABLE"
	if cellChar == engine.PathChar {
		cellType, passable, description = "Path", true, "Open path - safe to walk"
	}

	at := func(key string) bool {
		return int(state.Get(key+".x").Int()) == x && int(state.Get(key+".y").Int()) == y
	}
	shown := cellChar
	switch {
	case at("player_pos"):
		shown = engine.PlayerChar
		description = "Your current position"
	case at("goal"):
		shown = engine.GoalChar
		description = "Goal of this level - reach it to complete the level"
	}

	return fmt.Sprintf(`Cell at position (%d, %d):
Character: %c
Type: %s
Passable: %v
Description: %s
Level: %d`,
		x, y, shown, cellType, passable, description, state.Get("level").Int()), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format(time.RFC3339), formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level %d/%d, Score %d, Moves %d (level %d)\n",
		state.Level, state.MaxLevel, state.Score, state.TotalMoves, state.LevelMoves)
	fmt.Fprintf(&b, "Position: (%d, %d)  Goal: (%d, %d)  Maze: %dx%d\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.Goal.X, state.Goal.Y, state.Cols, state.Rows)

	switch {
	case state.Victory:
		b.WriteString("🏆 VICTORY! All levels complete.\n")
	case state.GameOver:
		b.WriteString("GAME OVER\n")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}

	if state.Grid != nil {
		b.WriteString("\n")
		b.WriteString(render.ASCII(render.SceneFromState(state)))
		b.WriteString("\n")
	}

	if !state.GameOver {
		b.WriteString("\n")
		b.WriteString(formatLocal3x3(state))
		fmt.Fprintf(&b, "Possible moves: %s\n", joinDirections(state.PossibleMoves))
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Move successful\n")
	} else {
		b.WriteString("✗ Move blocked\n")
	}
	if result.Step != nil {
		st := result.Step
		fmt.Fprintf(&b, "%s: (%d,%d) -> (%d,%d) [%s]\n", st.Dir, st.From.X, st.From.Y, st.To.X, st.To.Y, st.Result)
	}
	if result.AttemptedTo != nil {
		a := result.AttemptedTo
		fmt.Fprintf(&b, "Attempted (%d,%d): %s '%s'\n", a.X, a.Y, a.TileType, a.TileChar)
	}
	for _, ev := range result.Events {
		if ev.Type == "level_complete" || ev.Type == "victory" || ev.Type == "reset" {
			fmt.Fprintf(&b, "Event: %s\n", ev.Message)
		}
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d/%d moves\n", sessionID, result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "⚠️ Request truncated to %d moves\n", result.Limit)
	}
	fmt.Fprintf(&b, "Start (%d,%d) level %d -> End (%d,%d) level %d, score +%d\n",
		result.StartPos.X, result.StartPos.Y, result.StartLevel,
		result.EndPos.X, result.EndPos.Y, result.EndLevel, result.ScoreDelta)
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s (%s)\n", result.StoppedOnMove, result.StoppedReason, result.StopReasonCode)
	}
	if result.AttemptedTo != nil {
		a := result.AttemptedTo
		fmt.Fprintf(&b, "Attempted (%d,%d): %s '%s'\n", a.X, a.Y, a.TileType, a.TileChar)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, st := range result.Steps {
			marker := ""
			if st.LevelCompleted {
				marker = " level complete"
			}
			if st.Victory {
				marker = " victory"
			}
			fmt.Fprintf(&b, "  %2d. %-5s (%d,%d) -> (%d,%d)%s\n", st.Idx, st.Dir, st.From.X, st.From.Y, st.To.X, st.To.Y, marker)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHint(hint *service.HintResult) string {
	if hint.Distance == 0 {
		return fmt.Sprintf("Level %d: already at the goal (%d,%d)", hint.Level, hint.Goal.X, hint.Goal.Y)
	}
	return fmt.Sprintf("Level %d: %d moves from (%d,%d) to the goal (%d,%d)\nNext: %s\nRoute: %s",
		hint.Level, hint.Distance, hint.From.X, hint.From.Y, hint.Goal.X, hint.Goal.Y,
		hint.Next, joinDirections(hint.Moves))
}

func formatLocal3x3(state *engine.GameState) string {
	if len(state.LocalView3x3) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Local view:\n")
	for _, line := range state.LocalView3x3 {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (page %d/%d, %d total):\n\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, m := range history.Moves {
		fmt.Fprintf(&b, "%d. L%d %-5s (%d,%d) -> (%d,%d) %s\n",
			m.MoveNumber, m.Level, m.Action, m.FromPosition.X, m.FromPosition.Y, m.ToPosition.X, m.ToPosition.Y, m.Result)
	}
	if history.HasNext {
		b.WriteString("\nMore moves on the next page.\n")
	}
	return b.String()
}

func joinDirections(dirs []engine.Direction) string {
	if len(dirs) == 0 {
		return "none"
	}
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}
