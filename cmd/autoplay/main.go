// Command autoplay plays a Maze Quest session over the REST API without
// looking at the full maze. Each turn it reads the open directions around
// the player and explores until every level is solved.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/wricardo/mazequest/game/engine"
)

// errStuck means the explorer ran out of moves before the game ended
var errStuck = errors.New("no moves left to explore")

// playResult summarizes one run
type playResult struct {
	State   *engine.GameState
	Moves   int
	Blocked int
}

// play drives the session until victory, maxMoves or ctx is done
func play(ctx context.Context, client *Client, explorer *Explorer, state *engine.GameState, maxMoves int, delay time.Duration, verbose bool) (*playResult, error) {
	res := &playResult{State: state}
	for !res.State.GameOver && res.Moves < maxMoves {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		direction := explorer.NextMove(res.State)
		if direction == "" {
			return res, errStuck
		}

		result, err := client.Move(ctx, direction)
		if err != nil {
			return res, err
		}
		res.Moves++
		if result.Result == engine.Blocked {
			res.Blocked++
		}

		if result.GameState.Level != res.State.Level {
			log.Printf("Level %d solved after %d moves, now on level %d", res.State.Level, res.Moves, result.GameState.Level)
		}
		res.State = result.GameState

		if verbose && res.Moves%50 == 0 {
			log.Printf("Position: %s, Level: %d/%d, Depth: %d",
				res.State.PlayerPos, res.State.Level, res.State.MaxLevel, explorer.Depth())
		}

		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return res, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configName := flag.String("config", "", "Ruleset name (server default when empty)")
	seed := flag.Int64("seed", 0, "Base seed for a new session (random when 0)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxMoves := flag.Int("max-moves", 20000, "Maximum moves before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between moves in milliseconds (0 = no delay)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	sessionFile := ".session"
	savedSessionID := *continueSession
	if savedSessionID == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	var state *engine.GameState
	if savedSessionID != "" {
		log.Printf("Resuming session: %s", savedSessionID)
		info, err := client.Resume(ctx, savedSessionID)
		if err != nil {
			log.Printf("Failed to resume session (may be expired): %v", err)
			savedSessionID = ""
		} else {
			state = info.GameState
		}
	}

	if savedSessionID == "" {
		var seedPtr *int64
		if *seed != 0 {
			seedPtr = seed
		}
		info, err := client.CreateSession(ctx, *configName, seedPtr)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		state = info.GameState
		log.Printf("Session created: %s (%s, seed %d)", info.ID, info.ConfigName, info.Seed)

		if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	if state.GameOver {
		log.Printf("Session already finished, resetting...")
		var err error
		if state, err = client.Reset(ctx); err != nil {
			log.Fatalf("Failed to reset game: %v", err)
		}
	}
	log.Printf("Level %d/%d, %dx%d maze, position %s, goal %s",
		state.Level, state.MaxLevel, state.Cols, state.Rows, state.PlayerPos, state.Goal)

	res, err := play(ctx, client, NewExplorer(), state, *maxMoves, time.Duration(*delayMs)*time.Millisecond, *verbose)
	if err != nil {
		log.Printf("Stopped after %d moves: %v", res.Moves, err)
	}

	fmt.Printf("Session %s: %d moves (%d blocked), level %d/%d, score %d\n",
		client.SessionID(), res.Moves, res.Blocked, res.State.Level, res.State.MaxLevel, res.State.Score)
	if res.State.Victory {
		log.Printf("VICTORY! %s", res.State.Message)
		return
	}
	log.Printf("Failed to finish the game")
	os.Exit(1)
}
