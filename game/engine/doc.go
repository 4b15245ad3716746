// Package engine provides the core maze logic for Maze Quest.
//
// The engine package implements:
//   - Perfect maze generation by randomized depth-first carving
//   - Grid navigation with wall collision and goal detection
//   - Level progression and scoring
//   - Game state snapshots and restoration from a seed
//   - Ruleset loading and validation
//
// Core Types:
//
// Generate builds a Grid from an injected Source of randomness, so the same
// seed always yields the same maze. A Navigator tracks one player position
// over a Grid. A MazeSession owns the Grid, the player and the goal for a
// single level. GameEngine is the level shell: it starts levels, forwards
// moves and advances to the next level when the goal is reached.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultConfig(), 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := eng.SubmitMove("right")
//	if err != nil {
//		log.Fatal(err) // unknown direction or finished game
//	}
//	fmt.Println(outcome.Result) // blocked, moved or reached
//
// Grid Layout:
//
// Cells with both coordinates odd are carve-able nodes. Cells between two
// nodes become paths only when the carving walk connects them. The border is
// always wall. The player starts at (1,1) and the goal sits at
// (cols-2, rows-2); when the goal falls off the node lattice the generator
// carves one extra edge so it always joins the spanning tree.
package engine
