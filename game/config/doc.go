// Package config provides ruleset management for the maze game.
//
// A ruleset is a JSON file in the configs directory describing how a game
// grows from level to level:
//   - base_size and growth_per_level give the maze side for each level
//   - max_level is the number of levels to clear for victory
//   - score_per_level is awarded per completed level
//   - messages holds the player-facing text
//
// The file name without .json is the ruleset id used when creating a
// session. classic.json is the default when present; otherwise the first
// valid file is used, and a built-in ruleset when the directory is empty.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadConfig("classic")
//	configs, err := manager.ListConfigs()
package config
