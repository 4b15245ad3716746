package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// DefaultConfig returns the classic ruleset: three levels growing from 10x10
// to 14x14 and 100 points per level
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:           "classic",
		Description:    "Three mazes that grow by two cells per level",
		BaseSize:       8,
		GrowthPerLevel: 2,
		MaxLevel:       3,
		ScorePerLevel:  100,
	}
	config.Messages.Welcome = "Find your way to the exit!"
	config.Messages.LevelStart = "Level %d"
	config.Messages.LevelComplete = "Level %d complete!"
	config.Messages.Victory = "You escaped every maze! Score: %d"
	config.Messages.HitWall = "Bump! That's a wall."
	config.Messages.GameOver = "The game is over. Reset to play again."
	return config
}

// ValidateGameConfig checks that every level of a ruleset produces a
// playable maze
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.MaxLevel < 1 || config.MaxLevel > MaxLevels {
		return fmt.Errorf("config validation: max_level must be between 1 and %d, got %d", MaxLevels, config.MaxLevel)
	}
	if config.GrowthPerLevel < 0 {
		return fmt.Errorf("config validation: growth_per_level must not be negative, got %d", config.GrowthPerLevel)
	}
	if first := config.SizeForLevel(1); first < MinDimension {
		return fmt.Errorf("config validation: level 1 maze is %dx%d, minimum is %d", first, first, MinDimension)
	}
	if last := config.SizeForLevel(config.MaxLevel); last > MaxDimension {
		return fmt.Errorf("config validation: level %d maze is %dx%d, maximum is %d", config.MaxLevel, last, last, MaxDimension)
	}
	if config.ScorePerLevel < 0 {
		return fmt.Errorf("config validation: score_per_level must not be negative, got %d", config.ScorePerLevel)
	}

	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for score")
	}
	if config.Messages.LevelComplete != "" && !strings.Contains(config.Messages.LevelComplete, "%d") {
		return fmt.Errorf("config validation: messages.level_complete must contain %%d for level")
	}
	if config.Messages.LevelStart != "" && !strings.Contains(config.Messages.LevelStart, "%d") {
		return fmt.Errorf("config validation: messages.level_start must contain %%d for level")
	}

	return nil
}

// LoadGameConfig loads and validates a ruleset from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
