// Command validate checks the ruleset JSON files in a config directory
// (default ../configs, or the first argument). For each file it checks:
//   - JSON structure and the ruleset rules enforced by the engine
//   - That every level generates a maze with a solid border, an open start
//     and goal, full connectivity and no cycles, for a sample of seeds
//   - That the goal is reachable from the start on every sampled maze
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mazequest/game/engine"
)

// sampleSeeds are the base seeds every level is generated with
var sampleSeeds = []int64{1, 2, 3, 42, 1337}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single ruleset file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}
	result.info("Ruleset: %d levels, %dx%d up to %dx%d", config.MaxLevel,
		config.SizeForLevel(1), config.SizeForLevel(1),
		config.SizeForLevel(config.MaxLevel), config.SizeForLevel(config.MaxLevel))

	checked := 0
	for level := 1; level <= config.MaxLevel; level++ {
		size := config.SizeForLevel(level)
		for _, seed := range sampleSeeds {
			levelSeed := engine.LevelSeed(seed, level)
			grid, err := engine.Generate(size, size, engine.NewSource(levelSeed))
			if err != nil {
				result.fail("Level %d seed %d: %v", level, seed, err)
				continue
			}
			if err := engine.VerifyMaze(grid); err != nil {
				result.fail("Level %d seed %d: %v", level, seed, err)
				continue
			}
			goal := engine.GoalPosition(size, size)
			if engine.FindPath(grid, engine.StartPosition(), goal) == nil {
				result.fail("Level %d seed %d: goal %s unreachable", level, seed, goal)
				continue
			}
			checked++
		}
	}
	if result.Valid {
		result.info("Mazes: %d generated mazes verified", checked)
	}

	return result
}

// main validates every *.json file in the config directory, printing a
// concise report and exiting with non-zero status if any are invalid
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
