// Command analyze prints maze statistics for the rulesets in the project's
// configs directory. For every level it generates a sample of mazes and
// reports path cells, dead ends and solution length.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/mazequest/game/engine"
)

// defaultSamples is the number of base seeds analyzed per level
const defaultSamples = 20

// LevelStats summarizes the mazes generated for one level
type LevelStats struct {
	Level     int
	Size      int
	Samples   int
	PathCells float64
	DeadEnds  float64
	// Solution is the mean number of moves from start to goal
	Solution    float64
	MinSolution int
	MaxSolution int
}

// analyzeConfig generates samples mazes per level of config
func analyzeConfig(config *engine.GameConfig, samples int) ([]LevelStats, error) {
	stats := make([]LevelStats, 0, config.MaxLevel)
	for level := 1; level <= config.MaxLevel; level++ {
		size := config.SizeForLevel(level)
		st := LevelStats{Level: level, Size: size, Samples: samples, MinSolution: -1}

		var cells, ends, moves int
		for seed := int64(1); seed <= int64(samples); seed++ {
			grid, err := engine.Generate(size, size, engine.NewSource(engine.LevelSeed(seed, level)))
			if err != nil {
				return nil, fmt.Errorf("level %d seed %d: %w", level, seed, err)
			}
			path := engine.FindPath(grid, engine.StartPosition(), engine.GoalPosition(size, size))
			if path == nil {
				return nil, fmt.Errorf("level %d seed %d: goal unreachable", level, seed)
			}
			solution := len(path) - 1

			cells += engine.CountPathCells(grid)
			ends += len(engine.DeadEnds(grid))
			moves += solution
			if st.MinSolution < 0 || solution < st.MinSolution {
				st.MinSolution = solution
			}
			if solution > st.MaxSolution {
				st.MaxSolution = solution
			}
		}

		if samples > 0 {
			st.PathCells = float64(cells) / float64(samples)
			st.DeadEnds = float64(ends) / float64(samples)
			st.Solution = float64(moves) / float64(samples)
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func loadConfig(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func printStats(config *engine.GameConfig, stats []LevelStats) {
	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Levels: %d, %d points per level, best score %d\n",
		config.MaxLevel, config.ScorePerLevel, config.ScorePerLevel*config.MaxLevel)
	fmt.Printf("%-6s %-8s %10s %10s %10s %10s\n", "Level", "Size", "PathCells", "DeadEnds", "Solution", "Min/Max")
	for _, st := range stats {
		fmt.Printf("%-6d %-8s %10.1f %10.1f %10.1f %10s\n",
			st.Level, fmt.Sprintf("%dx%d", st.Size, st.Size),
			st.PathCells, st.DeadEnds, st.Solution,
			fmt.Sprintf("%d/%d", st.MinSolution, st.MaxSolution))
	}
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		config, err := loadConfig(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		stats, err := analyzeConfig(config, defaultSamples)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printStats(config, stats)
	}
}
