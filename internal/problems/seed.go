// Package problems loads the coding problem bank from a YAML seed file into
// the database.
package problems

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/core"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/storage"
)

type seedTestCase struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Hidden bool   `yaml:"hidden"`
}

type seedProblem struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Difficulty  string         `yaml:"difficulty"`
	TestCases   []seedTestCase `yaml:"testCases"`
}

// LoadSeedFile parses and validates a YAML problem bank file.
func LoadSeedFile(path string) ([]core.CodeProblem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var raw []seedProblem
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	problems := make([]core.CodeProblem, 0, len(raw))
	for i, sp := range raw {
		if sp.Title == "" {
			return nil, fmt.Errorf("seed entry %d has no title", i)
		}
		difficulty := core.Difficulty(strings.ToUpper(sp.Difficulty))
		switch difficulty {
		case core.DifficultyEasy, core.DifficultyMedium, core.DifficultyHard:
		default:
			return nil, fmt.Errorf("seed entry %q has invalid difficulty %q", sp.Title, sp.Difficulty)
		}

		p := core.CodeProblem{
			ID:          uuid.New(),
			Title:       sp.Title,
			Description: sp.Description,
			Difficulty:  difficulty,
		}
		for _, tc := range sp.TestCases {
			p.TestCases = append(p.TestCases, core.TestCase{
				ID:            uuid.New(),
				CodeProblemID: p.ID,
				Input:         tc.Input,
				Output:        tc.Output,
				Hidden:        tc.Hidden,
			})
		}
		problems = append(problems, p)
	}
	return problems, nil
}

// Seed loads the file at path and inserts its problems into the store.
func Seed(ctx context.Context, store storage.Store, path string, logger *slog.Logger) error {
	problems, err := LoadSeedFile(path)
	if err != nil {
		return err
	}
	logger.Info("seeding problem bank", "problems", len(problems))

	if err := store.SeedProblems(ctx, problems); err != nil {
		return fmt.Errorf("seed problems: %w", err)
	}
	logger.Info("problem bank seeded")
	return nil
}
