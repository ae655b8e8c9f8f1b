package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyForExperience(t *testing.T) {
	tests := []struct {
		years int
		want  Difficulty
	}{
		{years: 0, want: DifficultyEasy},
		{years: 2, want: DifficultyEasy},
		{years: 3, want: DifficultyEasy},
		{years: 4, want: DifficultyMedium},
		{years: 5, want: DifficultyMedium},
		{years: 6, want: DifficultyHard},
		{years: 15, want: DifficultyHard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DifficultyForExperience(tt.years), "years=%d", tt.years)
	}
}
