package services

import (
	"strings"

	"github.com/quizmaster/quizmaster-backend/internal/types"
)

// ComputeQuestionPoints maps a question's difficulty tag to its point
// value. Both stored questions and AI-generated ones go through this
// single mapping; unknown or missing difficulty falls back to medium.
func ComputeQuestionPoints(difficulty string) int {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case types.DifficultyEasy:
		return 1
	case types.DifficultyMedium:
		return 2
	case types.DifficultyHard:
		return 4
	default:
		return 2
	}
}
