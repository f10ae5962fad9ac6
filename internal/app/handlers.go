package app

import (
	"github.com/quizmaster/quizmaster-backend/internal/handlers"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Quiz        *handlers.QuizHandler
	Generation  *handlers.GenerationHandler
	Attempt     *handlers.AttemptHandler
	Leaderboard *handlers.LeaderboardHandler
	Profile     *handlers.ProfileHandler
	Maintenance *handlers.MaintenanceHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(log, serviceset.Auth),
		Quiz:        handlers.NewQuizHandler(log, serviceset.Catalog),
		Generation:  handlers.NewGenerationHandler(log, serviceset.Generation),
		Attempt:     handlers.NewAttemptHandler(log, serviceset.Scoring),
		Leaderboard: handlers.NewLeaderboardHandler(log, serviceset.Leaderboard),
		Profile:     handlers.NewProfileHandler(log, serviceset.Profile),
		Maintenance: handlers.NewMaintenanceHandler(log, serviceset.Maintenance, serviceset.LeaderboardRefresher),
	}
}
