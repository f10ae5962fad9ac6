package app

import (
	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:        handlerset.Auth,
		AuthMiddleware:     mw.Auth,
		QuizHandler:        handlerset.Quiz,
		GenerationHandler:  handlerset.Generation,
		AttemptHandler:     handlerset.Attempt,
		LeaderboardHandler: handlerset.Leaderboard,
		ProfileHandler:     handlerset.Profile,
		MaintenanceHandler: handlerset.Maintenance,
		AllowedOrigins:     cfg.AllowedOrigins,
	})
}
