package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/handlers"
	"github.com/quizmaster/quizmaster-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	QuizHandler        *handlers.QuizHandler
	GenerationHandler  *handlers.GenerationHandler
	AttemptHandler     *handlers.AttemptHandler
	LeaderboardHandler *handlers.LeaderboardHandler
	ProfileHandler     *handlers.ProfileHandler
	MaintenanceHandler *handlers.MaintenanceHandler
	AllowedOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:8081", "http://localhost:19006"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)

		api.GET("/quizzes", cfg.QuizHandler.ListQuizzes)
		api.GET("/quizzes/:id", cfg.QuizHandler.GetQuiz)
		api.POST("/quizzes/custom", cfg.QuizHandler.AssembleCustomQuiz)

		api.GET("/leaderboard", cfg.LeaderboardHandler.Global)
		api.GET("/leaderboard/quiz/:id", cfg.LeaderboardHandler.ForQuiz)
	}

	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/quizzes/generate", cfg.GenerationHandler.GenerateQuiz)
		protected.POST("/submit", cfg.AttemptHandler.SubmitAttempt)
		protected.POST("/results/custom", cfg.AttemptHandler.SaveEphemeralResult)
		protected.GET("/attempts", cfg.AttemptHandler.ListAttempts)
		protected.GET("/profile", cfg.ProfileHandler.GetProfile)
		protected.POST("/maintenance/cleanup", cfg.MaintenanceHandler.Cleanup)
		protected.GET("/maintenance/scheduler", cfg.MaintenanceHandler.SchedulerStatus)
		protected.POST("/maintenance/scheduler", cfg.MaintenanceHandler.SchedulerControl)
	}

	return router
}
