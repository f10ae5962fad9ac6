package app

import (
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Catalog     services.CatalogService
	Generation  services.GenerationService
	Scoring     services.ScoringService
	Leaderboard services.LeaderboardService
	Profile     services.ProfileService
	Maintenance services.MaintenanceService

	LeaderboardRefresher *services.LeaderboardRefresher
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	authService := services.NewAuthService(db, log, reposet.User, reposet.UserProfile, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	catalogService := services.NewCatalogService(log, reposet.Quiz, reposet.Question)
	generationService := services.NewGenerationService(log, clients.AIClient)
	leaderboardService := services.NewLeaderboardService(db, log, reposet.UserProfile, reposet.Attempt, reposet.Quiz, clients.Cache)
	scoringService := services.NewScoringService(db, log, reposet.Quiz, reposet.User, reposet.Attempt, reposet.Answer, leaderboardService)
	profileService := services.NewProfileService(log, reposet.User, reposet.Attempt, leaderboardService)
	maintenanceService := services.NewMaintenanceService(db, log, reposet.Attempt, reposet.Answer, reposet.Quiz, leaderboardService)
	refresher := services.NewLeaderboardRefresher(log, leaderboardService, cfg.LeaderboardRefreshInterval)

	return Services{
		Auth:                 authService,
		Catalog:              catalogService,
		Generation:           generationService,
		Scoring:              scoringService,
		Leaderboard:          leaderboardService,
		Profile:              profileService,
		Maintenance:          maintenanceService,
		LeaderboardRefresher: refresher,
	}
}
