package app

import (
	"strings"
	"time"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/utils"
)

type Config struct {
	JWTSecretKey               string
	AccessTokenTTL             time.Duration
	Port                       string
	AllowedOrigins             []string
	LeaderboardRefreshInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	port := utils.GetEnv("PORT", "8080", log)
	refreshSeconds := utils.GetEnvAsInt("LEADERBOARD_REFRESH_SECONDS", 300, log)

	var origins []string
	if raw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Config{
		JWTSecretKey:               jwtSecretKey,
		AccessTokenTTL:             time.Duration(accessTokenTTLSeconds) * time.Second,
		Port:                       port,
		AllowedOrigins:             origins,
		LeaderboardRefreshInterval: time.Duration(refreshSeconds) * time.Second,
	}
}
