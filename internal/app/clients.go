package app

import (
	"os"
	"strings"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/clients/redis"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type Clients struct {
	Cache    redis.Cache
	AIClient services.AIClient
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis is optional; without it the leaderboard cache is disabled.
	var cache redis.Cache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewCache(log)
		if err != nil {
			return Clients{}, err
		}
		cache = c
	}

	// A missing AI key keeps the server usable; generation requests report
	// the configuration problem instead.
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		if apierr.HasCode(err, apierr.CodeConfiguration) {
			log.Warn("AI client not configured, quiz generation disabled", "error", err)
			aiClient = nil
		} else {
			return Clients{}, err
		}
	}

	return Clients{Cache: cache, AIClient: aiClient}, nil
}
