package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type LeaderboardHandler struct {
	log         *logger.Logger
	leaderboard services.LeaderboardService
}

func NewLeaderboardHandler(log *logger.Logger, leaderboard services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{log: log.With("handler", "LeaderboardHandler"), leaderboard: leaderboard}
}

// GET /api/leaderboard
func (h *LeaderboardHandler) Global(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	board, err := h.leaderboard.Global(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, board)
}

// GET /api/leaderboard/quiz/:id
func (h *LeaderboardHandler) ForQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation(fmt.Errorf("invalid quiz id")))
		return
	}
	board, err := h.leaderboard.ForQuiz(c.Request.Context(), quizID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, board)
}
