package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/requestdata"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type AttemptHandler struct {
	log     *logger.Logger
	scoring services.ScoringService
}

func NewAttemptHandler(log *logger.Logger, scoring services.ScoringService) *AttemptHandler {
	return &AttemptHandler{log: log.With("handler", "AttemptHandler"), scoring: scoring}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return uuid.Nil, false
	}
	return rd.UserID, true
}

type submitRequest struct {
	QuizID           uuid.UUID                  `json:"quiz_id" binding:"required"`
	Answers          []services.SubmittedAnswer `json:"answers"`
	TimeTakenSeconds int                        `json:"time_taken_seconds"`
}

// POST /api/submit
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation(err))
		return
	}
	result, err := h.scoring.SubmitAttempt(c.Request.Context(), req.QuizID, userID, req.Answers, req.TimeTakenSeconds)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

type ephemeralResultRequest struct {
	QuizTitle        string `json:"quiz_title"`
	Score            int    `json:"score"`
	TotalPoints      int    `json:"total_points"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	IsAIGenerated    *bool  `json:"is_ai_generated"`
}

// POST /api/results/custom
// Records the outcome of an ephemeral (AI-generated or custom) quiz for
// history display.
func (h *AttemptHandler) SaveEphemeralResult(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req ephemeralResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation(err))
		return
	}
	isAIGenerated := true
	if req.IsAIGenerated != nil {
		isAIGenerated = *req.IsAIGenerated
	}
	result, err := h.scoring.SubmitEphemeralResult(c.Request.Context(), userID, req.QuizTitle, req.Score, req.TotalPoints, req.TimeTakenSeconds, isAIGenerated)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":    fmt.Sprintf("Result for %q saved", req.QuizTitle),
		"attempt_id": result.AttemptID,
		"percentage": result.Percentage,
	})
}

// GET /api/attempts
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	attempts, err := h.scoring.ListAttempts(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"attempts": attempts})
}
