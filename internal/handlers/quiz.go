package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type QuizHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewQuizHandler(log *logger.Logger, catalog services.CatalogService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), catalog: catalog}
}

// GET /api/quizzes
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	summaries, err := h.catalog.ListQuizzes(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"quizzes": summaries})
}

// GET /api/quizzes/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, apierr.Validation(fmt.Errorf("invalid quiz id")))
		return
	}
	def, err := h.catalog.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, def)
}

type customQuizRequest struct {
	Category      string `json:"category" binding:"required"`
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
}

// POST /api/quizzes/custom
// Assembles an ephemeral quiz from stored questions matching a category.
func (h *QuizHandler) AssembleCustomQuiz(c *gin.Context) {
	var req customQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation(err))
		return
	}
	def, err := h.catalog.AssembleCustomQuiz(c.Request.Context(), req.Category, req.Difficulty, req.QuestionCount)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, def)
}
