package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type GenerationHandler struct {
	log        *logger.Logger
	generation services.GenerationService
}

func NewGenerationHandler(log *logger.Logger, generation services.GenerationService) *GenerationHandler {
	return &GenerationHandler{log: log.With("handler", "GenerationHandler"), generation: generation}
}

// POST /api/quizzes/generate
// The returned quiz is ephemeral: it is never stored, and a later call
// with the same parameters produces fresh IDs.
func (h *GenerationHandler) GenerateQuiz(c *gin.Context) {
	var params services.GenerationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		RespondError(c, apierr.Validation(err))
		return
	}
	def, err := h.generation.Generate(c.Request.Context(), params)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, def)
}
