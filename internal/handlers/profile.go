package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type ProfileHandler struct {
	log     *logger.Logger
	profile services.ProfileService
}

func NewProfileHandler(log *logger.Logger, profile services.ProfileService) *ProfileHandler {
	return &ProfileHandler{log: log.With("handler", "ProfileHandler"), profile: profile}
}

// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	overview, err := h.profile.GetOverview(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, overview)
}
