package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/services"
)

type MaintenanceHandler struct {
	log         *logger.Logger
	maintenance services.MaintenanceService
	refresher   *services.LeaderboardRefresher
}

func NewMaintenanceHandler(log *logger.Logger, maintenance services.MaintenanceService, refresher *services.LeaderboardRefresher) *MaintenanceHandler {
	return &MaintenanceHandler{
		log:         log.With("handler", "MaintenanceHandler"),
		maintenance: maintenance,
		refresher:   refresher,
	}
}

type cleanupRequest struct {
	CutoffDate string `json:"cutoff_date" binding:"required"`
}

// POST /api/maintenance/cleanup
func (h *MaintenanceHandler) Cleanup(c *gin.Context) {
	var req cleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation(err))
		return
	}
	cutoff, err := time.Parse("2006-01-02", req.CutoffDate)
	if err != nil {
		RespondError(c, apierr.Validation(fmt.Errorf("invalid date format, use YYYY-MM-DD")))
		return
	}
	result, err := h.maintenance.CleanupBefore(c.Request.Context(), cutoff)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":          fmt.Sprintf("Cleaned up quiz data prior to %s", req.CutoffDate),
		"deleted_attempts": result.DeletedAttempts,
		"deleted_answers":  result.DeletedAnswers,
		"deleted_quizzes":  result.DeletedQuizzes,
		"profiles_updated": result.ProfilesUpdated,
	})
}

// GET /api/maintenance/scheduler
func (h *MaintenanceHandler) SchedulerStatus(c *gin.Context) {
	RespondOK(c, gin.H{
		"running":          h.refresher.Running(),
		"interval_seconds": int(h.refresher.Interval().Seconds()),
	})
}

type schedulerControlRequest struct {
	Action string `json:"action" binding:"required"`
}

// POST /api/maintenance/scheduler
func (h *MaintenanceHandler) SchedulerControl(c *gin.Context) {
	var req schedulerControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation(err))
		return
	}
	var changed bool
	switch req.Action {
	case "start":
		changed = h.refresher.Start()
	case "stop":
		changed = h.refresher.Stop()
	default:
		RespondError(c, apierr.Validation(fmt.Errorf("action must be start or stop")))
		return
	}
	RespondOK(c, gin.H{
		"action":  req.Action,
		"changed": changed,
		"running": h.refresher.Running(),
	})
}
