package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/repos"
)

type CleanupResult struct {
	DeletedAttempts int64 `json:"deleted_attempts"`
	DeletedAnswers  int64 `json:"deleted_answers"`
	DeletedQuizzes  int   `json:"deleted_quizzes"`
	ProfilesUpdated int   `json:"profiles_updated"`
}

type MaintenanceService interface {
	CleanupBefore(ctx context.Context, cutoff time.Time) (*CleanupResult, error)
}

type maintenanceService struct {
	runTx       txRunner
	log         *logger.Logger
	attemptRepo repos.AttemptRepo
	answerRepo  repos.AnswerRepo
	quizRepo    repos.QuizRepo
	leaderboard LeaderboardService
}

func NewMaintenanceService(db *gorm.DB, log *logger.Logger, attemptRepo repos.AttemptRepo, answerRepo repos.AnswerRepo, quizRepo repos.QuizRepo, leaderboard LeaderboardService) MaintenanceService {
	return &maintenanceService{
		runTx:       gormTxRunner(db),
		log:         log.With("service", "MaintenanceService"),
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		quizRepo:    quizRepo,
		leaderboard: leaderboard,
	}
}

// CleanupBefore removes attempts started before the cutoff along with
// their answers and any result-history quiz rows left without attempts,
// then rebuilds every profile so the aggregates reflect the smaller
// history.
func (s *maintenanceService) CleanupBefore(ctx context.Context, cutoff time.Time) (*CleanupResult, error) {
	attemptCount, err := s.attemptRepo.CountStartedBefore(ctx, nil, cutoff)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("counting attempts: %w", err))
	}
	answerCount, err := s.answerRepo.CountByAttemptStartedBefore(ctx, nil, cutoff)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("counting answers: %w", err))
	}

	orphanedQuizzes := 0
	if err := s.runTx(ctx, func(tx *gorm.DB) error {
		// Answers first: their subquery references the attempts about
		// to be removed.
		if err := s.answerRepo.FullDeleteByAttemptStartedBefore(ctx, tx, cutoff); err != nil {
			return fmt.Errorf("deleting answers: %w", err)
		}
		if err := s.attemptRepo.FullDeleteStartedBefore(ctx, tx, cutoff); err != nil {
			return fmt.Errorf("deleting attempts: %w", err)
		}
		// Ephemeral quiz rows exist only to label their attempts;
		// once those are gone the rows are noise.
		orphanIDs, err := s.quizRepo.ListEphemeralOrphanIDs(ctx, tx)
		if err != nil {
			return fmt.Errorf("listing orphaned quizzes: %w", err)
		}
		if err := s.quizRepo.FullDeleteByIDs(ctx, tx, orphanIDs); err != nil {
			return fmt.Errorf("deleting orphaned quizzes: %w", err)
		}
		orphanedQuizzes = len(orphanIDs)
		return nil
	}); err != nil {
		return nil, apierr.Persistence(err)
	}

	updated, err := s.leaderboard.RecomputeAllStats(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.leaderboard.RecomputeAllRanks(ctx); err != nil {
		return nil, err
	}

	s.log.Info("Cleanup completed", "cutoff", cutoff, "deleted_attempts", attemptCount, "deleted_answers", answerCount, "deleted_quizzes", orphanedQuizzes, "profiles_updated", updated)
	return &CleanupResult{
		DeletedAttempts: attemptCount,
		DeletedAnswers:  answerCount,
		DeletedQuizzes:  orphanedQuizzes,
		ProfilesUpdated: updated,
	}, nil
}
