package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type AttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error)
	GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (*types.QuizAttempt, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error)
	ListCompletedNonAIByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error)
	ListRecentCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.QuizAttempt, error)
	ListTopCompletedByQuiz(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, limit int) ([]*types.QuizAttempt, error)
	CountStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
	FullDeleteStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) error
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(attempts) == 0 {
		return []*types.QuizAttempt{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.QuizAttempt
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *attemptRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Preload("Quiz").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListCompletedNonAIByUser feeds the profile aggregates: AI-generated
// quizzes never count toward stats or ranks.
func (r *attemptRepo) ListCompletedNonAIByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Joins("JOIN quiz ON quiz.id = quiz_attempt.quiz_id").
		Where("quiz_attempt.user_id = ? AND quiz_attempt.is_completed = ?", userID, true).
		Where("quiz.is_ai_generated = ?", false).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) ListRecentCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Preload("Quiz").
		Where("user_id = ? AND is_completed = ?", userID, true).
		Order("completed_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) ListTopCompletedByQuiz(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, limit int) ([]*types.QuizAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizAttempt
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("quiz_id = ? AND is_completed = ?", quizID, true).
		Order("score DESC, completed_at ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptRepo) CountStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizAttempt{}).
		Where("started_at < ?", cutoff).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attemptRepo) FullDeleteStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("started_at < ?", cutoff).
		Delete(&types.QuizAttempt{}).Error; err != nil {
		return err
	}
	return nil
}
