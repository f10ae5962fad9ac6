package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type AnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, answers []*types.Answer) ([]*types.Answer, error)
	CountByAttemptStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
	FullDeleteByAttemptStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) error
}

type answerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return &answerRepo{db: db, log: baseLog.With("repo", "AnswerRepo")}
}

func (r *answerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.Answer) ([]*types.Answer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(answers) == 0 {
		return []*types.Answer{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepo) CountByAttemptStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Answer{}).
		Where("attempt_id IN (?)", transaction.
			Model(&types.QuizAttempt{}).
			Select("id").
			Where("started_at < ?", cutoff)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *answerRepo) FullDeleteByAttemptStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("attempt_id IN (?)", transaction.
			Model(&types.QuizAttempt{}).
			Select("id").
			Where("started_at < ?", cutoff)).
		Delete(&types.Answer{}).Error; err != nil {
		return err
	}
	return nil
}
