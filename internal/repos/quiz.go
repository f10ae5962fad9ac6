package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type QuizRepo interface {
	Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error)
	GetByID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (*types.Quiz, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Quiz, error)
	ListEphemeralOrphanIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return &quizRepo{db: db, log: baseLog.With("repo", "QuizRepo")}
}

func (r *quizRepo) Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(quizzes) == 0 {
		return []*types.Quiz{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

// GetByID loads a quiz with its questions in display order and their
// choices. Returns nil without error when the quiz does not exist.
func (r *quizRepo) GetByID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Quiz
	err := transaction.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Questions.Choices").
		Where("id = ?", quizID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *quizRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Quiz, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Quiz
	if err := transaction.WithContext(ctx).
		Preload("Questions").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListEphemeralOrphanIDs returns inactive result-history quiz rows whose
// attempts are gone, typically after a cleanup pass removed them.
func (r *quizRepo) ListEphemeralOrphanIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Quiz{}).
		Where("is_active = ?", false).
		Where("NOT EXISTS (SELECT 1 FROM quiz_attempt WHERE quiz_attempt.quiz_id = quiz.id)").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *quizRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(quizIDs) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", quizIDs).
		Delete(&types.Quiz{}).Error; err != nil {
		return err
	}
	return nil
}
