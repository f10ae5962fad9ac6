package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type QuestionRepo interface {
	SearchByCategory(ctx context.Context, tx *gorm.DB, category string, difficulty string) ([]*types.Question, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

// SearchByCategory matches questions whose parent quiz title contains the
// category, restricted to active non-AI quizzes. Difficulty narrows the
// match when non-empty.
func (r *questionRepo) SearchByCategory(ctx context.Context, tx *gorm.DB, category string, difficulty string) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	query := transaction.WithContext(ctx).
		Preload("Choices").
		Joins("JOIN quiz ON quiz.id = question.quiz_id").
		Where("quiz.title ILIKE ?", "%"+category+"%").
		Where("quiz.is_active = ? AND quiz.is_ai_generated = ?", true, false)
	if difficulty != "" {
		query = query.Where("question.difficulty = ?", difficulty)
	}
	var results []*types.Question
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
