package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/types"
)

// noopTxRunner hands the callback a nil handle, which the fakes below
// ignore just like the real repos do when no transaction is passed.
func noopTxRunner(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeQuizRepo struct {
	quizzes    map[uuid.UUID]*types.Quiz
	created    []*types.Quiz
	orphanIDs  []uuid.UUID
	deletedIDs []uuid.UUID
}

func (f *fakeQuizRepo) Create(ctx context.Context, tx *gorm.DB, quizzes []*types.Quiz) ([]*types.Quiz, error) {
	f.created = append(f.created, quizzes...)
	return quizzes, nil
}

func (f *fakeQuizRepo) GetByID(ctx context.Context, tx *gorm.DB, quizID uuid.UUID) (*types.Quiz, error) {
	return f.quizzes[quizID], nil
}

func (f *fakeQuizRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Quiz, error) {
	var out []*types.Quiz
	for _, q := range f.quizzes {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) ListEphemeralOrphanIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	return f.orphanIDs, nil
}

func (f *fakeQuizRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, quizIDs...)
	return nil
}

type fakeQuestionRepo struct {
	questions      []*types.Question
	lastCategory   string
	lastDifficulty string
}

func (f *fakeQuestionRepo) SearchByCategory(ctx context.Context, tx *gorm.DB, category string, difficulty string) ([]*types.Question, error) {
	f.lastCategory = category
	f.lastDifficulty = difficulty
	return f.questions, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error) {
	return nil, nil
}

type fakeAttemptRepo struct {
	existing       *types.QuizAttempt
	created        []*types.QuizAttempt
	startedBefore  int64
	deletedCutoffs []time.Time
}

func (f *fakeAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	f.created = append(f.created, attempts...)
	return attempts, nil
}

func (f *fakeAttemptRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (*types.QuizAttempt, error) {
	return f.existing, nil
}

func (f *fakeAttemptRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	return f.created, nil
}

func (f *fakeAttemptRepo) ListCompletedNonAIByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	return nil, nil
}

func (f *fakeAttemptRepo) ListRecentCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.QuizAttempt, error) {
	return nil, nil
}

func (f *fakeAttemptRepo) ListTopCompletedByQuiz(ctx context.Context, tx *gorm.DB, quizID uuid.UUID, limit int) ([]*types.QuizAttempt, error) {
	return nil, nil
}

func (f *fakeAttemptRepo) CountStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return f.startedBefore, nil
}

func (f *fakeAttemptRepo) FullDeleteStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	f.deletedCutoffs = append(f.deletedCutoffs, cutoff)
	return nil
}

type fakeAnswerRepo struct {
	created        []*types.Answer
	countBefore    int64
	deletedCutoffs []time.Time
}

func (f *fakeAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.Answer) ([]*types.Answer, error) {
	f.created = append(f.created, answers...)
	return answers, nil
}

func (f *fakeAnswerRepo) CountByAttemptStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return f.countBefore, nil
}

func (f *fakeAnswerRepo) FullDeleteByAttemptStartedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) error {
	f.deletedCutoffs = append(f.deletedCutoffs, cutoff)
	return nil
}

type fakeLeaderboard struct {
	profile       *types.UserProfile
	statsErr      error
	ranksErr      error
	allStatsCount int
	statsCalls    int
	ranksCalls    int
	allStatsCalls int
}

func (f *fakeLeaderboard) RecomputeStats(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	f.statsCalls++
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.profile, nil
}

func (f *fakeLeaderboard) RecomputeAllStats(ctx context.Context) (int, error) {
	f.allStatsCalls++
	return f.allStatsCount, nil
}

func (f *fakeLeaderboard) RecomputeAllRanks(ctx context.Context) error {
	f.ranksCalls++
	return f.ranksErr
}

func (f *fakeLeaderboard) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeLeaderboard) Global(ctx context.Context, limit int) (*GlobalLeaderboard, error) {
	return nil, nil
}

func (f *fakeLeaderboard) ForQuiz(ctx context.Context, quizID uuid.UUID) (*QuizLeaderboard, error) {
	return nil, nil
}
