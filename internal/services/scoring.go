package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/repos"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

// txRunner is injectable so tests can run the write path against fake
// repos without a database. The default wraps everything in one gorm
// transaction.
type txRunner func(ctx context.Context, fn func(tx *gorm.DB) error) error

func gormTxRunner(db *gorm.DB) txRunner {
	return func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return db.WithContext(ctx).Transaction(fn)
	}
}

// SubmittedAnswer is one entry of a submission: a question plus either a
// selected choice or free text.
type SubmittedAnswer struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedChoiceID *uuid.UUID `json:"selected_choice_id,omitempty"`
	TextAnswer       string     `json:"text_answer,omitempty"`
}

type ScoredAnswer struct {
	QuestionID       uuid.UUID
	SelectedChoiceID *uuid.UUID
	TextAnswer       string
	IsCorrect        bool
	PointsAwarded    int
}

type ScoreResult struct {
	Score       int
	TotalPoints int
	Percentage  float64
	Answers     []ScoredAnswer
}

type AttemptResult struct {
	Score       int       `json:"score"`
	TotalPoints int       `json:"total_points"`
	Percentage  float64   `json:"percentage"`
	AttemptID   uuid.UUID `json:"attempt_id"`
	Rank        int       `json:"rank"`
}

// ScoreQuiz grades a submission against a quiz definition. It is a pure
// function: unknown questions and choices are skipped, unanswered
// questions contribute zero, and total points cover every question in the
// definition regardless of answer state. Only the first answer per
// question counts, which keeps the score bounded by the total.
func ScoreQuiz(def *types.QuizDefinition, submitted []SubmittedAnswer) ScoreResult {
	questionsByID := make(map[uuid.UUID]*types.QuestionDefinition, len(def.Questions))
	totalPoints := 0
	for _, q := range def.Questions {
		questionsByID[q.ID] = q
		totalPoints += q.Points
	}

	result := ScoreResult{TotalPoints: totalPoints}
	seen := make(map[uuid.UUID]bool, len(submitted))
	for _, sub := range submitted {
		question, ok := questionsByID[sub.QuestionID]
		if !ok || seen[sub.QuestionID] {
			continue
		}
		seen[sub.QuestionID] = true
		scored := ScoredAnswer{
			QuestionID:       sub.QuestionID,
			SelectedChoiceID: sub.SelectedChoiceID,
			TextAnswer:       sub.TextAnswer,
		}
		if sub.SelectedChoiceID != nil {
			for _, choice := range question.Choices {
				if choice.ID == *sub.SelectedChoiceID {
					scored.IsCorrect = choice.IsCorrect
					break
				}
			}
		}
		if scored.IsCorrect {
			scored.PointsAwarded = question.Points
			result.Score += question.Points
		}
		result.Answers = append(result.Answers, scored)
	}

	if result.TotalPoints > 0 {
		result.Percentage = float64(result.Score) / float64(result.TotalPoints) * 100
	}
	return result
}

type ScoringService interface {
	SubmitAttempt(ctx context.Context, quizID, userID uuid.UUID, submitted []SubmittedAnswer, elapsedSeconds int) (*AttemptResult, error)
	SubmitEphemeralResult(ctx context.Context, userID uuid.UUID, title string, score, totalPoints, elapsedSeconds int, isAIGenerated bool) (*AttemptResult, error)
	ListAttempts(ctx context.Context, userID uuid.UUID) ([]*types.QuizAttempt, error)
}

type scoringService struct {
	runTx       txRunner
	log         *logger.Logger
	quizRepo    repos.QuizRepo
	userRepo    repos.UserRepo
	attemptRepo repos.AttemptRepo
	answerRepo  repos.AnswerRepo
	leaderboard LeaderboardService
}

func NewScoringService(db *gorm.DB, log *logger.Logger, quizRepo repos.QuizRepo, userRepo repos.UserRepo, attemptRepo repos.AttemptRepo, answerRepo repos.AnswerRepo, leaderboard LeaderboardService) ScoringService {
	return &scoringService{
		runTx:       gormTxRunner(db),
		log:         log.With("service", "ScoringService"),
		quizRepo:    quizRepo,
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		leaderboard: leaderboard,
	}
}

func (s *scoringService) SubmitAttempt(ctx context.Context, quizID, userID uuid.UUID, submitted []SubmittedAnswer, elapsedSeconds int) (*AttemptResult, error) {
	if elapsedSeconds < 0 {
		return nil, apierr.Validation(fmt.Errorf("time_taken_seconds must not be negative"))
	}

	quiz, err := s.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching quiz: %w", err))
	}
	if quiz == nil || !quiz.IsActive {
		return nil, apierr.NotFound(fmt.Errorf("quiz not found"))
	}
	if quiz.IsAIGenerated {
		return nil, apierr.Validation(fmt.Errorf("cannot submit AI-generated quizzes"))
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching user: %w", err))
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("user not found"))
	}

	existing, err := s.attemptRepo.GetByUserAndQuiz(ctx, nil, userID, quizID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("checking existing attempt: %w", err))
	}
	if existing != nil && existing.IsCompleted {
		return nil, apierr.Validation(fmt.Errorf("quiz already completed"))
	}

	def := types.DefinitionFromQuiz(quiz)
	result := ScoreQuiz(def, submitted)

	now := time.Now().UTC()
	attempt := &types.QuizAttempt{
		ID:               uuid.New(),
		UserID:           userID,
		QuizID:           &quiz.ID,
		Score:            result.Score,
		TotalPoints:      result.TotalPoints,
		IsCompleted:      true,
		TimeTakenSeconds: elapsedSeconds,
		StartedAt:        now,
		CompletedAt:      &now,
	}

	// Attempt and answers commit together; the aggregate recompute runs
	// after the commit so the new attempt is visible to its queries.
	if err := s.runTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.attemptRepo.Create(ctx, tx, []*types.QuizAttempt{attempt}); err != nil {
			return fmt.Errorf("creating attempt: %w", err)
		}
		answers := make([]*types.Answer, 0, len(result.Answers))
		for _, scored := range result.Answers {
			// The payload keeps the answer exactly as submitted, so the
			// raw row survives later question or choice edits.
			payload, err := json.Marshal(SubmittedAnswer{
				QuestionID:       scored.QuestionID,
				SelectedChoiceID: scored.SelectedChoiceID,
				TextAnswer:       scored.TextAnswer,
			})
			if err != nil {
				return fmt.Errorf("encoding answer payload: %w", err)
			}
			answers = append(answers, &types.Answer{
				ID:               uuid.New(),
				AttemptID:        attempt.ID,
				QuestionID:       scored.QuestionID,
				SelectedChoiceID: scored.SelectedChoiceID,
				TextAnswer:       scored.TextAnswer,
				IsCorrect:        scored.IsCorrect,
				Payload:          datatypes.JSON(payload),
			})
		}
		if _, err := s.answerRepo.Create(ctx, tx, answers); err != nil {
			return fmt.Errorf("creating answers: %w", err)
		}
		return nil
	}); err != nil {
		return nil, apierr.Persistence(err)
	}

	// The attempt is the authoritative record. Stale aggregates are
	// recoverable by the background refresher, so stats failures are
	// logged, never surfaced.
	rank := 0
	if _, err := s.leaderboard.RecomputeStats(ctx, userID); err != nil {
		s.log.Error("Failed to recompute profile stats after submission", "user_id", userID, "error", err)
	} else if err := s.leaderboard.RecomputeAllRanks(ctx); err != nil {
		s.log.Error("Failed to recompute ranks after submission", "user_id", userID, "error", err)
	} else if refreshed, err := s.leaderboard.GetProfile(ctx, userID); err == nil {
		rank = refreshed.Rank
	}

	return &AttemptResult{
		Score:       result.Score,
		TotalPoints: result.TotalPoints,
		Percentage:  result.Percentage,
		AttemptID:   attempt.ID,
		Rank:        rank,
	}, nil
}

// SubmitEphemeralResult records the outcome of a quiz that was never
// stored as an active quiz row (AI-generated or custom-assembled). An
// inactive quiz row with a uniquified title keeps the history browsable
// without colliding across repeat runs.
func (s *scoringService) SubmitEphemeralResult(ctx context.Context, userID uuid.UUID, title string, score, totalPoints, elapsedSeconds int, isAIGenerated bool) (*AttemptResult, error) {
	if title == "" {
		title = "Custom Quiz"
	}
	if score < 0 || totalPoints < 0 || score > totalPoints {
		return nil, apierr.Validation(fmt.Errorf("invalid quiz result data"))
	}
	if elapsedSeconds < 0 {
		return nil, apierr.Validation(fmt.Errorf("time_taken_seconds must not be negative"))
	}

	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching user: %w", err))
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("user not found"))
	}

	description := "Custom quiz result recorded for history tracking"
	if isAIGenerated {
		description = "AI-generated quiz result recorded for history tracking"
	}

	now := time.Now().UTC()
	quiz := &types.Quiz{
		ID:            uuid.New(),
		Title:         fmt.Sprintf("%s - %s", title, uuid.NewString()[:8]),
		Description:   description,
		IsActive:      false,
		IsAIGenerated: isAIGenerated,
	}
	attempt := &types.QuizAttempt{
		ID:               uuid.New(),
		UserID:           userID,
		Score:            score,
		TotalPoints:      totalPoints,
		IsCompleted:      true,
		TimeTakenSeconds: elapsedSeconds,
		StartedAt:        now,
		CompletedAt:      &now,
	}

	if err := s.runTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.quizRepo.Create(ctx, tx, []*types.Quiz{quiz}); err != nil {
			return fmt.Errorf("creating history quiz: %w", err)
		}
		attempt.QuizID = &quiz.ID
		if _, err := s.attemptRepo.Create(ctx, tx, []*types.QuizAttempt{attempt}); err != nil {
			return fmt.Errorf("creating history attempt: %w", err)
		}
		return nil
	}); err != nil {
		return nil, apierr.Persistence(err)
	}

	percentage := 0.0
	if totalPoints > 0 {
		percentage = float64(score) / float64(totalPoints) * 100
	}
	return &AttemptResult{
		Score:       score,
		TotalPoints: totalPoints,
		Percentage:  percentage,
		AttemptID:   attempt.ID,
	}, nil
}

func (s *scoringService) ListAttempts(ctx context.Context, userID uuid.UUID) ([]*types.QuizAttempt, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching user: %w", err))
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("user not found"))
	}
	attempts, err := s.attemptRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("listing attempts: %w", err))
	}
	return attempts, nil
}
