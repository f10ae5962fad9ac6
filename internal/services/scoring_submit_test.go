package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

// storedQuiz returns an active two-question quiz (easy, hard) where the
// first choice of each question is correct.
func storedQuiz() *types.Quiz {
	quiz := &types.Quiz{
		ID:       uuid.New(),
		Title:    "Stored Quiz",
		IsActive: true,
	}
	for i, difficulty := range []string{types.DifficultyEasy, types.DifficultyHard} {
		q := &types.Question{
			ID:           uuid.New(),
			QuizID:       quiz.ID,
			QuestionText: "q",
			QuestionType: types.QuestionTypeMultipleChoice,
			Difficulty:   difficulty,
			Points:       ComputeQuestionPoints(difficulty),
			Order:        i + 1,
		}
		for c := 0; c < 4; c++ {
			q.Choices = append(q.Choices, &types.Choice{
				ID:         uuid.New(),
				QuestionID: q.ID,
				ChoiceText: "choice",
				IsCorrect:  c == 0,
			})
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

type submitFixture struct {
	svc     *scoringService
	quiz    *types.Quiz
	userID  uuid.UUID
	quizzes *fakeQuizRepo
	attempt *fakeAttemptRepo
	answers *fakeAnswerRepo
	board   *fakeLeaderboard
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()
	quiz := storedQuiz()
	userID := uuid.New()
	f := &submitFixture{
		quiz:    quiz,
		userID:  userID,
		quizzes: &fakeQuizRepo{quizzes: map[uuid.UUID]*types.Quiz{quiz.ID: quiz}},
		attempt: &fakeAttemptRepo{},
		answers: &fakeAnswerRepo{},
		board:   &fakeLeaderboard{profile: &types.UserProfile{UserID: userID, Rank: 3}},
	}
	f.svc = &scoringService{
		runTx:       noopTxRunner,
		log:         newTestLogger(t).With("service", "ScoringService"),
		quizRepo:    f.quizzes,
		userRepo:    &fakeUserRepo{users: map[uuid.UUID]*types.User{userID: {ID: userID, Username: "alice"}}},
		attemptRepo: f.attempt,
		answerRepo:  f.answers,
		leaderboard: f.board,
	}
	return f
}

func (f *submitFixture) correctAnswers() []SubmittedAnswer {
	var out []SubmittedAnswer
	for _, q := range f.quiz.Questions {
		id := q.Choices[0].ID
		out = append(out, SubmittedAnswer{QuestionID: q.ID, SelectedChoiceID: &id})
	}
	return out
}

func TestSubmitAttemptRejectsNegativeElapsed(t *testing.T) {
	f := newSubmitFixture(t)
	_, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, f.userID, f.correctAnswers(), -1)
	if !apierr.HasCode(err, apierr.CodeValidation) {
		t.Fatalf("expected %s, got %v", apierr.CodeValidation, err)
	}
}

func TestSubmitAttemptUnknownQuiz(t *testing.T) {
	f := newSubmitFixture(t)
	_, err := f.svc.SubmitAttempt(context.Background(), uuid.New(), f.userID, nil, 30)
	if !apierr.HasCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected %s, got %v", apierr.CodeNotFound, err)
	}
}

func TestSubmitAttemptInactiveQuiz(t *testing.T) {
	f := newSubmitFixture(t)
	f.quiz.IsActive = false
	_, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, f.userID, nil, 30)
	if !apierr.HasCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected %s, got %v", apierr.CodeNotFound, err)
	}
}

func TestSubmitAttemptRejectsAIGeneratedQuiz(t *testing.T) {
	f := newSubmitFixture(t)
	f.quiz.IsAIGenerated = true
	_, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, f.userID, f.correctAnswers(), 30)
	if !apierr.HasCode(err, apierr.CodeValidation) {
		t.Fatalf("expected %s, got %v", apierr.CodeValidation, err)
	}
}

func TestSubmitAttemptUnknownUser(t *testing.T) {
	f := newSubmitFixture(t)
	_, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, uuid.New(), f.correctAnswers(), 30)
	if !apierr.HasCode(err, apierr.CodeNotFound) {
		t.Fatalf("expected %s, got %v", apierr.CodeNotFound, err)
	}
}

func TestSubmitAttemptRejectsRepeatedCompletion(t *testing.T) {
	f := newSubmitFixture(t)
	f.attempt.existing = &types.QuizAttempt{UserID: f.userID, QuizID: &f.quiz.ID, IsCompleted: true}
	_, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, f.userID, f.correctAnswers(), 30)
	if !apierr.HasCode(err, apierr.CodeValidation) {
		t.Fatalf("expected %s, got %v", apierr.CodeValidation, err)
	}
	if len(f.attempt.created) != 0 {
		t.Fatalf("no attempt row may be written on a repeat submission")
	}
}

func TestSubmitAttemptPersistsAttemptAndAnswers(t *testing.T) {
	f := newSubmitFixture(t)
	submitted := f.correctAnswers()

	result, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, f.userID, submitted, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 5 || result.TotalPoints != 5 {
		t.Fatalf("score=%d total=%d, want 5/5", result.Score, result.TotalPoints)
	}
	if result.Rank != 3 {
		t.Fatalf("rank=%d, want 3 from the refreshed profile", result.Rank)
	}

	if len(f.attempt.created) != 1 {
		t.Fatalf("expected 1 attempt row, got %d", len(f.attempt.created))
	}
	attempt := f.attempt.created[0]
	if !attempt.IsCompleted || attempt.CompletedAt == nil || attempt.TimeTakenSeconds != 90 {
		t.Fatalf("attempt row not finalized: %+v", attempt)
	}

	if len(f.answers.created) != len(submitted) {
		t.Fatalf("expected %d answer rows, got %d", len(submitted), len(f.answers.created))
	}
	for i, row := range f.answers.created {
		if len(row.Payload) == 0 {
			t.Fatalf("answer %d has no payload", i)
		}
		var stored SubmittedAnswer
		if err := json.Unmarshal(row.Payload, &stored); err != nil {
			t.Fatalf("answer %d payload does not decode: %v", i, err)
		}
		if stored.QuestionID != submitted[i].QuestionID {
			t.Fatalf("answer %d payload question=%s, want %s", i, stored.QuestionID, submitted[i].QuestionID)
		}
		if stored.SelectedChoiceID == nil || *stored.SelectedChoiceID != *submitted[i].SelectedChoiceID {
			t.Fatalf("answer %d payload does not carry the submitted choice", i)
		}
	}

	if f.board.statsCalls != 1 || f.board.ranksCalls != 1 {
		t.Fatalf("stats/ranks recompute calls = %d/%d, want 1/1", f.board.statsCalls, f.board.ranksCalls)
	}
}

func TestSubmitAttemptSwallowsStatsFailure(t *testing.T) {
	f := newSubmitFixture(t)
	f.board.statsErr = errors.New("profile table unavailable")

	result, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, f.userID, f.correctAnswers(), 30)
	if err != nil {
		t.Fatalf("stats failure must not surface, got %v", err)
	}
	if result.Rank != 0 {
		t.Fatalf("rank=%d, want 0 when the recompute failed", result.Rank)
	}
	if len(f.attempt.created) != 1 {
		t.Fatalf("attempt must still be persisted, got %d rows", len(f.attempt.created))
	}
}

func TestSubmitAttemptSwallowsRankFailure(t *testing.T) {
	f := newSubmitFixture(t)
	f.board.ranksErr = errors.New("rank update deadlock")

	result, err := f.svc.SubmitAttempt(context.Background(), f.quiz.ID, f.userID, f.correctAnswers(), 30)
	if err != nil {
		t.Fatalf("rank failure must not surface, got %v", err)
	}
	if result.Rank != 0 {
		t.Fatalf("rank=%d, want 0 when the rank pass failed", result.Rank)
	}
}

func TestSubmitEphemeralResultValidatesAndPersists(t *testing.T) {
	f := newSubmitFixture(t)

	if _, err := f.svc.SubmitEphemeralResult(context.Background(), f.userID, "AI Quiz", 9, 5, 30, true); !apierr.HasCode(err, apierr.CodeValidation) {
		t.Fatalf("score above total must fail validation, got %v", err)
	}

	result, err := f.svc.SubmitEphemeralResult(context.Background(), f.userID, "AI Quiz", 4, 5, 30, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Percentage != 80 {
		t.Fatalf("percentage=%v, want 80", result.Percentage)
	}
	if len(f.quizzes.created) != 1 {
		t.Fatalf("expected 1 history quiz row, got %d", len(f.quizzes.created))
	}
	historyQuiz := f.quizzes.created[0]
	if historyQuiz.IsActive || !historyQuiz.IsAIGenerated {
		t.Fatalf("history quiz must be inactive and AI-flagged: %+v", historyQuiz)
	}
	if len(f.attempt.created) != 1 || f.attempt.created[0].QuizID == nil || *f.attempt.created[0].QuizID != historyQuiz.ID {
		t.Fatalf("history attempt must reference the history quiz row")
	}
}
