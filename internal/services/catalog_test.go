package services

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

func newCatalogFixture(t *testing.T, questions *fakeQuestionRepo) *catalogService {
	t.Helper()
	return &catalogService{
		log:          newTestLogger(t).With("service", "CatalogService"),
		quizRepo:     &fakeQuizRepo{},
		questionRepo: questions,
		rng:          rand.New(rand.NewSource(1)),
	}
}

func storedQuestions(n int) []*types.Question {
	var out []*types.Question
	for i := 0; i < n; i++ {
		q := &types.Question{
			ID:           uuid.New(),
			QuestionText: "q",
			QuestionType: types.QuestionTypeMultipleChoice,
			Difficulty:   types.DifficultyMedium,
			Points:       2,
		}
		for c := 0; c < 4; c++ {
			q.Choices = append(q.Choices, &types.Choice{ID: uuid.New(), QuestionID: q.ID, ChoiceText: "choice", IsCorrect: c == 0})
		}
		out = append(out, q)
	}
	return out
}

func TestAssembleCustomQuizTreatsAnyAsUnfiltered(t *testing.T) {
	repo := &fakeQuestionRepo{questions: storedQuestions(5)}
	svc := newCatalogFixture(t, repo)

	def, err := svc.AssembleCustomQuiz(context.Background(), "Science", types.DifficultyAny, 5)
	if err != nil {
		t.Fatalf("difficulty %q must be accepted: %v", types.DifficultyAny, err)
	}
	if repo.lastDifficulty != "" {
		t.Fatalf("search difficulty = %q, want unfiltered", repo.lastDifficulty)
	}
	if !strings.HasSuffix(def.Title, "Mixed Level") {
		t.Fatalf("title = %q, want the mixed-level label", def.Title)
	}
	if len(def.Questions) != 5 || def.TotalPoints != 10 {
		t.Fatalf("got %d questions / %d points, want 5 / 10", len(def.Questions), def.TotalPoints)
	}
}

func TestAssembleCustomQuizValidation(t *testing.T) {
	svc := newCatalogFixture(t, &fakeQuestionRepo{questions: storedQuestions(3)})

	if _, err := svc.AssembleCustomQuiz(context.Background(), "  ", "", 5); !apierr.HasCode(err, apierr.CodeValidation) {
		t.Fatalf("blank category must fail validation, got %v", err)
	}
	if _, err := svc.AssembleCustomQuiz(context.Background(), "Science", "expert", 5); !apierr.HasCode(err, apierr.CodeValidation) {
		t.Fatalf("unknown difficulty must fail validation, got %v", err)
	}
}

func TestAssembleCustomQuizEmptyCategoryResults(t *testing.T) {
	svc := newCatalogFixture(t, &fakeQuestionRepo{})
	if _, err := svc.AssembleCustomQuiz(context.Background(), "Ghosts", types.DifficultyHard, 5); !apierr.HasCode(err, apierr.CodeNotFound) {
		t.Fatalf("no matching questions must report not found, got %v", err)
	}
}

func TestAssembleCustomQuizCapsQuestionCount(t *testing.T) {
	svc := newCatalogFixture(t, &fakeQuestionRepo{questions: storedQuestions(8)})
	def, err := svc.AssembleCustomQuiz(context.Background(), "History", types.DifficultyMedium, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Questions) != 3 {
		t.Fatalf("got %d questions, want the requested 3", len(def.Questions))
	}
	for i, q := range def.Questions {
		if q.Order != i+1 {
			t.Fatalf("question %d has order %d", i, q.Order)
		}
	}
}
