package services

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/repos"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type QuizSummary struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type CatalogService interface {
	ListQuizzes(ctx context.Context) ([]QuizSummary, error)
	GetQuiz(ctx context.Context, quizID uuid.UUID) (*types.QuizDefinition, error)
	AssembleCustomQuiz(ctx context.Context, category, difficulty string, questionCount int) (*types.QuizDefinition, error)
}

type catalogService struct {
	log          *logger.Logger
	quizRepo     repos.QuizRepo
	questionRepo repos.QuestionRepo
	rng          *rand.Rand
}

func NewCatalogService(log *logger.Logger, quizRepo repos.QuizRepo, questionRepo repos.QuestionRepo) CatalogService {
	return &catalogService{
		log:          log.With("service", "CatalogService"),
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *catalogService) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	quizzes, err := s.quizRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("listing quizzes: %w", err))
	}
	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, QuizSummary{
			ID:            quiz.ID,
			Title:         quiz.Title,
			Description:   quiz.Description,
			QuestionCount: len(quiz.Questions),
			CreatedAt:     quiz.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *catalogService) GetQuiz(ctx context.Context, quizID uuid.UUID) (*types.QuizDefinition, error) {
	quiz, err := s.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching quiz: %w", err))
	}
	if quiz == nil || !quiz.IsActive {
		return nil, apierr.NotFound(fmt.Errorf("quiz not found"))
	}
	return types.DefinitionFromQuiz(quiz), nil
}

// AssembleCustomQuiz samples stored questions matching a category into an
// ephemeral definition. This is the non-AI cousin of generation: same
// output shape, content drawn from the database instead of a model.
func (s *catalogService) AssembleCustomQuiz(ctx context.Context, category, difficulty string, questionCount int) (*types.QuizDefinition, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apierr.Validation(fmt.Errorf("category is required"))
	}
	if questionCount <= 0 {
		questionCount = 10
	}
	// "any" means the same as omitting the difficulty, matching the
	// generation endpoint.
	if difficulty == types.DifficultyAny {
		difficulty = ""
	}
	switch difficulty {
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard, "":
	default:
		return nil, apierr.Validation(fmt.Errorf("unknown difficulty %q", difficulty))
	}

	questions, err := s.questionRepo.SearchByCategory(ctx, nil, category, difficulty)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("searching questions: %w", err))
	}
	if len(questions) == 0 {
		detail := fmt.Sprintf("no questions found for category %q", category)
		if difficulty != "" {
			detail += fmt.Sprintf(" with difficulty %q", difficulty)
		}
		return nil, apierr.NotFound(fmt.Errorf("%s", detail))
	}

	s.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	if questionCount < len(questions) {
		questions = questions[:questionCount]
	}

	levelLabel := "Mixed Level"
	if difficulty != "" {
		levelLabel = strings.ToUpper(difficulty[:1]) + difficulty[1:] + " Level"
	}
	def := &types.QuizDefinition{
		ID:          uuid.New(),
		Title:       fmt.Sprintf("%s - %s", category, levelLabel),
		Description: fmt.Sprintf("Custom quiz with %d questions from %s", len(questions), category),
	}
	for i, question := range questions {
		qd := &types.QuestionDefinition{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			QuestionType: question.QuestionType,
			Difficulty:   question.Difficulty,
			Points:       question.Points,
			Order:        i + 1,
		}
		for _, choice := range question.Choices {
			qd.Choices = append(qd.Choices, &types.ChoiceDefinition{
				ID:         choice.ID,
				ChoiceText: choice.ChoiceText,
				IsCorrect:  choice.IsCorrect,
			})
		}
		def.Questions = append(def.Questions, qd)
		def.TotalPoints += question.Points
	}
	return def, nil
}
