package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type GenerationParams struct {
	Difficulty    string `json:"difficulty"`
	QuestionCount int    `json:"question_count"`
	Topic         string `json:"topic,omitempty"`
}

type GenerationService interface {
	Generate(ctx context.Context, params GenerationParams) (*types.QuizDefinition, error)
}

type generationService struct {
	log      *logger.Logger
	client   AIClient
	schedule backoffSchedule
	sleep    sleepFunc
}

func NewGenerationService(log *logger.Logger, client AIClient) GenerationService {
	return &generationService{
		log:      log.With("service", "GenerationService"),
		client:   client,
		schedule: backoffSchedule{Attempts: 3, BaseDelay: 2 * time.Second},
	}
}

type generatedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"`
}

type generatedQuiz struct {
	Title     string              `json:"title"`
	Questions []generatedQuestion `json:"questions"`
}

func (s *generationService) Generate(ctx context.Context, params GenerationParams) (*types.QuizDefinition, error) {
	if params.QuestionCount <= 0 {
		return nil, apierr.Validation(fmt.Errorf("question_count must be positive"))
	}
	switch params.Difficulty {
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard, types.DifficultyAny, "":
	default:
		return nil, apierr.Validation(fmt.Errorf("unknown difficulty %q", params.Difficulty))
	}
	if s.client == nil {
		return nil, apierr.Configuration(fmt.Errorf("no AI client configured"))
	}

	prompt := composePrompt(params)

	parsed, err := retryWithBackoff(ctx, s.schedule, isRetryableGenerationError, s.sleep, func(ctx context.Context) (*generatedQuiz, error) {
		raw, err := s.client.GenerateText(ctx, prompt)
		if err != nil {
			return nil, err
		}
		unwrapped := stripCodeFences(raw)
		var quiz generatedQuiz
		if err := json.Unmarshal([]byte(unwrapped), &quiz); err != nil {
			return nil, fmt.Errorf("parsing model response: %w", err)
		}
		if err := validateGeneratedQuiz(&quiz, params.QuestionCount); err != nil {
			return nil, err
		}
		return &quiz, nil
	})
	if err != nil {
		classified := classifyGenerationError(err)
		s.log.Warn("Quiz generation failed", "topic", params.Topic, "question_count", params.QuestionCount, "code", classified.Code, "error", err)
		return nil, classified
	}

	return mapGeneratedQuiz(parsed, params), nil
}

func composePrompt(params GenerationParams) string {
	topic := strings.TrimSpace(params.Topic)
	if topic == "" {
		topic = "general knowledge"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a quiz with exactly %d multiple-choice questions about %s.\n", params.QuestionCount, topic)
	switch params.Difficulty {
	case types.DifficultyAny, "":
		b.WriteString("Assign each question a specific difficulty of easy, medium, or hard, and include a mix of all three.\n")
	default:
		fmt.Fprintf(&b, "Every question must have difficulty %q.\n", params.Difficulty)
	}
	b.WriteString("Respond with only a JSON object of this shape, no prose:\n")
	b.WriteString(`{"title": "...", "questions": [{"question": "...", "options": ["...", "...", "...", "..."], "correct_answer": "...", "difficulty": "easy|medium|hard"}]}` + "\n")
	b.WriteString("Each question must have exactly four options, and correct_answer must be copied verbatim from the options.")
	return b.String()
}

// stripCodeFences removes a leading fence marker (with or without a
// language tag) and a trailing fence, without looking at the content in
// between. Responses without fences pass through unchanged.
func stripCodeFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = text[3:]
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = ""
		}
	}
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(text[:len(text)-3])
	}
	return text
}

func validateGeneratedQuiz(quiz *generatedQuiz, wantCount int) error {
	if len(quiz.Questions) != wantCount {
		return apierr.Validation(fmt.Errorf("model returned %d questions, expected %d", len(quiz.Questions), wantCount))
	}
	for i, q := range quiz.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return apierr.Validation(fmt.Errorf("question %d has empty text", i+1))
		}
		if len(q.Options) != 4 {
			return apierr.Validation(fmt.Errorf("question %d has %d options, expected 4", i+1, len(q.Options)))
		}
		found := false
		for _, opt := range q.Options {
			if opt == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return apierr.Validation(fmt.Errorf("question %d correct_answer is not one of the options", i+1))
		}
	}
	return nil
}

func mapGeneratedQuiz(quiz *generatedQuiz, params GenerationParams) *types.QuizDefinition {
	title := strings.TrimSpace(quiz.Title)
	if title == "" {
		topic := strings.TrimSpace(params.Topic)
		if topic == "" {
			topic = "General Knowledge"
		}
		title = topic + " Quiz"
	}

	def := &types.QuizDefinition{
		ID:            uuid.New(),
		Title:         title,
		Description:   fmt.Sprintf("AI-generated quiz with %d questions", len(quiz.Questions)),
		IsAIGenerated: true,
	}
	for i, q := range quiz.Questions {
		qd := &types.QuestionDefinition{
			ID:           uuid.New(),
			QuestionText: q.Question,
			QuestionType: types.QuestionTypeMultipleChoice,
			Difficulty:   normalizeDifficulty(q.Difficulty),
			Points:       ComputeQuestionPoints(q.Difficulty),
			Order:        i + 1,
		}
		for _, opt := range q.Options {
			qd.Choices = append(qd.Choices, &types.ChoiceDefinition{
				ID:         uuid.New(),
				ChoiceText: opt,
				IsCorrect:  opt == q.CorrectAnswer,
			})
		}
		def.Questions = append(def.Questions, qd)
		def.TotalPoints += qd.Points
	}
	return def
}

func normalizeDifficulty(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case types.DifficultyEasy:
		return types.DifficultyEasy
	case types.DifficultyHard:
		return types.DifficultyHard
	default:
		return types.DifficultyMedium
	}
}

var retryableFragments = []string{"overloaded", "503", "502", "504", "timeout", "network", "fetch"}

// isRetryableGenerationError classifies by message content, matching how
// the provider surfaces transient failures. Validation and parse errors
// never match, so they stop the retry loop on first occurrence.
func isRetryableGenerationError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range retryableFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// classifyGenerationError maps a terminal failure onto exactly one
// user-facing category, checked in priority order.
func classifyGenerationError(err error) *apierr.Error {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) && apiErr.Code == apierr.CodeValidation {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apierr.Timeout(err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "api_key") || strings.Contains(msg, "unauthorized"):
		return apierr.Configuration(err)
	case strings.Contains(msg, "overloaded") || strings.Contains(msg, "503"):
		return apierr.ServiceOverloaded(err)
	case strings.Contains(msg, "quota") || strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return apierr.QuotaExceeded(err)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline exceeded"):
		return apierr.Timeout(err)
	default:
		return apierr.Unavailable(err)
	}
}
