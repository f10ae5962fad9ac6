package types

import "github.com/google/uuid"

// QuizDefinition is the in-memory quiz shape shared by the storage reads,
// the AI generation pipeline, and the scorer. Generated quizzes live only
// in this form and are never written as quiz rows.
type QuizDefinition struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	IsAIGenerated bool                  `json:"is_ai_generated"`
	TotalPoints   int                   `json:"total_points"`
	Questions     []*QuestionDefinition `json:"questions"`
}

type QuestionDefinition struct {
	ID           uuid.UUID           `json:"id"`
	QuestionText string              `json:"question_text"`
	QuestionType string              `json:"question_type"`
	Difficulty   string              `json:"difficulty"`
	Points       int                 `json:"points"`
	Order        int                 `json:"order"`
	Choices      []*ChoiceDefinition `json:"choices"`
}

type ChoiceDefinition struct {
	ID         uuid.UUID `json:"id"`
	ChoiceText string    `json:"choice_text"`
	IsCorrect  bool      `json:"is_correct"`
}

// DefinitionFromQuiz flattens a loaded quiz row (questions and choices
// preloaded) into the shared definition shape.
func DefinitionFromQuiz(q *Quiz) *QuizDefinition {
	def := &QuizDefinition{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		IsAIGenerated: q.IsAIGenerated,
	}
	for _, question := range q.Questions {
		qd := &QuestionDefinition{
			ID:           question.ID,
			QuestionText: question.QuestionText,
			QuestionType: question.QuestionType,
			Difficulty:   question.Difficulty,
			Points:       question.Points,
			Order:        question.Order,
		}
		for _, choice := range question.Choices {
			qd.Choices = append(qd.Choices, &ChoiceDefinition{
				ID:         choice.ID,
				ChoiceText: choice.ChoiceText,
				IsCorrect:  choice.IsCorrect,
			})
		}
		def.Questions = append(def.Questions, qd)
		def.TotalPoints += question.Points
	}
	return def
}
