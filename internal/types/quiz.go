package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Quiz struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title         string         `gorm:"not null;column:title" json:"title"`
	Description   string         `gorm:"column:description" json:"description"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsAIGenerated bool           `gorm:"column:is_ai_generated;not null;default:false" json:"is_ai_generated"`
	Questions     []*Question    `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyAny    = "any"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz         *Quiz     `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	QuestionText string    `gorm:"not null;column:question_text" json:"question_text"`
	QuestionType string    `gorm:"column:question_type;not null;default:'multiple_choice'" json:"question_type"`
	Difficulty   string    `gorm:"column:difficulty;not null;default:'medium'" json:"difficulty"`
	Points       int       `gorm:"column:points;not null;default:1" json:"points"`
	Order        int       `gorm:"column:display_order;not null;default:0" json:"order"`
	Choices      []*Choice `gorm:"foreignKey:QuestionID;references:ID" json:"choices,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Question) TableName() string { return "question" }

type Choice struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	ChoiceText string    `gorm:"not null;column:choice_text" json:"choice_text"`
	IsCorrect  bool      `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
}

func (Choice) TableName() string { return "choice" }
