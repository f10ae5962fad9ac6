package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizAttempt struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	QuizID           *uuid.UUID `gorm:"type:uuid;index" json:"quiz_id,omitempty"`
	Quiz             *Quiz      `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"quiz,omitempty"`
	Score            int        `gorm:"column:score;not null;default:0" json:"score"`
	TotalPoints      int        `gorm:"column:total_points;not null;default:0" json:"total_points"`
	IsCompleted      bool       `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	TimeTakenSeconds int        `gorm:"column:time_taken_seconds;not null;default:0" json:"time_taken_seconds"`
	StartedAt        time.Time  `gorm:"column:started_at;not null;default:now()" json:"started_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Answers          []*Answer  `gorm:"foreignKey:AttemptID;references:ID" json:"answers,omitempty"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

// Percentage is derived, never stored.
func (a *QuizAttempt) Percentage() float64 {
	if a.TotalPoints <= 0 {
		return 0
	}
	return float64(a.Score) / float64(a.TotalPoints) * 100
}

func (a *QuizAttempt) TimeTakenFormatted() string {
	if a.TimeTakenSeconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", a.TimeTakenSeconds/60, a.TimeTakenSeconds%60)
}

type Answer struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AttemptID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"attempt_id"`
	Attempt          *QuizAttempt   `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"attempt,omitempty"`
	QuestionID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_id"`
	Question         *Question      `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	SelectedChoiceID *uuid.UUID     `gorm:"type:uuid" json:"selected_choice_id,omitempty"`
	TextAnswer       string         `gorm:"column:text_answer" json:"text_answer"`
	IsCorrect        bool           `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	Payload          datatypes.JSON `gorm:"type:jsonb;column:payload" json:"payload,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (Answer) TableName() string { return "answer" }
