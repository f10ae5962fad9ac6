package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile carries the running aggregates shown on leaderboards. The
// fields are recomputed from completed attempts rather than incrementally
// maintained, so a stale row can always be repaired by a recompute pass.
type UserProfile struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User                   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TotalScore             int       `gorm:"column:total_score;not null;default:0" json:"total_score"`
	TotalQuizzesCompleted  int       `gorm:"column:total_quizzes_completed;not null;default:0" json:"total_quizzes_completed"`
	AverageScorePercentage float64   `gorm:"column:average_score_percentage;not null;default:0" json:"average_score_percentage"`
	Rank                   int       `gorm:"column:rank;not null;default:0" json:"rank"`
	CreatedAt              time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt              time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }
