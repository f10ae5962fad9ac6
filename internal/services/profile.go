package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/repos"
)

type RecentAttempt struct {
	QuizTitle        string     `json:"quiz_title"`
	Score            int        `json:"score"`
	TotalPoints      int        `json:"total_points"`
	Percentage       float64    `json:"percentage"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TimeTaken        string     `json:"time_taken"`
	TimeTakenSeconds int        `json:"time_taken_seconds"`
	IsAIGenerated    bool       `json:"is_ai_generated"`
}

type ProfileOverview struct {
	Username               string          `json:"username"`
	FirstName              string          `json:"first_name"`
	LastName               string          `json:"last_name"`
	TotalScore             int             `json:"total_score"`
	TotalQuizzesCompleted  int             `json:"total_quizzes_completed"`
	AverageScorePercentage float64         `json:"average_score_percentage"`
	Rank                   int             `json:"rank"`
	RecentAttempts         []RecentAttempt `json:"recent_attempts"`
}

type ProfileService interface {
	GetOverview(ctx context.Context, userID uuid.UUID) (*ProfileOverview, error)
}

type profileService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	attemptRepo repos.AttemptRepo
	leaderboard LeaderboardService
}

func NewProfileService(log *logger.Logger, userRepo repos.UserRepo, attemptRepo repos.AttemptRepo, leaderboard LeaderboardService) ProfileService {
	return &profileService{
		log:         log.With("service", "ProfileService"),
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
		leaderboard: leaderboard,
	}
}

// GetOverview combines the aggregate profile row with the ten most recent
// completed attempts. AI-generated quizzes stay out of the aggregates but
// do show in history.
func (s *profileService) GetOverview(ctx context.Context, userID uuid.UUID) (*ProfileOverview, error) {
	users, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching user: %w", err))
	}
	if len(users) == 0 {
		return nil, apierr.NotFound(fmt.Errorf("user not found"))
	}
	user := users[0]

	profile, err := s.leaderboard.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.attemptRepo.ListRecentCompletedByUser(ctx, nil, userID, 10)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("listing recent attempts: %w", err))
	}

	overview := &ProfileOverview{
		Username:               user.Username,
		FirstName:              user.FirstName,
		LastName:               user.LastName,
		TotalScore:             profile.TotalScore,
		TotalQuizzesCompleted:  profile.TotalQuizzesCompleted,
		AverageScorePercentage: profile.AverageScorePercentage,
		Rank:                   profile.Rank,
		RecentAttempts:         make([]RecentAttempt, 0, len(recent)),
	}
	for _, attempt := range recent {
		entry := RecentAttempt{
			Score:            attempt.Score,
			TotalPoints:      attempt.TotalPoints,
			Percentage:       attempt.Percentage(),
			CompletedAt:      attempt.CompletedAt,
			TimeTaken:        attempt.TimeTakenFormatted(),
			TimeTakenSeconds: attempt.TimeTakenSeconds,
		}
		if attempt.Quiz != nil {
			entry.QuizTitle = attempt.Quiz.Title
			entry.IsAIGenerated = attempt.Quiz.IsAIGenerated
		}
		overview.RecentAttempts = append(overview.RecentAttempts, entry)
	}
	return overview, nil
}
