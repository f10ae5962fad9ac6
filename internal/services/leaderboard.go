package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/apierr"
	"github.com/quizmaster/quizmaster-backend/internal/clients/redis"
	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/repos"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type LeaderboardEntry struct {
	Rank                   int     `json:"rank"`
	Username               string  `json:"username"`
	DisplayName            string  `json:"display_name"`
	TotalScore             int     `json:"total_score"`
	TotalQuizzesCompleted  int     `json:"total_quizzes_completed"`
	AverageScorePercentage float64 `json:"average_score_percentage"`
}

type GlobalLeaderboard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int64              `json:"total_users"`
}

type QuizLeaderboardEntry struct {
	Rank        int        `json:"rank"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Score       int        `json:"score"`
	TotalPoints int        `json:"total_points"`
	Percentage  float64    `json:"percentage"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	TimeTaken   string     `json:"time_taken"`
}

type QuizLeaderboard struct {
	QuizID      uuid.UUID              `json:"quiz_id"`
	QuizTitle   string                 `json:"quiz_title"`
	Leaderboard []QuizLeaderboardEntry `json:"leaderboard"`
}

type LeaderboardService interface {
	RecomputeStats(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	RecomputeAllStats(ctx context.Context) (int, error)
	RecomputeAllRanks(ctx context.Context) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	Global(ctx context.Context, limit int) (*GlobalLeaderboard, error)
	ForQuiz(ctx context.Context, quizID uuid.UUID) (*QuizLeaderboard, error)
}

type leaderboardService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.UserProfileRepo
	attemptRepo repos.AttemptRepo
	quizRepo    repos.QuizRepo
	cache       redis.Cache
	cacheTTL    time.Duration
}

func NewLeaderboardService(db *gorm.DB, log *logger.Logger, profileRepo repos.UserProfileRepo, attemptRepo repos.AttemptRepo, quizRepo repos.QuizRepo, cache redis.Cache) LeaderboardService {
	return &leaderboardService{
		db:          db,
		log:         log.With("service", "LeaderboardService"),
		profileRepo: profileRepo,
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		cache:       cache,
		cacheTTL:    60 * time.Second,
	}
}

// RecomputeStats rebuilds one profile's aggregates from its completed
// non-AI attempts. Full recomputation keeps the numbers drift-free.
func (s *leaderboardService) RecomputeStats(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	profile, err := s.profileRepo.GetOrCreateByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("loading profile: %w", err))
	}

	attempts, err := s.attemptRepo.ListCompletedNonAIByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("loading completed attempts: %w", err))
	}

	profile.TotalQuizzesCompleted = len(attempts)
	profile.TotalScore = 0
	percentageSum := 0.0
	for _, attempt := range attempts {
		profile.TotalScore += attempt.Score
		percentageSum += attempt.Percentage()
	}
	if len(attempts) > 0 {
		profile.AverageScorePercentage = math.Round(percentageSum/float64(len(attempts))*100) / 100
	} else {
		profile.AverageScorePercentage = 0
	}

	if err := s.profileRepo.Save(ctx, nil, profile); err != nil {
		return nil, apierr.Persistence(fmt.Errorf("saving profile: %w", err))
	}
	return profile, nil
}

func (s *leaderboardService) RecomputeAllStats(ctx context.Context) (int, error) {
	profiles, err := s.profileRepo.ListAll(ctx, nil)
	if err != nil {
		return 0, apierr.Persistence(fmt.Errorf("listing profiles: %w", err))
	}
	updated := 0
	for _, profile := range profiles {
		if _, err := s.RecomputeStats(ctx, profile.UserID); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// rankProfiles assigns dense ranks: total score descending, average
// percentage descending, earlier profile creation winning remaining ties.
// Profiles with no completed quizzes keep rank 0 and stay off the board.
func rankProfiles(profiles []*types.UserProfile) {
	qualifying := make([]*types.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		p.Rank = 0
		if p.TotalQuizzesCompleted > 0 {
			qualifying = append(qualifying, p)
		}
	}
	sort.SliceStable(qualifying, func(i, j int) bool {
		a, b := qualifying[i], qualifying[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if a.AverageScorePercentage != b.AverageScorePercentage {
			return a.AverageScorePercentage > b.AverageScorePercentage
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	for i, p := range qualifying {
		p.Rank = i + 1
	}
}

func (s *leaderboardService) RecomputeAllRanks(ctx context.Context) error {
	profiles, err := s.profileRepo.ListAll(ctx, nil)
	if err != nil {
		return apierr.Persistence(fmt.Errorf("listing profiles: %w", err))
	}
	rankProfiles(profiles)

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.profileRepo.ResetAllRanks(ctx, tx); err != nil {
			return fmt.Errorf("resetting ranks: %w", err)
		}
		for _, profile := range profiles {
			if profile.Rank == 0 {
				continue
			}
			if err := s.profileRepo.UpdateRank(ctx, tx, profile.ID, profile.Rank); err != nil {
				return fmt.Errorf("updating rank for profile %s: %w", profile.ID, err)
			}
		}
		return nil
	}); err != nil {
		return apierr.Persistence(err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, globalLeaderboardCacheKey); err != nil {
			s.log.Warn("Failed to invalidate leaderboard cache", "error", err)
		}
	}
	return nil
}

func (s *leaderboardService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	profile, err := s.profileRepo.GetOrCreateByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("loading profile: %w", err))
	}
	return profile, nil
}

const globalLeaderboardCacheKey = "leaderboard:global"

func (s *leaderboardService) Global(ctx context.Context, limit int) (*GlobalLeaderboard, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// Only the default page is cached; bespoke limits go to the database.
	cacheable := limit == 50
	if s.cache != nil && cacheable {
		var cached GlobalLeaderboard
		hit, err := s.cache.GetJSON(ctx, globalLeaderboardCacheKey, &cached)
		if err != nil {
			s.log.Warn("Leaderboard cache read failed", "error", err)
		} else if hit {
			return &cached, nil
		}
	}

	profiles, err := s.profileRepo.ListRanked(ctx, nil, limit)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("listing ranked profiles: %w", err))
	}
	total, err := s.profileRepo.CountRanked(ctx, nil)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("counting ranked profiles: %w", err))
	}

	board := &GlobalLeaderboard{TotalUsers: total, Leaderboard: make([]LeaderboardEntry, 0, len(profiles))}
	for _, profile := range profiles {
		entry := LeaderboardEntry{
			Rank:                   profile.Rank,
			TotalScore:             profile.TotalScore,
			TotalQuizzesCompleted:  profile.TotalQuizzesCompleted,
			AverageScorePercentage: profile.AverageScorePercentage,
		}
		if profile.User != nil {
			entry.Username = profile.User.Username
			entry.DisplayName = profile.User.DisplayName()
		}
		board.Leaderboard = append(board.Leaderboard, entry)
	}

	if s.cache != nil && cacheable {
		if err := s.cache.SetJSON(ctx, globalLeaderboardCacheKey, board, s.cacheTTL); err != nil {
			s.log.Warn("Leaderboard cache write failed", "error", err)
		}
	}
	return board, nil
}

func (s *leaderboardService) ForQuiz(ctx context.Context, quizID uuid.UUID) (*QuizLeaderboard, error) {
	quiz, err := s.quizRepo.GetByID(ctx, nil, quizID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("fetching quiz: %w", err))
	}
	if quiz == nil || !quiz.IsActive || quiz.IsAIGenerated {
		return nil, apierr.NotFound(fmt.Errorf("quiz not found or is AI-generated"))
	}

	attempts, err := s.attemptRepo.ListTopCompletedByQuiz(ctx, nil, quizID, 50)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("listing quiz attempts: %w", err))
	}

	board := &QuizLeaderboard{QuizID: quiz.ID, QuizTitle: quiz.Title, Leaderboard: make([]QuizLeaderboardEntry, 0, len(attempts))}
	for i, attempt := range attempts {
		entry := QuizLeaderboardEntry{
			Rank:        i + 1,
			Score:       attempt.Score,
			TotalPoints: attempt.TotalPoints,
			Percentage:  attempt.Percentage(),
			CompletedAt: attempt.CompletedAt,
			TimeTaken:   attempt.TimeTakenFormatted(),
		}
		if attempt.User != nil {
			entry.Username = attempt.User.Username
			entry.DisplayName = attempt.User.DisplayName()
		}
		board.Leaderboard = append(board.Leaderboard, entry)
	}
	return board, nil
}
