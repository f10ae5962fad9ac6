package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quizmaster/quizmaster-backend/internal/logger"
	"github.com/quizmaster/quizmaster-backend/internal/types"
)

type UserProfileRepo interface {
	GetOrCreateByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error)
	Save(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.UserProfile, error)
	ListRanked(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserProfile, error)
	CountRanked(ctx context.Context, tx *gorm.DB) (int64, error)
	ResetAllRanks(ctx context.Context, tx *gorm.DB) error
	UpdateRank(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, rank int) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) GetOrCreateByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var profile types.UserProfile
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	profile = types.UserProfile{ID: uuid.New(), UserID: userID}
	if err := transaction.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepo) Save(ctx context.Context, tx *gorm.DB, profile *types.UserProfile) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(profile).Error
}

func (r *userProfileRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProfile
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListRanked returns profiles that qualify for the leaderboard (rank > 0)
// in rank order with their users preloaded.
func (r *userProfileRepo) ListRanked(ctx context.Context, tx *gorm.DB, limit int) ([]*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProfile
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("rank > 0").
		Order("rank ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userProfileRepo) CountRanked(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("rank > 0").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userProfileRepo) ResetAllRanks(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("rank <> 0").
		Update("rank", 0).Error
}

func (r *userProfileRepo) UpdateRank(ctx context.Context, tx *gorm.DB, profileID uuid.UUID, rank int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("id = ?", profileID).
		Update("rank", rank).Error
}
