package repository

import (
	"context"

	"bookingdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines data access for UserProfile rows
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.UserProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserProfile, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.UserProfile, error)
	List(ctx context.Context, status string) ([]model.UserProfile, error)
	ListAssignable(ctx context.Context) ([]model.UserProfile, error)
	Update(ctx context.Context, profile *model.UserProfile) error
	CountByStatus(ctx context.Context, role string) (map[string]int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.UserProfile) error {
	return GetDB(ctx, r.db).Create(profile).Error
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := GetDB(ctx, r.db).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *profileRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&profile, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, status string) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	query := GetDB(ctx, r.db)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) ListAssignable(ctx context.Context) ([]model.UserProfile, error) {
	var profiles []model.UserProfile
	if err := GetDB(ctx, r.db).
		Where("role = ? AND status = ?", model.RoleAdmin, model.ProfileStatusActive).
		Order("created_at DESC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.UserProfile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}

func (r *profileRepository) CountByStatus(ctx context.Context, role string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := GetDB(ctx, r.db).Model(&model.UserProfile{}).
		Select("status, count(*) as count").
		Where("role = ?", role).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
