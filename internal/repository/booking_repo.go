package repository

import (
	"context"

	"bookingdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingFilter narrows a booking listing. Zero values mean "no constraint";
// Limit 0 returns every matching row.
type BookingFilter struct {
	Status          string
	AssignedAdminID *uuid.UUID
	Unassigned      bool
	FromDate        string // inclusive, YYYY-MM-DD
	ToDate          string // inclusive, YYYY-MM-DD
	Offset          int
	Limit           int
}

type EventTypeCount struct {
	EventType string `json:"type"`
	Count     int64  `json:"count"`
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]model.Booking, int64, error)
	Update(ctx context.Context, booking *model.Booking) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByEventType(ctx context.Context) ([]EventTypeCount, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).First(&booking, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	query := applyBookingFilter(GetDB(ctx, r.db).Model(&model.Booking{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetchQuery := applyBookingFilter(GetDB(ctx, r.db), filter).Order("created_at DESC")
	if filter.Limit > 0 {
		fetchQuery = fetchQuery.Offset(filter.Offset).Limit(filter.Limit)
	}
	if err := fetchQuery.Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func applyBookingFilter(query *gorm.DB, filter BookingFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedAdminID != nil {
		query = query.Where("assigned_admin_id = ?", *filter.AssignedAdminID)
	}
	if filter.Unassigned {
		query = query.Where("assigned_admin_id IS NULL")
	}
	if filter.FromDate != "" {
		query = query.Where("event_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		query = query.Where("event_date <= ?", filter.ToDate)
	}
	return query
}

func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return GetDB(ctx, r.db).Save(booking).Error
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := GetDB(ctx, r.db).Model(&model.Booking{}).
		Select("status, count(*) as count").
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

func (r *bookingRepository) CountByEventType(ctx context.Context) ([]EventTypeCount, error) {
	var rows []EventTypeCount
	if err := GetDB(ctx, r.db).Model(&model.Booking{}).
		Select("event_type, count(*) as count").
		Group("event_type").
		Order("count DESC, event_type ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
