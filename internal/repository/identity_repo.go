package repository

import (
	"context"
	"time"

	"bookingdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityRepository stores email/password credentials and their sessions
type IdentityRepository interface {
	Create(ctx context.Context, identity *model.AuthIdentity) error
	FindByEmail(ctx context.Context, email string) (*model.AuthIdentity, error)
	CreateSession(ctx context.Context, session *model.AuthSession) error
	FindSession(ctx context.Context, id uuid.UUID) (*model.AuthSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context, identityID uuid.UUID, now time.Time) error
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

// Create returns ErrDuplicate when the email is already registered
func (r *identityRepository) Create(ctx context.Context, identity *model.AuthIdentity) error {
	return translate(GetDB(ctx, r.db).Create(identity).Error)
}

func (r *identityRepository) FindByEmail(ctx context.Context, email string) (*model.AuthIdentity, error) {
	var identity model.AuthIdentity
	if err := GetDB(ctx, r.db).First(&identity, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &identity, nil
}

func (r *identityRepository) CreateSession(ctx context.Context, session *model.AuthSession) error {
	return GetDB(ctx, r.db).Create(session).Error
}

func (r *identityRepository) FindSession(ctx context.Context, id uuid.UUID) (*model.AuthSession, error) {
	var session model.AuthSession
	if err := GetDB(ctx, r.db).First(&session, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *identityRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.AuthSession{}).Error
}

func (r *identityRepository) DeleteExpiredSessions(ctx context.Context, identityID uuid.UUID, now time.Time) error {
	return GetDB(ctx, r.db).
		Where("identity_id = ? AND expires_at < ?", identityID, now).
		Delete(&model.AuthSession{}).Error
}
