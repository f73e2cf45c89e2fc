package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthIdentity is an email/password credential. Its ID keys the UserProfile.
type AuthIdentity struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AuthSession backs an issued access token; deleting the row ends the session
type AuthSession struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"` // JWT jti
	IdentityID uuid.UUID    `gorm:"type:uuid;not null;index" json:"identity_id"`
	Identity   AuthIdentity `gorm:"foreignKey:IdentityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ExpiresAt  time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
