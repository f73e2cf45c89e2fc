package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt records a payment document uploaded against a confirmed booking
type Receipt struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"booking_id"`
	Booking     Booking         `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FileURL     string          `gorm:"type:text;not null" json:"file_url"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	UploadedBy  uuid.UUID       `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
