package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegisterProfile = "REGISTER_PROFILE"
	ActionSubmitBooking   = "SUBMIT_BOOKING"
	ActionAssignBooking   = "ASSIGN_BOOKING"
	ActionConfirmBooking  = "CONFIRM_BOOKING"
	ActionClearBooking    = "CLEAR_BOOKING"
	ActionApproveProfile  = "APPROVE_PROFILE"
	ActionDenyProfile     = "DENY_PROFILE"
	ActionRevokeProfile   = "REVOKE_PROFILE"
	ActionUploadReceipt   = "UPLOAD_RECEIPT"
)

var auditActions = map[string]bool{
	ActionRegisterProfile: true,
	ActionSubmitBooking:   true,
	ActionAssignBooking:   true,
	ActionConfirmBooking:  true,
	ActionClearBooking:    true,
	ActionApproveProfile:  true,
	ActionDenyProfile:     true,
	ActionRevokeProfile:   true,
	ActionUploadReceipt:   true,
}

func IsAuditAction(action string) bool {
	return auditActions[action]
}

// AuditLog tracks Who, What, and When for every lifecycle transition
type AuditLog struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uuid.UUID   `gorm:"type:uuid;index" json:"actor_id"` // nil for public submissions
	Actor      *UserProfile `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Action     string       `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string       `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string       `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string       `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time    `gorm:"index" json:"created_at"`
}
