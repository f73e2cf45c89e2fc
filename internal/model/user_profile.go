package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants. A profile's role is fixed when it is provisioned.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// ProfileStatus constants
const (
	ProfileStatusPending = "pending_admin"
	ProfileStatusActive  = "active"
	ProfileStatusRevoked = "revoked"
)

// Dashboard kinds a profile is routed to
const (
	DashboardPending    = "pending"
	DashboardSuspended  = "suspended"
	DashboardAdmin      = "admin"
	DashboardSuperAdmin = "super_admin"
)

// UserProfile is the authorization record of an auth identity; ID equals the identity ID.
type UserProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending_admin';index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

var profileTransitions = map[string]map[string]bool{
	ProfileStatusPending: {ProfileStatusActive: true, ProfileStatusRevoked: true},
	ProfileStatusActive:  {ProfileStatusRevoked: true},
	ProfileStatusRevoked: {},
}

// CanTransitionProfile reports whether a profile may move between statuses.
// There is no path back from revoked.
func CanTransitionProfile(from, to string) bool {
	m, ok := profileTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// IsProfileStatus reports whether s is a known profile status.
func IsProfileStatus(s string) bool {
	_, ok := profileTransitions[s]
	return ok
}

// IsActive reports whether the profile has been approved and not revoked.
func (p *UserProfile) IsActive() bool {
	return p.Status == ProfileStatusActive
}

// IsAssignable reports whether bookings can be assigned to this profile.
func (p *UserProfile) IsAssignable() bool {
	return p.Role == RoleAdmin && p.Status == ProfileStatusActive
}

// Dashboard returns the view a profile is routed to.
func (p *UserProfile) Dashboard() string {
	switch p.Status {
	case ProfileStatusPending:
		return DashboardPending
	case ProfileStatusRevoked:
		return DashboardSuspended
	}
	if p.Role == RoleSuperAdmin {
		return DashboardSuperAdmin
	}
	return DashboardAdmin
}
