package service

import (
	"bookingdesk/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a lifecycle operation. It is resolved
// from the session on every request and passed explicitly.
type Actor struct {
	ID        uuid.UUID
	Email     string
	Role      string
	Status    string
	SessionID uuid.UUID
}

func actorFromProfile(p *model.UserProfile, sessionID uuid.UUID) *Actor {
	return &Actor{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role,
		Status:    p.Status,
		SessionID: sessionID,
	}
}

func (a Actor) IsActive() bool { return a.Status == model.ProfileStatusActive }

func (a Actor) IsSuperAdmin() bool {
	return a.Role == model.RoleSuperAdmin && a.IsActive()
}

func (a Actor) IsActiveAdmin() bool {
	return a.Role == model.RoleAdmin && a.IsActive()
}

func requireActive(a Actor) error {
	if !a.IsActive() {
		return ErrUnauthorized
	}
	return nil
}

func requireSuperAdmin(a Actor) error {
	if !a.IsSuperAdmin() {
		return ErrUnauthorized
	}
	return nil
}

func requireAdmin(a Actor) error {
	if !a.IsActiveAdmin() {
		return ErrUnauthorized
	}
	return nil
}
