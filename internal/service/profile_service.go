package service

import (
	"context"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
)

// ProfileService drives the admin-account lifecycle. Every mutation requires an
// active super admin and only targets admin profiles.
type ProfileService interface {
	Me(ctx context.Context, actor Actor) (*ProfileResponse, error)
	List(ctx context.Context, actor Actor, status string) ([]ProfileResponse, error)
	Assignable(ctx context.Context, actor Actor) ([]ProfileResponse, error)
	Approve(ctx context.Context, actor Actor, id string) (*ProfileResponse, error)
	Deny(ctx context.Context, actor Actor, id string) (*ProfileResponse, error)
	Revoke(ctx context.Context, actor Actor, id string) (*ProfileResponse, error)
}

type profileService struct {
	tx       repository.TransactionManager
	profiles repository.ProfileRepository
	audit    repository.AuditRepository
	notifier events.Notifier
	now      func() time.Time
}

func NewProfileService(
	tx repository.TransactionManager,
	profiles repository.ProfileRepository,
	audit repository.AuditRepository,
	notifier events.Notifier,
) ProfileService {
	return &profileService{
		tx:       tx,
		profiles: profiles,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

// Me is available to pending and revoked profiles too; Dashboard tells the
// client which landing view to show.
func (s *profileService) Me(ctx context.Context, actor Actor) (*ProfileResponse, error) {
	profile, err := s.profiles.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, wrapErr("get profile", err)
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

func (s *profileService) List(ctx context.Context, actor Actor, status string) ([]ProfileResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if status != "" && !model.IsProfileStatus(status) {
		return nil, fieldError("status", "is invalid")
	}

	profiles, err := s.profiles.List(ctx, status)
	if err != nil {
		return nil, wrapErr("list profiles", err)
	}
	return toProfileResponses(profiles), nil
}

func (s *profileService) Assignable(ctx context.Context, actor Actor) ([]ProfileResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.ListAssignable(ctx)
	if err != nil {
		return nil, wrapErr("list assignable profiles", err)
	}
	return toProfileResponses(profiles), nil
}

func (s *profileService) Approve(ctx context.Context, actor Actor, id string) (*ProfileResponse, error) {
	return s.transition(ctx, actor, id, model.ProfileStatusPending, model.ProfileStatusActive,
		model.ActionApproveProfile, events.RKProfileApproved)
}

func (s *profileService) Deny(ctx context.Context, actor Actor, id string) (*ProfileResponse, error) {
	return s.transition(ctx, actor, id, model.ProfileStatusPending, model.ProfileStatusRevoked,
		model.ActionDenyProfile, events.RKProfileDenied)
}

func (s *profileService) Revoke(ctx context.Context, actor Actor, id string) (*ProfileResponse, error) {
	return s.transition(ctx, actor, id, model.ProfileStatusActive, model.ProfileStatusRevoked,
		model.ActionRevokeProfile, events.RKProfileRevoked)
}

// transition requires the target to currently be in `from`; a profile that has
// already been resolved is rejected rather than overwritten.
func (s *profileService) transition(ctx context.Context, actor Actor, id, from, to, action, routingKey string) (*ProfileResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, wrapErr(action, err)
	}
	profileID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	var profile *model.UserProfile
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		profile, findErr = s.profiles.FindByIDForUpdate(txCtx, profileID)
		if findErr != nil {
			return findErr
		}
		if profile.Role != model.RoleAdmin {
			return ErrInvalidTransition
		}
		if profile.Status != from || !model.CanTransitionProfile(profile.Status, to) {
			return ErrInvalidTransition
		}

		profile.Status = to
		if err := s.profiles.Update(txCtx, profile); err != nil {
			return err
		}

		return writeAudit(txCtx, s.audit, &actor.ID, action,
			profile.ID.String(), profile.Email, map[string]interface{}{
				"from": from,
				"to":   to,
			})
	})
	if err != nil {
		return nil, wrapErr(action, err)
	}

	s.notifier.Notify(ctx, events.Event{
		Type:     routingKey,
		EntityID: profile.ID.String(),
		ActorID:  actor.ID.String(),
		Status:   profile.Status,
		At:       s.now(),
	})

	resp := toProfileResponse(profile)
	return &resp, nil
}

func toProfileResponses(profiles []model.UserProfile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, toProfileResponse(&profiles[i]))
	}
	return out
}
