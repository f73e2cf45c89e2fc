package service

import (
	"context"
	"errors"
	"testing"

	"bookingdesk/internal/events"
	"bookingdesk/internal/model"
)

func TestApprove_ActivatesPendingAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	super := f.superAdmin()
	pending := f.addProfile("p@gmail.com", model.RoleAdmin, model.ProfileStatusPending)

	got, err := f.profileSvc.Approve(ctx, super, pending.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.ProfileStatusActive || got.Dashboard != model.DashboardAdmin {
		t.Fatalf("expected active admin dashboard, got %s/%s", got.Status, got.Dashboard)
	}
	if f.profiles.rows[pending.ID].Status != model.ProfileStatusActive {
		t.Fatalf("approval was not persisted")
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != model.ActionApproveProfile {
		t.Fatalf("unexpected audit trail %v", got)
	}
	if got := f.notifier.types(); len(got) != 1 || got[0] != events.RKProfileApproved {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestDeny_RevokesPendingAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	super := f.superAdmin()
	pending := f.addProfile("p@gmail.com", model.RoleAdmin, model.ProfileStatusPending)

	got, err := f.profileSvc.Deny(ctx, super, pending.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.ProfileStatusRevoked || got.Dashboard != model.DashboardSuspended {
		t.Fatalf("expected revoked/suspended, got %s/%s", got.Status, got.Dashboard)
	}
}

func TestProfileTransitions_RejectResolvedProfiles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	super := f.superAdmin()
	active := f.activeAdmin("a@gmail.com")
	revoked := f.addProfile("r@gmail.com", model.RoleAdmin, model.ProfileStatusRevoked)

	cases := []struct {
		name string
		op   func() error
	}{
		{"approve active", func() error { _, err := f.profileSvc.Approve(ctx, super, active.ID.String()); return err }},
		{"approve revoked", func() error { _, err := f.profileSvc.Approve(ctx, super, revoked.ID.String()); return err }},
		{"deny active", func() error { _, err := f.profileSvc.Deny(ctx, super, active.ID.String()); return err }},
		{"revoke revoked", func() error { _, err := f.profileSvc.Revoke(ctx, super, revoked.ID.String()); return err }},
		{"revoke super admin", func() error { _, err := f.profileSvc.Revoke(ctx, super, super.ID.String()); return err }},
	}
	for _, tc := range cases {
		if err := tc.op(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s: expected ErrInvalidTransition, got %v", tc.name, err)
		}
	}
	if len(f.audit.entries) != 0 {
		t.Fatalf("rejected transitions must not be audited")
	}
}

func TestRevoke_RemovesAssignability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	super := f.superAdmin()
	admin := f.activeAdmin("a@gmail.com")

	before, _ := f.profileSvc.Assignable(ctx, super)
	if len(before) != 1 || before[0].ID != admin.ID.String() {
		t.Fatalf("expected one assignable admin, got %v", before)
	}

	if _, err := f.profileSvc.Revoke(ctx, super, admin.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := f.profileSvc.Assignable(ctx, super)
	if len(after) != 0 {
		t.Fatalf("revoked admin must not be assignable, got %v", after)
	}
}

func TestProfileService_RequiresSuperAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.activeAdmin("a@gmail.com")
	pending := f.addProfile("p@gmail.com", model.RoleAdmin, model.ProfileStatusPending)

	if _, err := f.profileSvc.Approve(ctx, admin, pending.ID.String()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.profileSvc.Approve(ctx, pending, pending.ID.String()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("pending admin approving itself: expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.profileSvc.List(ctx, admin, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if f.profiles.rows[pending.ID].Status != model.ProfileStatusPending {
		t.Fatalf("unauthorized approval must not change status")
	}
}

func TestProfileList_FiltersByStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	super := f.superAdmin()
	f.activeAdmin("a@gmail.com")
	f.addProfile("p1@gmail.com", model.RoleAdmin, model.ProfileStatusPending)
	f.addProfile("p2@gmail.com", model.RoleAdmin, model.ProfileStatusPending)

	pending, err := f.profileSvc.List(ctx, super, model.ProfileStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 2 || pending[0].Email != "p2@gmail.com" {
		t.Fatalf("expected newest pending first, got %v", pending)
	}

	all, _ := f.profileSvc.List(ctx, super, "")
	if len(all) != 4 {
		t.Fatalf("expected 4 profiles, got %d", len(all))
	}

	var ve *ValidationError
	if _, err := f.profileSvc.List(ctx, super, "banned"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMe_AvailableToPendingProfiles(t *testing.T) {
	f := newFixture()
	pending := f.addProfile("p@gmail.com", model.RoleAdmin, model.ProfileStatusPending)

	me, err := f.profileSvc.Me(context.Background(), pending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me.Dashboard != model.DashboardPending {
		t.Fatalf("expected pending dashboard, got %s", me.Dashboard)
	}
}

func TestApprove_StoreFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	super := f.superAdmin()
	pending := f.addProfile("p@gmail.com", model.RoleAdmin, model.ProfileStatusPending)
	f.profiles.failErr = errStoreDown

	if _, err := f.profileSvc.Approve(ctx, super, pending.ID.String()); !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if len(f.notifier.events) != 0 {
		t.Fatalf("failed approval must not notify")
	}
}
