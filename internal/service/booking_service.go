package service

import (
	"context"
	"errors"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

// SubmitBookingRequest is the public inquiry form
type SubmitBookingRequest struct {
	ClientName  string `json:"client_name" validate:"min=2"`
	ClientEmail string `json:"client_email" validate:"required,email"`
	EventType   string `json:"event_type" validate:"required"`
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	Message     string `json:"message" validate:"min=10"`
}

type AssignBookingRequest struct {
	AdminID string `json:"admin_id" binding:"required"`
}

type BookingFilter struct {
	Status          string
	AssignedAdminID string
	Unassigned      bool
	Offset          int
	Limit           int
}

type CalendarEvent struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Start           string  `json:"start"`
	End             string  `json:"end"`
	Status          string  `json:"status"`
	AssignedAdminID *string `json:"assigned_admin_id"`
}

// --- Interface ---

type BookingService interface {
	Submit(ctx context.Context, req SubmitBookingRequest) (*BookingResponse, error)
	List(ctx context.Context, actor Actor, filter BookingFilter) ([]BookingResponse, int64, error)
	Get(ctx context.Context, actor Actor, id string) (*BookingResponse, error)
	Calendar(ctx context.Context, actor Actor, from, to string) ([]CalendarEvent, error)
	Assign(ctx context.Context, actor Actor, id string, adminID string) (*BookingResponse, error)
	Confirm(ctx context.Context, actor Actor, id string) (*BookingResponse, error)
	Clear(ctx context.Context, actor Actor, id string) (*BookingResponse, error)
}

type bookingService struct {
	tx       repository.TransactionManager
	bookings repository.BookingRepository
	profiles repository.ProfileRepository
	audit    repository.AuditRepository
	notifier events.Notifier
	now      func() time.Time
}

func NewBookingService(
	tx repository.TransactionManager,
	bookings repository.BookingRepository,
	profiles repository.ProfileRepository,
	audit repository.AuditRepository,
	notifier events.Notifier,
) BookingService {
	return &bookingService{
		tx:       tx,
		bookings: bookings,
		profiles: profiles,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

// --- Implementation ---

func (s *bookingService) Submit(ctx context.Context, req SubmitBookingRequest) (*BookingResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ID:          uuid.New(),
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		EventType:   req.EventType,
		EventDate:   req.EventDate,
		Message:     req.Message,
		Status:      model.BookingStatusInquiry,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.bookings.Create(txCtx, booking); err != nil {
			return err
		}
		return writeAudit(txCtx, s.audit, nil, model.ActionSubmitBooking,
			booking.ID.String(), booking.ClientName, map[string]interface{}{
				"event_type": booking.EventType,
				"event_date": booking.EventDate,
			})
	})
	if err != nil {
		return nil, wrapErr("submit booking", err)
	}

	s.notify(ctx, events.RKBookingSubmitted, booking, nil)
	resp := toBookingResponse(booking)
	return &resp, nil
}

// scope restricts a listing to what the actor may see: super admins see
// everything, admins only the bookings assigned to them.
func (s *bookingService) scope(actor Actor, filter *repository.BookingFilter) error {
	if err := requireActive(actor); err != nil {
		return err
	}
	if actor.Role != model.RoleSuperAdmin {
		id := actor.ID
		filter.AssignedAdminID = &id
	}
	return nil
}

func (s *bookingService) canView(actor Actor, b *model.Booking) bool {
	return actor.IsSuperAdmin() || (actor.IsActiveAdmin() && b.IsAssignedTo(actor.ID))
}

func (s *bookingService) List(ctx context.Context, actor Actor, filter BookingFilter) ([]BookingResponse, int64, error) {
	if filter.Status != "" && !model.IsBookingStatus(filter.Status) {
		return nil, 0, fieldError("status", "is invalid")
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.BookingFilter{
		Status:     filter.Status,
		Unassigned: filter.Unassigned,
		Offset:     filter.Offset,
		Limit:      filter.Limit,
	}
	if filter.AssignedAdminID != "" {
		id, err := parseID("assigned_admin_id", filter.AssignedAdminID)
		if err != nil {
			return nil, 0, err
		}
		repoFilter.AssignedAdminID = &id
	}
	if err := s.scope(actor, &repoFilter); err != nil {
		return nil, 0, err
	}

	bookings, total, err := s.bookings.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, wrapErr("list bookings", err)
	}

	result := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		result = append(result, toBookingResponse(&bookings[i]))
	}
	return result, total, nil
}

func (s *bookingService) Get(ctx context.Context, actor Actor, id string) (*BookingResponse, error) {
	booking, err := s.visibleBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := toBookingResponse(booking)
	return &resp, nil
}

// visibleBooking loads a booking the actor is allowed to see. Bookings outside
// the actor's scope are reported as not found.
func (s *bookingService) visibleBooking(ctx context.Context, actor Actor, id string) (*model.Booking, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	bookingID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, wrapErr("get booking", err)
	}
	if !s.canView(actor, booking) {
		return nil, wrapErr("get booking", ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) Calendar(ctx context.Context, actor Actor, from, to string) ([]CalendarEvent, error) {
	for field, v := range map[string]string{"from": from, "to": to} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(model.EventDateLayout, v); err != nil {
			return nil, fieldError(field, "must be a date in YYYY-MM-DD format")
		}
	}

	filter := repository.BookingFilter{FromDate: from, ToDate: to}
	if err := s.scope(actor, &filter); err != nil {
		return nil, err
	}

	bookings, _, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, wrapErr("calendar", err)
	}

	out := make([]CalendarEvent, 0, len(bookings))
	for i := range bookings {
		b := toBookingResponse(&bookings[i])
		out = append(out, CalendarEvent{
			ID:              b.ID,
			Title:           b.EventType + " - " + b.ClientName,
			Start:           b.EventDate,
			End:             b.EventDate,
			Status:          b.Status,
			AssignedAdminID: b.AssignedAdminID,
		})
	}
	return out, nil
}

func (s *bookingService) Assign(ctx context.Context, actor Actor, id string, adminID string) (*BookingResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, wrapErr("assign booking", err)
	}
	bookingID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	assigneeID, err := parseID("admin_id", adminID)
	if err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		booking, findErr = s.bookings.FindByIDForUpdate(txCtx, bookingID)
		if findErr != nil {
			return findErr
		}
		if !booking.IsAssignable() {
			return ErrInvalidTransition
		}

		assignee, findErr := s.profiles.FindByID(txCtx, assigneeID)
		if errors.Is(findErr, repository.ErrNotFound) {
			return ErrInvalidAssignee
		} else if findErr != nil {
			return findErr
		}
		if !assignee.IsAssignable() {
			return ErrInvalidAssignee
		}

		var previous string
		if booking.AssignedAdminID != nil {
			previous = booking.AssignedAdminID.String()
		}
		booking.AssignedAdminID = &assignee.ID
		if err := s.bookings.Update(txCtx, booking); err != nil {
			return err
		}

		return writeAudit(txCtx, s.audit, &actor.ID, model.ActionAssignBooking,
			booking.ID.String(), booking.ClientName, map[string]interface{}{
				"assigned_admin_id": assignee.ID.String(),
				"previous_admin_id": previous,
			})
	})
	if err != nil {
		return nil, wrapErr("assign booking", err)
	}

	s.notify(ctx, events.RKBookingAssigned, booking, &actor)
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) Confirm(ctx context.Context, actor Actor, id string) (*BookingResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, wrapErr("confirm booking", err)
	}
	return s.transition(ctx, actor, id, model.BookingStatusConfirmed, model.ActionConfirmBooking,
		events.RKBookingConfirmed, func(b *model.Booking) error {
			if !b.IsAssignedTo(actor.ID) {
				return ErrUnauthorized
			}
			return nil
		})
}

func (s *bookingService) Clear(ctx context.Context, actor Actor, id string) (*BookingResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, wrapErr("clear booking", err)
	}
	return s.transition(ctx, actor, id, model.BookingStatusCleared, model.ActionClearBooking,
		events.RKBookingCleared, nil)
}

// transition moves a locked booking to status `to` after the optional guard passes
func (s *bookingService) transition(ctx context.Context, actor Actor, id, to, action, routingKey string, guard func(*model.Booking) error) (*BookingResponse, error) {
	bookingID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	var booking *model.Booking
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		booking, findErr = s.bookings.FindByIDForUpdate(txCtx, bookingID)
		if findErr != nil {
			return findErr
		}
		if guard != nil {
			if err := guard(booking); err != nil {
				return err
			}
		}
		if !model.CanTransitionBooking(booking.Status, to) {
			return ErrInvalidTransition
		}

		from := booking.Status
		booking.Status = to
		if err := s.bookings.Update(txCtx, booking); err != nil {
			return err
		}

		return writeAudit(txCtx, s.audit, &actor.ID, action,
			booking.ID.String(), booking.ClientName, map[string]interface{}{
				"from": from,
				"to":   to,
			})
	})
	if err != nil {
		return nil, wrapErr("booking "+to, err)
	}

	s.notify(ctx, routingKey, booking, &actor)
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) notify(ctx context.Context, routingKey string, b *model.Booking, actor *Actor) {
	ev := events.Event{
		Type:     routingKey,
		EntityID: b.ID.String(),
		Status:   b.Status,
		At:       s.now(),
	}
	if actor != nil {
		ev.ActorID = actor.ID.String()
	}
	s.notifier.Notify(ctx, ev)
}
