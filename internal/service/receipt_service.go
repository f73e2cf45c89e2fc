package service

import (
	"context"
	"net/url"
	"time"

	"bookingdesk/internal/events"
	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UploadReceiptRequest struct {
	FileURL     string          `json:"file_url" validate:"required,url"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type ReceiptService interface {
	Upload(ctx context.Context, actor Actor, bookingID string, req UploadReceiptRequest) (*ReceiptResponse, error)
	ListForBooking(ctx context.Context, actor Actor, bookingID string) ([]ReceiptResponse, error)
}

type receiptService struct {
	tx       repository.TransactionManager
	bookings repository.BookingRepository
	receipts repository.ReceiptRepository
	audit    repository.AuditRepository
	notifier events.Notifier
	now      func() time.Time
}

func NewReceiptService(
	tx repository.TransactionManager,
	bookings repository.BookingRepository,
	receipts repository.ReceiptRepository,
	audit repository.AuditRepository,
	notifier events.Notifier,
) ReceiptService {
	return &receiptService{
		tx:       tx,
		bookings: bookings,
		receipts: receipts,
		audit:    audit,
		notifier: notifier,
		now:      time.Now,
	}
}

func validateReceipt(req UploadReceiptRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if u, err := url.Parse(req.FileURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fieldError("file_url", "must be an http or https URL")
	}
	if req.Amount.IsNegative() {
		return fieldError("amount", "must not be negative")
	}
	return nil
}

// Upload attaches a receipt to a confirmed or cleared booking. The assigned
// admin and any active super admin may upload.
func (s *receiptService) Upload(ctx context.Context, actor Actor, bookingID string, req UploadReceiptRequest) (*ReceiptResponse, error) {
	if err := requireActive(actor); err != nil {
		return nil, wrapErr("upload receipt", err)
	}
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}
	if err := validateReceipt(req); err != nil {
		return nil, err
	}

	receipt := &model.Receipt{
		ID:          uuid.New(),
		BookingID:   id,
		FileURL:     req.FileURL,
		Amount:      req.Amount,
		Description: req.Description,
		UploadedBy:  actor.ID,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		booking, findErr := s.bookings.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}
		if !actor.IsSuperAdmin() && !(actor.IsActiveAdmin() && booking.IsAssignedTo(actor.ID)) {
			return ErrUnauthorized
		}
		if booking.Status == model.BookingStatusInquiry {
			return ErrInvalidTransition
		}

		if err := s.receipts.Create(txCtx, receipt); err != nil {
			return err
		}
		return writeAudit(txCtx, s.audit, &actor.ID, model.ActionUploadReceipt,
			receipt.ID.String(), booking.ClientName, map[string]interface{}{
				"booking_id": booking.ID.String(),
				"amount":     receipt.Amount.StringFixed(2),
			})
	})
	if err != nil {
		return nil, wrapErr("upload receipt", err)
	}

	s.notifier.Notify(ctx, events.Event{
		Type:     events.RKReceiptUploaded,
		EntityID: receipt.ID.String(),
		ActorID:  actor.ID.String(),
		At:       s.now(),
	})

	resp := toReceiptResponse(receipt)
	return &resp, nil
}

func (s *receiptService) ListForBooking(ctx context.Context, actor Actor, bookingID string) ([]ReceiptResponse, error) {
	if err := requireActive(actor); err != nil {
		return nil, err
	}
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, wrapErr("list receipts", err)
	}
	if !actor.IsSuperAdmin() && !booking.IsAssignedTo(actor.ID) {
		return nil, wrapErr("list receipts", ErrNotFound)
	}

	receipts, err := s.receipts.ListByBooking(ctx, id)
	if err != nil {
		return nil, wrapErr("list receipts", err)
	}

	out := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		out = append(out, toReceiptResponse(&receipts[i]))
	}
	return out, nil
}
