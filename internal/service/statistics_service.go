package service

import (
	"context"
	"math"

	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
)

type OverviewResponse struct {
	TotalBookings  int64                       `json:"total_bookings"`
	Inquiries      int64                       `json:"inquiries"`
	Confirmed      int64                       `json:"confirmed"`
	Cleared        int64                       `json:"cleared"`
	ConversionRate int64                       `json:"conversion_rate"` // percent of bookings past inquiry
	EventTypes     []repository.EventTypeCount `json:"event_types"`
	ActiveAdmins   int64                       `json:"active_admins"`
	PendingAdmins  int64                       `json:"pending_admins"`
	ReceiptsTotal  string                      `json:"receipts_total"`
}

type StatisticsService interface {
	Overview(ctx context.Context, actor Actor) (*OverviewResponse, error)
}

type statisticsService struct {
	bookings repository.BookingRepository
	profiles repository.ProfileRepository
	receipts repository.ReceiptRepository
}

func NewStatisticsService(
	bookings repository.BookingRepository,
	profiles repository.ProfileRepository,
	receipts repository.ReceiptRepository,
) StatisticsService {
	return &statisticsService{bookings: bookings, profiles: profiles, receipts: receipts}
}

func (s *statisticsService) Overview(ctx context.Context, actor Actor) (*OverviewResponse, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}

	byStatus, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, wrapErr("overview", err)
	}
	eventTypes, err := s.bookings.CountByEventType(ctx)
	if err != nil {
		return nil, wrapErr("overview", err)
	}
	admins, err := s.profiles.CountByStatus(ctx, model.RoleAdmin)
	if err != nil {
		return nil, wrapErr("overview", err)
	}
	receiptsTotal, err := s.receipts.SumAmounts(ctx)
	if err != nil {
		return nil, wrapErr("overview", err)
	}

	resp := &OverviewResponse{
		Inquiries:     byStatus[model.BookingStatusInquiry],
		Confirmed:     byStatus[model.BookingStatusConfirmed],
		Cleared:       byStatus[model.BookingStatusCleared],
		EventTypes:    eventTypes,
		ActiveAdmins:  admins[model.ProfileStatusActive],
		PendingAdmins: admins[model.ProfileStatusPending],
		ReceiptsTotal: receiptsTotal.StringFixed(2),
	}
	if resp.EventTypes == nil {
		resp.EventTypes = []repository.EventTypeCount{}
	}
	resp.TotalBookings = resp.Inquiries + resp.Confirmed + resp.Cleared
	resp.ConversionRate = conversionRate(resp.TotalBookings, resp.Confirmed+resp.Cleared)
	return resp, nil
}

func conversionRate(total, converted int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(converted) / float64(total) * 100))
}
