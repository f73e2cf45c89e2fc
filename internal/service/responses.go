package service

import (
	"time"

	"bookingdesk/internal/model"
)

type BookingResponse struct {
	ID              string  `json:"id"`
	ClientName      string  `json:"client_name"`
	ClientEmail     string  `json:"client_email"`
	EventType       string  `json:"event_type"`
	EventDate       string  `json:"event_date"`
	Message         string  `json:"message"`
	Status          string  `json:"status"`
	AssignedAdminID *string `json:"assigned_admin_id"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	Dashboard string `json:"dashboard"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ReceiptResponse struct {
	ID          string `json:"id"`
	BookingID   string `json:"booking_id"`
	FileURL     string `json:"file_url"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}

func toBookingResponse(b *model.Booking) BookingResponse {
	resp := BookingResponse{
		ID:          b.ID.String(),
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		EventType:   b.EventType,
		EventDate:   b.EventDate,
		Message:     b.Message,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
	if b.AssignedAdminID != nil {
		s := b.AssignedAdminID.String()
		resp.AssignedAdminID = &s
	}
	return resp
}

func toProfileResponse(p *model.UserProfile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID.String(),
		Email:     p.Email,
		Role:      p.Role,
		Status:    p.Status,
		Dashboard: p.Dashboard(),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toReceiptResponse(r *model.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:          r.ID.String(),
		BookingID:   r.BookingID.String(),
		FileURL:     r.FileURL,
		Amount:      r.Amount.StringFixed(2),
		Description: r.Description,
		UploadedBy:  r.UploadedBy.String(),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
