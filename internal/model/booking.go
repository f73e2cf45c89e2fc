package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus enum constants
const (
	BookingStatusInquiry   = "inquiry"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCleared   = "cleared"
)

// EventDateLayout is the calendar-date format of Booking.EventDate
const EventDateLayout = "2006-01-02"

// Booking is an event-service inquiry submitted through the public form.
// Client-supplied fields are never edited after creation.
type Booking struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientName      string     `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientEmail     string     `gorm:"type:varchar(255);not null" json:"client_email"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	EventDate       string     `gorm:"type:varchar(10);not null;index" json:"event_date"`
	Message         string     `gorm:"type:text;not null" json:"message"`
	Status          string     `gorm:"type:varchar(20);not null;default:'inquiry';index" json:"status"`
	AssignedAdminID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_admin_id"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

var bookingTransitions = map[string]map[string]bool{
	BookingStatusInquiry:   {BookingStatusConfirmed: true},
	BookingStatusConfirmed: {BookingStatusCleared: true},
	BookingStatusCleared:   {},
}

// CanTransitionBooking reports whether a booking may move from one status to another.
// Status only moves forward one step at a time.
func CanTransitionBooking(from, to string) bool {
	m, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// IsBookingStatus reports whether s is a known booking status.
func IsBookingStatus(s string) bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsAssignable reports whether the booking can still receive an assignee.
func (b *Booking) IsAssignable() bool {
	return b.Status == BookingStatusInquiry || b.Status == BookingStatusConfirmed
}

// IsAssignedTo reports whether the booking is assigned to the given profile.
func (b *Booking) IsAssignedTo(id uuid.UUID) bool {
	return b.AssignedAdminID != nil && *b.AssignedAdminID == id
}
