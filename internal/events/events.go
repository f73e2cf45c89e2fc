package events

import (
	"context"
	"log"
	"time"
)

// Routing keys of the change notifications emitted after each committed mutation
const (
	RKBookingSubmitted = "booking.submitted"
	RKBookingAssigned  = "booking.assigned"
	RKBookingConfirmed = "booking.confirmed"
	RKBookingCleared   = "booking.cleared"

	RKProfileRegistered = "profile.registered"
	RKProfileApproved   = "profile.approved"
	RKProfileDenied     = "profile.denied"
	RKProfileRevoked    = "profile.revoked"

	RKReceiptUploaded = "receipt.uploaded"
)

// Event tells dashboards which record changed so they can refetch it
type Event struct {
	Type     string    `json:"type"`
	EntityID string    `json:"entity_id"`
	ActorID  string    `json:"actor_id,omitempty"`
	Status   string    `json:"status,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier delivers events. Delivery is best effort; implementations log failures.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Publisher is the subset of an AMQP publisher used by BrokerNotifier
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// BrokerNotifier forwards events to a message broker keyed by event type
type BrokerNotifier struct {
	Pub Publisher
}

func (n BrokerNotifier) Notify(ctx context.Context, ev Event) {
	if err := n.Pub.PublishJSON(ctx, ev.Type, ev); err != nil {
		log.Printf("publish %s %s failed: %v", ev.Type, ev.EntityID, err)
	}
}

// Multi fans an event out to every notifier in order
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		n.Notify(ctx, ev)
	}
}
