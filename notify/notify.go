package notify

import (
	"context"

	"github.com/Piyush-gour/legal-sathi/models"
)

// Event names a consultation lifecycle moment worth telling someone about.
type Event string

const (
	EventRequested Event = "requested"
	EventBooked    Event = "booked"
	EventAccepted  Event = "accepted"
	EventRejected  Event = "rejected"
	EventCompleted Event = "completed"
	EventCancelled Event = "cancelled"
	EventReminder  Event = "reminder"
)

// Notifier delivers lifecycle notifications. Delivery is best effort:
// callers log failures and carry on.
type Notifier interface {
	Notify(ctx context.Context, event Event, c *models.Consultation) error
}

type Nop struct{}

func (Nop) Notify(context.Context, Event, *models.Consultation) error { return nil }
