package models

import (
	"fmt"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
)

type ConsultationStatus string

const (
	StatusPending   ConsultationStatus = "pending"
	StatusAccepted  ConsultationStatus = "accepted"
	StatusRejected  ConsultationStatus = "rejected"
	StatusCompleted ConsultationStatus = "completed"
)

// Medium is how the consultation takes place.
type Medium string

const (
	MediumVideo Medium = "video"
	MediumPhone Medium = "phone"
	MediumChat  Medium = "chat"
)

func (m Medium) Valid() bool {
	switch m {
	case MediumVideo, MediumPhone, MediumChat:
		return true
	}
	return false
}

// Origin tells a free-form consultation request apart from a direct slot
// booking (the old "appointment" flow).
type Origin string

const (
	OriginRequest     Origin = "request"
	OriginAppointment Origin = "appointment"
)

type Consultation struct {
	ID           string             `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID       string             `json:"user_id" gorm:"index;not null" bson:"user_id"`
	LawyerID     string             `json:"lawyer_id" gorm:"index;not null" bson:"lawyer_id"`
	UserName     string             `json:"user_name" bson:"user_name"`
	UserEmail    string             `json:"user_email" bson:"user_email"`
	LawyerName   string             `json:"lawyer_name" bson:"lawyer_name"`
	LawyerEmail  string             `json:"lawyer_email" bson:"lawyer_email"`
	Medium       Medium             `json:"medium" gorm:"type:varchar(10);not null" bson:"medium"`
	Origin       Origin             `json:"origin" gorm:"type:varchar(20);not null" bson:"origin"`
	Message      string             `json:"message" bson:"message"`
	SlotDate     string             `json:"slot_date,omitempty" bson:"slot_date,omitempty"`
	SlotTime     string             `json:"slot_time,omitempty" bson:"slot_time,omitempty"`
	Amount       int                `json:"amount" bson:"amount"`
	Status       ConsultationStatus `json:"status" gorm:"type:varchar(20);index;not null" bson:"status"`
	Cancelled    bool               `json:"cancelled" gorm:"not null;default:false" bson:"cancelled"`
	Paid         bool               `json:"paid" gorm:"not null;default:false" bson:"paid"`
	SlotReserved bool               `json:"slot_reserved" gorm:"not null;default:false" bson:"slot_reserved"`
	AcceptedAt   *time.Time         `json:"accepted_at,omitempty" bson:"accepted_at,omitempty"`
	RejectedAt   *time.Time         `json:"rejected_at,omitempty" bson:"rejected_at,omitempty"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

func (c *Consultation) HasSlot() bool {
	return c.SlotDate != "" && c.SlotTime != ""
}

// RoomID is the media-provider room the two parties join.
func (c *Consultation) RoomID() string {
	return "legalsathi-" + c.ID
}

// Guard is the (status, cancelled) pair a conditional update expects to
// find in the store.
type Guard struct {
	Status    ConsultationStatus
	Cancelled bool
}

func (c *Consultation) Guard() Guard {
	return Guard{Status: c.Status, Cancelled: c.Cancelled}
}

// Transition moves the consultation to newStatus, stamping the matching
// timestamp. Only pending -> accepted|rejected and accepted -> completed are
// allowed, and nothing moves once cancelled.
func (c *Consultation) Transition(newStatus ConsultationStatus, at time.Time) error {
	if c.Cancelled {
		return apperror.InvalidTransition("consultation is cancelled")
	}
	switch c.Status {
	case StatusPending:
		if newStatus != StatusAccepted && newStatus != StatusRejected {
			return apperror.InvalidTransition("invalid transition from pending to %s", newStatus)
		}
	case StatusAccepted:
		if newStatus != StatusCompleted {
			return apperror.InvalidTransition("invalid transition from accepted to %s", newStatus)
		}
	case StatusRejected, StatusCompleted:
		return apperror.InvalidTransition("no transitions allowed from %s", c.Status)
	default:
		return apperror.InvalidTransition("unknown status %q", c.Status)
	}

	c.Status = newStatus
	c.UpdatedAt = at
	switch newStatus {
	case StatusAccepted:
		c.AcceptedAt = &at
	case StatusRejected:
		c.RejectedAt = &at
	case StatusCompleted:
		c.CompletedAt = &at
	}
	return nil
}

// Cancel flags a pending or accepted consultation as cancelled.
func (c *Consultation) Cancel(at time.Time) error {
	if c.Cancelled {
		return apperror.InvalidTransition("consultation is already cancelled")
	}
	if c.Status != StatusPending && c.Status != StatusAccepted {
		return apperror.InvalidTransition("cannot cancel a %s consultation", c.Status)
	}
	c.Cancelled = true
	c.CancelledAt = &at
	c.UpdatedAt = at
	return nil
}

func (c *Consultation) String() string {
	return fmt.Sprintf("consultation %s (%s, user=%s lawyer=%s)", c.ID, c.Status, c.UserID, c.LawyerID)
}
