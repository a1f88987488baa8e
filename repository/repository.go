// Package repository defines the persistence contracts the services depend
// on. Implementations live in the postgres, mongo and memory subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/Piyush-gour/legal-sathi/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field (email, bar id) clashes.
	ErrDuplicate = errors.New("duplicate record")
	// ErrSlotTaken is returned by BookSlot when the label is already booked.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrStaleState is returned by UpdateConsultationIf when the stored
	// status or cancelled flag no longer matches the guard.
	ErrStaleState = errors.New("consultation state changed concurrently")
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	SetUserBlocked(ctx context.Context, id string, blocked bool) error
	CountUsers(ctx context.Context) (int64, error)
}

// LawyerFilter narrows ListLawyers; nil fields are not filtered on.
type LawyerFilter struct {
	Approved  *bool
	Available *bool
}

type LawyerRepository interface {
	CreateLawyer(ctx context.Context, l *models.Lawyer) error
	GetLawyerByID(ctx context.Context, id string) (*models.Lawyer, error)
	GetLawyerByEmail(ctx context.Context, email string) (*models.Lawyer, error)
	// UpdateLawyerProfile writes the editable profile fields only; it never
	// touches approval or the slot ledger.
	UpdateLawyerProfile(ctx context.Context, l *models.Lawyer) error
	ListLawyers(ctx context.Context, f LawyerFilter) ([]models.Lawyer, error)
	SetLawyerApproved(ctx context.Context, id string, approved bool) error
	SetLawyerAvailable(ctx context.Context, id string, available bool) error
	// DeletePendingLawyer removes a lawyer that has not been approved yet.
	DeletePendingLawyer(ctx context.Context, id string) error
	CountLawyers(ctx context.Context, f LawyerFilter) (int64, error)
}

// SlotLedger is the per-lawyer booked-slot map. BookSlot and ReleaseSlot
// must each be a single atomic store operation.
type SlotLedger interface {
	BookSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error
	ReleaseSlot(ctx context.Context, lawyerID, dateKey, timeLabel string) error
	BookedSlots(ctx context.Context, lawyerID string) (models.SlotsBooked, error)
}

type ConsultationFilter struct {
	UserID       string
	LawyerID     string
	Statuses     []models.ConsultationStatus
	NotCancelled bool
	// Limit caps the result size; zero means no limit. Results are newest first.
	Limit int
}

type ConsultationRepository interface {
	CreateConsultation(ctx context.Context, c *models.Consultation) error
	GetConsultation(ctx context.Context, id string) (*models.Consultation, error)
	ListConsultations(ctx context.Context, f ConsultationFilter) ([]models.Consultation, error)
	// UpdateConsultationIf persists c only if the stored record still
	// matches guard, otherwise it returns ErrStaleState.
	UpdateConsultationIf(ctx context.Context, c *models.Consultation, guard models.Guard) error
	CountConsultations(ctx context.Context, f ConsultationFilter) (int64, error)
	// LawyerEarnings sums amount over the lawyer's completed or paid
	// consultations.
	LawyerEarnings(ctx context.Context, lawyerID string) (int64, error)
}

type AdminRepository interface {
	UpsertAdmin(ctx context.Context, a *models.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetAdminByID(ctx context.Context, id string) (*models.Admin, error)
}

// Store bundles every repository behind one backend.
type Store interface {
	UserRepository
	LawyerRepository
	SlotLedger
	ConsultationRepository
	AdminRepository

	Ping(ctx context.Context) error
	Close() error
}
