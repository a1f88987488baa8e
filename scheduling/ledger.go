package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/metrics"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
)

// Ledger is the availability ledger: the booked (dateKey, timeLabel) pairs
// of every lawyer. The backing store performs each mutation atomically, so
// two concurrent Book calls for the same slot never both succeed.
type Ledger struct {
	store repository.SlotLedger
}

func NewLedger(store repository.SlotLedger) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) IsBooked(ctx context.Context, lawyerID, dateKey, timeLabel string) (bool, error) {
	booked, err := l.Booked(ctx, lawyerID)
	if err != nil {
		return false, err
	}
	return booked.Has(dateKey, timeLabel), nil
}

// Booked returns a copy of the lawyer's ledger.
func (l *Ledger) Booked(ctx context.Context, lawyerID string) (models.SlotsBooked, error) {
	booked, err := l.store.BookedSlots(ctx, lawyerID)
	if err != nil {
		return nil, storeError(err)
	}
	if booked == nil {
		booked = models.SlotsBooked{}
	}
	return booked, nil
}

// Book reserves the slot or fails with a slot_unavailable error.
func (l *Ledger) Book(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	if err := validateSlot(dateKey, timeLabel); err != nil {
		return err
	}
	err := l.store.BookSlot(ctx, lawyerID, dateKey, timeLabel)
	switch {
	case err == nil:
		metrics.SlotsBooked.Inc()
		return nil
	case errors.Is(err, repository.ErrSlotTaken):
		metrics.SlotConflicts.Inc()
		return apperror.SlotUnavailable(dateKey, timeLabel)
	default:
		return storeError(err)
	}
}

// Release frees the slot. Releasing a slot that is not booked is a no-op.
func (l *Ledger) Release(ctx context.Context, lawyerID, dateKey, timeLabel string) error {
	if err := l.store.ReleaseSlot(ctx, lawyerID, dateKey, timeLabel); err != nil {
		return storeError(err)
	}
	metrics.SlotsReleased.Inc()
	return nil
}

func validateSlot(dateKey, timeLabel string) error {
	if _, err := ParseDateKey(dateKey, time.UTC); err != nil {
		return apperror.Validation("%v", err)
	}
	if _, err := ParseTimeLabel(timeLabel); err != nil {
		return apperror.Validation("%v", err)
	}
	return nil
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("lawyer not found")
	}
	return apperror.Internal(err, "ledger store failure")
}
