// Package storetest holds behaviour checks every repository.Store backend
// must pass. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/google/uuid"
)

// Run exercises the slot ledger and the guarded consultation update against
// store. Records use random ids so a shared database can be reused.
func Run(t *testing.T, store repository.Store) {
	t.Run("ledger", func(t *testing.T) { testLedger(t, store) })
	t.Run("concurrent booking", func(t *testing.T) { testConcurrentBooking(t, store) })
	t.Run("guarded update", func(t *testing.T) { testGuardedUpdate(t, store) })
	t.Run("pending lawyer delete", func(t *testing.T) { testDeletePending(t, store) })
}

func newLawyer(t *testing.T, store repository.Store, approved bool) *models.Lawyer {
	t.Helper()
	id := uuid.NewString()
	l := &models.Lawyer{
		ID:          id,
		Name:        "Lawyer " + id[:8],
		Email:       id + "@example.com",
		Password:    "x",
		Approved:    approved,
		Available:   true,
		SlotsBooked: models.SlotsBooked{},
	}
	if err := store.CreateLawyer(context.Background(), l); err != nil {
		t.Fatalf("create lawyer: %v", err)
	}
	return l
}

func testLedger(t *testing.T, store repository.Store) {
	ctx := context.Background()
	l := newLawyer(t, store, true)

	if err := store.BookSlot(ctx, l.ID, "15_6_2025", "10:00 AM"); err != nil {
		t.Fatal(err)
	}
	if err := store.BookSlot(ctx, l.ID, "15_6_2025", "10:30 AM"); err != nil {
		t.Fatal(err)
	}
	if err := store.BookSlot(ctx, l.ID, "15_6_2025", "10:00 AM"); !errors.Is(err, repository.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	if err := store.ReleaseSlot(ctx, l.ID, "15_6_2025", "10:00 AM"); err != nil {
		t.Fatal(err)
	}
	if err := store.ReleaseSlot(ctx, l.ID, "15_6_2025", "10:00 AM"); err != nil {
		t.Fatalf("second release: %v", err)
	}

	booked, err := store.BookedSlots(ctx, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if booked.Has("15_6_2025", "10:00 AM") || !booked.Has("15_6_2025", "10:30 AM") {
		t.Errorf("unexpected ledger %v", booked)
	}

	if err := store.BookSlot(ctx, uuid.NewString(), "15_6_2025", "10:00 AM"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("unknown lawyer: expected ErrNotFound, got %v", err)
	}
}

func testConcurrentBooking(t *testing.T, store repository.Store) {
	ctx := context.Background()
	l := newLawyer(t, store, true)

	const workers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.BookSlot(ctx, l.ID, "16_6_2025", "11:00 AM")
			if err != nil && !errors.Is(err, repository.ErrSlotTaken) {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("expected exactly one booking to succeed, got %d", wins)
	}
	booked, err := store.BookedSlots(ctx, l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(booked["16_6_2025"]); got != 1 {
		t.Errorf("expected one stored label, got %d", got)
	}
}

func testGuardedUpdate(t *testing.T, store repository.Store) {
	ctx := context.Background()
	c := &models.Consultation{
		ID:       uuid.NewString(),
		UserID:   uuid.NewString(),
		LawyerID: uuid.NewString(),
		Medium:   models.MediumVideo,
		Origin:   models.OriginRequest,
		Status:   models.StatusPending,
	}
	if err := store.CreateConsultation(ctx, c); err != nil {
		t.Fatal(err)
	}

	accepted := *c
	accepted.Status = models.StatusAccepted
	if err := store.UpdateConsultationIf(ctx, &accepted, models.Guard{Status: models.StatusPending}); err != nil {
		t.Fatal(err)
	}

	rejected := *c
	rejected.Status = models.StatusRejected
	err := store.UpdateConsultationIf(ctx, &rejected, models.Guard{Status: models.StatusPending})
	if !errors.Is(err, repository.ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}

	stored, err := store.GetConsultation(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.StatusAccepted {
		t.Errorf("expected accepted, got %s", stored.Status)
	}
}

func testDeletePending(t *testing.T, store repository.Store) {
	ctx := context.Background()
	approved := newLawyer(t, store, true)
	pending := newLawyer(t, store, false)

	if err := store.DeletePendingLawyer(ctx, approved.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("approved lawyer: expected ErrNotFound, got %v", err)
	}
	if err := store.DeletePendingLawyer(ctx, pending.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetLawyerByID(ctx, pending.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("pending lawyer not deleted: %v", err)
	}
}
