package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Piyush-gour/legal-sathi/logger"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/notify"
	"github.com/Piyush-gour/legal-sathi/repository/memory"
	"github.com/Piyush-gour/legal-sathi/scheduling"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// fixedNow is Saturday 14 June 2025, 09:00 IST.
var fixedNow = time.Date(2025, time.June, 14, 9, 0, 0, 0, ist)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(ctx context.Context, event notify.Event, c *models.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingNotifier) Events() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

type fixture struct {
	store         *memory.Store
	ledger        *scheduling.Ledger
	consultations *ConsultationService
	lawyers       *LawyerService
	notifier      *recordingNotifier
}

// newFixture seeds two users (u1, u2), two approved lawyers (l1 with fees
// 800, l2) and one lawyer awaiting approval (l3).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	for _, u := range []models.User{
		{ID: "u1", Name: "Ravi", Email: "ravi@example.com"},
		{ID: "u2", Name: "Meera", Email: "meera@example.com"},
	} {
		u := u
		if err := store.CreateUser(ctx, &u); err != nil {
			t.Fatal(err)
		}
	}
	for _, l := range []models.Lawyer{
		{ID: "l1", Name: "Asha Rao", Email: "asha@example.com", Fees: 800, Approved: true, Available: true},
		{ID: "l2", Name: "Vikram Sen", Email: "vikram@example.com", Fees: 1200, Approved: true, Available: true},
		{ID: "l3", Name: "Kiran Das", Email: "kiran@example.com", Fees: 500, Approved: false, Available: true},
	} {
		l := l
		l.SlotsBooked = models.SlotsBooked{}
		if err := store.CreateLawyer(ctx, &l); err != nil {
			t.Fatal(err)
		}
	}

	ledger := scheduling.NewLedger(store)
	notifier := &recordingNotifier{}
	consultations := NewConsultationService(store, ledger, ist, logger.Nop(),
		WithClock(func() time.Time { return fixedNow }),
		WithNotifier(notifier),
	)
	lawyers := NewLawyerService(store, ledger, nil, ist, logger.Nop())
	lawyers.now = func() time.Time { return fixedNow }

	return &fixture{
		store:         store,
		ledger:        ledger,
		consultations: consultations,
		lawyers:       lawyers,
		notifier:      notifier,
	}
}

func (f *fixture) request(t *testing.T, userID, lawyerID, slotDate, slotTime string) *models.Consultation {
	t.Helper()
	c, err := f.consultations.Create(context.Background(), userID, CreateConsultationInput{
		LawyerID: lawyerID,
		Medium:   models.MediumVideo,
		Message:  "property dispute",
		SlotDate: slotDate,
		SlotTime: slotTime,
	})
	if err != nil {
		t.Fatalf("create consultation: %v", err)
	}
	return c
}
