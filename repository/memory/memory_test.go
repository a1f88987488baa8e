package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/Piyush-gour/legal-sathi/repository"
	"github.com/Piyush-gour/legal-sathi/repository/storetest"
)

func seedLawyer(t *testing.T, s *Store, id string, approved bool) {
	t.Helper()
	err := s.CreateLawyer(context.Background(), &models.Lawyer{
		ID:          id,
		Name:        "Lawyer " + id,
		Email:       id + "@example.com",
		Approved:    approved,
		Available:   true,
		SlotsBooked: models.SlotsBooked{},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateUser(ctx, &models.User{ID: "u1", Email: "ravi@example.com"}); err != nil {
		t.Fatal(err)
	}
	err := s.CreateUser(ctx, &models.User{ID: "u2", Email: "RAVI@example.com"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestCreateLawyer_DuplicateBarID(t *testing.T) {
	s := New()
	ctx := context.Background()
	bar := "MH/1/2020"

	if err := s.CreateLawyer(ctx, &models.Lawyer{ID: "l1", Email: "a@example.com", BarID: &bar}); err != nil {
		t.Fatal(err)
	}
	other := bar
	err := s.CreateLawyer(ctx, &models.Lawyer{ID: "l2", Email: "b@example.com", BarID: &other})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if err := s.CreateLawyer(ctx, &models.Lawyer{ID: "l3", Email: "c@example.com"}); err != nil {
		t.Fatalf("lawyer without bar id: %v", err)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedLawyer(t, s, "l1", true)

	l, err := s.GetLawyerByID(ctx, "l1")
	if err != nil {
		t.Fatal(err)
	}
	l.SlotsBooked.Add("15_6_2025", "10:00 AM")
	l.Approved = false

	again, _ := s.GetLawyerByID(ctx, "l1")
	if again.SlotsBooked.Has("15_6_2025", "10:00 AM") || !again.Approved {
		t.Error("mutating a returned lawyer changed the store")
	}
}

func TestBookSlot(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedLawyer(t, s, "l1", true)

	if err := s.BookSlot(ctx, "l1", "15_6_2025", "10:00 AM"); err != nil {
		t.Fatal(err)
	}
	if err := s.BookSlot(ctx, "l1", "15_6_2025", "10:00 AM"); !errors.Is(err, repository.ErrSlotTaken) {
		t.Fatalf("expected slot taken, got %v", err)
	}
	if err := s.BookSlot(ctx, "missing", "15_6_2025", "10:00 AM"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.ReleaseSlot(ctx, "l1", "16_6_2025", "10:00 AM"); err != nil {
		t.Fatalf("releasing an unbooked slot: %v", err)
	}
}

func TestBookSlot_Concurrent(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedLawyer(t, s, "l1", true)

	labels := []string{"10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM"}
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			_ = s.BookSlot(ctx, "l1", "15_6_2025", label)
		}(labels[i%len(labels)])
	}
	wg.Wait()

	booked, err := s.BookedSlots(ctx, "l1")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(booked["15_6_2025"]); got != len(labels) {
		t.Errorf("expected %d distinct labels, got %d: %v", len(labels), got, booked)
	}
}

func TestUpdateConsultationIf(t *testing.T) {
	s := New()
	ctx := context.Background()

	c := &models.Consultation{ID: "c1", UserID: "u1", LawyerID: "l1", Status: models.StatusPending}
	if err := s.CreateConsultation(ctx, c); err != nil {
		t.Fatal(err)
	}

	first := *c
	first.Status = models.StatusAccepted
	if err := s.UpdateConsultationIf(ctx, &first, models.Guard{Status: models.StatusPending}); err != nil {
		t.Fatal(err)
	}

	// a second writer that read the pending record loses
	second := *c
	second.Status = models.StatusRejected
	err := s.UpdateConsultationIf(ctx, &second, models.Guard{Status: models.StatusPending})
	if !errors.Is(err, repository.ErrStaleState) {
		t.Fatalf("expected stale state, got %v", err)
	}

	stored, _ := s.GetConsultation(ctx, "c1")
	if stored.Status != models.StatusAccepted {
		t.Errorf("expected accepted, got %s", stored.Status)
	}
	if !stored.CreatedAt.Equal(c.CreatedAt) {
		t.Error("created_at was overwritten")
	}

	missing := &models.Consultation{ID: "nope"}
	if err := s.UpdateConsultationIf(ctx, missing, models.Guard{}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeletePendingLawyer(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedLawyer(t, s, "approved", true)
	seedLawyer(t, s, "pending", false)

	if err := s.DeletePendingLawyer(ctx, "approved"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("approved lawyer: expected not found, got %v", err)
	}
	if err := s.DeletePendingLawyer(ctx, "pending"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetLawyerByID(ctx, "pending"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("pending lawyer still present: %v", err)
	}
}

func TestListConsultations_FilterAndLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	records := []models.Consultation{
		{ID: "c1", UserID: "u1", LawyerID: "l1", Status: models.StatusPending},
		{ID: "c2", UserID: "u1", LawyerID: "l2", Status: models.StatusAccepted},
		{ID: "c3", UserID: "u2", LawyerID: "l1", Status: models.StatusAccepted, Cancelled: true},
		{ID: "c4", UserID: "u2", LawyerID: "l1", Status: models.StatusCompleted, Amount: 800},
	}
	for i := range records {
		if err := s.CreateConsultation(ctx, &records[i]); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter repository.ConsultationFilter
		want   int
	}{
		{"all", repository.ConsultationFilter{}, 4},
		{"by user", repository.ConsultationFilter{UserID: "u1"}, 2},
		{"by lawyer", repository.ConsultationFilter{LawyerID: "l1"}, 3},
		{"accepted live", repository.ConsultationFilter{Statuses: []models.ConsultationStatus{models.StatusAccepted}, NotCancelled: true}, 1},
		{"limit", repository.ConsultationFilter{Limit: 2}, 2},
	}
	for _, tt := range tests {
		got, err := s.ListConsultations(ctx, tt.filter)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, len(got))
		}
	}

	earnings, err := s.LawyerEarnings(ctx, "l1")
	if err != nil {
		t.Fatal(err)
	}
	if earnings != 800 {
		t.Errorf("expected earnings 800, got %d", earnings)
	}
}

func TestUpsertAdmin(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.UpsertAdmin(ctx, &models.Admin{ID: "a1", Email: "admin@legalsathi.in", Password: "h1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertAdmin(ctx, &models.Admin{ID: "a2", Email: "ADMIN@legalsathi.in", Password: "h2"}); err != nil {
		t.Fatal(err)
	}

	a, err := s.GetAdminByEmail(ctx, "admin@legalsathi.in")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != "a1" || a.Password != "h2" {
		t.Errorf("expected a1 with the new hash, got %+v", a)
	}
	if _, err := s.GetAdminByID(ctx, "a2"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("upsert created a second admin: %v", err)
	}
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, New())
}
