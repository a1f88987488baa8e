package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
)

type mapCache struct {
	data    map[string][]byte
	deletes int
}

func (m *mapCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mapCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deletes++
	return nil
}

func TestListAvailable_OnlyBookable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cards, err := f.lawyers.ListAvailable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 lawyers, got %d", len(cards))
	}
	for _, c := range cards {
		if c.ID == "l3" {
			t.Error("unapproved lawyer listed")
		}
		if c.Rating != 4.5 || c.Reviews != 0 {
			t.Errorf("unexpected rating defaults %+v", c)
		}
	}

	if _, err := f.lawyers.ToggleAvailability(ctx, "l2"); err != nil {
		t.Fatal(err)
	}
	cards, _ = f.lawyers.ListAvailable(ctx)
	if len(cards) != 1 || cards[0].ID != "l1" {
		t.Errorf("expected only l1 after l2 went unavailable, got %+v", cards)
	}
}

func TestListAvailable_CacheInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := &mapCache{data: map[string][]byte{}}
	f.lawyers.cache = cache

	if _, err := f.lawyers.ListAvailable(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.data[listingCacheKey]; !ok {
		t.Fatal("listing was not cached")
	}

	if err := f.lawyers.Approve(ctx, "l3"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.data[listingCacheKey]; ok {
		t.Fatal("approval did not invalidate the listing")
	}

	cards, err := f.lawyers.ListAvailable(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 3 {
		t.Errorf("expected 3 lawyers after approval, got %d", len(cards))
	}
}

func TestPublic_HidesUnapproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.lawyers.Public(ctx, "l3"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := f.lawyers.Slots(ctx, "l3"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected not found for slots, got %v", err)
	}
	card, err := f.lawyers.Public(ctx, "l1")
	if err != nil {
		t.Fatal(err)
	}
	if card.Fees != 800 {
		t.Errorf("unexpected card %+v", card)
	}
}

func TestSlots_UsesClock(t *testing.T) {
	f := newFixture(t)

	days, err := f.lawyers.Slots(context.Background(), "l1")
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 7 || days[0].DateKey != "14_6_2025" {
		t.Fatalf("unexpected calendar start %+v", days[0])
	}
	if got := days[0].Slots[0].TimeLabel; got != "10:00 AM" {
		t.Errorf("expected 10:00 AM, got %s", got)
	}
}

func TestRejectLawyer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.lawyers.Reject(ctx, "l1"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("rejecting an approved lawyer: expected not found, got %v", err)
	}
	if err := f.lawyers.Reject(ctx, "l3"); err != nil {
		t.Fatal(err)
	}
	pending, err := f.lawyers.ListPending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending lawyers, got %d", len(pending))
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fees := 950
	about := "  Property and tenancy matters.  "
	updated, err := f.lawyers.UpdateProfile(ctx, "l1", UpdateLawyerInput{Fees: &fees, About: &about})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Fees != 950 || updated.About != "Property and tenancy matters." {
		t.Errorf("unexpected update %+v", updated)
	}
	if updated.Name != "Asha Rao" {
		t.Errorf("untouched field changed: %q", updated.Name)
	}

	stored, err := f.store.GetLawyerByID(ctx, "l1")
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Approved {
		t.Error("profile update must not touch approval")
	}

	negative := -1
	if _, err := f.lawyers.UpdateProfile(ctx, "l1", UpdateLawyerInput{Fees: &negative}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("negative fees: expected validation error, got %v", err)
	}
}
