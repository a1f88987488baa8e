package models

import (
	"testing"
)

func TestSlotsBooked_AddRemove(t *testing.T) {
	s := SlotsBooked{}
	if !s.Add("15_6_2025", "10:00 AM") {
		t.Fatal("first add should succeed")
	}
	if s.Add("15_6_2025", "10:00 AM") {
		t.Fatal("duplicate add should fail")
	}
	if !s.Add("15_6_2025", "10:30 AM") {
		t.Fatal("different label should succeed")
	}
	if got := len(s["15_6_2025"]); got != 2 {
		t.Fatalf("expected 2 labels, got %d", got)
	}

	s.Remove("15_6_2025", "10:00 AM")
	if s.Has("15_6_2025", "10:00 AM") {
		t.Error("label still present after remove")
	}
	s.Remove("15_6_2025", "10:00 AM")
	s.Remove("1_1_2030", "10:00 AM")
	if !s.Has("15_6_2025", "10:30 AM") {
		t.Error("unrelated label removed")
	}
}

func TestSlotsBooked_Clone(t *testing.T) {
	s := SlotsBooked{"15_6_2025": {"10:00 AM"}}
	c := s.Clone()
	c.Add("15_6_2025", "11:00 AM")
	if s.Has("15_6_2025", "11:00 AM") {
		t.Error("clone shares storage with the original")
	}
}

func TestSlotsBooked_ValueScan(t *testing.T) {
	var nilSlots SlotsBooked
	v, err := nilSlots.Value()
	if err != nil || v != "{}" {
		t.Fatalf("nil value: got %v, %v", v, err)
	}

	src := SlotsBooked{"15_6_2025": {"10:00 AM", "11:30 AM"}}
	v, err = src.Value()
	if err != nil {
		t.Fatal(err)
	}

	var dst SlotsBooked
	if err := dst.Scan([]byte(v.(string))); err != nil {
		t.Fatal(err)
	}
	if !dst.Has("15_6_2025", "11:30 AM") {
		t.Errorf("scan lost data: %v", dst)
	}

	if err := dst.Scan(nil); err != nil || len(dst) != 0 {
		t.Errorf("scan nil: got %v, %v", dst, err)
	}
	if err := dst.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestLawyerCard_Defaults(t *testing.T) {
	l := &Lawyer{ID: "l1", Name: "Asha", Fees: 800, Approved: true, Available: true}
	card := l.Card()
	if card.Rating != DefaultRating {
		t.Errorf("expected default rating %v, got %v", DefaultRating, card.Rating)
	}
	if card.Reviews != 0 {
		t.Errorf("expected 0 reviews, got %d", card.Reviews)
	}

	rating, reviews := 4.9, 12
	l.Rating, l.Reviews = &rating, &reviews
	card = l.Card()
	if card.Rating != 4.9 || card.Reviews != 12 {
		t.Errorf("stored rating not used: %+v", card)
	}
}
