package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/Piyush-gour/legal-sathi/models"
)

const (
	DaysAhead    = 7
	SlotLength   = 30 * time.Minute
	dayStartHour = 10
	dayEndHour   = 21
	timeLayout   = "03:04 PM"
)

// Slot is one bookable opening. DateKey and TimeLabel are the ledger keys.
type Slot struct {
	DateTime  time.Time `json:"dateTime"`
	TimeLabel string    `json:"time"`
	DateKey   string    `json:"dateKey"`
}

type DaySlots struct {
	DateKey string    `json:"dateKey"`
	Date    time.Time `json:"date"`
	Slots   []Slot    `json:"slots"`
}

// DateKey formats t as day_month_year without leading zeros, e.g. 15_6_2025.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// TimeLabel formats t as a zero padded 12-hour clock, e.g. 09:30 PM.
func TimeLabel(t time.Time) string {
	return t.Format(timeLayout)
}

// ParseDateKey validates a day_month_year key and returns midnight of that
// day in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	var d, m, y int
	if n, err := fmt.Sscanf(key, "%d_%d_%d", &d, &m, &y); err != nil || n != 3 {
		return time.Time{}, fmt.Errorf("malformed date key %q", key)
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc)
	if t.Day() != d || int(t.Month()) != m || t.Year() != y || DateKey(t) != key {
		return time.Time{}, fmt.Errorf("malformed date key %q", key)
	}
	return t, nil
}

// ParseTimeLabel accepts a label in the ledger format and returns its clock
// offset from midnight. Only labels on a slot boundary inside business hours
// are accepted.
func ParseTimeLabel(label string) (time.Duration, error) {
	label = strings.TrimSpace(label)
	t, err := time.Parse(timeLayout, label)
	if err != nil || TimeLabel(t) != label {
		return 0, fmt.Errorf("malformed time label %q", label)
	}
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	if offset%SlotLength != 0 || t.Hour() < dayStartHour || t.Hour() >= dayEndHour {
		return 0, fmt.Errorf("time %q is not a bookable slot", label)
	}
	return offset, nil
}

// SlotTime resolves a (dateKey, timeLabel) pair into the instant the slot
// starts in loc.
func SlotTime(dateKey, timeLabel string, loc *time.Location) (time.Time, error) {
	day, err := ParseDateKey(dateKey, loc)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseTimeLabel(timeLabel)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).Add(offset), nil
}

// Generate lists the open slots for the 7 days starting at the day of now,
// in now's location. Day 0 starts at the later of 10:00 and now rounded up to
// the next half hour; every day ends before 21:00.
func Generate(now time.Time, booked models.SlotsBooked) []DaySlots {
	loc := now.Location()
	days := make([]DaySlots, 0, DaysAhead)

	for i := 0; i < DaysAhead; i++ {
		day := time.Date(now.Year(), now.Month(), now.Day()+i, 0, 0, 0, 0, loc)
		start := time.Date(day.Year(), day.Month(), day.Day(), dayStartHour, 0, 0, 0, loc)
		end := time.Date(day.Year(), day.Month(), day.Day(), dayEndHour, 0, 0, 0, loc)
		if i == 0 {
			if rounded := ceilSlot(now); rounded.After(start) {
				start = rounded
			}
		}

		bucket := DaySlots{DateKey: DateKey(day), Date: day, Slots: []Slot{}}
		for t := start; t.Before(end); t = t.Add(SlotLength) {
			label := TimeLabel(t)
			if booked.Has(bucket.DateKey, label) {
				continue
			}
			bucket.Slots = append(bucket.Slots, Slot{DateTime: t, TimeLabel: label, DateKey: bucket.DateKey})
		}
		days = append(days, bucket)
	}
	return days
}

// ceilSlot rounds t up to the next slot boundary; boundaries stay put.
func ceilSlot(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	elapsed := t.Sub(midnight)
	if rem := elapsed % SlotLength; rem != 0 {
		elapsed += SlotLength - rem
	}
	return midnight.Add(elapsed)
}
