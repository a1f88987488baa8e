package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SlotsBooked maps a date key ("15_6_2025") to the time labels ("10:00 AM")
// already booked on that day. Stored as JSONB.
type SlotsBooked map[string][]string

// Value implements the driver.Valuer interface
func (s SlotsBooked) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *SlotsBooked) Scan(value interface{}) error {
	if value == nil {
		*s = SlotsBooked{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal SlotsBooked: unsupported type %T", value)
	}

	out := SlotsBooked{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s SlotsBooked) Has(dateKey, timeLabel string) bool {
	for _, t := range s[dateKey] {
		if t == timeLabel {
			return true
		}
	}
	return false
}

// Add appends timeLabel under dateKey and reports whether it was absent.
func (s SlotsBooked) Add(dateKey, timeLabel string) bool {
	if s.Has(dateKey, timeLabel) {
		return false
	}
	s[dateKey] = append(s[dateKey], timeLabel)
	return true
}

// Remove drops timeLabel from dateKey. Missing entries are ignored.
func (s SlotsBooked) Remove(dateKey, timeLabel string) {
	times, ok := s[dateKey]
	if !ok {
		return
	}
	kept := times[:0]
	for _, t := range times {
		if t != timeLabel {
			kept = append(kept, t)
		}
	}
	s[dateKey] = kept
}

func (s SlotsBooked) Clone() SlotsBooked {
	out := make(SlotsBooked, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}
