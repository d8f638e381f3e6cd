// Package scheduling holds the slot availability calculator and the
// appointment lifecycle rules. It is pure computation: callers fetch booked
// datetimes from the database and pass them in.
package scheduling

import (
	"time"
)

// WorkingSlots is the fixed daily schedule: 30-minute slots from 08:00 to
// 11:30 and from 14:00 to 18:00, with a lunch gap in between. 17 slots/day.
var WorkingSlots = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
}

// SlotStatus classifies one slot of a day. Every slot is exactly one of these.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotOccupied  SlotStatus = "occupied"
	SlotPast      SlotStatus = "past"
)

type Slot struct {
	Time     string     `json:"time"` // "HH:MM"
	StartsAt time.Time  `json:"startsAt"`
	Status   SlotStatus `json:"status"`
}

// DateTimeLayout is the only datetime form accepted for creating or
// rescheduling an appointment. It is what slot selection produces.
const DateTimeLayout = "2006-01-02T15:04"

// DateLayout is the calendar-date form used to query a day's schedule.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date with no time component.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// ParseDateTime parses a canonical slot datetime. Anything else is rejected.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.Local)
}

// SlotTime combines a calendar date with an "HH:MM" slot label.
func SlotTime(date time.Time, hhmm string) time.Time {
	t, err := time.ParseInLocation("15:04", hhmm, time.Local)
	if err != nil {
		return time.Time{}
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, date.Location())
}

// IsSlotAligned reports whether t falls exactly on one of the fixed daily
// slot boundaries.
func IsSlotAligned(t time.Time) bool {
	if t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	label := t.Format("15:04")
	for _, s := range WorkingSlots {
		if s == label {
			return true
		}
	}
	return false
}

// BuildDaySchedule classifies each of the 17 fixed slots of the given date.
// A slot strictly before now is past regardless of occupancy. A slot is
// occupied only when a booked datetime equals the slot datetime exactly;
// callers must pass non-canceled bookings only. Everything else is available.
func BuildDaySchedule(date time.Time, booked []time.Time, now time.Time) []Slot {
	slots := make([]Slot, 0, len(WorkingSlots))
	for _, hhmm := range WorkingSlots {
		at := SlotTime(date, hhmm)
		status := SlotAvailable
		if at.Before(now) {
			status = SlotPast
		} else if isBooked(at, booked) {
			status = SlotOccupied
		}
		slots = append(slots, Slot{Time: hhmm, StartsAt: at, Status: status})
	}
	return slots
}

func isBooked(at time.Time, booked []time.Time) bool {
	for _, b := range booked {
		if b.Equal(at) {
			return true
		}
	}
	return false
}
