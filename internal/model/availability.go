package model

import (
	"time"
)

// MaxAvailabilitySpan caps a single availability at two hours.
const MaxAvailabilitySpan = 120 * time.Minute

// Availability is a bookable time window published by a provider.
// RemainingSlots starts at Capacity and is decremented by exactly one per
// confirmed booking; it never goes below zero.
type Availability struct {
	Base
	Date           time.Time `json:"date" db:"date"`
	StartTime      string    `json:"start_time" db:"start_time"`
	EndTime        string    `json:"end_time" db:"end_time"`
	Capacity       int       `json:"capacity" db:"capacity"`
	RemainingSlots int       `json:"remaining_slots" db:"remaining_slots"`
	CreatedBy      string    `json:"created_by" db:"created_by"`
}

type CreateAvailabilityRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
}

// ParseClock parses an "HH:MM" time-of-day string.
func ParseClock(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}
