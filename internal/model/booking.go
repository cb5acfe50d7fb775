package model

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed claim on one slot of an availability. Creating a
// booking is the only operation that decrements the availability's
// remaining slots, and the two writes commit together.
type Booking struct {
	Base
	AvailabilityID uuid.UUID     `json:"availability_id" db:"availability_id"`
	ClientName     string        `json:"client_name" db:"client_name"`
	ClientDocument string        `json:"client_document,omitempty" db:"client_document"`
	ClientPhone    string        `json:"client_phone,omitempty" db:"client_phone"`
	ClientEmail    string        `json:"client_email,omitempty" db:"client_email"`
	ServiceNumber  string        `json:"service_number" db:"service_number"`
	TimeSlot       string        `json:"time_slot" db:"time_slot"`
	Comments       string        `json:"comments,omitempty" db:"comments"`
	Status         BookingStatus `json:"status" db:"status"`
	CreatedBy      string        `json:"created_by" db:"created_by"`
}

type CreateBookingRequest struct {
	AvailabilityID uuid.UUID `json:"availability_id" binding:"required"`
	ClientName     string    `json:"client_name" binding:"required,max=200"`
	ClientDocument string    `json:"client_document" binding:"max=40"`
	ClientPhone    string    `json:"client_phone" binding:"max=30"`
	ClientEmail    string    `json:"client_email" binding:"omitempty,email"`
	ServiceNumber  string    `json:"service_number" binding:"required,max=40"`
	TimeSlot       string    `json:"time_slot" binding:"required,hhmm"`
	Comments       string    `json:"comments" binding:"max=1000"`
}

// BookingConfirmedEvent is the outbox payload published after a booking
// commits.
type BookingConfirmedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	AvailabilityID uuid.UUID `json:"availability_id"`
	ClientName     string    `json:"client_name"`
	ClientEmail    string    `json:"client_email,omitempty"`
	Date           string    `json:"date"`
	TimeSlot       string    `json:"time_slot"`
	ServiceNumber  string    `json:"service_number"`
}
