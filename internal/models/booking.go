package models

import "time"

// BookingStatus tracks the lifecycle of an interview booking. Only confirmed
// bookings participate in slot validation; the wider interview workflow lives
// outside this service.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// InterviewBooking is a confirmed interview slot held by a reviewer for a tutor.
type InterviewBooking struct {
	ID         string        `db:"id" json:"id"`
	ReviewerID string        `db:"reviewer_id" json:"reviewer_id"`
	TutorID    string        `db:"tutor_id" json:"tutor_id"`
	StartAt    time.Time     `db:"start_at" json:"start_at"`
	EndAt      time.Time     `db:"end_at" json:"end_at"`
	Status     BookingStatus `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}
