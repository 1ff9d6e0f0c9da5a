package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tutorhq/onboarding-api/internal/models"
)

// ErrDuplicateBooking is returned when the bookings table's overlap constraint
// rejects an insert. The constraint, not the validation read, is what closes
// the race between two concurrent bookings for the same slot.
var ErrDuplicateBooking = errors.New("booking overlaps an existing confirmed booking")

const bookingColumns = "id, reviewer_id, tutor_id, start_at, end_at, status, created_at, updated_at"

// BookingRepository provides persistence for confirmed interview bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// FindConfirmedAtSlot returns a confirmed booking for the reviewer that
// overlaps [start, end), or sql.ErrNoRows when the slot is free.
func (r *BookingRepository) FindConfirmedAtSlot(ctx context.Context, reviewerID string, start, end time.Time) (*models.InterviewBooking, error) {
	query := fmt.Sprintf(`SELECT %s FROM interview_bookings WHERE reviewer_id = $1 AND status = $2 AND start_at < $3 AND end_at > $4 LIMIT 1`, bookingColumns)
	var booking models.InterviewBooking
	if err := r.db.GetContext(ctx, &booking, query, reviewerID, models.BookingStatusConfirmed, end, start); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create stores a new confirmed booking. Unique-violation errors from the
// storage-level overlap constraint are mapped to ErrDuplicateBooking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.InterviewBooking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	const query = `INSERT INTO interview_bookings (id, reviewer_id, tutor_id, start_at, end_at, status, created_at, updated_at) VALUES (:id, :reviewer_id, :tutor_id, :start_at, :end_at, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && (pqErr.Code == "23505" || pqErr.Code == "23P01") {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// ListForReviewer returns a reviewer's confirmed bookings inside a window.
func (r *BookingRepository) ListForReviewer(ctx context.Context, reviewerID string, from, to time.Time) ([]models.InterviewBooking, error) {
	query := fmt.Sprintf(`SELECT %s FROM interview_bookings WHERE reviewer_id = $1 AND status = $2 AND start_at < $3 AND end_at > $4 ORDER BY start_at ASC`, bookingColumns)
	var bookings []models.InterviewBooking
	if err := r.db.SelectContext(ctx, &bookings, query, reviewerID, models.BookingStatusConfirmed, to, from); err != nil {
		return nil, fmt.Errorf("list bookings for reviewer: %w", err)
	}
	return bookings, nil
}
