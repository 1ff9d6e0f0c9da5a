package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhq/onboarding-api/internal/engine"
	"github.com/tutorhq/onboarding-api/internal/models"
	"github.com/tutorhq/onboarding-api/internal/repository"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
)

type bookingRepository interface {
	FindConfirmedAtSlot(ctx context.Context, reviewerID string, start, end time.Time) (*models.InterviewBooking, error)
	Create(ctx context.Context, booking *models.InterviewBooking) error
	ListForReviewer(ctx context.Context, reviewerID string, from, to time.Time) ([]models.InterviewBooking, error)
}

// BookingRequest describes an interview slot a tutor wants with a reviewer.
type BookingRequest struct {
	ReviewerID string    `json:"reviewer_id" validate:"required"`
	TutorID    string    `json:"tutor_id" validate:"required"`
	StartAt    time.Time `json:"start_at" validate:"required"`
	EndAt      time.Time `json:"end_at" validate:"required"`
}

// BookingService validates and confirms interview bookings against reviewer
// availability. Validation order is fixed: an existing confirmed booking wins
// over any availability outcome.
type BookingService struct {
	bookings  bookingRepository
	rules     ruleReader
	slots     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService instantiates BookingService.
func NewBookingService(bookings bookingRepository, rules ruleReader, slots cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{bookings: bookings, rules: rules, slots: slots, validator: validate, logger: logger}
}

// ValidateSlot checks whether the requested slot can be booked right now.
// Returns nil when bookable; otherwise ErrSlotAlreadyBooked or
// ErrSlotUnavailable.
func (s *BookingService) ValidateSlot(ctx context.Context, req BookingRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	if !req.EndAt.After(req.StartAt) {
		return appErrors.Clone(appErrors.ErrValidation, "booking must end after it starts")
	}
	if !engine.DateOf(req.StartAt).Equal(engine.DateOf(req.EndAt.Add(-time.Nanosecond))) {
		return appErrors.Clone(appErrors.ErrValidation, "booking must not cross midnight")
	}

	// Existing bookings take precedence over availability, so a taken slot
	// reports SLOT_ALREADY_BOOKED even if the reviewer has since blocked it.
	_, err := s.bookings.FindConfirmedAtSlot(ctx, req.ReviewerID, req.StartAt, req.EndAt)
	if err == nil {
		return appErrors.Clone(appErrors.ErrSlotAlreadyBooked, "reviewer already has a confirmed booking in this slot")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing bookings")
	}

	rules, err := s.rules.ListActiveOnDate(ctx, req.ReviewerID, models.OwnerKindReviewer, engine.DateOf(req.StartAt))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reviewer rules")
	}

	switch engine.ValidateBooking(rules, req.StartAt, req.EndAt) {
	case engine.BookingAllowed:
		return nil
	case engine.BookingBlocked:
		return appErrors.Clone(appErrors.ErrSlotUnavailable, "slot is blocked by an exclusion")
	case engine.BookingNotCovered:
		return appErrors.Clone(appErrors.ErrSlotUnavailable, "slot is not covered by reviewer availability")
	default:
		return appErrors.Clone(appErrors.ErrInternal, "unknown booking verdict")
	}
}

// Confirm validates the slot and persists the booking. The storage layer's
// overlap constraint closes the race between concurrent confirms; losing
// writers surface as ErrSlotAlreadyBooked.
func (s *BookingService) Confirm(ctx context.Context, req BookingRequest) (*models.InterviewBooking, error) {
	if err := s.ValidateSlot(ctx, req); err != nil {
		return nil, err
	}

	booking := models.InterviewBooking{
		ReviewerID: req.ReviewerID,
		TutorID:    req.TutorID,
		StartAt:    req.StartAt.UTC(),
		EndAt:      req.EndAt.UTC(),
		Status:     models.BookingStatusConfirmed,
	}
	if err := s.bookings.Create(ctx, &booking); err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return nil, appErrors.Clone(appErrors.ErrSlotAlreadyBooked, "slot was booked concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	s.logger.Info("booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.String("reviewer_id", booking.ReviewerID),
		zap.String("tutor_id", booking.TutorID),
		zap.Time("start_at", booking.StartAt))

	if s.slots != nil {
		s.slots.InvalidateOwner(ctx, models.OwnerKindReviewer, req.ReviewerID)
	}
	return &booking, nil
}

// ListForReviewer returns a reviewer's bookings inside [from, to].
func (s *BookingService) ListForReviewer(ctx context.Context, reviewerID string, from, to time.Time) ([]models.InterviewBooking, error) {
	if reviewerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reviewer id is required")
	}
	if !to.After(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "range must end after it starts")
	}
	bookings, err := s.bookings.ListForReviewer(ctx, reviewerID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	if bookings == nil {
		bookings = []models.InterviewBooking{}
	}
	return bookings, nil
}
