package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhq/onboarding-api/internal/models"
	"github.com/tutorhq/onboarding-api/internal/repository"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
)

type mockBookingRepo struct {
	existing  *models.InterviewBooking
	createErr error
	created   *models.InterviewBooking
	listed    []models.InterviewBooking
}

func (m *mockBookingRepo) FindConfirmedAtSlot(ctx context.Context, reviewerID string, start, end time.Time) (*models.InterviewBooking, error) {
	if m.existing != nil {
		return m.existing, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.InterviewBooking) error {
	if m.createErr != nil {
		return m.createErr
	}
	if booking.ID == "" {
		booking.ID = "new-booking"
	}
	m.created = booking
	return nil
}

func (m *mockBookingRepo) ListForReviewer(ctx context.Context, reviewerID string, from, to time.Time) ([]models.InterviewBooking, error) {
	return m.listed, nil
}

func bookingAt(hour int) BookingRequest {
	start := time.Date(2025, time.June, 2, hour, 0, 0, 0, time.UTC)
	return BookingRequest{
		ReviewerID: "rev-1",
		TutorID:    "tutor-1",
		StartAt:    start,
		EndAt:      start.Add(30 * time.Minute),
	}
}

func TestValidateSlotAllowed(t *testing.T) {
	rules := &stubRuleReader{rules: []models.AvailabilityRule{
		weeklyRule(models.RuleAvailabilityStandard, time.Monday, 540, 720),
	}}
	svc := NewBookingService(&mockBookingRepo{}, rules, nil, nil, nil)

	assert.NoError(t, svc.ValidateSlot(context.Background(), bookingAt(10)))
}

func TestValidateSlotExistingBookingWins(t *testing.T) {
	// Even with an exclusion in place, a confirmed booking must report as
	// already booked rather than unavailable.
	rules := &stubRuleReader{rules: []models.AvailabilityRule{
		weeklyRule(models.RuleExclusionFullDay, time.Monday, 0, 1440),
	}}
	repo := &mockBookingRepo{existing: &models.InterviewBooking{ID: "taken"}}
	svc := NewBookingService(repo, rules, nil, nil, nil)

	err := svc.ValidateSlot(context.Background(), bookingAt(10))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotAlreadyBooked.Code, appErrors.FromError(err).Code)
}

func TestValidateSlotNotCovered(t *testing.T) {
	rules := &stubRuleReader{rules: []models.AvailabilityRule{
		weeklyRule(models.RuleAvailabilityStandard, time.Monday, 540, 720),
	}}
	svc := NewBookingService(&mockBookingRepo{}, rules, nil, nil, nil)

	err := svc.ValidateSlot(context.Background(), bookingAt(14))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestValidateSlotBlockedByExclusion(t *testing.T) {
	rules := &stubRuleReader{rules: []models.AvailabilityRule{
		weeklyRule(models.RuleAvailabilityStandard, time.Monday, 540, 720),
		weeklyRule(models.RuleExclusionTimeBased, time.Monday, 600, 660),
	}}
	svc := NewBookingService(&mockBookingRepo{}, rules, nil, nil, nil)

	err := svc.ValidateSlot(context.Background(), bookingAt(10))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, appErrors.FromError(err).Code)
}

func TestValidateSlotRejectsInvertedRange(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, &stubRuleReader{}, nil, nil, nil)

	req := bookingAt(10)
	req.EndAt = req.StartAt
	err := svc.ValidateSlot(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestConfirmPersistsBookingAndInvalidatesCache(t *testing.T) {
	rules := &stubRuleReader{rules: []models.AvailabilityRule{
		weeklyRule(models.RuleAvailabilityStandard, time.Monday, 540, 720),
	}}
	repo := &mockBookingRepo{}
	inv := &recordingInvalidator{}
	svc := NewBookingService(repo, rules, inv, nil, nil)

	booking, err := svc.Confirm(context.Background(), bookingAt(9))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.NotEmpty(t, booking.ID)
	require.NotNil(t, repo.created)
	assert.Equal(t, []string{"REVIEWER:rev-1"}, inv.calls)
}

func TestConfirmMapsConcurrentDuplicate(t *testing.T) {
	rules := &stubRuleReader{rules: []models.AvailabilityRule{
		weeklyRule(models.RuleAvailabilityStandard, time.Monday, 540, 720),
	}}
	repo := &mockBookingRepo{createErr: repository.ErrDuplicateBooking}
	svc := NewBookingService(repo, rules, nil, nil, nil)

	_, err := svc.Confirm(context.Background(), bookingAt(9))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotAlreadyBooked.Code, appErrors.FromError(err).Code)
}

func TestConfirmDoesNotPersistWhenUnavailable(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := NewBookingService(repo, &stubRuleReader{}, nil, nil, nil)

	_, err := svc.Confirm(context.Background(), bookingAt(9))
	require.Error(t, err)
	assert.Nil(t, repo.created)
}

func TestListForReviewerNormalizesEmpty(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, &stubRuleReader{}, nil, nil, nil)

	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	bookings, err := svc.ListForReviewer(context.Background(), "rev-1", from, from.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}
