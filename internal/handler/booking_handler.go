package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhq/onboarding-api/internal/service"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
	"github.com/tutorhq/onboarding-api/pkg/response"
)

// BookingHandler exposes interview booking endpoints.
type BookingHandler struct {
	bookings *service.BookingService
}

// NewBookingHandler constructs BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// Validate godoc
// @Summary Check whether a reviewer slot can be booked
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Reviewer ID"
// @Param payload body service.BookingRequest true "Slot to check"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Slot already booked"
// @Failure 422 {object} response.Envelope "Slot not bookable"
// @Router /reviewers/{id}/bookings/validate [post]
func (h *BookingHandler) Validate(c *gin.Context) {
	req, err := h.bookingRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.bookings.ValidateSlot(c.Request.Context(), *req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"bookable": true}, nil)
}

// Create godoc
// @Summary Confirm an interview booking
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Reviewer ID"
// @Param payload body service.BookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope "Slot already booked"
// @Failure 422 {object} response.Envelope "Slot not bookable"
// @Router /reviewers/{id}/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	req, err := h.bookingRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	booking, err := h.bookings.Confirm(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// List godoc
// @Summary List a reviewer's bookings
// @Tags Bookings
// @Produce json
// @Param id path string true "Reviewer ID"
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Success 200 {object} response.Envelope
// @Router /reviewers/{id}/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := h.bookings.ListForReviewer(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

func (h *BookingHandler) bookingRequest(c *gin.Context) (*service.BookingRequest, error) {
	var req service.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	req.ReviewerID = c.Param("id")
	if req.TutorID == "" {
		if claims := claimsFromContext(c); claims != nil {
			req.TutorID = claims.UserID
		}
	}
	return &req, nil
}
