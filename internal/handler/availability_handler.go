package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tutorhq/onboarding-api/internal/service"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
	"github.com/tutorhq/onboarding-api/pkg/response"
)

// AvailabilityHandler exposes slot generation and export endpoints.
type AvailabilityHandler struct {
	slots   *service.AvailabilityService
	exports *service.ExportService
}

// NewAvailabilityHandler constructs AvailabilityHandler.
func NewAvailabilityHandler(slots *service.AvailabilityService, exports *service.ExportService) *AvailabilityHandler {
	return &AvailabilityHandler{slots: slots, exports: exports}
}

// ListSlots godoc
// @Summary List bookable slots for an owner
// @Tags Availability
// @Produce json
// @Param kind path string true "Owner kind (tutors or reviewers)"
// @Param id path string true "Owner ID"
// @Param from query string true "Range start (RFC3339 or YYYY-MM-DD)"
// @Param to query string true "Range end (RFC3339 or YYYY-MM-DD)"
// @Param duration query int false "Slot duration in minutes"
// @Success 200 {object} response.Envelope
// @Router /owners/{kind}/{id}/slots [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	req, err := h.slotRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	slots, err := h.slots.GenerateSlots(c.Request.Context(), *req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, map[string]interface{}{"count": len(slots)})
}

// ExportSlots godoc
// @Summary Export bookable slots as CSV or PDF
// @Tags Availability
// @Produce octet-stream
// @Param kind path string true "Owner kind"
// @Param id path string true "Owner ID"
// @Param from query string true "Range start"
// @Param to query string true "Range end"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /owners/{kind}/{id}/slots/export [get]
func (h *AvailabilityHandler) ExportSlots(c *gin.Context) {
	req, err := h.slotRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.ExportSlots(c.Request.Context(), *req, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *AvailabilityHandler) slotRequest(c *gin.Context) (*service.GenerateSlotsRequest, error) {
	kind, err := ownerKindFromParam(c.Param("kind"))
	if err != nil {
		return nil, err
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return nil, err
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return nil, err
	}

	req := service.GenerateSlotsRequest{
		OwnerID:   c.Param("id"),
		OwnerKind: kind,
		From:      from,
		To:        to,
	}
	if raw := c.Query("duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duration must be a positive number of minutes")
		}
		req.SlotDuration = time.Duration(minutes) * time.Minute
	}
	return &req, nil
}
