package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhq/onboarding-api/internal/models"
	"github.com/tutorhq/onboarding-api/internal/service"
	"github.com/tutorhq/onboarding-api/pkg/config"
	"github.com/tutorhq/onboarding-api/pkg/response"
)

type ruleReaderStub struct {
	rules []models.AvailabilityRule
}

func (s *ruleReaderStub) ListForOwnerInRange(ctx context.Context, ownerID string, ownerKind models.OwnerKind, fromDate, toDate time.Time) ([]models.AvailabilityRule, error) {
	return s.rules, nil
}

func (s *ruleReaderStub) ListActiveOnDate(ctx context.Context, ownerID string, ownerKind models.OwnerKind, date time.Time) ([]models.AvailabilityRule, error) {
	return s.rules, nil
}

func testSchedulingConfig() config.SchedulingConfig {
	return config.SchedulingConfig{
		DefaultSlotDuration: 30 * time.Minute,
		MinSlotDuration:     15 * time.Minute,
		MaxSlotDuration:     4 * time.Hour,
		MaxQueryRangeDays:   62,
		SlotCacheTTL:        time.Minute,
	}
}

func newAvailabilityHandler(rules []models.AvailabilityRule) *AvailabilityHandler {
	slots := service.NewAvailabilityService(&ruleReaderStub{rules: rules}, nil, nil, testSchedulingConfig(), nil, nil)
	exports := service.NewExportService(slots, nil)
	return NewAvailabilityHandler(slots, exports)
}

func TestAvailabilityHandlerListSlots(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAvailabilityHandler([]models.AvailabilityRule{{
		ID: "rule-1", OwnerID: "rev-1", OwnerKind: models.OwnerKindReviewer,
		Kind: models.RuleAvailabilityStandard, DayOfWeek: time.Monday,
		StartMinute: 540, EndMinute: 720,
		ActiveFrom: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/owners/reviewers/rev-1/slots?from=2099-06-01&to=2099-06-08", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "reviewers"}, {Key: "id", Value: "rev-1"}}

	h.ListSlots(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
	assert.NotNil(t, envelope.Meta["count"])
}

func TestAvailabilityHandlerListSlotsUnknownKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAvailabilityHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/owners/admins/x/slots?from=2099-06-01&to=2099-06-08", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "admins"}, {Key: "id", Value: "x"}}

	h.ListSlots(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerListSlotsMissingRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAvailabilityHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/owners/tutors/t-1/slots", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "tutors"}, {Key: "id", Value: "t-1"}}

	h.ListSlots(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newAvailabilityHandler([]models.AvailabilityRule{{
		ID: "rule-1", OwnerID: "rev-1", OwnerKind: models.OwnerKindReviewer,
		Kind: models.RuleAvailabilityStandard, DayOfWeek: time.Monday,
		StartMinute: 540, EndMinute: 600,
		ActiveFrom: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/owners/reviewers/rev-1/slots/export?from=2099-06-01&to=2099-06-08&format=csv", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "kind", Value: "reviewers"}, {Key: "id", Value: "rev-1"}}

	h.ExportSlots(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}
