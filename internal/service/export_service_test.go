package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhq/onboarding-api/internal/models"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
)

type stubSlotGenerator struct {
	slots []models.Slot
	err   error
}

func (s *stubSlotGenerator) GenerateSlots(ctx context.Context, req GenerateSlotsRequest) ([]models.Slot, error) {
	return s.slots, s.err
}

func exportRequest() GenerateSlotsRequest {
	from := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	return GenerateSlotsRequest{
		OwnerID:   "rev-1",
		OwnerKind: models.OwnerKindReviewer,
		From:      from,
		To:        from.AddDate(0, 0, 7),
	}
}

func TestExportSlotsCSV(t *testing.T) {
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	gen := &stubSlotGenerator{slots: []models.Slot{
		{Start: start, End: start.Add(30 * time.Minute)},
		{Start: start.Add(30 * time.Minute), End: start.Add(time.Hour)},
	}}
	svc := NewExportService(gen, nil)

	result, err := svc.ExportSlots(context.Background(), exportRequest(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "slots-rev-1-2025-06-02.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Start,End,Duration", lines[0])
	assert.Equal(t, "2025-06-02,09:00,09:30,30m0s", lines[1])
}

func TestExportSlotsPDF(t *testing.T) {
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	gen := &stubSlotGenerator{slots: []models.Slot{{Start: start, End: start.Add(30 * time.Minute)}}}
	svc := NewExportService(gen, nil)

	result, err := svc.ExportSlots(context.Background(), exportRequest(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportSlotsUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubSlotGenerator{}, nil)

	_, err := svc.ExportSlots(context.Background(), exportRequest(), ExportFormat("xml"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportSlotsPropagatesGenerationError(t *testing.T) {
	gen := &stubSlotGenerator{err: appErrors.Clone(appErrors.ErrValidation, "bad query")}
	svc := NewExportService(gen, nil)

	_, err := svc.ExportSlots(context.Background(), exportRequest(), ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
