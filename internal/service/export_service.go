package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhq/onboarding-api/internal/models"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
	"github.com/tutorhq/onboarding-api/pkg/export"
)

type slotGenerator interface {
	GenerateSlots(ctx context.Context, req GenerateSlotsRequest) ([]models.Slot, error)
}

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes plus HTTP response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders an owner's bookable slots as downloadable files.
type ExportService struct {
	slots  slotGenerator
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(slots slotGenerator, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		slots:  slots,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

// ExportSlots generates the owner's slots and renders them in the requested
// format.
func (s *ExportService) ExportSlots(ctx context.Context, req GenerateSlotsRequest, format ExportFormat) (*ExportResult, error) {
	slots, err := s.slots.GenerateSlots(ctx, req)
	if err != nil {
		return nil, err
	}

	data := slotDataset(slots)
	name := fmt.Sprintf("slots-%s-%s", req.OwnerID, req.From.UTC().Format("2006-01-02"))

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: name + ".csv"}, nil
	case ExportFormatPDF:
		title := fmt.Sprintf("Available slots for %s", req.OwnerID)
		content, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: name + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+string(format))
	}
}

func slotDataset(slots []models.Slot) export.Dataset {
	data := export.Dataset{Headers: []string{"Date", "Start", "End", "Duration"}}
	for _, slot := range slots {
		data.Rows = append(data.Rows, map[string]string{
			"Date":     slot.Start.UTC().Format("2006-01-02"),
			"Start":    slot.Start.UTC().Format("15:04"),
			"End":      slot.End.UTC().Format("15:04"),
			"Duration": slot.End.Sub(slot.Start).Round(time.Minute).String(),
		})
	}
	return data
}
