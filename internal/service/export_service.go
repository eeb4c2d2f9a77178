package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/internal/models"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
	"github.com/dassimern/kosher-directory-api/pkg/export"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type lister interface {
	List(ctx context.Context, req ListRequest) ([]models.Restaurant, error)
}

// ExportService renders the moderator listing as a downloadable file.
type ExportService struct {
	listing lister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(listing lister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		listing: listing,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// ExportResult is a rendered download.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Export renders every record (all statuses) for the given moderator
// credential. The credential gate is the listing service's; a wrong
// password yields Unauthorized before anything is read.
func (s *ExportService) Export(ctx context.Context, cred Credential, format string) (*ExportResult, error) {
	if !cred.Present() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")
	}

	records, err := s.listing.List(ctx, ListRequest{Credential: cred})
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Name", "City", "Website", "Kashrut", "Date Added", "Status"},
		Rows:    make([]map[string]string, 0, len(records)),
	}
	for _, r := range records {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":         r.ID,
			"Name":       r.Name,
			"City":       r.City,
			"Website":    r.Website,
			"Kashrut":    r.Kashrut,
			"Date Added": r.DateAdded,
			"Status":     string(r.Status),
		})
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: fmt.Sprintf("restaurants-%s.csv", stamp)}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Kosher Restaurant Directory")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: fmt.Sprintf("restaurants-%s.pdf", stamp)}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
