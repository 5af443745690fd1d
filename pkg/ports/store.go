package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// ReportStore persists planning reports so that results can be fetched
// after the request that produced them.
type ReportStore interface {
	// Save persists the report under its ID.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves a report.
	// Returns domain.ErrReportNotFound if the report does not exist.
	Load(ctx context.Context, id string) (*domain.Report, error)

	// Delete removes a report.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored reports, most recent first.
	List(ctx context.Context) ([]string, error)
}
