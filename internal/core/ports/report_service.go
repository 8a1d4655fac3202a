package ports

import (
	"context"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

// ReportSink stores a downloaded report and returns where it went.
type ReportSink interface {
	Save(ctx context.Context, file *domain.ReportFile) (string, error)
}

// ReportService validates and submits report requests.
type ReportService interface {
	Validate(req domain.ReportRequest) error
	Submit(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error)
}
