package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// ReportRepository defines persistence operations for PDF reports.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.PDFReport) (*domain.PDFReport, error)
	FindByID(ctx context.Context, id string) (*domain.PDFReport, error)
	FindByProject(ctx context.Context, projectID string) ([]*domain.PDFReport, error)
	CountByProject(ctx context.Context, projectID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type ReportService interface {
	Generate(ctx context.Context, caller domain.Caller, projectID string) (*domain.PDFReport, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.PDFReport, error)
	ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.PDFReport, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}

// ReportGenerator renders project PDFs in the background.
type ReportGenerator interface {
	// Reserve returns a fresh artifact key for a report of projectID.
	Reserve(projectID string) string
	// Schedule queues rendering of report into report.FilePath.
	Schedule(ctx context.Context, report *domain.PDFReport) error
	// Discard removes a stored artifact. A missing artifact is not an error.
	Discard(ctx context.Context, key string) error
}

// ReportGuard coalesces concurrent generations for the same project.
type ReportGuard interface {
	// Acquire claims the project's render slot for key. When a render is
	// already in flight it returns that render's key and false.
	Acquire(ctx context.Context, projectID, key string) (string, bool, error)
	Release(ctx context.Context, projectID string) error
}

// ReportSnapshot is everything a rendered report shows.
type ReportSnapshot struct {
	Project     *domain.Project
	Pages       []*domain.Page
	Workflows   []*domain.Workflow
	Assignments []*domain.ProjectAssignment
}

// ReportSource loads the data a report is rendered from.
type ReportSource interface {
	Snapshot(ctx context.Context, projectID string) (*ReportSnapshot, error)
}
