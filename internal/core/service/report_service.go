package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/api/metrics"
	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type reportService struct {
	reports   ports.ReportRepository
	projects  ports.ProjectRepository
	generator ports.ReportGenerator
	guard     ports.ReportGuard
	policy    ports.Policy
	log       zerolog.Logger
}

// NewReportService returns a ReportService implementation.
func NewReportService(
	reports ports.ReportRepository,
	projects ports.ProjectRepository,
	generator ports.ReportGenerator,
	guard ports.ReportGuard,
	policy ports.Policy,
	log zerolog.Logger,
) ports.ReportService {
	return &reportService{
		reports:   reports,
		projects:  projects,
		generator: generator,
		guard:     guard,
		policy:    policy,
		log:       log,
	}
}

// Generate records a report of the project and schedules its rendering.
// While a render of the same project is in flight the new row shares that
// render's artifact instead of queueing another one.
func (s *reportService) Generate(ctx context.Context, caller domain.Caller, projectID string) (*domain.PDFReport, error) {
	start := time.Now()

	// 1. Input and parent checks.
	if err := requireID("projectId", projectID); err != nil {
		return nil, err
	}
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("generate report: %w", asReference(err, "projectId"))
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindReport, Op: domain.OpCreate, ProjectID: projectID}); err != nil {
		return nil, err
	}

	// 2. Claim the render slot. A broken guard must not block reporting.
	filePath := s.generator.Reserve(projectID)
	current, owner, err := s.guard.Acquire(ctx, projectID, filePath)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("project_id", projectID).Msg("report guard unavailable, rendering anyway")
		owner = true
	case !owner:
		filePath = current
	}

	// 3. Persist the row.
	report, err := s.reports.Create(ctx, &domain.PDFReport{
		ProjectID:   projectID,
		GeneratedAt: now(),
		FilePath:    filePath,
	})
	if err != nil {
		if owner {
			s.release(ctx, projectID)
		}
		metrics.ReportsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("generate report: %w", err)
	}

	// 4. Queue the render unless one is already running.
	result := "coalesced"
	if owner {
		if err := s.generator.Schedule(ctx, report); err != nil {
			s.release(ctx, projectID)
			if delErr := s.reports.Delete(ctx, report.ID); delErr != nil {
				s.log.Error().Err(delErr).Str("report_id", report.ID).Msg("failed to drop unscheduled report")
			}
			metrics.ReportsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("generate report: %w", err)
		}
		result = "accepted"
	}

	metrics.ReportsTotal.WithLabelValues(result).Inc()
	metrics.ReportRequestDuration.Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("project_id", projectID).
		Str("report_id", report.ID).
		Str("file_path", filePath).
		Str("result", result).
		Msg("report generated")

	return report, nil
}

func (s *reportService) release(ctx context.Context, projectID string) {
	if err := s.guard.Release(ctx, projectID); err != nil {
		s.log.Warn().Err(err).Str("project_id", projectID).Msg("failed to release report guard")
	}
}

func (s *reportService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.PDFReport, error) {
	return s.load(ctx, caller, id, domain.OpRead)
}

func (s *reportService) ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.PDFReport, error) {
	if err := requireID("projectId", projectID); err != nil {
		return nil, err
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindReport, Op: domain.OpList, ProjectID: projectID}); err != nil {
		return nil, err
	}
	reports, err := s.reports.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *reportService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	report, err := s.load(ctx, caller, id, domain.OpDelete)
	if err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	// Coalesced rows share one artifact; it goes with the last of them.
	siblings, err := s.reports.FindByProject(ctx, report.ProjectID)
	if err != nil {
		s.log.Warn().Err(err).Str("report_id", id).Msg("kept report artifact, sibling lookup failed")
		return nil
	}
	for _, r := range siblings {
		if r.FilePath == report.FilePath {
			return nil
		}
	}
	if err := s.generator.Discard(ctx, report.FilePath); err != nil {
		s.log.Warn().Err(err).Str("report_id", id).Str("file_path", report.FilePath).Msg("failed to remove report artifact")
	}
	return nil
}

func (s *reportService) load(ctx context.Context, caller domain.Caller, id string, op domain.Operation) (*domain.PDFReport, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	r, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s report: %w", op, err)
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindReport, Op: op, ProjectID: r.ProjectID}); err != nil {
		return nil, err
	}
	return r, nil
}

// reportSource gathers what the PDF renderer draws. It bypasses the policy:
// the render job runs after Generate already checked the caller.
type reportSource struct {
	projects    ports.ProjectRepository
	pages       ports.PageRepository
	workflows   ports.WorkflowRepository
	assignments ports.AssignmentRepository
}

// NewReportSource returns a ReportSource reading straight from the stores.
func NewReportSource(
	projects ports.ProjectRepository,
	pages ports.PageRepository,
	workflows ports.WorkflowRepository,
	assignments ports.AssignmentRepository,
) ports.ReportSource {
	return &reportSource{projects: projects, pages: pages, workflows: workflows, assignments: assignments}
}

func (s *reportSource) Snapshot(ctx context.Context, projectID string) (*ports.ReportSnapshot, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("report snapshot: %w", err)
	}
	pages, err := s.pages.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("report snapshot: %w", err)
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Order < pages[j].Order })
	project.PagesCount = int64(len(pages))

	var workflows []*domain.Workflow
	if len(pages) > 0 {
		ids := make([]string, 0, len(pages))
		for _, p := range pages {
			ids = append(ids, p.ID)
		}
		if workflows, err = s.workflows.FindByPages(ctx, ids); err != nil {
			return nil, fmt.Errorf("report snapshot: %w", err)
		}
	}

	assignments, err := s.assignments.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("report snapshot: %w", err)
	}

	return &ports.ReportSnapshot{
		Project:     project,
		Pages:       pages,
		Workflows:   workflows,
		Assignments: assignments,
	}, nil
}
