package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

func newMock(t *testing.T) (*Repositories, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewRepositories(db), mock, db
}

func expectDone(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

var ts = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestUserCreate_Success(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,`).
		WithArgs(sqlmock.AnyArg(), "pm@example.com", "hash", "Pat", "ProjectManager", ts, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repos.Users.Create(context.Background(), &domain.User{
		Email: "pm@example.com", PasswordHash: "hash", Name: "Pat",
		Role: domain.RoleProjectManager, CreatedAt: ts, UpdatedAt: ts,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" || got.Email != "pm@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if v := uuid.MustParse(got.ID).Version(); v != 7 {
		t.Fatalf("expected a time-ordered v7 id, got version %d", v)
	}
	expectDone(t, mock)
}

func TestUserCreate_UniqueViolation(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation})

	_, err := repos.Users.Create(context.Background(), &domain.User{Email: "pm@example.com", Role: domain.RoleDeveloper})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserCreate_DBError(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repos.Users.Create(context.Background(), &domain.User{Email: "a@b.c"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUserFindByEmail_Found(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "created_at", "updated_at"}).
		AddRow("u-1", "dev@example.com", "hash", "", "Developer", ts, ts)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("dev@example.com").
		WillReturnRows(rows)

	got, err := repos.Users.FindByEmail(context.Background(), "dev@example.com")
	if err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Role != domain.RoleDeveloper {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserFindByID_NotFound(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repos.Users.FindByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectCreate_ForeignKeyViolation(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+projects`).
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

	_, err := repos.Projects.Create(context.Background(), &domain.Project{Title: "t", Status: domain.StatusWorking, CreatedBy: "ghost"})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestProjectFindAll_NullableDescription(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "created_by", "created_at", "updated_at"}).
		AddRow("p-1", "Alpha", nil, "Working", "u-1", ts, ts).
		AddRow("p-2", "Beta", "second", "Review", "u-1", ts, ts)
	mock.ExpectQuery(`(?s)FROM\s+projects\s+ORDER\s+BY\s+created_at`).WillReturnRows(rows)

	got, err := repos.Projects.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(got))
	}
	if got[0].Description != nil {
		t.Fatalf("expected nil description, got %q", *got[0].Description)
	}
	if got[1].Description == nil || *got[1].Description != "second" || got[1].Status != domain.StatusReview {
		t.Fatalf("unexpected second project: %+v", got[1])
	}
}

func TestProjectFindAll_Empty(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+projects`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "created_by", "created_at", "updated_at"}))

	got, err := repos.Projects.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestProjectUpdate_NotFound(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+projects\s+SET`).WillReturnError(sql.ErrNoRows)

	_, err := repos.Projects.Update(context.Background(), &domain.Project{ID: "p-1", Title: "x", Status: domain.StatusReady})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPageFindByID_OptionalFields(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "project_id", "title", "screenshot_path", "sort_order", "position_x", "position_y", "created_at", "updated_at"}).
		AddRow("pg-1", "p-1", "Home", "shots/home.png", 2, 10.5, nil, ts, ts)
	mock.ExpectQuery(`FROM\s+pages\s+WHERE\s+id\s*=\s*\$1`).WithArgs("pg-1").WillReturnRows(rows)

	got, err := repos.Pages.FindByID(context.Background(), "pg-1")
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.Title == nil || *got.Title != "Home" || got.Order != 2 {
		t.Fatalf("unexpected page: %+v", got)
	}
	if got.PositionX == nil || *got.PositionX != 10.5 || got.PositionY != nil {
		t.Fatalf("unexpected positions: x=%v y=%v", got.PositionX, got.PositionY)
	}
}

func TestPageCountByProject(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+pages\s+WHERE\s+project_id\s*=\s*\$1`).
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repos.Pages.CountByProject(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("CountByProject error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
}

func TestWorkflowFindByPages_NoIDs(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	got, err := repos.Workflows.FindByPages(context.Background(), nil)
	if err != nil {
		t.Fatalf("FindByPages error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no workflows, got %d", len(got))
	}
	expectDone(t, mock)
}

func TestWorkflowFindByFromPage_NullLabel(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "from_page_id", "to_page_id", "label", "created_at"}).
		AddRow("w-1", "pg-1", "pg-2", nil, ts)
	mock.ExpectQuery(`FROM\s+workflows\s+WHERE\s+from_page_id\s*=\s*\$1`).WithArgs("pg-1").WillReturnRows(rows)

	got, err := repos.Workflows.FindByFromPage(context.Background(), "pg-1")
	if err != nil {
		t.Fatalf("FindByFromPage error: %v", err)
	}
	if len(got) != 1 || got[0].Label != nil || got[0].ToPageID != "pg-2" {
		t.Fatalf("unexpected workflows: %+v", got)
	}
}

func TestAssignmentCreate_Duplicate(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+project_assignments`).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation})

	_, err := repos.Assignments.Create(context.Background(), &domain.ProjectAssignment{ProjectID: "p-1", UserID: "u-1", AssignedAt: ts})
	if !errors.Is(err, domain.ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}
}

func TestDelete_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "deleted",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(`DELETE\s+FROM\s+comments\s+WHERE\s+id\s*=\s*\$1`).
					WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(`DELETE\s+FROM\s+comments`).
					WithArgs("c-1").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "restricted",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(`DELETE\s+FROM\s+comments`).
					WithArgs("c-1").WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})
			},
			wantErr: domain.ErrHasDependents,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repos, mock, db := newMock(t)
			defer db.Close()
			tc.setup(mock)

			err := repos.Comments.Delete(context.Background(), "c-1")
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			expectDone(t, mock)
		})
	}
}

func TestReportFindByProject(t *testing.T) {
	repos, mock, db := newMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "project_id", "generated_at", "file_path"}).
		AddRow("r-1", "p-1", ts, "reports/p-1/a.pdf").
		AddRow("r-2", "p-1", ts.Add(time.Minute), "reports/p-1/b.pdf")
	mock.ExpectQuery(`(?s)FROM\s+pdf_reports\s+WHERE\s+project_id\s*=\s*\$1\s+ORDER\s+BY\s+generated_at`).
		WithArgs("p-1").WillReturnRows(rows)

	got, err := repos.Reports.FindByProject(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("FindByProject error: %v", err)
	}
	if len(got) != 2 || got[1].FilePath != "reports/p-1/b.pdf" {
		t.Fatalf("unexpected reports: %+v", got)
	}
}
