package domain

import "time"

// ProjectStatus represents the maturity of a project. Transitions are set
// explicitly by clients; there is no state machine.
type ProjectStatus string

const (
	StatusWorking ProjectStatus = "Working"
	StatusReview  ProjectStatus = "Review"
	StatusReady   ProjectStatus = "Ready"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusWorking, StatusReview, StatusReady:
		return true
	}
	return false
}

// Project is the aggregate root every other record hangs off.
type Project struct {
	ID          string        `json:"id" bson:"_id"`
	Title       string        `json:"title" bson:"title"`
	Description *string       `json:"description,omitempty" bson:"description,omitempty"`
	Status      ProjectStatus `json:"status" bson:"status"`
	CreatedBy   string        `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updated_at"`

	// Read-side fields, filled by the service and never stored.
	CreatedByName string `json:"createdByName" bson:"-"`
	PagesCount    int64  `json:"pagesCount" bson:"-"`
}

// ProjectPatch lists the mutable fields of a Project. Nil means unchanged.
type ProjectPatch struct {
	Title       *string
	Description *string
	Status      *ProjectStatus
}

// Apply copies the set fields of p onto project.
func (p ProjectPatch) Apply(project *Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Description != nil {
		project.Description = p.Description
	}
	if p.Status != nil {
		project.Status = *p.Status
	}
}

// ProjectAssignment records membership of a user on a project team.
type ProjectAssignment struct {
	ID         string    `json:"id" bson:"_id"`
	ProjectID  string    `json:"projectId" bson:"project_id"`
	UserID     string    `json:"userId" bson:"user_id"`
	AssignedAt time.Time `json:"assignedAt" bson:"assigned_at"`
}
