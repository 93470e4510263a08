package domain

// Kind names the entity family an action targets.
type Kind string

const (
	KindUser       Kind = "user"
	KindProject    Kind = "project"
	KindPage       Kind = "page"
	KindWorkflow   Kind = "workflow"
	KindComment    Kind = "comment"
	KindAssignment Kind = "assignment"
	KindReport     Kind = "report"
)

// Operation is what the caller wants to do with the target.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpList   Operation = "list"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Action describes a guarded operation. ProjectID is the project owning the
// target (empty for top-level operations); SubjectUserID is set when the
// action is scoped to a specific user.
type Action struct {
	Kind          Kind
	Op            Operation
	ProjectID     string
	SubjectUserID string
}
