// Package memory keeps every entity in process memory. It backs the
// STORE_DRIVER=memory mode used for local runs and end-to-end tests; data is
// lost on restart.
package memory

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

var errDuplicateID = errors.New("memory: duplicate id")

// Repositories bundles one repository per entity.
type Repositories struct {
	Users       *UserRepository
	Projects    *ProjectRepository
	Pages       *PageRepository
	Workflows   *WorkflowRepository
	Comments    *CommentRepository
	Assignments *AssignmentRepository
	Reports     *ReportRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Users:       &UserRepository{rows: newTable(func(u *domain.User) *string { return &u.ID }, nil)},
		Projects:    &ProjectRepository{rows: newTable(func(p *domain.Project) *string { return &p.ID }, detachProject)},
		Pages:       &PageRepository{rows: newTable(func(p *domain.Page) *string { return &p.ID }, detachPage)},
		Workflows:   &WorkflowRepository{rows: newTable(func(w *domain.Workflow) *string { return &w.ID }, detachWorkflow)},
		Comments:    &CommentRepository{rows: newTable(func(c *domain.Comment) *string { return &c.ID }, nil)},
		Assignments: &AssignmentRepository{rows: newTable(func(a *domain.ProjectAssignment) *string { return &a.ID }, nil)},
		Reports:     &ReportRepository{rows: newTable(func(r *domain.PDFReport) *string { return &r.ID }, nil)},
	}
}

// table is an insertion-ordered map of rows. Rows are copied on the way in
// and out so callers never share memory with the store; detach reallocates
// the pointer fields of a copy and may be nil for types without any.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[string]*T
	order  []string
	id     func(*T) *string
	detach func(*T)
}

func newTable[T any](id func(*T) *string, detach func(*T)) *table[T] {
	return &table[T]{rows: make(map[string]*T), id: id, detach: detach}
}

// copyOf returns a deep copy of v.
func (t *table[T]) copyOf(v *T) *T {
	out := *v
	if t.detach != nil {
		t.detach(&out)
	}
	return &out
}

// insert stores a copy of v, assigning an ID when empty. When conflicts
// reports true for an existing row, nothing is stored and dup is returned.
func (t *table[T]) insert(v *T, conflicts func(existing *T) bool, dup error) (*T, error) {
	row := t.copyOf(v)
	if id := t.id(row); *id == "" {
		*id = newID()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if conflicts != nil {
		for _, existing := range t.rows {
			if conflicts(existing) {
				return nil, dup
			}
		}
	}
	id := *t.id(row)
	if _, ok := t.rows[id]; ok {
		return nil, errDuplicateID
	}
	t.rows[id] = row
	t.order = append(t.order, id)

	return t.copyOf(row), nil
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t.copyOf(row), nil
}

// find returns the first row matching in insertion order.
func (t *table[T]) find(match func(*T) bool) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			return t.copyOf(row), nil
		}
	}
	return nil, domain.ErrNotFound
}

// filter returns copies of the matching rows in insertion order, never nil.
func (t *table[T]) filter(match func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*T, 0)
	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			out = append(out, t.copyOf(row))
		}
	}
	return out
}

func (t *table[T]) count(match func(*T) bool) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var n int64
	for _, row := range t.rows {
		if match(row) {
			n++
		}
	}
	return n
}

func (t *table[T]) replace(v *T) (*T, error) {
	row := t.copyOf(v)
	id := *t.id(row)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return nil, domain.ErrNotFound
	}
	t.rows[id] = row

	return t.copyOf(row), nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func all[T any](*T) bool { return true }

func clonePtr[V any](p *V) *V {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func detachProject(p *domain.Project) {
	p.Description = clonePtr(p.Description)
}

func detachPage(p *domain.Page) {
	p.Title = clonePtr(p.Title)
	p.PositionX = clonePtr(p.PositionX)
	p.PositionY = clonePtr(p.PositionY)
}

func detachWorkflow(w *domain.Workflow) {
	w.Label = clonePtr(w.Label)
}

// newID returns a UUIDv7. Its time-ordered prefix makes id a stable
// tie-break for rows created in the same millisecond.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
