package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

// now truncates to milliseconds so stored timestamps round-trip unchanged
// through every store.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func requireID(field, value string) error {
	if value == "" {
		return domain.NewValidationError(field, "is required")
	}
	if _, err := uuid.Parse(value); err != nil {
		return domain.NewValidationError(field, "must be a valid UUID")
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "must not be empty")
	}
	return nil
}

// asReference turns a not-found parent into ErrInvalidReference so create
// paths report it as bad input rather than a missing resource.
func asReference(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidReference, what)
	}
	return err
}

// userNames memoizes display names for one request.
type userNames struct {
	users ports.UserRepository
	cache map[string]string
}

func newUserNames(users ports.UserRepository) *userNames {
	return &userNames{users: users, cache: make(map[string]string)}
}

// lookup returns the user's display name, or "" if the user is gone.
func (n *userNames) lookup(ctx context.Context, id string) (string, error) {
	if name, ok := n.cache[id]; ok {
		return name, nil
	}
	u, err := n.users.FindByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		n.cache[id] = ""
		return "", nil
	case err != nil:
		return "", err
	}
	n.cache[id] = u.Name
	return u.Name, nil
}
