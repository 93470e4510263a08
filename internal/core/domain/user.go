package domain

import "time"

// Role is the functional role a user registers with.
type Role string

const (
	RoleProjectManager Role = "ProjectManager"
	RoleDeveloper      Role = "Developer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleProjectManager || r == RoleDeveloper
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name,omitempty" bson:"name,omitempty"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// Caller is the identity recovered from a verified bearer token.
type Caller struct {
	UserID string
	Role   Role
}
