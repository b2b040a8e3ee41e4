package identity

import (
	"strings"

	"github.com/apex/backoffice/internal/domain/shared"
)

// Role controls what a user may do in the back office
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an operator account. Passwords are stored as bcrypt hashes;
// hashing happens in the application layer so the domain never sees
// plaintext.
type User struct {
	shared.BaseAggregateRoot
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Active       bool   `json:"active"`
}

// NewUser creates a new active user
func NewUser(username, passwordHash, name string, role Role) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role is not valid")
	}
	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      passwordHash,
		Name:              strings.TrimSpace(name),
		Role:              role,
		Active:            true,
	}, nil
}

// ChangePassword replaces the stored hash
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	u.PasswordHash = passwordHash
	return nil
}

// Deactivate blocks the user from logging in
func (u *User) Deactivate() {
	u.Active = false
}
