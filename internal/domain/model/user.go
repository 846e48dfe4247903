//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/rodaworks/academy/internal/domain/auth"
)

const (
	maxUserNameLen = 120
	maxEmailLen    = 254
	minPasswordLen = 8
)

// User represents a member or staff account.
// PasswordHash is never exposed in API responses.
type User struct {
	ID           string          `json:"id"              db:"id"`
	Name         string          `json:"name"            db:"name"`
	Email        string          `json:"email"           db:"email"`
	Phone        *string         `json:"phone,omitempty" db:"phone"`
	Role         domainauth.Role `json:"role"            db:"role"`
	PasswordHash string          `json:"-"               db:"password_hash"`
	Active       bool            `json:"active"          db:"active"`
	CreatedAt    time.Time       `json:"created_at"      db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"      db:"updated_at"`
}

// CreateUserRequest represents parameters to create a User.
// Password is the plaintext credential; hashing happens in the service layer.
type CreateUserRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    *string         `json:"phone,omitempty"`
	Role     domainauth.Role `json:"role,omitempty"`
	Password string          `json:"password"`
}

// UpdateUserRequest represents parameters to update a User.
type UpdateUserRequest struct {
	Name   *string          `json:"name,omitempty"`
	Phone  *string          `json:"phone,omitempty"`
	Role   *domainauth.Role `json:"role,omitempty"`
	Active *bool            `json:"active,omitempty"`
}

// UsersListOptions controls paging and filtering for listing users.
// Sort supports "created_at" and "name"; Dir supports "asc"/"desc".
type UsersListOptions struct {
	Limit  int
	Offset int
	Q      *string          // substring match on name or email (ILIKE)
	Role   *domainauth.Role // exact match
	Active *bool            // exact match
	Sort   string
	Dir    string
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxUserNameLen {
		return errors.New("name cannot exceed 120 characters")
	}
	email := NormalizeEmail(r.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > maxEmailLen || !strings.Contains(email, "@") {
		return errors.New("email is not valid")
	}
	if len(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if r.Role == "" {
		r.Role = domainauth.RoleStudent
	}
	if !r.Role.Valid() || r.Role == domainauth.RoleGuest {
		return errors.New("invalid role")
	}
	r.Email = email
	return nil
}

// HasUpdates reports whether any field is set in UpdateUserRequest.
func (r *UpdateUserRequest) HasUpdates() bool {
	return r.Name != nil || r.Phone != nil || r.Role != nil || r.Active != nil
}

// Validate validates UpdateUserRequest, ensuring at least one field is set and values are sane.
func (r *UpdateUserRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxUserNameLen {
			return errors.New("name cannot exceed 120 characters")
		}
	}
	if r.Role != nil {
		role, ok := domainauth.ParseRole(string(*r.Role))
		if !ok || role == domainauth.RoleGuest {
			return errors.New("invalid role")
		}
		*r.Role = role
	}
	return nil
}
