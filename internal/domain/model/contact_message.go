package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxContactNameLen = 120
	maxContactBodyLen = 5000
)

// ContactMessage represents a submission from the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Subject   string    `json:"subject"    db:"subject"`
	Body      string    `json:"body"       db:"body"`
	Read      bool      `json:"read"       db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateContactMessageRequest represents a contact form submission.
type CreateContactMessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ContactListOptions controls paging and filtering for the admin inbox.
type ContactListOptions struct {
	Limit  int
	Offset int
	Unread *bool // when true, only unread messages
	Sort   string
	Dir    string
}

// Validate validates CreateContactMessageRequest.
func (r *CreateContactMessageRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxContactNameLen {
		return errors.New("name cannot exceed 120 characters")
	}
	email := NormalizeEmail(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("email is not valid")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("message body is required")
	}
	if utf8.RuneCountInString(r.Body) > maxContactBodyLen {
		return errors.New("message body cannot exceed 5000 characters")
	}
	r.Email = email
	return nil
}
