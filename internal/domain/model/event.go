package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxEventTitleLen = 200

// Event represents a workshop, roda, or batizado on the academy calendar.
type Event struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location"    db:"location"`
	StartsAt    time.Time `json:"starts_at"   db:"starts_at"`
	EndsAt      time.Time `json:"ends_at"     db:"ends_at"`
	Capacity    int       `json:"capacity"    db:"capacity"`
	Published   bool      `json:"published"   db:"published"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// Upcoming reports whether the event starts after the given instant.
func (e Event) Upcoming(now time.Time) bool { return e.StartsAt.After(now) }

// CreateEventRequest represents parameters to create an Event.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity"`
	Published   *bool     `json:"published,omitempty"`
}

// UpdateEventRequest represents parameters to update an Event.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	Published   *bool      `json:"published,omitempty"`
}

// EventsListOptions controls paging and filtering for listing events.
// Sort supports "starts_at" and "created_at"; Dir supports "asc"/"desc".
type EventsListOptions struct {
	Limit         int
	Offset        int
	Q             *string // substring match on title (ILIKE)
	Published     *bool   // exact match
	UpcomingAfter *time.Time
	Sort          string
	Dir           string
}

// Validate validates CreateEventRequest.
func (r *CreateEventRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxEventTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if r.StartsAt.IsZero() {
		return errors.New("starts_at is required")
	}
	if !r.EndsAt.IsZero() && r.EndsAt.Before(r.StartsAt) {
		return errors.New("ends_at cannot be before starts_at")
	}
	if r.Capacity < 0 {
		return errors.New("capacity cannot be negative")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateEventRequest.
func (r *UpdateEventRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.Location != nil ||
		r.StartsAt != nil || r.EndsAt != nil || r.Capacity != nil || r.Published != nil
}

// Validate validates UpdateEventRequest.
func (r *UpdateEventRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			return errors.New("title cannot be empty")
		}
		if utf8.RuneCountInString(title) > maxEventTitleLen {
			return errors.New("title cannot exceed 200 characters")
		}
	}
	if r.Capacity != nil && *r.Capacity < 0 {
		return errors.New("capacity cannot be negative")
	}
	if r.StartsAt != nil && r.EndsAt != nil && r.EndsAt.Before(*r.StartsAt) {
		return errors.New("ends_at cannot be before starts_at")
	}
	return nil
}
