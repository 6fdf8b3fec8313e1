package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Priority ranks an assignment.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks if the priority is known.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// AssignmentStatus is the progress state of an assignment.
type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "pending"
	StatusInProgress AssignmentStatus = "in_progress"
	StatusCompleted  AssignmentStatus = "completed"
)

// IsValid checks if the status is known.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Validation errors for assignment requests.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrDueDateRequired = errors.New("due date is required")
	ErrInvalidPriority = errors.New("priority must be one of low, medium, high")
	ErrInvalidStatus   = errors.New("status must be one of pending, in_progress, completed")
	ErrInvalidHours    = errors.New("hours must not be negative")
)

// Assignment is a unit of work, optionally attached to a course.
type Assignment struct {
	ID             uint             `json:"id"`
	UserID         uint             `json:"user_id"`
	CourseID       *uint            `json:"course_id"`
	Course         *Course          `json:"course,omitempty"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	DueDate        time.Time        `json:"due_date"`
	Priority       Priority         `json:"priority"`
	Status         AssignmentStatus `json:"status"`
	EstimatedHours int              `json:"estimated_hours"`
	ActualHours    int              `json:"actual_hours"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// IsOverdue reports whether the assignment is unfinished past its due date.
func (a *Assignment) IsOverdue(now time.Time) bool {
	return a.Status != StatusCompleted && now.After(a.DueDate)
}

// CreateAssignmentRequest is the body of POST /assignments.
// An empty Priority is defaulted to medium by the backend.
type CreateAssignmentRequest struct {
	CourseID       *uint     `json:"course_id,omitempty"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DueDate        time.Time `json:"due_date"`
	Priority       Priority  `json:"priority,omitempty"`
	EstimatedHours int       `json:"estimated_hours"`
}

// Validate checks the required assignment fields.
func (r *CreateAssignmentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	if r.DueDate.IsZero() {
		return ErrDueDateRequired
	}
	if r.Priority != "" && !r.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if r.EstimatedHours < 0 {
		return ErrInvalidHours
	}
	return nil
}

// UpdateAssignmentRequest is a partial Assignment for PUT /assignments/{id}.
// DetachCourse sends "course_id": null, unlinking the assignment from its
// course; it is ignored when CourseID is set.
type UpdateAssignmentRequest struct {
	CourseID       *uint             `json:"course_id,omitempty"`
	DetachCourse   bool              `json:"-"`
	Title          *string           `json:"title,omitempty"`
	Description    *string           `json:"description,omitempty"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	Priority       *Priority         `json:"priority,omitempty"`
	Status         *AssignmentStatus `json:"status,omitempty"`
	EstimatedHours *int              `json:"estimated_hours,omitempty"`
	ActualHours    *int              `json:"actual_hours,omitempty"`
}

// MarshalJSON writes an explicit null course_id when detaching.
func (r UpdateAssignmentRequest) MarshalJSON() ([]byte, error) {
	type plain UpdateAssignmentRequest
	if !r.DetachCourse || r.CourseID != nil {
		return json.Marshal(plain(r))
	}
	return json.Marshal(struct {
		CourseID *uint `json:"course_id"`
		plain
	}{plain: plain(r)})
}

// UnmarshalJSON sets DetachCourse when course_id is an explicit null.
func (r *UpdateAssignmentRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateAssignmentRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = UpdateAssignmentRequest(p)
	if raw, ok := fields["course_id"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		r.DetachCourse = true
	}
	return nil
}

// Validate rejects values that can never be stored.
func (r *UpdateAssignmentRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return ErrTitleRequired
	}
	if r.Priority != nil && !r.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if r.Status != nil && !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	if (r.EstimatedHours != nil && *r.EstimatedHours < 0) || (r.ActualHours != nil && *r.ActualHours < 0) {
		return ErrInvalidHours
	}
	return nil
}

// Apply copies the set fields onto a. The embedded Course is only cleared
// when detaching.
func (r *UpdateAssignmentRequest) Apply(a *Assignment) {
	switch {
	case r.CourseID != nil:
		id := *r.CourseID
		a.CourseID = &id
	case r.DetachCourse:
		a.CourseID = nil
		a.Course = nil
	}
	if r.Title != nil {
		a.Title = *r.Title
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
	if r.DueDate != nil {
		a.DueDate = *r.DueDate
	}
	if r.Priority != nil {
		a.Priority = *r.Priority
	}
	if r.Status != nil {
		a.Status = *r.Status
	}
	if r.EstimatedHours != nil {
		a.EstimatedHours = *r.EstimatedHours
	}
	if r.ActualHours != nil {
		a.ActualHours = *r.ActualHours
	}
}

// UpdateStatusRequest is the body of PATCH /assignments/{id}/status.
type UpdateStatusRequest struct {
	Status AssignmentStatus `json:"status"`
}

// AssignmentFilter narrows GET /assignments. Empty fields are not sent.
type AssignmentFilter struct {
	Status   AssignmentStatus
	Priority Priority
}

// AssignmentsResponse is returned by GET /assignments.
type AssignmentsResponse struct {
	Assignments []Assignment `json:"assignments"`
}

// AssignmentResponse is returned by single-assignment endpoints.
type AssignmentResponse struct {
	Assignment Assignment `json:"assignment"`
	Message    string     `json:"message,omitempty"`
}
