package model

import (
	"errors"
	"strings"
	"time"
)

// CourseStatus is the enrollment state of a course.
type CourseStatus string

const (
	CourseStatusEnrolled  CourseStatus = "enrolled"
	CourseStatusCompleted CourseStatus = "completed"
	CourseStatusDropped   CourseStatus = "dropped"
)

// IsValid checks if the course status is known.
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusEnrolled, CourseStatusCompleted, CourseStatusDropped:
		return true
	}
	return false
}

// Validation errors for course requests.
var (
	ErrCourseNameRequired = errors.New("course name is required")
	ErrCourseCodeRequired = errors.New("course code is required")
	ErrSemesterRequired   = errors.New("semester is required")
	ErrInvalidCourseState = errors.New("course status must be one of enrolled, completed, dropped")
	ErrInvalidCredits     = errors.New("credits must not be negative")
)

// Course is a course the user is tracking.
type Course struct {
	ID         uint         `json:"id"`
	UserID     uint         `json:"user_id"`
	CourseName string       `json:"course_name"`
	CourseCode string       `json:"course_code"`
	Instructor string       `json:"instructor"`
	Credits    int          `json:"credits"`
	Semester   string       `json:"semester"` // Fall 2024, Spring 2025, etc.
	Grade      string       `json:"grade"`
	Status     CourseStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// CreateCourseRequest is the body of POST /courses.
// An empty Status is defaulted to enrolled by the backend.
type CreateCourseRequest struct {
	CourseName string       `json:"course_name"`
	CourseCode string       `json:"course_code"`
	Instructor string       `json:"instructor"`
	Credits    int          `json:"credits"`
	Semester   string       `json:"semester"`
	Status     CourseStatus `json:"status,omitempty"`
}

// Validate checks the required course fields.
func (r *CreateCourseRequest) Validate() error {
	if strings.TrimSpace(r.CourseName) == "" {
		return ErrCourseNameRequired
	}
	if strings.TrimSpace(r.CourseCode) == "" {
		return ErrCourseCodeRequired
	}
	if strings.TrimSpace(r.Semester) == "" {
		return ErrSemesterRequired
	}
	if r.Credits < 0 {
		return ErrInvalidCredits
	}
	if r.Status != "" && !r.Status.IsValid() {
		return ErrInvalidCourseState
	}
	return nil
}

// UpdateCourseRequest is a partial Course for PUT /courses/{id}.
type UpdateCourseRequest struct {
	CourseName *string       `json:"course_name,omitempty"`
	CourseCode *string       `json:"course_code,omitempty"`
	Instructor *string       `json:"instructor,omitempty"`
	Credits    *int          `json:"credits,omitempty"`
	Semester   *string       `json:"semester,omitempty"`
	Grade      *string       `json:"grade,omitempty"`
	Status     *CourseStatus `json:"status,omitempty"`
}

// Validate rejects values that can never be stored.
func (r *UpdateCourseRequest) Validate() error {
	if r.Credits != nil && *r.Credits < 0 {
		return ErrInvalidCredits
	}
	if r.Status != nil && !r.Status.IsValid() {
		return ErrInvalidCourseState
	}
	return nil
}

// Apply copies the set fields onto c.
func (r *UpdateCourseRequest) Apply(c *Course) {
	if r.CourseName != nil {
		c.CourseName = *r.CourseName
	}
	if r.CourseCode != nil {
		c.CourseCode = *r.CourseCode
	}
	if r.Instructor != nil {
		c.Instructor = *r.Instructor
	}
	if r.Credits != nil {
		c.Credits = *r.Credits
	}
	if r.Semester != nil {
		c.Semester = *r.Semester
	}
	if r.Grade != nil {
		c.Grade = *r.Grade
	}
	if r.Status != nil {
		c.Status = *r.Status
	}
}

// CoursesResponse is returned by GET /courses.
type CoursesResponse struct {
	Courses []Course `json:"courses"`
}

// CourseResponse is returned by single-course endpoints.
type CourseResponse struct {
	Course  Course `json:"course"`
	Message string `json:"message,omitempty"`
}
