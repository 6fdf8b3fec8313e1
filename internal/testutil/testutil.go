// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/anayy09/AcademiaFlow/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// DiscardLogger returns a logger whose output is dropped.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// BufferLogger returns a JSON logger writing to buf at debug level.
func BufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestRegistration returns a valid registration with a unique email and
// username.
func NewTestRegistration(t testing.TB, prefix string) model.RegisterRequest {
	t.Helper()
	suffix := time.Now().UnixNano()
	return model.RegisterRequest{
		Email:     fmt.Sprintf("%s-%d@example.edu", prefix, suffix),
		Username:  fmt.Sprintf("%s%d", prefix, suffix),
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Program:   "PhD",
		Year:      2,
		Advisor:   "Babbage",
	}
}

// NewTestCourse returns a valid course request.
func NewTestCourse(t testing.TB, code string) model.CreateCourseRequest {
	t.Helper()
	return model.CreateCourseRequest{
		CourseName: "Course " + code,
		CourseCode: code,
		Instructor: "Dr. Hopper",
		Credits:    3,
		Semester:   "Fall 2025",
	}
}

// NewTestAssignment returns a valid assignment request due after the given
// number of days.
func NewTestAssignment(t testing.TB, title string, dueInDays int) model.CreateAssignmentRequest {
	t.Helper()
	return model.CreateAssignmentRequest{
		Title:          title,
		Description:    "Test assignment " + title,
		DueDate:        time.Now().UTC().Add(time.Duration(dueInDays) * 24 * time.Hour).Truncate(time.Second),
		EstimatedHours: 4,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
