package mockapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anayy09/AcademiaFlow/internal/auth"
	"github.com/anayy09/AcademiaFlow/internal/model"
)

var fixedNow = time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, model.User) {
	t.Helper()
	s := NewStore(func() time.Time { return fixedNow })
	u, err := s.CreateUser(model.RegisterRequest{Email: "ada@example.edu", Username: "ada"}, "hash")
	if err != nil {
		t.Fatal(err)
	}
	return s, u
}

func TestStore_CreateUserUnique(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	tests := []struct {
		name string
		req  model.RegisterRequest
		want error
	}{
		{"same email other case", model.RegisterRequest{Email: "ADA@example.edu", Username: "other"}, ErrUserExists},
		{"same username", model.RegisterRequest{Email: "x@example.edu", Username: "Ada"}, ErrUserExists},
		{"distinct", model.RegisterRequest{Email: "grace@example.edu", Username: "grace"}, nil},
	}

	for _, tt := range tests {
		_, err := s.CreateUser(tt.req, "hash")
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestStore_ResolveToken(t *testing.T) {
	t.Parallel()

	s, u := newTestStore(t)
	tok, err := auth.NewToken(fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	s.AddSession(u.ID, tok)

	if id, ok := s.ResolveToken(context.Background(), tok.Plaintext); !ok || id != u.ID {
		t.Errorf("ResolveToken = %d, %v; want %d, true", id, ok, u.ID)
	}
	if _, ok := s.ResolveToken(context.Background(), "garbage"); ok {
		t.Error("malformed token should not resolve")
	}

	s.RevokeSessions(u.ID)
	if _, ok := s.ResolveToken(context.Background(), tok.Plaintext); ok {
		t.Error("revoked token should not resolve")
	}
}

func TestStore_CourseDefaultsAndOwnership(t *testing.T) {
	t.Parallel()

	s, u := newTestStore(t)
	other, _ := s.CreateUser(model.RegisterRequest{Email: "eve@example.edu", Username: "eve"}, "hash")

	c := s.CreateCourse(u.ID, model.CreateCourseRequest{CourseName: "Compilers", CourseCode: "CS 540", Semester: "Fall 2025"})
	if c.Status != model.CourseStatusEnrolled {
		t.Errorf("status = %q, want enrolled", c.Status)
	}
	if !c.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v", c.CreatedAt)
	}

	if _, err := s.Course(other.ID, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's lookup err = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateCourse(other.ID, c.ID, model.UpdateCourseRequest{Grade: model.String("A")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's update err = %v, want ErrNotFound", err)
	}
	s.DeleteCourse(other.ID, c.ID)
	if len(s.Courses(u.ID)) != 1 {
		t.Error("other user must not delete the course")
	}
	if len(s.Courses(other.ID)) != 0 {
		t.Error("other user should see no courses")
	}
}

func TestStore_AssignmentDefaults(t *testing.T) {
	t.Parallel()

	s, u := newTestStore(t)
	a, err := s.CreateAssignment(u.ID, model.CreateAssignmentRequest{Title: "Essay", DueDate: fixedNow.Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if a.Priority != model.PriorityMedium || a.Status != model.StatusPending {
		t.Errorf("defaults = %q/%q, want medium/pending", a.Priority, a.Status)
	}
	if a.CourseID != nil || a.Course != nil {
		t.Error("assignment without course should have no course")
	}
}

func TestStore_AssignmentsOrderAndFilter(t *testing.T) {
	t.Parallel()

	s, u := newTestStore(t)
	mk := func(title string, days int, p model.Priority) model.Assignment {
		a, err := s.CreateAssignment(u.ID, model.CreateAssignmentRequest{
			Title:    title,
			DueDate:  fixedNow.Add(time.Duration(days) * 24 * time.Hour),
			Priority: p,
		})
		if err != nil {
			t.Fatal(err)
		}
		return a
	}
	late := mk("late", 9, model.PriorityLow)
	mk("soon", 1, model.PriorityHigh)
	mk("mid", 5, model.PriorityHigh)

	if _, err := s.SetAssignmentStatus(u.ID, late.ID, model.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter model.AssignmentFilter
		want   []string
	}{
		{"all by due date", model.AssignmentFilter{}, []string{"soon", "mid", "late"}},
		{"high priority", model.AssignmentFilter{Priority: model.PriorityHigh}, []string{"soon", "mid"}},
		{"completed", model.AssignmentFilter{Status: model.StatusCompleted}, []string{"late"}},
		{"both", model.AssignmentFilter{Status: model.StatusPending, Priority: model.PriorityLow}, nil},
	}

	for _, tt := range tests {
		got := s.Assignments(u.ID, tt.filter)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %d assignments, want %d", tt.name, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Title != tt.want[i] {
				t.Errorf("%s: [%d] = %s, want %s", tt.name, i, got[i].Title, tt.want[i])
			}
		}
	}
}

func TestStore_AssignmentCourseLink(t *testing.T) {
	t.Parallel()

	s, u := newTestStore(t)
	c := s.CreateCourse(u.ID, model.CreateCourseRequest{CourseName: "Databases", CourseCode: "CS 564", Semester: "Fall 2025"})

	if _, err := s.CreateAssignment(u.ID, model.CreateAssignmentRequest{Title: "x", DueDate: fixedNow, CourseID: model.Uint(999)}); !errors.Is(err, ErrUnknownCourse) {
		t.Errorf("unknown course err = %v, want ErrUnknownCourse", err)
	}

	a, err := s.CreateAssignment(u.ID, model.CreateAssignmentRequest{Title: "Project", DueDate: fixedNow, CourseID: model.Uint(c.ID)})
	if err != nil {
		t.Fatal(err)
	}
	if a.Course == nil || a.Course.CourseCode != "CS 564" {
		t.Fatalf("course not attached: %+v", a.Course)
	}

	detached, err := s.UpdateAssignment(u.ID, a.ID, model.UpdateAssignmentRequest{DetachCourse: true})
	if err != nil {
		t.Fatal(err)
	}
	if detached.CourseID != nil || detached.Course != nil {
		t.Errorf("detach left course %v / %+v", detached.CourseID, detached.Course)
	}

	if _, err := s.UpdateAssignment(u.ID, a.ID, model.UpdateAssignmentRequest{CourseID: model.Uint(c.ID)}); err != nil {
		t.Fatal(err)
	}

	s.DeleteCourse(u.ID, c.ID)

	got, err := s.Assignment(u.ID, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CourseID != nil || got.Course != nil {
		t.Error("deleting a course should detach its assignments")
	}
}
