package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:     "ada@example.edu",
		Username:  "ada",
		Password:  "secret1",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		want   error
	}{
		{"valid", func(*RegisterRequest) {}, nil},
		{"missing email", func(r *RegisterRequest) { r.Email = " " }, ErrEmailRequired},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, ErrEmailInvalid},
		{"short username", func(r *RegisterRequest) { r.Username = "ab" }, ErrUsernameInvalid},
		{"long username", func(r *RegisterRequest) { r.Username = string(make([]byte, 51)) }, ErrUsernameInvalid},
		{"short password", func(r *RegisterRequest) { r.Password = "12345" }, ErrPasswordTooShort},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "" }, ErrFirstNameRequired},
		{"missing last name", func(r *RegisterRequest) { r.LastName = "" }, ErrLastNameRequired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validRegistration()
			tt.mutate(&req)
			if err := req.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		req  LoginRequest
		want error
	}{
		{LoginRequest{Email: "ada@example.edu", Password: "x"}, nil},
		{LoginRequest{Password: "x"}, ErrEmailRequired},
		{LoginRequest{Email: "ada@example.edu"}, ErrPasswordRequired},
	}

	for _, tt := range tests {
		tt := tt
		if err := tt.req.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("Validate(%+v) = %v, want %v", tt.req, err, tt.want)
		}
	}
}

func TestCreateCourseRequest_Validate(t *testing.T) {
	t.Parallel()

	base := CreateCourseRequest{CourseName: "Compilers", CourseCode: "CS 540", Semester: "Fall 2025"}

	tests := []struct {
		name   string
		mutate func(*CreateCourseRequest)
		want   error
	}{
		{"valid", func(*CreateCourseRequest) {}, nil},
		{"explicit status", func(r *CreateCourseRequest) { r.Status = CourseStatusCompleted }, nil},
		{"missing name", func(r *CreateCourseRequest) { r.CourseName = "" }, ErrCourseNameRequired},
		{"missing code", func(r *CreateCourseRequest) { r.CourseCode = "" }, ErrCourseCodeRequired},
		{"missing semester", func(r *CreateCourseRequest) { r.Semester = "" }, ErrSemesterRequired},
		{"negative credits", func(r *CreateCourseRequest) { r.Credits = -1 }, ErrInvalidCredits},
		{"unknown status", func(r *CreateCourseRequest) { r.Status = "paused" }, ErrInvalidCourseState},
	}

	for _, tt := range tests {
		tt := tt
		req := base
		tt.mutate(&req)
		if err := req.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: Validate() = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestCreateAssignmentRequest_Validate(t *testing.T) {
	t.Parallel()

	base := CreateAssignmentRequest{Title: "Essay", DueDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name   string
		mutate func(*CreateAssignmentRequest)
		want   error
	}{
		{"valid", func(*CreateAssignmentRequest) {}, nil},
		{"missing title", func(r *CreateAssignmentRequest) { r.Title = "  " }, ErrTitleRequired},
		{"missing due date", func(r *CreateAssignmentRequest) { r.DueDate = time.Time{} }, ErrDueDateRequired},
		{"bad priority", func(r *CreateAssignmentRequest) { r.Priority = "urgent" }, ErrInvalidPriority},
		{"negative hours", func(r *CreateAssignmentRequest) { r.EstimatedHours = -2 }, ErrInvalidHours},
	}

	for _, tt := range tests {
		tt := tt
		req := base
		tt.mutate(&req)
		if err := req.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: Validate() = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestUpdateAssignmentRequest_Validate(t *testing.T) {
	t.Parallel()

	bad := Priority("urgent")
	status := AssignmentStatus("archived")

	tests := []struct {
		name string
		req  UpdateAssignmentRequest
		want error
	}{
		{"empty", UpdateAssignmentRequest{}, nil},
		{"blank title", UpdateAssignmentRequest{Title: String("")}, ErrTitleRequired},
		{"bad priority", UpdateAssignmentRequest{Priority: &bad}, ErrInvalidPriority},
		{"bad status", UpdateAssignmentRequest{Status: &status}, ErrInvalidStatus},
		{"negative actual hours", UpdateAssignmentRequest{ActualHours: Int(-1)}, ErrInvalidHours},
	}

	for _, tt := range tests {
		tt := tt
		if err := tt.req.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: Validate() = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestPartialUpdates_OnlySetFieldsAreSent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  any
		want string
	}{
		{"empty profile", UpdateProfileRequest{}, `{}`},
		{"profile year", UpdateProfileRequest{Year: Int(3)}, `{"year":3}`},
		{"course grade", UpdateCourseRequest{Grade: String("A")}, `{"grade":"A"}`},
		{"course zero credits", UpdateCourseRequest{Credits: Int(0)}, `{"credits":0}`},
		{"assignment title", UpdateAssignmentRequest{Title: String("Draft")}, `{"title":"Draft"}`},
		{"assignment course", UpdateAssignmentRequest{CourseID: Uint(4)}, `{"course_id":4}`},
		{"assignment detach", UpdateAssignmentRequest{DetachCourse: true}, `{"course_id":null}`},
		{"assignment detach with title", UpdateAssignmentRequest{DetachCourse: true, Title: String("Draft")}, `{"course_id":null,"title":"Draft"}`},
		{"assignment course wins over detach", UpdateAssignmentRequest{CourseID: Uint(4), DetachCourse: true}, `{"course_id":4}`},
	}

	for _, tt := range tests {
		tt := tt
		b, err := json.Marshal(tt.req)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != tt.want {
			t.Errorf("%s: body = %s, want %s", tt.name, b, tt.want)
		}
	}
}

func TestUpdateAssignmentRequest_DecodeCourseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantDetach bool
		wantCourse *uint
	}{
		{"absent", `{"title":"Draft"}`, false, nil},
		{"explicit null", `{"course_id": null}`, true, nil},
		{"value", `{"course_id":7}`, false, Uint(7)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateAssignmentRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatal(err)
			}
			if req.DetachCourse != tt.wantDetach {
				t.Errorf("DetachCourse = %v, want %v", req.DetachCourse, tt.wantDetach)
			}
			if (req.CourseID == nil) != (tt.wantCourse == nil) || (req.CourseID != nil && *req.CourseID != *tt.wantCourse) {
				t.Errorf("CourseID = %v, want %v", req.CourseID, tt.wantCourse)
			}
		})
	}

	var req UpdateAssignmentRequest
	if err := json.Unmarshal([]byte(`{"course_id":"x"}`), &req); err == nil {
		t.Error("expected error for non-numeric course_id")
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	u := User{FirstName: "Ada", LastName: "Lovelace", Year: 1}
	(&UpdateProfileRequest{Year: Int(2), Advisor: String("Babbage")}).Apply(&u)
	if u.Year != 2 || u.Advisor != "Babbage" || u.FirstName != "Ada" {
		t.Errorf("profile apply = %+v", u)
	}

	c := Course{CourseName: "Compilers", Status: CourseStatusEnrolled}
	done := CourseStatusCompleted
	(&UpdateCourseRequest{Status: &done, Grade: String("A")}).Apply(&c)
	if c.Status != CourseStatusCompleted || c.Grade != "A" || c.CourseName != "Compilers" {
		t.Errorf("course apply = %+v", c)
	}

	course := &Course{ID: 1}
	a := Assignment{Title: "Essay", Course: course}
	(&UpdateAssignmentRequest{CourseID: Uint(2), ActualHours: Int(5)}).Apply(&a)
	if *a.CourseID != 2 || a.ActualHours != 5 || a.Title != "Essay" || a.Course != course {
		t.Errorf("assignment apply = %+v", a)
	}

	(&UpdateAssignmentRequest{DetachCourse: true}).Apply(&a)
	if a.CourseID != nil || a.Course != nil || a.Title != "Essay" {
		t.Errorf("detach apply = %+v", a)
	}
}

func TestAssignment_IsOverdue(t *testing.T) {
	t.Parallel()

	due := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status AssignmentStatus
		now    time.Time
		want   bool
	}{
		{"before due", StatusPending, due.Add(-time.Hour), false},
		{"after due pending", StatusPending, due.Add(time.Hour), true},
		{"after due in progress", StatusInProgress, due.Add(time.Hour), true},
		{"after due completed", StatusCompleted, due.Add(time.Hour), false},
	}

	for _, tt := range tests {
		tt := tt
		a := Assignment{DueDate: due, Status: tt.status}
		if got := a.IsOverdue(tt.now); got != tt.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUser_FullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		user User
		want string
	}{
		{User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{User{FirstName: "Ada"}, "Ada"},
		{User{}, ""},
	}
	for _, tt := range tests {
		tt := tt
		if got := tt.user.FullName(); got != tt.want {
			t.Errorf("FullName(%+v) = %q, want %q", tt.user, got, tt.want)
		}
	}
}

func TestEnums(t *testing.T) {
	t.Parallel()

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.IsValid() {
			t.Errorf("%s should be valid", p)
		}
	}
	for _, s := range []AssignmentStatus{StatusPending, StatusInProgress, StatusCompleted} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []CourseStatus{CourseStatusEnrolled, CourseStatusCompleted, CourseStatusDropped} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Priority("").IsValid() || AssignmentStatus("done").IsValid() || CourseStatus("").IsValid() {
		t.Error("unknown values should be invalid")
	}
}
