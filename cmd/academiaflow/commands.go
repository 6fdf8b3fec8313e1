package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/anayy09/AcademiaFlow/internal/app"
	"github.com/anayy09/AcademiaFlow/internal/model"
)

// command runs one CLI invocation against a wired App.
type command struct {
	app *app.App
	out io.Writer
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {
	switch name {
	case "register":
		return c.register(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		c.app.SignOut(ctx)
		return printJSON(c.out, model.MessageResponse{Message: "Logged out"})
	case "whoami":
		return c.whoami()
	case "profile":
		return c.profile(ctx, args)
	case "courses":
		return c.courses(ctx, args)
	case "assignments":
		return c.assignments(ctx, args)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, name)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

// setFlags returns the names of flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// splitSub returns the subcommand and remaining args, defaulting to def.
func splitSub(args []string, def string) (string, []string) {
	if len(args) == 0 || (len(args[0]) > 0 && args[0][0] == '-') {
		return def, args
	}
	return args[0], args[1:]
}

// splitID reads a leading numeric ID argument.
func splitID(args []string) (uint, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("%w: missing id", errUsage)
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || id == 0 {
		return 0, nil, fmt.Errorf("%w: invalid id %q", errUsage, args[0])
	}
	return uint(id), args[1:], nil
}

// parseDue accepts RFC 3339, "2006-01-02 15:04" or "2006-01-02" (UTC).
func parseDue(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid due date %q", errUsage, s)
}

// ============================================================================
// Account
// ============================================================================

func (c *command) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	var req model.RegisterRequest
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Username, "username", "", "username")
	fs.StringVar(&req.Password, "password", os.Getenv("ACADEMIAFLOW_PASSWORD"), "password (or ACADEMIAFLOW_PASSWORD)")
	fs.StringVar(&req.FirstName, "first-name", "", "first name")
	fs.StringVar(&req.LastName, "last-name", "", "last name")
	fs.StringVar(&req.Program, "program", "", "degree program, e.g. PhD")
	fs.IntVar(&req.Year, "year", 0, "year in program")
	fs.StringVar(&req.Advisor, "advisor", "", "advisor")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	resp, err := c.app.SignUp(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(c.out, authOutput(resp))
}

func (c *command) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	var req model.LoginRequest
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "password", os.Getenv("ACADEMIAFLOW_PASSWORD"), "password (or ACADEMIAFLOW_PASSWORD)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	resp, err := c.app.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return printJSON(c.out, authOutput(resp))
}

// authOutput hides the token from terminal output.
func authOutput(resp *model.AuthResponse) any {
	return struct {
		Message string     `json:"message"`
		User    model.User `json:"user"`
	}{resp.Message, resp.User}
}

func (c *command) whoami() error {
	st := c.app.Session.Get()
	out := struct {
		Authenticated bool        `json:"authenticated"`
		Name          string      `json:"name,omitempty"`
		User          *model.User `json:"user"`
	}{Authenticated: st.IsAuthenticated, User: st.User}
	if st.User != nil {
		out.Name = st.User.FullName()
	}
	return printJSON(c.out, out)
}

func (c *command) profile(ctx context.Context, args []string) error {
	sub, rest := splitSub(args, "show")
	switch sub {
	case "show":
		user, err := c.app.RefreshProfile(ctx)
		if err != nil {
			return err
		}
		return printJSON(c.out, model.ProfileResponse{User: *user})

	case "update":
		fs := newFlagSet("profile update")
		first := fs.String("first-name", "", "first name")
		last := fs.String("last-name", "", "last name")
		program := fs.String("program", "", "degree program")
		year := fs.Int("year", 0, "year in program")
		advisor := fs.String("advisor", "", "advisor")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}

		set := setFlags(fs)
		var req model.UpdateProfileRequest
		if set["first-name"] {
			req.FirstName = first
		}
		if set["last-name"] {
			req.LastName = last
		}
		if set["program"] {
			req.Program = program
		}
		if set["year"] {
			req.Year = year
		}
		if set["advisor"] {
			req.Advisor = advisor
		}
		if len(set) == 0 {
			return fmt.Errorf("%w: profile update needs at least one field", errUsage)
		}

		resp, err := c.app.UpdateProfile(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)
	}
	return fmt.Errorf("%w: unknown profile command %q", errUsage, sub)
}

// ============================================================================
// Courses
// ============================================================================

func (c *command) courses(ctx context.Context, args []string) error {
	svc := c.app.API
	sub, rest := splitSub(args, "list")

	switch sub {
	case "list":
		resp, err := svc.GetCourses(ctx)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "get":
		id, _, err := splitID(rest)
		if err != nil {
			return err
		}
		resp, err := svc.GetCourse(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "add":
		fs := newFlagSet("courses add")
		var req model.CreateCourseRequest
		var status string
		fs.StringVar(&req.CourseName, "name", "", "course name")
		fs.StringVar(&req.CourseCode, "code", "", "course code")
		fs.StringVar(&req.Instructor, "instructor", "", "instructor")
		fs.IntVar(&req.Credits, "credits", 0, "credits")
		fs.StringVar(&req.Semester, "semester", "", "semester, e.g. Fall 2025")
		fs.StringVar(&status, "status", "", "enrolled|completed|dropped")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		req.Status = model.CourseStatus(status)
		if err := req.Validate(); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		resp, err := svc.CreateCourse(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "update":
		id, rest, err := splitID(rest)
		if err != nil {
			return err
		}
		fs := newFlagSet("courses update")
		name := fs.String("name", "", "course name")
		code := fs.String("code", "", "course code")
		instructor := fs.String("instructor", "", "instructor")
		credits := fs.Int("credits", 0, "credits")
		semester := fs.String("semester", "", "semester")
		grade := fs.String("grade", "", "grade")
		status := fs.String("status", "", "enrolled|completed|dropped")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}

		set := setFlags(fs)
		var req model.UpdateCourseRequest
		if set["name"] {
			req.CourseName = name
		}
		if set["code"] {
			req.CourseCode = code
		}
		if set["instructor"] {
			req.Instructor = instructor
		}
		if set["credits"] {
			req.Credits = credits
		}
		if set["semester"] {
			req.Semester = semester
		}
		if set["grade"] {
			req.Grade = grade
		}
		if set["status"] {
			s := model.CourseStatus(*status)
			req.Status = &s
		}
		if len(set) == 0 {
			return fmt.Errorf("%w: courses update needs at least one field", errUsage)
		}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		resp, err := svc.UpdateCourse(ctx, id, req)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "delete":
		id, _, err := splitID(rest)
		if err != nil {
			return err
		}
		resp, err := svc.DeleteCourse(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)
	}
	return fmt.Errorf("%w: unknown courses command %q", errUsage, sub)
}

// ============================================================================
// Assignments
// ============================================================================

func (c *command) assignments(ctx context.Context, args []string) error {
	svc := c.app.API
	sub, rest := splitSub(args, "list")

	switch sub {
	case "list":
		fs := newFlagSet("assignments list")
		status := fs.String("status", "", "pending|in_progress|completed")
		priority := fs.String("priority", "", "low|medium|high")
		overdue := fs.Bool("overdue", false, "only unfinished assignments past their due date")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		resp, err := svc.GetAssignments(ctx, model.AssignmentFilter{
			Status:   model.AssignmentStatus(*status),
			Priority: model.Priority(*priority),
		})
		if err != nil {
			return err
		}
		if *overdue {
			resp.Assignments = overdueOnly(resp.Assignments, time.Now())
		}
		return printJSON(c.out, resp)

	case "get":
		id, _, err := splitID(rest)
		if err != nil {
			return err
		}
		resp, err := svc.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "add":
		fs := newFlagSet("assignments add")
		var req model.CreateAssignmentRequest
		title := fs.String("title", "", "title")
		description := fs.String("description", "", "description")
		due := fs.String("due", "", "due date (RFC 3339 or YYYY-MM-DD)")
		priority := fs.String("priority", "", "low|medium|high")
		hours := fs.Int("hours", 0, "estimated hours")
		course := fs.Uint("course", 0, "course id")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		req.Title = *title
		req.Description = *description
		req.Priority = model.Priority(*priority)
		req.EstimatedHours = *hours
		if *course != 0 {
			req.CourseID = course
		}
		if *due != "" {
			t, err := parseDue(*due)
			if err != nil {
				return err
			}
			req.DueDate = t
		}
		if err := req.Validate(); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		resp, err := svc.CreateAssignment(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "update":
		id, rest, err := splitID(rest)
		if err != nil {
			return err
		}
		req, err := assignmentUpdate(rest)
		if err != nil {
			return err
		}
		resp, err := svc.UpdateAssignment(ctx, id, req)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "status":
		id, rest, err := splitID(rest)
		if err != nil {
			return err
		}
		if len(rest) != 1 {
			return fmt.Errorf("%w: assignments status <id> <pending|in_progress|completed>", errUsage)
		}
		status := model.AssignmentStatus(rest[0])
		if !status.IsValid() {
			return fmt.Errorf("%w: %v", errUsage, model.ErrInvalidStatus)
		}
		resp, err := svc.UpdateAssignmentStatus(ctx, id, status)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)

	case "delete":
		id, _, err := splitID(rest)
		if err != nil {
			return err
		}
		resp, err := svc.DeleteAssignment(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(c.out, resp)
	}
	return fmt.Errorf("%w: unknown assignments command %q", errUsage, sub)
}

func overdueOnly(in []model.Assignment, now time.Time) []model.Assignment {
	out := make([]model.Assignment, 0, len(in))
	for i := range in {
		if in[i].IsOverdue(now) {
			out = append(out, in[i])
		}
	}
	return out
}

func assignmentUpdate(args []string) (model.UpdateAssignmentRequest, error) {
	fs := newFlagSet("assignments update")
	title := fs.String("title", "", "title")
	description := fs.String("description", "", "description")
	due := fs.String("due", "", "due date")
	priority := fs.String("priority", "", "low|medium|high")
	status := fs.String("status", "", "pending|in_progress|completed")
	hours := fs.Int("hours", 0, "estimated hours")
	actual := fs.Int("actual-hours", 0, "actual hours")
	course := fs.Uint("course", 0, "course id")
	noCourse := fs.Bool("no-course", false, "unlink from its course")

	var req model.UpdateAssignmentRequest
	if err := parseFlags(fs, args); err != nil {
		return req, err
	}

	set := setFlags(fs)
	if len(set) == 0 {
		return req, fmt.Errorf("%w: assignments update needs at least one field", errUsage)
	}
	if set["title"] {
		req.Title = title
	}
	if set["description"] {
		req.Description = description
	}
	if set["due"] {
		t, err := parseDue(*due)
		if err != nil {
			return req, err
		}
		req.DueDate = &t
	}
	if set["priority"] {
		p := model.Priority(*priority)
		req.Priority = &p
	}
	if set["status"] {
		s := model.AssignmentStatus(*status)
		req.Status = &s
	}
	if set["hours"] {
		req.EstimatedHours = hours
	}
	if set["actual-hours"] {
		req.ActualHours = actual
	}
	if set["course"] {
		req.CourseID = course
	}
	if *noCourse {
		if set["course"] {
			return req, fmt.Errorf("%w: --course and --no-course are exclusive", errUsage)
		}
		req.DetachCourse = true
	}
	if err := req.Validate(); err != nil {
		return req, fmt.Errorf("%w: %v", errUsage, err)
	}
	return req, nil
}
