package mockapi

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anayy09/AcademiaFlow/internal/auth"
	"github.com/anayy09/AcademiaFlow/internal/model"
)

// Store errors.
var (
	ErrUserExists    = errors.New("user with this email or username already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotFound      = errors.New("not found")
	ErrUnknownCourse = errors.New("course does not exist")
)

type account struct {
	user         model.User
	passwordHash string
}

type session struct {
	userID   uint
	tokenID  string
	issuedAt time.Time
}

// Store is the in-memory backing data of the mock backend. Every record is
// owned by a user; lookups for another user's records report ErrNotFound.
type Store struct {
	mu sync.RWMutex

	accounts    map[uint]*account
	byEmail     map[string]uint
	byUsername  map[string]uint
	sessions    map[string]session // token hash -> session
	courses     map[uint]model.Course
	assignments map[uint]model.Assignment

	nextUserID       uint
	nextCourseID     uint
	nextAssignmentID uint

	now func() time.Time
}

// NewStore returns an empty Store. now may be nil.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		accounts:    make(map[uint]*account),
		byEmail:     make(map[string]uint),
		byUsername:  make(map[string]uint),
		sessions:    make(map[string]session),
		courses:     make(map[uint]model.Course),
		assignments: make(map[uint]model.Assignment),
		now:         func() time.Time { return now().UTC() },
	}
}

// ============================================================================
// Users & Sessions
// ============================================================================

// CreateUser stores a new account. Email and username are unique, ignoring case.
func (s *Store) CreateUser(req model.RegisterRequest, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(req.Email)
	username := strings.ToLower(req.Username)
	if _, ok := s.byEmail[email]; ok {
		return model.User{}, ErrUserExists
	}
	if _, ok := s.byUsername[username]; ok {
		return model.User{}, ErrUserExists
	}

	s.nextUserID++
	u := model.User{
		ID:        s.nextUserID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Program:   req.Program,
		Year:      req.Year,
		Advisor:   req.Advisor,
	}
	s.accounts[u.ID] = &account{user: u, passwordHash: passwordHash}
	s.byEmail[email] = u.ID
	s.byUsername[username] = u.ID
	return u, nil
}

// Credentials returns the user and password hash for an email.
func (s *Store) Credentials(email string) (model.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, "", ErrUserNotFound
	}
	acc := s.accounts[id]
	return acc.user, acc.passwordHash, nil
}

// User returns a user by ID.
func (s *Store) User(id uint) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return acc.user, nil
}

// UpdateUser applies a partial profile update.
func (s *Store) UpdateUser(id uint, req model.UpdateProfileRequest) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	req.Apply(&acc.user)
	return acc.user, nil
}

// AddSession records an issued token for a user.
func (s *Store) AddSession(userID uint, tok *auth.IssuedToken) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[tok.Hash] = session{userID: userID, tokenID: tok.ID, issuedAt: tok.IssuedAt}
}

// RevokeSessions drops every token issued to a user and returns how many
// were dropped.
func (s *Store) RevokeSessions(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for hash, sess := range s.sessions {
		if sess.userID == userID {
			delete(s.sessions, hash)
			n++
		}
	}
	return n
}

// ResolveToken implements middleware.TokenResolver.
func (s *Store) ResolveToken(_ context.Context, token string) (uint, bool) {
	if _, err := auth.ParseTokenID(token); err != nil {
		return 0, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[auth.HashToken(token)]
	if !ok {
		return 0, false
	}
	if _, ok := s.accounts[sess.userID]; !ok {
		return 0, false
	}
	return sess.userID, true
}

// ============================================================================
// Courses
// ============================================================================

// Courses lists a user's courses in creation order.
func (s *Store) Courses(userID uint) []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Course, 0)
	for _, c := range s.courses {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Course returns one of a user's courses.
func (s *Store) Course(userID, id uint) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.courseLocked(userID, id)
}

func (s *Store) courseLocked(userID, id uint) (model.Course, error) {
	c, ok := s.courses[id]
	if !ok || c.UserID != userID {
		return model.Course{}, ErrNotFound
	}
	return c, nil
}

// CreateCourse stores a course, defaulting Status to enrolled.
func (s *Store) CreateCourse(userID uint, req model.CreateCourseRequest) model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := req.Status
	if status == "" {
		status = model.CourseStatusEnrolled
	}

	now := s.now()
	s.nextCourseID++
	c := model.Course{
		ID:         s.nextCourseID,
		UserID:     userID,
		CourseName: req.CourseName,
		CourseCode: req.CourseCode,
		Instructor: req.Instructor,
		Credits:    req.Credits,
		Semester:   req.Semester,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.courses[c.ID] = c
	return c
}

// UpdateCourse applies a partial update to one of a user's courses.
func (s *Store) UpdateCourse(userID, id uint, req model.UpdateCourseRequest) (model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.courseLocked(userID, id)
	if err != nil {
		return model.Course{}, err
	}
	req.Apply(&c)
	c.UpdatedAt = s.now()
	s.courses[id] = c
	return c, nil
}

// DeleteCourse removes a course. Assignments that referenced it are kept
// and detached. Deleting a missing course is not an error.
func (s *Store) DeleteCourse(userID, id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.courseLocked(userID, id); err != nil {
		return
	}
	delete(s.courses, id)

	for aid, a := range s.assignments {
		if a.CourseID != nil && *a.CourseID == id {
			a.CourseID = nil
			s.assignments[aid] = a
		}
	}
}

// ============================================================================
// Assignments
// ============================================================================

// Assignments lists a user's assignments ordered by due date, narrowed by
// the non-empty filter fields.
func (s *Store) Assignments(userID uint, f model.AssignmentFilter) []model.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Assignment, 0)
	for _, a := range s.assignments {
		if a.UserID != userID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Priority != "" && a.Priority != f.Priority {
			continue
		}
		out = append(out, s.withCourseLocked(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

// Assignment returns one of a user's assignments with its course attached.
func (s *Store) Assignment(userID, id uint) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, err := s.assignmentLocked(userID, id)
	if err != nil {
		return model.Assignment{}, err
	}
	return s.withCourseLocked(a), nil
}

func (s *Store) assignmentLocked(userID, id uint) (model.Assignment, error) {
	a, ok := s.assignments[id]
	if !ok || a.UserID != userID {
		return model.Assignment{}, ErrNotFound
	}
	return a, nil
}

// withCourseLocked attaches a copy of the referenced course.
func (s *Store) withCourseLocked(a model.Assignment) model.Assignment {
	a.Course = nil
	if a.CourseID != nil {
		if c, ok := s.courses[*a.CourseID]; ok {
			a.Course = &c
		}
	}
	return a
}

// CreateAssignment stores an assignment with priority defaulting to medium
// and status pending. A course reference must name one of the user's courses.
func (s *Store) CreateAssignment(userID uint, req model.CreateAssignmentRequest) (model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.CourseID != nil {
		if _, err := s.courseLocked(userID, *req.CourseID); err != nil {
			return model.Assignment{}, ErrUnknownCourse
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := s.now()
	s.nextAssignmentID++
	a := model.Assignment{
		ID:             s.nextAssignmentID,
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate.UTC(),
		Priority:       priority,
		Status:         model.StatusPending,
		EstimatedHours: req.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.CourseID != nil {
		id := *req.CourseID
		a.CourseID = &id
	}
	s.assignments[a.ID] = a
	return s.withCourseLocked(a), nil
}

// UpdateAssignment applies a partial update to one of a user's assignments.
func (s *Store) UpdateAssignment(userID, id uint, req model.UpdateAssignmentRequest) (model.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.assignmentLocked(userID, id)
	if err != nil {
		return model.Assignment{}, err
	}
	if req.CourseID != nil {
		if _, err := s.courseLocked(userID, *req.CourseID); err != nil {
			return model.Assignment{}, ErrUnknownCourse
		}
	}

	req.Apply(&a)
	a.DueDate = a.DueDate.UTC()
	a.UpdatedAt = s.now()
	s.assignments[id] = a
	return s.withCourseLocked(a), nil
}

// SetAssignmentStatus changes only the status of an assignment.
func (s *Store) SetAssignmentStatus(userID, id uint, status model.AssignmentStatus) (model.Assignment, error) {
	return s.UpdateAssignment(userID, id, model.UpdateAssignmentRequest{Status: &status})
}

// DeleteAssignment removes an assignment. Deleting a missing assignment is
// not an error.
func (s *Store) DeleteAssignment(userID, id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.assignmentLocked(userID, id); err == nil {
		delete(s.assignments, id)
	}
}
