package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anayy09/AcademiaFlow/internal/model"
)

func coursePath(id uint) string {
	return fmt.Sprintf("/courses/%d", id)
}

// GetCourses lists the user's courses.
// GET /courses
func (s *Service) GetCourses(ctx context.Context) (*model.CoursesResponse, error) {
	var out model.CoursesResponse
	if err := s.doer.Do(ctx, http.MethodGet, "/courses", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCourse fetches one course.
// GET /courses/{id}
func (s *Service) GetCourse(ctx context.Context, id uint) (*model.CourseResponse, error) {
	var out model.CourseResponse
	if err := s.doer.Do(ctx, http.MethodGet, coursePath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCourse adds a course.
// POST /courses
func (s *Service) CreateCourse(ctx context.Context, req model.CreateCourseRequest) (*model.CourseResponse, error) {
	var out model.CourseResponse
	if err := s.doer.Do(ctx, http.MethodPost, "/courses", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse sends the set fields of req.
// PUT /courses/{id}
func (s *Service) UpdateCourse(ctx context.Context, id uint, req model.UpdateCourseRequest) (*model.CourseResponse, error) {
	var out model.CourseResponse
	if err := s.doer.Do(ctx, http.MethodPut, coursePath(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCourse removes a course.
// DELETE /courses/{id}
func (s *Service) DeleteCourse(ctx context.Context, id uint) (*model.MessageResponse, error) {
	var out model.MessageResponse
	if err := s.doer.Do(ctx, http.MethodDelete, coursePath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
