package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/anayy09/AcademiaFlow/internal/model"
)

func assignmentPath(id uint) string {
	return fmt.Sprintf("/assignments/%d", id)
}

// filterQuery serializes only the filters that are set. With no filters it
// returns nil so no query string is sent at all.
func filterQuery(f model.AssignmentFilter) url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if len(q) == 0 {
		return nil
	}
	return q
}

// GetAssignments lists assignments, optionally filtered.
// GET /assignments[?status=..&priority=..]
func (s *Service) GetAssignments(ctx context.Context, filter model.AssignmentFilter) (*model.AssignmentsResponse, error) {
	var out model.AssignmentsResponse
	if err := s.doer.Do(ctx, http.MethodGet, "/assignments", filterQuery(filter), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAssignment fetches one assignment.
// GET /assignments/{id}
func (s *Service) GetAssignment(ctx context.Context, id uint) (*model.AssignmentResponse, error) {
	var out model.AssignmentResponse
	if err := s.doer.Do(ctx, http.MethodGet, assignmentPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAssignment adds an assignment.
// POST /assignments
func (s *Service) CreateAssignment(ctx context.Context, req model.CreateAssignmentRequest) (*model.AssignmentResponse, error) {
	var out model.AssignmentResponse
	if err := s.doer.Do(ctx, http.MethodPost, "/assignments", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAssignment sends the set fields of req.
// PUT /assignments/{id}
func (s *Service) UpdateAssignment(ctx context.Context, id uint, req model.UpdateAssignmentRequest) (*model.AssignmentResponse, error) {
	var out model.AssignmentResponse
	if err := s.doer.Do(ctx, http.MethodPut, assignmentPath(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAssignmentStatus moves an assignment to status.
// PATCH /assignments/{id}/status
func (s *Service) UpdateAssignmentStatus(ctx context.Context, id uint, status model.AssignmentStatus) (*model.AssignmentResponse, error) {
	var out model.AssignmentResponse
	body := model.UpdateStatusRequest{Status: status}
	if err := s.doer.Do(ctx, http.MethodPatch, assignmentPath(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssignment removes an assignment.
// DELETE /assignments/{id}
func (s *Service) DeleteAssignment(ctx context.Context, id uint) (*model.MessageResponse, error) {
	var out model.MessageResponse
	if err := s.doer.Do(ctx, http.MethodDelete, assignmentPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
