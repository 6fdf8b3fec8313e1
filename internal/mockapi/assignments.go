package mockapi

import (
	"errors"
	"net/http"

	"github.com/anayy09/AcademiaFlow/internal/model"
)

const (
	msgInvalidAssignmentID = "Invalid assignment ID"
	msgAssignmentNotFound  = "Assignment not found"
)

// ListAssignments returns the user's assignments by due date.
// GET /api/v1/assignments?status=&priority=
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.AssignmentFilter{
		Status:   model.AssignmentStatus(q.Get("status")),
		Priority: model.Priority(q.Get("priority")),
	}
	writeJSON(w, http.StatusOK, model.AssignmentsResponse{
		Assignments: h.store.Assignments(currentUser(r), filter),
	})
}

// GetAssignment returns one assignment.
// GET /api/v1/assignments/{id}
func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidAssignmentID)
		return
	}

	a, err := h.store.Assignment(currentUser(r), id)
	if err != nil {
		writeError(w, http.StatusNotFound, msgAssignmentNotFound)
		return
	}
	writeJSON(w, http.StatusOK, model.AssignmentResponse{Assignment: a})
}

// CreateAssignment adds an assignment.
// POST /api/v1/assignments
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.store.CreateAssignment(currentUser(r), req)
	if err != nil {
		h.writeAssignmentError(w, err, "Could not create assignment")
		return
	}

	writeJSON(w, http.StatusCreated, model.AssignmentResponse{
		Assignment: a,
		Message:    "Assignment created successfully",
	})
}

// UpdateAssignment applies a partial update.
// PUT /api/v1/assignments/{id}
func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidAssignmentID)
		return
	}

	var req model.UpdateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.store.UpdateAssignment(currentUser(r), id, req)
	if err != nil {
		h.writeAssignmentError(w, err, "Could not update assignment")
		return
	}

	writeJSON(w, http.StatusOK, model.AssignmentResponse{
		Assignment: a,
		Message:    "Assignment updated successfully",
	})
}

// UpdateAssignmentStatus changes only the status.
// PATCH /api/v1/assignments/{id}/status
func (h *Handler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidAssignmentID)
		return
	}

	var req model.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Status.IsValid() {
		writeError(w, http.StatusBadRequest, model.ErrInvalidStatus.Error())
		return
	}

	a, err := h.store.SetAssignmentStatus(currentUser(r), id, req.Status)
	if err != nil {
		h.writeAssignmentError(w, err, "Could not update assignment status")
		return
	}

	writeJSON(w, http.StatusOK, model.AssignmentResponse{
		Assignment: a,
		Message:    "Assignment status updated successfully",
	})
}

// DeleteAssignment removes an assignment.
// DELETE /api/v1/assignments/{id}
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidAssignmentID)
		return
	}

	h.store.DeleteAssignment(currentUser(r), id)
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Assignment deleted successfully"})
}

func (h *Handler) writeAssignmentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, msgAssignmentNotFound)
	case errors.Is(err, ErrUnknownCourse):
		writeError(w, http.StatusBadRequest, msgCourseNotFound)
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
