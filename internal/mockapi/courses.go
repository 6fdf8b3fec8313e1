package mockapi

import (
	"errors"
	"net/http"

	"github.com/anayy09/AcademiaFlow/internal/model"
)

const (
	msgInvalidCourseID = "Invalid course ID"
	msgCourseNotFound  = "Course not found"
)

// ListCourses returns the user's courses.
// GET /api/v1/courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.CoursesResponse{Courses: h.store.Courses(currentUser(r))})
}

// GetCourse returns one course.
// GET /api/v1/courses/{id}
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidCourseID)
		return
	}

	course, err := h.store.Course(currentUser(r), id)
	if err != nil {
		writeError(w, http.StatusNotFound, msgCourseNotFound)
		return
	}
	writeJSON(w, http.StatusOK, model.CourseResponse{Course: course})
}

// CreateCourse adds a course.
// POST /api/v1/courses
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	course := h.store.CreateCourse(currentUser(r), req)
	writeJSON(w, http.StatusCreated, model.CourseResponse{
		Course:  course,
		Message: "Course created successfully",
	})
}

// UpdateCourse applies a partial update.
// PUT /api/v1/courses/{id}
func (h *Handler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidCourseID)
		return
	}

	var req model.UpdateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.store.UpdateCourse(currentUser(r), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, msgCourseNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not update course")
		return
	}

	writeJSON(w, http.StatusOK, model.CourseResponse{
		Course:  course,
		Message: "Course updated successfully",
	})
}

// DeleteCourse removes a course.
// DELETE /api/v1/courses/{id}
func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidCourseID)
		return
	}

	h.store.DeleteCourse(currentUser(r), id)
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Course deleted successfully"})
}
