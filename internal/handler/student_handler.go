package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"gradetracker/internal/service"
)

type StudentHandler struct {
	store  *service.GradeStore
	rng    service.RandSource
	logger *zap.Logger
}

func NewStudentHandler(store *service.GradeStore, rng service.RandSource, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{store: store, rng: rng, logger: logger}
}

type studentRequest struct {
	Name  *string  `json:"name"`
	Grade *float64 `json:"grade"`
}

// readStudentRequest accepts either a JSON body or form fields. Absent fields
// stay nil.
func readStudentRequest(r *http.Request) (studentRequest, error) {
	var req studentRequest

	if isForm(r) {
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, fmt.Errorf("%w: %v", service.ErrValidation, err)
		}
		if _, ok := r.Form["name"]; ok {
			name := r.FormValue("name")
			req.Name = &name
		}
		if _, ok := r.Form["grade"]; ok {
			grade, err := service.ParseGrade(r.FormValue("grade"))
			if err != nil {
				return req, err
			}
			req.Grade = &grade
		}
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("%w: malformed request body: %v", service.ErrValidation, err)
	}
	return req, nil
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	q := service.ListQuery{
		Page:      page,
		Limit:     limit,
		SortBy:    query.Get("sort_by"),
		SortOrder: query.Get("sort_order"),
		Name:      query.Get("student_name"),
	}
	if v, err := strconv.ParseFloat(query.Get("grade_min"), 64); err == nil {
		q.GradeMin = &v
	}
	if v, err := strconv.ParseFloat(query.Get("grade_max"), 64); err == nil {
		q.GradeMax = &v
	}

	writeJSON(w, h.logger, http.StatusOK, h.store.List(q))
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	req, err := readStudentRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Grade == nil {
		writeError(w, h.logger, fmt.Errorf("%w: grade must be between 0.0 and 100.0", service.ErrValidation))
		return
	}

	var name string
	if req.Name != nil {
		name = *req.Name
	}

	student, err := h.store.Add(r.Context(), name, *req.Grade)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"message": "Student added successfully!",
		"data":    student,
	})
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := studentID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	student, err := h.store.Get(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{"data": student})
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := studentID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	req, err := readStudentRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	student, err := h.store.Edit(r.Context(), id, service.EditRequest{Name: req.Name, Grade: req.Grade})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Student updated successfully!",
		"data":    student,
	})
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := studentID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	student, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Student %q deleted successfully!", student.Name),
		"data":    student,
	})
}

func (h *StudentHandler) ClearStudents(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		if errors.Is(err, service.ErrNoData) {
			writeNotice(w, h.logger, "No data to clear")
			return
		}
		writeError(w, h.logger, err)
		return
	}

	writeNotice(w, h.logger, "All data cleared successfully!")
}

func (h *StudentHandler) Performance(w http.ResponseWriter, r *http.Request) {
	id, err := studentID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	report, err := h.store.Performance(id, h.rng)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, report)
}
