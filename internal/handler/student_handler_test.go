package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gradetracker/internal/model"
	"gradetracker/internal/service"
	"gradetracker/internal/storage"
)

func setupRouter(t *testing.T) (*mux.Router, *service.GradeStore) {
	t.Helper()
	store := service.NewGradeStore(context.Background(), storage.NewMemoryKV(), "", zap.NewNop())
	importService := service.NewImportService(store, zap.NewNop())
	return NewRouter(store, importService, service.DefaultRand, zap.NewNop()), store
}

func do(t *testing.T, r http.Handler, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	return response
}

func TestCreateStudent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		contentType    string
		expectedStatus int
	}{
		{"json", `{"name":" Ann ","grade":87.5}`, "application/json", http.StatusCreated},
		{"form", url.Values{"name": {"Ann"}, "grade": {"87.5"}}.Encode(), "application/x-www-form-urlencoded", http.StatusCreated},
		{"empty name", `{"name":"  ","grade":87.5}`, "application/json", http.StatusBadRequest},
		{"missing grade", `{"name":"Ann"}`, "application/json", http.StatusBadRequest},
		{"grade out of range", `{"name":"Ann","grade":100.5}`, "application/json", http.StatusBadRequest},
		{"non-numeric json grade", `{"name":"Ann","grade":"high"}`, "application/json", http.StatusBadRequest},
		{"non-numeric form grade", "name=Ann&grade=abc", "application/x-www-form-urlencoded", http.StatusBadRequest},
		{"malformed body", `{`, "application/json", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := setupRouter(t)

			rr := do(t, r, "POST", "/students", tt.body, tt.contentType)
			assert.Equal(t, tt.expectedStatus, rr.Code, rr.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				response := decode(t, rr)
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Ann", data["name"])
				assert.Equal(t, 87.5, data["grade"])
				assert.Equal(t, 1, store.Count())
			} else {
				assert.Equal(t, 0, store.Count())
			}
		})
	}
}

func TestGetUpdateDeleteStudent(t *testing.T) {
	r, store := setupRouter(t)
	st, err := store.Add(context.Background(), "Ann", 70)
	require.NoError(t, err)
	path := "/students/" + strconv.FormatInt(st.ID, 10)

	rr := do(t, r, "GET", path, "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, r, "PATCH", path, `{"grade":91}`, "application/json")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got, err := store.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StudentRecord{ID: st.ID, Name: "Ann", Grade: 91}, got)

	rr = do(t, r, "PUT", path, "name=Zoe", "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got, err = store.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zoe", got.Name)
	assert.Equal(t, 91.0, got.Grade)

	rr = do(t, r, "PUT", path, `{"grade":-3}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, r, "DELETE", path, "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `Student "Zoe" deleted successfully!`, decode(t, rr)["message"])

	for _, method := range []string{"GET", "DELETE"} {
		rr = do(t, r, method, path, "", "")
		assert.Equal(t, http.StatusNotFound, rr.Code, method)
	}
	rr = do(t, r, "PATCH", path, `{"grade":50}`, "application/json")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, r, "GET", "/students/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListStudents(t *testing.T) {
	r, store := setupRouter(t)
	for _, s := range []struct {
		name  string
		grade float64
	}{
		{"John Doe", 90},
		{"Jane Doe", 85},
		{"Alice", 95},
	} {
		_, err := store.Add(context.Background(), s.name, s.grade)
		require.NoError(t, err)
	}

	tests := []struct {
		name        string
		queryParams map[string]string
		expectedLen int
	}{
		{"All students", map[string]string{}, 3},
		{"Filter by name", map[string]string{"student_name": "John"}, 1},
		{"Filter by grade range", map[string]string{"grade_min": "85", "grade_max": "90"}, 2},
		{"Pagination", map[string]string{"page": "1", "limit": "2"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			for key, value := range tt.queryParams {
				q.Add(key, value)
			}

			rr := do(t, r, "GET", "/students?"+q.Encode(), "", "")
			require.Equal(t, http.StatusOK, rr.Code)

			response := decode(t, rr)
			data := response["data"].([]interface{})
			assert.Len(t, data, tt.expectedLen)
		})
	}
}

func TestClearStudents(t *testing.T) {
	r, store := setupRouter(t)

	rr := do(t, r, "DELETE", "/students", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "No data to clear", decode(t, rr)["message"])

	_, err := store.Add(context.Background(), "Ann", 50)
	require.NoError(t, err)

	rr = do(t, r, "DELETE", "/students", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "All data cleared successfully!", decode(t, rr)["message"])
	assert.Equal(t, 0, store.Count())
}

func TestPerformance(t *testing.T) {
	r, store := setupRouter(t)
	st, err := store.Add(context.Background(), "Ann", 88)
	require.NoError(t, err)

	rr := do(t, r, "GET", "/students/"+strconv.FormatInt(st.ID, 10)+"/performance", "", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var report service.PerformanceReport
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&report))
	assert.Equal(t, st, report.Student)
	assert.Len(t, report.History, 10)
	assert.NotEmpty(t, report.Trend)

	rr = do(t, r, "GET", "/students/1/performance", "", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
