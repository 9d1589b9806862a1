package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	r, store := setupRouter(t)

	rr := do(t, r, "GET", "/stats", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	response := decode(t, rr)
	assert.Equal(t, "No students to show statistics for", response["message"])
	assert.Equal(t, map[string]interface{}{
		"count": 0.0, "average": 0.0, "max": 0.0, "min": 0.0, "range": 0.0,
	}, response["stats"])

	for _, g := range []float64{90, 85, 85} {
		_, err := store.Add(context.Background(), "Ann", g)
		require.NoError(t, err)
	}

	rr = do(t, r, "GET", "/stats", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	response = decode(t, rr)
	assert.NotContains(t, response, "message")

	stats := response["stats"].(map[string]interface{})
	assert.Equal(t, 3.0, stats["count"])
	assert.Equal(t, 86.67, stats["average"])
	assert.Equal(t, 90.0, stats["max"])
	assert.Equal(t, 85.0, stats["min"])
	assert.Equal(t, 5.0, stats["range"])

	assert.Equal(t, map[string]interface{}{
		"A": 1.0, "B": 2.0, "C": 0.0, "D": 0.0, "F": 0.0,
	}, response["distribution"])
}

func TestExportCSV(t *testing.T) {
	r, store := setupRouter(t)

	rr := do(t, r, "GET", "/export/csv", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "No data to export", decode(t, rr)["message"])

	_, err := store.Add(context.Background(), "Ann", 87.5)
	require.NoError(t, err)

	rr = do(t, r, "GET", "/export/csv", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="student_grades.csv"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "\"Name\",\"Grade\",\"Status\"\n\"Ann\",\"87.5\",\"B\"", rr.Body.String())
}

func TestExportXLSX(t *testing.T) {
	r, store := setupRouter(t)

	rr := do(t, r, "GET", "/export/xlsx", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "No data to export", decode(t, rr)["message"])

	_, err := store.Add(context.Background(), "Ann", 87.5)
	require.NoError(t, err)

	rr = do(t, r, "GET", "/export/xlsx", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename="student_grades.xlsx"`, rr.Header().Get("Content-Disposition"))
	// xlsx files are zip archives
	assert.Equal(t, "PK", rr.Body.String()[:2])
}

func TestHealthz(t *testing.T) {
	r, _ := setupRouter(t)

	rr := do(t, r, "GET", "/healthz", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode(t, rr)["status"])
}
