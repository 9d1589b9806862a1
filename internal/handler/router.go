package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gradetracker/internal/service"
)

// NewRouter registers every endpoint of the grade tracker API.
func NewRouter(store *service.GradeStore, importService *service.ImportService, rng service.RandSource, logger *zap.Logger) *mux.Router {
	studentHandler := NewStudentHandler(store, rng, logger.Named("students"))
	reportHandler := NewReportHandler(store, logger.Named("reports"))
	importHandler := NewImportHandler(importService, logger.Named("import"))
	progressHandler := NewProgressHandler(importService, logger.Named("progress"))

	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.HandleFunc("/students", studentHandler.ListStudents).Methods("GET")
	r.HandleFunc("/students", studentHandler.CreateStudent).Methods("POST")
	r.HandleFunc("/students", studentHandler.ClearStudents).Methods("DELETE")
	r.HandleFunc("/students/import", importHandler.ImportCSV).Methods("POST")
	r.HandleFunc("/students/{id}", studentHandler.GetStudent).Methods("GET")
	r.HandleFunc("/students/{id}", studentHandler.UpdateStudent).Methods("PUT", "PATCH")
	r.HandleFunc("/students/{id}", studentHandler.DeleteStudent).Methods("DELETE")
	r.HandleFunc("/students/{id}/performance", studentHandler.Performance).Methods("GET")

	r.HandleFunc("/stats", reportHandler.Stats).Methods("GET")
	r.HandleFunc("/export/csv", reportHandler.ExportCSV).Methods("GET")
	r.HandleFunc("/export/xlsx", reportHandler.ExportXLSX).Methods("GET")

	r.HandleFunc("/imports", progressHandler.GetAllProgress).Methods("GET")
	r.HandleFunc("/imports/file", progressHandler.GetFileProgress).Methods("GET")

	return r
}
