package handler

import (
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"gradetracker/internal/service"
)

type ProgressHandler struct {
	importService *service.ImportService
	logger        *zap.Logger
}

func NewProgressHandler(importService *service.ImportService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{importService: importService, logger: logger}
}

// GetFileProgress returns the import outcome for a specific file
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		http.Error(w, "fileName parameter is required", http.StatusBadRequest)
		return
	}

	progress := h.importService.GetFileProgress(filepath.Base(fileName))
	if progress == nil {
		http.Error(w, "File not found or not imported", http.StatusNotFound)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, progress)
}

// GetAllProgress returns the import outcome for every file seen so far
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.importService.GetAllFileProgress())
}
