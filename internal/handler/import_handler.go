package handler

import (
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"gradetracker/internal/service"
)

const maxImportSize = 10 << 20 // 10MB

type ImportHandler struct {
	importService *service.ImportService
	logger        *zap.Logger
}

func NewImportHandler(importService *service.ImportService, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importService: importService, logger: logger}
}

// ImportCSV reads every file in the multipart field "files" into the store.
// A file that fails to import does not stop the others; its progress entry
// carries the error.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	results := make([]*service.ImportProgress, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			h.logger.Warn("failed to open uploaded file", zap.String("file", fh.Filename), zap.Error(err))
			continue
		}

		progress, err := h.importService.ImportCSV(r.Context(), filepath.Base(fh.Filename), file)
		file.Close()
		if err != nil {
			h.logger.Warn("import failed", zap.String("file", fh.Filename), zap.Error(err))
		}
		results = append(results, progress)
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Files imported",
		"files":   results,
	})
}
