package handler

import (
	"net/http"

	"go.uber.org/zap"

	"gradetracker/internal/service"
)

// ReportHandler serves the read-only views over the whole collection:
// statistics and file exports.
type ReportHandler struct {
	store  *service.GradeStore
	logger *zap.Logger
}

func NewReportHandler(store *service.GradeStore, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{store: store, logger: logger}
}

func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	summary := h.store.Summary()

	response := map[string]interface{}{
		"stats":        summary.Stats.Rounded(),
		"distribution": summary.Distribution,
	}
	if summary.Stats.Count == 0 {
		response["message"] = "No students to show statistics for"
	}

	writeJSON(w, h.logger, http.StatusOK, response)
}

func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if h.store.Count() == 0 {
		writeNotice(w, h.logger, "No data to export")
		return
	}

	h.sendFile(w, service.CSVFileName, service.CSVMimeType, []byte(h.store.ToCSV()))
}

func (h *ReportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	if h.store.Count() == 0 {
		writeNotice(w, h.logger, "No data to export")
		return
	}

	data, err := h.store.ToXLSX()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.sendFile(w, service.XLSXFileName, service.XLSXMimeType, data)
}

func (h *ReportHandler) sendFile(w http.ResponseWriter, name, mimeType string, data []byte) {
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write export", zap.String("file", name), zap.Error(err))
	}
}
