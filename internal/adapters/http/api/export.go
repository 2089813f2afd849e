package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/screener/internal/adapters/export"
)

// exportRequest mirrors the OpenAPI schema for POST /api/export.
type exportRequest struct {
	Results []export.Row `json:"results" validate:"max=10000,dive"`
}

// ExportHandler renders posted results as a CSV attachment.
type ExportHandler struct {
	maxBodyBytes int64
	now          func() time.Time
	validate     *validator.Validate
}

// NewExportHandler creates an export handler.
func NewExportHandler(maxBodyBytes int64, now func() time.Time) *ExportHandler {
	return &ExportHandler{maxBodyBytes: maxBodyBytes, now: now, validate: validator.New()}
}

// HandleExport handles POST /api/export.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req exportRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid JSON: %w", err)))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, req.Results); err != nil {
		writeError(w, WrapKind(op, ErrInternal, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
