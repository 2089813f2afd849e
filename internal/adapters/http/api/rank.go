package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	service "github.com/okian/screener/internal/app"
	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/pkg/logger"
)

// Multipart form field names.
const (
	fieldJobDescription = "job_description"
	fieldHardSkills     = "hard_skills"
	fieldNiceSkills     = "nice_skills"
	fieldSessionID      = "session_id"
	fieldResumes        = "resumes"
)

// RankHandler serves the ranking endpoints.
type RankHandler struct {
	ranker         Ranker
	maxUploadBytes int64
	logger         logger.Logger
}

// NewRankHandler creates a rank handler.
func NewRankHandler(ranker Ranker, maxUploadBytes int64, l logger.Logger) *RankHandler {
	return &RankHandler{ranker: ranker, maxUploadBytes: maxUploadBytes, logger: l}
}

// HandleProcess handles POST /api/process.
func (h *RankHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.process", h.ranker.Process)
}

// HandleAnalytics handles POST /api/analytics.
func (h *RankHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.analytics", h.ranker.Analytics)
}

type rankFunc func(ctx context.Context, req service.Request) (service.Response, error)

func (h *RankHandler) handle(w http.ResponseWriter, r *http.Request, op string, rank rankFunc) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, err := h.parse(w, r, op)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := rank(r.Context(), req)
	if err != nil {
		status, _, _ := classify(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "ranking failed", logger.String("op", op), logger.Error(err))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parse reads the multipart form into a service request.
func (h *RankHandler) parse(w http.ResponseWriter, r *http.Request, op string) (service.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Request{}, WrapKind(op, ErrTooLarge, fmt.Errorf("body exceeds %d bytes", tooLarge.Limit))
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return service.Request{}, WrapKind(op, ErrBadRequest, err)
		}
		if err := r.ParseForm(); err != nil {
			return service.Request{}, WrapKind(op, ErrBadRequest, err)
		}
	}

	req := service.Request{
		JobText:    r.FormValue(fieldJobDescription),
		HardSkills: service.SplitSkills(r.FormValue(fieldHardSkills)),
		NiceSkills: service.SplitSkills(r.FormValue(fieldNiceSkills)),
		SessionID:  r.FormValue(fieldSessionID),
	}
	if r.MultipartForm == nil {
		return req, nil
	}
	for _, fh := range r.MultipartForm.File[fieldResumes] {
		doc, err := readUpload(fh)
		if err != nil {
			return service.Request{}, WrapKind(op, ErrBadRequest, err)
		}
		req.Documents = append(req.Documents, doc)
	}
	return req, nil
}

func readUpload(fh *multipart.FileHeader) (model.Document, error) {
	f, err := fh.Open()
	if err != nil {
		return model.Document{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return model.Document{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return model.Document{Filename: filepath.Base(fh.Filename), Data: data}, nil
}
