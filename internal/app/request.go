package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/screener/internal/domain/model"
)

// Request is one ranking call.
type Request struct {
	JobText    string           `validate:"required"`
	HardSkills []string         `validate:"max=100,dive,max=100"`
	NiceSkills []string         `validate:"max=100,dive,max=100"`
	SessionID  string           `validate:"omitempty,max=128,printascii"`
	Documents  []model.Document
}

// Response is a ranked batch. Results are sorted by the ranking order;
// Errors lists the documents of this request that could not be read.
type Response struct {
	RequestID        string                  `json:"request_id"`
	SessionID        string                  `json:"session_id,omitempty"`
	Results          []model.ScoredCandidate `json:"results"`
	Errors           []model.DocumentError   `json:"errors"`
	SemanticDegraded bool                    `json:"semantic_degraded,omitempty"`
	DegradedSteps    []string                `json:"degraded_steps,omitempty"`
}

// SplitSkills splits a comma-separated list, trimming entries and dropping
// empty ones. The result is never nil.
func SplitSkills(raw string) []string {
	out := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var validate = validator.New()

// normalize trims the request in place and validates it.
func (r *Request) normalize(maxBatch int) error {
	r.JobText = strings.TrimSpace(r.JobText)
	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.HardSkills == nil {
		r.HardSkills = []string{}
	}
	if r.NiceSkills == nil {
		r.NiceSkills = []string{}
	}

	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}
	if len(r.Documents) == 0 && r.SessionID == "" {
		return fmt.Errorf("%w: at least one resume is required", ErrValidation)
	}
	if maxBatch > 0 && len(r.Documents) > maxBatch {
		return fmt.Errorf("%w: at most %d resumes per request", ErrValidation, maxBatch)
	}
	for i := range r.Documents {
		if strings.TrimSpace(r.Documents[i].Filename) == "" {
			return fmt.Errorf("%w: resume %d has no filename", ErrValidation, i)
		}
	}
	return nil
}

// describe turns validator output into a short client message.
func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Field() {
	case "JobText":
		return "job description is required"
	default:
		return fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag())
	}
}
