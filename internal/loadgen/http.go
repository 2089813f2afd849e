package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/screener/internal/app"
)

// ErrUnhealthy is returned when the health probe fails.
var ErrUnhealthy = errors.New("service unhealthy")

// StatusError carries a non-200 response.
type StatusError struct {
	Code    int
	Message string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Form is the non-file part of a ranking request.
type Form struct {
	JobDescription string
	HardSkills     []string
	NiceSkills     []string
	SessionID      string
}

// Client posts ranking requests.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client with a request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health probes /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Rank posts form and uploads to path and decodes the response.
func (c *Client) Rank(ctx context.Context, path string, form Form, uploads []Upload) (service.Response, error) {
	body, contentType, err := encodeForm(form, uploads)
	if err != nil {
		return service.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return service.Response{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return service.Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return service.Response{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return service.Response{}, &StatusError{Code: resp.StatusCode, Message: apiErr.Message}
	}

	var out service.Response
	if err := json.Unmarshal(data, &out); err != nil {
		return service.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func encodeForm(form Form, uploads []Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"job_description", form.JobDescription},
		{"hard_skills", strings.Join(form.HardSkills, ",")},
		{"nice_skills", strings.Join(form.NiceSkills, ",")},
		{"session_id", form.SessionID},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	for _, u := range uploads {
		fw, err := mw.CreateFormFile("resumes", u.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(u.Body); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
