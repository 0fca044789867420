package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"manifest-reconciliation/internal/domain"
	"manifest-reconciliation/internal/errorutil"
	"manifest-reconciliation/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// HTTPBackend talks to the logistics REST API. It implements both the
// validation gateway and the connectivity probe.
type HTTPBackend struct {
	baseURL      string
	token        string
	client       *http.Client
	probeTimeout time.Duration
	log          logger.Logger
}

// NewHTTPBackend creates a client for baseURL. token is sent as a bearer
// token when set.
func NewHTTPBackend(baseURL, token string, timeout, probeTimeout time.Duration, log logger.Logger) *HTTPBackend {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	return &HTTPBackend{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		client:       &http.Client{Timeout: timeout},
		probeTimeout: probeTimeout,
		log:          log,
	}
}

// ValidateTrackingNumbers posts candidates for validation.
func (b *HTTPBackend) ValidateTrackingNumbers(ctx context.Context, kind domain.WorkflowKind, req domain.ValidationRequest) (*domain.ValidationResponse, error) {
	var resp domain.ValidationResponse
	if err := b.doJSON(ctx, http.MethodPost, "/"+kind.Resource()+"/validate-tracking-numbers", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConsolidatedToStart fetches the manifests expected at a branch.
func (b *HTTPBackend) ConsolidatedToStart(ctx context.Context, kind domain.WorkflowKind, branchID string) (*domain.ManifestSet, error) {
	var set domain.ManifestSet
	path := "/" + kind.Resource() + "/consolidated-to-start/" + url.PathEscape(branchID)
	if err := b.doJSON(ctx, http.MethodGet, path, nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// Submit saves the reconciled manifest.
func (b *HTTPBackend) Submit(ctx context.Context, kind domain.WorkflowKind, req domain.SubmitRequest) (*domain.SubmitResponse, error) {
	var resp domain.SubmitResponse
	if err := b.doJSON(ctx, http.MethodPost, "/"+kind.Resource(), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadReport attaches generated documents to a saved manifest.
func (b *HTTPBackend) UploadReport(ctx context.Context, kind domain.WorkflowKind, manifestID string, files []domain.ReportFile) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("id", manifestID); err != nil {
		return fmt.Errorf("could not prepare upload: %w", err)
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("could not prepare upload of %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return fmt.Errorf("could not prepare upload of %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("could not finalize upload: %w", err)
	}

	return b.do(ctx, http.MethodPost, "/"+kind.Resource()+"/upload", &body, writer.FormDataContentType(), nil)
}

// Online reports whether the backend answers at all. Any HTTP response
// below 500 counts as reachable.
func (b *HTTPBackend) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, b.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, b.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.log.Debugf(ctx, "[HTTPBackend] probe failed: %v", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

func (b *HTTPBackend) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return b.do(ctx, method, path, body, contentType, out)
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return errorutil.NonRetriable(0, fmt.Sprintf("could not build request: %v", err))
	}

	requestID := logger.TraceID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		b.log.Warnf(ctx, "[HTTPBackend] %s %s failed: %v", method, path, err)
		return errorutil.RetriableWithDetails(0, "backend unreachable", err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorutil.RetriableWithDetails(resp.StatusCode, "could not read backend response", err.Error())
	}
	b.log.Debugf(ctx, "[HTTPBackend] %s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start), requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorutil.FromStatus(resp.StatusCode, errorMessage(resp.StatusCode, respBody))
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errorutil.NonRetriable(resp.StatusCode, fmt.Sprintf("could not decode backend response: %v", err))
	}
	return nil
}

// errorMessage extracts the message of a backend error body.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message interface{} `json:"message"`
		Error   string      `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch m := payload.Message.(type) {
		case string:
			if m != "" {
				return m
			}
		case []interface{}:
			parts := make([]string, 0, len(m))
			for _, p := range m {
				parts = append(parts, fmt.Sprint(p))
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}
