package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
)

// API endpoints and paths.
const (
	apiSynthesize = "/v1/synthesize"
	apiHealth     = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	contentTypeJSON   = "application/json"
)

// Error formats.
const (
	errFmtUnexpectedContentType = "unexpected content type: expected %s, got %s"
	errFmtServiceErrorWithCode  = "speech service error (%s): %s (code: %s)"
	errFmtServiceNonOKStatus    = "speech service returned non-OK status: %s, body: %s"
)

// HTTPBackend is a client for a standalone speech synthesis HTTP service.
// It implements core.Synthesizer and core.HealthChecker.
type HTTPBackend struct {
	httpClient *http.Client
	baseURL    string
}

// synthesizeRequest defines the JSON payload for synthesis requests.
type synthesizeRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language,omitempty"`
	Format   string `json:"format"`
	Rate     string `json:"rate,omitempty"`
	Volume   string `json:"volume,omitempty"`
	Pitch    string `json:"pitch,omitempty"`
}

// serviceErrorResponse is the structured error body the service returns on
// failed requests.
type serviceErrorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// NewHTTPBackend creates a client for the speech service at baseURL. The
// timeout applies to every request made by this client.
func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NativeFormat reports "" because the service honors the requested format.
func (b *HTTPBackend) NativeFormat() string {
	return ""
}

// Synthesize sends a synthesis request and returns the raw audio data in the
// requested format.
func (b *HTTPBackend) Synthesize(
	ctx context.Context,
	text string,
	opts core.SynthesisOptions,
) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	format, formatErr := audio.ParseFormat(opts.Format)
	if formatErr != nil {
		return nil, formatErr
	}

	requestBody, err := json.Marshal(synthesizeRequest{
		Text:     text,
		Voice:    opts.Voice,
		Language: opts.Language,
		Format:   string(format),
		Rate:     opts.Rate,
		Volume:   opts.Volume,
		Pitch:    opts.Pitch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		b.baseURL+apiSynthesize,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAccept, format.MIMEType())

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf(
			"%w: failed to send request to %s: %w",
			ErrBackendUnavailable,
			b.baseURL,
			err,
		)
	}
	defer closeQuietly(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	contentType := resp.Header.Get(headerContentType)
	if contentType != format.MIMEType() {
		return nil, fmt.Errorf(
			errFmtUnexpectedContentType,
			format.MIMEType(),
			contentType,
		)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// HealthCheck verifies that the speech service is running. It is performed
// before batch workloads to fail fast when the service is down.
func (b *HTTPBackend) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		b.baseURL+apiHealth,
		http.NoBody,
	)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(
			"%w: health check failed for %s: %w",
			ErrBackendUnavailable,
			b.baseURL,
			err,
		)
	}
	defer closeQuietly(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %s", resp.Status)
	}

	return nil
}

// parseErrorResponse attempts to decode a structured JSON error from the
// service, falling back to the raw body so diagnostics are never lost.
func parseErrorResponse(resp *http.Response) error {
	var errorResp serviceErrorResponse

	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	if err == nil {
		return fmt.Errorf(errFmtServiceErrorWithCode,
			resp.Status, errorResp.Detail, errorResp.ErrorCode)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf(errFmtServiceNonOKStatus, resp.Status, string(body))
}

func closeQuietly(closer io.Closer) {
	_ = closer.Close()
}
