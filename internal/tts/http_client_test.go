package tts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/socarrandinn/tts-text-to-voice/internal/core"
	"github.com/socarrandinn/tts-text-to-voice/internal/tts"
)

func standardTestOptions() core.SynthesisOptions {
	return core.SynthesisOptions{
		Voice:    "es-ES-AlvaroNeural",
		Language: "es",
		Format:   "mp3",
		Rate:     "",
		Volume:   "",
		Pitch:    "",
	}
}

// TestNewHTTPBackend verifies client creation.
func TestNewHTTPBackend(t *testing.T) {
	t.Parallel()

	backend := tts.NewHTTPBackend("http://localhost:8000", 30*time.Second)
	if backend == nil {
		t.Fatal("NewHTTPBackend returned nil")
	}

	if backend.NativeFormat() != "" {
		t.Errorf("expected empty native format, got %q", backend.NativeFormat())
	}
}

// TestHTTPBackend_Synthesize_Success verifies a successful synthesis round trip.
func TestHTTPBackend_Synthesize_Success(t *testing.T) {
	t.Parallel()

	const testAudioData = "fake-mp3-data"

	server := httptest.NewServer(createSuccessHandler(t, testAudioData))
	defer server.Close()

	backend := tts.NewHTTPBackend(server.URL, 10*time.Second)

	audioData, err := backend.Synthesize(
		context.Background(),
		"Dios es amor.",
		standardTestOptions(),
	)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if string(audioData) != testAudioData {
		t.Errorf("expected audio data %q, got %q", testAudioData, string(audioData))
	}
}

func createSuccessHandler(t *testing.T, testAudioData string) http.HandlerFunc {
	t.Helper()

	return func(responseWriter http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", request.Method)
		}

		if request.URL.Path != "/v1/synthesize" {
			t.Errorf("expected /v1/synthesize, got %s", request.URL.Path)
		}

		if accept := request.Header.Get("Accept"); accept != "audio/mpeg" {
			t.Errorf("expected Accept audio/mpeg, got %s", accept)
		}

		var body map[string]any

		err := json.NewDecoder(request.Body).Decode(&body)
		if err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		if body["voice"] != "es-ES-AlvaroNeural" {
			t.Errorf("unexpected voice: %v", body["voice"])
		}

		if body["format"] != "mp3" {
			t.Errorf("unexpected format: %v", body["format"])
		}

		responseWriter.Header().Set("Content-Type", "audio/mpeg")
		responseWriter.WriteHeader(http.StatusOK)

		_, writeErr := responseWriter.Write([]byte(testAudioData))
		if writeErr != nil {
			t.Errorf("failed to write response: %v", writeErr)
		}
	}
}

// TestHTTPBackend_Synthesize_EmptyText verifies the boundary check fires
// before any request is sent.
func TestHTTPBackend_Synthesize_EmptyText(t *testing.T) {
	t.Parallel()

	backend := tts.NewHTTPBackend("http://localhost:1", time.Second)

	_, err := backend.Synthesize(context.Background(), "", standardTestOptions())
	if !errors.Is(err, tts.ErrTextEmpty) {
		t.Errorf("expected ErrTextEmpty, got %v", err)
	}
}

// TestHTTPBackend_Synthesize_UnsupportedFormat rejects unknown formats.
func TestHTTPBackend_Synthesize_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	backend := tts.NewHTTPBackend("http://localhost:1", time.Second)
	opts := standardTestOptions()
	opts.Format = "flac"

	_, err := backend.Synthesize(context.Background(), "text", opts)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

// TestHTTPBackend_Synthesize_ServerError verifies structured error decoding.
func TestHTTPBackend_Synthesize_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.Header().Set("Content-Type", "application/json")
			responseWriter.WriteHeader(http.StatusInternalServerError)

			_, _ = responseWriter.Write(
				[]byte(`{"detail":"voice not found","error_code":"VOICE_404"}`),
			)
		},
	))
	defer server.Close()

	backend := tts.NewHTTPBackend(server.URL, 10*time.Second)

	_, err := backend.Synthesize(context.Background(), "text", standardTestOptions())
	if err == nil {
		t.Fatal("expected error from server failure")
	}
}

// TestHTTPBackend_Synthesize_WrongContentType verifies content-type validation.
func TestHTTPBackend_Synthesize_WrongContentType(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.Header().Set("Content-Type", "text/plain")
			responseWriter.WriteHeader(http.StatusOK)

			_, _ = responseWriter.Write([]byte("not audio"))
		},
	))
	defer server.Close()

	backend := tts.NewHTTPBackend(server.URL, 10*time.Second)

	_, err := backend.Synthesize(context.Background(), "text", standardTestOptions())
	if err == nil {
		t.Fatal("expected error for wrong content type")
	}
}

// TestHTTPBackend_Synthesize_EmptyAudio verifies empty responses are rejected.
func TestHTTPBackend_Synthesize_EmptyAudio(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.Header().Set("Content-Type", "audio/mpeg")
			responseWriter.WriteHeader(http.StatusOK)
		},
	))
	defer server.Close()

	backend := tts.NewHTTPBackend(server.URL, 10*time.Second)

	_, err := backend.Synthesize(context.Background(), "text", standardTestOptions())
	if !errors.Is(err, tts.ErrEmptyAudio) {
		t.Errorf("expected ErrEmptyAudio, got %v", err)
	}
}

// TestHTTPBackend_HealthCheck_Success verifies the health probe.
func TestHTTPBackend_HealthCheck_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/health" {
				t.Errorf("expected /health, got %s", request.URL.Path)
			}

			responseWriter.WriteHeader(http.StatusOK)
		},
	))
	defer server.Close()

	backend := tts.NewHTTPBackend(server.URL, 10*time.Second)

	err := backend.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

// TestHTTPBackend_HealthCheck_ServiceDown verifies unhealthy status surfaces.
func TestHTTPBackend_HealthCheck_ServiceDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.WriteHeader(http.StatusServiceUnavailable)
		},
	))
	defer server.Close()

	backend := tts.NewHTTPBackend(server.URL, 10*time.Second)

	err := backend.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("expected health check failure")
	}
}

// TestHTTPBackend_HealthCheck_NetworkError verifies unreachable services
// report ErrBackendUnavailable.
func TestHTTPBackend_HealthCheck_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.WriteHeader(http.StatusOK)
		},
	))
	server.Close()

	backend := tts.NewHTTPBackend(server.URL, time.Second)

	err := backend.HealthCheck(context.Background())
	if !errors.Is(err, tts.ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}
