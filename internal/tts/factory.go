package tts

import (
	"fmt"
	"time"

	"github.com/book-expert/logger"

	"github.com/socarrandinn/tts-text-to-voice/internal/config"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
)

// Backend names accepted in configuration.
const (
	BackendEdge   = "edge"
	BackendHTTP   = "http"
	BackendStream = "stream"
)

// NewBackend returns the synthesizer selected by the configuration.
func NewBackend(cfg *config.TTSConfig, log *logger.Logger) (core.Synthesizer, error) {
	switch cfg.Backend {
	case BackendEdge:
		return NewEdgeBackend(cfg.EdgeBinary, log), nil
	case BackendHTTP:
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

		return NewHTTPBackend(cfg.ServiceURL, timeout), nil
	case BackendStream:
		return NewStreamBackend(cfg.StreamURL, cfg.AppID, cfg.APIKey, cfg.APISecret), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}
}
