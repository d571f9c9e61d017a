package tts_test

import (
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socarrandinn/tts-text-to-voice/internal/config"
	"github.com/socarrandinn/tts-text-to-voice/internal/tts"
)

func newFactoryLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "factory-test.log")
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log
}

func TestNewBackendSelection(t *testing.T) {
	t.Parallel()

	log := newFactoryLogger(t)

	testCases := []struct {
		backend      string
		nativeFormat string
	}{
		{backend: tts.BackendEdge, nativeFormat: "mp3"},
		{backend: tts.BackendHTTP, nativeFormat: ""},
		{backend: tts.BackendStream, nativeFormat: "mp3"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.backend, func(t *testing.T) {
			t.Parallel()

			cfg := config.TTSConfig{}
			cfg.Backend = testCase.backend
			cfg.ServiceURL = "http://localhost:8000"
			cfg.StreamURL = "ws://localhost:8001/tts"
			cfg.TimeoutSeconds = 30

			synth, err := tts.NewBackend(&cfg, log)
			require.NoError(t, err)
			require.NotNil(t, synth)

			assert.Equal(t, testCase.nativeFormat, synth.NativeFormat())
		})
	}
}

func TestNewBackendUnsupported(t *testing.T) {
	t.Parallel()

	cfg := config.TTSConfig{}
	cfg.Backend = "polly"

	_, err := tts.NewBackend(&cfg, newFactoryLogger(t))
	require.ErrorIs(t, err, tts.ErrUnsupportedBackend)
}
