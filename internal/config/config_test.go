// Package config_test tests the configuration loading for the converter.
package config_test

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socarrandinn/tts-text-to-voice/internal/config"
)

func TestUnmarshalConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[paths]
audio_dir = "audios"
base_logs_dir = "/var/log/tts"

[tts]
backend = "http"
voice = "es-ES-AlvaroNeural"
language = "es"
format = "ogg"
rate = "+10%"
timeout_seconds = 120
workers = 2
service_url = "http://localhost:8000"

[http]
port = "9090"

[nats]
url = "nats://127.0.0.1:4222"
sermon_submitted_subject = "sermon.submitted"
audio_created_subject = "sermon.audio.created"
text_object_store_bucket = "SERMON_TEXT"
audio_object_store_bucket = "SERMON_AUDIO"

[presets]
file = "presets.json"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "audios", cfg.Paths.AudioDir)
	assert.Equal(t, "/var/log/tts", cfg.Paths.BaseLogsDir)
	assert.Equal(t, "http", cfg.TTS.Backend)
	assert.Equal(t, "es-ES-AlvaroNeural", cfg.TTS.Voice)
	assert.Equal(t, "es", cfg.TTS.Language)
	assert.Equal(t, "ogg", cfg.TTS.Format)
	assert.Equal(t, "+10%", cfg.TTS.Rate)
	assert.Equal(t, 120, cfg.TTS.TimeoutSeconds)
	assert.Equal(t, 2, cfg.TTS.Workers)
	assert.Equal(t, "http://localhost:8000", cfg.TTS.ServiceURL)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "sermon.submitted", cfg.NATS.SermonSubmittedSubject)
	assert.Equal(t, "sermon.audio.created", cfg.NATS.AudioCreatedSubject)
	assert.Equal(t, "SERMON_TEXT", cfg.NATS.TextObjectStoreBucket)
	assert.Equal(t, "SERMON_AUDIO", cfg.NATS.AudioObjectStoreBucket)
	assert.Equal(t, "presets.json", cfg.Presets.File)
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	cfg.ApplyDefaults()

	assert.Equal(t, config.DefaultAudioDir, cfg.Paths.AudioDir)
	assert.Equal(t, config.DefaultBackend, cfg.TTS.Backend)
	assert.Equal(t, config.DefaultVoice, cfg.TTS.Voice)
	assert.Equal(t, config.DefaultLanguage, cfg.TTS.Language)
	assert.Equal(t, config.DefaultFormat, cfg.TTS.Format)
	assert.Equal(t, config.DefaultTimeoutSeconds, cfg.TTS.TimeoutSeconds)
	assert.Equal(t, config.DefaultWorkers, cfg.TTS.Workers)
	assert.Equal(t, config.DefaultPresetsFile, cfg.Presets.File)
	assert.Equal(t, config.DefaultHTTPPort, cfg.HTTP.Port)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	cfg.TTS.Backend = "stream"
	cfg.TTS.Workers = 8

	cfg.ApplyDefaults()

	assert.Equal(t, "stream", cfg.TTS.Backend)
	assert.Equal(t, 8, cfg.TTS.Workers)
}
