// Package config provides the configuration structure for the sermon-to-audio
// converter.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	AudioDir    string `toml:"audio_dir"`
	BaseLogsDir string `toml:"base_logs_dir"`
}

// TTSConfig holds the synthesis backend configuration.
type TTSConfig struct {
	Backend        string `toml:"backend"`
	Voice          string `toml:"voice"`
	Language       string `toml:"language"`
	Format         string `toml:"format"`
	Rate           string `toml:"rate"`
	Volume         string `toml:"volume"`
	Pitch          string `toml:"pitch"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Workers        int    `toml:"workers"`

	// http backend.
	ServiceURL string `toml:"service_url"`

	// stream backend.
	StreamURL string `toml:"stream_url"`
	AppID     string `toml:"app_id"`
	APIKey    string `toml:"api_key"`
	APISecret string `toml:"api_secret"`

	// edge backend.
	EdgeBinary string `toml:"edge_binary"`
}

// HTTPConfig holds the configuration for the API server.
type HTTPConfig struct {
	Port string `toml:"port"`
}

// NATSConfig holds the configuration for the queue worker deployment.
type NATSConfig struct {
	URL                    string `toml:"url"`
	SermonSubmittedSubject string `toml:"sermon_submitted_subject"`
	AudioCreatedSubject    string `toml:"audio_created_subject"`
	TextObjectStoreBucket  string `toml:"text_object_store_bucket"`
	AudioObjectStoreBucket string `toml:"audio_object_store_bucket"`
}

// PresetsConfig holds the location of the voice preset store.
type PresetsConfig struct {
	File string `toml:"file"`
}

// Config is the root configuration structure.
type Config struct {
	Paths   PathsConfig   `toml:"paths"`
	TTS     TTSConfig     `toml:"tts"`
	HTTP    HTTPConfig    `toml:"http"`
	NATS    NATSConfig    `toml:"nats"`
	Presets PresetsConfig `toml:"presets"`
}

// Defaults that apply when the TOML leaves a field unset.
const (
	DefaultAudioDir       = "audios"
	DefaultBackend        = "edge"
	DefaultVoice          = "es-MX-DaliaNeural"
	DefaultLanguage       = "es"
	DefaultFormat         = "mp3"
	DefaultTimeoutSeconds = 60
	DefaultWorkers        = 4
	DefaultPresetsFile    = "presets.json"
	DefaultHTTPPort       = "8080"
)

// Load loads the configuration via the central configurator and applies
// defaults for anything left unset.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Paths.AudioDir == "" {
		c.Paths.AudioDir = DefaultAudioDir
	}

	if c.TTS.Backend == "" {
		c.TTS.Backend = DefaultBackend
	}

	if c.TTS.Voice == "" {
		c.TTS.Voice = DefaultVoice
	}

	if c.TTS.Language == "" {
		c.TTS.Language = DefaultLanguage
	}

	if c.TTS.Format == "" {
		c.TTS.Format = DefaultFormat
	}

	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.TTS.Workers <= 0 {
		c.TTS.Workers = DefaultWorkers
	}

	if c.Presets.File == "" {
		c.Presets.File = DefaultPresetsFile
	}

	if c.HTTP.Port == "" {
		c.HTTP.Port = DefaultHTTPPort
	}
}
