// Package core defines the interfaces shared across the sermon-to-audio pipeline.
package core

import "context"

// ObjectStore defines the interface for interacting with a key-value blob store.
// It holds sermon text waiting to be synthesized and the audio artifacts
// produced from it.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// SynthesisOptions holds the per-request knobs for a synthesis call.
// Rate, Volume and Pitch use the signed-percentage form the speech backends
// accept (for example "+10%", "-5Hz" for pitch).
type SynthesisOptions struct {
	Voice    string
	Language string
	Format   string
	Rate     string
	Volume   string
	Pitch    string
}

// Synthesizer defines the interface for a text-to-speech backend.
// The backend is a consumed capability: voice modeling and signal synthesis
// happen on the other side of it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts SynthesisOptions) ([]byte, error)
	// NativeFormat reports the audio format the backend emits, so the
	// engine can transcode when the requested format differs.
	NativeFormat() string
}

// HealthChecker is implemented by backends that can be probed before a batch
// run, so large workloads fail fast when the service is down.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Voice describes one voice offered by a backend.
type Voice struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Locale string `json:"locale"`
}

// VoiceLister is implemented by backends that can enumerate their voices.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]Voice, error)
}
