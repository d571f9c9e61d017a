// Package tts provides the synthesis backends and the conversion engine that
// turns sermon text into audio artifacts.
package tts

import "errors"

// Static errors shared by the synthesis backends.
var (
	// ErrTextEmpty indicates that there is no text to synthesize.
	ErrTextEmpty = errors.New("text cannot be empty")
	// ErrEmptyAudio indicates that a backend returned no audio data.
	ErrEmptyAudio = errors.New("received empty audio data")
	// ErrBackendUnavailable indicates that a backend cannot be reached.
	ErrBackendUnavailable = errors.New("tts backend unavailable")
	// ErrUnsupportedBackend indicates an unknown backend name.
	ErrUnsupportedBackend = errors.New("unsupported tts backend")
	// ErrVoiceEmpty indicates that no voice was selected.
	ErrVoiceEmpty = errors.New("voice cannot be empty")
	// ErrVoiceListingUnsupported indicates the backend cannot enumerate
	// its voices.
	ErrVoiceListingUnsupported = errors.New("backend does not support voice listing")
)
