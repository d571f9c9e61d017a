// Package audio defines the supported artifact formats and converts between
// them when a backend's native output differs from what was requested.
package audio

import (
	"errors"
	"fmt"
)

// Format represents a supported audio artifact format.
type Format string

// Formats the converter can produce.
const (
	FormatMP3 Format = "mp3"
	FormatWAV Format = "wav"
	FormatOGG Format = "ogg"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatMP3

// ErrUnsupportedFormat indicates a format outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatMP3, FormatWAV, FormatOGG:
		return Format(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// MIMEType returns the content type for HTTP responses.
func (f Format) MIMEType() string {
	switch f {
	case FormatMP3:
		return "audio/mpeg"
	case FormatWAV:
		return "audio/wav"
	case FormatOGG:
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
