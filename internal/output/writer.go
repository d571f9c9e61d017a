// Package output persists audio artifacts to disk.
//
// Writes go through a temp file in the destination directory followed by a
// rename, so a failed or interrupted write never leaves a partial artifact.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
)

// File and directory permissions.
const (
	filePermissions = 0o600
	dirPermissions  = 0o750
)

const (
	timestampLayout        = "20060102_150405"
	invalidCharReplacement = "_"
	defaultBaseName        = "sermon"
)

// Static errors.
var (
	// ErrEmptyAudio indicates there is nothing to write.
	ErrEmptyAudio = errors.New("audio data cannot be empty")
	// ErrEmptyDir indicates the destination directory is missing.
	ErrEmptyDir = errors.New("destination directory cannot be empty")
)

// Writer persists audio artifacts into a destination directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at the given directory. The directory is
// created on the first write.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, ErrEmptyDir
	}

	return &Writer{dir: dir}, nil
}

// Dir returns the destination directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write persists the audio bytes under a sanitized, timestamped name and
// returns the artifact path. An empty base name falls back to "sermon".
func (w *Writer) Write(baseName string, format audio.Format, data []byte) (string, error) {
	name := SanitizeBaseName(baseName)
	if name == "" {
		name = defaultBaseName
	}

	fileName := fmt.Sprintf(
		"%s_%s%s",
		name,
		time.Now().Format(timestampLayout),
		format.Extension(),
	)

	return w.WriteTo(filepath.Join(w.dir, fileName), data)
}

// WriteTo persists the audio bytes at an explicit path, overwriting any
// existing artifact. The parent directory is created as needed.
func (w *Writer) WriteTo(path string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyAudio
	}

	dir := filepath.Dir(path)

	mkdirErr := os.MkdirAll(dir, dirPermissions)
	if mkdirErr != nil {
		return "", fmt.Errorf("failed to create output directory: %w", mkdirErr)
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tempFile, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp artifact: %w", err)
	}

	_, writeErr := tempFile.Write(data)
	closeErr := tempFile.Close()

	if writeErr != nil {
		removeQuietly(tempFile.Name())

		return "", fmt.Errorf("failed to write audio data: %w", writeErr)
	}

	if closeErr != nil {
		removeQuietly(tempFile.Name())

		return "", fmt.Errorf("failed to close temp artifact: %w", closeErr)
	}

	chmodErr := os.Chmod(tempFile.Name(), filePermissions)
	if chmodErr != nil {
		removeQuietly(tempFile.Name())

		return "", fmt.Errorf("failed to set artifact permissions: %w", chmodErr)
	}

	renameErr := os.Rename(tempFile.Name(), path)
	if renameErr != nil {
		removeQuietly(tempFile.Name())

		return "", fmt.Errorf("failed to finalize artifact %s: %w", path, renameErr)
	}

	return path, nil
}

// SanitizeBaseName removes characters that are invalid in most filesystems
// and trims the result.
func SanitizeBaseName(name string) string {
	replacer := strings.NewReplacer(
		"<", invalidCharReplacement,
		">", invalidCharReplacement,
		":", invalidCharReplacement,
		"\"", invalidCharReplacement,
		"/", invalidCharReplacement,
		"\\", invalidCharReplacement,
		"|", invalidCharReplacement,
		"?", invalidCharReplacement,
		"*", invalidCharReplacement,
		" ", invalidCharReplacement,
	)

	return strings.Trim(replacer.Replace(strings.TrimSpace(name)), invalidCharReplacement)
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
