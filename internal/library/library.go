// Package library lists the audio artifacts accumulated in the output
// directory, newest first.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Data size constants.
const (
	kilobyte = 1024
	megabyte = kilobyte * 1024
	gigabyte = megabyte * 1024
)

// Size formatting constants.
const (
	formatGB    = "%.1f GB"
	formatMB    = "%.1f MB"
	formatKB    = "%.1f KB"
	formatBytes = "%d B"
)

// Audio extensions recognized by the listing.
const (
	extMP3 = ".mp3"
	extWAV = ".wav"
	extOGG = ".ogg"
)

// Artifact describes one generated audio file.
type Artifact struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	SizeText string    `json:"sizeText"`
	ModTime  time.Time `json:"modTime"`
}

// Library reads artifacts from an audio directory.
type Library struct {
	dir string
}

// New creates a library over the given directory.
func New(dir string) *Library {
	return &Library{dir: dir}
}

// List returns the audio artifacts in the directory, newest first. A missing
// directory yields an empty listing, matching a run that has produced nothing
// yet.
func (l *Library) List() ([]Artifact, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read audio directory %s: %w", l.dir, err)
	}

	var artifacts []Artifact

	for _, entry := range entries {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), infoErr)
		}

		artifacts = append(artifacts, Artifact{
			Name:     entry.Name(),
			Path:     filepath.Join(l.dir, entry.Name()),
			Size:     info.Size(),
			SizeText: FormatFileSize(info.Size()),
			ModTime:  info.ModTime(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ModTime.After(artifacts[j].ModTime)
	})

	return artifacts, nil
}

// IsAudioFile checks whether a filename carries a supported audio extension.
func IsAudioFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extMP3, extWAV, extOGG:
		return true
	default:
		return false
	}
}

// FormatFileSize formats a file size in a human-readable string
// (e.g. "1.2 GB", "500.5 MB").
func FormatFileSize(bytes int64) string {
	switch {
	case bytes >= gigabyte:
		return fmt.Sprintf(formatGB, float64(bytes)/gigabyte)
	case bytes >= megabyte:
		return fmt.Sprintf(formatMB, float64(bytes)/megabyte)
	case bytes >= kilobyte:
		return fmt.Sprintf(formatKB, float64(bytes)/kilobyte)
	default:
		return fmt.Sprintf(formatBytes, bytes)
	}
}
