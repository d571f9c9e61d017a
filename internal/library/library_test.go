// Package library_test tests artifact listing.
package library_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socarrandinn/tts-text-to-voice/internal/library"
)

func TestListMissingDirectory(t *testing.T) {
	t.Parallel()

	artifacts, err := library.New(filepath.Join(t.TempDir(), "nope")).List()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	older := filepath.Join(dir, "older.mp3")
	newer := filepath.Join(dir, "newer.wav")

	require.NoError(t, os.WriteFile(older, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(newer, []byte("bb"), 0o600))

	// Make the ordering deterministic regardless of filesystem timestamp
	// resolution.
	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	artifacts, err := library.New(dir).List()
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	assert.Equal(t, "newer.wav", artifacts[0].Name)
	assert.Equal(t, "older.mp3", artifacts[1].Name)
	assert.Equal(t, newer, artifacts[0].Path)
	assert.Equal(t, int64(2), artifacts[0].Size)
	assert.Equal(t, "2 B", artifacts[0].SizeText)
}

func TestListSkipsNonAudioEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sermon.mp3"), []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("b"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o750))

	artifacts, err := library.New(dir).List()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "sermon.mp3", artifacts[0].Name)
}

func TestIsAudioFile(t *testing.T) {
	t.Parallel()

	assert.True(t, library.IsAudioFile("a.mp3"))
	assert.True(t, library.IsAudioFile("A.WAV"))
	assert.True(t, library.IsAudioFile("a.ogg"))
	assert.False(t, library.IsAudioFile("a.flac"))
	assert.False(t, library.IsAudioFile("a"))
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", library.FormatFileSize(512))
	assert.Equal(t, "1.0 KB", library.FormatFileSize(1024))
	assert.Equal(t, "1.5 MB", library.FormatFileSize(1024*1024+512*1024))
	assert.Equal(t, "2.0 GB", library.FormatFileSize(2*1024*1024*1024))
}
