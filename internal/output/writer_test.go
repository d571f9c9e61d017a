// Package output_test tests the atomic artifact writer.
package output_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
	"github.com/socarrandinn/tts-text-to-voice/internal/output"
)

func TestNewWriterEmptyDir(t *testing.T) {
	t.Parallel()

	_, err := output.NewWriter("")
	require.ErrorIs(t, err, output.ErrEmptyDir)
}

func TestWriteCreatesTimestampedArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writer, err := output.NewWriter(dir)
	require.NoError(t, err)

	path, err := writer.Write("sunday sermon", audio.FormatMP3, []byte("audio-bytes"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "sunday_sermon_"))
	assert.True(t, strings.HasSuffix(path, ".mp3"))

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("audio-bytes"), data)
}

func TestWriteEmptyBaseNameFallsBack(t *testing.T) {
	t.Parallel()

	writer, err := output.NewWriter(t.TempDir())
	require.NoError(t, err)

	path, err := writer.Write("  ", audio.FormatOGG, []byte("x"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "sermon_"))
}

func TestWriteToOverwrites(t *testing.T) {
	t.Parallel()

	writer, err := output.NewWriter(t.TempDir())
	require.NoError(t, err)

	path := filepath.Join(writer.Dir(), "out.wav")

	_, err = writer.WriteTo(path, []byte("first"))
	require.NoError(t, err)

	_, err = writer.WriteTo(path, []byte("second"))
	require.NoError(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, []byte("second"), data)
}

func TestWriteToEmptyAudio(t *testing.T) {
	t.Parallel()

	writer, err := output.NewWriter(t.TempDir())
	require.NoError(t, err)

	_, err = writer.WriteTo(filepath.Join(writer.Dir(), "out.mp3"), nil)
	require.ErrorIs(t, err, output.ErrEmptyAudio)
}

func TestWriteToUnwritableDestinationLeavesNoPartialFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// A regular file where the destination directory should be makes
	// MkdirAll fail.
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	writer, err := output.NewWriter(dir)
	require.NoError(t, err)

	target := filepath.Join(blocker, "out.mp3")

	_, err = writer.WriteTo(target, []byte("audio"))
	require.Error(t, err)

	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))

	// No temp leftovers either.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1)
	assert.Equal(t, "blocked", entries[0].Name())
}

func TestSanitizeBaseName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a_b_c", output.SanitizeBaseName(`a/b:c`))
	assert.Equal(t, "sermon", output.SanitizeBaseName("sermon"))
	assert.Equal(t, "", output.SanitizeBaseName("***"))
}
