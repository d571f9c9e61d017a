// Package input_test tests the sermon text loader.
package input_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socarrandinn/tts-text-to-voice/internal/input"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "sermon.txt", "Dios es amor.")

	sermon, err := input.FromFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, sermon.Source)
	assert.Equal(t, "Dios es amor.", sermon.Body)
}

func TestFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := input.FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, input.ErrInputFileMissing)
}

func TestFromFileEmpty(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "empty.txt", "  \n\t\n")

	_, err := input.FromFile(path)
	require.ErrorIs(t, err, input.ErrEmptyText)
}

func TestFromFileWrongExtension(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "sermon.mp3", "not text")

	_, err := input.FromFile(path)
	require.ErrorIs(t, err, input.ErrNotTextFile)
}

func TestFromString(t *testing.T) {
	t.Parallel()

	sermon, err := input.FromString("Dios es amor.")
	require.NoError(t, err)

	assert.Empty(t, sermon.Source)
	assert.Equal(t, "Dios es amor.", sermon.Body)
}

func TestFromStringEmpty(t *testing.T) {
	t.Parallel()

	_, err := input.FromString("   ")
	require.ErrorIs(t, err, input.ErrEmptyText)
}

func TestLoadPrefersFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "sermon.md", "From the file.")

	sermon, err := input.Load(path, "from the literal")
	require.NoError(t, err)
	assert.Equal(t, "From the file.", sermon.Body)
}

func TestLoadNoInput(t *testing.T) {
	t.Parallel()

	_, err := input.Load("", "")
	require.ErrorIs(t, err, input.ErrNoInput)
}

func TestParagraphs(t *testing.T) {
	t.Parallel()

	sermon, err := input.FromString("First paragraph.\n\nSecond paragraph.\n\n   \n\nThird.")
	require.NoError(t, err)

	paragraphs := sermon.Paragraphs()
	require.Len(t, paragraphs, 3)
	assert.Equal(t, "First paragraph.", paragraphs[0])
	assert.Equal(t, "Second paragraph.", paragraphs[1])
	assert.Equal(t, "Third.", paragraphs[2])
}
