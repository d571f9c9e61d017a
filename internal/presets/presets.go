// Package presets stores voice favorites and named synthesis presets in a
// JSON file next to the application, surviving between runs.
package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/socarrandinn/tts-text-to-voice/internal/core"
)

const filePermissions = 0o600

// maxFavorites caps the favorites list at the most recent entries.
const maxFavorites = 5

// ErrPresetNotFound indicates that a named preset does not exist.
var ErrPresetNotFound = errors.New("preset not found")

// Preset holds one saved combination of synthesis settings.
type Preset struct {
	Voice  string `json:"voice"`
	Format string `json:"format"`
	Rate   string `json:"rate,omitempty"`
	Volume string `json:"volume,omitempty"`
	Pitch  string `json:"pitch,omitempty"`
}

// Store is the persistent preset state. Save is safe for concurrent use.
type Store struct {
	Favorites    []string          `json:"favorites"`
	LastVoice    string            `json:"last_voice"`
	AudioFormat  string            `json:"audio_format"`
	SavedPresets map[string]Preset `json:"saved_presets"`

	path string
	mu   sync.RWMutex
}

// Snapshot is a point-in-time copy of the store, detached from the mutex so
// it can be serialized while other goroutines keep mutating the store.
type Snapshot struct {
	Favorites    []string          `json:"favorites"`
	LastVoice    string            `json:"last_voice"`
	AudioFormat  string            `json:"audio_format"`
	SavedPresets map[string]Preset `json:"saved_presets"`
}

// defaultStore mirrors the defaults the application started with before any
// preset was saved.
func defaultStore(path string) *Store {
	return &Store{
		Favorites:   []string{"es-MX-DaliaNeural", "es-ES-AlvaroNeural"},
		LastVoice:   "es-MX-DaliaNeural",
		AudioFormat: "mp3",
		SavedPresets: map[string]Preset{
			"default": {
				Voice:  "es-MX-DaliaNeural",
				Format: "mp3",
				Rate:   "",
				Volume: "",
				Pitch:  "",
			},
		},
		path: path,
	}
}

// Load reads the preset store from disk. A missing or corrupt file yields a
// freshly persisted default store rather than an error.
func Load(path string) (*Store, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return resetToDefaults(path)
	}

	store := &Store{path: path}

	unmarshalErr := json.Unmarshal(data, store)
	if unmarshalErr != nil {
		return resetToDefaults(path)
	}

	if store.SavedPresets == nil {
		store.SavedPresets = make(map[string]Preset)
	}

	return store, nil
}

func resetToDefaults(path string) (*Store, error) {
	store := defaultStore(path)

	saveErr := store.Save()
	if saveErr != nil {
		return nil, saveErr
	}

	return store, nil
}

// Save persists the store to its file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	writeErr := os.WriteFile(s.path, data, filePermissions)
	if writeErr != nil {
		return fmt.Errorf("failed to write presets file %s: %w", s.path, writeErr)
	}

	return nil
}

// Snapshot copies the store under the read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favorites := make([]string, len(s.Favorites))
	copy(favorites, s.Favorites)

	saved := make(map[string]Preset, len(s.SavedPresets))
	for name, preset := range s.SavedPresets {
		saved[name] = preset
	}

	return Snapshot{
		Favorites:    favorites,
		LastVoice:    s.LastVoice,
		AudioFormat:  s.AudioFormat,
		SavedPresets: saved,
	}
}

// Apply overlays a named preset onto the given options.
func (s *Store) Apply(name string, opts core.SynthesisOptions) (core.SynthesisOptions, error) {
	s.mu.RLock()
	preset, ok := s.SavedPresets[name]
	s.mu.RUnlock()

	if !ok {
		return opts, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}

	if preset.Voice != "" {
		opts.Voice = preset.Voice
	}

	if preset.Format != "" {
		opts.Format = preset.Format
	}

	if preset.Rate != "" {
		opts.Rate = preset.Rate
	}

	if preset.Volume != "" {
		opts.Volume = preset.Volume
	}

	if preset.Pitch != "" {
		opts.Pitch = preset.Pitch
	}

	return opts, nil
}

// SetPreset stores a named preset.
func (s *Store) SetPreset(name string, preset Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SavedPresets == nil {
		s.SavedPresets = make(map[string]Preset)
	}

	s.SavedPresets[name] = preset
}

// AddFavorite records a voice as favorite, most recent first, without
// duplicates, keeping only the most recent entries. It also becomes the last
// used voice.
func (s *Store) AddFavorite(voice string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := []string{voice}

	for _, existing := range s.Favorites {
		if len(favorites) == maxFavorites {
			break
		}

		if existing != voice {
			favorites = append(favorites, existing)
		}
	}

	s.Favorites = favorites
	s.LastVoice = voice
}

// RememberVoice records the last used voice.
func (s *Store) RememberVoice(voice string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastVoice = voice
}
