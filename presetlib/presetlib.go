// Package presetlib is the preset library the cards load from: built-in
// presets embedded into the binary, overlaid with user presets from the
// config directory. The library is handed to the engine as its
// PresetSource; nothing here is a global.
package presetlib

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/cardsynth/cardsynth"
)

//go:embed presets/*
var builtinFS embed.FS

type (
	Entry struct {
		ID     string
		User   bool
		Preset *cardsynth.Preset
	}

	Library struct {
		entries map[string]*Entry
		ids     []string
	}
)

// Load reads the built-in presets and, when available, the user presets
// under the platform config directory (cardsynth/presets). A user preset
// with the same id shadows the built-in one. Files that fail strict
// decoding or validation are skipped.
func Load() *Library {
	l := &Library{entries: make(map[string]*Entry)}
	l.loadFS(builtinFS, false)
	if configDir, err := os.UserConfigDir(); err == nil {
		userDir := filepath.Join(configDir, "cardsynth")
		l.loadFS(os.DirFS(userDir), true)
	}
	l.ids = l.ids[:0]
	for id := range l.entries {
		l.ids = append(l.ids, id)
	}
	sort.Strings(l.ids)
	return l
}

func (l *Library) loadFS(fsys fs.FS, user bool) {
	fs.WalkDir(fsys, "presets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil
		}
		var preset cardsynth.Preset
		if yaml.UnmarshalStrict(data, &preset) != nil {
			return nil
		}
		preset.ApplyDefaults()
		if preset.Validate() != nil {
			return nil
		}
		id := strings.TrimSuffix(path, filepath.Ext(path))
		id = strings.TrimPrefix(id, "presets/")
		if preset.Name == "" {
			preset.Name = strings.ReplaceAll(filepath.Base(id), "_", " ")
		}
		l.entries[id] = &Entry{ID: id, User: user, Preset: &preset}
		return nil
	})
}

// Preset implements the engine's PresetSource.
func (l *Library) Preset(id string) (*cardsynth.Preset, bool) {
	e, ok := l.entries[id]
	if !ok {
		return nil, false
	}
	return e.Preset, true
}

// IDs lists all preset ids, sorted.
func (l *Library) IDs() []string {
	return l.ids
}

// Entries iterates the library in id order.
func (l *Library) Entries(yield func(*Entry) bool) {
	for _, id := range l.ids {
		if !yield(l.entries[id]) {
			return
		}
	}
}

// Save writes a preset as a user preset file and returns its path. The
// id is the file path relative to the user presets directory, without
// extension.
func Save(id string, preset *cardsynth.Preset) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(preset)
	if err != nil {
		return "", err
	}
	fileName := filepath.Join(configDir, "cardsynth", "presets", filepath.FromSlash(id)+".yml")
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return "", err
	}
	return fileName, nil
}
