package config

import (
	"fmt"
	"os"
	"path/filepath"

	"punchcard/internal/fsutil"
)

const (
	appDir   = "punchcard"
	fileName = "config.json"
)

// DefaultPath returns the per-user config location,
// ~/.config/punchcard/config.json on Linux.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, fileName)
}

// LoadOptional loads path if it exists. A missing file is not an error and
// yields an empty File.
func LoadOptional(fsys fsutil.FileSystem, path string) (*File, error) {
	if !fsys.Exists(path) {
		return &File{}, nil
	}
	return LoadFS(fsys, path)
}

// Save writes f to path as indented JSON, creating parent directories.
func (f *File) Save(fsys fsutil.FileSystem, path string) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	w, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
