// Package filesystem routes every file access of syncwatch through a swappable afero backend.
//
// Configuration, logs and caches all go through API(), so tests can run against memory.
package filesystem

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.RWMutex
	backend = afero.Afero{Fs: afero.NewOsFs()}
)

// API returns the active backend.
func API() afero.Afero {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Use replaces the backend with fs.
func Use(fs afero.Fs) {
	mu.Lock()
	defer mu.Unlock()
	backend = afero.Afero{Fs: fs}
}

// SetOsFs restores the native filesystem.
func SetOsFs() {
	Use(afero.NewOsFs())
}

// SetMemMapFs switches to a fresh in-memory filesystem.
func SetMemMapFs() {
	Use(afero.NewMemMapFs())
}

// Exists reports whether path exists. Errors other than not-exist count as present.
func Exists(path string) bool {
	_, err := API().Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// Remove deletes path and everything below it. A missing path is not an error.
// It returns whether something was removed.
func Remove(path string) (bool, error) {
	if !Exists(path) {
		return false, nil
	}
	if err := API().RemoveAll(path); err != nil {
		return false, err
	}
	return true, nil
}
