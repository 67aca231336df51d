// Package dotdir locates the .turnexec/ directory that holds turnexec's
// persistent configuration.
//
// A project-local ./.turnexec/ wins over the per-user ~/.turnexec/, and an
// explicit --config-dir wins over both.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the turnexec directory.
const DirName = ".turnexec"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path of the .turnexec/ directory to use.
// Order of precedence is as follows:
//  1. Provided override, created when missing
//  2. Local ./.turnexec/ dir
//  3. Home ~/.turnexec/ dir
//
// An empty path with a nil error means no directory exists yet.
func (m *Manager) Target(overrideDir string) (string, error) {
	if overrideDir != "" {
		return m.create(overrideDir)
	}

	local, err := m.localDir()
	if err != nil {
		return "", err
	}
	if isDir(local) {
		return filepath.Abs(local)
	}

	home, err := m.homeDir()
	if err != nil {
		return "", err
	}
	if isDir(home) {
		return home, nil
	}

	return "", nil
}

// Ensure behaves like Target but creates ~/.turnexec/ when nothing is found,
// so callers that persist state always get a usable directory.
func (m *Manager) Ensure(overrideDir string) (string, error) {
	target, err := m.Target(overrideDir)
	if err != nil || target != "" {
		return target, err
	}

	home, err := m.homeDir()
	if err != nil {
		return "", err
	}
	return m.create(home)
}

func (m *Manager) create(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating turnexec directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

func (m *Manager) localDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return filepath.Join(cwd, DirName), nil
}

func (m *Manager) homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
