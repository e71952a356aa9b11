// Package workspace manages the scratch directories a test scenario writes
// generated artifacts into.
//
// Every scenario owns exactly one workspace. Directories are created with a
// collision-free random token in their name and removed unconditionally at
// scenario end, even when the scenario failed partway through.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Handle is a live scratch directory bound to one scenario.
type Handle struct {
	// Path is the absolute path of the scratch directory.
	Path string

	released bool
}

// Join resolves a path relative to the workspace root.
func (h *Handle) Join(elem ...string) string {
	return filepath.Join(append([]string{h.Path}, elem...)...)
}

// Manager creates and destroys scratch workspaces under a single root.
type Manager struct {
	// Root is the parent directory for all workspaces. Empty means the
	// system temporary directory.
	Root string

	// Prefix names the workspaces for operator recognition in the scratch
	// root. Empty defaults to "oasgen".
	Prefix string
}

// Acquire creates a uniquely named workspace directory and returns its
// handle. Failure to create the directory is fatal to the scenario; there is
// nothing useful the caller can do without scratch space.
func (m *Manager) Acquire() (*Handle, error) {
	root := m.Root
	if root == "" {
		root = os.TempDir()
	}
	prefix := m.Prefix
	if prefix == "" {
		prefix = "oasgen"
	}

	path := filepath.Join(root, fmt.Sprintf("%s-%s", prefix, uuid.NewString()))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", path, err)
	}
	return &Handle{Path: path}, nil
}

// Release recursively removes the workspace directory. It is idempotent:
// releasing an already-removed workspace is not an error.
func (m *Manager) Release(h *Handle) error {
	if h == nil || h.released {
		return nil
	}
	h.released = true
	if err := os.RemoveAll(h.Path); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", h.Path, err)
	}
	return nil
}

// With acquires a workspace, runs fn against it, and releases the workspace
// on every exit path. A release failure is reported only when fn itself
// succeeded; it never masks fn's error.
func (m *Manager) With(fn func(h *Handle) error) error {
	h, err := m.Acquire()
	if err != nil {
		return err
	}

	fnErr := fn(h)
	if relErr := m.Release(h); relErr != nil && fnErr == nil {
		return relErr
	}
	return fnErr
}
