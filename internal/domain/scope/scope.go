// Package scope manages per-request working directories. Every request
// that needs disk space acquires a Scope, writes into it, and releases
// it when the response has been produced, success or failure alike.
package scope

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"imagesense/internal/platform/errors"
	"imagesense/internal/platform/logging"
)

// Manager hands out request-scoped directories under a common root.
type Manager struct {
	root   string
	logger *logging.Logger
}

// NewManager creates the root directory if it does not exist yet.
func NewManager(root string, logger *logging.Logger) (*Manager, error) {
	if root == "" {
		return nil, errors.New(errors.KindConfig, "scope.NewManager", "workspace root is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "scope.NewManager", "failed to create workspace root", err)
	}
	return &Manager{root: root, logger: logger}, nil
}

// Scope is a private working directory for a single request.
type Scope struct {
	Dir     string
	manager *Manager
}

// Acquire allocates a fresh directory. The caller must Release it.
func (m *Manager) Acquire() (*Scope, error) {
	dir := filepath.Join(m.root, "req-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "scope.Acquire", "failed to create request directory", err)
	}
	m.logger.DebugTag("SCOPE", "acquired %s", dir)
	return &Scope{Dir: dir, manager: m}, nil
}

// SaveUpload streams an uploaded payload into the scope under a
// sanitized version of the client-supplied filename.
func (s *Scope) SaveUpload(filename string, r io.Reader) (string, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		name = "upload.bin"
	}
	path := filepath.Join(s.Dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.KindStorage, "scope.SaveUpload", "failed to create upload file", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(errors.KindStorage, "scope.SaveUpload", "failed to write upload file", err)
	}
	return path, nil
}

// WriteFile stores generated output (audio, derived images) in the scope.
func (s *Scope) WriteFile(name string, data []byte) (string, error) {
	path := filepath.Join(s.Dir, sanitizeFilename(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(errors.KindStorage, "scope.WriteFile", "failed to write file", err)
	}
	return path, nil
}

// Release removes the scope directory and everything in it. Removal
// failures are logged, not returned: by the time a scope is released
// the response is already decided.
func (s *Scope) Release() {
	if s == nil || s.Dir == "" {
		return
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		s.manager.logger.WarnTag("SCOPE", "failed to remove %s: %v", s.Dir, err)
		return
	}
	s.manager.logger.DebugTag("SCOPE", "released %s", s.Dir)
}

// sanitizeFilename strips path components and characters that have no
// business in a stored filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return ""
	}
	return out
}
