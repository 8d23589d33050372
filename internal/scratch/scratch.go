// Package scratch manages the per-request temporary files of the transcription pipeline.
//
// Every file lives directly inside the scratch directory under a name prefixed with a
// random UUID, so concurrent requests never share a path. Callers defer Release right
// after Acquire; Release never fails the request.
package scratch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	fallbackName = "upload"
	// maxNameLen bounds the sanitized name so the uuid-prefixed file name stays far below
	// the usual 255 byte file name limit
	maxNameLen = 100
	maxExtLen  = 16
)

// Handle references a file inside the scratch directory
type Handle struct {
	path string
	name string
	size int64
}

// Path returns the absolute or directory-relative location of the file
func (h *Handle) Path() string { return h.path }

// Name returns the sanitized base name, including the unique prefix
func (h *Handle) Name() string { return h.name }

// Size returns the number of bytes written by Acquire, zero for derived handles
func (h *Handle) Size() int64 { return h.size }

// Ext returns the lower-case extension without the leading dot
func (h *Handle) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(h.name), "."))
}

// Manager creates and removes files in one scratch directory
type Manager struct {
	dir    string
	logger *zap.Logger
}

// NewManager creates the scratch directory if it does not exist yet
func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	if dir == "" {
		return nil, errors.New("scratch directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", dir, err)
	}
	return &Manager{dir: dir, logger: logger}, nil
}

// Dir returns the scratch directory
func (m *Manager) Dir() string { return m.dir }

// Acquire writes r to a new uniquely named file derived from suggestedName.
// When the copy fails after the file was created, the handle is returned along with
// the error so a deferred Release still removes the partial file.
func (m *Manager) Acquire(r io.Reader, suggestedName string) (*Handle, error) {
	name := uuid.NewString() + "_" + SanitizeFilename(suggestedName)
	h := &Handle{path: filepath.Join(m.dir, name), name: name}

	f, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		m.logger.Error("Could not create scratch file",
			zap.String("path", h.path),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create scratch file: %w", withoutPath(err))
	}

	n, err := io.Copy(f, r)
	h.size = n
	if err != nil {
		f.Close()
		return h, fmt.Errorf("failed to write scratch file: %w", withoutPath(err))
	}
	if err := f.Close(); err != nil {
		return h, fmt.Errorf("failed to close scratch file: %w", withoutPath(err))
	}

	m.logger.Debug("Scratch file acquired",
		zap.String("path", h.path),
		zap.Int64("size", n))
	return h, nil
}

// Derive returns a sibling handle named <stem><suffix>.<ext>. No file is created.
func (m *Manager) Derive(h *Handle, suffix, ext string) *Handle {
	stem := strings.TrimSuffix(h.name, filepath.Ext(h.name))
	name := stem + suffix + "." + ext
	return &Handle{path: filepath.Join(filepath.Dir(h.path), name), name: name}
}

// Release removes the file behind h. A nil handle or an already missing file is a no-op;
// other failures are logged and swallowed.
func (m *Manager) Release(h *Handle) {
	if h == nil {
		return
	}
	if err := os.Remove(h.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		m.logger.Warn("Could not clean up scratch file",
			zap.String("path", h.path),
			zap.Error(err))
		return
	}
	m.logger.Debug("Scratch file released", zap.String("path", h.path))
}

// SanitizeFilename reduces name to a safe base name: no directories, no traversal,
// no control characters, only [A-Za-z0-9._-], and no leading dots. Names longer than
// maxNameLen bytes are shortened, keeping the extension.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = name[strings.LastIndex(name, "/")+1:]

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	safe := b.String()
	for strings.Contains(safe, "..") {
		safe = strings.ReplaceAll(safe, "..", ".")
	}
	safe = strings.TrimLeft(safe, "._")
	if safe == "" {
		return fallbackName
	}
	if len(safe) > maxNameLen {
		ext := filepath.Ext(safe)
		if len(ext) > maxExtLen {
			ext = ""
		}
		safe = strings.TrimRight(safe[:maxNameLen-len(ext)], ".") + ext
	}
	return safe
}

// withoutPath drops the file name from *fs.PathError so errors never expose server paths
func withoutPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.Op, pe.Err)
	}
	return err
}
