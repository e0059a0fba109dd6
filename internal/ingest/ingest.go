// Package ingest accepts uploaded document files: it enforces the
// extension allowlist, stages upload bodies to disk, and content-hashes
// them so the caller can deduplicate.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/comfythings/visaflow/constants"
	"github.com/comfythings/visaflow/internal/common"
)

// Staged is one upload written to the staging directory.
type Staged struct {
	Path       string
	Name       string // original client-side filename
	Ext        string // lowercased, without '.'
	HashHex    string
	Size       int64
	UploadedAt time.Time
}

// Stager writes upload bodies into a staging directory.
type Stager struct {
	dir    string
	logger *slog.Logger
}

func NewStager(dir string, logger *slog.Logger) (*Stager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Stager{dir: dir, logger: logger}, nil
}

// Stage copies r into the staging directory under a fresh name,
// hashing the content as it streams. The extension must be on the
// allowlist; anything else is rejected before a byte is written.
func (s *Stager) Stage(filename string, r io.Reader) (Staged, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if !AllowedExt(ext) {
		return Staged{}, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported or missing extension: %q", ext), common.ErrInvalidInput)
	}

	f, err := os.CreateTemp(s.dir, "upload-*."+ext)
	if err != nil {
		return Staged{}, fmt.Errorf("create staging file: %w", err)
	}

	h := sha256.New()
	size, err := io.Copy(f, io.TeeReader(r, h))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rmErr := os.Remove(f.Name()); rmErr != nil {
			s.logger.Warn("failed to remove partial staging file", "path", f.Name(), "error", rmErr)
		}
		return Staged{}, fmt.Errorf("stage upload: %w", err)
	}

	st := Staged{
		Path:       f.Name(),
		Name:       filepath.Base(filename),
		Ext:        ext,
		HashHex:    hex.EncodeToString(h.Sum(nil)),
		Size:       size,
		UploadedAt: time.Now().UTC(),
	}
	s.logger.Debug("staged upload", "name", st.Name, "path", st.Path, "size", st.Size, "hash", st.HashHex)
	return st, nil
}

// Owns reports whether path lives inside the staging directory.
// Watched drop-folder files are processed in place and must not be
// deleted after a job finishes; staged uploads must.
func (s *Stager) Owns(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Remove deletes a staged file. Missing files are not an error.
func (s *Stager) Remove(st Staged) {
	if st.Path == "" {
		return
	}
	if err := os.Remove(st.Path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove staged file", "path", st.Path, "error", err)
	}
}

// AllowedExt reports whether a normalized extension is in the allowed
// set (pdf/jpg/jpeg/png).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden reports whether a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
