// Package store persists settings records as files in the data directory.
//
// Every domain record lives in its own document. Writes go to a temporary
// file that is renamed over the target, and the previous version is kept
// as a .bak file next to it.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/pkg/utils"
)

// Document is a file holding one record of type T. It implements
// plugins.Service[T].
type Document[T any] struct {
	path     string
	domain   string
	format   Format
	defaults func() T
	logger   *slog.Logger

	mu sync.Mutex
}

// NewDocument returns the document for domain in dir. A missing file
// loads as defaults().
func NewDocument[T any](dir, domain string, format Format, defaults func() T, logger *slog.Logger) *Document[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Document[T]{
		path:     filepath.Join(dir, utils.SanitizeName(domain)+format.Ext()),
		domain:   domain,
		format:   format,
		defaults: defaults,
		logger:   logger.With("document", domain),
	}
}

// Path returns the file location.
func (d *Document[T]) Path() string {
	return d.path
}

// Exists reports whether the file has been written.
func (d *Document[T]) Exists() bool {
	return utils.FileExists(d.path)
}

// Load reads the record. Keys missing from the file keep their default.
func (d *Document[T]) Load(ctx context.Context) (T, error) {
	rec := d.defaults()
	if err := ctx.Err(); err != nil {
		return rec, apperrors.NewRepositoryError("load", d.domain, err)
	}

	d.mu.Lock()
	data, err := os.ReadFile(d.path)
	d.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		d.logger.Debug("no settings file, using defaults", "path", d.path)
		return rec, nil
	}
	if err != nil {
		return rec, apperrors.NewRepositoryError("load", d.domain, err)
	}

	if err := Decoder(bytes.NewReader(data), d.format)(&rec); err != nil {
		return d.defaults(), apperrors.NewRepositoryError("load", d.domain, err)
	}
	d.logger.Debug("settings loaded", "path", d.path)
	return rec, nil
}

// Save writes the record atomically, keeping the previous file as a backup.
func (d *Document[T]) Save(ctx context.Context, rec T) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewRepositoryError("save", d.domain, err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, d.format, rec); err != nil {
		return apperrors.NewRepositoryError("save", d.domain, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := writeAtomic(d.path, buf.Bytes()); err != nil {
		return apperrors.NewRepositoryError("save", d.domain, err)
	}
	d.logger.Info("settings saved", "path", d.path)
	return nil
}

// Restore replaces the file with its backup.
func (d *Document[T]) Restore() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !utils.FileExists(d.path + ".bak") {
		return apperrors.NewRepositoryError("restore", d.domain, fmt.Errorf("no backup file found"))
	}
	if err := os.Rename(d.path+".bak", d.path); err != nil {
		return apperrors.NewRepositoryError("restore", d.domain, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if current, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".bak", current, 0o644); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
