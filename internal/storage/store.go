// Package storage holds uploaded files behind a key-addressed interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("file not found")

// FileStore saves and reads uploaded files by key.
type FileStore interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Read(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds a collision-free key for an upload: <owner>/<uuid>_<name>.
func NewKey(owner uint, filename string) string {
	return fmt.Sprintf("%d/%s_%s", owner, uuid.NewString(), SafeFilename(filename))
}

// SafeFilename strips directories and separators from a client-supplied name.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}
