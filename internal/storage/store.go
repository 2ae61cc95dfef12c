// Package storage keeps uploaded attachments in a blob store addressed by
// (entity kind, entity id, file kind).
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

type Scope struct {
	EntityKind string
	EntityID   uint
	FileKind   string
}

const (
	EntityTask = "task"
	EntityEdit = "edit"
)

func (s Scope) prefix() string {
	return path.Join(s.EntityKind, fmt.Sprint(s.EntityID), s.FileKind)
}

type Store interface {
	Put(ctx context.Context, scope Scope, suggestedName string, data []byte) (string, error)
	Get(ctx context.Context, scope Scope, storedName string) ([]byte, error)
	Delete(ctx context.Context, scope Scope, storedName string) error
}

var ErrNotFound = errors.New("blob not found")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a user supplied name to a safe base name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Trim(unsafeChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), ""), "._")
	if name == "" {
		return "file"
	}
	return name
}

// StoredName derives a collision resistant name for a new blob.
func StoredName(original string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "_" + SanitizeFilename(original)
}

// validStoredName rejects names that could escape their scope.
func validStoredName(name string) bool {
	return name != "" && name == filepath.Base(name) && !strings.Contains(name, "..")
}

var allowedExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"ppt": true, "pptx": true, "txt": true, "csv": true, "zip": true,
	"rar": true, "png": true, "jpg": true, "jpeg": true, "gif": true,
}

func AllowedFile(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return allowedExtensions[ext]
}
