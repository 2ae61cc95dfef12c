package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes blobs below a root directory on the local filesystem.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) dir(scope Scope) string {
	return filepath.Join(s.root, filepath.FromSlash(scope.prefix()))
}

func (s *LocalStore) Put(_ context.Context, scope Scope, suggestedName string, data []byte) (string, error) {
	dir := s.dir(scope)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}

	name := StoredName(suggestedName)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return name, nil
}

func (s *LocalStore) Get(_ context.Context, scope Scope, storedName string) ([]byte, error) {
	if !validStoredName(storedName) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir(scope), storedName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *LocalStore) Delete(_ context.Context, scope Scope, storedName string) error {
	if !validStoredName(storedName) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.dir(scope), storedName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
