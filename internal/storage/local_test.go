package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStore_PutGetDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ctx := context.Background()
	scope := Scope{EntityKind: EntityTask, EntityID: 7, FileKind: "submission"}

	name, err := store.Put(ctx, scope, "../../etc/Final Report.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasSuffix(name, "_Final_Report.pdf") {
		t.Errorf("unexpected stored name %q", name)
	}
	if _, err := os.Stat(filepath.Join(root, "task", "7", "submission", name)); err != nil {
		t.Errorf("expected blob under its scope: %v", err)
	}

	data, err := store.Get(ctx, scope, name)
	if err != nil || string(data) != "content" {
		t.Fatalf("get: %q, %v", data, err)
	}

	if _, err := store.Get(ctx, Scope{EntityKind: EntityTask, EntityID: 8, FileKind: "submission"}, name); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found in another scope, got %v", err)
	}

	if err := store.Delete(ctx, scope, name); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, scope, name); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir())
	scope := Scope{EntityKind: EntityTask, EntityID: 1, FileKind: "task"}

	if _, err := store.Get(context.Background(), scope, "../../secret"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected traversal to be rejected, got %v", err)
	}
}

func TestStoredName_IsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		name := StoredName("a.txt")
		if seen[name] {
			t.Fatalf("duplicate stored name %s", name)
		}
		seen[name] = true
	}
}

func TestAllowedFile(t *testing.T) {
	for name, want := range map[string]bool{
		"report.PDF":  true,
		"photo.jpeg":  true,
		"archive.zip": true,
		"script.sh":   false,
		"noextension": false,
	} {
		if got := AllowedFile(name); got != want {
			t.Errorf("AllowedFile(%q) = %v, want %v", name, got, want)
		}
	}
}
