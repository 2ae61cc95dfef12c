package services

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	apperrors "task-assignment.com/task-assignment/internal/errors"
	"task-assignment.com/task-assignment/internal/logging"
	"task-assignment.com/task-assignment/internal/storage"
)

// Upload is one file received with a request.
type Upload struct {
	Filename string
	Data     []byte
}

// usableUploads drops entries without a filename and rejects disallowed
// extensions.
func usableUploads(uploads []Upload) ([]Upload, error) {
	usable := make([]Upload, 0, len(uploads))
	for _, u := range uploads {
		if strings.TrimSpace(u.Filename) == "" {
			continue
		}
		if !storage.AllowedFile(u.Filename) {
			return nil, apperrors.Validation("File type not allowed: " + u.Filename)
		}
		usable = append(usable, u)
	}
	return usable, nil
}

type storedBlob struct {
	Scope      storage.Scope
	StoredName string
	Original   string
}

// blobBatch tracks every blob written for one operation so they can be
// removed together if the operation does not commit.
type blobBatch struct {
	store storage.Store

	mu      sync.Mutex
	written []storedBlob
}

func newBlobBatch(store storage.Store) *blobBatch {
	return &blobBatch{store: store}
}

// putAll writes uploads concurrently. On failure the blobs written by this
// call stay tracked and are removed by rollback.
func (b *blobBatch) putAll(ctx context.Context, scope storage.Scope, uploads []Upload) ([]storedBlob, error) {
	results := make([]storedBlob, len(uploads))
	errs := make([]error, len(uploads))

	var wg sync.WaitGroup
	for i, u := range uploads {
		wg.Add(1)
		go func(i int, u Upload) {
			defer wg.Done()
			name, err := b.store.Put(ctx, scope, u.Filename, u.Data)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = storedBlob{Scope: scope, StoredName: name, Original: u.Filename}
			b.mu.Lock()
			b.written = append(b.written, results[i])
			b.mu.Unlock()
		}(i, u)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (b *blobBatch) rollback(ctx context.Context) {
	b.mu.Lock()
	written := b.written
	b.written = nil
	b.mu.Unlock()

	removeBlobs(context.WithoutCancel(ctx), b.store, written)
}

func removeBlobs(ctx context.Context, store storage.Store, blobs []storedBlob) {
	for _, blob := range blobs {
		if err := store.Delete(ctx, blob.Scope, blob.StoredName); err != nil {
			logging.Logger.WithFields(logrus.Fields{
				"blob":  blob.StoredName,
				"scope": blob.Scope,
			}).WithError(err).Warn("failed to remove blob")
		}
	}
}
