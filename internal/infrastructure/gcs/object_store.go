package gcs

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/pkg/helpers"
)

// Object paths are unique per upload.
const thumbnailCacheControl = "public, max-age=86400"

// ObjectStore writes uploads into a single public bucket.
type ObjectStore struct {
	client *storage.Client
	bucket string
}

func NewObjectStore(client *storage.Client, bucket string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket}
}

// Put streams r into objectPath and returns its public URL. The object only
// becomes visible once the writer closes cleanly.
func (s *ObjectStore) Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = thumbnailCacheControl
	w.ChunkSize = 0 // single request
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", objectPath, err)
	}
	return helpers.PublicObjectURL(s.bucket, objectPath), nil
}

var _ repository.ObjectStore = (*ObjectStore)(nil)
