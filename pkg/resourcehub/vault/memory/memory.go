package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultSignedURLTTL is the lifetime stamped on signed URLs when no
// TTL is given.
const DefaultSignedURLTTL = 15 * time.Minute

// Backend is an in-memory blob vault. It is intended for tests and
// local development; signed URLs use a fake memory:// scheme.
type Backend struct {
	mu           sync.RWMutex
	blobs        map[string][]byte
	contentTypes map[string]string
	ttl          time.Duration
}

// New creates a new in-memory vault backend
func New() *Backend {
	return NewWithTTL(DefaultSignedURLTTL)
}

// NewWithTTL creates a new in-memory vault backend with a custom
// signed URL lifetime
func NewWithTTL(ttl time.Duration) *Backend {
	return &Backend{
		blobs:        make(map[string][]byte),
		contentTypes: make(map[string]string),
		ttl:          ttl,
	}
}

// Put stores a blob directly
func (b *Backend) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = data
	b.contentTypes[key] = contentType
	return nil
}

// SignedURL returns a fake signed URL for a stored blob. The blob must
// exist; there is nothing to sign for a missing key.
func (b *Backend) SignedURL(ctx context.Context, key string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, exists := b.blobs[key]; !exists {
		return "", errors.New("blob not found")
	}

	expires := time.Now().Add(b.ttl).Unix()
	return fmt.Sprintf("memory://%s?expires=%d", key, expires), nil
}

// Delete removes a blob. Deleting a missing key is not an error.
func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.blobs, key)
	delete(b.contentTypes, key)
	return nil
}

// Open reads a stored blob back. It exists so tests can verify what
// Put wrote.
func (b *Backend) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.blobs[key]
	if !exists {
		return nil, errors.New("blob not found")
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// ContentType reports the content type recorded for a stored blob.
func (b *Backend) ContentType(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ct, exists := b.contentTypes[key]
	return ct, exists
}
