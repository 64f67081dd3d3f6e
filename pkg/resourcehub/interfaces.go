package resourcehub

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the interface for post metadata persistence.
//
// UpdatePost and DeletePost perform the ownership check and the mutation
// as a single atomic act: there is no observable window between the
// check and the write, and a failed call leaves no partial write.
type Repository interface {
	CreatePost(ctx context.Context, post *Post) error

	// GetPost returns ErrPostNotFound when no post has the given id.
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)

	// UpdatePost replaces the mutable fields of the stored post after
	// atomically verifying that the stored owner equals post.Owner.
	// Returns ErrForbidden on owner mismatch, ErrPostNotFound if absent.
	UpdatePost(ctx context.Context, post *Post) error

	// DeletePost removes the post after the same atomic ownership check.
	// Deleting an already-deleted post returns ErrPostNotFound.
	DeletePost(ctx context.Context, id uuid.UUID, owner string) error

	// ListPostsByOwner returns every post owned by owner, newest first.
	ListPostsByOwner(ctx context.Context, owner string) ([]*Post, error)

	// ListAllPosts returns posts regardless of owner, newest first.
	// limit <= 0 returns the full set; otherwise limit/offset page it.
	ListAllPosts(ctx context.Context, limit, offset int) ([]*Post, error)
}

// Vault defines the interface for attachment blob backends. Partition
// scoping and size limits are enforced by the service layer; a Vault only
// moves bytes for fully qualified keys.
type Vault interface {
	// Put stores the blob under key. A failed Put must not leave a
	// partially written blob retrievable.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// SignedURL returns a retrieval URL valid for a bounded time window.
	SignedURL(ctx context.Context, key string) (string, error)

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
