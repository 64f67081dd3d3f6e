package resourcehub

import (
	"context"

	"github.com/google/uuid"
)

// Service is the unified interface for post metadata lifecycle,
// attachment vault access, and feed assembly.
//
// All typed errors (ErrPostNotFound, ErrForbidden, ErrUnauthenticated,
// ErrValidation, ErrSizeExceeded) pass through unchanged so the service
// boundary can map them to response codes.
type Service interface {
	// Post metadata operations

	// CreatePost validates the fields, assigns id and creation time, and
	// persists the post for req.Owner.
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// GetPost returns the post with the given id.
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)

	// UpdatePost replaces the mutable fields of the post in one atomic
	// ownership-checked act. A superseded attachment blob is deleted.
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)

	// DeletePost removes the post and its attachment blob, if any.
	DeletePost(ctx context.Context, id uuid.UUID, owner string) error

	// ListPostsByOwner returns all posts owned by owner, newest first.
	ListPostsByOwner(ctx context.Context, owner string) ([]*Post, error)

	// ListAllPosts returns posts across all owners, newest first.
	// limit <= 0 returns the full set.
	ListAllPosts(ctx context.Context, limit, offset int) ([]*Post, error)

	// Attachment vault operations

	// UploadAttachment stores the payload under a freshly generated key
	// in the owner's partition and returns the key. Payloads over the
	// configured maximum fail with ErrSizeExceeded before any write.
	UploadAttachment(ctx context.Context, req UploadAttachmentRequest) (string, error)

	// AttachmentURL resolves a vault key to a signed, time-bounded URL.
	// Keys outside the owner's partition fail with ErrForbidden.
	AttachmentURL(ctx context.Context, owner, key string) (string, error)

	// DeleteAttachment removes the blob. Absent keys are not an error.
	DeleteAttachment(ctx context.Context, owner, key string) error

	// Feed assembly

	// PersonalFeed assembles the principal's posts into presentation
	// views. An empty principal fails with ErrUnauthenticated.
	PersonalFeed(ctx context.Context, principal string) ([]*PostView, error)

	// GlobalFeed assembles every post into views. Attachment URLs are
	// resolved only for the post owner or explicitly shared attachments;
	// viewer may be empty for anonymous access.
	GlobalFeed(ctx context.Context, viewer string) ([]*PostView, error)

	// GetPostView returns a single post as a presentation view, with the
	// same attachment scoping as GlobalFeed.
	GetPostView(ctx context.Context, id uuid.UUID, viewer string) (*PostView, error)
}
