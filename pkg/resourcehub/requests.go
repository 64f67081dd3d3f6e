package resourcehub

import (
	"io"

	"github.com/google/uuid"
)

// CreatePostRequest contains parameters for creating a post.
type CreatePostRequest struct {
	Owner            string
	Blurb            string
	Link             string
	Language         string
	Keywords         []Keyword
	Rating           int
	Attachment       string
	AttachmentShared bool
}

// UpdatePostRequest contains parameters for updating a post. The update
// is a full replace of the mutable fields; Owner must match the stored
// owner or the update fails with ErrForbidden.
type UpdatePostRequest struct {
	ID               uuid.UUID
	Owner            string
	Blurb            string
	Link             string
	Language         string
	Keywords         []Keyword
	Rating           int
	Attachment       string
	AttachmentShared bool
}

// UploadAttachmentRequest contains parameters for uploading an attachment
// into the owner's vault partition. Size is the declared payload size in
// bytes; zero means unknown, in which case the limit is enforced while
// reading.
type UploadAttachmentRequest struct {
	Owner       string
	Reader      io.Reader
	Size        int64
	ContentType string
	FileName    string
}
