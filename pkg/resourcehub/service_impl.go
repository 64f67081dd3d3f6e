package resourcehub

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/resource-hub/pkg/resourcehub/vaultkey"
)

// Defaults applied when no option overrides them.
const (
	// DefaultMaxAttachmentSize caps attachment payloads at 5 MB.
	DefaultMaxAttachmentSize int64 = 5_000_000

	// DefaultFeedWorkers bounds per-post resolution fan-out during feed
	// assembly.
	DefaultFeedWorkers = 8
)

// service implements the Service interface
type service struct {
	repository        Repository
	vault             Vault
	keys              vaultkey.Generator
	maxAttachmentSize int64
	feedWorkers       int
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithVault sets the attachment vault backend for the service
func WithVault(vault Vault) Option {
	return func(s *service) {
		s.vault = vault
	}
}

// WithKeyGenerator overrides the vault key generation strategy
func WithKeyGenerator(gen vaultkey.Generator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithMaxAttachmentSize sets the maximum accepted attachment payload size
func WithMaxAttachmentSize(limit int64) Option {
	return func(s *service) {
		if limit > 0 {
			s.maxAttachmentSize = limit
		}
	}
}

// WithFeedWorkers caps the per-post resolution parallelism during feed
// assembly
func WithFeedWorkers(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.feedWorkers = n
		}
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keys:              vaultkey.New(),
		maxAttachmentSize: DefaultMaxAttachmentSize,
		feedWorkers:       DefaultFeedWorkers,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.vault == nil {
		return nil, fmt.Errorf("vault is required")
	}

	return s, nil
}

// Post metadata operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.Owner == "" {
		return nil, ErrUnauthenticated
	}
	if err := validatePostFields(req.Blurb, req.Link, req.Keywords, req.Rating); err != nil {
		return nil, err
	}
	if req.Attachment != "" && !s.keys.Owns(req.Owner, req.Attachment) {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	post := &Post{
		ID:               uuid.New(),
		Owner:            req.Owner,
		Blurb:            req.Blurb,
		Link:             req.Link,
		Language:         req.Language,
		Keywords:         dedupeKeywords(req.Keywords),
		Rating:           req.Rating,
		Attachment:       req.Attachment,
		AttachmentShared: req.AttachmentShared,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "create", Err: err}
	}

	return post, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repository.GetPost(ctx, id)
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.Owner == "" {
		return nil, ErrUnauthenticated
	}
	if err := validatePostFields(req.Blurb, req.Link, req.Keywords, req.Rating); err != nil {
		return nil, err
	}
	if req.Attachment != "" && !s.keys.Owns(req.Owner, req.Attachment) {
		return nil, ErrForbidden
	}

	// The prior record is needed to release a superseded attachment blob.
	// The ownership gate itself is the repository's atomic check-and-act,
	// not this read.
	prior, err := s.repository.GetPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:               req.ID,
		Owner:            req.Owner,
		Blurb:            req.Blurb,
		Link:             req.Link,
		Language:         req.Language,
		Keywords:         dedupeKeywords(req.Keywords),
		Rating:           req.Rating,
		Attachment:       req.Attachment,
		AttachmentShared: req.AttachmentShared,
		CreatedAt:        prior.CreatedAt,
		UpdatedAt:        time.Now().UTC(),
	}

	if err := s.repository.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		return nil, &PostError{PostID: post.ID, Op: "update", Err: err}
	}

	if prior.Attachment != "" && prior.Attachment != post.Attachment {
		if err := s.vault.Delete(ctx, prior.Attachment); err != nil {
			slog.Warn("failed to delete superseded attachment",
				"post_id", post.ID, "key", prior.Attachment, "error", err)
		}
	}

	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID, owner string) error {
	if owner == "" {
		return ErrUnauthenticated
	}

	prior, err := s.repository.GetPost(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeletePost(ctx, id, owner); err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrPostNotFound) {
			return err
		}
		return &PostError{PostID: id, Op: "delete", Err: err}
	}

	if prior.Attachment != "" {
		if err := s.vault.Delete(ctx, prior.Attachment); err != nil {
			slog.Warn("failed to delete attachment of removed post",
				"post_id", id, "key", prior.Attachment, "error", err)
		}
	}

	return nil
}

func (s *service) ListPostsByOwner(ctx context.Context, owner string) ([]*Post, error) {
	return s.repository.ListPostsByOwner(ctx, owner)
}

func (s *service) ListAllPosts(ctx context.Context, limit, offset int) ([]*Post, error) {
	return s.repository.ListAllPosts(ctx, limit, offset)
}

// Attachment vault operations

func (s *service) UploadAttachment(ctx context.Context, req UploadAttachmentRequest) (string, error) {
	if req.Owner == "" {
		return "", ErrUnauthenticated
	}
	if req.Size > s.maxAttachmentSize {
		return "", ErrSizeExceeded
	}

	// Buffer up to one byte past the limit so oversized payloads are
	// rejected before the vault sees a single write.
	payload, err := io.ReadAll(io.LimitReader(req.Reader, s.maxAttachmentSize+1))
	if err != nil {
		return "", &VaultError{Op: "upload", Err: err}
	}
	if int64(len(payload)) > s.maxAttachmentSize {
		return "", ErrSizeExceeded
	}

	key := s.keys.Generate(req.Owner, req.FileName)
	if err := s.vault.Put(ctx, key, bytes.NewReader(payload), req.ContentType); err != nil {
		return "", &VaultError{Key: key, Op: "put", Err: err}
	}

	return key, nil
}

func (s *service) AttachmentURL(ctx context.Context, owner, key string) (string, error) {
	if !s.keys.Owns(owner, key) {
		return "", ErrForbidden
	}
	url, err := s.vault.SignedURL(ctx, key)
	if err != nil {
		return "", &VaultError{Key: key, Op: "signed_url", Err: err}
	}
	return url, nil
}

func (s *service) DeleteAttachment(ctx context.Context, owner, key string) error {
	if !s.keys.Owns(owner, key) {
		return ErrForbidden
	}
	if err := s.vault.Delete(ctx, key); err != nil {
		return &VaultError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

func dedupeKeywords(keywords []Keyword) []Keyword {
	if len(keywords) == 0 {
		return nil
	}
	seen := make(map[Keyword]bool, len(keywords))
	result := make([]Keyword, 0, len(keywords))
	for _, k := range keywords {
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, k)
	}
	return result
}
