package resourcehub

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tendant/resource-hub/pkg/resourcehub/linkclass"
)

// Feed assembly. Posts are independent, so per-post attachment
// resolution and link classification fan out with bounded parallelism;
// the cap protects the vault backend from unbounded signed-URL requests
// on large feeds. A single failed resolution degrades that view's
// attachment URL to absent and never fails the feed.

func (s *service) PersonalFeed(ctx context.Context, principal string) ([]*PostView, error) {
	if principal == "" {
		return nil, ErrUnauthenticated
	}

	posts, err := s.repository.ListPostsByOwner(ctx, principal)
	if err != nil {
		return nil, err
	}

	return s.assembleViews(ctx, posts, principal), nil
}

func (s *service) GlobalFeed(ctx context.Context, viewer string) ([]*PostView, error) {
	posts, err := s.repository.ListAllPosts(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	return s.assembleViews(ctx, posts, viewer), nil
}

func (s *service) GetPostView(ctx context.Context, id uuid.UUID, viewer string) (*PostView, error) {
	post, err := s.repository.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, post, viewer), nil
}

func (s *service) assembleViews(ctx context.Context, posts []*Post, viewer string) []*PostView {
	views := make([]*PostView, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.feedWorkers)
	for i, post := range posts {
		i, post := i, post
		g.Go(func() error {
			views[i] = s.buildView(gctx, post, viewer)
			return nil
		})
	}
	// Workers only degrade on failure, so Wait cannot return an error.
	_ = g.Wait()

	return views
}

// buildView classifies the post link and resolves the attachment to a
// signed URL when the viewer is authorized for it.
func (s *service) buildView(ctx context.Context, post *Post, viewer string) *PostView {
	view := &PostView{
		Post:  *post,
		Embed: linkclass.Classify(post.Link),
	}

	if post.Attachment == "" || !attachmentVisible(post, viewer) {
		return view
	}

	url, err := s.vault.SignedURL(ctx, post.Attachment)
	if err != nil {
		slog.Warn("attachment resolution failed, degrading view",
			"post_id", post.ID, "key", post.Attachment, "error", err)
		return view
	}
	view.AttachmentURL = url

	return view
}

// attachmentVisible gates attachment disclosure: only the post owner, or
// anyone when the owner explicitly shared the attachment.
func attachmentVisible(post *Post, viewer string) bool {
	if post.AttachmentShared {
		return true
	}
	return viewer != "" && viewer == post.Owner
}
