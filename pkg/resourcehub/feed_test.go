package resourcehub_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/resource-hub/pkg/resourcehub"
	"github.com/tendant/resource-hub/pkg/resourcehub/linkclass"
	repomemory "github.com/tendant/resource-hub/pkg/resourcehub/repo/memory"
	vaultmemory "github.com/tendant/resource-hub/pkg/resourcehub/vault/memory"
)

func TestPersonalFeed(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("requires a principal", func(t *testing.T) {
		_, err := svc.PersonalFeed(ctx, "")
		assert.ErrorIs(t, err, resourcehub.ErrUnauthenticated)
	})

	t.Run("empty feed is not an error", func(t *testing.T) {
		views, err := svc.PersonalFeed(ctx, "nobody")
		assert.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("scoped to the principal", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, validCreateRequest("alice"))
		require.NoError(t, err)
		_, err = svc.CreatePost(ctx, validCreateRequest("alice"))
		require.NoError(t, err)
		_, err = svc.CreatePost(ctx, validCreateRequest("bob"))
		require.NoError(t, err)

		views, err := svc.PersonalFeed(ctx, "alice")
		assert.NoError(t, err)
		assert.Len(t, views, 2)
		for _, v := range views {
			assert.Equal(t, "alice", v.Owner)
		}
	})
}

func TestGlobalFeed(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("empty store yields empty feed", func(t *testing.T) {
		views, err := svc.GlobalFeed(ctx, "")
		assert.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("spans all owners and classifies links", func(t *testing.T) {
		req := validCreateRequest("alice")
		req.Link = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
		_, err := svc.CreatePost(ctx, req)
		require.NoError(t, err)

		_, err = svc.CreatePost(ctx, validCreateRequest("bob"))
		require.NoError(t, err)

		views, err := svc.GlobalFeed(ctx, "")
		assert.NoError(t, err)
		require.Len(t, views, 2)

		owners := map[string]bool{}
		for _, v := range views {
			owners[v.Owner] = true
			if v.Link == "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
				assert.Equal(t, linkclass.VideoEmbed, v.Embed.Kind)
				assert.Equal(t, "dQw4w9WgXcQ", v.Embed.ID)
			} else {
				assert.Equal(t, linkclass.PlainLink, v.Embed.Kind)
			}
		}
		assert.True(t, owners["alice"])
		assert.True(t, owners["bob"])
	})
}

func TestFeedAttachmentScoping(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	newPost := func(t *testing.T, shared bool) *resourcehub.Post {
		key, err := svc.UploadAttachment(ctx, resourcehub.UploadAttachmentRequest{
			Owner:  "alice",
			Reader: strings.NewReader("payload"),
			Size:   7,
		})
		require.NoError(t, err)

		req := validCreateRequest("alice")
		req.Attachment = key
		req.AttachmentShared = shared

		post, err := svc.CreatePost(ctx, req)
		require.NoError(t, err)
		return post
	}

	t.Run("owner sees a signed URL", func(t *testing.T) {
		post := newPost(t, false)

		view, err := svc.GetPostView(ctx, post.ID, "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, view.AttachmentURL)
	})

	t.Run("other viewers see none unless shared", func(t *testing.T) {
		post := newPost(t, false)

		view, err := svc.GetPostView(ctx, post.ID, "bob")
		require.NoError(t, err)
		assert.Empty(t, view.AttachmentURL)

		view, err = svc.GetPostView(ctx, post.ID, "")
		require.NoError(t, err)
		assert.Empty(t, view.AttachmentURL)
	})

	t.Run("shared attachments resolve for anyone", func(t *testing.T) {
		post := newPost(t, true)

		view, err := svc.GetPostView(ctx, post.ID, "")
		require.NoError(t, err)
		assert.NotEmpty(t, view.AttachmentURL)
	})
}

// failingVault stores nothing and refuses to sign, standing in for an
// unreachable blob backend.
type failingVault struct{}

func (failingVault) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	return nil
}

func (failingVault) SignedURL(ctx context.Context, key string) (string, error) {
	return "", errors.New("backend unreachable")
}

func (failingVault) Delete(ctx context.Context, key string) error {
	return nil
}

func TestFeedDegradesOnVaultFailure(t *testing.T) {
	svc, err := resourcehub.New(
		resourcehub.WithRepository(repomemory.New()),
		resourcehub.WithVault(failingVault{}),
	)
	require.NoError(t, err)
	ctx := context.Background()

	key, err := svc.UploadAttachment(ctx, resourcehub.UploadAttachmentRequest{
		Owner:  "alice",
		Reader: strings.NewReader("payload"),
		Size:   7,
	})
	require.NoError(t, err)

	withAttachment := validCreateRequest("alice")
	withAttachment.Attachment = key
	_, err = svc.CreatePost(ctx, withAttachment)
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, validCreateRequest("alice"))
	require.NoError(t, err)

	// The failing resolution degrades one view; the feed still returns
	// every post.
	views, err := svc.PersonalFeed(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, views, 2)
	for _, v := range views {
		assert.Empty(t, v.AttachmentURL)
	}
}

func TestFeedWorkerOption(t *testing.T) {
	vault := vaultmemory.New()
	svc, err := resourcehub.New(
		resourcehub.WithRepository(repomemory.New()),
		resourcehub.WithVault(vault),
		resourcehub.WithFeedWorkers(1),
	)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.CreatePost(ctx, validCreateRequest("alice"))
		require.NoError(t, err)
	}

	views, err := svc.PersonalFeed(ctx, "alice")
	assert.NoError(t, err)
	assert.Len(t, views, 5)
}
