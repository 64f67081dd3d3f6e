package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/resource-hub/pkg/resourcehub"
	"github.com/tendant/resource-hub/pkg/resourcehub/repo/memory"
)

func newPost(owner string, createdAt time.Time) *resourcehub.Post {
	return &resourcehub.Post{
		ID:        uuid.New(),
		Owner:     owner,
		Blurb:     "Some resource",
		Link:      "https://example.com",
		Keywords:  []resourcehub.Keyword{resourcehub.KeywordBlogPost},
		Rating:    3,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestCreateAndGetPost(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	post := newPost("alice", time.Now().UTC())
	require.NoError(t, repo.CreatePost(ctx, post))

	t.Run("roundtrip", func(t *testing.T) {
		got, err := repo.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, post.Blurb, got.Blurb)
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		assert.Error(t, repo.CreatePost(ctx, post))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetPost(ctx, uuid.New())
		assert.ErrorIs(t, err, resourcehub.ErrPostNotFound)
	})

	t.Run("returned post is a copy", func(t *testing.T) {
		got, err := repo.GetPost(ctx, post.ID)
		require.NoError(t, err)

		got.Blurb = "mutated"
		got.Keywords[0] = resourcehub.KeywordPodcast

		again, err := repo.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Some resource", again.Blurb)
		assert.Equal(t, resourcehub.KeywordBlogPost, again.Keywords[0])
	})
}

func TestUpdatePostGates(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	post := newPost("alice", time.Now().UTC())
	require.NoError(t, repo.CreatePost(ctx, post))

	t.Run("owner can update", func(t *testing.T) {
		updated := *post
		updated.Blurb = "Revised"
		require.NoError(t, repo.UpdatePost(ctx, &updated))

		got, err := repo.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Revised", got.Blurb)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		hijack := *post
		hijack.Owner = "mallory"
		hijack.Blurb = "Hijacked"

		err := repo.UpdatePost(ctx, &hijack)
		assert.ErrorIs(t, err, resourcehub.ErrForbidden)

		got, err := repo.GetPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Owner)
		assert.NotEqual(t, "Hijacked", got.Blurb)
	})

	t.Run("absent post", func(t *testing.T) {
		missing := newPost("alice", time.Now().UTC())
		err := repo.UpdatePost(ctx, missing)
		assert.ErrorIs(t, err, resourcehub.ErrPostNotFound)
	})
}

func TestDeletePostGates(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	post := newPost("alice", time.Now().UTC())
	require.NoError(t, repo.CreatePost(ctx, post))

	t.Run("non-owner is forbidden", func(t *testing.T) {
		err := repo.DeletePost(ctx, post.ID, "mallory")
		assert.ErrorIs(t, err, resourcehub.ErrForbidden)
	})

	t.Run("owner can delete", func(t *testing.T) {
		require.NoError(t, repo.DeletePost(ctx, post.ID, "alice"))

		_, err := repo.GetPost(ctx, post.ID)
		assert.ErrorIs(t, err, resourcehub.ErrPostNotFound)
	})

	t.Run("repeat delete reports not found", func(t *testing.T) {
		err := repo.DeletePost(ctx, post.ID, "alice")
		assert.ErrorIs(t, err, resourcehub.ErrPostNotFound)
	})
}

func TestListOrdering(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	oldest := newPost("alice", base)
	middle := newPost("bob", base.Add(time.Hour))
	newest := newPost("alice", base.Add(2*time.Hour))

	for _, p := range []*resourcehub.Post{middle, oldest, newest} {
		require.NoError(t, repo.CreatePost(ctx, p))
	}

	t.Run("by owner newest first", func(t *testing.T) {
		posts, err := repo.ListPostsByOwner(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, newest.ID, posts[0].ID)
		assert.Equal(t, oldest.ID, posts[1].ID)
	})

	t.Run("all newest first", func(t *testing.T) {
		posts, err := repo.ListAllPosts(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, newest.ID, posts[0].ID)
		assert.Equal(t, middle.ID, posts[1].ID)
		assert.Equal(t, oldest.ID, posts[2].ID)
	})

	t.Run("limit and offset window", func(t *testing.T) {
		posts, err := repo.ListAllPosts(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, middle.ID, posts[0].ID)
	})

	t.Run("offset past the end", func(t *testing.T) {
		posts, err := repo.ListAllPosts(ctx, 10, 10)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("unknown owner", func(t *testing.T) {
		posts, err := repo.ListPostsByOwner(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
