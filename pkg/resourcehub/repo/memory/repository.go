package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tendant/resource-hub/pkg/resourcehub"
)

// Repository implements resourcehub.Repository using in-memory storage.
// Ownership-gated mutations happen under a single mutex hold, so the
// check and the write are one atomic act.
type Repository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*resourcehub.Post
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		posts: make(map[uuid.UUID]*resourcehub.Post),
	}
}

func (r *Repository) CreatePost(ctx context.Context, post *resourcehub.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; exists {
		return fmt.Errorf("post %s already exists", post.ID)
	}

	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*resourcehub.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, resourcehub.ErrPostNotFound
	}

	return clonePost(post), nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *resourcehub.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.posts[post.ID]
	if !exists {
		return resourcehub.ErrPostNotFound
	}
	if stored.Owner != post.Owner {
		return resourcehub.ErrForbidden
	}

	replacement := clonePost(post)
	// Owner and creation time are immutable regardless of what the
	// caller supplied.
	replacement.Owner = stored.Owner
	replacement.CreatedAt = stored.CreatedAt
	r.posts[post.ID] = replacement

	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.posts[id]
	if !exists {
		return resourcehub.ErrPostNotFound
	}
	if stored.Owner != owner {
		return resourcehub.ErrForbidden
	}

	delete(r.posts, id)
	return nil
}

func (r *Repository) ListPostsByOwner(ctx context.Context, owner string) ([]*resourcehub.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*resourcehub.Post, 0)
	for _, post := range r.posts {
		if post.Owner == owner {
			result = append(result, clonePost(post))
		}
	}

	sortNewestFirst(result)
	return result, nil
}

func (r *Repository) ListAllPosts(ctx context.Context, limit, offset int) ([]*resourcehub.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*resourcehub.Post, 0, len(r.posts))
	for _, post := range r.posts {
		result = append(result, clonePost(post))
	}

	sortNewestFirst(result)

	if offset > 0 {
		if offset >= len(result) {
			return []*resourcehub.Post{}, nil
		}
		result = result[offset:]
	}
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}

	return result, nil
}

// sortNewestFirst orders by created_at descending, tie-broken by id so
// the order is stable within a call.
func sortNewestFirst(posts []*resourcehub.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID.String() < posts[j].ID.String()
	})
}

// clonePost copies a post, including its keyword slice, to prevent
// external modification of stored state.
func clonePost(post *resourcehub.Post) *resourcehub.Post {
	postCopy := *post
	if post.Keywords != nil {
		postCopy.Keywords = append([]resourcehub.Keyword(nil), post.Keywords...)
	}
	return &postCopy
}
