package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/resource-hub/pkg/resourcehub"
)

// PostRequest is the request body for creating or updating a post
type PostRequest struct {
	Blurb            string                `json:"blurb"`
	Link             string                `json:"link"`
	Language         string                `json:"language"`
	Keywords         []resourcehub.Keyword `json:"keywords"`
	Rating           int                   `json:"rating"`
	Attachment       string                `json:"attachment,omitempty"`
	AttachmentShared bool                  `json:"attachment_shared,omitempty"`
}

// PostsHandler handles HTTP requests for resource posts
type PostsHandler struct {
	service resourcehub.Service
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(service resourcehub.Service) *PostsHandler {
	return &PostsHandler{service: service}
}

// Routes returns the routes for posts
func (h *PostsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/all", h.GlobalFeed)
	r.Get("/", h.PersonalFeed)
	r.Post("/", h.CreatePost)
	r.Get("/{id}", h.GetPost)
	r.Put("/{id}", h.UpdatePost)
	r.Delete("/{id}", h.DeletePost)

	return r
}

// GlobalFeed lists every post across all owners. Attachments stay
// hidden unless shared by their owner or viewed by their owner.
func (h *PostsHandler) GlobalFeed(w http.ResponseWriter, r *http.Request) {
	viewer := Principal(r.Context())

	views, err := h.service.GlobalFeed(r.Context(), viewer)
	if err != nil {
		slog.Error("Failed to list global feed", "error", err)
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, views)
}

// PersonalFeed lists the authenticated owner's posts
func (h *PostsHandler) PersonalFeed(w http.ResponseWriter, r *http.Request) {
	owner := Principal(r.Context())

	views, err := h.service.PersonalFeed(r.Context(), owner)
	if err != nil {
		slog.Error("Failed to list personal feed", "owner", owner, "error", err)
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, views)
}

// CreatePost publishes a new post for the authenticated owner
func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner := Principal(r.Context())

	post, err := h.service.CreatePost(r.Context(), resourcehub.CreatePostRequest{
		Owner:            owner,
		Blurb:            req.Blurb,
		Link:             req.Link,
		Language:         req.Language,
		Keywords:         req.Keywords,
		Rating:           req.Rating,
		Attachment:       req.Attachment,
		AttachmentShared: req.AttachmentShared,
	})
	if err != nil {
		slog.Error("Failed to create post", "owner", owner, "error", err)
		writeError(w, r, err)
		return
	}

	view, err := h.service.GetPostView(r.Context(), post.ID, owner)
	if err != nil {
		slog.Error("Failed to load created post", "post_id", post.ID.String(), "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Post created", "post_id", post.ID.String(), "owner", owner)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// GetPost retrieves a single post by ID
func (h *PostsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid post ID", "post_id", idStr, "error", err)
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	viewer := Principal(r.Context())

	view, err := h.service.GetPostView(r.Context(), id, viewer)
	if err != nil {
		slog.Error("Failed to get post", "post_id", idStr, "error", err)
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, view)
}

// UpdatePost replaces the mutable fields of an owned post
func (h *PostsHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid post ID", "post_id", idStr, "error", err)
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	owner := Principal(r.Context())

	_, err = h.service.UpdatePost(r.Context(), resourcehub.UpdatePostRequest{
		ID:               id,
		Owner:            owner,
		Blurb:            req.Blurb,
		Link:             req.Link,
		Language:         req.Language,
		Keywords:         req.Keywords,
		Rating:           req.Rating,
		Attachment:       req.Attachment,
		AttachmentShared: req.AttachmentShared,
	})
	if err != nil {
		slog.Error("Failed to update post", "post_id", idStr, "owner", owner, "error", err)
		writeError(w, r, err)
		return
	}

	view, err := h.service.GetPostView(r.Context(), id, owner)
	if err != nil {
		slog.Error("Failed to load updated post", "post_id", idStr, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Post updated", "post_id", idStr, "owner", owner)
	render.JSON(w, r, view)
}

// DeletePost removes an owned post and its attachment blob
func (h *PostsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid post ID", "post_id", idStr, "error", err)
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	owner := Principal(r.Context())

	if err := h.service.DeletePost(r.Context(), id, owner); err != nil {
		slog.Error("Failed to delete post", "post_id", idStr, "owner", owner, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Post deleted", "post_id", idStr, "owner", owner)
	render.JSON(w, r, map[string]string{"status": "deleted"})
}
