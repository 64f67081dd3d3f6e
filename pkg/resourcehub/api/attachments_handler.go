package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/resource-hub/pkg/resourcehub"
)

// UploadResponse is the response body for an attachment upload
type UploadResponse struct {
	Attachment string `json:"attachment"`
	URL        string `json:"url,omitempty"`
}

// AttachmentsHandler handles HTTP requests for attachment blobs
type AttachmentsHandler struct {
	service resourcehub.Service
}

// NewAttachmentsHandler creates a new attachments handler
func NewAttachmentsHandler(service resourcehub.Service) *AttachmentsHandler {
	return &AttachmentsHandler{service: service}
}

// Routes returns the routes for attachments
func (h *AttachmentsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)
	r.Get("/*", h.SignedURL)
	r.Delete("/*", h.Delete)

	return r
}

// Upload stores an attachment blob and returns its vault key. The body
// may be a multipart form with a "file" part or a raw blob with the
// filename passed as a query parameter.
func (h *AttachmentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	owner := Principal(r.Context())

	req := resourcehub.UploadAttachmentRequest{
		Owner: owner,
		Size:  -1,
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Missing file part", http.StatusBadRequest)
			return
		}
		defer file.Close()

		req.Reader = file
		req.Size = header.Size
		req.FileName = header.Filename
		req.ContentType = header.Header.Get("Content-Type")
	} else {
		req.Reader = r.Body
		req.Size = r.ContentLength
		req.FileName = r.URL.Query().Get("filename")
		req.ContentType = contentType
	}

	key, err := h.service.UploadAttachment(r.Context(), req)
	if err != nil {
		slog.Error("Failed to upload attachment", "owner", owner, "error", err)
		writeError(w, r, err)
		return
	}

	url, err := h.service.AttachmentURL(r.Context(), owner, key)
	if err != nil {
		slog.Warn("Failed to sign uploaded attachment", "key", key, "error", err)
		url = ""
	}

	slog.Info("Attachment uploaded", "key", key, "owner", owner)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, UploadResponse{Attachment: key, URL: url})
}

// SignedURL returns a short-lived download URL for an owned attachment
func (h *AttachmentsHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	owner := Principal(r.Context())
	key := chi.URLParam(r, "*")

	url, err := h.service.AttachmentURL(r.Context(), owner, key)
	if err != nil {
		slog.Error("Failed to sign attachment", "key", key, "owner", owner, "error", err)
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, UploadResponse{Attachment: key, URL: url})
}

// Delete removes an owned attachment blob from the vault
func (h *AttachmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := Principal(r.Context())
	key := chi.URLParam(r, "*")

	if err := h.service.DeleteAttachment(r.Context(), owner, key); err != nil {
		slog.Error("Failed to delete attachment", "key", key, "owner", owner, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Attachment deleted", "key", key, "owner", owner)
	render.JSON(w, r, map[string]string{"status": "deleted"})
}
