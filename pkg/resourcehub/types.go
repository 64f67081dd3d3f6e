package resourcehub

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/resource-hub/pkg/resourcehub/linkclass"
)

// Keyword is the domain type for post keyword tags.
type Keyword string

// Keyword constants (typed). These are the only accepted values.
const (
	KeywordTutorial      Keyword = "Tutorial"
	KeywordBlogPost      Keyword = "Blog Post"
	KeywordYoutubeVideo  Keyword = "Youtube Video"
	KeywordPodcast       Keyword = "Podcast"
	KeywordDocumentation Keyword = "Documentation"
)

// AllKeywords lists every accepted keyword value.
var AllKeywords = []Keyword{
	KeywordTutorial,
	KeywordBlogPost,
	KeywordYoutubeVideo,
	KeywordPodcast,
	KeywordDocumentation,
}

// IsValid reports whether k is a member of the keyword enumeration.
func (k Keyword) IsValid() bool {
	for _, known := range AllKeywords {
		if k == known {
			return true
		}
	}
	return false
}

// Rating bounds for a post.
const (
	MinRating = 1
	MaxRating = 5
)

// Post is an owned resource record: a link with a description, tags, a
// rating, and an optional attachment stored in the owner's vault
// partition.
//
// ID and Owner are immutable after creation. Attachment, when set, is a
// vault key that must live inside the owner's partition. AttachmentShared
// opts the attachment into resolution for viewers other than the owner.
type Post struct {
	ID               uuid.UUID `json:"id"`
	Owner            string    `json:"owner"`
	Blurb            string    `json:"blurb"`
	Link             string    `json:"link"`
	Language         string    `json:"language,omitempty"`
	Keywords         []Keyword `json:"keywords,omitempty"`
	Rating           int       `json:"rating"`
	Attachment       string    `json:"attachment,omitempty"`
	AttachmentShared bool      `json:"attachment_shared,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Title returns the first line of the blurb, which is used as the
// display title.
func (p *Post) Title() string {
	line, _, _ := strings.Cut(strings.TrimSpace(p.Blurb), "\n")
	return line
}

// PostView is a Post enriched for presentation: the link classified into
// an embed kind, and the attachment resolved to a signed URL when the
// viewer is authorized for it.
type PostView struct {
	Post
	AttachmentURL string                   `json:"attachment_url,omitempty"`
	Embed         linkclass.Classification `json:"embed"`
}
