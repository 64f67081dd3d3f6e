// Package linkclass classifies post link URLs into embed kinds. It is
// pure and total: Classify never fails and performs no I/O, so ambiguous
// or malformed URLs simply degrade to PlainLink.
package linkclass

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind is the embed classification of a link.
type Kind string

// Kind constants (typed).
const (
	VideoEmbed  Kind = "video"
	AudioEmbed  Kind = "audio"
	SocialEmbed Kind = "social"
	PlainLink   Kind = "plain"
)

// Classification is the result of classifying a URL. ID holds the
// extracted embed identifier: the 11-character video id for VideoEmbed,
// the full resource URI for AudioEmbed (players need the whole URI, not a
// bare id), the status id for SocialEmbed, and empty for PlainLink.
//
// A SocialEmbed with an empty ID means the URL matched a micro-blogging
// host but carried no status id; viewers must render it as a plain link.
type Classification struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id,omitempty"`
}

// videoIDLength is the exact identifier length a video host issues.
// Candidates of any other length are rejected rather than propagated.
const videoIDLength = 11

// VideoShape couples one accepted video URL form with the pattern that
// extracts its identifier candidate. Shapes are evaluated in priority
// order.
type VideoShape struct {
	Name    string
	Pattern *regexp.Regexp
}

// VideoShapes is the ordered table of accepted video URL forms.
var VideoShapes = []VideoShape{
	{"short-link", regexp.MustCompile(`youtu\.be/([^/?#&]+)`)},
	{"path-segment", regexp.MustCompile(`/v/([^/?#&]+)`)},
	{"user-path", regexp.MustCompile(`/u/\w/([^/?#&]+)`)},
	{"embed-path", regexp.MustCompile(`/embed/([^/?#&]+)`)},
	{"query-param", regexp.MustCompile(`[?&]v=([^#&?]+)`)},
}

// statusSegment is the path segment index holding the status id on
// micro-blogging hosts (/{user}/status/{id}).
const statusSegment = 2

// Classify maps a URL string to its embed classification. It is
// deterministic and never returns an error: anything unrecognized is a
// PlainLink.
func Classify(rawURL string) Classification {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return Classification{Kind: PlainLink}
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case isVideoHost(host):
		if id, ok := extractVideoID(rawURL); ok {
			return Classification{Kind: VideoEmbed, ID: id}
		}
	case host == "open.spotify.com":
		return Classification{Kind: AudioEmbed, ID: rawURL}
	case isSocialHost(host):
		return Classification{Kind: SocialEmbed, ID: statusID(u)}
	}
	return Classification{Kind: PlainLink}
}

// extractVideoID tries each accepted URL shape in priority order and
// returns the first candidate of exactly videoIDLength characters.
func extractVideoID(rawURL string) (string, bool) {
	for _, shape := range VideoShapes {
		m := shape.Pattern.FindStringSubmatch(rawURL)
		if m == nil {
			continue
		}
		if len(m[1]) == videoIDLength {
			return m[1], true
		}
	}
	return "", false
}

func isVideoHost(host string) bool {
	return host == "youtube.com" || host == "youtu.be" ||
		strings.HasSuffix(host, ".youtube.com")
}

func isSocialHost(host string) bool {
	return host == "twitter.com" || host == "x.com" ||
		strings.HasSuffix(host, ".twitter.com") || strings.HasSuffix(host, ".x.com")
}

// statusID returns the status id segment of a micro-blog URL, or empty
// when the path is too short to carry one.
func statusID(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
	if len(segments) <= statusSegment {
		return ""
	}
	return segments[statusSegment]
}
