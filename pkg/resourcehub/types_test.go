package resourcehub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/resource-hub/pkg/resourcehub"
)

func TestKeywordIsValid(t *testing.T) {
	for _, k := range resourcehub.AllKeywords {
		assert.True(t, k.IsValid(), "keyword %q should be valid", k)
	}

	assert.False(t, resourcehub.Keyword("Webinar").IsValid())
	assert.False(t, resourcehub.Keyword("tutorial").IsValid(), "keyword matching is case sensitive")
	assert.False(t, resourcehub.Keyword("").IsValid())
}

func TestPostTitle(t *testing.T) {
	tests := []struct {
		name  string
		blurb string
		want  string
	}{
		{"single line", "A great Go talk", "A great Go talk"},
		{"multi line", "A great Go talk\nWith more detail below", "A great Go talk"},
		{"leading whitespace", "  \n\nA great Go talk", "A great Go talk"},
		{"empty blurb", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &resourcehub.Post{Blurb: tt.blurb}
			assert.Equal(t, tt.want, p.Title())
		})
	}
}
