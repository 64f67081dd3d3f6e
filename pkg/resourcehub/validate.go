package resourcehub

import (
	"fmt"
	"strings"
)

// validatePostFields checks the field invariants shared by create and
// update: blurb and link required, rating in range, keywords drawn from
// the enumeration.
func validatePostFields(blurb, link string, keywords []Keyword, rating int) error {
	if strings.TrimSpace(blurb) == "" {
		return &ValidationError{Field: "blurb", Reason: "required"}
	}
	if strings.TrimSpace(link) == "" {
		return &ValidationError{Field: "link", Reason: "required"}
	}
	if rating < MinRating || rating > MaxRating {
		return &ValidationError{
			Field:  "rating",
			Reason: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
		}
	}
	for _, k := range keywords {
		if !k.IsValid() {
			return &ValidationError{
				Field:  "keywords",
				Reason: fmt.Sprintf("unknown keyword %q", string(k)),
			}
		}
	}
	return nil
}
