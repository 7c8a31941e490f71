// Package parser extracts listing records from the feed and from rendered
// catalogue pages, and holds the small text helpers both paths share.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

// ValidateListing ensures the extractor captured the fields a listing cannot
// be shown without.
func ValidateListing(l *models.Listing) error {
	if l == nil {
		return fmt.Errorf("listing is nil")
	}
	if strings.TrimSpace(l.ID) == "" {
		return fmt.Errorf("listing missing id for %q", l.Title)
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("listing %s missing title", l.ID)
	}
	if l.Fills < 0 {
		return fmt.Errorf("listing %s has negative fill count", l.ID)
	}
	return nil
}

var serialiser = strings.NewReplacer(
	"~", "-",
	" ", "-",
	"'", "",
	"\"", "",
	"&", "and",
)

// Serialise turns a title into the identifier used for its listing.
func Serialise(title string) string {
	return serialiser.Replace(strings.ToLower(title))
}

var (
	maleAudienceRE   = regexp.MustCompile(`^M+4`)
	femaleAudienceRE = regexp.MustCompile(`^F+4`)
)

// SummariseGender classifies a fill by its speakers: male, female or neutral.
func SummariseGender(audience string) string {
	switch {
	case maleAudienceRE.MatchString(audience):
		return "male"
	case femaleAudienceRE.MatchString(audience):
		return "female"
	default:
		return "neutral"
	}
}

// NormalizeText collapses runs of whitespace into single spaces.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
