package parser

import (
	"regexp"
	"strings"
)

// NSFWTags are the content tags that mark a script as adult.
var NSFWTags = []string{"18+", "nsfw", "r18"}

var bracketRE = regexp.MustCompile(`\[(.*?)\]`)

// ExtractTags reads tags out of a "[tag1] [tag2] ..." string.
func ExtractTags(tagString string) []string {
	matches := bracketRE.FindAllStringSubmatch(tagString, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// JoinTags is the inverse of ExtractTags: "[tag1][tag2]...".
func JoinTags(tags []string) string {
	var b strings.Builder
	for _, tag := range tags {
		b.WriteString("[")
		b.WriteString(tag)
		b.WriteString("]")
	}
	return b.String()
}

// IsNSFWTag reports whether a single tag marks adult content.
func IsNSFWTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, marker := range NSFWTags {
		if tag == marker {
			return true
		}
	}
	return false
}

// AnyNSFW reports whether any of the tags marks adult content.
func AnyNSFW(tags []string) bool {
	for _, tag := range tags {
		if IsNSFWTag(tag) {
			return true
		}
	}
	return false
}

// RatingLabel is "NSFW" for adult tag sets and "SFW" otherwise.
func RatingLabel(tags []string) string {
	if AnyNSFW(tags) {
		return "NSFW"
	}
	return "SFW"
}
