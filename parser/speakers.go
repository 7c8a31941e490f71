package parser

import (
	"regexp"
	"strings"
)

// Two-letter roles come first so TF is never read as T plus F.
var speakerRE = regexp.MustCompile(`TF|TM|TA|M|F|NB|A`)

// ExtractSpeakers lists the speaking roles encoded in an audience code.
//
//	ExtractSpeakers("FFM4A") == []string{"F", "F", "M"}
//
// Only the part before the first "4" names speakers; characters that match
// no role are skipped.
func ExtractSpeakers(audience string) []string {
	speakers, _, _ := strings.Cut(audience, "4")
	matches := speakerRE.FindAllString(speakers, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
