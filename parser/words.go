package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

var wordLabelRE = regexp.MustCompile(`(?i)(\d[\d,]*)\s+words\b`)

// ParseWordCountLabel returns the first "<number> words" figure in a rendered
// label, thousands separators removed. Labels without one are unknown.
func ParseWordCountLabel(label string) models.WordTotal {
	m := wordLabelRE.FindStringSubmatch(label)
	if m == nil {
		return models.WordTotal{}
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n < 0 {
		return models.WordTotal{}
	}
	return models.KnownWords(n)
}

var englishNumbers = message.NewPrinter(language.English)

// FormatNumber renders n with thousands separators.
func FormatNumber(n int) string {
	return englishNumbers.Sprintf("%d", n)
}

// FormatWordCountLabel renders the word-count tag of a script:
// "1,234 words" for a single role, "1,000+234 (=1,234 words)" otherwise.
func FormatWordCountLabel(words models.WordCount) (string, error) {
	switch len(words.Spoken) {
	case 0:
		return "", fmt.Errorf("invalid speaker count: no spoken roles")
	case 1:
		return FormatNumber(words.AllSpoken()) + " words", nil
	}

	parts := make([]string, 0, len(words.Spoken))
	for _, role := range words.Spoken {
		parts = append(parts, FormatNumber(role.Words))
	}
	return fmt.Sprintf("%s (=%s words)", strings.Join(parts, "+"), FormatNumber(words.AllSpoken())), nil
}
