package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

var wrappedRE = regexp.MustCompile(`\n\s+`)

// Markdown renders a listing as the snippet posted when sharing a script:
//
//	**[Title](link)**
//	\[F4M\] \[tag\] ...
//	> _summary_
func Markdown(l *models.Listing) string {
	audience := ""
	if len(l.Audience) > 0 {
		audience = l.Audience[0]
	}

	tags := make([]string, 0, len(l.Tags))
	for _, tag := range l.Tags {
		tag = strings.TrimSpace(wrappedRE.ReplaceAllString(tag, " "))
		tags = append(tags, `\[`+tag+`\]`)
	}

	return fmt.Sprintf("**[%s](%s)**  \n\\[%s\\] %s  \n> _%s_",
		l.Title, l.CanonicalLink, audience, strings.Join(tags, " "), l.Summary)
}

// MarkdownAll joins the snippets of several listings with blank lines.
func MarkdownAll(listings []*models.Listing) string {
	parts := make([]string, 0, len(listings))
	for _, l := range listings {
		if l != nil {
			parts = append(parts, Markdown(l))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}
