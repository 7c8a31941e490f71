package render

import (
	"fmt"
	"html/template"
	"strings"
)

type linkIcon struct {
	prefix  string
	classes []string
}

// Prefix-matched in this order.
var linkIcons = []linkIcon{
	{"YouTube", []string{"fa-brands", "fa-youtube"}},
	{"soundgasm", []string{"fa-solid", "fa-headphones"}},
	{"Patreon", []string{"fa-brands", "fa-patreon"}},
	{"Reddit", []string{"fa-brands", "fa-reddit-alien"}},
	{"Google Docs", []string{"fa-brands", "fa-google-drive"}},
	{"scriptbin", []string{"fa-solid", "fa-file-lines"}},
}

var redditIcon = []string{"fa-brands", "fa-reddit-alien"}

// LinkIconClasses returns the Font Awesome classes for a link label.
// Subreddit and user labels ("r/...", "u/...") share the Reddit icon.
func LinkIconClasses(label string) ([]string, error) {
	if strings.HasPrefix(label, "r/") || strings.HasPrefix(label, "u/") {
		return redditIcon, nil
	}
	for _, icon := range linkIcons {
		if strings.HasPrefix(label, icon.prefix) {
			return icon.classes, nil
		}
	}
	return nil, fmt.Errorf("unknown link label %q", label)
}

func icon(classes ...string) template.HTML {
	return template.HTML(`<i class="icon ` + template.HTMLEscapeString(strings.Join(classes, " ")) + `"></i>`)
}

// HeaderIcons marks a fill recorded by one of the script's attendant VAs
// with a star, and one recorded by author with a crown.
func HeaderIcons(creators, attendantVA []string, author string) template.HTML {
	var interior template.HTML
	if overlaps(creators, attendantVA) {
		interior += icon("fa-solid", "fa-star")
	}
	if author != "" && contains(creators, author) {
		interior += icon("fa-solid", "fa-crown")
	}
	if interior == "" {
		return ""
	}
	return `<div class="icon">` + interior + `</div>`
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
