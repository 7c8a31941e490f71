package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

// ListingSelector matches one listing container on a rendered catalogue page.
const ListingSelector = "div.script-data"

// Attributes carried by each listing container.
const (
	AttrTitle       = "data-title"
	AttrSummary     = "data-summary"
	AttrTags        = "data-tags"
	AttrAudience    = "data-audience"
	AttrSpeakers    = "data-speakers"
	AttrSeries      = "data-series"
	AttrSeriesIndex = "data-series-index"
	AttrNumFills    = "data-numfills"
	AttrFilledBy    = "data-filled-by"
	AttrVAsFilled   = "data-vasfilled"
	AttrWordCount   = "data-wordcount"
	AttrNSFW        = "data-nsfw"
	AttrLink        = "data-link"
)

// ParsePage extracts every listing from a rendered catalogue page.
func ParsePage(r io.Reader) ([]*models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse catalogue page: %w", err)
	}

	var listings []*models.Listing
	doc.Find(ListingSelector).Each(func(i int, sel *goquery.Selection) {
		if l := FromSelection(sel, i); l != nil {
			listings = append(listings, l)
		}
	})
	return listings, nil
}

// FromSelection reads a listing from its container element. The data-*
// attributes are preferred; pages rendered before they existed are read from
// the visible markup instead. A missing optional field leaves the zero value.
func FromSelection(sel *goquery.Selection, position int) *models.Listing {
	title := strings.TrimSpace(attrOr(sel, AttrTitle, func() string {
		return sel.Find("p.script-title").First().Text()
	}))
	if title == "" {
		return nil
	}

	id := strings.TrimSpace(sel.AttrOr("id", ""))
	if id == "" {
		id = Serialise(title)
	}

	summary := strings.TrimSpace(attrOr(sel, AttrSummary, func() string {
		return NormalizeText(sel.Find("blockquote").First().Text())
	}))

	tags := extractTagsFrom(sel)
	audience := extractAudience(sel)

	speakers := []string{}
	if raw, ok := sel.Attr(AttrSpeakers); ok {
		speakers = splitList(raw, ",")
	} else if len(audience) > 0 {
		speakers = ExtractSpeakers(audience[0])
	}

	filledBy := extractFilledBy(sel)
	fills, ok := parseCount(attrOr(sel, AttrNumFills, func() string {
		return sel.Find("span.fill-count").First().Text()
	}))
	if !ok {
		fills = len(filledBy)
	}

	var links []string
	sel.Find(".script-links a").Each(func(_ int, a *goquery.Selection) {
		if href := strings.TrimSpace(a.AttrOr("href", "")); href != "" {
			links = append(links, href)
		}
	})

	return &models.Listing{
		ID:            id,
		Position:      position,
		Title:         title,
		Summary:       summary,
		Words:         extractWords(sel),
		Fills:         fills,
		FilledBy:      filledBy,
		Series:        extractSeries(sel),
		Speakers:      speakers,
		Audience:      audience,
		Tags:          tags,
		Links:         links,
		CanonicalLink: strings.TrimSpace(sel.AttrOr(AttrLink, "")),
	}
}

func attrOr(sel *goquery.Selection, name string, fallback func() string) string {
	if v, ok := sel.Attr(name); ok {
		return v
	}
	return fallback()
}

func extractTagsFrom(sel *goquery.Selection) []string {
	if raw, ok := sel.Attr(AttrTags); ok {
		return ExtractTags(raw)
	}
	tags := []string{}
	sel.Find("li.content-tag").Each(func(_ int, li *goquery.Selection) {
		if tag := NormalizeText(li.Text()); tag != "" {
			tags = append(tags, tag)
		}
	})
	return tags
}

func extractAudience(sel *goquery.Selection) []string {
	if raw, ok := sel.Attr(AttrAudience); ok {
		return splitList(raw, ",")
	}
	audience := []string{}
	sel.Find("li.audience-tag").Each(func(_ int, li *goquery.Selection) {
		if code := strings.TrimSpace(li.Text()); code != "" {
			audience = append(audience, code)
		}
	})
	return audience
}

func extractSeries(sel *goquery.Selection) *models.Series {
	title := strings.TrimSpace(attrOr(sel, AttrSeries, func() string {
		return sel.Find("span.series-title").First().Text()
	}))
	if title == "" {
		return nil
	}
	index, _ := parseCount(attrOr(sel, AttrSeriesIndex, func() string {
		return sel.Find("span.series-index").First().Text()
	}))
	return &models.Series{Title: title, Index: index}
}

func extractFilledBy(sel *goquery.Selection) [][]string {
	if raw, ok := sel.Attr(AttrFilledBy); ok && strings.TrimSpace(raw) != "" {
		var groups [][]string
		if err := json.Unmarshal([]byte(raw), &groups); err == nil {
			return groups
		}
	}

	// Older pages flatten every creator into one "==="-separated list.
	raw, ok := sel.Attr(AttrVAsFilled)
	if !ok {
		return nil
	}
	var groups [][]string
	for _, name := range splitList(raw, "===") {
		groups = append(groups, []string{name})
	}
	return groups
}

func extractWords(sel *goquery.Selection) models.WordTotal {
	if raw, ok := sel.Attr(AttrWordCount); ok {
		if n, ok := parseCount(raw); ok {
			return models.KnownWords(n)
		}
	}
	if label := sel.Find("li.wordcount-tag").First(); label.Length() > 0 {
		return ParseWordCountLabel(label.Text())
	}
	return ParseWordCountLabel(sel.Find("ul.script-tags").Text())
}

func parseCount(raw string) (int, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func splitList(raw, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
