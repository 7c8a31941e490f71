package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

const attributePage = `<html><body>
<div class="container script-data blurred" id="moonlight-2"
  data-title=" Moonlight, Part 2 "
  data-summary="The second night."
  data-tags="[romance][18+]"
  data-audience="F4M, F4A"
  data-speakers="F"
  data-series="Moonlight"
  data-series-index="2"
  data-numfills="2"
  data-filled-by='[["alice"],["bob","carol"]]'
  data-wordcount="2,400"
  data-nsfw="NSFW"
  data-link="https://reddit.test/moon2">
  <div class="script-links"><a href="https://scriptbin.test/moon2">scriptbin</a><a href="https://reddit.test/moon2">r/gwa</a></div>
</div>
<div class="script-data" data-title="Tender Moment" data-audience="MF4A" data-tags="[fluff]" data-vasfilled="alice===bob"></div>
<div class="script-data" data-summary="no title, skipped"></div>
</body></html>`

func TestParsePageAttributes(t *testing.T) {
	listings, err := ParsePage(strings.NewReader(attributePage))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("listings = %d, want 2", len(listings))
	}

	want := &models.Listing{
		ID:            "moonlight-2",
		Position:      0,
		Title:         "Moonlight, Part 2",
		Summary:       "The second night.",
		Words:         models.KnownWords(2400),
		Fills:         2,
		FilledBy:      [][]string{{"alice"}, {"bob", "carol"}},
		Series:        &models.Series{Title: "Moonlight", Index: 2},
		Speakers:      []string{"F"},
		Audience:      []string{"F4M", "F4A"},
		Tags:          []string{"romance", "18+"},
		Links:         []string{"https://scriptbin.test/moon2", "https://reddit.test/moon2"},
		CanonicalLink: "https://reddit.test/moon2",
	}
	if !reflect.DeepEqual(listings[0], want) {
		t.Fatalf("first listing:\n got  %+v\n want %+v", listings[0], want)
	}

	legacy := listings[1]
	if legacy.ID != "tender-moment" || legacy.Position != 1 {
		t.Fatalf("id should fall back to the serialised title: %+v", legacy)
	}
	if !reflect.DeepEqual(legacy.Speakers, []string{"M", "F"}) {
		t.Fatalf("speakers should be parsed from the audience code, got %v", legacy.Speakers)
	}
	if legacy.Fills != 2 || !reflect.DeepEqual(legacy.FilledBy, [][]string{{"alice"}, {"bob"}}) {
		t.Fatalf("legacy filled-by not read: %+v", legacy)
	}
	if legacy.Words.Known || legacy.Series != nil {
		t.Fatalf("absent fields should stay absent: %+v", legacy)
	}
}

const markupPage = `<html><body>
<div class="script-data">
  <p class="script-title">Salt &amp; Sea</p>
  <p class="series"><span class="series-title">Tides</span> #<span class="series-index">3</span></p>
  <ul class="script-tags">
    <li class="audience-tag">TFM4A</li>
    <li class="content-tag">comfort</li>
    <li class="content-tag">sleep
        aid</li>
    <li class="wordcount-tag">1,000+500 (=1,500 words)</li>
  </ul>
  <blockquote>  Waves,   and
  nothing else. </blockquote>
  <p><span class="fill-count">0</span> fills</p>
</div>
</body></html>`

func TestParsePageMarkupFallback(t *testing.T) {
	listings, err := ParsePage(strings.NewReader(markupPage))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("listings = %d, want 1", len(listings))
	}

	l := listings[0]
	if l.Title != "Salt & Sea" || l.ID != "salt-and-sea" {
		t.Fatalf("title/id = %q/%q", l.Title, l.ID)
	}
	if l.Summary != "Waves, and nothing else." {
		t.Fatalf("summary = %q", l.Summary)
	}
	if !reflect.DeepEqual(l.Audience, []string{"TFM4A"}) || !reflect.DeepEqual(l.Speakers, []string{"TF", "M"}) {
		t.Fatalf("audience/speakers = %v/%v", l.Audience, l.Speakers)
	}
	if !reflect.DeepEqual(l.Tags, []string{"comfort", "sleep aid"}) {
		t.Fatalf("tags = %v", l.Tags)
	}
	if l.Words != models.KnownWords(1500) {
		t.Fatalf("words = %+v", l.Words)
	}
	if l.Series == nil || l.Series.Title != "Tides" || l.Series.Index != 3 {
		t.Fatalf("series = %+v", l.Series)
	}
	if l.Fills != 0 || len(l.FilledBy) != 0 {
		t.Fatalf("fills = %d, filled by %v", l.Fills, l.FilledBy)
	}
}
