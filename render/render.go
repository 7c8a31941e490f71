// Package render builds the static catalogue pages from feed scripts.
// Rendering is one-way: the pages carry every attribute the filter needs,
// and parser.ParsePage can read them back.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/aluiziolira/go-fill-catalogue/feed"
	"github.com/aluiziolira/go-fill-catalogue/filter"
	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"joinTags":    parser.JoinTags,
	"isNSFWTag":   parser.IsNSFWTag,
	"formatCount": parser.FormatNumber,
	"csv":         func(values []string) string { return strings.Join(values, ", ") },
}).ParseFS(templateFS, "templates/*.html"))

// Options controls page-level details.
type Options struct {
	Title string
	// Author is credited with a crown on fills they recorded.
	Author      string
	Stylesheets []string
	Scripts     []string
}

type linkView struct {
	Href  string
	Label string
	Icons string
}

type fillView struct {
	Index    int
	Creators []string
	Title    string
	Audience string
	Gender   string
	Date     string
	Duration string
	Label    string
	Script   string
	Links    []linkView
	Classes  string
	Header   template.HTML
}

type scriptView struct {
	Index       int
	Listing     *models.Listing
	Published   string
	WordLabel   string
	Rating      string
	Classes     string
	Speakers    string
	AudienceCSV string
	FilledBy    string
	VAsFilled   string
	Links       []linkView
	Fills       []fillView
}

type indexPage struct {
	Options
	NumScripts      int
	NumFills        int
	SeriesOptions   []string
	AudienceOptions []string
	FilledByOptions []string
	SpeakerCounts   []int
	Scripts         []scriptView
}

type fillsPage struct {
	Options
	Fills []fillView
}

// Index writes the catalogue page. Scripts are listed in the order given and
// numbered n..1.
func Index(w io.Writer, scripts []*models.Script, opts Options) error {
	page, err := buildIndex(scripts, opts)
	if err != nil {
		return err
	}
	if err := pages.ExecuteTemplate(w, "index.html", page); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return nil
}

func buildIndex(scripts []*models.Script, opts Options) (*indexPage, error) {
	var kept []*models.Script
	for _, s := range scripts {
		if s != nil {
			kept = append(kept, s)
		}
	}

	listings := parser.FromScripts(kept)
	page := &indexPage{
		Options:         opts,
		NumScripts:      len(listings),
		SeriesOptions:   filter.SeriesOptions(listings),
		AudienceOptions: filter.AudienceOptions(listings),
		FilledByOptions: filter.FilledByOptions(listings),
		SpeakerCounts:   filter.SpeakerCountOptions(listings),
		Scripts:         make([]scriptView, 0, len(listings)),
	}

	for i, s := range kept {
		l := listings[i]
		page.NumFills += l.Fills

		view, err := buildScript(len(kept)-i, s, l, opts)
		if err != nil {
			return nil, fmt.Errorf("script %q: %w", s.Title, err)
		}
		page.Scripts = append(page.Scripts, view)
	}
	return page, nil
}

func buildScript(index int, s *models.Script, l *models.Listing, opts Options) (scriptView, error) {
	wordLabel := ""
	if len(s.Words.Spoken) > 0 {
		label, err := parser.FormatWordCountLabel(s.Words)
		if err != nil {
			return scriptView{}, err
		}
		wordLabel = label
	}

	filledBy, err := json.Marshal(l.FilledBy)
	if err != nil {
		return scriptView{}, fmt.Errorf("encode filled by: %w", err)
	}

	links, err := linkViews(s.Links.Combined())
	if err != nil {
		return scriptView{}, err
	}

	fills := make([]fillView, 0, len(s.Fills))
	for _, f := range s.Fills {
		if f == nil {
			continue
		}
		fv, err := buildFill(f, s, opts)
		if err != nil {
			return scriptView{}, err
		}
		fills = append(fills, fv)
	}

	classes := "container script-data"
	if parser.AnyNSFW(l.Tags) {
		classes += " blurred"
	}

	return scriptView{
		Index:       index,
		Listing:     l,
		Published:   s.Published,
		WordLabel:   wordLabel,
		Rating:      parser.RatingLabel(l.Tags),
		Classes:     classes,
		Speakers:    strings.Join(l.Speakers, ","),
		AudienceCSV: strings.Join(l.Audience, ","),
		FilledBy:    string(filledBy),
		VAsFilled:   strings.Join(flatten(l.FilledBy), "==="),
		Links:       links,
		Fills:       fills,
	}, nil
}

func buildFill(f *models.Fill, s *models.Script, opts Options) (fillView, error) {
	links, err := linkViews(f.Links)
	if err != nil {
		return fillView{}, fmt.Errorf("fill %q: %w", f.Title, err)
	}

	duration := ""
	if f.Duration != "" {
		d, err := parser.ParseFillDuration(f.Duration)
		if err != nil {
			return fillView{}, fmt.Errorf("fill %q: %w", f.Title, err)
		}
		duration = parser.FormatClock(d)
	}

	return fillView{
		Creators: f.Creators,
		Title:    f.Title,
		Audience: f.Audience,
		Gender:   parser.SummariseGender(f.Audience),
		Date:     f.Date,
		Duration: duration,
		Label:    f.Label,
		Script:   s.Title,
		Links:    links,
		Header:   HeaderIcons(f.Creators, s.AttendantVA, opts.Author),
	}, nil
}

func linkViews(set models.LinkSet) ([]linkView, error) {
	out := make([]linkView, 0, len(set))
	for _, link := range set.NonEmpty() {
		classes, err := LinkIconClasses(link.Label)
		if err != nil {
			return nil, err
		}
		out = append(out, linkView{Href: link.URL, Label: link.Label, Icons: strings.Join(classes, " ")})
	}
	return out, nil
}

func flatten(groups [][]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// AllFills writes the page listing every fill across scripts, newest first
// and numbered n..1. Fills of adult scripts are blurred.
func AllFills(w io.Writer, scripts []*models.Script, opts Options) error {
	page, err := buildFills(scripts, opts)
	if err != nil {
		return err
	}
	if err := pages.ExecuteTemplate(w, "all-fills.html", page); err != nil {
		return fmt.Errorf("render fills: %w", err)
	}
	return nil
}

func buildFills(scripts []*models.Script, opts Options) (*fillsPage, error) {
	type dated struct {
		view fillView
		date string
	}

	var all []dated
	for _, s := range scripts {
		if s == nil {
			continue
		}
		nsfw := parser.AnyNSFW(s.Tags)
		for _, f := range s.Fills {
			if f == nil {
				continue
			}
			fv, err := buildFill(f, s, opts)
			if err != nil {
				return nil, fmt.Errorf("script %q: %w", s.Title, err)
			}
			if nsfw {
				fv.Classes = "blurred"
			}
			all = append(all, dated{view: fv, date: sortableDate(f.Date)})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].date > all[j].date
	})

	page := &fillsPage{Options: opts, Fills: make([]fillView, len(all))}
	for i, d := range all {
		d.view.Index = len(all) - i
		page.Fills[i] = d.view
	}
	return page, nil
}

// sortableDate normalises a fill date so string order is date order.
// Undated fills sort last.
func sortableDate(value string) string {
	t, err := feed.ParseDate(value)
	if err != nil {
		return ""
	}
	return t.Format(feed.DateLayout)
}
