package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aluiziolira/go-fill-catalogue/filter"
	"github.com/aluiziolira/go-fill-catalogue/models"
)

func writePresets(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write presets: %v", err)
	}
	return path
}

func TestLoadPresets(t *testing.T) {
	path := writePresets(t, `
presets:
  short-comfort:
    text: comfort
    max_words: 1500
    audience: [f4a, F4M]
    rating: [SFW]
  nothing-checked:
    filled_status: []
    empty_selection: all
`)

	pf, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	if names := pf.Names(); len(names) != 2 || names[0] != "nothing-checked" {
		t.Fatalf("names = %v", names)
	}

	p, err := pf.Lookup("short-comfort")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	c := p.Criteria()
	if c.Text != "comfort" || c.MinWords != nil || c.MaxWords == nil || *c.MaxWords != 1500 {
		t.Fatalf("unexpected criteria %+v", c)
	}
	if !c.Audience.Has("F4A") || !c.Audience.Has("F4M") {
		t.Fatalf("audience should be upper-cased: %v", c.Audience.Values())
	}
	if c.Speakers.Active() || c.FilledStatus.Active() {
		t.Fatalf("omitted controls should be absent")
	}

	empty, err := pf.Lookup("nothing-checked")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	ec := empty.Criteria()
	if !ec.FilledStatus.Active() || ec.FilledStatus.Len() != 0 {
		t.Fatalf("explicit empty list should be an active empty control")
	}
	if ec.EmptySelection != filter.EmptyMatchesAll {
		t.Fatalf("policy = %v, want all", ec.EmptySelection)
	}

	if _, err := pf.Lookup("missing"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetCriteriaFilter(t *testing.T) {
	path := writePresets(t, `
presets:
  unfilled:
    filled_status: [unfilled]
`)
	pf, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	p, _ := pf.Lookup("unfilled")

	listings := []*models.Listing{
		{ID: "a", Title: "A", Fills: 0},
		{ID: "b", Title: "B", Fills: 2},
	}
	result := filter.Apply(listings, p.Criteria())
	if result.ScriptsShown != 1 || !result.Listings[0].Visible {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestLoadPresetsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "no presets", body: "presets: {}\n", want: ErrNoPresets},
		{name: "inverted bounds", body: "presets:\n  x:\n    min_words: 10\n    max_words: 5\n", want: ErrBoundsInverted},
		{name: "negative bound", body: "presets:\n  x:\n    min_words: -1\n", want: ErrNegativeBound},
		{name: "bad status", body: "presets:\n  x:\n    filled_status: [maybe]\n", want: ErrInvalidStatus},
		{name: "bad rating", body: "presets:\n  x:\n    rating: [PG]\n", want: ErrInvalidRating},
		{name: "bad speakers", body: "presets:\n  x:\n    speakers: [two]\n", want: ErrInvalidSpeakers},
		{name: "bad policy", body: "presets:\n  x:\n    empty_selection: some\n", want: ErrInvalidPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPresets(writePresets(t, tt.body))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
