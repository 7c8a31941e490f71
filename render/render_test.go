package render

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
)

func testScripts() []*models.Script {
	return []*models.Script{
		{
			Title:     "Moonlight, Part 2",
			Published: "2024-05-02",
			Audience:  []string{"F4M", "F4A"},
			Tags:      []string{"romance", "18+"},
			Summary:   "The second night & what follows.",
			Words: models.WordCount{
				Spoken: models.SpokenWords{{Role: "F", Words: 2000}, {Role: "M", Words: 400}},
				Total:  2600,
			},
			Series: &models.Series{Title: "Moonlight", Index: 2},
			Links: models.Links{
				Script: models.LinkSet{{Label: "scriptbin", URL: "https://scriptbin.test/moon2"}},
				Post:   models.LinkSet{{Label: "r/gonewildaudio", URL: "https://reddit.test/moon2"}},
			},
			AttendantVA: []string{"alice"},
			Fills: []*models.Fill{
				{Creators: []string{"alice"}, Title: "moon fill", Audience: "F4M", Date: "2024-06-01", Duration: "12m5s",
					Links: models.LinkSet{{Label: "soundgasm", URL: "https://soundgasm.test/a"}}},
				{Creators: []string{"bob", "lilellia"}, Title: "duet", Audience: "FM4A", Date: "2024-07-01",
					Links: models.LinkSet{{Label: "YouTube", URL: "https://youtube.test/b"}}},
			},
		},
		{
			Title:     "Tender Moment",
			Published: "2024-01-10",
			Audience:  []string{"F4A"},
			Tags:      []string{"comfort", "sleep aid"},
			Summary:   "A quiet evening.",
			Words: models.WordCount{
				Spoken: models.SpokenWords{{Role: "F", Words: 1200}},
				Total:  1500,
			},
			Links: models.Links{
				Script: models.LinkSet{{Label: "Google Docs", URL: "https://docs.test/tender"}},
			},
		},
	}
}

func TestIndexRoundTrip(t *testing.T) {
	scripts := testScripts()

	var buf bytes.Buffer
	if err := Index(&buf, scripts, Options{Title: "Catalogue", Author: "lilellia"}); err != nil {
		t.Fatalf("render index: %v", err)
	}

	got, err := parser.ParsePage(&buf)
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	want := parser.FromScripts(scripts)

	if len(got) != len(want) {
		t.Fatalf("listings = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Fatalf("listing %d differs after rendering:\n got  %+v\n want %+v", i, got[i], want[i])
		}
	}
}

func TestIndexCountersAndControls(t *testing.T) {
	var buf bytes.Buffer
	if err := Index(&buf, testScripts(), Options{Title: "Catalogue", Author: "lilellia"}); err != nil {
		t.Fatalf("render index: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`<span id="numScripts">2</span>`,
		`<span id="numFills">2</span>`,
		`<option value="(one-shots only)">`,
		`<option value="Moonlight">`,
		`value="F4M"`,
		`<option value="alice">`,
		`2,000&#43;400 (=2,400 words)`,
		`fa-brands fa-reddit-alien`,
		`fa-brands fa-google-drive`,
		`fa-solid fa-star`,
		`fa-solid fa-crown`,
		`class="container script-data blurred"`,
		`#2</p>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestIndexUnknownLinkLabel(t *testing.T) {
	scripts := testScripts()
	scripts[1].Links.Script = models.LinkSet{{Label: "Mystery Host", URL: "https://example.test"}}

	var buf bytes.Buffer
	if err := Index(&buf, scripts, Options{}); err == nil || !strings.Contains(err.Error(), "Mystery Host") {
		t.Fatalf("expected unknown label error, got %v", err)
	}
}

func TestAllFillsOrderAndBlur(t *testing.T) {
	page, err := buildFills(testScripts(), Options{Author: "lilellia"})
	if err != nil {
		t.Fatalf("build fills: %v", err)
	}
	if len(page.Fills) != 2 {
		t.Fatalf("fills = %d, want 2", len(page.Fills))
	}

	first, second := page.Fills[0], page.Fills[1]
	if first.Title != "duet" || first.Index != 2 {
		t.Fatalf("newest fill should come first numbered 2, got %+v", first)
	}
	if second.Title != "moon fill" || second.Index != 1 {
		t.Fatalf("unexpected second fill %+v", second)
	}
	if first.Classes != "blurred" {
		t.Fatalf("fill of an adult script should be blurred")
	}
	if second.Duration != "12:05" {
		t.Fatalf("duration = %q, want 12:05", second.Duration)
	}
	if first.Gender != "neutral" || second.Gender != "female" {
		t.Fatalf("genders = %q, %q", first.Gender, second.Gender)
	}

	var buf bytes.Buffer
	if err := AllFills(&buf, testScripts(), Options{Title: "Catalogue"}); err != nil {
		t.Fatalf("render fills: %v", err)
	}
	if !strings.Contains(buf.String(), `<span id="numFills">2</span>`) {
		t.Fatalf("fill counter missing")
	}
}

func TestLinkIconClasses(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"YouTube", "fa-brands fa-youtube"},
		{"soundgasm", "fa-solid fa-headphones"},
		{"Patreon (early access)", "fa-brands fa-patreon"},
		{"Reddit", "fa-brands fa-reddit-alien"},
		{"r/gonewildaudio", "fa-brands fa-reddit-alien"},
		{"u/lilellia", "fa-brands fa-reddit-alien"},
		{"Google Docs", "fa-brands fa-google-drive"},
		{"scriptbin", "fa-solid fa-file-lines"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := LinkIconClasses(tt.label)
			if err != nil {
				t.Fatalf("LinkIconClasses(%q): %v", tt.label, err)
			}
			if strings.Join(got, " ") != tt.want {
				t.Fatalf("LinkIconClasses(%q) = %v, want %q", tt.label, got, tt.want)
			}
		})
	}

	if _, err := LinkIconClasses("Bandcamp"); err == nil {
		t.Fatalf("expected error for unknown label")
	}
}

func TestHeaderIcons(t *testing.T) {
	if got := HeaderIcons([]string{"bob"}, []string{"alice"}, "lilellia"); got != "" {
		t.Fatalf("expected no icons, got %q", got)
	}
	got := string(HeaderIcons([]string{"alice", "lilellia"}, []string{"alice"}, "lilellia"))
	if !strings.Contains(got, "fa-star") || !strings.Contains(got, "fa-crown") {
		t.Fatalf("expected star and crown, got %q", got)
	}
	if got := HeaderIcons([]string{"lilellia"}, nil, ""); got != "" {
		t.Fatalf("empty author should not earn a crown, got %q", got)
	}
}

func TestMarkdown(t *testing.T) {
	l := &models.Listing{
		Title:         "Tender Moment",
		CanonicalLink: "https://reddit.test/tender",
		Audience:      []string{"F4A", "F4M"},
		Tags:          []string{"comfort", "sleep\n    aid"},
		Summary:       "A quiet evening.",
	}

	want := "**[Tender Moment](https://reddit.test/tender)**  \n\\[F4A\\] \\[comfort\\] \\[sleep aid\\]  \n> _A quiet evening._"
	if got := Markdown(l); got != want {
		t.Fatalf("Markdown() =\n%q\nwant\n%q", got, want)
	}

	all := MarkdownAll([]*models.Listing{l, l})
	if strings.Count(all, "**[Tender Moment]") != 2 || !strings.HasSuffix(all, "\n") {
		t.Fatalf("unexpected MarkdownAll output %q", all)
	}
	if MarkdownAll(nil) != "" {
		t.Fatalf("expected empty output for no listings")
	}
}
