package parser

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

func TestExtractSpeakers(t *testing.T) {
	tests := []struct {
		audience string
		want     []string
	}{
		{"MTMFNBTF4A", []string{"M", "TM", "F", "NB", "TF"}},
		{"F4M", []string{"F"}},
		{"FFM4A", []string{"F", "F", "M"}},
		{"TFTA4A", []string{"TF", "TA"}},
		{"MF4A4M", []string{"M", "F"}},
		{"XQ4A", []string{}},
		{"", []string{}},
		{"MF", []string{"M", "F"}},
	}

	for _, tt := range tests {
		t.Run(tt.audience, func(t *testing.T) {
			got := ExtractSpeakers(tt.audience)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractSpeakers(%q) = %v, want %v", tt.audience, got, tt.want)
			}
		})
	}
}

func TestParseWordCountLabel(t *testing.T) {
	tests := []struct {
		label string
		want  models.WordTotal
	}{
		{"1,234 words", models.KnownWords(1234)},
		{"1,000+234 (=1,234 words)", models.KnownWords(1234)},
		{"[F4M] [comfort] 987 Words", models.KnownWords(987)},
		{"no count here", models.WordTotal{}},
		{"", models.WordTotal{}},
		{"12 wordsmiths", models.WordTotal{}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ParseWordCountLabel(tt.label); got != tt.want {
				t.Fatalf("ParseWordCountLabel(%q) = %+v, want %+v", tt.label, got, tt.want)
			}
		})
	}
}

func TestFormatWordCountLabel(t *testing.T) {
	single := models.WordCount{Spoken: models.SpokenWords{{Role: "F", Words: 1234}}}
	if got, err := FormatWordCountLabel(single); err != nil || got != "1,234 words" {
		t.Fatalf("single role = %q, %v", got, err)
	}

	multi := models.WordCount{Spoken: models.SpokenWords{{Role: "F", Words: 1000}, {Role: "M", Words: 234}}}
	got, err := FormatWordCountLabel(multi)
	if err != nil || got != "1,000+234 (=1,234 words)" {
		t.Fatalf("multi role = %q, %v", got, err)
	}
	if back := ParseWordCountLabel(got); back != models.KnownWords(1234) {
		t.Fatalf("label does not parse back: %+v", back)
	}

	if _, err := FormatWordCountLabel(models.WordCount{}); err == nil {
		t.Fatalf("expected error for a script with no spoken roles")
	}
}

func TestSerialise(t *testing.T) {
	tests := map[string]string{
		"Tender Moment":         "tender-moment",
		"Salt & Sea":            "salt-and-sea",
		`A "Quiet" Night's End`: "a-quiet-nights-end",
		"Home~Again":            "home-again",
	}
	for in, want := range tests {
		if got := Serialise(in); got != want {
			t.Errorf("Serialise(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSummariseGender(t *testing.T) {
	tests := map[string]string{
		"F4M":  "female",
		"FF4A": "female",
		"M4F":  "male",
		"MF4A": "neutral",
		"NB4A": "neutral",
	}
	for in, want := range tests {
		if got := SummariseGender(in); got != want {
			t.Errorf("SummariseGender(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTags(t *testing.T) {
	tags := ExtractTags("[comfort] [sleep aid][18+]")
	if !reflect.DeepEqual(tags, []string{"comfort", "sleep aid", "18+"}) {
		t.Fatalf("ExtractTags = %v", tags)
	}
	if got := JoinTags(tags); got != "[comfort][sleep aid][18+]" {
		t.Fatalf("JoinTags = %q", got)
	}
	if !reflect.DeepEqual(ExtractTags(JoinTags(tags)), tags) {
		t.Fatalf("JoinTags does not invert ExtractTags")
	}
	if len(ExtractTags("")) != 0 {
		t.Fatalf("empty tag string should give no tags")
	}

	for _, tag := range []string{"18+", "NSFW", "r18", " nsfw "} {
		if !IsNSFWTag(tag) {
			t.Errorf("IsNSFWTag(%q) = false", tag)
		}
	}
	if IsNSFWTag("18") || IsNSFWTag("wholesome") {
		t.Fatalf("unexpected NSFW classification")
	}
	if RatingLabel([]string{"fluff", "18+"}) != "NSFW" || RatingLabel([]string{"fluff"}) != "SFW" || RatingLabel(nil) != "SFW" {
		t.Fatalf("unexpected rating labels")
	}
}

func TestDurations(t *testing.T) {
	tests := []struct {
		in    string
		want  time.Duration
		clock string
	}{
		{"12m5s", 12*time.Minute + 5*time.Second, "12:05"},
		{"1h2m3s", time.Hour + 2*time.Minute + 3*time.Second, "62:03"},
		{"0m30.5s", 30*time.Second + 500*time.Millisecond, "00:31"},
	}
	for _, tt := range tests {
		got, err := ParseFillDuration(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseFillDuration(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if clock := FormatClock(got); clock != tt.clock {
			t.Fatalf("FormatClock(%v) = %q, want %q", got, clock, tt.clock)
		}
	}

	if _, err := ParseFillDuration("twelve minutes"); err == nil {
		t.Fatalf("expected error for malformed duration")
	}
	if FormatClock(0) != "" {
		t.Fatalf("zero duration should render empty")
	}
}

func TestValidateListing(t *testing.T) {
	valid := &models.Listing{ID: "a", Title: "A"}
	if err := ValidateListing(valid); err != nil {
		t.Fatalf("valid listing rejected: %v", err)
	}

	tests := []struct {
		name    string
		listing *models.Listing
		want    string
	}{
		{"nil", nil, "nil"},
		{"no id", &models.Listing{Title: "A"}, "missing id"},
		{"no title", &models.Listing{ID: "a", Title: "  "}, "missing title"},
		{"negative fills", &models.Listing{ID: "a", Title: "A", Fills: -1}, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListing(tt.listing)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestFromScripts(t *testing.T) {
	scripts := []*models.Script{
		{
			Title:    "Tender Moment",
			Audience: []string{"MF4A", "F4A"},
			Tags:     []string{"fluff"},
			Summary:  "A calm night",
			Words:    models.WordCount{Spoken: models.SpokenWords{{Role: "F", Words: 900}, {Role: "M", Words: 100}}, Total: 1200},
			Links: models.Links{
				Script: models.LinkSet{{Label: "scriptbin", URL: "https://scriptbin.test/a"}, {Label: "Reddit", URL: ""}},
				Post:   models.LinkSet{{Label: "scriptbin", URL: "https://scriptbin.test/b"}, {Label: "r/gwa", URL: "https://reddit.test/a"}},
			},
			Fills: []*models.Fill{{Creators: []string{"alice"}}, {Creators: []string{"bob", "carol"}}},
		},
		nil,
		{Title: "Tender Moment", Audience: []string{"F4M"}},
		{Title: "Unknown Words", Series: &models.Series{Title: "Moonlight", Index: 2}},
	}

	listings := FromScripts(scripts)
	if len(listings) != 3 {
		t.Fatalf("listings = %d, want 3", len(listings))
	}

	first := listings[0]
	if first.ID != "tender-moment" || first.Position != 0 {
		t.Fatalf("unexpected first listing %+v", first)
	}
	if !reflect.DeepEqual(first.Speakers, []string{"M", "F"}) {
		t.Fatalf("speakers come from the first audience tag, got %v", first.Speakers)
	}
	if first.Words != models.KnownWords(1000) {
		t.Fatalf("words = %+v, want all spoken words", first.Words)
	}
	if first.Fills != len(first.FilledBy) || first.Fills != 2 {
		t.Fatalf("fills %d and filled by %v disagree", first.Fills, first.FilledBy)
	}
	if !reflect.DeepEqual(first.Links, []string{"https://scriptbin.test/b", "https://reddit.test/a"}) {
		t.Fatalf("links = %v", first.Links)
	}
	if first.CanonicalLink != "https://scriptbin.test/b" {
		t.Fatalf("canonical = %q", first.CanonicalLink)
	}

	if listings[1].ID != "tender-moment-2" {
		t.Fatalf("duplicate title should get a suffix, got %q", listings[1].ID)
	}

	third := listings[2]
	if third.Words.Known {
		t.Fatalf("a script without spoken roles has unknown words")
	}
	if third.IsOneShot() || third.Series.Index != 2 {
		t.Fatalf("series not copied: %+v", third.Series)
	}
	if third.Fills != 0 || len(third.Speakers) != 0 || third.Speakers == nil {
		t.Fatalf("absent optional fields should be explicit empties: %+v", third)
	}

	scripts[3].Series.Title = "changed"
	if third.Series.Title != "Moonlight" {
		t.Fatalf("listing shares series with its script")
	}
}
