package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLinkSetJSONKeepsOrder(t *testing.T) {
	in := LinkSet{{Label: "scriptbin", URL: "https://s.test"}, {Label: "Reddit", URL: "https://r.test"}, {Label: "Docs"}}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"scriptbin":"https://s.test","Reddit":"https://r.test","Docs":""}`; string(data) != want {
		t.Fatalf("marshal = %s, want %s", data, want)
	}

	var out LinkSet
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip = %+v", out)
	}

	if err := json.Unmarshal([]byte(`["a"]`), &out); err == nil {
		t.Fatalf("expected error for a non-object link set")
	}
}

func TestSpokenWordsYAML(t *testing.T) {
	var wc WordCount
	if err := yaml.Unmarshal([]byte("spoken:\n  TF: 10\n  M: 20\n  A: 5\ntotal: 40\n"), &wc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := SpokenWords{{Role: "TF", Words: 10}, {Role: "M", Words: 20}, {Role: "A", Words: 5}}
	if !reflect.DeepEqual(wc.Spoken, want) || wc.Total != 40 {
		t.Fatalf("word count = %+v", wc)
	}
	if wc.AllSpoken() != 35 {
		t.Fatalf("AllSpoken = %d", wc.AllSpoken())
	}

	if err := yaml.Unmarshal([]byte("spoken: [1, 2]\n"), &wc); err == nil {
		t.Fatalf("expected error for a sequence")
	}
}

func TestLinksCombinedAndCanonical(t *testing.T) {
	links := Links{
		Script: LinkSet{{Label: "scriptbin", URL: "https://s.test/a"}, {Label: "Google Docs", URL: "https://d.test"}},
		Post:   LinkSet{{Label: "r/gwa", URL: "https://r.test"}, {Label: "scriptbin", URL: "https://s.test/b"}},
	}

	want := LinkSet{
		{Label: "scriptbin", URL: "https://s.test/b"},
		{Label: "Google Docs", URL: "https://d.test"},
		{Label: "r/gwa", URL: "https://r.test"},
	}
	if got := links.Combined(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Combined = %+v", got)
	}
	if links.Canonical() != "https://r.test" {
		t.Fatalf("Canonical = %q", links.Canonical())
	}
	if (Links{}).Canonical() != "" {
		t.Fatalf("unposted script should have no canonical link")
	}
	if url, ok := links.Script.Get("Google Docs"); !ok || url != "https://d.test" {
		t.Fatalf("Get = %q, %v", url, ok)
	}
}

func TestFilledBy(t *testing.T) {
	s := &Script{Fills: []*Fill{{Creators: []string{"alice"}}, nil, {Creators: []string{"bob", "carol"}}}}
	got := s.FilledBy()
	if !reflect.DeepEqual(got, [][]string{{"alice"}, {"bob", "carol"}}) {
		t.Fatalf("FilledBy = %v", got)
	}
	got[0][0] = "mallory"
	if s.Fills[0].Creators[0] != "alice" {
		t.Fatalf("FilledBy shares creator slices with the script")
	}
	if len((&Script{}).FilledBy()) != 0 {
		t.Fatalf("no fills should give no groups")
	}
}
