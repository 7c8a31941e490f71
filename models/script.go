// Package models defines the catalogue data structures.
package models

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Feed is the top-level document of the JSON feed and the YAML source.
type Feed struct {
	Scripts []*Script `json:"scripts" yaml:"scripts"`
}

// Script is one listing as it appears in the feed.
type Script struct {
	Title       string    `json:"title" yaml:"title"`
	Authors     []string  `json:"authors,omitempty" yaml:"authors,omitempty"`
	Published   string    `json:"published,omitempty" yaml:"published,omitempty"`
	Finished    string    `json:"finished,omitempty" yaml:"finished,omitempty"`
	Audience    []string  `json:"audience" yaml:"audience"`
	Tags        []string  `json:"tags" yaml:"tags"`
	Summary     string    `json:"summary" yaml:"summary"`
	Words       WordCount `json:"words" yaml:"words"`
	Series      *Series   `json:"series,omitempty" yaml:"series,omitempty"`
	Links       Links     `json:"links" yaml:"links"`
	AttendantVA []string  `json:"attendant VA,omitempty" yaml:"attendant VA,omitempty"`
	Fills       []*Fill   `json:"fills,omitempty" yaml:"fills,omitempty"`
	Notes       string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// FilledBy returns the creator groups of every fill, in fill order.
func (s *Script) FilledBy() [][]string {
	groups := make([][]string, 0, len(s.Fills))
	for _, f := range s.Fills {
		if f == nil {
			continue
		}
		group := make([]string, len(f.Creators))
		copy(group, f.Creators)
		groups = append(groups, group)
	}
	return groups
}

// Series places a script inside a numbered series.
type Series struct {
	Title string `json:"title" yaml:"title"`
	Index int    `json:"index" yaml:"index"`
}

// RoleWords is the number of words spoken by one role.
type RoleWords struct {
	Role  string
	Words int
}

// SpokenWords keeps per-role counts in feed order.
type SpokenWords []RoleWords

// WordCount is the word breakdown of a script.
type WordCount struct {
	Spoken SpokenWords `json:"spoken" yaml:"spoken"`
	Total  int         `json:"total" yaml:"total"`
}

// AllSpoken returns the number of words spoken across every role.
func (w WordCount) AllSpoken() int {
	total := 0
	for _, r := range w.Spoken {
		total += r.Words
	}
	return total
}

func (s *SpokenWords) UnmarshalJSON(data []byte) error {
	*s = nil
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		*s = append(*s, RoleWords{Role: key, Words: n})
		return nil
	})
}

func (s SpokenWords) MarshalJSON() ([]byte, error) {
	return encodeObject(len(s), func(i int) (string, any) {
		return s[i].Role, s[i].Words
	})
}

func (s *SpokenWords) UnmarshalYAML(node *yaml.Node) error {
	*s = nil
	return decodeMapping(node, func(key string, value *yaml.Node) error {
		var n int
		if err := value.Decode(&n); err != nil {
			return err
		}
		*s = append(*s, RoleWords{Role: key, Words: n})
		return nil
	})
}

// Link is a labelled outbound URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// LinkSet is a label to URL object that keeps its feed order.
type LinkSet []Link

func (s *LinkSet) UnmarshalJSON(data []byte) error {
	*s = nil
	return decodeObject(data, func(key string, dec *json.Decoder) error {
		var url *string
		if err := dec.Decode(&url); err != nil {
			return err
		}
		link := Link{Label: key}
		if url != nil {
			link.URL = *url
		}
		*s = append(*s, link)
		return nil
	})
}

func (s LinkSet) MarshalJSON() ([]byte, error) {
	return encodeObject(len(s), func(i int) (string, any) {
		return s[i].Label, s[i].URL
	})
}

func (s *LinkSet) UnmarshalYAML(node *yaml.Node) error {
	*s = nil
	return decodeMapping(node, func(key string, value *yaml.Node) error {
		var url string
		if err := value.Decode(&url); err != nil {
			return err
		}
		*s = append(*s, Link{Label: key, URL: url})
		return nil
	})
}

// Get returns the URL stored under label.
func (s LinkSet) Get(label string) (string, bool) {
	for _, l := range s {
		if l.Label == label {
			return l.URL, true
		}
	}
	return "", false
}

// NonEmpty drops links without a URL.
func (s LinkSet) NonEmpty() LinkSet {
	out := make(LinkSet, 0, len(s))
	for _, l := range s {
		if l.URL != "" {
			out = append(out, l)
		}
	}
	return out
}

// Links groups the script-hosting links and the announcement posts.
type Links struct {
	Script LinkSet `json:"script" yaml:"script"`
	Post   LinkSet `json:"post" yaml:"post"`
}

// Combined returns script links followed by post links. A post label that
// repeats a script label replaces it in place.
func (l Links) Combined() LinkSet {
	out := make(LinkSet, 0, len(l.Script)+len(l.Post))
	index := make(map[string]int, len(l.Script)+len(l.Post))
	for _, set := range []LinkSet{l.Script, l.Post} {
		for _, link := range set {
			if i, ok := index[link.Label]; ok {
				out[i] = link
				continue
			}
			index[link.Label] = len(out)
			out = append(out, link)
		}
	}
	return out
}

// Canonical is the first post link, or "" when the script was never posted.
func (l Links) Canonical() string {
	if len(l.Post) == 0 {
		return ""
	}
	return l.Post[0].URL
}

// Fill is a recording of a script.
type Fill struct {
	Creators []string `json:"creators" yaml:"creators"`
	Title    string   `json:"title" yaml:"title"`
	Audience string   `json:"audience" yaml:"audience"`
	Links    LinkSet  `json:"links" yaml:"links"`
	Date     string   `json:"date,omitempty" yaml:"date,omitempty"`
	Duration string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
}
