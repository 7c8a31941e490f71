package models

import "time"

// WordTotal is a spoken word count that may be unknown.
type WordTotal struct {
	Value int  `json:"value"`
	Known bool `json:"known"`
}

// KnownWords wraps a parsed word count.
func KnownWords(n int) WordTotal {
	return WordTotal{Value: n, Known: true}
}

// Listing is the flat record the filter evaluates. It is rebuilt from the
// feed (or a rendered page) on every pass and never mutated afterwards.
type Listing struct {
	ID            string     `json:"id"`
	Position      int        `json:"position"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	Words         WordTotal  `json:"words"`
	Fills         int        `json:"fills"`
	FilledBy      [][]string `json:"filled_by,omitempty"`
	Series        *Series    `json:"series,omitempty"`
	Speakers      []string   `json:"speakers"`
	Audience      []string   `json:"audience"`
	Tags          []string   `json:"tags"`
	Links         []string   `json:"links,omitempty"`
	CanonicalLink string     `json:"canonical_link,omitempty"`
}

// IsOneShot reports whether the listing belongs to no series.
func (l *Listing) IsOneShot() bool {
	return l.Series == nil
}

// ScrapeResult holds the overall result of collecting a remote source.
type ScrapeResult struct {
	StartTime    time.Time
	EndTime      time.Time
	TotalCount   int
	ErrorCount   int
	FailedURLs   []string
	ErrorsByType map[string]int
	RetryCount   int
	RequestCount int
	PageCount    int
}
