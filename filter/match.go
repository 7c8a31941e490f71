package filter

import (
	"strconv"
	"strings"

	"github.com/aluiziolira/go-fill-catalogue/models"
	"github.com/aluiziolira/go-fill-catalogue/parser"
)

// Criterion names one filter control.
type Criterion string

// Criteria in evaluation order.
const (
	CriterionNone         Criterion = ""
	CriterionText         Criterion = "text"
	CriterionWordCount    Criterion = "word_count"
	CriterionFilledStatus Criterion = "filled_status"
	CriterionSeries       Criterion = "series"
	CriterionSpeakers     Criterion = "speakers"
	CriterionAudience     Criterion = "audience"
	CriterionFilledBy     Criterion = "filled_by"
	CriterionRating       Criterion = "rating"
)

// AudienceOf builds an audience selection; codes compare case-insensitively.
func AudienceOf(codes ...string) Selection {
	upper := make([]string, 0, len(codes))
	for _, c := range codes {
		upper = append(upper, strings.ToUpper(strings.TrimSpace(c)))
	}
	return Of(upper...)
}

// Match reports whether the listing passes every criterion. When it does not,
// the first failing criterion is returned; later ones are not evaluated.
func Match(l *models.Listing, c Criteria) (bool, Criterion) {
	switch {
	case !MatchesText(l, c.Text):
		return false, CriterionText
	case !MatchesWordCount(l.Words, c.MinWords, c.MaxWords):
		return false, CriterionWordCount
	case !matchesFilledStatus(l.Fills, c.FilledStatus, c.EmptySelection):
		return false, CriterionFilledStatus
	case !MatchesSeries(c.Series, l.Series):
		return false, CriterionSeries
	case !c.Speakers.overlaps([]string{strconv.Itoa(len(l.Speakers))}, c.EmptySelection):
		return false, CriterionSpeakers
	case !c.Audience.overlaps(upperAll(l.Audience), c.EmptySelection):
		return false, CriterionAudience
	case !MatchesFilledBy(l.FilledBy, c.FilledBy):
		return false, CriterionFilledBy
	case !c.Rating.overlaps([]string{parser.RatingLabel(l.Tags)}, c.EmptySelection):
		return false, CriterionRating
	}
	return true, CriterionNone
}

// MatchesText reports whether the trimmed, lower-cased query occurs in the
// title, the summary, the series title or any content tag.
func MatchesText(l *models.Listing, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(l.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(l.Summary), query) {
		return true
	}
	if l.Series != nil && strings.Contains(strings.ToLower(l.Series.Title), query) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// MatchesWordCount applies inclusive bounds. A listing whose word count is
// unknown fails as soon as either bound is set.
func MatchesWordCount(words models.WordTotal, lo, hi *int) bool {
	if lo == nil && hi == nil {
		return true
	}
	if !words.Known {
		return false
	}
	if lo != nil && words.Value < *lo {
		return false
	}
	if hi != nil && words.Value > *hi {
		return false
	}
	return true
}

// MatchesSeries compares the series selector against a listing's series.
func MatchesSeries(target string, series *models.Series) bool {
	switch target {
	case "":
		return true
	case OneShotsOnly:
		return series == nil
	}
	return series != nil && series.Title == target
}

// MatchesFilledBy reports whether name is credited on any fill.
func MatchesFilledBy(filledBy [][]string, name string) bool {
	if name == "" {
		return true
	}
	for _, group := range filledBy {
		for _, creator := range group {
			if creator == name {
				return true
			}
		}
	}
	return false
}

func matchesFilledStatus(fills int, status Selection, policy EmptyPolicy) bool {
	if fills > 0 {
		return status.overlaps([]string{StatusFilled}, policy)
	}
	return status.overlaps([]string{StatusUnfilled}, policy)
}

func upperAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}
