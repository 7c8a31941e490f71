package filter

import (
	"sort"
	"strings"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

// SeriesOptions lists the series selector choices: no filter, one-shots
// only, then every series title sorted case-insensitively.
func SeriesOptions(listings []*models.Listing) []string {
	seen := make(map[string]struct{})
	var titles []string
	for _, l := range listings {
		if l == nil || l.Series == nil {
			continue
		}
		if _, ok := seen[l.Series.Title]; ok {
			continue
		}
		seen[l.Series.Title] = struct{}{}
		titles = append(titles, l.Series.Title)
	}
	sort.SliceStable(titles, func(i, j int) bool {
		return strings.ToLower(titles[i]) < strings.ToLower(titles[j])
	})
	return append([]string{"", OneShotsOnly}, titles...)
}

// AudienceOptions lists every audience code, upper-cased and sorted.
func AudienceOptions(listings []*models.Listing) []string {
	set := make(map[string]struct{})
	for _, l := range listings {
		if l == nil {
			continue
		}
		for _, code := range l.Audience {
			set[strings.ToUpper(code)] = struct{}{}
		}
	}
	return append([]string{""}, sortedKeys(set)...)
}

// FilledByOptions lists every credited voice actor, sorted.
func FilledByOptions(listings []*models.Listing) []string {
	set := make(map[string]struct{})
	for _, l := range listings {
		if l == nil {
			continue
		}
		for _, group := range l.FilledBy {
			for _, name := range group {
				set[name] = struct{}{}
			}
		}
	}
	return append([]string{""}, sortedKeys(set)...)
}

// SpeakerCountOptions lists the distinct speaker counts, ascending.
func SpeakerCountOptions(listings []*models.Listing) []int {
	set := make(map[int]struct{})
	for _, l := range listings {
		if l == nil {
			continue
		}
		set[len(l.Speakers)] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
