package parser

import (
	"fmt"

	"github.com/aluiziolira/go-fill-catalogue/models"
)

// FromScript builds the listing record for a feed script.
func FromScript(s *models.Script, position int) *models.Listing {
	if s == nil {
		return nil
	}

	filledBy := s.FilledBy()

	words := models.WordTotal{}
	if len(s.Words.Spoken) > 0 {
		words = models.KnownWords(s.Words.AllSpoken())
	}

	var series *models.Series
	if s.Series != nil {
		copied := *s.Series
		series = &copied
	}

	speakers := []string{}
	if len(s.Audience) > 0 {
		speakers = ExtractSpeakers(s.Audience[0])
	}

	var links []string
	for _, link := range s.Links.Combined().NonEmpty() {
		links = append(links, link.URL)
	}

	return &models.Listing{
		ID:            Serialise(s.Title),
		Position:      position,
		Title:         s.Title,
		Summary:       s.Summary,
		Words:         words,
		Fills:         len(filledBy),
		FilledBy:      filledBy,
		Series:        series,
		Speakers:      speakers,
		Audience:      append([]string(nil), s.Audience...),
		Tags:          append([]string(nil), s.Tags...),
		Links:         links,
		CanonicalLink: s.Links.Canonical(),
	}
}

// FromScripts builds listings for a whole feed in order. Titles that
// serialise to the same identifier get "-2", "-3", ... suffixes so every id
// stays unique within the page.
func FromScripts(scripts []*models.Script) []*models.Listing {
	ids := ListingIDs(scripts)
	listings := make([]*models.Listing, 0, len(scripts))
	for _, s := range scripts {
		l := FromScript(s, len(listings))
		if l == nil {
			continue
		}
		l.ID = ids[s]
		listings = append(listings, l)
	}
	return listings
}

// ListingIDs maps every script to the identifier FromScripts gives it.
func ListingIDs(scripts []*models.Script) map[*models.Script]string {
	ids := make(map[*models.Script]string, len(scripts))
	used := make(map[string]struct{}, len(scripts))
	for _, s := range scripts {
		if s == nil {
			continue
		}
		id := uniqueID(Serialise(s.Title), used)
		used[id] = struct{}{}
		ids[s] = id
	}
	return ids
}

func uniqueID(id string, used map[string]struct{}) string {
	if _, taken := used[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}
