package filter

import "github.com/aluiziolira/go-fill-catalogue/models"

// Visibility is the outcome of one listing in a pass.
type Visibility struct {
	ID         string    `json:"id"`
	Visible    bool      `json:"visible"`
	RejectedBy Criterion `json:"rejected_by,omitempty"`
}

// Result is the output of a filter pass.
type Result struct {
	Listings     []Visibility
	ScriptsShown int
	FillsShown   int
	Rejections   map[Criterion]int
}

// Visible returns the listings that passed, in input order.
func (r Result) Visible(listings []*models.Listing) []*models.Listing {
	shown := make(map[string]bool, len(r.Listings))
	for _, v := range r.Listings {
		if v.Visible {
			shown[v.ID] = true
		}
	}

	out := make([]*models.Listing, 0, r.ScriptsShown)
	for _, l := range listings {
		if l != nil && shown[l.ID] {
			out = append(out, l)
		}
	}
	return out
}

// Apply evaluates every listing against the criteria and totals the shown
// scripts and their fills. It has no side effects; the caller decides how
// visibility is presented.
func Apply(listings []*models.Listing, c Criteria) Result {
	result := Result{
		Listings:   make([]Visibility, 0, len(listings)),
		Rejections: make(map[Criterion]int),
	}

	for _, l := range listings {
		if l == nil {
			continue
		}

		ok, failed := Match(l, c)
		result.Listings = append(result.Listings, Visibility{ID: l.ID, Visible: ok, RejectedBy: failed})
		if !ok {
			result.Rejections[failed]++
			continue
		}

		result.ScriptsShown++
		result.FillsShown += l.Fills
	}

	return result
}
