package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// InMemoryIndex is a Searcher/DetailFetcher backed by a slice of listings.
// It scores hits by keyword overlap, which is enough for tests and local
// runs; production deployments swap in a vector-store adapter behind the
// same interfaces.
type InMemoryIndex struct {
	mu         sync.RWMutex
	properties []Property
}

var _ Searcher = (*InMemoryIndex)(nil)
var _ DetailFetcher = (*InMemoryIndex)(nil)

// NewInMemoryIndex creates an index over the given listings.
func NewInMemoryIndex(properties []Property) *InMemoryIndex {
	idx := &InMemoryIndex{}
	idx.properties = append(idx.properties, properties...)
	return idx
}

// Add appends listings to the index.
func (idx *InMemoryIndex) Add(properties ...Property) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.properties = append(idx.properties, properties...)
}

// Search returns listings matching the filters, ranked by keyword overlap
// with the query, best first. Results below scoreThreshold are dropped.
func (idx *InMemoryIndex) Search(ctx context.Context, query string, filters *Filters, limit int, scoreThreshold float64) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	terms := tokenize(query)
	var hits []Summary
	for _, p := range idx.properties {
		if !matchesFilters(p, filters) {
			continue
		}
		score := overlapScore(p, terms)
		if score < scoreThreshold {
			continue
		}
		hits = append(hits, Summary{Property: p, Score: score})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// GetByID resolves a listing, accepting "rocky_007", "007", "7" or "#7".
func (idx *InMemoryIndex) GetByID(ctx context.Context, propertyID string) (*Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := NormalizeID(propertyID)
	if want == "" {
		return nil, ErrPropertyNotFound
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for i := range idx.properties {
		if NormalizeID(idx.properties[i].ID) == want {
			p := idx.properties[i]
			return &p, nil
		}
	}
	return nil, ErrPropertyNotFound
}

var idDigitsRE = regexp.MustCompile(`\d+`)

// NormalizeID canonicalizes the many shapes users and models produce for a
// property reference ("rocky_001", "#1", "1") into a bare numeric string.
// Non-numeric IDs are lowercased and returned as-is.
func NormalizeID(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.TrimPrefix(id, "#")
	if m := idDigitsRE.FindString(id); m != "" && (strings.HasPrefix(id, "rocky_") || allDigits(id)) {
		return strings.TrimLeft(m, "0")
	}
	return id
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func matchesFilters(p Property, f *Filters) bool {
	if f.Empty() {
		return true
	}
	if f.Bedrooms != nil && p.Bedrooms != *f.Bedrooms {
		return false
	}
	if f.Bathrooms != nil && p.Bathrooms != *f.Bathrooms {
		return false
	}
	if f.MinMonthlyRent != nil && p.MonthlyRent < *f.MinMonthlyRent {
		return false
	}
	if f.MaxMonthlyRent != nil && p.MonthlyRent > *f.MaxMonthlyRent {
		return false
	}
	if f.Furnished != nil && p.Furnished != *f.Furnished {
		return false
	}
	if f.Parking != nil && p.Parking != *f.Parking {
		return false
	}
	for _, want := range f.Amenities {
		if !hasAmenity(p, want) {
			return false
		}
	}
	if f.City != "" && !strings.EqualFold(p.City, f.City) {
		return false
	}
	if f.Area != "" && !strings.EqualFold(p.Area, f.Area) {
		return false
	}
	return true
}

func hasAmenity(p Property, want string) bool {
	for _, a := range p.Amenities {
		if strings.EqualFold(a, want) {
			return true
		}
	}
	return false
}

func overlapScore(p Property, terms []string) float64 {
	if len(terms) == 0 {
		return 0.5
	}
	doc := strings.ToLower(fmt.Sprintf("%s %s %s %s %s %s",
		p.Location, p.Area, p.City, p.PropertyType,
		strings.Join(p.Amenities, " "), p.Description))
	matched := 0
	for _, term := range terms {
		if strings.Contains(doc, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

var tokenRE = regexp.MustCompile(`[a-z0-9]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "with": {}, "for": {}, "in": {}, "and": {},
	"or": {}, "do": {}, "you": {}, "have": {}, "i": {}, "want": {}, "looking": {},
	"properties": {}, "property": {}, "apartment": {}, "apartments": {},
}

func tokenize(query string) []string {
	var terms []string
	for _, tok := range tokenRE.FindAllString(strings.ToLower(query), -1) {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		terms = append(terms, tok)
	}
	return terms
}
