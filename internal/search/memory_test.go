package search

import (
	"context"
	"errors"
	"testing"
)

func demoIndex() *InMemoryIndex {
	return NewInMemoryIndex(DemoListings())
}

func TestSearchAppliesFilters(t *testing.T) {
	idx := demoIndex()
	one := 1
	hits, err := idx.Search(context.Background(), "gym", &Filters{Bedrooms: &one, Amenities: []string{"gym"}}, 5, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected at least one hit")
	}
	for _, hit := range hits {
		if hit.Bedrooms != 1 {
			t.Errorf("hit %s has %d bedrooms, want 1", hit.ID, hit.Bedrooms)
		}
		if !hasAmenity(hit.Property, "gym") {
			t.Errorf("hit %s missing gym", hit.ID)
		}
	}
}

func TestSearchRanksByOverlap(t *testing.T) {
	idx := demoIndex()
	hits, err := idx.Search(context.Background(), "marina view pool", nil, 5, 0.1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected hits for marina query")
	}
	if hits[0].ID != "rocky_001" {
		t.Errorf("top hit = %s, want rocky_001", hits[0].ID)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not ordered by score at %d", i)
		}
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	idx := demoIndex()
	hits, err := idx.Search(context.Background(), "dubai", nil, 2, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) > 2 {
		t.Errorf("got %d hits, limit was 2", len(hits))
	}
}

func TestGetByIDNormalization(t *testing.T) {
	idx := demoIndex()
	for _, ref := range []string{"rocky_001", "1", "#1", "001"} {
		p, err := idx.GetByID(context.Background(), ref)
		if err != nil {
			t.Fatalf("GetByID(%q): %v", ref, err)
		}
		if p.ID != "rocky_001" {
			t.Errorf("GetByID(%q) = %s, want rocky_001", ref, p.ID)
		}
	}
}

func TestGetByIDNotFound(t *testing.T) {
	idx := demoIndex()
	_, err := idx.GetByID(context.Background(), "rocky_999")
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("err = %v, want ErrPropertyNotFound", err)
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"rocky_001", "1"},
		{"rocky_015", "15"},
		{"7", "7"},
		{"#7", "7"},
		{"  Rocky_003 ", "3"},
		{"loft-9", "loft-9"},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
