package search

import "testing"

func TestParseFiltersBedrooms(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"looking for 1 bedroom with a gym", 1},
		{"2 bedroom apartment in dubai", 2},
		{"need a 3br place", 3},
		{"two bedroom near downtown", 2},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := ParseFilters(tt.query)
			if f.Bedrooms == nil {
				t.Fatalf("Bedrooms = nil, want %d", tt.want)
			}
			if *f.Bedrooms != tt.want {
				t.Errorf("Bedrooms = %d, want %d", *f.Bedrooms, tt.want)
			}
		})
	}
}

func TestParseFiltersStudio(t *testing.T) {
	f := ParseFilters("any studio available?")
	if f.Bedrooms == nil || *f.Bedrooms != 0 {
		t.Errorf("studio query should set Bedrooms=0, got %v", f.Bedrooms)
	}
}

func TestParseFiltersPrice(t *testing.T) {
	f := ParseFilters("2 bedroom under 10k monthly")
	if f.MaxMonthlyRent == nil || *f.MaxMonthlyRent != 10000 {
		t.Errorf("MaxMonthlyRent = %v, want 10000", f.MaxMonthlyRent)
	}

	f = ParseFilters("something over 5000 per month with parking")
	if f.MinMonthlyRent == nil || *f.MinMonthlyRent != 5000 {
		t.Errorf("MinMonthlyRent = %v, want 5000", f.MinMonthlyRent)
	}
	if f.Parking == nil || !*f.Parking {
		t.Error("Parking filter should be set")
	}
}

func TestParseFiltersFurnished(t *testing.T) {
	f := ParseFilters("furnished 1 bedroom")
	if f.Furnished == nil || !*f.Furnished {
		t.Error("furnished should set Furnished=true")
	}

	f = ParseFilters("unfurnished 1 bedroom")
	if f.Furnished == nil || *f.Furnished {
		t.Error("unfurnished should set Furnished=false")
	}
}

func TestParseFiltersAmenitiesAndArea(t *testing.T) {
	f := ParseFilters("apartment with gym and pool in dubai marina")
	if len(f.Amenities) != 2 {
		t.Fatalf("Amenities = %v, want [gym pool]", f.Amenities)
	}
	if f.City != "Dubai" {
		t.Errorf("City = %q, want Dubai", f.City)
	}
	if f.Area != "Dubai Marina" {
		t.Errorf("Area = %q, want Dubai Marina", f.Area)
	}
}

func TestParseFiltersEmptyQuery(t *testing.T) {
	f := ParseFilters("somewhere nice to live")
	if !f.Empty() {
		t.Errorf("expected empty filters, got %+v", f)
	}
}
