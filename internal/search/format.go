package search

import (
	"fmt"
	"strings"
)

// FormatSummaries renders search hits as LLM context, one block per hit.
func FormatSummaries(hits []Summary) string {
	var b strings.Builder
	for i, hit := range hits {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Property %d (Similarity Score: %.4f):\n", i+1, hit.Score)
		fmt.Fprintf(&b, "- Property ID: %s\n", hit.ID)
		fmt.Fprintf(&b, "- Location: %s\n", hit.Location)
		fmt.Fprintf(&b, "- Bedrooms: %d\n", hit.Bedrooms)
		fmt.Fprintf(&b, "- Bathrooms: %d\n", hit.Bathrooms)
		fmt.Fprintf(&b, "- Monthly Rent: AED %.0f\n", hit.MonthlyRent)
		fmt.Fprintf(&b, "- Yearly Rent: AED %.0f\n", hit.YearlyRent)
		fmt.Fprintf(&b, "- Furnished: %v\n", hit.Furnished)
		fmt.Fprintf(&b, "- Parking: %v\n", hit.Parking)
		fmt.Fprintf(&b, "- Amenities: %s\n", strings.Join(hit.Amenities, ", "))
		fmt.Fprintf(&b, "- Description: %s\n", truncate(hit.Description, 200))
	}
	return b.String()
}

// FormatProperty renders the full record for LLM context.
func FormatProperty(p *Property) string {
	var b strings.Builder
	b.WriteString("Full Property Details:\n")
	fmt.Fprintf(&b, "- Property ID: %s\n", p.ID)
	fmt.Fprintf(&b, "- Location: %s\n", p.Location)
	fmt.Fprintf(&b, "- Area: %s\n", p.Area)
	fmt.Fprintf(&b, "- City: %s\n", p.City)
	fmt.Fprintf(&b, "- Bedrooms: %d\n", p.Bedrooms)
	fmt.Fprintf(&b, "- Bathrooms: %d\n", p.Bathrooms)
	fmt.Fprintf(&b, "- Monthly Rent: AED %.0f\n", p.MonthlyRent)
	fmt.Fprintf(&b, "- Yearly Rent: AED %.0f\n", p.YearlyRent)
	fmt.Fprintf(&b, "- Square Feet: %d\n", p.Sqft)
	fmt.Fprintf(&b, "- Property Type: %s\n", p.PropertyType)
	fmt.Fprintf(&b, "- Furnished: %v\n", p.Furnished)
	fmt.Fprintf(&b, "- Parking: %v\n", p.Parking)
	fmt.Fprintf(&b, "- Amenities: %s\n", strings.Join(p.Amenities, ", "))
	fmt.Fprintf(&b, "- Pet Friendly: %v\n", p.PetFriendly)
	fmt.Fprintf(&b, "- URL: %s\n", p.URL)
	fmt.Fprintf(&b, "- Description: %s\n", p.Description)
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
