package search

// DemoListings returns a small fixture set for local runs and tests.
func DemoListings() []Property {
	return []Property{
		{
			ID: "rocky_001", Location: "Marina Heights Tower, Dubai Marina",
			Area: "Dubai Marina", City: "Dubai",
			Bedrooms: 1, Bathrooms: 1, MonthlyRent: 7500, YearlyRent: 90000,
			Sqft: 780, PropertyType: "Apartment", Furnished: true, Parking: true,
			Amenities:   []string{"gym", "pool", "security"},
			Description: "Bright one bedroom with full marina view, shared gym and infinity pool.",
		},
		{
			ID: "rocky_002", Location: "Bay Square 11, Business Bay",
			Area: "Business Bay", City: "Dubai",
			Bedrooms: 2, Bathrooms: 2, MonthlyRent: 11000, YearlyRent: 132000,
			Sqft: 1240, PropertyType: "Apartment", Furnished: false, Parking: true,
			Amenities:   []string{"gym", "balcony"},
			Description: "Spacious two bedroom near the canal walk, fitted kitchen, gym on the podium level.",
		},
		{
			ID: "rocky_003", Location: "Burj Views C, Downtown Dubai",
			Area: "Downtown Dubai", City: "Dubai",
			Bedrooms: 0, Bathrooms: 1, MonthlyRent: 5800, YearlyRent: 69600,
			Sqft: 520, PropertyType: "Studio", Furnished: true, Parking: false,
			Amenities:   []string{"pool", "security"},
			Description: "Cozy studio steps from Dubai Mall, fully furnished with pool access.",
		},
		{
			ID: "rocky_004", Location: "Seasons Community, Jumeirah Village Circle (JVC)",
			Area: "Jumeirah Village Circle (JVC)", City: "Dubai",
			Bedrooms: 1, Bathrooms: 2, MonthlyRent: 4900, YearlyRent: 58800,
			Sqft: 900, PropertyType: "Apartment", Furnished: false, Parking: true,
			PetFriendly: true,
			Amenities:   []string{"gym", "elevator"},
			Description: "Quiet one bedroom in JVC, pet friendly building with gym and covered parking.",
		},
		{
			ID: "rocky_005", Location: "Lake Terrace, Jumeirah Lake Towers (JLT)",
			Area: "Jumeirah Lake Towers (JLT)", City: "Dubai",
			Bedrooms: 1, Bathrooms: 1, MonthlyRent: 6200, YearlyRent: 74400,
			Sqft: 820, PropertyType: "Apartment", Furnished: true, Parking: true,
			Amenities:   []string{"gym", "pool", "balcony"},
			Description: "Furnished lake-view one bedroom with gym, pool, and a wide balcony over JLT park.",
		},
	}
}
