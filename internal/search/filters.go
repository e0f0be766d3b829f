package search

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bedroomDigitRE = regexp.MustCompile(`(\d+)\s*(?:bedroom|bedrooms|bed|br)\b`)
	bedroomWordRE  = regexp.MustCompile(`(one|two|three|four|five|six|seven|eight|nine|ten)\s*(?:bedroom|bed)`)
	bathroomRE     = regexp.MustCompile(`(\d+)\s*(?:bathroom|bathrooms|bath)\b`)
	maxPriceRE     = regexp.MustCompile(`(?:under|below|less than|max|maximum|up to)\s*(?:aed\s*)?(\d+(?:\.\d+)?)(k?)\s*(?:monthly|per month|/month)`)
	minPriceRE     = regexp.MustCompile(`(?:over|above|more than|min|minimum|at least)\s*(?:aed\s*)?(\d+(?:\.\d+)?)(k?)\s*(?:monthly|per month|/month)`)
)

var wordToNum = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var areaKeywords = []struct {
	keyword string
	area    string
}{
	{"business bay", "Business Bay"},
	{"dubai marina", "Dubai Marina"},
	{"downtown", "Downtown Dubai"},
	{"jvc", "Jumeirah Village Circle (JVC)"},
	{"jlt", "Jumeirah Lake Towers (JLT)"},
}

// ParseFilters extracts exact-match criteria from a free-form query.
// Anything it cannot pin down precisely is left unset so semantic
// ranking can handle it.
func ParseFilters(query string) *Filters {
	q := strings.ToLower(query)
	f := &Filters{}

	switch {
	case strings.Contains(q, "studio"):
		f.Bedrooms = intPtr(0)
	default:
		if m := bedroomDigitRE.FindStringSubmatch(q); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				f.Bedrooms = intPtr(n)
			}
		} else if m := bedroomWordRE.FindStringSubmatch(q); m != nil {
			if n, ok := wordToNum[m[1]]; ok {
				f.Bedrooms = intPtr(n)
			}
		}
	}

	if m := bathroomRE.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			f.Bathrooms = intPtr(n)
		}
	}

	if m := maxPriceRE.FindStringSubmatch(q); m != nil {
		f.MaxMonthlyRent = float64Ptr(parsePrice(m[1], m[2]))
	}
	if m := minPriceRE.FindStringSubmatch(q); m != nil {
		f.MinMonthlyRent = float64Ptr(parsePrice(m[1], m[2]))
	}

	if strings.Contains(q, "furnished") {
		furnished := !strings.Contains(q, "unfurnished") && !strings.Contains(q, "not furnished")
		f.Furnished = boolPtr(furnished)
	}
	if strings.Contains(q, "parking") {
		f.Parking = boolPtr(true)
	}

	if strings.Contains(q, "gym") || strings.Contains(q, "fitness") {
		f.Amenities = append(f.Amenities, "gym")
	}
	if strings.Contains(q, "pool") || strings.Contains(q, "swimming") {
		f.Amenities = append(f.Amenities, "pool")
	}
	if strings.Contains(q, "security") || strings.Contains(q, "24/7") {
		f.Amenities = append(f.Amenities, "security")
	}
	if strings.Contains(q, "balcony") {
		f.Amenities = append(f.Amenities, "balcony")
	}
	if strings.Contains(q, "elevator") || strings.Contains(q, "lift") {
		f.Amenities = append(f.Amenities, "elevator")
	}

	if strings.Contains(q, "dubai") {
		f.City = "Dubai"
	}
	for _, ak := range areaKeywords {
		if strings.Contains(q, ak.keyword) {
			f.Area = ak.area
			break
		}
	}

	return f
}

func parsePrice(num, suffix string) float64 {
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if suffix == "k" {
		v *= 1000
	}
	return v
}

func intPtr(n int) *int             { return &n }
func float64Ptr(v float64) *float64 { return &v }
func boolPtr(b bool) *bool          { return &b }
