// Package extract turns free-form user text into typed conversation facts.
//
// The many competing text patterns are modeled as an ordered list of
// independent field extractors. Each produces zero or more candidate values
// with an override flag; a single merge step applies them with the rule
// "first match wins, never silently overwrite": an existing non-empty fact
// survives unless a candidate explicitly overrides that exact field.
package extract

import (
	"regexp"
	"strings"
	"time"
)

// Facts is the structured knowledge accumulated across a conversation.
// Zero values mean "not yet known".
type Facts struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date,omitempty"` // YYYY-MM-DD
	Time  string `json:"time,omitempty"` // HH:MM, 24-hour
}

type field int

const (
	fieldName field = iota
	fieldPhone
	fieldEmail
	fieldDate
	fieldTime
)

type candidate struct {
	field    field
	value    string
	override bool
}

// Extractor parses user utterances. It is pure given its inputs and the
// wall clock: no external calls, no side effects, and unmatched patterns
// are simply skipped.
type Extractor struct {
	now func() time.Time
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithClock injects the wall clock, for deterministic tests of relative
// dates like "tomorrow".
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses text against the current facts and returns the updated
// set. It never clears an existing non-empty field. Extractors run in
// fixed order and each sees the facts as merged so far, so the combined
// name+phone pattern pre-empts the individual name and phone phrases.
func (e *Extractor) Extract(text string, current Facts) Facts {
	original := text
	lower := strings.ToLower(text)

	facts := current
	for _, ex := range pipeline {
		facts = merge(facts, ex(e, original, lower, facts))
	}
	return facts
}

func merge(facts Facts, cands []candidate) Facts {
	for _, c := range cands {
		if c.value == "" {
			continue
		}
		switch c.field {
		case fieldName:
			if facts.Name == "" || c.override {
				facts.Name = c.value
			}
		case fieldPhone:
			if facts.Phone == "" || c.override {
				facts.Phone = c.value
			}
		case fieldEmail:
			if facts.Email == "" || c.override {
				facts.Email = c.value
			}
		case fieldDate:
			if facts.Date == "" || c.override {
				facts.Date = c.value
			}
		case fieldTime:
			if facts.Time == "" || c.override {
				facts.Time = c.value
			}
		}
	}
	return facts
}

type fieldExtractor func(e *Extractor, original, lower string, facts Facts) []candidate

var pipeline = []fieldExtractor{
	extractNamePhonePair,
	extractNamePhrase,
	extractPhonePhrase,
	extractEmail,
	extractDate,
	extractTime,
}

var fillerWords = map[string]struct{}{
	"yes": {}, "no": {}, "yep": {}, "nope": {},
}

func isFiller(name string) bool {
	_, ok := fillerWords[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// "laksh, 3122037041" or "yep the same property, Sarah Ahmed, 0501234567".
var namePhonePairRE = regexp.MustCompile(`(?i)([a-z]+(?:\s+[a-z]+)*)\s*,\s*(\d{8,12})(?:\s|$)`)

func extractNamePhonePair(_ *Extractor, original, _ string, facts Facts) []candidate {
	m := namePhonePairRE.FindStringSubmatch(original)
	if m == nil {
		return nil
	}
	name := strings.TrimSpace(m[1])
	phone := m[2]
	if len(name) < 2 || isFiller(name) {
		return nil
	}

	var cands []candidate
	if facts.Name == "" || isFiller(facts.Name) {
		cands = append(cands, candidate{field: fieldName, value: name, override: true})
	}
	if facts.Phone == "" || digitCount(facts.Phone) < 8 {
		cands = append(cands, candidate{field: fieldPhone, value: phone, override: true})
	}
	return cands
}

// Explicit introduction phrases capturing one or more capitalized words.
var namePhraseREs = []*regexp.Regexp{
	regexp.MustCompile(`\b(?i:my\s+name\s+is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)(?:\s+and\b|\s+phone\b|\s*,|\.|!|$)`),
	regexp.MustCompile(`\b(?i:name\s+is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)(?:\s+and\b|\s+phone\b|\s*,|\.|!|$)`),
	regexp.MustCompile(`\b(?i:i'?m)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)(?:\s+and\b|\s+phone\b|\s*,|\.|!|$)`),
	regexp.MustCompile(`\b(?i:i\s+am)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)(?:\s+and\b|\s+phone\b|\s*,|\.|!|$)`),
	regexp.MustCompile(`\b(?i:call\s+me)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)(?:\s+and\b|\s+phone\b|\s*,|\.|!|$)`),
}

func extractNamePhrase(_ *Extractor, original, _ string, facts Facts) []candidate {
	if facts.Name != "" {
		return nil
	}
	for _, re := range namePhraseREs {
		if m := re.FindStringSubmatch(original); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) >= 2 {
				return []candidate{{field: fieldName, value: name}}
			}
		}
	}
	return nil
}

var phonePhraseRE = regexp.MustCompile(`(?i)\b(phone(?:\s+number)?|mobile|number)(?:\s+is)?\s*:?\s*(\d{8,12})\b`)

// words that mark the following number as a resource reference, not a phone
var idContextWords = []string{"property", "unit", "listing", "id"}

func extractPhonePhrase(_ *Extractor, original, _ string, facts Facts) []candidate {
	if facts.Phone != "" {
		return nil
	}
	loc := phonePhraseRE.FindStringSubmatchIndex(original)
	if loc == nil {
		return nil
	}
	prefix := strings.ToLower(strings.TrimSpace(original[:loc[0]]))
	for _, word := range idContextWords {
		if strings.HasSuffix(prefix, word) {
			return nil
		}
	}
	phone := original[loc[4]:loc[5]]
	return []candidate{{field: fieldPhone, value: phone}}
}

var emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

func extractEmail(_ *Extractor, original, _ string, _ Facts) []candidate {
	if m := emailRE.FindString(original); m != "" {
		return []candidate{{field: fieldEmail, value: strings.ToLower(m), override: true}}
	}
	return nil
}

var (
	// full month names re-trigger date extraction even when a date is
	// already known, so "let's do november 7th instead" can correct it
	monthMentionRE = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	relativeDayRE  = regexp.MustCompile(`\b(today|tomorrow)\b`)
	monthDayRE     = regexp.MustCompile(`\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	isoDateRE      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

func extractDate(e *Extractor, _, lower string, facts Facts) []candidate {
	monthMentioned := monthMentionRE.MatchString(lower)
	if facts.Date != "" && !monthMentioned {
		return nil
	}

	// first match wins: relative day, then "<month> <day>", then ISO
	if m := relativeDayRE.FindStringSubmatch(lower); m != nil {
		day := e.now()
		if m[1] == "tomorrow" {
			day = day.AddDate(0, 0, 1)
		}
		return []candidate{{field: fieldDate, value: day.Format("2006-01-02"), override: monthMentioned}}
	}
	if m := monthDayRE.FindStringSubmatch(lower); m != nil {
		month := monthNumbers[m[1]]
		day := atoi(m[2])
		if month > 0 && day >= 1 && day <= 31 {
			date := time.Date(e.now().Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return []candidate{{field: fieldDate, value: date.Format("2006-01-02"), override: monthMentioned}}
		}
	}
	if m := isoDateRE.FindStringSubmatch(lower); m != nil {
		return []candidate{{field: fieldDate, value: m[1], override: monthMentioned}}
	}
	return nil
}

var (
	clockTriggerRE = regexp.MustCompile(`\d{1,2}\s*(am|pm)|\d{1,2}:\d{2}`)
	meridiemRE     = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	bareClockRE    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
)

func extractTime(_ *Extractor, _, lower string, facts Facts) []candidate {
	triggered := clockTriggerRE.MatchString(lower)
	if facts.Time != "" && !triggered {
		return nil
	}

	if m := meridiemRE.FindStringSubmatch(lower); m != nil {
		hour := atoi(m[1])
		minute := atoi(m[2])
		if m[3] == "pm" && hour != 12 {
			hour += 12
		} else if m[3] == "am" && hour == 12 {
			hour = 0
		}
		if hour <= 23 && minute <= 59 {
			return []candidate{{field: fieldTime, value: clock(hour, minute), override: triggered}}
		}
	}
	if m := bareClockRE.FindStringSubmatch(lower); m != nil {
		hour, minute := atoi(m[1]), atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return []candidate{{field: fieldTime, value: clock(hour, minute), override: triggered}}
		}
	}
	return nil
}

func clock(hour, minute int) string {
	return pad2(hour) + ":" + pad2(minute)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
