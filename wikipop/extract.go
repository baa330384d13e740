// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wikipop

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxPopulation is the exclusive ceiling for a plausible population.
// Anything at or above it is treated as parse garbage, not data.
const MaxPopulation = 10_000_000_000

// fieldPatterns is scanned in order; the first pattern that yields a
// valid value wins, regardless of where its match sits in the text.
// Ordered from most specific field name to most generic, with the
// {{pop|VALUE}} template form last.
var fieldPatterns = []*regexp.Regexp{
	fieldPattern("population_total"),
	fieldPattern("population_estimate"),
	fieldPattern("population_census"),
	fieldPattern("pop_municipality"),
	fieldPattern("pop_urban"),
	fieldPattern("population"),
	fieldPattern("pop"),
	regexp.MustCompile(`(?i)\{\{pop\|([^{}]+)\}\}`),
}

// fieldPattern matches an infobox assignment like "| name = value",
// capturing the rest of the line. Field matching is case-insensitive.
func fieldPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\|\s*` + name + `\s*=\s*([^\n]+)`)
}

var (
	templateMarkup = regexp.MustCompile(`\{\{[^{}]*\}\}`)
	linkMarkup     = regexp.MustCompile(`\[\[[^\[\]]*\]\]`)
	nonDigit       = regexp.MustCompile(`[^0-9]`)
)

// ExtractPopulation pulls a population figure out of raw wikitext.
// It returns (0, false) when no pattern yields a plausible value; an
// empty string stands in for absent input. The function is pure and
// does no I/O.
func ExtractPopulation(wikitext string) (int64, bool) {
	if wikitext == "" {
		return 0, false
	}

	for _, pat := range fieldPatterns {
		for _, match := range pat.FindAllStringSubmatch(wikitext, -1) {
			if v, ok := normalizeValue(match[1]); ok {
				return v, true
			}
		}
	}

	return 0, false
}

// normalizeValue turns a captured infobox value into an integer.
// Commas, periods, and spaces are all treated as thousands separators;
// population figures never carry decimal fractions, so a period is
// always a separator here.
func normalizeValue(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)

	// Negative populations are garbage, not a separator quirk
	if strings.HasPrefix(s, "-") {
		return 0, false
	}

	s = strings.NewReplacer(",", "", ".", "", " ", "", "\t", "").Replace(s)
	s = templateMarkup.ReplaceAllString(s, "")
	s = linkMarkup.ReplaceAllString(s, "")
	s = nonDigit.ReplaceAllString(s, "")

	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Digit runs longer than int64 are garbage too
		return 0, false
	}

	if v <= 0 || v >= MaxPopulation {
		return 0, false
	}

	return v, true
}
