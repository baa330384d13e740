// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package wikipop extracts population figures from Wikipedia infobox
wikitext.

# Extraction

ExtractPopulation is a pure function:

	pop, ok := wikipop.ExtractPopulation(wikitext)

It scans a fixed, ordered list of infobox field patterns (most specific
first, e.g. population_total, down to the bare pop field, plus the
{{pop|VALUE}} template form) and takes the first pattern that produces a
plausible value. Matching is case-insensitive.

Captured values are normalized before parsing: commas, periods, and
spaces are all thousands separators (locale differences, never decimal
points in population figures), template and wiki-link markup is
discarded, and whatever digits remain are parsed base-10. A value only
counts if it lies strictly between 0 and 10 billion; invalid occurrences
do not abort the scan, they just fall through to the next match.

# Fetching

Client wraps the MediaWiki query API to pull the current revision
wikitext for a page title. The base URL is configurable so tests can
point it at an httptest server.
*/
package wikipop
