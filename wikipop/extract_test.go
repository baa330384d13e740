package wikipop

import "testing"

func TestExtractPopulation(t *testing.T) {
	tests := []struct {
		name     string
		wikitext string
		want     int64
		ok       bool
	}{
		{
			name:     "comma separators",
			wikitext: "| population_total = 3,153,000",
			want:     3153000,
			ok:       true,
		},
		{
			name:     "dot separators",
			wikitext: "| population_total = 1.234.567",
			want:     1234567,
			ok:       true,
		},
		{
			name:     "space separators",
			wikitext: "| population_total = 1 234 567",
			want:     1234567,
			ok:       true,
		},
		{
			name:     "exceeds ceiling",
			wikitext: "| population_total = 99,999,999,999",
			ok:       false,
		},
		{
			name:     "negative rejected",
			wikitext: "| population_total = -100",
			ok:       false,
		},
		{
			name:     "zero rejected",
			wikitext: "| population_total = 0",
			ok:       false,
		},
		{
			name:     "pop template form",
			wikitext: "Some text {{pop|1,000,000}} more text",
			want:     1000000,
			ok:       true,
		},
		{
			name:     "empty input",
			wikitext: "",
			ok:       false,
		},
		{
			name:     "no population fields",
			wikitext: "{{Infobox settlement\n| name = Nowhere\n| area_km2 = 12\n}}",
			ok:       false,
		},
		{
			name:     "case insensitive field name",
			wikitext: "| Population_Total = 42,000",
			want:     42000,
			ok:       true,
		},
		{
			name:     "wiki-link markup stripped",
			wikitext: "| population = 1,500 [[citation needed]]",
			want:     1500,
			ok:       true,
		},
		{
			name:     "template markup stripped from value",
			wikitext: "| population_estimate = 250,000 {{as of|2020}}",
			want:     250000,
			ok:       true,
		},
		{
			name:     "bare pop field",
			wikitext: "| pop = 9800",
			want:     9800,
			ok:       true,
		},
		{
			name:     "pop_municipality",
			wikitext: "| pop_municipality = 87.500",
			want:     87500,
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPopulation(tt.wikitext)
			if ok != tt.ok {
				t.Fatalf("ExtractPopulation(%q) ok = %v, want %v", tt.wikitext, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractPopulation(%q) = %d, want %d", tt.wikitext, got, tt.want)
			}
		})
	}
}

// Pattern priority wins over textual position: the generic fields appear
// first in the text but population_total is the first pattern tried.
func TestExtractPopulationPatternPriority(t *testing.T) {
	wikitext := "| pop = 3,000,000\n| population = 2,000,000\n| population_total = 1,000,000\n"

	got, ok := ExtractPopulation(wikitext)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != 1000000 {
		t.Errorf("expected population_total to win, got %d", got)
	}
}

// An invalid occurrence must not abort the scan; later occurrences and
// later patterns still get their turn.
func TestExtractPopulationContinuesPastInvalid(t *testing.T) {
	tests := []struct {
		name     string
		wikitext string
		want     int64
	}{
		{
			name:     "second occurrence of same field",
			wikitext: "| population_total = -5\n| population_total = 12,345\n",
			want:     12345,
		},
		{
			name:     "falls through to next pattern",
			wikitext: "| population_total = unknown\n| population = 6,700\n",
			want:     6700,
		},
		{
			name:     "over-ceiling value then valid generic field",
			wikitext: "| population_total = 123,456,789,000\n| pop = 900\n",
			want:     900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractPopulation(tt.wikitext)
			if !ok {
				t.Fatalf("expected a match for %q", tt.wikitext)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractPopulationDeterministic(t *testing.T) {
	wikitext := "{{Infobox city\n| population_total = 8,336,817\n| population_estimate = 8,400,000\n}}"

	first, ok := ExtractPopulation(wikitext)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 10; i++ {
		got, ok := ExtractPopulation(wikitext)
		if !ok || got != first {
			t.Fatalf("run %d: got (%d, %v), want (%d, true)", i, got, ok, first)
		}
	}
}
