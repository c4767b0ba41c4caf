package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Normalize converts a raw collection into canonical records. It is
// total over syntactically valid input: absent fields become defaults
// and a sparse entry never drops the rest of the batch.
func Normalize(raw []RawCountry) []Country {
	countries := make([]Country, 0, len(raw))
	for _, r := range raw {
		countries = append(countries, normalizeOne(r))
	}
	return countries
}

func normalizeOne(r RawCountry) Country {
	name := NotAvailable
	if r.Name != nil && r.Name.Common != "" {
		name = r.Name.Common
	}

	var population int64
	if r.Population != nil && *r.Population > 0 {
		population = *r.Population
	}

	var area float64
	if r.Area != nil && *r.Area > 0 {
		area = *r.Area
	}

	return Country{
		Name:       name,
		Population: population,
		Area:       area,
		Density:    Density(population, area),
		Region:     stringOrNA(r.Region),
		Subregion:  stringOrNA(r.Subregion),
		Languages:  formatLanguages(r.Languages),
		Currencies: formatCurrencies(r.Currencies),
	}
}

// Density derives people per km², rounded to 2 decimals. Records with
// an unknown or zero area get density 0 rather than an error. This is
// the single source of truth for the derivation; no other component
// computes density.
func Density(population int64, area float64) float64 {
	if area <= 0 {
		return 0
	}
	return round2(float64(population) / area)
}

func stringOrNA(s *string) string {
	if s == nil || *s == "" {
		return NotAvailable
	}
	return *s
}

// formatLanguages joins the display names of the languages mapping.
// Source key order carries no meaning, so names are sorted to keep the
// output deterministic across refreshes.
func formatLanguages(langs map[string]string) string {
	names := make([]string, 0, len(langs))
	for _, display := range langs {
		if display != "" {
			names = append(names, display)
		}
	}
	if len(names) == 0 {
		return NotAvailable
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// formatCurrencies renders each well-formed currency entry as
// "CODE (Name)", e.g. "COP (Colombian peso)". Entries without a name
// are skipped; if none qualify the result is the N/A sentinel.
func formatCurrencies(currencies map[string]RawCurrency) string {
	codes := make([]string, 0, len(currencies))
	for code, cur := range currencies {
		if cur.Name != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return NotAvailable
	}
	sort.Strings(codes)

	entries := make([]string, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, fmt.Sprintf("%s (%s)", code, currencies[code].Name))
	}
	return strings.Join(entries, ", ")
}

// round2 rounds half away from zero to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
