package domain

import (
	"sort"
	"strings"
)

// TopN returns the n highest-valued records for a metric as {name,
// value} projections. The sort is stable and descending: ties keep the
// relative order of the input. Fewer than n records yields fewer
// entries; the input slice is never modified.
func TopN(countries []Country, metric Metric, n int) []TopEntry {
	if n <= 0 {
		return []TopEntry{}
	}

	ranked := make([]Country, len(countries))
	copy(ranked, countries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return metric.Value(ranked[i]) > metric.Value(ranked[j])
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	entries := make([]TopEntry, 0, n)
	for _, c := range ranked[:n] {
		entries = append(entries, TopEntry{Name: c.Name, Value: metric.Value(c)})
	}
	return entries
}

// FilterByRegion returns all records whose region matches
// case-insensitively, in input order. No match is an empty slice, not
// an error; the serving boundary decides whether that is a 404.
func FilterByRegion(countries []Country, region string) []Country {
	matched := make([]Country, 0)
	for _, c := range countries {
		if strings.EqualFold(c.Region, region) {
			matched = append(matched, c)
		}
	}
	return matched
}

// FindByName returns the first record whose name matches
// case-insensitively. When duplicate names exist in the input the first
// occurrence in input order wins.
func FindByName(countries []Country, name string) (Country, bool) {
	for _, c := range countries {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Country{}, false
}

// FindExtremes returns the records holding the maximum and minimum
// value of a metric. An empty collection yields ok=false rather than an
// error.
func FindExtremes(countries []Country, metric Metric) (Extremes, bool) {
	if len(countries) == 0 {
		return Extremes{}, false
	}

	ext := Extremes{Max: countries[0], Min: countries[0]}
	for _, c := range countries[1:] {
		if metric.Value(c) > metric.Value(ext.Max) {
			ext.Max = c
		}
		if metric.Value(c) < metric.Value(ext.Min) {
			ext.Min = c
		}
	}
	return ext, true
}
