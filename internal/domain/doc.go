// Package domain models country records from the REST Countries project.
//
// # Data Source
//
// Raw records come from the REST Countries v3.1 API
// (https://restcountries.com/v3.1/all). The upstream payload is a JSON
// array of loosely-typed country objects in which any field may be
// absent: stateless territories omit "subregion", Antarctica has no
// "currencies", and a handful of entries report no "area" at all.
//
// # Normalization Conventions
//
// Missing fields never fail normalization; they degrade to documented
// defaults so one sparse entry cannot drop the rest of the batch:
//
//	name, region, subregion  →  the "N/A" sentinel string
//	population, area         →  0
//	languages, currencies    →  "N/A" when the source mapping is empty
//
// The "N/A" sentinel marks an absent textual field. It is distinct from
// a real empty string and never participates in numeric comparisons.
//
// Languages are flattened to display names joined with ", " (source key
// order is irrelevant; output is sorted for determinism). Currencies are
// flattened to "CODE (Name)" entries joined with ", "; entries whose
// value carries no name are skipped.
//
// Population density is derived exactly once, during normalization:
//
//	density = round(population / area, 2)   when area > 0
//	density = 0                             otherwise
//
// No other component computes density. A canonical [Country] is
// immutable once produced; queries always derive new collections.
//
// # Metrics
//
// Queries select numeric fields by name from a closed, case-sensitive
// set: population, area, density. Ranking accepts only population and
// area; statistics and extreme-value lookups accept all three. Anything
// else fails with [ErrInvalidMetric] before any computation runs.
//
// # Statistics
//
// Samples exclude non-positive values, treating zero-filled defaults as
// missing data. Variance is population variance (denominator N, not
// N-1). Every statistic is rounded to 2 decimals at its own boundary so
// rounding error does not compound across mean → variance → stddev.
// An empty qualifying sample yields the all-zero [MetricStats] sentinel
// rather than an error.
package domain
