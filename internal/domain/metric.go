package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidMetric reports a metric name outside the closed set allowed
// for the requested operation. Metric validation fails fast: no partial
// result is computed.
var ErrInvalidMetric = errors.New("invalid metric")

// Metric selects one of the canonical numeric fields. The set is closed
// and case-sensitive; adding a metric means touching ParseMetric and
// Value, nothing else.
type Metric string

const (
	MetricPopulation Metric = "population"
	MetricArea       Metric = "area"
	MetricDensity    Metric = "density"
)

// ParseMetric validates a metric name for statistics and extreme-value
// lookups, which accept the full set.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricPopulation, MetricArea, MetricDensity:
		return Metric(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, name)
	}
}

// ParseRankMetric validates a metric name for ranking, which excludes
// the derived density field.
func ParseRankMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricPopulation, MetricArea:
		return Metric(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMetric, name)
	}
}

// Value returns the metric's field of a canonical record. Ranking,
// filtering, and statistics all go through this accessor so they always
// agree on what a metric means.
func (m Metric) Value(c Country) float64 {
	switch m {
	case MetricPopulation:
		return float64(c.Population)
	case MetricArea:
		return c.Area
	case MetricDensity:
		return c.Density
	default:
		return 0
	}
}
