package domain

import (
	"fmt"
	"math"
	"sort"
)

// Skew and dispersion labels produced by Interpret.
const (
	SkewHighPositive = "high positive skew"
	SkewHighNegative = "high negative skew"
	SkewSymmetric    = "symmetric"

	DispersionHigh     = "high dispersion"
	DispersionModerate = "moderate dispersion"
	DispersionLow      = "low dispersion"
)

// ComputeStats calculates mean, median, population variance, and
// standard deviation of a metric over every record where the value is
// strictly positive. Zero-filled defaults count as missing data and are
// excluded from the sample. An empty qualifying sample returns the
// all-zero sentinel, never an error.
func ComputeStats(countries []Country, metric Metric) MetricStats {
	sample := make([]float64, 0, len(countries))
	for _, c := range countries {
		if v := metric.Value(c); v > 0 {
			sample = append(sample, v)
		}
	}

	if len(sample) == 0 {
		return MetricStats{Metric: metric}
	}

	mean := round2(sum(sample) / float64(len(sample)))
	variance := 0.0
	if len(sample) > 1 {
		variance = round2(squaredDeviation(sample, mean) / float64(len(sample)))
	}
	stdDev := 0.0
	if variance > 0 {
		stdDev = round2(math.Sqrt(variance))
	}

	return MetricStats{
		Metric:   metric,
		Mean:     mean,
		Median:   round2(median(sample)),
		Variance: variance,
		StdDev:   stdDev,
	}
}

// Insufficient reports whether the stats carry the "insufficient data"
// sentinel. Sample values are strictly positive, so a zero mean can
// only come from an empty sample.
func (s MetricStats) Insufficient() bool {
	return s.Mean == 0
}

// Interpretation is an advisory reading of a metric's distribution. It
// feeds dashboard copy only and never affects the numeric results.
type Interpretation struct {
	Skew       string `json:"skew"`
	Dispersion string `json:"dispersion"`
}

// Interpret classifies the shape of a distribution from its stats:
// skew from the mean/median ratio (a gap beyond 20% in either direction
// signals heavy tails) and dispersion from the coefficient of variation
// stddev/mean. Returns ok=false for the insufficient-data sentinel.
func Interpret(stats MetricStats) (Interpretation, bool) {
	if stats.Insufficient() {
		return Interpretation{}, false
	}

	var in Interpretation
	switch {
	case stats.Mean > stats.Median*1.2:
		in.Skew = SkewHighPositive
	case stats.Median > stats.Mean*1.2:
		in.Skew = SkewHighNegative
	default:
		in.Skew = SkewSymmetric
	}

	cv := 0.0
	if stats.Mean > 0 {
		cv = stats.StdDev / stats.Mean
	}
	switch {
	case cv > 1:
		in.Dispersion = DispersionHigh
	case cv > 0.5:
		in.Dispersion = DispersionModerate
	default:
		in.Dispersion = DispersionLow
	}
	return in, true
}

// String renders the interpretation as a one-line summary for logs and
// table footers.
func (in Interpretation) String() string {
	return fmt.Sprintf("%s, %s", in.Skew, in.Dispersion)
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func squaredDeviation(values []float64, mean float64) float64 {
	var total float64
	for _, v := range values {
		d := v - mean
		total += d * d
	}
	return total
}

// median sorts a copy of the sample ascending and returns the middle
// element, or the average of the two middle elements for even counts.
func median(sample []float64) float64 {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
