package domain

import "time"

// NotAvailable marks a textual field that was absent in the source data.
const NotAvailable = "N/A"

// RawName is the nested name object of a raw REST Countries record.
type RawName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// RawCurrency is one entry of the raw currencies mapping.
type RawCurrency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// RawCountry is a single country object as decoded from the REST
// Countries v3.1 payload. Every field is optional: pointers and maps are
// nil when the source omits them. Normalization substitutes defaults;
// it never rejects a record for missing fields.
type RawCountry struct {
	Name       *RawName               `json:"name"`
	Population *int64                 `json:"population"`
	Area       *float64               `json:"area"`
	Region     *string                `json:"region"`
	Subregion  *string                `json:"subregion"`
	Languages  map[string]string      `json:"languages"`
	Currencies map[string]RawCurrency `json:"currencies"`
}

// Country is the canonical, fully defaulted record every query and
// statistic operates on. Instances are immutable once produced.
type Country struct {
	Name       string  `json:"name"`
	Population int64   `json:"population"`
	Area       float64 `json:"area"`       // km²
	Density    float64 `json:"density"`    // people per km², 2-decimal
	Region     string  `json:"region"`
	Subregion  string  `json:"subregion"`
	Languages  string  `json:"languages"`  // ", "-joined display names
	Currencies string  `json:"currencies"` // ", "-joined "CODE (Name)"
}

// TopEntry is a {name, value} projection used by ranked queries.
type TopEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"metric_value"`
}

// MetricStats holds descriptive statistics for one metric, each rounded
// to 2 decimals. The all-zero value is the documented "insufficient
// data" sentinel; callers must check it explicitly rather than trust a
// computed-looking zero.
type MetricStats struct {
	Metric   Metric  `json:"metric"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
}

// Extremes pairs the records holding the maximum and minimum value of a
// metric.
type Extremes struct {
	Max Country `json:"max"`
	Min Country `json:"min"`
}

// Snapshot is a normalized collection together with the time it was
// fetched from the source.
type Snapshot struct {
	Countries []Country `json:"countries"`
	FetchedAt time.Time `json:"fetched_at"`
}
