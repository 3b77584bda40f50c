// Package searchconsole models the search-performance dataset produced by
// pre-exported Search Console reports and loads it from CSV exports.
package searchconsole

import (
	"errors"
	"fmt"
)

// QueryStat is the performance of one search query.
type QueryStat struct {
	Query       string  `json:"query"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// DateStat is one point of the search-performance time series.
type DateStat struct {
	Date        string  `json:"date"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// CountryStat is the performance attributed to one country.
type CountryStat struct {
	Country     string  `json:"country"`
	Clicks      int     `json:"clicks"`
	Impressions int     `json:"impressions"`
	CTR         float64 `json:"ctr"`
	Position    float64 `json:"position"`
}

// Performance groups the three breakdowns of a search-performance export.
type Performance struct {
	Queries   []QueryStat   `json:"queries"`
	Dates     []DateStat    `json:"dates"`
	Countries []CountryStat `json:"countries"`
}

// Data is the top-level search-performance dataset.
type Data struct {
	Performance Performance `json:"performance"`
}

// ErrMissingData is returned when a required dataset is structurally absent.
var ErrMissingData = errors.New("search console data missing")

// Validate checks the dataset for structural completeness. Contrary to the
// tolerant per-field parsing of session rows, an absent breakdown fails
// fast: aggregating over a missing dataset would render a misleading
// zero-filled dashboard.
func (d *Data) Validate() error {
	if d == nil {
		return ErrMissingData
	}
	if d.Performance.Queries == nil {
		return fmt.Errorf("%w: performance.queries", ErrMissingData)
	}
	if d.Performance.Dates == nil {
		return fmt.Errorf("%w: performance.dates", ErrMissingData)
	}
	if d.Performance.Countries == nil {
		return fmt.Errorf("%w: performance.countries", ErrMissingData)
	}
	return nil
}
