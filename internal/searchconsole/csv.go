package searchconsole

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Export file names as produced by the Search Console bulk export.
const (
	queriesFile   = "Queries.csv"
	datesFile     = "Dates.csv"
	countriesFile = "Countries.csv"
)

// LoadPerformanceDir reads a directory of Search Console CSV exports and
// flattens them into the typed performance dataset.
func LoadPerformanceDir(dir string) (*Data, error) {
	queries, err := loadCSVFile(filepath.Join(dir, queriesFile), parseQueryRecord)
	if err != nil {
		return nil, err
	}
	dates, err := loadCSVFile(filepath.Join(dir, datesFile), parseDateRecord)
	if err != nil {
		return nil, err
	}
	countries, err := loadCSVFile(filepath.Join(dir, countriesFile), parseCountryRecord)
	if err != nil {
		return nil, err
	}

	return &Data{
		Performance: Performance{
			Queries:   queries,
			Dates:     dates,
			Countries: countries,
		},
	}, nil
}

// record is one CSV data row keyed by lower-cased header name.
type record map[string]string

func loadCSVFile[T any](path string, parse func(record) (T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open search console export: %w", err)
	}
	defer f.Close()

	rows, err := readRecords(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		parsed, err := parse(row)
		if err != nil {
			return nil, fmt.Errorf("parse %s row %d: %w", filepath.Base(path), i+1, err)
		}
		out = append(out, parsed)
	}
	return out, nil
}

func readRecords(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []record{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(record, len(header))
		for i, value := range fields {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseQueryRecord(row record) (QueryStat, error) {
	metrics, err := parseSharedMetrics(row)
	if err != nil {
		return QueryStat{}, err
	}
	return QueryStat{
		Query:       row["query"],
		Clicks:      metrics.clicks,
		Impressions: metrics.impressions,
		CTR:         metrics.ctr,
		Position:    metrics.position,
	}, nil
}

func parseDateRecord(row record) (DateStat, error) {
	metrics, err := parseSharedMetrics(row)
	if err != nil {
		return DateStat{}, err
	}
	return DateStat{
		Date:        row["date"],
		Clicks:      metrics.clicks,
		Impressions: metrics.impressions,
		CTR:         metrics.ctr,
		Position:    metrics.position,
	}, nil
}

func parseCountryRecord(row record) (CountryStat, error) {
	metrics, err := parseSharedMetrics(row)
	if err != nil {
		return CountryStat{}, err
	}
	return CountryStat{
		Country:     row["country"],
		Clicks:      metrics.clicks,
		Impressions: metrics.impressions,
		CTR:         metrics.ctr,
		Position:    metrics.position,
	}, nil
}

type sharedMetrics struct {
	clicks      int
	impressions int
	ctr         float64
	position    float64
}

func parseSharedMetrics(row record) (sharedMetrics, error) {
	clicks, err := strconv.Atoi(row["clicks"])
	if err != nil {
		return sharedMetrics{}, fmt.Errorf("clicks: %w", err)
	}
	impressions, err := strconv.Atoi(row["impressions"])
	if err != nil {
		return sharedMetrics{}, fmt.Errorf("impressions: %w", err)
	}
	ctr, err := parseCTR(row["ctr"])
	if err != nil {
		return sharedMetrics{}, fmt.Errorf("ctr: %w", err)
	}
	position, err := strconv.ParseFloat(row["position"], 64)
	if err != nil {
		return sharedMetrics{}, fmt.Errorf("position: %w", err)
	}
	return sharedMetrics{clicks: clicks, impressions: impressions, ctr: ctr, position: position}, nil
}

// parseCTR converts the export's percentage notation ("3.42%") into a
// fraction.
func parseCTR(raw string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil {
		return 0, err
	}
	return value / 100, nil
}
