// Package searchconsole_test contains tests for the searchconsole package
package searchconsole_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/searchconsole"
)

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeValidExports(t *testing.T, dir string) {
	writeExport(t, dir, "Queries.csv",
		"Query,Clicks,Impressions,CTR,Position\n"+
			"vet near me,8,150,5.33%,3.4\n"+
			"global vets clinic,10,200,5%,2.1\n")
	writeExport(t, dir, "Dates.csv",
		"Date,Clicks,Impressions,CTR,Position\n"+
			"2025-03-01,5,50,10%,3.2\n")
	writeExport(t, dir, "Countries.csv",
		"Country,Clicks,Impressions,CTR,Position\n"+
			"esp,12,120,10%,2.8\n")
}

func TestLoadPerformanceDir(t *testing.T) {
	dir := t.TempDir()
	writeValidExports(t, dir)

	data, err := searchconsole.LoadPerformanceDir(dir)
	require.NoError(t, err)
	require.NoError(t, data.Validate())

	require.Len(t, data.Performance.Queries, 2)
	assert.Equal(t, "vet near me", data.Performance.Queries[0].Query)
	assert.Equal(t, 8, data.Performance.Queries[0].Clicks)
	assert.Equal(t, 150, data.Performance.Queries[0].Impressions)
	assert.InDelta(t, 0.0533, data.Performance.Queries[0].CTR, 1e-9, "percentages convert to fractions")
	assert.InDelta(t, 3.4, data.Performance.Queries[0].Position, 1e-9)

	require.Len(t, data.Performance.Dates, 1)
	assert.Equal(t, "2025-03-01", data.Performance.Dates[0].Date)
	assert.InDelta(t, 0.1, data.Performance.Dates[0].CTR, 1e-9)

	require.Len(t, data.Performance.Countries, 1)
	assert.Equal(t, "esp", data.Performance.Countries[0].Country)
}

func TestLoadPerformanceDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "Queries.csv", "Query,Clicks,Impressions,CTR,Position\n")

	_, err := searchconsole.LoadPerformanceDir(dir)
	assert.Error(t, err)
}

func TestLoadPerformanceDirMalformedNumbersFailFast(t *testing.T) {
	dir := t.TempDir()
	writeValidExports(t, dir)
	writeExport(t, dir, "Dates.csv",
		"Date,Clicks,Impressions,CTR,Position\n"+
			"2025-03-01,many,50,10%,3.2\n")

	_, err := searchconsole.LoadPerformanceDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dates.csv")
}

func TestLoadPerformanceDirHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "Queries.csv", "Query,Clicks,Impressions,CTR,Position\n")
	writeExport(t, dir, "Dates.csv", "Date,Clicks,Impressions,CTR,Position\n")
	writeExport(t, dir, "Countries.csv", "Country,Clicks,Impressions,CTR,Position\n")

	data, err := searchconsole.LoadPerformanceDir(dir)
	require.NoError(t, err)
	assert.NoError(t, data.Validate(), "header-only exports yield empty but present breakdowns")
}
