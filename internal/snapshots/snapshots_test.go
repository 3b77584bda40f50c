// Package snapshots_test contains tests for the snapshots package
package snapshots_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficlens/internal/searchconsole"
	"trafficlens/internal/sessions"
	"trafficlens/internal/snapshots"
	"trafficlens/internal/testsupport"
)

func trafficRows() []sessions.RawRow {
	return []sessions.RawRow{
		{
			Dimensions: []string{"2025-03-01", "Madrid", "ES", "Chrome", "page_view", "", "chatgpt.com", "referral"},
			Metrics:    []string{"5", "2", "6", "1", "0.3", "0", "0.7", "4", "90"},
		},
	}
}

func searchData() *searchconsole.Data {
	return &searchconsole.Data{
		Performance: searchconsole.Performance{
			Queries:   []searchconsole.QueryStat{{Query: "vet near me", Clicks: 8}},
			Dates:     []searchconsole.DateStat{{Date: "2025-03-01", Clicks: 5}},
			Countries: []searchconsole.CountryStat{{Country: "esp", Clicks: 12}},
		},
	}
}

func TestTrafficSnapshotRoundTrip(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	require.NoError(t, snapshots.SaveTraffic(db, trafficRows(), time.Now().UTC()))

	rows, err := snapshots.LatestTraffic(db)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "chatgpt.com", rows[0].Dimensions[sessions.DimSource])
	assert.Equal(t, "5", rows[0].Metrics[sessions.MetTotalUsers])
}

func TestLatestTrafficReturnsNewestSnapshot(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	older := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, snapshots.SaveTraffic(db, nil, newer))
	require.NoError(t, snapshots.SaveTraffic(db, trafficRows(), older))

	rows, err := snapshots.LatestTraffic(db)
	require.NoError(t, err)
	assert.Empty(t, rows, "the snapshot with the latest capture time wins regardless of insert order")
}

func TestLatestTrafficNoSnapshot(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	_, err := snapshots.LatestTraffic(db)
	assert.ErrorIs(t, err, snapshots.ErrNoSnapshot)
}

func TestSearchConsoleSnapshotRoundTrip(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	require.NoError(t, snapshots.SaveSearchConsole(db, searchData(), time.Now().UTC()))

	data, err := snapshots.LatestSearchConsole(db)
	require.NoError(t, err)
	require.Len(t, data.Performance.Queries, 1)
	assert.Equal(t, "vet near me", data.Performance.Queries[0].Query)
}

func TestSaveSearchConsoleRejectsIncompleteData(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	incomplete := &searchconsole.Data{
		Performance: searchconsole.Performance{
			Queries: []searchconsole.QueryStat{},
		},
	}
	err := snapshots.SaveSearchConsole(db, incomplete, time.Now().UTC())
	assert.ErrorIs(t, err, searchconsole.ErrMissingData)

	_, err = snapshots.LatestSearchConsole(db)
	assert.ErrorIs(t, err, snapshots.ErrNoSnapshot, "rejected payloads are never stored")
}

func TestDeleteOlderThanKeepsNewestPerKind(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	ancient := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, snapshots.SaveTraffic(db, trafficRows(), ancient))
	require.NoError(t, snapshots.SaveTraffic(db, trafficRows(), old))
	require.NoError(t, snapshots.SaveSearchConsole(db, searchData(), ancient))

	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	removed, err := snapshots.DeleteOlderThan(db, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed, "only the superseded traffic snapshot is removed")

	// Both kinds still resolve after cleanup.
	_, err = snapshots.LatestTraffic(db)
	assert.NoError(t, err)
	_, err = snapshots.LatestSearchConsole(db)
	assert.NoError(t, err)
}
