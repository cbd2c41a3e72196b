// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) DatasetRepository {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewDatasetRepository(db)
	require.NoError(t, repo.CreateSchema())

	return repo
}

func TestSQLRepository_SaveDataset(t *testing.T) {
	repo := setupTestDB(t)
	ds := ingestSample(t)

	require.NoError(t, repo.SaveDataset(ds))

	count, err := repo.CountStations()
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	totals, err := repo.VotesByCandidate()
	require.NoError(t, err)

	expected := make(map[string]int)
	for name, votes := range Aggregate(ds, Filter{}).VotesByCandidate.All() {
		expected[name] = votes
	}

	assert.Equal(t, expected, totals)

	var (
		winner string
		approx bool
		cell   int64
	)

	err = repo.DB().QueryRow(
		"SELECT winner_name, is_approximate, CAST(h3_res8 AS BIGINT) FROM stations WHERE id = ?",
		"estadio-atanasio-estadio-cámara",
	).Scan(&winner, &approx, &cell)
	require.NoError(t, err)
	assert.Equal(t, "Daniel Restrepo", winner)
	assert.True(t, approx)

	stadium, _ := ds.Station("estadio-atanasio-estadio-cámara")
	expectedCell, err := stadium.Cell(CellResolution)
	require.NoError(t, err)
	assert.Equal(t, int64(expectedCell), cell)
}

func TestSQLRepository_SaveDatasetReplaces(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SaveDataset(ingestSample(t)))

	ds, err := newTestEngine(1).Ingest("puesto,candidato,votos\nEscuela,Ana,3\nEscuela,Beto,4")
	require.NoError(t, err)
	require.NoError(t, repo.SaveDataset(ds))

	count, err := repo.CountStations()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	totals, err := repo.VotesByCandidate()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Ana": 3, "Beto": 4}, totals)

	var candidates int
	require.NoError(t, repo.DB().QueryRow("SELECT COUNT(*) FROM candidates").Scan(&candidates))
	assert.Equal(t, 2, candidates)
}

func TestSQLRepository_VoteOrder(t *testing.T) {
	repo := setupTestDB(t)

	ds, err := newTestEngine(1).Ingest("puesto,candidato,votos\nEscuela,Zoe,1\nEscuela,Ana,2\nEscuela,Mia,3")
	require.NoError(t, err)
	require.NoError(t, repo.SaveDataset(ds))

	rows, err := repo.DB().Query("SELECT candidate FROM station_votes ORDER BY seq")
	require.NoError(t, err)
	defer rows.Close()

	var names []string

	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}

	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Zoe", "Ana", "Mia"}, names)
}
