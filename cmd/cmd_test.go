// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Belén", truncate("Belén", 5))
	assert.Equal(t, "Bel…", truncate("Belén", 4))
	assert.Equal(t, "", truncate("", 3))
}

func TestIsTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "resultados.csv"))
	require.NoError(t, err)

	assert.False(t, isTerminal(f), "regular files are not terminals")

	require.NoError(t, f.Close())
	assert.False(t, isTerminal(f), "files that can't be stat'ed are not terminals")
}

func TestNewRand(t *testing.T) {
	assert.Nil(t, newRand(0))

	a, b := newRand(7), newRand(7)
	require.NotNil(t, a)
	assert.Equal(t, a.Uint64(), b.Uint64())
}

func TestNewEngine(t *testing.T) {
	engine, err := newEngine("", 1)
	require.NoError(t, err)
	assert.Equal(t, "Medellín", engine.Reference().Name)

	_, err = newEngine(filepath.Join(t.TempDir(), "missing.json"), 1)
	assert.Error(t, err)
}

func TestIngestFile(t *testing.T) {
	engine, err := newEngine("", 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "resultados.csv")
	require.NoError(t, os.WriteFile(path, []byte(electoral.SampleCSV), 0o600))

	ds, err := ingestFile(engine, path)
	require.NoError(t, err)
	assert.Len(t, ds.Stations, 5)

	empty := filepath.Join(t.TempDir(), "vacio.csv")
	require.NoError(t, os.WriteFile(empty, []byte("puesto,votos\n"), 0o600))

	_, err = ingestFile(engine, empty)
	require.ErrorIs(t, err, electoral.ErrEmptyInput)
	assert.Contains(t, err.Error(), "vacio.csv")
}

func TestPrintAggregate(t *testing.T) {
	engine, err := newEngine("", 1)
	require.NoError(t, err)

	ds, err := engine.Ingest(electoral.SampleCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	printAggregate(&buf, electoral.Aggregate(ds, electoral.Filter{Corporation: "Senado"}))

	out := buf.String()
	assert.Contains(t, out, "Votos:          14,200")
	assert.Contains(t, out, "Lidera:         Lista Centro Democrático")
	assert.Contains(t, out, "Participación:  69.27%")
	assert.Equal(t, 1, strings.Count(out, "Lista Alianza Verde"))
	assert.NotContains(t, out, "Susana Boreal")
}

func TestPrintStations(t *testing.T) {
	engine, err := newEngine("", 1)
	require.NoError(t, err)

	ds, err := engine.Ingest(electoral.SampleCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	printStations(&buf, ds.Stations)

	out := buf.String()
	assert.Contains(t, out, "~ Estadio Atanasio")
	assert.Contains(t, out, "Daniel Restrepo")
	assert.Equal(t, len(ds.Stations)+4, strings.Count(out, "\n"))
}

func TestExportDuckDB(t *testing.T) {
	engine, err := newEngine("", 1)
	require.NoError(t, err)

	ds, err := engine.Ingest(electoral.SampleCSV)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "resultados.duckdb")
	require.NoError(t, exportDuckDB(ds, path))

	db, err := sql.Open("duckdb", path)
	require.NoError(t, err)
	defer db.Close()

	count, err := electoral.NewDatasetRepository(db).CountStations()
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
