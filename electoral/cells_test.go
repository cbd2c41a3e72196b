// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCells(t *testing.T) {
	ds := ingestSample(t)

	cells, err := AggregateCells(ds, Filter{}, CellResolution)
	require.NoError(t, err)
	require.NotEmpty(t, cells)

	stations, votes, approximate := 0, 0, 0

	for _, c := range cells {
		stations += c.Stations
		votes += c.TotalVotes
		approximate += c.Approximate

		assert.Equal(t, c.TotalVotes, c.VotesByCandidate.Sum(), c.Cell)
		assert.NotEqual(t, NoWinner, c.LeadingCandidate, c.Cell)
	}

	assert.Equal(t, 5, stations)
	assert.Equal(t, 18800, votes)
	assert.Equal(t, 1, approximate)

	first, err := ds.Stations[0].Cell(CellResolution)
	require.NoError(t, err)
	assert.Equal(t, first.String(), cells[0].Cell, "cells follow station order")
}

func TestAggregateCellsCoarse(t *testing.T) {
	ds := ingestSample(t)

	cells, err := AggregateCells(ds, Filter{Corporation: "Senado"}, 0)
	require.NoError(t, err)
	require.Len(t, cells, 1, "the whole city fits in a base cell")

	c := cells[0]
	assert.Equal(t, 3, c.Stations)
	assert.Equal(t, 14200, c.TotalVotes)
	assert.Equal(t, "Lista Centro Democrático", c.LeadingCandidate)
	assert.Equal(t, 6000, c.VotesByCandidate.Get("Lista Centro Democrático"))
}

func TestAggregateCellsInvalidResolution(t *testing.T) {
	ds := ingestSample(t)

	_, err := AggregateCells(ds, Filter{}, 16)
	assert.Error(t, err)
}

func TestAggregateCellsNoMatch(t *testing.T) {
	ds := ingestSample(t)

	cells, err := AggregateCells(ds, Filter{Comuna: "Robledo"}, CellResolution)
	require.NoError(t, err)
	assert.Empty(t, cells)
}
