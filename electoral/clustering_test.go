// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"testing"

	"github.com/jcodagnone/mapaelectoral/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stationAt(id string, lat, lng float64) *Station {
	return &Station{ID: id, Point: spatial.Point{Lat: lat, Lng: lng}}
}

func clusterIDs(clusters [][]*Station) [][]string {
	ids := make([][]string, len(clusters))
	for i, c := range clusters {
		for _, s := range c {
			ids[i] = append(ids[i], s.ID)
		}
	}

	return ids
}

func TestClusterStations(t *testing.T) {
	stations := []*Station{
		stationAt("eafit", 6.2008, -75.5786),
		stationAt("upb", 6.2424, -75.5894),
		stationAt("eafit-camara", 6.2009, -75.5786),
		stationAt("minorista", 6.2520, -75.5730),
	}

	clusters := ClusterStations(stations, 50)

	assert.Equal(t, [][]string{
		{"eafit", "eafit-camara"},
		{"upb"},
		{"minorista"},
	}, clusterIDs(clusters))
}

func TestClusterStationsChains(t *testing.T) {
	// each station is ~11 m from the next one
	stations := []*Station{
		stationAt("a", 6.2000, -75.5700),
		stationAt("b", 6.2001, -75.5700),
		stationAt("c", 6.2002, -75.5700),
	}

	clusters := ClusterStations(stations, 15)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0], 3)

	assert.Len(t, ClusterStations(stations, 5), 3)
}

func TestClusterStationsEmpty(t *testing.T) {
	assert.Empty(t, ClusterStations(nil, 100))
}
