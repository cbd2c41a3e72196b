// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry     *prometheus.Registry
	ingestions   *prometheus.CounterVec
	stations     prometheus.Gauge
	approximate  prometheus.Gauge
	skippedRows  prometheus.Counter
	invalidVotes prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapa",
			Name:      "ingestions_total",
			Help:      "Results files ingested, by outcome.",
		}, []string{"result"}),
		stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapa",
			Name:      "stations",
			Help:      "Stations in the current dataset.",
		}),
		approximate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapa",
			Name:      "approximate_stations",
			Help:      "Stations of the current dataset placed by comuna or city fallback.",
		}),
		skippedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapa",
			Name:      "skipped_rows_total",
			Help:      "Rows dropped for having fewer than two cells.",
		}),
		invalidVotes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapa",
			Name:      "invalid_votes_total",
			Help:      "Vote cells that could not be read and were counted as zero.",
		}),
	}

	m.registry.MustRegister(m.ingestions, m.stations, m.approximate, m.skippedRows, m.invalidVotes)

	return m
}

func (m *metrics) observe(ds *electoral.Dataset) {
	m.stations.Set(float64(ds.Report.Total))
	m.approximate.Set(float64(ds.Report.Approximate))
	m.skippedRows.Add(float64(ds.Report.SkippedRows))
	m.invalidVotes.Add(float64(ds.Report.InvalidVotes))
}
