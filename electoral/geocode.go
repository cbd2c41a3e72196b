// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"github.com/jcodagnone/mapaelectoral/spatial"
)

// Precision tells how a station got its coordinates.
type Precision int

const (
	// PrecisionExact the row carried usable coordinates.
	PrecisionExact Precision = iota
	// PrecisionComuna jittered around the comuna centroid.
	PrecisionComuna
	// PrecisionCity jittered around the city center.
	PrecisionCity
)

// Locate resolves the position of a station. Raw coordinates are used when
// both parse as finite numbers and are not (0, 0). Otherwise the comuna
// centroid is used, or the city center when the comuna is unknown, displaced
// by a random offset so co-located stations remain distinguishable.
//
// The returned bool is true when the position is approximate.
func (e *Engine) Locate(comuna, rawLat, rawLng string) (spatial.Point, bool) {
	p, precision := e.locate(comuna, rawLat, rawLng)

	return p, precision != PrecisionExact
}

func (e *Engine) locate(comuna, rawLat, rawLng string) (spatial.Point, Precision) {
	if p, err := spatial.ParsePoint(rawLat, rawLng); err == nil && !p.IsZero() {
		return p, PrecisionExact
	}

	if centroid, ok := e.lookup.centroid(comuna); ok {
		return centroid.Jitter(e.rnd, e.lookup.ref.ComunaJitter), PrecisionComuna
	}

	return e.lookup.ref.CityCenter.Jitter(e.rnd, e.lookup.ref.CityJitter), PrecisionCity
}
