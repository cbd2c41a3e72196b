// Copyright 2025 The ChapaUY Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

const earthRadius = 6371e3 // meters

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// IsZero reports whether p is the (0, 0) null island, which electoral
// exports use as a "no coordinates" marker.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// Valid reports whether p lies within the latitude/longitude ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// ParsePoint parses a pair of raw coordinate cells. It fails when either
// value is not a finite number.
func ParsePoint(lat, lng string) (Point, error) {
	la, err := parseCoordinate(lat)
	if err != nil {
		return Point{}, fmt.Errorf("latitude: %w", err)
	}

	lo, err := parseCoordinate(lng)
	if err != nil {
		return Point{}, fmt.Errorf("longitude: %w", err)
	}

	return Point{Lat: la, Lng: lo}, nil
}

func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}

	return v, nil
}

// Jitter returns p displaced on each axis by an independent uniform offset
// in [-span/2, span/2).
func (p Point) Jitter(rnd *rand.Rand, span float64) Point {
	return Point{
		Lat: p.Lat + (rnd.Float64()-0.5)*span,
		Lng: p.Lng + (rnd.Float64()-0.5)*span,
	}
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
