// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lng     string
		want    Point
		wantErr bool
	}{
		{name: "valid", lat: "6.2008", lng: "-75.5786", want: Point{Lat: 6.2008, Lng: -75.5786}},
		{name: "spaces", lat: " 6.25 ", lng: " -75.57", want: Point{Lat: 6.25, Lng: -75.57}},
		{name: "zero is parsed", lat: "0", lng: "0", want: Point{}},
		{name: "empty lat", lat: "", lng: "-75.5", wantErr: true},
		{name: "empty lng", lat: "6.2", lng: "", wantErr: true},
		{name: "text", lat: "norte", lng: "-75.5", wantErr: true},
		{name: "NaN", lat: "NaN", lng: "-75.5", wantErr: true},
		{name: "Inf", lat: "6.2", lng: "+Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePoint(tt.lat, tt.lng)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPointPredicates(t *testing.T) {
	assert.True(t, Point{}.IsZero())
	assert.False(t, Point{Lat: 0, Lng: 1}.IsZero())
	assert.True(t, Point{Lat: 6.2, Lng: -75.5}.Valid())
	assert.False(t, Point{Lat: 91, Lng: 0}.Valid())
	assert.False(t, Point{Lat: 0, Lng: -181}.Valid())
	assert.Equal(t, "POINT(-75.500000 6.200000)", Point{Lat: 6.2, Lng: -75.5}.String())
}

func TestJitter(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	center := Point{Lat: 6.28, Lng: -75.6}

	for range 1000 {
		p := center.Jitter(rnd, 0.006)
		assert.LessOrEqual(t, math.Abs(p.Lat-center.Lat), 0.003)
		assert.LessOrEqual(t, math.Abs(p.Lng-center.Lng), 0.003)
	}

	a := center.Jitter(rand.New(rand.NewPCG(7, 7)), 0.02)
	b := center.Jitter(rand.New(rand.NewPCG(7, 7)), 0.02)
	assert.Equal(t, a, b, "same seed must produce the same offset")

	assert.Equal(t, center, center.Jitter(rnd, 0))
}

func TestHaversineDistance(t *testing.T) {
	eafit := &Point{Lat: 6.2008, Lng: -75.5786}
	upb := &Point{Lat: 6.2424, Lng: -75.5894}

	assert.InDelta(t, 0, eafit.HaversineDistance(eafit), 1e-9)

	d := eafit.HaversineDistance(upb)
	assert.InDelta(t, 4780, d, 100)
	assert.InDelta(t, d, upb.HaversineDistance(eafit), 1e-6)
}
