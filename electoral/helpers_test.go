// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var tallyCmp = cmp.AllowUnexported(Tally{})

func newTestEngine(seed uint64) *Engine {
	return NewEngine(DefaultReference(), rand.New(rand.NewPCG(seed, seed)))
}

// exactReference disables jitter so centroid choices can be asserted.
func exactReference() Reference {
	ref := DefaultReference()
	ref.ComunaJitter = 0
	ref.CityJitter = 0

	return ref
}

func ingestSample(t *testing.T) *Dataset {
	t.Helper()

	ds, err := newTestEngine(1).Ingest(SampleCSV)
	require.NoError(t, err)

	return ds
}

func tallyOf(pairs ...any) Tally {
	var t Tally
	for i := 0; i < len(pairs); i += 2 {
		t.Add(pairs[i].(string), pairs[i+1].(int))
	}

	return t
}
