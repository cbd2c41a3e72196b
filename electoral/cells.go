// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"fmt"

	"github.com/uber/h3-go/v4"
)

// CellResolution is the H3 resolution used for station cells when none is
// requested (~0.7 km² hexagons).
const CellResolution = 8

// Cell returns the H3 cell containing the station at the given resolution.
func (s *Station) Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(s.Point.Lat, s.Point.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("error converting %s to h3 cell at res %d: %w", s.ID, res, err)
	}

	return cell, nil
}

// CellAggregate groups the stations falling in the same H3 cell.
type CellAggregate struct {
	Cell             string `json:"cell"`
	Stations         int    `json:"stations"`
	Approximate      int    `json:"approximate"`
	TotalVotes       int    `json:"total_votes"`
	VotesByCandidate Tally  `json:"votes_by_candidate"`
	LeadingCandidate string `json:"leading_candidate"`
}

// AggregateCells sums the stations selected by f per H3 cell, producing a
// hexbin layer. Cells appear in the order of their first station.
func AggregateCells(ds *Dataset, f Filter, res int) ([]*CellAggregate, error) {
	var cells []*CellAggregate

	byCell := make(map[h3.Cell]*CellAggregate)

	for _, s := range f.Stations(ds) {
		cell, err := s.Cell(res)
		if err != nil {
			return nil, err
		}

		agg, ok := byCell[cell]
		if !ok {
			agg = &CellAggregate{Cell: cell.String()}
			byCell[cell] = agg
			cells = append(cells, agg)
		}

		agg.Stations++
		agg.TotalVotes += s.TotalVotes

		if s.IsApproximate {
			agg.Approximate++
		}

		for name, votes := range s.Votes.All() {
			agg.VotesByCandidate.Add(name, votes)
		}
	}

	for _, agg := range cells {
		agg.LeadingCandidate = agg.VotesByCandidate.Leader()
	}

	return cells, nil
}
