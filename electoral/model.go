// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"github.com/jcodagnone/mapaelectoral/spatial"
)

// Candidate is a name running under a party. Its ID is the normalized
// combination of both, so casing and spacing differences collapse.
type Candidate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Party  string `json:"party"`
	Color  string `json:"color"`
	Avatar string `json:"avatar"`
}

// Station is a polling station as contested by one corporation. The same
// physical place shows up once per corporation.
type Station struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Comuna          string        `json:"comuna"`
	Corporation     string        `json:"corporation"`
	Point           spatial.Point `json:"point"`
	IsApproximate   bool          `json:"is_approximate"`
	PotentialVoters int           `json:"potential_voters"`
	Votes           Tally         `json:"votes"` // candidate name -> votes
	TotalVotes      int           `json:"total_votes"`
	WinnerName      string        `json:"winner_name"`
}

func (s *Station) addVotes(candidate string, votes int) {
	s.Votes.Add(candidate, votes)
	s.TotalVotes += votes
}

// Share returns the percentage of the station votes obtained by candidate.
func (s *Station) Share(candidate string) float64 {
	if s.TotalVotes == 0 {
		return 0
	}

	return float64(s.Votes.Get(candidate)) * 100 / float64(s.TotalVotes)
}

// LoadReport summarizes how an ingestion went.
type LoadReport struct {
	Exact        int `json:"exact"`
	Approximate  int `json:"approximate"`
	Total        int `json:"total"`
	Rows         int `json:"rows"`
	SkippedRows  int `json:"skipped_rows"`  // fewer than two cells
	InvalidVotes int `json:"invalid_votes"` // non-empty vote cells counted as zero
}

// Dataset is the result of an ingestion. Stations and candidates keep the
// order in which they were first seen; comunas and corporations are sorted.
type Dataset struct {
	Stations     []*Station   `json:"stations"`
	Candidates   []*Candidate `json:"candidates"`
	Comunas      []string     `json:"comunas"`
	Corporations []string     `json:"corporations"`
	Report       LoadReport   `json:"report"`
}

// Station returns the station with the given identity key.
func (d *Dataset) Station(id string) (*Station, bool) {
	for _, s := range d.Stations {
		if s.ID == id {
			return s, true
		}
	}

	return nil, false
}

// Candidate returns the first candidate with the given display name.
func (d *Dataset) Candidate(name string) (*Candidate, bool) {
	for _, c := range d.Candidates {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}
