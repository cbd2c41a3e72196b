// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"sort"
)

// Filter narrows the stations considered by an aggregation. Empty fields
// match every station.
type Filter struct {
	Comuna      string `form:"comuna" json:"comuna,omitempty"`
	Corporation string `form:"corporation" json:"corporation,omitempty"`
}

// Match reports whether s passes the filter.
func (f Filter) Match(s *Station) bool {
	return (f.Comuna == "" || s.Comuna == f.Comuna) &&
		(f.Corporation == "" || s.Corporation == f.Corporation)
}

// Stations returns the stations of ds that pass the filter, in dataset order.
func (f Filter) Stations(ds *Dataset) []*Station {
	var selected []*Station

	for _, s := range ds.Stations {
		if f.Match(s) {
			selected = append(selected, s)
		}
	}

	return selected
}

// AggregateResult is the consolidated outcome of a set of stations.
type AggregateResult struct {
	Filter            Filter  `json:"filter"`
	Stations          int     `json:"stations"`
	TotalVotes        int     `json:"total_votes"`
	PotentialVoters   int     `json:"potential_voters"`
	VotesByCandidate  Tally   `json:"votes_by_candidate"`
	LeadingCandidate  string  `json:"leading_candidate"`
	ParticipationRate float64 `json:"participation_rate"` // percentage
}

// Aggregate sums the stations of ds selected by f. Every known candidate is
// present in VotesByCandidate, at zero when it got no votes in the
// selection. The leading candidate follows the same first-seen tie-break as
// station winners.
func Aggregate(ds *Dataset, f Filter) *AggregateResult {
	res := &AggregateResult{Filter: f}

	for _, c := range ds.Candidates {
		res.VotesByCandidate.Add(c.Name, 0)
	}

	for _, s := range f.Stations(ds) {
		res.Stations++
		res.TotalVotes += s.TotalVotes
		res.PotentialVoters += s.PotentialVoters

		for name, votes := range s.Votes.All() {
			res.VotesByCandidate.Add(name, votes)
		}
	}

	res.LeadingCandidate = res.VotesByCandidate.Leader()

	if res.PotentialVoters > 0 {
		res.ParticipationRate = float64(res.TotalVotes) * 100 / float64(res.PotentialVoters)
	}

	return res
}

// RankEntry is a candidate position in a ranking.
type RankEntry struct {
	Name  string  `json:"name"`
	Votes int     `json:"votes"`
	Share float64 `json:"share"` // percentage of TotalVotes
}

// Ranking lists the candidates with votes, most voted first. Candidates
// with the same votes keep their tally order.
func (r *AggregateResult) Ranking() []RankEntry {
	var ranking []RankEntry

	for name, votes := range r.VotesByCandidate.All() {
		if votes <= 0 {
			continue
		}

		entry := RankEntry{Name: name, Votes: votes}
		if r.TotalVotes > 0 {
			entry.Share = float64(votes) * 100 / float64(r.TotalVotes)
		}

		ranking = append(ranking, entry)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Votes > ranking[j].Votes
	})

	return ranking
}

// ComunaVotes is the vote total of a comuna.
type ComunaVotes struct {
	Comuna     string `json:"comuna"`
	Stations   int    `json:"stations"`
	TotalVotes int    `json:"total_votes"`
}

// ComunaBreakdown totals the votes of every comuna for a corporation (all
// corporations when empty). Comunas follow the dataset order and those
// without votes are left out.
func ComunaBreakdown(ds *Dataset, corporation string) []ComunaVotes {
	var breakdown []ComunaVotes

	for _, comuna := range ds.Comunas {
		cv := ComunaVotes{Comuna: comuna}

		for _, s := range (Filter{Comuna: comuna, Corporation: corporation}).Stations(ds) {
			cv.Stations++
			cv.TotalVotes += s.TotalVotes
		}

		if cv.TotalVotes == 0 {
			continue
		}

		breakdown = append(breakdown, cv)
	}

	return breakdown
}
