// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"github.com/jcodagnone/mapaelectoral/utils/textutils"
)

// potentialVotersFactor estimates the electorate of a station that didn't
// report one.
const potentialVotersFactor = 1.5

// Engine turns results files into datasets. It holds no state between
// ingestions other than its reference tables and random source, and must
// not be used from several goroutines at once.
type Engine struct {
	lookup *lookup
	rnd    *rand.Rand
}

// NewEngine creates an engine for the given reference tables. rnd drives the
// jitter of approximate stations; when nil a randomly seeded source is used.
func NewEngine(ref Reference, rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Engine{
		lookup: compile(ref),
		rnd:    rnd,
	}
}

// Reference returns the tables the engine was built with.
func (e *Engine) Reference() Reference {
	return e.lookup.ref
}

// Ingest parses raw results text into a new Dataset. It fails only when the
// input has fewer than two lines or lacks the station or votes columns;
// malformed rows and unreadable vote counts are tolerated and counted in
// the LoadReport.
func (e *Engine) Ingest(raw string) (*Dataset, error) {
	lines := strings.Split(strings.TrimSpace(textutils.NFC(raw)), "\n")
	if len(lines) < 2 {
		return nil, emptyInputError(len(lines))
	}

	cols, err := ResolveColumns(lines[0])
	if err != nil {
		return nil, err
	}

	b := newBuilder(e, cols)
	for _, line := range lines[1:] {
		b.add(line)
	}

	return b.finish(), nil
}

// builder accumulates a single ingestion.
type builder struct {
	engine       *Engine
	cols         Columns
	labels       Labels
	stations     map[string]*Station
	candidates   map[string]*Candidate
	comunas      map[string]struct{}
	corporations map[string]struct{}
	ds           *Dataset
}

func newBuilder(e *Engine, cols Columns) *builder {
	return &builder{
		engine:       e,
		cols:         cols,
		labels:       e.lookup.ref.Labels,
		stations:     make(map[string]*Station),
		candidates:   make(map[string]*Candidate),
		comunas:      make(map[string]struct{}),
		corporations: make(map[string]struct{}),
		ds:           &Dataset{},
	}
}

// valueOr returns the cell for f, or def when the column is absent or the
// cell is empty.
func (b *builder) valueOr(row []string, f Field, def string) string {
	if v, ok := b.cols.Cell(row, f); ok && v != "" {
		return v
	}

	return def
}

func (b *builder) add(line string) {
	b.ds.Report.Rows++

	row := b.cols.Split(line)
	if len(row) < 2 {
		b.ds.Report.SkippedRows++

		return
	}

	name, _ := b.cols.Cell(row, FieldStation)
	comuna := b.valueOr(row, FieldComuna, b.labels.UnknownComuna)
	corporation := b.valueOr(row, FieldCorporation, b.labels.DefaultCorporation)
	candidate := b.valueOr(row, FieldCandidate, b.labels.UnknownCandidate)
	party := b.valueOr(row, FieldParty, b.labels.Independent)

	votes, ok := parseCount(row, b.cols, FieldVotes)
	if !ok {
		b.ds.Report.InvalidVotes++
	}

	b.comunas[comuna] = struct{}{}
	b.corporations[corporation] = struct{}{}

	c := b.candidate(candidate, party)

	id := textutils.Key(name, comuna, corporation)

	station, seen := b.stations[id]
	if !seen {
		station = b.newStation(id, name, comuna, corporation, row)
	}

	station.addVotes(c.Name, votes)
}

// candidate returns the candidate registered for name and party, creating
// it on first sight. Later spellings resolve to the first one.
func (b *builder) candidate(name, party string) *Candidate {
	id := textutils.Key(name, party)
	if c, ok := b.candidates[id]; ok {
		return c
	}

	c := &Candidate{
		ID:     id,
		Name:   name,
		Party:  party,
		Color:  b.engine.lookup.color(party),
		Avatar: textutils.Initials(name),
	}
	b.candidates[id] = c
	b.ds.Candidates = append(b.ds.Candidates, c)

	return c
}

// newStation creates a station from the first row naming it. Coordinates
// and potential voters are only read from this row.
func (b *builder) newStation(id, name, comuna, corporation string, row []string) *Station {
	rawLat, _ := b.cols.Cell(row, FieldLatitude)
	rawLng, _ := b.cols.Cell(row, FieldLongitude)

	point, precision := b.engine.locate(comuna, rawLat, rawLng)
	if precision == PrecisionExact {
		b.ds.Report.Exact++
	} else {
		b.ds.Report.Approximate++
	}

	potential, _ := parseCount(row, b.cols, FieldPotentialVoters)

	s := &Station{
		ID:              id,
		Name:            name,
		Comuna:          comuna,
		Corporation:     corporation,
		Point:           point,
		IsApproximate:   precision != PrecisionExact,
		PotentialVoters: potential,
	}
	b.stations[id] = s
	b.ds.Stations = append(b.ds.Stations, s)

	return s
}

// finish computes winners, estimates missing electorates and sorts the
// comuna and corporation lists.
func (b *builder) finish() *Dataset {
	for _, s := range b.ds.Stations {
		s.WinnerName = s.Votes.Leader()

		if s.PotentialVoters <= 0 {
			s.PotentialVoters = estimatePotentialVoters(s.TotalVotes)
		}
	}

	b.ds.Comunas = sortedKeys(b.comunas)
	b.ds.Corporations = sortedKeys(b.corporations)
	b.ds.Report.Total = len(b.ds.Stations)

	return b.ds
}

// estimatePotentialVoters never returns less than one, so participation is
// always defined for a station.
func estimatePotentialVoters(totalVotes int) int {
	return max(int(math.Round(float64(totalVotes)*potentialVotersFactor)), 1)
}

// parseCount reads a count cell. Empty or absent cells are zero and valid;
// anything that isn't a non-negative integer is zero and reported as invalid.
func parseCount(row []string, cols Columns, f Field) (int, bool) {
	v, ok := cols.Cell(row, f)
	if !ok || v == "" {
		return 0, true
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
