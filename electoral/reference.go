// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jcodagnone/mapaelectoral/spatial"
)

//go:embed data/medellin.json
var defaultReferenceJSON []byte

// SampleCSV is a small results file covering exact and approximate stations
// for two corporations.
//
//go:embed data/sample.csv
var SampleCSV string

// Labels are the values used when a row leaves a field out.
type Labels struct {
	UnknownComuna      string `json:"unknown_comuna"`
	DefaultCorporation string `json:"default_corporation"`
	UnknownCandidate   string `json:"unknown_candidate"`
	Independent        string `json:"independent"`
}

// PartyColor assigns a color to every spelling of a party.
type PartyColor struct {
	Parties []string `json:"parties"`
	Color   string   `json:"color"`
}

// Centroid is the approximate center of a comuna, known by one or more names.
type Centroid struct {
	Names []string      `json:"names"`
	Point spatial.Point `json:"point"`
}

// Reference holds the static tables of an election: party colors, comuna
// centroids and the fallbacks used when a row can't be placed.
type Reference struct {
	Name         string        `json:"name"`
	CityCenter   spatial.Point `json:"city_center"`
	ComunaJitter float64       `json:"comuna_jitter"` // full width, in degrees
	CityJitter   float64       `json:"city_jitter"`   // full width, in degrees
	DefaultColor string        `json:"default_color"`
	Labels       Labels        `json:"labels"`
	PartyColors  []PartyColor  `json:"party_colors"`
	Centroids    []Centroid    `json:"centroids"`
}

// DefaultReference returns the tables for Medellín comunas and corregimientos.
func DefaultReference() Reference {
	ref, err := ParseReference(defaultReferenceJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded reference: %v", err))
	}

	return ref
}

// LoadReference reads a reference file in the same format as the embedded one.
func LoadReference(filepath string) (Reference, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return Reference{}, fmt.Errorf("reading reference file: %w", err)
	}

	return ParseReference(data)
}

// ParseReference decodes and validates a reference document.
func ParseReference(data []byte) (Reference, error) {
	var ref Reference
	if err := json.Unmarshal(data, &ref); err != nil {
		return Reference{}, &IngestError{Type: ErrorTypeReference, Message: "parsing reference JSON", Err: err}
	}

	if err := ref.Validate(); err != nil {
		return Reference{}, &IngestError{Type: ErrorTypeReference, Message: "invalid reference " + ref.Name, Err: err}
	}

	return ref, nil
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks coordinates, colors and labels.
func (r *Reference) Validate() error {
	if !r.CityCenter.Valid() {
		return fmt.Errorf("city center out of range: %s", r.CityCenter)
	}

	if r.ComunaJitter < 0 || r.CityJitter < 0 {
		return errors.New("jitter can't be negative")
	}

	if !hexColor.MatchString(r.DefaultColor) {
		return fmt.Errorf("invalid default color %q", r.DefaultColor)
	}

	if r.Labels.UnknownComuna == "" || r.Labels.DefaultCorporation == "" ||
		r.Labels.UnknownCandidate == "" || r.Labels.Independent == "" {
		return errors.New("labels must not be empty")
	}

	for _, pc := range r.PartyColors {
		if len(pc.Parties) == 0 {
			return fmt.Errorf("color %s has no parties", pc.Color)
		}

		if !hexColor.MatchString(pc.Color) {
			return fmt.Errorf("invalid color %q for %v", pc.Color, pc.Parties)
		}
	}

	for _, c := range r.Centroids {
		if len(c.Names) == 0 {
			return fmt.Errorf("centroid %s has no names", c.Point)
		}

		for _, name := range c.Names {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("centroid %s has an empty name", c.Point)
			}
		}

		if !c.Point.Valid() {
			return fmt.Errorf("centroid %v out of range: %s", c.Names, c.Point)
		}
	}

	return nil
}

// namedPoint is a single centroid key, kept in table order for the
// substring search.
type namedPoint struct {
	name  string
	point spatial.Point
}

// lookup is the compiled, read-only form of a Reference.
type lookup struct {
	ref       Reference
	colors    map[string]string
	centroids map[string]spatial.Point
	ordered   []namedPoint
}

func normalizeName(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func compile(ref Reference) *lookup {
	l := &lookup{
		ref:       ref,
		colors:    make(map[string]string),
		centroids: make(map[string]spatial.Point),
	}

	for _, pc := range ref.PartyColors {
		for _, p := range pc.Parties {
			if _, ok := l.colors[normalizeName(p)]; !ok {
				l.colors[normalizeName(p)] = pc.Color
			}
		}
	}

	for _, c := range ref.Centroids {
		for _, name := range c.Names {
			key := normalizeName(name)
			if _, ok := l.centroids[key]; ok {
				continue
			}

			l.centroids[key] = c.Point
			l.ordered = append(l.ordered, namedPoint{name: key, point: c.Point})
		}
	}

	return l
}

// color returns the color of party, or the default color.
func (l *lookup) color(party string) string {
	if c, ok := l.colors[normalizeName(party)]; ok {
		return c
	}

	return l.ref.DefaultColor
}

// centroid finds the centroid of a comuna: first by exact name, then by the
// first table name contained in it.
func (l *lookup) centroid(comuna string) (spatial.Point, bool) {
	name := normalizeName(comuna)
	if p, ok := l.centroids[name]; ok {
		return p, true
	}

	for _, np := range l.ordered {
		if strings.Contains(name, np.name) {
			return np.point, true
		}
	}

	return spatial.Point{}, false
}
