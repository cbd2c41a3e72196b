// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"fmt"
	"strings"

	"github.com/jcodagnone/mapaelectoral/utils/textutils"
)

// Field is a canonical column of an electoral results file.
type Field int

const (
	FieldStation Field = iota
	FieldComuna
	FieldCorporation
	FieldCandidate
	FieldParty
	FieldVotes
	FieldLatitude
	FieldLongitude
	FieldPotentialVoters
	numFields
)

var fieldNames = [numFields]string{
	FieldStation:         "station",
	FieldComuna:          "comuna",
	FieldCorporation:     "corporation",
	FieldCandidate:       "candidate",
	FieldParty:           "party",
	FieldVotes:           "votes",
	FieldLatitude:        "latitude",
	FieldLongitude:       "longitude",
	FieldPotentialVoters: "potential_voters",
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("field(%d)", int(f))
	}

	return fieldNames[f]
}

// Fields lists every canonical field in resolution order.
func Fields() []Field {
	fields := make([]Field, numFields)
	for i := range fields {
		fields[i] = Field(i)
	}

	return fields
}

// fieldKeywords holds the synonyms searched for in the header text. A header
// matches a field when it contains any of them.
var fieldKeywords = [numFields][]string{
	FieldStation:         {"puesto", "lugar", "ubica"},
	FieldComuna:          {"comuna", "zona", "localidad"},
	FieldCorporation:     {"corporacion", "cuerpo", "eleccion"},
	FieldCandidate:       {"candidato", "nombre", "lista"},
	FieldParty:           {"partido", "movimiento"},
	FieldVotes:           {"votos", "cantidad", "resultado"},
	FieldLatitude:        {"lat", "norte"},
	FieldLongitude:       {"lng", "lon", "este"},
	FieldPotentialVoters: {"potencial", "habilitados", "censo"},
}

var requiredFields = []Field{FieldStation, FieldVotes}

// Absent marks a field that no header matched.
const Absent = -1

// Columns maps each canonical field to the index of the header it was
// resolved to, or Absent.
type Columns struct {
	Delimiter string
	Headers   []string
	index     [numFields]int
}

// Index returns the column of f, or Absent.
func (c Columns) Index(f Field) int {
	return c.index[f]
}

// Has reports whether f was resolved.
func (c Columns) Has(f Field) bool {
	return c.index[f] != Absent
}

// Split cuts a data line into trimmed, quote-stripped cells.
func (c Columns) Split(line string) []string {
	cells := strings.Split(line, c.Delimiter)
	for i, cell := range cells {
		cells[i] = cleanCell(cell)
	}

	return cells
}

// Cell returns the value of f in row. Absent fields and short rows yield
// ok == false.
func (c Columns) Cell(row []string, f Field) (string, bool) {
	idx := c.index[f]
	if idx == Absent || idx >= len(row) {
		return "", false
	}

	return row[idx], true
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// DetectDelimiter returns ";" when the header line contains one, "," otherwise.
func DetectDelimiter(header string) string {
	if strings.Contains(header, ";") {
		return ";"
	}

	return ","
}

// ResolveColumns inspects a header line, picks its delimiter and finds, for
// each field, the first header containing one of the field keywords. Headers
// are compared lowercased, without quotes and without accents, so
// "Corporación" matches "corporacion". It fails when station or votes can't
// be resolved, or when both resolve to the same column (a header in an
// unsupported delimiter collapses into one cell), still returning what it
// could resolve.
func ResolveColumns(header string) (Columns, error) {
	cols := Columns{Delimiter: DetectDelimiter(header)}

	raw := strings.Split(header, cols.Delimiter)
	cols.Headers = make([]string, len(raw))

	for i, h := range raw {
		cols.Headers[i] = textutils.LowerASCIIFolding(cleanCell(h))
	}

	for f := range numFields {
		cols.index[f] = findHeader(cols.Headers, fieldKeywords[f])
	}

	var missing []Field

	for _, f := range requiredFields {
		if !cols.Has(f) {
			missing = append(missing, f)
		}
	}

	if len(missing) > 0 {
		return cols, missingColumnError(missing...)
	}

	if cols.index[FieldStation] == cols.index[FieldVotes] {
		return cols, sharedColumnError(FieldStation, FieldVotes)
	}

	return cols, nil
}

func findHeader(headers, keywords []string) int {
	for i, h := range headers {
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return i
			}
		}
	}

	return Absent
}
