// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils provides helpers to normalize the free text found in
// electoral results files.
package textutils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// NFC returns s in Unicode normalization form C, so that composed and
// decomposed spellings of the same name ("é" vs "é") compare equal.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Key builds an identity key: the parts joined by '-', lowercased, and every
// run of whitespace replaced by a single '-'.
//
// Key("Juan Pérez", "Pacto") == Key("juan   pérez", "PACTO") == "juan-pérez-pacto".
func Key(parts ...string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.Join(parts, "-"))), "-")
}

// Initials returns the first two characters of name in upper case.
func Initials(name string) string {
	r := []rune(name)
	if len(r) > 2 {
		r = r[:2]
	}

	return strings.ToUpper(string(r))
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	numOfDigits := len(in)
	if n < 0 {
		numOfDigits-- // First character is the - sign (not a digit)
	}

	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}
