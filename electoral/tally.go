// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
)

// NoWinner is reported when a tally has no entries.
const NoWinner = "N/A"

// Tally accumulates votes per candidate name, remembering the order in which
// each name was first added. The zero value is an empty tally ready to use.
type Tally struct {
	names  []string
	counts map[string]int
}

// Add adds votes to name, registering it at the end of the tally when it is
// seen for the first time.
func (t *Tally) Add(name string, votes int) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}

	if _, ok := t.counts[name]; !ok {
		t.names = append(t.names, name)
	}

	t.counts[name] += votes
}

// Get returns the votes accumulated by name.
func (t *Tally) Get(name string) int {
	return t.counts[name]
}

// Has reports whether name was ever added.
func (t *Tally) Has(name string) bool {
	_, ok := t.counts[name]

	return ok
}

// Len returns the number of distinct names.
func (t *Tally) Len() int {
	return len(t.names)
}

// Names returns the names in insertion order.
func (t *Tally) Names() []string {
	return append([]string(nil), t.names...)
}

// All iterates the tally in insertion order.
func (t *Tally) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for _, name := range t.names {
			if !yield(name, t.counts[name]) {
				return
			}
		}
	}
}

// Sum returns the total of all counts.
func (t *Tally) Sum() int {
	total := 0
	for _, v := range t.counts {
		total += v
	}

	return total
}

// Leader returns the name with the most votes. Ties go to the name that was
// added first, since only a strictly greater count displaces the current
// leader. An empty tally has no leader and reports NoWinner.
func (t *Tally) Leader() string {
	leader, best := NoWinner, -1

	for name, votes := range t.All() {
		if votes > best {
			leader, best = name, votes
		}
	}

	return leader
}

// MarshalJSON encodes the tally as a JSON object keeping insertion order.
func (t Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, name := range t.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", t.counts[name])
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the order of its keys.
func (t *Tally) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("tally: expected JSON object")
	}

	*t = Tally{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tally: unexpected key %v", tok)
		}

		var votes int
		if err := dec.Decode(&votes); err != nil {
			return fmt.Errorf("tally: votes for %q: %w", name, err)
		}

		t.Add(name, votes)
	}

	_, err = dec.Token()

	return err
}
