package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// AddOutcome tells whether Add created a term or extended an existing one
type AddOutcome int

const (
	AddOutcomeCreated AddOutcome = iota + 1
	AddOutcomeAppended
)

// RemoveResult is the per-term outcome of a removal
type RemoveResult struct {
	Term  string
	Found bool
	Count int
}

// Entry is a term together with its definitions
type Entry struct {
	Term        string   `json:"term"`
	Definitions []string `json:"definitions"`
}

// Dictionary maps terms to their definitions and remembers insertion order.
// A term present in the dictionary always has at least one definition.
type Dictionary struct {
	keys []string
	defs map[string][]string
}

// NewDictionary creates an empty dictionary
func NewDictionary() *Dictionary {
	return &Dictionary{defs: make(map[string][]string)}
}

// Get returns a copy of the definitions for term
func (d *Dictionary) Get(term string) ([]string, bool) {
	defs, ok := d.defs[term]
	if !ok {
		return nil, false
	}
	return slices.Clone(defs), true
}

// Has reports whether term is present
func (d *Dictionary) Has(term string) bool {
	_, ok := d.defs[term]
	return ok
}

// Append adds definition to term, creating the term if needed
func (d *Dictionary) Append(term, definition string) AddOutcome {
	if defs, ok := d.defs[term]; ok {
		d.defs[term] = append(defs, definition)
		return AddOutcomeAppended
	}
	d.keys = append(d.keys, term)
	d.defs[term] = []string{definition}
	return AddOutcomeCreated
}

// Set stores definitions under term. Empty definitions delete the term.
func (d *Dictionary) Set(term string, definitions []string) {
	if len(definitions) == 0 {
		d.Delete(term)
		return
	}
	if _, ok := d.defs[term]; !ok {
		d.keys = append(d.keys, term)
	}
	d.defs[term] = slices.Clone(definitions)
}

// Delete removes term and returns how many definitions it had
func (d *Dictionary) Delete(term string) (int, bool) {
	defs, ok := d.defs[term]
	if !ok {
		return 0, false
	}
	delete(d.defs, term)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == term })
	return len(defs), true
}

// Keys returns the terms in insertion order
func (d *Dictionary) Keys() []string {
	return slices.Clone(d.keys)
}

// Len returns the number of terms
func (d *Dictionary) Len() int {
	return len(d.keys)
}

// Entries returns every term with a copy of its definitions, in order
func (d *Dictionary) Entries() []Entry {
	entries := make([]Entry, 0, len(d.keys))
	for _, key := range d.keys {
		entries = append(entries, Entry{Term: key, Definitions: slices.Clone(d.defs[key])})
	}
	return entries
}

// MarshalJSON writes the dictionary as an object keyed by term, in insertion order
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.defs[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by term and keeps the key order of the document.
// Terms with no definitions are dropped.
func (d *Dictionary) UnmarshalJSON(data []byte) error {
	*d = Dictionary{defs: make(map[string][]string)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("dictionary: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("dictionary: expected string key, got %v", tok)
		}

		var defs []string
		if err := dec.Decode(&defs); err != nil {
			return fmt.Errorf("dictionary: term %q: %w", key, err)
		}
		d.Set(key, defs)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
