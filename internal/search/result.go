package search

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"iter"
	"sort"

	"github.com/desertwitch/treesift/internal/filter"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// ResultSet holds the matching entries of a search, keyed by full path, in
// the order they were found. Nothing modifies a ResultSet once returned.
type ResultSet struct {
	paths   []string
	records map[string]filter.Record
}

func newResultSet() *ResultSet {
	return &ResultSet{
		records: make(map[string]filter.Record),
	}
}

func (r *ResultSet) add(path string, rec filter.Record) error {
	if _, exists := r.records[path]; exists {
		return fmt.Errorf("(search-result) %w: %s", ErrDuplicatePath, path)
	}

	r.paths = append(r.paths, path)
	r.records[path] = rec

	return nil
}

// Len returns the number of matching entries.
func (r *ResultSet) Len() int {
	return len(r.paths)
}

// Paths returns the full paths of the matching entries in discovery order.
func (r *ResultSet) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)

	return out
}

// Get returns the record of a matching entry.
func (r *ResultSet) Get(path string) (filter.Record, bool) {
	rec, ok := r.records[path]

	return rec, ok
}

// All iterates the matching entries in discovery order.
func (r *ResultSet) All() iter.Seq2[string, filter.Record] {
	return func(yield func(string, filter.Record) bool) {
		for _, p := range r.paths {
			if !yield(p, r.records[p]) {
				return
			}
		}
	}
}

// Fingerprint returns a BLAKE3 digest over the ordered paths and their
// records. Two searches over an unchanged tree yield the same fingerprint.
func (r *ResultSet) Fingerprint() string {
	hasher := blake3.New()

	for p, rec := range r.All() {
		fmt.Fprintf(hasher, "%s\x00", p)

		m := rec.Map()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(hasher, "%s=%v\x00", k, m[k])
		}
		hasher.Write([]byte{'\n'}) //nolint:errcheck
	}

	return hex.EncodeToString(hasher.Sum(nil))
}

// MarshalJSON encodes the result set as a JSON object keyed by path, keeping
// discovery order.
func (r *ResultSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')
	for i, p := range r.paths {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("(search-json) failed to marshal path: %w", err)
		}
		val, err := json.Marshal(r.records[p].Map())
		if err != nil {
			return nil, fmt.Errorf("(search-json) failed to marshal record of %s: %w", p, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes the result set as a YAML mapping keyed by path,
// keeping discovery order.
func (r *ResultSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for p, rec := range r.All() {
		var val yaml.Node
		if err := val.Encode(rec.Map()); err != nil {
			return nil, fmt.Errorf("(search-yaml) failed to encode record of %s: %w", p, err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p},
			&val,
		)
	}

	return node, nil
}
