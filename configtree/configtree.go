// Package configtree implements the small nested-value tree used for
// streamlet ref/connection metadata and deployment config (spec §3, §4.6).
// It is deliberately not a file-loading configuration layer — loading
// config files is an external collaborator's job (spec §1) — just a value
// type that marshals directly into the ApplicationDescriptor JSON contract.
package configtree

import (
	"encoding/json"
	"strings"
)

// Tree is an immutable nested configuration value, keyed by dotted paths
// (e.g. "cloudflow.internal.server.container-port").
type Tree struct {
	values map[string]any
}

// Empty returns the empty config tree.
func Empty() Tree {
	return Tree{values: map[string]any{}}
}

// New builds a Tree from a flat map of dotted keys to values.
func New(values map[string]any) Tree {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Tree{values: cp}
}

// WithValue returns a new Tree with key set to value, leaving the receiver
// unmodified.
func (t Tree) WithValue(key string, value any) Tree {
	cp := make(map[string]any, len(t.values)+1)
	for k, v := range t.values {
		cp[k] = v
	}
	cp[key] = value
	return Tree{values: cp}
}

// Get looks up a dotted key, returning (nil, false) if absent.
func (t Tree) Get(key string) (any, bool) {
	v, ok := t.values[key]
	return v, ok
}

// GetString looks up a dotted key as a string.
func (t Tree) GetString(key string) (string, bool) {
	v, ok := t.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt looks up a dotted key as an int.
func (t Tree) GetInt(key string) (int, bool) {
	v, ok := t.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// IsEmpty reports whether the tree has no keys.
func (t Tree) IsEmpty() bool {
	return len(t.values) == 0
}

// Keys returns the tree's keys in no particular order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	return keys
}

// HasPrefix reports whether any key equals prefix or starts with prefix + ".".
func (t Tree) HasPrefix(prefix string) bool {
	for k := range t.values {
		if strings.HasPrefix(k, prefix+".") || k == prefix {
			return true
		}
	}
	return false
}

// MarshalJSON renders the tree as a flat JSON object of its dotted keys.
func (t Tree) MarshalJSON() ([]byte, error) {
	if t.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t.values)
}

// UnmarshalJSON populates the tree from a flat JSON object.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	t.values = m
	return nil
}
