// Package domain holds the immutable data model of the blueprint compiler:
// schemas, ports, streamlet descriptors and the application descriptor that
// the descriptor builder produces. None of these types carry behavior beyond
// simple accessors — validation and verification live in sibling packages.
package domain

import "bytes"

// Schema names a wire format and carries a fingerprint used for compatibility
// checks. Two schemas are compatible iff their fingerprints are bytewise
// equal (spec §4.3) — no structural subtyping.
type Schema struct {
	Name        string `json:"name"`
	Fingerprint []byte `json:"fingerprint"`
}

// Equal reports fingerprint equality between two schemas.
func (s Schema) Equal(other Schema) bool {
	return bytes.Equal(s.Fingerprint, other.Fingerprint)
}
