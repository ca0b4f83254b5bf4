// Package blueprint implements the Blueprint data structure and its
// incremental, purely functional edit API (spec §4.4): define, use,
// upsertStreamletRef, remove, connect, disconnect, verify and verified.
// Every operation returns a new Blueprint; none mutates the receiver or
// panics on malformed input — structural problems are recorded as values.
package blueprint

import (
	"github.com/gitter-badger/cloudflow/configtree"
	"github.com/gitter-badger/cloudflow/domain"
	"github.com/gitter-badger/cloudflow/names"
	"github.com/gitter-badger/cloudflow/verify"
)

// StreamletRef is a named instance of a streamlet class within a blueprint.
type StreamletRef struct {
	Name      string
	ClassName string
	Metadata  configtree.Tree
	// Problems is populated by Verify; empty on a freshly-constructed ref.
	Problems []verify.Problem
	// Verified caches the resolved descriptor once Verify succeeds for
	// this ref; nil until then.
	Verified *verify.VerifiedStreamlet
}

// StreamletConnection is an edge from an outlet port path to an inlet port
// path, as authored (not yet resolved).
type StreamletConnection struct {
	From     string
	To       string
	Metadata configtree.Tree
	// Label is an optional human-facing name for the connection (spec_full
	// §Supplemented features), never consulted by verification logic.
	Label *string
	// Problems is populated by Verify.
	Problems []verify.Problem
}

// Blueprint is the immutable, incrementally-edited document. Every method
// below returns a new Blueprint; the receiver is never modified.
type Blueprint struct {
	streamlets           []StreamletRef
	connections          []StreamletConnection
	streamletDescriptors []domain.StreamletDescriptor
	globalProblems       []verify.Problem
}

// New returns the empty blueprint.
func New() Blueprint {
	return Blueprint{}
}

// Streamlets returns the blueprint's refs in declared order.
func (b Blueprint) Streamlets() []StreamletRef {
	return append([]StreamletRef(nil), b.streamlets...)
}

// Connections returns the blueprint's connections in declared order.
func (b Blueprint) Connections() []StreamletConnection {
	return append([]StreamletConnection(nil), b.connections...)
}

// StreamletDescriptors returns the blueprint's descriptor catalog.
func (b Blueprint) StreamletDescriptors() []domain.StreamletDescriptor {
	return append([]domain.StreamletDescriptor(nil), b.streamletDescriptors...)
}

// GlobalProblems returns the problems attributed to the blueprint as a
// whole rather than to a specific ref or connection.
func (b Blueprint) GlobalProblems() []verify.Problem {
	return append([]verify.Problem(nil), b.globalProblems...)
}

// Define replaces the descriptor catalog wholesale.
func (b Blueprint) Define(descriptors []domain.StreamletDescriptor) Blueprint {
	next := b
	next.streamletDescriptors = append([]domain.StreamletDescriptor(nil), descriptors...)
	return next
}

// Use appends ref, or replaces an existing ref of the same name in place
// (preserving list order).
func (b Blueprint) Use(ref StreamletRef) Blueprint {
	next := b
	next.streamlets = replaceOrAppendRef(b.streamlets, ref)
	return next
}

func replaceOrAppendRef(refs []StreamletRef, ref StreamletRef) []StreamletRef {
	out := make([]StreamletRef, len(refs))
	copy(out, refs)
	for i, r := range out {
		if r.Name == ref.Name {
			out[i] = ref
			return out
		}
	}
	return append(out, ref)
}

// UpsertStreamletRef implements spec §4.4's upsertStreamletRef: if no ref
// named name exists, a new one is inserted using className (a no-op if
// className is empty and no ref exists); if a ref already exists its
// className is replaced only when className is non-empty, and its metadata
// is replaced only when metadata is provided — when both className and
// metadata are omitted for an existing ref, the blueprint is returned
// unchanged (identity, spec invariant #2).
func (b Blueprint) UpsertStreamletRef(name string, className string, metadata *configtree.Tree) Blueprint {
	existing, found := b.findRef(name)

	if !found {
		if className == "" {
			return b
		}
		return b.Use(StreamletRef{Name: name, ClassName: className, Metadata: treeOrEmpty(metadata)})
	}

	if className == "" && metadata == nil {
		return b
	}

	updated := existing
	if className != "" {
		updated.ClassName = className
	}
	if metadata != nil {
		updated.Metadata = *metadata
	}
	return b.Use(updated)
}

func treeOrEmpty(t *configtree.Tree) configtree.Tree {
	if t == nil {
		return configtree.Empty()
	}
	return *t
}

func (b Blueprint) findRef(name string) (StreamletRef, bool) {
	for _, r := range b.streamlets {
		if r.Name == name {
			return r, true
		}
	}
	return StreamletRef{}, false
}

// Remove deletes the ref named name and every connection referencing it on
// either side; other connections are retained.
func (b Blueprint) Remove(name string) Blueprint {
	next := b
	next.streamlets = nil
	for _, r := range b.streamlets {
		if r.Name != name {
			next.streamlets = append(next.streamlets, r)
		}
	}
	next.connections = nil
	for _, c := range b.connections {
		if refOf(c.From) != name && refOf(c.To) != name {
			next.connections = append(next.connections, c)
		}
	}
	return next
}

func refOf(rawPath string) string {
	p, ok := names.ParsePortPath(rawPath)
	if !ok {
		return rawPath
	}
	return p.RefName
}

// Connect records a connection from a short or qualified outlet path to a
// short or qualified inlet path. A connection that normalizes to the same
// resolved endpoints as one already present is not added again (spec §4.4
// duplicate suppression), even when problems are present on either side.
func (b Blueprint) Connect(from, to string, metadata *configtree.Tree) Blueprint {
	return b.ConnectLabeled(from, to, metadata, nil)
}

// ConnectLabeled is Connect with an optional human-facing label attached to
// the connection (spec_full §Supplemented features).
func (b Blueprint) ConnectLabeled(from, to string, metadata *configtree.Tree, label *string) Blueprint {
	if b.hasEquivalentConnection(from, to) {
		return b
	}
	next := b
	next.connections = append(append([]StreamletConnection(nil), b.connections...), StreamletConnection{
		From:     from,
		To:       to,
		Metadata: treeOrEmpty(metadata),
		Label:    label,
	})
	return next
}

// hasEquivalentConnection reports whether an existing connection resolves
// to the same (fromRef, fromPort, toRef, toPort) tuple as (from, to),
// positional ports resolved against the descriptor catalog the way verify
// would. Unresolvable paths compare by raw normalized ref/port text only.
func (b Blueprint) hasEquivalentConnection(from, to string) bool {
	candidateFrom := b.resolveForDedup(from, true)
	candidateTo := b.resolveForDedup(to, false)
	for _, c := range b.connections {
		if b.resolveForDedup(c.From, true).Equal(candidateFrom) &&
			b.resolveForDedup(c.To, false).Equal(candidateTo) {
			return true
		}
	}
	return false
}

func (b Blueprint) resolveForDedup(rawPath string, isOutletSide bool) names.PortPath {
	path, ok := names.ParsePortPath(rawPath)
	if !ok {
		return names.Short(rawPath)
	}
	if path.IsQualified() {
		return path
	}

	ref, found := b.findRef(path.RefName)
	if !found {
		return path
	}
	descriptor, found := b.findDescriptor(ref.ClassName)
	if !found {
		return path
	}

	if isOutletSide {
		if out, ok := descriptor.Shape.Out(); ok {
			return path.WithPort(out.Name)
		}
	} else {
		if in, ok := descriptor.Shape.In(); ok {
			return path.WithPort(in.Name)
		}
	}
	return path
}

func (b Blueprint) findDescriptor(className string) (domain.StreamletDescriptor, bool) {
	for _, d := range b.streamletDescriptors {
		if d.ClassName == className {
			return d, true
		}
	}
	return domain.StreamletDescriptor{}, false
}

// Disconnect removes every connection whose From or To matches path under
// the same normalization Connect's dedup uses; a path matching nothing is a
// no-op.
func (b Blueprint) Disconnect(path string) Blueprint {
	target := b.resolveForDedup(path, true)
	targetIn := b.resolveForDedup(path, false)

	next := b
	next.connections = nil
	for _, c := range b.connections {
		from := b.resolveForDedup(c.From, true)
		to := b.resolveForDedup(c.To, false)
		if from.Equal(target) || to.Equal(targetIn) {
			continue
		}
		next.connections = append(next.connections, c)
	}
	return next
}
