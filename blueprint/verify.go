package blueprint

import (
	"github.com/go-logr/logr"

	"github.com/gitter-badger/cloudflow/verify"
)

// Verify runs the verification engine (spec §4.5) and returns a new
// Blueprint with GlobalProblems and each ref's/connection's Problems
// populated. Verify is idempotent (spec invariant #1): verifying an
// already-verified blueprint reproduces the same problem assignment.
func (b Blueprint) Verify(logger logr.Logger) Blueprint {
	refInputs := make([]verify.RefInput, len(b.streamlets))
	for i, r := range b.streamlets {
		refInputs[i] = verify.RefInput{Name: r.Name, ClassName: r.ClassName, Metadata: r.Metadata}
	}

	connInputs := make([]verify.ConnectionInput, len(b.connections))
	for i, c := range b.connections {
		connInputs[i] = verify.ConnectionInput{From: c.From, To: c.To, Metadata: c.Metadata, Label: c.Label}
	}

	result := verify.Run(logger, b.streamletDescriptors, refInputs, connInputs)

	next := b
	next.globalProblems = result.GlobalProblems

	next.streamlets = make([]StreamletRef, len(b.streamlets))
	for i, r := range b.streamlets {
		next.streamlets[i] = r
		next.streamlets[i].Problems = result.RefResults[i].Problems
		next.streamlets[i].Verified = result.RefResults[i].Verified
	}

	next.connections = make([]StreamletConnection, len(b.connections))
	for i, c := range b.connections {
		next.connections[i] = c
		next.connections[i].Problems = result.ConnectionResults[i].Problems
	}

	return next
}

// Problems returns the aggregate, deduplicated problem list across the
// blueprint's global problems, every ref and every connection.
func (b Blueprint) Problems() []verify.Problem {
	var all []verify.Problem
	all = append(all, b.globalProblems...)
	for _, r := range b.streamlets {
		all = append(all, r.Problems...)
	}
	for _, c := range b.connections {
		all = append(all, c.Problems...)
	}
	return verify.Dedup(all)
}

// Verified returns the VerifiedBlueprint when Problems is empty, or the
// problem list otherwise — the Go-native stand-in for the spec's
// Right(VerifiedBlueprint)/Left(problems) result (spec §4.4 `verified`).
func (b Blueprint) Verified() (*verify.VerifiedBlueprint, []verify.Problem) {
	problems := b.Problems()
	if len(problems) > 0 {
		return nil, problems
	}

	refInputs := make([]verify.RefInput, len(b.streamlets))
	for i, r := range b.streamlets {
		refInputs[i] = verify.RefInput{Name: r.Name, ClassName: r.ClassName, Metadata: r.Metadata}
	}
	connInputs := make([]verify.ConnectionInput, len(b.connections))
	for i, c := range b.connections {
		connInputs[i] = verify.ConnectionInput{From: c.From, To: c.To, Metadata: c.Metadata, Label: c.Label}
	}

	result := verify.Run(logr.Discard(), b.streamletDescriptors, refInputs, connInputs)
	if result.Verified == nil {
		return nil, result.AllProblems()
	}
	return result.Verified, nil
}
