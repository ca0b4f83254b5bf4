package verify

import (
	"github.com/go-logr/logr"

	"github.com/gitter-badger/cloudflow/configtree"
	"github.com/gitter-badger/cloudflow/domain"
	"github.com/gitter-badger/cloudflow/names"
)

// RefInput is the raw (unverified) shape of a streamlet ref, independent of
// the blueprint package's own StreamletRef so this engine has no import
// cycle back to it.
type RefInput struct {
	Name      string
	ClassName string
	Metadata  configtree.Tree
}

// ConnectionInput is the raw (unverified) shape of a connection.
type ConnectionInput struct {
	From     string
	To       string
	Metadata configtree.Tree
	Label    *string
}

// RefResult is the outcome of verifying one ref.
type RefResult struct {
	Problems []Problem
	Verified *VerifiedStreamlet
}

// ConnectionResult is the outcome of verifying one connection.
type ConnectionResult struct {
	Problems []Problem
	Verified *VerifiedConnection
}

// Result is the full output of one verification run (spec §4.5).
type Result struct {
	GlobalProblems    []Problem
	RefResults        []RefResult
	ConnectionResults []ConnectionResult
	// Verified is non-nil iff the aggregate problem list across
	// GlobalProblems, every RefResult and every ConnectionResult is empty.
	Verified *VerifiedBlueprint
}

// AllProblems concatenates and dedups every problem produced by the run,
// spanning global, per-ref and per-connection problems (spec §4.5: "The
// final problem list is the concatenation, de-duplicated by structural
// equality").
func (r Result) AllProblems() []Problem {
	var all []Problem
	all = append(all, r.GlobalProblems...)
	for _, rr := range r.RefResults {
		all = append(all, rr.Problems...)
	}
	for _, cr := range r.ConnectionResults {
		all = append(all, cr.Problems...)
	}
	return Dedup(all)
}

// Run executes the eight-pass verification pipeline of spec §4.5 against a
// descriptor catalog, a set of refs and a set of connections, in declared
// order. logger receives one V(1) line per pass naming the pass and the
// problem count it contributed (spec_full §Ambient stack / Logging); a
// discarded logger is the zero value.
func Run(logger logr.Logger, descriptors []domain.StreamletDescriptor, refs []RefInput, connections []ConnectionInput) Result {
	var global []Problem

	// Pass 1: empty checks.
	if len(descriptors) == 0 {
		global = append(global, EmptyStreamletDescriptors{})
	}
	if len(refs) == 0 {
		global = append(global, EmptyStreamlets{})
	}
	logger.V(1).Info("verify: empty checks", "problems", len(global))

	// Pass 2: descriptor well-formedness.
	descriptorProblems := verifyDescriptors(descriptors)
	global = append(global, descriptorProblems...)
	logger.V(1).Info("verify: descriptor well-formedness", "problems", len(descriptorProblems))

	// Pass 3: ref resolution.
	refResults := make([]RefResult, len(refs))
	verifiedStreamlets := make([]VerifiedStreamlet, 0, len(refs))
	refProblemCount := 0
	for i, ref := range refs {
		result := verifyRef(descriptors, ref)
		refResults[i] = result
		refProblemCount += len(result.Problems)
		if result.Verified != nil {
			verifiedStreamlets = append(verifiedStreamlets, *result.Verified)
		}
	}
	logger.V(1).Info("verify: ref resolution", "problems", refProblemCount)

	// Pass 4: port path resolution.
	type resolved struct {
		input  ConnectionInput
		outlet *VerifiedOutlet
		inlet  *VerifiedInlet
	}
	resolvedConnections := make([]resolved, len(connections))
	connectionProblems := make([][]Problem, len(connections))
	pathProblemCount := 0
	for i, conn := range connections {
		var problems []Problem
		r := resolved{input: conn}

		if outlet, problem := FindVerifiedOutlet(verifiedStreamlets, conn.From); problem != nil {
			problems = append(problems, problem)
		} else {
			o := outlet
			r.outlet = &o
		}

		if inlet, problem := FindVerifiedInlet(verifiedStreamlets, conn.To); problem != nil {
			problems = append(problems, problem)
		} else {
			in := inlet
			r.inlet = &in
		}

		resolvedConnections[i] = r
		connectionProblems[i] = problems
		pathProblemCount += len(problems)
	}
	logger.V(1).Info("verify: port path resolution", "problems", pathProblemCount)

	// Pass 5: connection legality — group successfully-resolved connections
	// by target inlet; >1 distinct source outlet is illegal, emitted once
	// per target. Keyed by PortPath.Key(), not PortPath itself: PortPath
	// embeds a *string, so two equal paths from separate Qualified() calls
	// would otherwise be distinct map keys.
	sourcesByTarget := map[string][]names.PortPath{}
	targetByKey := map[string]names.PortPath{}
	indexByTarget := map[string][]int{}
	for i, r := range resolvedConnections {
		if r.outlet == nil || r.inlet == nil {
			continue
		}
		target := r.inlet.PortPath()
		key := target.Key()
		sourcesByTarget[key] = append(sourcesByTarget[key], r.outlet.PortPath())
		targetByKey[key] = target
		indexByTarget[key] = append(indexByTarget[key], i)
	}

	illegalCount := 0
	for key, sources := range sourcesByTarget {
		if distinctCount(sources) <= 1 {
			continue
		}
		problem := IllegalConnection{Sources: dedupPaths(sources), Target: targetByKey[key]}
		for _, idx := range indexByTarget[key] {
			connectionProblems[idx] = append(connectionProblems[idx], problem)
		}
		illegalCount++
	}
	logger.V(1).Info("verify: connection legality", "illegalTargets", illegalCount)

	// Pass 6: schema compatibility, for every successfully resolved
	// connection regardless of fan-in legality.
	schemaMismatchCount := 0
	for i, r := range resolvedConnections {
		if r.outlet == nil || r.inlet == nil {
			continue
		}
		if r.outlet.Schema.Equal(r.inlet.Schema) {
			continue
		}
		problem := IncompatibleSchema{From: r.outlet.PortPath(), To: r.inlet.PortPath()}
		connectionProblems[i] = append(connectionProblems[i], problem)
		schemaMismatchCount++
	}
	logger.V(1).Info("verify: schema compatibility", "mismatches", schemaMismatchCount)

	// Build VerifiedConnection values and final per-connection results.
	connResults := make([]ConnectionResult, len(connections))
	verifiedConnections := make([]VerifiedConnection, 0, len(connections))
	for i, r := range resolvedConnections {
		connResults[i] = ConnectionResult{Problems: connectionProblems[i]}
		if r.outlet != nil && r.inlet != nil && len(connectionProblems[i]) == 0 {
			vc := VerifiedConnection{Outlet: *r.outlet, Inlet: *r.inlet, Metadata: r.input.Metadata, Label: r.input.Label}
			connResults[i].Verified = &vc
			verifiedConnections = append(verifiedConnections, vc)
		}
	}

	// Track which resolved inlets were the target of *any* successfully
	// resolved connection (legal or not) so unconnected detection only
	// reports inlets with zero resolved incoming connections. Keyed by
	// PortPath.Key(), for the same pointer-identity reason as sourcesByTarget
	// above.
	connectedInlets := map[string]bool{}
	for _, r := range resolvedConnections {
		if r.outlet != nil && r.inlet != nil {
			connectedInlets[r.inlet.PortPath().Key()] = true
		}
	}

	// Pass 7: unconnected inlets, excluding those addressed by an illegal
	// fan-in or schema mismatch in this pass (spec §4.5 step 7). Emitted as
	// a single global problem carrying every unconnected inlet.
	var unconnected []UnconnectedInlet
	for _, rr := range refResults {
		if rr.Verified == nil {
			continue
		}
		for _, in := range rr.Verified.Descriptor.Shape.Inlets {
			path := names.Qualified(rr.Verified.RefName, in.Name)
			// An inlet targeted by any resolved connection is never
			// reported here — even a problematic one (illegal fan-in or
			// schema mismatch) is "addressed" by that problem instead
			// (spec §4.5 step 7).
			if connectedInlets[path.Key()] {
				continue
			}
			unconnected = append(unconnected, UnconnectedInlet{RefName: rr.Verified.RefName, Inlet: in.Name})
		}
	}
	if len(unconnected) > 0 {
		global = append(global, UnconnectedInlets{Inlets: unconnected})
	}
	logger.V(1).Info("verify: unconnected inlets", "count", len(unconnected))

	// Pass 8: unused descriptors — no error, silently ignored.

	global = Dedup(global)

	result := Result{
		GlobalProblems:    global,
		RefResults:        refResults,
		ConnectionResults: connResults,
	}

	if len(result.AllProblems()) == 0 {
		result.Verified = &VerifiedBlueprint{
			Streamlets:  verifiedStreamlets,
			Connections: verifiedConnections,
		}
	}
	return result
}

func distinctCount(paths []names.PortPath) int {
	return len(dedupPaths(paths))
}

func dedupPaths(paths []names.PortPath) []names.PortPath {
	var out []names.PortPath
	for _, p := range paths {
		found := false
		for _, o := range out {
			if o.Equal(p) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, p)
		}
	}
	return out
}

func verifyRef(descriptors []domain.StreamletDescriptor, ref RefInput) RefResult {
	var problems []Problem

	if !names.IsValidRefName(ref.Name) {
		problems = append(problems, InvalidStreamletName{Name: ref.Name})
	}

	descriptor, found := findDescriptor(descriptors, ref.ClassName)
	if !found {
		problems = append(problems, StreamletDescriptorNotFound{RefName: ref.Name, ClassName: ref.ClassName})
		return RefResult{Problems: problems}
	}

	verified := VerifiedStreamlet{RefName: ref.Name, Descriptor: descriptor, Metadata: ref.Metadata}
	return RefResult{Problems: problems, Verified: &verified}
}

func findDescriptor(descriptors []domain.StreamletDescriptor, className string) (domain.StreamletDescriptor, bool) {
	for _, d := range descriptors {
		if d.ClassName == className {
			return d, true
		}
	}
	return domain.StreamletDescriptor{}, false
}

func verifyDescriptors(descriptors []domain.StreamletDescriptor) []Problem {
	var problems []Problem
	for _, d := range descriptors {
		if !names.IsValidClassName(d.ClassName) {
			problems = append(problems, InvalidStreamletClassName{ClassName: d.ClassName})
		}
		for _, in := range d.Shape.Inlets {
			if !names.IsValidPortName(in.Name) {
				problems = append(problems, InvalidInletName{ClassName: d.ClassName, Name: in.Name})
			}
		}
		for _, out := range d.Shape.Outlets {
			if !names.IsValidPortName(out.Name) {
				problems = append(problems, InvalidOutletName{ClassName: d.ClassName, Name: out.Name})
			}
		}
		problems = append(problems, verifyConfigParameters(d.ConfigParameters)...)
		problems = append(problems, verifyVolumeMounts(d.VolumeMounts)...)
	}
	return problems
}

// NormalizeAppID wraps names.NormalizeAppID, surfacing failure as the
// InvalidApplicationID problem (spec §4.1, §7) rather than a bool.
func NormalizeAppID(raw string) (string, Problem) {
	normalized, ok := names.NormalizeAppID(raw)
	if !ok {
		return "", InvalidApplicationID{Raw: raw}
	}
	return normalized, nil
}
