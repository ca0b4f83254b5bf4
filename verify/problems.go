// Package verify implements the multi-pass verification engine of spec §4.5
// and the closed problem taxonomy of spec §4.7, plus the VerifiedBlueprint
// port-resolution helpers the teacher's verifiedblueprint.go already had.
package verify

import (
	"fmt"
	"strings"

	"github.com/gitter-badger/cloudflow/names"
)

// Severity is always Error in this core (spec §4.7).
type Severity string

// SeverityError is the sole severity variant emitted by this core.
const SeverityError Severity = "error"

// Problem is the closed taxonomy of blueprint validation problems. Each
// variant below implements it; Key is used for structural-equality dedup,
// Message renders a human-readable diagnostic.
type Problem interface {
	Severity() Severity
	Message() string
	Key() string
}

type baseProblem struct{}

func (baseProblem) Severity() Severity { return SeverityError }

// EmptyStreamlets is emitted when a blueprint declares no streamlet refs.
type EmptyStreamlets struct{ baseProblem }

func (EmptyStreamlets) Message() string { return "no streamlets have been defined" }
func (EmptyStreamlets) Key() string     { return "EmptyStreamlets" }

// EmptyStreamletDescriptors is emitted when the descriptor catalog is empty.
type EmptyStreamletDescriptors struct{ baseProblem }

func (EmptyStreamletDescriptors) Message() string { return "no streamlet descriptors have been defined" }
func (EmptyStreamletDescriptors) Key() string      { return "EmptyStreamletDescriptors" }

// InvalidStreamletName is emitted when a ref's name fails the name grammar.
type InvalidStreamletName struct {
	baseProblem
	Name string
}

func (p InvalidStreamletName) Message() string {
	return fmt.Sprintf("%q is not a valid streamlet name", p.Name)
}
func (p InvalidStreamletName) Key() string { return "InvalidStreamletName:" + p.Name }

// InvalidStreamletClassName is emitted when a descriptor's class name fails
// the dotted-identifier grammar.
type InvalidStreamletClassName struct {
	baseProblem
	RefName   string
	ClassName string
}

func (p InvalidStreamletClassName) Message() string {
	return fmt.Sprintf("%q has an invalid class name %q", p.RefName, p.ClassName)
}
func (p InvalidStreamletClassName) Key() string {
	return "InvalidStreamletClassName:" + p.RefName + ":" + p.ClassName
}

// InvalidInletName is emitted when a descriptor's inlet name fails the port
// name grammar.
type InvalidInletName struct {
	baseProblem
	ClassName string
	Name      string
}

func (p InvalidInletName) Message() string {
	return fmt.Sprintf("streamlet class %q has an invalid inlet name %q", p.ClassName, p.Name)
}
func (p InvalidInletName) Key() string { return "InvalidInletName:" + p.ClassName + ":" + p.Name }

// InvalidOutletName is emitted when a descriptor's outlet name fails the
// port name grammar.
type InvalidOutletName struct {
	baseProblem
	ClassName string
	Name      string
}

func (p InvalidOutletName) Message() string {
	return fmt.Sprintf("streamlet class %q has an invalid outlet name %q", p.ClassName, p.Name)
}
func (p InvalidOutletName) Key() string { return "InvalidOutletName:" + p.ClassName + ":" + p.Name }

// StreamletDescriptorNotFound is emitted when a ref's className does not
// resolve against the descriptor catalog.
type StreamletDescriptorNotFound struct {
	baseProblem
	RefName   string
	ClassName string
}

func (p StreamletDescriptorNotFound) Message() string {
	return fmt.Sprintf("streamlet %q refers to unknown class %q", p.RefName, p.ClassName)
}
func (p StreamletDescriptorNotFound) Key() string {
	return "StreamletDescriptorNotFound:" + p.RefName + ":" + p.ClassName
}

// PortPathNotFound is emitted when a connection endpoint cannot be resolved
// to a concrete port. Suggestions carries candidate qualified paths when the
// ref exists but the short form was ambiguous or the port name was wrong —
// a feature carried forward from the teacher's FindVerifiedOutlet/Inlet
// (spec_full §Supplemented features).
type PortPathNotFound struct {
	baseProblem
	Path        string
	Suggestions []names.PortPath
}

func (p PortPathNotFound) Message() string {
	if len(p.Suggestions) == 0 {
		return fmt.Sprintf("port path %q could not be resolved", p.Path)
	}
	suggestions := make([]string, len(p.Suggestions))
	for i, s := range p.Suggestions {
		suggestions[i] = s.String()
	}
	return fmt.Sprintf("port path %q could not be resolved, did you mean: %s?", p.Path, strings.Join(suggestions, ", "))
}
func (p PortPathNotFound) Key() string { return "PortPathNotFound:" + p.Path }

// AmbiguousOutlet is emitted when a short outlet path resolves to a
// streamlet with more than one outlet.
type AmbiguousOutlet struct {
	baseProblem
	RefName     string
	Suggestions []names.PortPath
}

func (p AmbiguousOutlet) Message() string {
	return fmt.Sprintf("streamlet %q has more than one outlet, a port name must be specified", p.RefName)
}
func (p AmbiguousOutlet) Key() string { return "AmbiguousOutlet:" + p.RefName }

// IllegalConnection is emitted once per inlet that more than one distinct
// outlet fans into.
type IllegalConnection struct {
	baseProblem
	Sources []names.PortPath
	Target  names.PortPath
}

func (p IllegalConnection) Message() string {
	sources := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		sources[i] = s.String()
	}
	return fmt.Sprintf("inlet %q has more than one connected outlet: %s", p.Target.String(), strings.Join(sources, ", "))
}
func (p IllegalConnection) Key() string {
	sources := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		sources[i] = s.String()
	}
	return "IllegalConnection:" + p.Target.String() + ":" + strings.Join(sources, ",")
}

// IncompatibleSchema is emitted when a connection's outlet and inlet
// schemas do not share a fingerprint.
type IncompatibleSchema struct {
	baseProblem
	From names.PortPath
	To   names.PortPath
}

func (p IncompatibleSchema) Message() string {
	return fmt.Sprintf("%q and %q have incompatible schemas", p.From.String(), p.To.String())
}
func (p IncompatibleSchema) Key() string {
	return "IncompatibleSchema:" + p.From.String() + ":" + p.To.String()
}

// UnconnectedInlet names one inlet with no resolved connection.
type UnconnectedInlet struct {
	RefName string
	Inlet   string
}

// UnconnectedInlets is emitted once per verification run, as a global
// problem carrying every unconnected inlet across all refs; inlets already
// addressed by an IllegalConnection or IncompatibleSchema in the same pass
// are excluded (spec §4.5 step 7).
type UnconnectedInlets struct {
	baseProblem
	Inlets []UnconnectedInlet
}

func (p UnconnectedInlets) Message() string {
	parts := make([]string, len(p.Inlets))
	for i, in := range p.Inlets {
		parts[i] = fmt.Sprintf("%s.%s", in.RefName, in.Inlet)
	}
	return fmt.Sprintf("unconnected inlets: %s", strings.Join(parts, ", "))
}
func (p UnconnectedInlets) Key() string {
	parts := make([]string, len(p.Inlets))
	for i, in := range p.Inlets {
		parts[i] = in.RefName + "." + in.Inlet
	}
	return "UnconnectedInlets:" + strings.Join(parts, ",")
}

// DuplicateConfigParameterKeyFound is emitted when a descriptor declares the
// same config parameter key twice.
type DuplicateConfigParameterKeyFound struct {
	baseProblem
	Key_ string
}

func (p DuplicateConfigParameterKeyFound) Message() string {
	return fmt.Sprintf("duplicate config parameter key %q", p.Key_)
}
func (p DuplicateConfigParameterKeyFound) Key() string { return "DuplicateConfigParameterKeyFound:" + p.Key_ }

// InvalidValidationPatternConfigParameter is emitted when a config
// parameter's pattern fails to compile as a regex.
type InvalidValidationPatternConfigParameter struct {
	baseProblem
	Key_ string
}

func (p InvalidValidationPatternConfigParameter) Message() string {
	return fmt.Sprintf("config parameter %q has an invalid validation pattern", p.Key_)
}
func (p InvalidValidationPatternConfigParameter) Key() string {
	return "InvalidValidationPatternConfigParameter:" + p.Key_
}

// InvalidDefaultValueInConfigParameter is emitted when a config parameter's
// default value does not parse/match under its declared kind.
type InvalidDefaultValueInConfigParameter struct {
	baseProblem
	Key_  string
	Kind  string
	Value string
}

func (p InvalidDefaultValueInConfigParameter) Message() string {
	return fmt.Sprintf("config parameter %q has an invalid default value %q for kind %q", p.Key_, p.Value, p.Kind)
}
func (p InvalidDefaultValueInConfigParameter) Key() string {
	return "InvalidDefaultValueInConfigParameter:" + p.Key_ + ":" + p.Kind + ":" + p.Value
}

// DuplicateVolumeMountName is emitted when two volume mounts on the same
// descriptor share a name.
type DuplicateVolumeMountName struct {
	baseProblem
	Name string
}

func (p DuplicateVolumeMountName) Message() string {
	return fmt.Sprintf("duplicate volume mount name %q", p.Name)
}
func (p DuplicateVolumeMountName) Key() string { return "DuplicateVolumeMountName:" + p.Name }

// DuplicateVolumeMountPath is emitted when two volume mounts on the same
// descriptor share a path.
type DuplicateVolumeMountPath struct {
	baseProblem
	Path string
}

func (p DuplicateVolumeMountPath) Message() string {
	return fmt.Sprintf("duplicate volume mount path %q", p.Path)
}
func (p DuplicateVolumeMountPath) Key() string { return "DuplicateVolumeMountPath:" + p.Path }

// InvalidVolumeMountName is emitted when a volume mount name fails the
// DNS-1123 label grammar.
type InvalidVolumeMountName struct {
	baseProblem
	Name string
}

func (p InvalidVolumeMountName) Message() string {
	return fmt.Sprintf("%q is not a valid volume mount name", p.Name)
}
func (p InvalidVolumeMountName) Key() string { return "InvalidVolumeMountName:" + p.Name }

// EmptyVolumeMountPath is emitted when a volume mount's path is empty.
type EmptyVolumeMountPath struct {
	baseProblem
	Name string
}

func (p EmptyVolumeMountPath) Message() string {
	return fmt.Sprintf("volume mount %q has an empty path", p.Name)
}
func (p EmptyVolumeMountPath) Key() string { return "EmptyVolumeMountPath:" + p.Name }

// NonAbsoluteVolumeMountPath is emitted when a volume mount's path does not
// start with a path separator.
type NonAbsoluteVolumeMountPath struct {
	baseProblem
	Name string
}

func (p NonAbsoluteVolumeMountPath) Message() string {
	return fmt.Sprintf("volume mount %q has a non-absolute path", p.Name)
}
func (p NonAbsoluteVolumeMountPath) Key() string { return "NonAbsoluteVolumeMountPath:" + p.Name }

// BacktrackingVolumeMountPath is emitted when a volume mount's path
// contains a ".." segment.
type BacktrackingVolumeMountPath struct {
	baseProblem
	Name string
}

func (p BacktrackingVolumeMountPath) Message() string {
	return fmt.Sprintf("volume mount %q has a path containing '..'", p.Name)
}
func (p BacktrackingVolumeMountPath) Key() string { return "BacktrackingVolumeMountPath:" + p.Name }

// InvalidVolumeMountAccessMode is emitted when a volume mount names an
// access mode outside the closed set.
type InvalidVolumeMountAccessMode struct {
	baseProblem
	Name string
	Mode string
}

func (p InvalidVolumeMountAccessMode) Message() string {
	return fmt.Sprintf("volume mount %q has an invalid access mode %q", p.Name, p.Mode)
}
func (p InvalidVolumeMountAccessMode) Key() string {
	return "InvalidVolumeMountAccessMode:" + p.Name + ":" + p.Mode
}

// InvalidApplicationID is emitted when normalizing an application id yields
// an empty string.
type InvalidApplicationID struct {
	baseProblem
	Raw string
}

func (p InvalidApplicationID) Message() string {
	return fmt.Sprintf("%q does not normalize to a valid application id", p.Raw)
}
func (p InvalidApplicationID) Key() string { return "InvalidApplicationID:" + p.Raw }

// Dedup removes problems that are structurally equal (same Key), preserving
// first-seen order (spec §4.5: "concatenation, de-duplicated by structural
// equality"; ordering itself is not part of the contract, spec §9).
func Dedup(problems []Problem) []Problem {
	seen := make(map[string]bool, len(problems))
	out := make([]Problem, 0, len(problems))
	for _, p := range problems {
		k := p.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}
