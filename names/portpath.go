package names

import (
	"fmt"
	"strings"
)

// PortPath is a parsed reference to a streamlet's port, either a short form
// naming only the streamlet ref (resolved positionally during verification)
// or a qualified "ref.port" form. This is the Go-native replacement for the
// teacher's raw string port paths (spec §9 design note): a closed sum,
// normalized to the Qualified form once verification resolves it.
type PortPath struct {
	RefName string
	// PortName is nil for a short (unqualified) path, set once resolved.
	PortName *string
}

// Short constructs an unqualified port path naming only a streamlet ref.
func Short(refName string) PortPath {
	return PortPath{RefName: refName}
}

// Qualified constructs a fully qualified "ref.port" path.
func Qualified(refName, portName string) PortPath {
	p := portName
	return PortPath{RefName: refName, PortName: &p}
}

// IsQualified reports whether the path already names a port.
func (p PortPath) IsQualified() bool {
	return p.PortName != nil
}

// WithPort returns a qualified copy of p naming portName.
func (p PortPath) WithPort(portName string) PortPath {
	return Qualified(p.RefName, portName)
}

// String renders the path as "ref" or "ref.port".
func (p PortPath) String() string {
	if p.PortName == nil {
		return p.RefName
	}
	return fmt.Sprintf("%s.%s", p.RefName, *p.PortName)
}

// Equal compares two port paths by normalized identity (ref and, if both
// qualified, port name). Two paths where only one is qualified are unequal.
func (p PortPath) Equal(other PortPath) bool {
	if p.RefName != other.RefName {
		return false
	}
	if p.IsQualified() != other.IsQualified() {
		return false
	}
	if p.IsQualified() {
		return *p.PortName == *other.PortName
	}
	return true
}

// Key returns a comparable value matching PortPath's Equal semantics, for use
// as a map key. PortPath itself cannot be a map key: PortName is a *string,
// and Go compares pointer struct fields by address, not by pointee, so two
// Qualified calls producing the "same" path would never collide as keys.
func (p PortPath) Key() string {
	if p.PortName == nil {
		return "short\x00" + p.RefName
	}
	return "qualified\x00" + p.RefName + "\x00" + *p.PortName
}

// ParsePortPath parses a raw "ref", "ref.port" or dotted streamlet-ref string
// into a PortPath. It mirrors the teacher's NewVerifiedPortPath: the final
// '.'-separated segment is the port name when there are 2+ segments; an empty
// ref or port segment, or a leading '.', is an error.
func ParsePortPath(raw string) (PortPath, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, ".") || strings.HasSuffix(trimmed, ".") {
		return PortPath{}, false
	}

	parts := strings.Split(trimmed, ".")
	if len(parts) == 1 {
		return Short(parts[0]), true
	}

	portName := parts[len(parts)-1]
	refName := strings.Join(parts[:len(parts)-1], ".")
	if refName == "" || portName == "" {
		return PortPath{}, false
	}
	return Qualified(refName, portName), true
}
