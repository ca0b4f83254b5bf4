package verify

import (
	"github.com/gitter-badger/cloudflow/configtree"
	"github.com/gitter-badger/cloudflow/domain"
	"github.com/gitter-badger/cloudflow/names"
)

// VerifiedStreamlet is a streamlet ref whose className has been resolved
// against the descriptor catalog.
type VerifiedStreamlet struct {
	RefName    string
	Descriptor domain.StreamletDescriptor
	Metadata   configtree.Tree
}

// VerifiedPort names a resolved port and its schema.
type VerifiedPort struct {
	PortName string
	Schema   domain.Schema
}

// VerifiedInlet is a resolved inlet belonging to a verified streamlet.
type VerifiedInlet struct {
	VerifiedPort
	Streamlet VerifiedStreamlet
}

// VerifiedOutlet is a resolved outlet belonging to a verified streamlet.
type VerifiedOutlet struct {
	VerifiedPort
	Streamlet VerifiedStreamlet
}

// PortPath renders the qualified port path identifying this inlet.
func (v VerifiedInlet) PortPath() names.PortPath {
	return names.Qualified(v.Streamlet.RefName, v.PortName)
}

// PortPath renders the qualified port path identifying this outlet.
func (v VerifiedOutlet) PortPath() names.PortPath {
	return names.Qualified(v.Streamlet.RefName, v.PortName)
}

// outlet builds the VerifiedOutlet for one of v's descriptor outlets.
func (v VerifiedStreamlet) outlet(o domain.InOutlet) VerifiedOutlet {
	return VerifiedOutlet{VerifiedPort{o.Name, o.Schema}, v}
}

// inlet builds the VerifiedInlet for one of v's descriptor inlets.
func (v VerifiedStreamlet) inlet(in domain.InOutlet) VerifiedInlet {
	return VerifiedInlet{VerifiedPort{in.Name, in.Schema}, v}
}

// VerifiedConnection is a connection whose endpoints have been resolved to
// concrete, schema-bearing ports.
type VerifiedConnection struct {
	Outlet   VerifiedOutlet
	Inlet    VerifiedInlet
	Metadata configtree.Tree
	// Label is an optional human-facing name for the connection, carried
	// forward from the teacher's VerifiedStreamletConnection (spec_full
	// §Supplemented features); never consulted by verification logic.
	Label *string
}

// VerifiedBlueprint is a blueprint whose aggregate problem list is empty and
// whose refs and connections are fully resolved (spec §3).
type VerifiedBlueprint struct {
	Streamlets  []VerifiedStreamlet
	Connections []VerifiedConnection
}

func findStreamlet(streamlets []VerifiedStreamlet, refName string) (VerifiedStreamlet, bool) {
	for _, s := range streamlets {
		if s.RefName == refName {
			return s, true
		}
	}
	return VerifiedStreamlet{}, false
}

func outletSuggestions(refName string, shape domain.StreamletShape) []names.PortPath {
	suggestions := make([]names.PortPath, 0, len(shape.Outlets))
	for _, o := range shape.Outlets {
		suggestions = append(suggestions, names.Qualified(refName, o.Name))
	}
	return suggestions
}

func inletSuggestions(refName string, shape domain.StreamletShape) []names.PortPath {
	suggestions := make([]names.PortPath, 0, len(shape.Inlets))
	for _, in := range shape.Inlets {
		suggestions = append(suggestions, names.Qualified(refName, in.Name))
	}
	return suggestions
}

// FindVerifiedOutlet resolves a raw outlet port path against the verified
// streamlets, as the teacher's FindVerifiedOutlet does: a short path
// resolves uniquely only when the streamlet's descriptor has exactly one
// outlet (AmbiguousOutlet when it has several, PortPathNotFound when it has
// none); a qualified path must name an existing outlet.
func FindVerifiedOutlet(streamlets []VerifiedStreamlet, rawPath string) (VerifiedOutlet, Problem) {
	path, ok := names.ParsePortPath(rawPath)
	if !ok {
		return VerifiedOutlet{}, PortPathNotFound{Path: rawPath}
	}

	streamlet, found := findStreamlet(streamlets, path.RefName)
	if !found {
		return VerifiedOutlet{}, PortPathNotFound{Path: rawPath}
	}
	shape := streamlet.Descriptor.Shape

	if !path.IsQualified() {
		switch {
		case len(shape.Outlets) == 0:
			return VerifiedOutlet{}, PortPathNotFound{Path: rawPath}
		case len(shape.Outlets) > 1:
			return VerifiedOutlet{}, AmbiguousOutlet{RefName: streamlet.RefName, Suggestions: outletSuggestions(streamlet.RefName, shape)}
		default:
			return streamlet.outlet(shape.Outlets[0]), nil
		}
	}

	outlet, found := shape.OutletByName(*path.PortName)
	if !found {
		return VerifiedOutlet{}, PortPathNotFound{Path: rawPath, Suggestions: outletSuggestions(streamlet.RefName, shape)}
	}
	return streamlet.outlet(outlet), nil
}

// FindVerifiedInlet resolves a raw inlet port path against the verified
// streamlets: a short path resolves uniquely only when the streamlet's
// descriptor has exactly one inlet.
func FindVerifiedInlet(streamlets []VerifiedStreamlet, rawPath string) (VerifiedInlet, Problem) {
	path, ok := names.ParsePortPath(rawPath)
	if !ok {
		return VerifiedInlet{}, PortPathNotFound{Path: rawPath}
	}

	streamlet, found := findStreamlet(streamlets, path.RefName)
	if !found {
		return VerifiedInlet{}, PortPathNotFound{Path: rawPath}
	}
	shape := streamlet.Descriptor.Shape

	if !path.IsQualified() {
		if len(shape.Inlets) != 1 {
			return VerifiedInlet{}, PortPathNotFound{Path: rawPath, Suggestions: inletSuggestions(streamlet.RefName, shape)}
		}
		return streamlet.inlet(shape.Inlets[0]), nil
	}

	inlet, found := shape.InletByName(*path.PortName)
	if !found {
		return VerifiedInlet{}, PortPathNotFound{Path: rawPath, Suggestions: inletSuggestions(streamlet.RefName, shape)}
	}
	return streamlet.inlet(inlet), nil
}
