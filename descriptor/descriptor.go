// Package descriptor lowers a verified blueprint into an ApplicationDescriptor
// (spec §4.6): assigning endpoint container ports, computing savepoint-based
// port mappings, and deriving secret and deployment names. The builder
// performs no I/O; it consumes a verify.VerifiedBlueprint and a set of
// caller-supplied agent paths and returns a plain data value.
package descriptor

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/gitter-badger/cloudflow/configtree"
	"github.com/gitter-badger/cloudflow/domain"
	"github.com/gitter-badger/cloudflow/names"
	"github.com/gitter-badger/cloudflow/verify"
)

// ErrInvalidBlueprint is returned when Build is invoked with a nil verified
// blueprint — a programming error on the caller's part, not a verification
// problem (spec §7).
var ErrInvalidBlueprint = errors.New("descriptor: blueprint is not verified")

// ErrInvalidApplicationID is returned when the supplied appId normalizes to
// the empty string (spec §4.1, §7).
var ErrInvalidApplicationID = errors.New("descriptor: application id does not normalize to a valid id")

// replicasMetadataKey is the supplemented metadata key a ref may carry to
// request a specific replica count (spec_full §Supplemented features).
const replicasMetadataKey = "cloudflow.internal.replicas"

// serverContainerPortConfigKey is the config key set on a server
// streamlet's deployment naming its assigned container port (spec §4.6).
const serverContainerPortConfigKey = "cloudflow.internal.server.container-port"

// streamletNameLabel is the ambient label merged into every deployment's
// labels, identifying the owning ref (spec_full §Supplemented features).
const streamletNameLabel = "cloudflow.lightbend.com/streamlet-name"

// Build lowers vb into an ApplicationDescriptor. appID is normalized per
// spec §4.1 before use; appVersion and agentPaths are carried through
// verbatim. logger receives one line per container-port assignment and one
// line per deployment built.
func Build(logger logr.Logger, rawAppID, appVersion string, vb *verify.VerifiedBlueprint, agentPaths map[string]string) (domain.ApplicationDescriptor, error) {
	if vb == nil {
		return domain.ApplicationDescriptor{}, ErrInvalidBlueprint
	}

	appID, ok := names.NormalizeAppID(rawAppID)
	if !ok {
		return domain.ApplicationDescriptor{}, errors.Wrapf(ErrInvalidApplicationID, "raw id %q", rawAppID)
	}

	containerPorts := assignContainerPorts(logger, appID, vb.Streamlets)
	savepoints := buildSavepoints(appID, vb)

	deployments := make([]domain.StreamletDeployment, len(vb.Streamlets))
	for i, streamlet := range vb.Streamlets {
		deployments[i] = buildDeployment(logger, appID, streamlet, containerPorts, savepoints)
	}

	streamletViews := make([]domain.VerifiedStreamletView, len(vb.Streamlets))
	for i, s := range vb.Streamlets {
		streamletViews[i] = domain.VerifiedStreamletView{Name: s.RefName, ClassName: s.Descriptor.ClassName}
	}

	connectionViews := make([]domain.VerifiedConnectionView, len(vb.Connections))
	for i, c := range vb.Connections {
		connectionViews[i] = domain.VerifiedConnectionView{
			From:  c.Outlet.PortPath().String(),
			To:    c.Inlet.PortPath().String(),
			Label: c.Label,
		}
	}

	agentPathsCopy := make(map[string]string, len(agentPaths))
	for k, v := range agentPaths {
		agentPathsCopy[k] = v
	}

	return domain.ApplicationDescriptor{
		AppID:       appID,
		AppVersion:  appVersion,
		Streamlets:  streamletViews,
		Connections: connectionViews,
		Deployments: deployments,
		AgentPaths:  agentPathsCopy,
		Version:     domain.DescriptorVersion,
	}, nil
}

// assignContainerPorts implements spec §4.6 step 2: iterating refs in
// blueprint-declared order, every server streamlet gets
// MinimumEndpointContainerPort + its index in that order. The assignment is
// stable under re-verification because it only depends on declared order.
func assignContainerPorts(logger logr.Logger, appID string, streamlets []verify.VerifiedStreamlet) map[string]int {
	ports := make(map[string]int, len(streamlets))
	for i, s := range streamlets {
		if !s.Descriptor.ServerAttribute {
			continue
		}
		port := domain.MinimumEndpointContainerPort + i
		ports[s.RefName] = port
		logger.V(1).Info("descriptor: assigned container port", "appId", appID, "streamlet", s.RefName, "port", port)
	}
	return ports
}

// buildSavepoints implements spec §4.6 step 3: one savepoint per outlet,
// named by its own (appId, refName, outletName); inlets map to the
// savepoint of whichever outlet they're connected to. Keyed by
// PortPath.Key(), not PortPath itself: PortPath embeds a *string, and two
// equal paths built by separate names.Qualified calls would otherwise be
// distinct map keys (Go compares pointer struct fields by address).
func buildSavepoints(appID string, vb *verify.VerifiedBlueprint) map[string]domain.Savepoint {
	savepoints := make(map[string]domain.Savepoint)

	for _, s := range vb.Streamlets {
		for _, out := range s.Descriptor.Shape.Outlets {
			path := names.Qualified(s.RefName, out.Name)
			savepoints[path.Key()] = domain.Savepoint{AppID: appID, StreamletRefName: s.RefName, OutletName: out.Name}
		}
	}

	for _, c := range vb.Connections {
		inletPath := c.Inlet.PortPath()
		outletPath := c.Outlet.PortPath()
		savepoints[inletPath.Key()] = savepoints[outletPath.Key()]
	}

	return savepoints
}

func buildDeployment(logger logr.Logger, appID string, streamlet verify.VerifiedStreamlet, containerPorts map[string]int, savepoints map[string]domain.Savepoint) domain.StreamletDeployment {
	descriptor := streamlet.Descriptor

	portMappings := make(map[string]domain.Savepoint, len(descriptor.Shape.Inlets)+len(descriptor.Shape.Outlets))
	for _, in := range descriptor.Shape.Inlets {
		path := names.Qualified(streamlet.RefName, in.Name)
		if sp, ok := savepoints[path.Key()]; ok {
			portMappings[in.Name] = sp
		}
	}
	for _, out := range descriptor.Shape.Outlets {
		path := names.Qualified(streamlet.RefName, out.Name)
		portMappings[out.Name] = savepoints[path.Key()]
	}

	var endpoint *domain.Endpoint
	config := configtree.Empty()
	if port, isServer := containerPorts[streamlet.RefName]; isServer {
		endpoint = &domain.Endpoint{AppID: appID, StreamletRefName: streamlet.RefName, ContainerPort: port}
		config = config.WithValue(serverContainerPortConfigKey, port)
	}

	labels := make(map[string]string, len(descriptor.Labels)+1)
	for k, v := range descriptor.Labels {
		labels[k] = v
	}
	labels[streamletNameLabel] = streamlet.RefName

	deployment := domain.StreamletDeployment{
		Name:          names.DeploymentName(appID, streamlet.RefName),
		Runtime:       descriptor.Runtime,
		Image:         descriptor.Image,
		ClassName:     descriptor.ClassName,
		StreamletName: streamlet.RefName,
		Endpoint:      endpoint,
		SecretName:    names.SecretName(streamlet.RefName),
		Config:        config,
		PortMappings:  portMappings,
		VolumeMounts:  append([]domain.VolumeMountDescriptor(nil), descriptor.VolumeMounts...),
		Labels:        labels,
	}

	if replicas, ok := streamlet.Metadata.GetInt(replicasMetadataKey); ok {
		deployment.Replicas = &replicas
	}

	logger.V(1).Info("descriptor: built deployment", "appId", appID, "streamlet", streamlet.RefName, "name", deployment.Name)
	return deployment
}
