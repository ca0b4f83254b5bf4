package domain

import (
	"fmt"

	"github.com/gitter-badger/cloudflow/configtree"
)

// Savepoint is the canonical name of the durable channel between an
// upstream outlet and all downstream inlets; it always names the outlet
// side (spec §3).
type Savepoint struct {
	AppID            string `json:"appId"`
	StreamletRefName string `json:"streamletRefName"`
	OutletName       string `json:"outletName"`
}

// String renders the savepoint's canonical dotted name.
func (s Savepoint) String() string {
	return fmt.Sprintf("%s.%s.%s", s.AppID, s.StreamletRefName, s.OutletName)
}

// Endpoint is an externally addressable port of a server streamlet.
type Endpoint struct {
	AppID            string `json:"appId"`
	StreamletRefName string `json:"streamletRefName"`
	ContainerPort    int    `json:"containerPort"`
}

// StreamletDeployment is the per-ref lowering of a verified streamlet into a
// deployable workload description (spec §3, §4.6).
type StreamletDeployment struct {
	Name          string                `json:"name"`
	Runtime       string                `json:"runtime"`
	Image         string                `json:"image"`
	ClassName     string                `json:"className"`
	StreamletName string                `json:"streamletName"`
	Endpoint      *Endpoint             `json:"endpoint,omitempty"`
	SecretName    string                `json:"secretName"`
	Config        configtree.Tree       `json:"config"`
	PortMappings  map[string]Savepoint  `json:"portMappings"`
	VolumeMounts  []VolumeMountDescriptor `json:"volumeMounts"`
	Replicas      *int                  `json:"replicas,omitempty"`
	Labels        map[string]string     `json:"labels,omitempty"`
}

// ApplicationDescriptor is the deterministic, deployable plan lowered from a
// verified blueprint (spec §3, §4.6, §6).
type ApplicationDescriptor struct {
	AppID       string            `json:"appId"`
	AppVersion  string            `json:"appVersion"`
	Streamlets  []VerifiedStreamletView `json:"streamlets"`
	Connections []VerifiedConnectionView `json:"connections"`
	Deployments []StreamletDeployment `json:"deployments"`
	AgentPaths  map[string]string `json:"agentPaths"`
	Version     int               `json:"version"`
}

// VerifiedStreamletView is the JSON-facing projection of verify.VerifiedStreamlet
// carried forward into the descriptor's `streamlets` field (spec §3).
type VerifiedStreamletView struct {
	Name      string `json:"name"`
	ClassName string `json:"className"`
}

// VerifiedConnectionView is the JSON-facing projection of verify.VerifiedConnection
// carried forward into the descriptor's `connections` field. Per spec §9 this is
// advisory/documentation only — nothing in the builder derives savepoints or
// deployments from it.
type VerifiedConnectionView struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Label *string `json:"label,omitempty"`
}

// DescriptorVersion is the fixed schema version of ApplicationDescriptor
// (spec §6).
const DescriptorVersion = 1

// MinimumEndpointContainerPort is the base container port: a server
// streamlet at index i of the blueprint's refs (server or not) is assigned
// MinimumEndpointContainerPort + i (spec §4.6, §6).
const MinimumEndpointContainerPort = 3000
