package domain

// ConfigParameterKind is the closed set of config parameter value kinds.
type ConfigParameterKind string

const (
	KindString     ConfigParameterKind = "string"
	KindInt        ConfigParameterKind = "int"
	KindBool       ConfigParameterKind = "bool"
	KindDouble     ConfigParameterKind = "double"
	KindDuration   ConfigParameterKind = "duration"
	KindMemorysize ConfigParameterKind = "memorysize"
	KindRegexp     ConfigParameterKind = "regexp"
)

// ConfigParameterDescriptor describes one configuration key a streamlet
// class accepts.
type ConfigParameterDescriptor struct {
	Key          string              `json:"key"`
	Description  string              `json:"description"`
	Kind         ConfigParameterKind `json:"kind"`
	Pattern      string              `json:"pattern,omitempty"`
	DefaultValue string              `json:"defaultValue,omitempty"`
}

// HasPattern reports whether a validation pattern was supplied.
func (c ConfigParameterDescriptor) HasPattern() bool {
	return c.Pattern != ""
}

// HasDefaultValue reports whether a default value was supplied.
func (c ConfigParameterDescriptor) HasDefaultValue() bool {
	return c.DefaultValue != ""
}

// VolumeMountAccessMode is the closed set of volume access modes.
type VolumeMountAccessMode string

const (
	ReadOnlyMany   VolumeMountAccessMode = "ReadOnlyMany"
	ReadWriteMany  VolumeMountAccessMode = "ReadWriteMany"
	ReadWriteOnce  VolumeMountAccessMode = "ReadWriteOnce"
)

// ValidAccessModes is the closed set of legal access mode strings.
var ValidAccessModes = map[VolumeMountAccessMode]bool{
	ReadOnlyMany:  true,
	ReadWriteMany: true,
	ReadWriteOnce: true,
}

// VolumeMountDescriptor describes one volume a streamlet requires mounted.
type VolumeMountDescriptor struct {
	Name       string                `json:"name"`
	Path       string                `json:"path"`
	AccessMode VolumeMountAccessMode `json:"accessMode"`
}

// StreamletDescriptor is an immutable description of a streamlet class:
// its runtime, image, shape, configuration surface and volume requirements.
type StreamletDescriptor struct {
	ClassName        string                      `json:"className"`
	Runtime          string                      `json:"runtime"`
	Image            string                      `json:"image"`
	Shape            StreamletShape              `json:"shape"`
	ConfigParameters []ConfigParameterDescriptor `json:"configParameters"`
	VolumeMounts     []VolumeMountDescriptor     `json:"volumeMounts"`
	ServerAttribute  bool                        `json:"serverAttribute"`
	Labels           map[string]string           `json:"labels,omitempty"`
}
