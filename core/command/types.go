package command

// TypeDescriptor describes one input or output type: a multilingual
// description and the JSON Schema its value must satisfy. Required and
// MinCount are meaningful for input types only and are surfaced verbatim
// in RequestInput descriptors.
type TypeDescriptor struct {
	Description map[string]string
	Schema      map[string]any
	Required    bool
	MinCount    int
}

// ConfigProfileScope names who a config profile is bound to.
type ConfigProfileScope string

const (
	ScopeUser         ConfigProfileScope = "user"
	ScopeOrganization ConfigProfileScope = "organization"
)

// ConfigProfileDescriptor describes one config profile a command may
// require on Invoke.
type ConfigProfileDescriptor struct {
	Name        string
	Scope       ConfigProfileScope
	SetupURI    string
	Description map[string]string
	Schema      map[string]any
}

// Descriptor is the manifest-facing view of a built command: its name,
// description, endpoint, required config profiles, confirmation flag, and
// input/output descriptors. Assembled by GetDescriptor for core/manifest.
type Descriptor struct {
	Name                     string
	Description              map[string]string
	EndpointURI              string
	RequiresUserConfirmation bool
	RequiredConfigProfiles   []string
	Inputs                   map[string]TypeDescriptor
	Outputs                  map[string]TypeDescriptor
}
