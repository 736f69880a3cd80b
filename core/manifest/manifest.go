package manifest

import (
	"github.com/asimov-run/asimov/core/command"
)

// CommandDescriptor is the manifest-facing view of one registered command.
type CommandDescriptor struct {
	Name                     string                            `json:"name"`
	Description              map[string]string                 `json:"description,omitempty"`
	EndpointURI              string                             `json:"endpointUri"`
	RequiresUserConfirmation bool                               `json:"requiresUserConfirmation"`
	RequiredConfigProfiles   []string                           `json:"requiredConfigProfiles"`
	Inputs                   map[string]command.TypeDescriptor `json:"inputs"`
	Outputs                  map[string]command.TypeDescriptor `json:"outputs"`
}

// ConfigProfileDescriptor is the manifest-facing view of one configured
// profile.
type ConfigProfileDescriptor struct {
	Name        string                       `json:"name"`
	Scope       command.ConfigProfileScope  `json:"scope"`
	SetupURI    string                       `json:"setupUri,omitempty"`
	Description map[string]string            `json:"description,omitempty"`
	Schema      map[string]any               `json:"schema,omitempty"`
}

// Manifest is the top-level document served at /manifest.json.
type Manifest struct {
	Service                string                     `json:"service"`
	Version                string                     `json:"version"`
	ProtocolVersion        string                     `json:"protocolVersion"`
	Description            map[string]string          `json:"description,omitempty"`
	Terms                  string                     `json:"terms,omitempty"`
	AcceptedPaymentSchemas []string                   `json:"acceptedPaymentSchemas,omitempty"`
	ConfigProfiles         []ConfigProfileDescriptor  `json:"configProfiles"`
	Commands               []CommandDescriptor        `json:"commands"`
}

// Builder assembles a Manifest from registered commands and config
// profiles. Not safe for concurrent use while building; the returned
// Manifest is a plain value safe to serve repeatedly.
type Builder struct {
	m Manifest
}

// NewBuilder starts a manifest for service, advertising protocolVersion
// (e.g. "1.0.0").
func NewBuilder(service, version, protocolVersion string) *Builder {
	return &Builder{m: Manifest{Service: service, Version: version, ProtocolVersion: protocolVersion}}
}

// WithDescription sets the manifest's multilingual description.
func (b *Builder) WithDescription(description map[string]string) *Builder {
	b.m.Description = description
	return b
}

// WithTerms sets the service's terms-of-use reference.
func (b *Builder) WithTerms(terms string) *Builder {
	b.m.Terms = terms
	return b
}

// WithAcceptedPaymentSchemas sets the service's default accepted payment
// schemas, advertised for commands that don't override them.
func (b *Builder) WithAcceptedPaymentSchemas(schemas ...string) *Builder {
	b.m.AcceptedPaymentSchemas = schemas
	return b
}

// AddConfigProfile advertises one config profile definition.
func (b *Builder) AddConfigProfile(p *command.ConfigProfile) *Builder {
	d := p.Descriptor()
	b.m.ConfigProfiles = append(b.m.ConfigProfiles, ConfigProfileDescriptor{
		Name:        d.Name,
		Scope:       d.Scope,
		SetupURI:    d.SetupURI,
		Description: d.Description,
		Schema:      d.Schema,
	})
	return b
}

// AddCommand advertises one command definition, deriving its endpoint URI
// from endpointPrefix+name (e.g. "/invoke/" + "greet").
func (b *Builder) AddCommand(def *command.Definition, endpointPrefix string) *Builder {
	d := def.GetDescriptor(endpointPrefix + def.Name())
	b.m.Commands = append(b.m.Commands, CommandDescriptor{
		Name:                     d.Name,
		Description:              d.Description,
		EndpointURI:              d.EndpointURI,
		RequiresUserConfirmation: d.RequiresUserConfirmation,
		RequiredConfigProfiles:   d.RequiredConfigProfiles,
		Inputs:                   d.Inputs,
		Outputs:                  d.Outputs,
	})
	return b
}

// Build returns the assembled Manifest.
func (b *Builder) Build() Manifest {
	return b.m
}
