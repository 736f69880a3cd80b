package command

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ConfigProfile is a built, immutable config profile definition: its scope,
// setup URI, description, and optional validator for the opaque data an
// Invoke supplies under its name.
type ConfigProfile struct {
	descriptor ConfigProfileDescriptor
	schema     *jsonschema.Schema
}

// NewConfigProfile builds a ConfigProfile, compiling its schema if one is
// given.
func NewConfigProfile(descriptor ConfigProfileDescriptor) (*ConfigProfile, error) {
	sch, err := compileSchema(fmt.Sprintf("configProfile/%s.json", descriptor.Name), descriptor.Schema)
	if err != nil {
		return nil, err
	}
	return &ConfigProfile{descriptor: descriptor, schema: sch}, nil
}

// Descriptor returns the profile's manifest-facing descriptor.
func (p *ConfigProfile) Descriptor() ConfigProfileDescriptor { return p.descriptor }

// Validate validates the opaque data an Invoke supplied for this profile.
// A profile with no schema accepts anything.
func (p *ConfigProfile) Validate(value any) (bool, []string) {
	errs := validateAgainst(p.schema, value)
	return len(errs) == 0, errs
}

// Registry is a service-wide, name-keyed collection of config profiles,
// consulted during Invoke validation for every command's
// GetRequiredConfigProfiles.
type Registry struct {
	profiles map[string]*ConfigProfile
}

// NewRegistry returns an empty config profile registry.
func NewRegistry() *Registry {
	return &Registry{profiles: map[string]*ConfigProfile{}}
}

// Register adds profile to the registry, keyed by its descriptor name.
// Registering a duplicate name fails.
func (r *Registry) Register(profile *ConfigProfile) error {
	name := profile.descriptor.Name
	if _, exists := r.profiles[name]; exists {
		return fmt.Errorf("%w: config profile %q", ErrDuplicateType, name)
	}
	r.profiles[name] = profile
	return nil
}

// Get returns the named config profile, if registered.
func (r *Registry) Get(name string) (*ConfigProfile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}
