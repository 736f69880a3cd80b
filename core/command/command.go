package command

import (
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

type typeEntry struct {
	descriptor TypeDescriptor
	schema     *jsonschema.Schema
}

// Definition is the built, immutable contract for one command: its
// input/output type registry, required config profiles, and
// user-confirmation flag. Construct one via NewBuilder.
type Definition struct {
	name                     string
	description              map[string]string
	requiresUserConfirmation bool
	requiredConfigProfiles   []string
	inputs                   map[string]*typeEntry
	outputs                  map[string]*typeEntry
}

// Name returns the command's registered name.
func (d *Definition) Name() string { return d.name }

// HasInputType reports whether name was declared as an input type.
func (d *Definition) HasInputType(name string) bool {
	_, ok := d.inputs[name]
	return ok
}

// GetInputType returns the descriptor for a declared input type.
func (d *Definition) GetInputType(name string) (TypeDescriptor, bool) {
	e, ok := d.inputs[name]
	if !ok {
		return TypeDescriptor{}, false
	}
	return e.descriptor, true
}

// HasOutputType reports whether name was declared as an output type.
func (d *Definition) HasOutputType(name string) bool {
	_, ok := d.outputs[name]
	return ok
}

// GetOutputType returns the descriptor for a declared output type.
func (d *Definition) GetOutputType(name string) (TypeDescriptor, bool) {
	e, ok := d.outputs[name]
	if !ok {
		return TypeDescriptor{}, false
	}
	return e.descriptor, true
}

// ValidateInput validates value against the named input type's schema.
// Returns ErrUnknownInputType if name was never declared.
func (d *Definition) ValidateInput(name string, value any) (bool, []string, error) {
	e, ok := d.inputs[name]
	if !ok {
		return false, nil, fmt.Errorf("%w: %s", ErrUnknownInputType, name)
	}
	errs := validateAgainst(e.schema, value)
	return len(errs) == 0, errs, nil
}

// ValidateOutput validates value against the named output type's schema.
// Returns ErrUnknownOutputType if name was never declared.
func (d *Definition) ValidateOutput(name string, value any) (bool, []string, error) {
	e, ok := d.outputs[name]
	if !ok {
		return false, nil, fmt.Errorf("%w: %s", ErrUnknownOutputType, name)
	}
	errs := validateAgainst(e.schema, value)
	return len(errs) == 0, errs, nil
}

// GetRequiredConfigProfiles returns the names of config profiles this
// command requires on Invoke, sorted for deterministic validation and
// manifest output.
func (d *Definition) GetRequiredConfigProfiles() []string {
	out := make([]string, len(d.requiredConfigProfiles))
	copy(out, d.requiredConfigProfiles)
	return out
}

// DoesRequireConfigProfile reports whether name is among the command's
// required config profiles.
func (d *Definition) DoesRequireConfigProfile(name string) bool {
	for _, n := range d.requiredConfigProfiles {
		if n == name {
			return true
		}
	}
	return false
}

// RequiresUserConfirmation reports whether the command always requires a
// standing user confirmation on Invoke.
func (d *Definition) RequiresUserConfirmation() bool { return d.requiresUserConfirmation }

// GetDescriptor assembles the manifest-facing Descriptor for this command,
// binding it to endpointURI (typically /invoke/{name}).
func (d *Definition) GetDescriptor(endpointURI string) Descriptor {
	inputs := make(map[string]TypeDescriptor, len(d.inputs))
	for name, e := range d.inputs {
		inputs[name] = e.descriptor
	}
	outputs := make(map[string]TypeDescriptor, len(d.outputs))
	for name, e := range d.outputs {
		outputs[name] = e.descriptor
	}
	return Descriptor{
		Name:                     d.name,
		Description:              d.description,
		EndpointURI:              endpointURI,
		RequiresUserConfirmation: d.requiresUserConfirmation,
		RequiredConfigProfiles:   d.GetRequiredConfigProfiles(),
		Inputs:                   inputs,
		Outputs:                  outputs,
	}
}

// Builder constructs a Definition. It is not safe for concurrent use;
// build one command definition per goroutine and discard the builder after
// Build succeeds.
type Builder struct {
	name                     string
	description              map[string]string
	requiresUserConfirmation bool
	requiredConfigProfiles   []string
	inputOrder               []string
	inputs                   map[string]TypeDescriptor
	outputOrder              []string
	outputs                  map[string]TypeDescriptor
	built                    bool
	err                      error
}

// NewBuilder starts building a command definition named name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:    name,
		inputs:  map[string]TypeDescriptor{},
		outputs: map[string]TypeDescriptor{},
	}
}

// WithDescription sets the command's multilingual description.
func (b *Builder) WithDescription(description map[string]string) *Builder {
	b.description = description
	return b
}

// RequireUserConfirmation marks the command as always requiring a standing
// user confirmation on Invoke.
func (b *Builder) RequireUserConfirmation() *Builder {
	b.requiresUserConfirmation = true
	return b
}

// RequireConfigProfile adds name to the command's required config profiles.
func (b *Builder) RequireConfigProfile(name string) *Builder {
	b.requiredConfigProfiles = append(b.requiredConfigProfiles, name)
	return b
}

// AddInputType declares an input type. Adding a duplicate name fails Build.
func (b *Builder) AddInputType(name string, descriptor TypeDescriptor) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.inputs[name]; exists {
		b.err = fmt.Errorf("%w: input %q in command %q", ErrDuplicateType, name, b.name)
		return b
	}
	b.inputs[name] = descriptor
	b.inputOrder = append(b.inputOrder, name)
	return b
}

// AddOutputType declares an output type. Adding a duplicate name fails Build.
func (b *Builder) AddOutputType(name string, descriptor TypeDescriptor) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.outputs[name]; exists {
		b.err = fmt.Errorf("%w: output %q in command %q", ErrDuplicateType, name, b.name)
		return b
	}
	b.outputs[name] = descriptor
	b.outputOrder = append(b.outputOrder, name)
	return b
}

// Build compiles every declared schema and returns the immutable
// Definition. Subsequent use of the Builder is undefined; discard it.
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	b.built = true

	inputs := make(map[string]*typeEntry, len(b.inputs))
	for _, name := range b.inputOrder {
		d := b.inputs[name]
		sch, err := compileSchema(fmt.Sprintf("command/%s/input/%s.json", b.name, name), d.Schema)
		if err != nil {
			return nil, err
		}
		inputs[name] = &typeEntry{descriptor: d, schema: sch}
	}

	outputs := make(map[string]*typeEntry, len(b.outputs))
	for _, name := range b.outputOrder {
		d := b.outputs[name]
		sch, err := compileSchema(fmt.Sprintf("command/%s/output/%s.json", b.name, name), d.Schema)
		if err != nil {
			return nil, err
		}
		outputs[name] = &typeEntry{descriptor: d, schema: sch}
	}

	profiles := append([]string(nil), b.requiredConfigProfiles...)
	sort.Strings(profiles) // deterministic manifest/validation ordering

	return &Definition{
		name:                     b.name,
		description:              b.description,
		requiresUserConfirmation: b.requiresUserConfirmation,
		requiredConfigProfiles:   profiles,
		inputs:                   inputs,
		outputs:                  outputs,
	}, nil
}
