package cmdpipe

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRegistry sets the value parser registry of the built tree. By
// default each root Builder creates a new Registry.
func WithRegistry(r *Registry) BuilderOption {
	return func(b *Builder) { b.registry = r }
}

// WithLogger sets the logger of the built tree. By default nothing is
// logged.
func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = logger }
}

// Builder builds a Pipeline tree.
//
// Subcommands are added with AddSubcommand which returns the subcommand
// Builder. Schema errors are not reported when adding; all of them are
// returned by Build of the root Builder.
type Builder struct {
	// ctype is the command type of the built pipeline.
	ctype *CommandType
	// name is the label of the built pipeline.
	name string
	// registry is shared by all Builders in a tree.
	registry *Registry
	// logger is shared by all Builders in a tree.
	logger zerolog.Logger
	// subcommands are the child Builders in order as added.
	subcommands []*Builder
}

// NewBuilder returns a new root *Builder for a pipeline of command type
// ct named name, usually the program name.
func NewBuilder(ct *CommandType, name string, options ...BuilderOption) *Builder {
	b := &Builder{
		ctype:  ct,
		name:   name,
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(b)
	}
	if b.registry == nil {
		b.registry = NewRegistry()
	}
	return b
}

// Registry returns the Builder Registry so that parsers can be registered
// before Build.
func (b *Builder) Registry() *Registry { return b.registry }

// AddSubcommand adds a subcommand of command type ct under label and
// returns its Builder.
func (b *Builder) AddSubcommand(ct *CommandType, label string) *Builder {
	sub := &Builder{
		ctype:    ct,
		name:     label,
		registry: b.registry,
		logger:   b.logger,
	}
	b.subcommands = append(b.subcommands, sub)
	return sub
}

// Build validates the schema and returns the built Pipeline tree. If the
// schema is invalid all problems found are returned in an error that
// matches ErrInvalidSchema.
func (b *Builder) Build() (*Pipeline, error) {
	var errs *multierror.Error
	pipeline := b.build(&errs)
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return pipeline, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Pipeline {
	pipeline, err := b.Build()
	if err != nil {
		panic(err)
	}
	return pipeline
}

// build builds the pipeline and its children depth first, appending any
// schema problems to errs.
func (b *Builder) build(errs **multierror.Error) *Pipeline {
	fail := func(err error, format string, args ...interface{}) {
		*errs = multierror.Append(*errs, schemaError(b.scope(), err, format, args...))
	}
	pipeline := &Pipeline{
		registry: b.registry,
		ctype:    b.ctype,
		name:     b.name,
		logger:   b.logger.With().Str("pipeline", b.name).Logger(),
	}
	if b.name == "" {
		fail(ErrInvalidName, "empty pipeline name")
	}
	if b.ctype == nil {
		fail(ErrInvalidValue, "nil command type")
		return pipeline
	}
	if b.ctype.New == nil {
		fail(ErrInvalidValue, "command type '%s' has no factory", b.ctype.Name)
		return pipeline
	}
	sample := b.ctype.New()
	if sample == nil {
		fail(ErrInvalidValue, "command type '%s' factory returned nil", b.ctype.Name)
		return pipeline
	}

	pipeline.options = b.buildOptions(sample, fail)
	pipeline.positionals = b.buildPositionals(sample, fail)

	var (
		types  = make(map[*CommandType]bool)
		tnames = make(map[string]bool)
	)
	for _, sub := range b.subcommands {
		if sub.name == "" {
			fail(ErrInvalidName, "empty subcommand label")
			continue
		}
		if _, exists := pipeline.children.Get(sub.name); exists {
			fail(ErrDuplicateName, "subcommand label '%s'", sub.name)
			continue
		}
		if sub.ctype != nil {
			if types[sub.ctype] || tnames[sub.ctype.Name] {
				fail(ErrDuplicateName, "subcommand command type '%s'", sub.ctype.Name)
			}
			types[sub.ctype] = true
			tnames[sub.ctype.Name] = true
		}
		child := sub.build(errs)
		child.parent = pipeline
		pipeline.children.Set(sub.name, child)
	}

	if len(b.subcommands) > 0 {
		for _, pos := range pipeline.positionals {
			if pos.Unlimited() {
				fail(ErrInvalidArity, "subcommands not supported with unlimited positional '%s'", pos.Name)
			}
		}
	}

	return pipeline
}

// scope returns the name of the built pipeline for error messages.
func (b *Builder) scope() string {
	if b.ctype != nil && b.ctype.Name != "" {
		return "cmdpipe: " + b.name + " (" + b.ctype.Name + ")"
	}
	return "cmdpipe: " + b.name
}

// buildOptions resolves option declarations of the command type.
func (b *Builder) buildOptions(sample Command, fail func(error, string, ...interface{})) []*Option {
	var (
		options = make([]*Option, 0, len(b.ctype.Options))
		names   = make(map[string]bool)
	)
	for i, decl := range b.ctype.Options {
		if decl == nil {
			fail(ErrInvalidValue, "nil option at index %d", i)
			continue
		}
		opt := *decl
		if len(opt.Names) == 0 {
			fail(ErrInvalidName, "option at index %d has no names", i)
			continue
		}
		for _, name := range opt.Names {
			if len(name) <= len(OptionPrefix) || !isOption(name) {
				fail(ErrInvalidName, "option name '%s' must start with '%s'", name, OptionPrefix)
			}
			if names[name] {
				fail(ErrDuplicateName, "option name '%s'", name)
			}
			names[name] = true
		}
		if opt.StoreTrue && opt.StoreFalse {
			fail(ErrInvalidValue, "option '%s' is both store true and store false", opt.DisplayName())
		}
		if !b.resolve(&opt.Param, opt.DisplayName(), sample, fail) {
			continue
		}
		if opt.IsFlag() && opt.typ.Kind() != reflect.Bool {
			fail(ErrInvalidValue, "flag option '%s' must target a boolean, not %s", opt.DisplayName(), opt.typ)
		}
		options = append(options, &opt)
	}
	return options
}

// buildPositionals resolves positional declarations of the command type.
func (b *Builder) buildPositionals(sample Command, fail func(error, string, ...interface{})) []*Positional {
	var (
		positionals = make([]*Positional, 0, len(b.ctype.Positionals))
		names       = make(map[string]bool)
		unlimited   string
	)
	for i, decl := range b.ctype.Positionals {
		if decl == nil {
			fail(ErrInvalidValue, "nil positional at index %d", i)
			continue
		}
		pos := *decl
		if pos.Name == "" {
			fail(ErrInvalidName, "positional at index %d has no name", i)
		} else if names[pos.Name] {
			fail(ErrDuplicateName, "positional name '%s'", pos.Name)
		}
		names[pos.Name] = true
		if unlimited != "" {
			fail(ErrInvalidArity, "positional '%s' follows unlimited positional '%s'", pos.Name, unlimited)
		}
		if pos.Unlimited() {
			unlimited = pos.Name
		}
		if !b.resolve(&pos.Param, pos.Name, sample, fail) {
			continue
		}
		positionals = append(positionals, &pos)
	}
	return positionals
}

// resolve resolves the target type of p using sample, registers its enum
// parser if needed and verifies the type is supported.
func (b *Builder) resolve(p *Param, name string, sample Command, fail func(error, string, ...interface{})) bool {
	if p.Field == nil {
		fail(ErrInvalidValue, "parameter '%s' has no field", name)
		return false
	}
	target := reflect.ValueOf(p.Field(sample))
	if !target.IsValid() || target.Kind() != reflect.Ptr || target.IsNil() {
		fail(ErrInvalidValue, "parameter '%s' field is not a valid pointer", name)
		return false
	}
	p.typ = target.Type().Elem()
	p.reg = b.registry

	enum := p.typ
	if enum.Kind() == reflect.Slice {
		enum = enum.Elem()
	}
	if err := b.registry.registerEnumIfAbsent(enum); err != nil {
		fail(err, "parameter '%s'", name)
		return false
	}
	if _, err := b.registry.Get(p.typ); err != nil {
		fail(err, "parameter '%s'", name)
		return false
	}
	return true
}
