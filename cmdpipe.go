// Package cmdpipe implements a declarative command line parser.
//
// A command line schema is declared as a tree of CommandType descriptors,
// each listing its Options and Positionals, and built once by a Builder
// into a tree of immutable Pipeline nodes. A Pipeline is executed with a
// slice of command line arguments, usually os.Args[1:]:
//
//	result, err := pipeline.Execute(data, os.Args[1:])
//
// For every visited Pipeline a fresh Command instance is created by the
// CommandType factory, options and positionals are parsed into it and
// either the Command is executed or, if arguments remain, the next argument
// selects a child Pipeline that execution is delegated to.
//
// The accepted grammar is:
//
//	<prog> [options] [positional...] [subcommand ...]
//
// Options start with OptionPrefix, are matched by exact name and may be
// given in any order before positionals. An option either takes exactly
// one value argument or is a flag that stores a constant. Options can be
// required, repeatable or skip-parsing, the latter executing the command
// immediately, as is the case with help options.
//
// Positionals are consumed in order as declared after options. A
// positional consumes a fixed number of arguments, none at all, or every
// remaining argument, see Positional.Nargs. A Pipeline whose last
// positional consumes every remaining argument cannot have children.
//
// Argument text is converted to parameter values by ValueParser instances
// held in a Registry.
//
// Pipelines can also complete a partial command line for shell
// integration, see Pipeline.Complete.
//
// There is no "--" separator, no combining of short flags and no
// "--name=value" syntax.
package cmdpipe

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/btree"
)

// Command is a command instance created per execution by a CommandType
// factory. Parameter values are written into it before Execute is called.
//
// Command implementations should be pointers.
type Command interface {
	// Execute is called when all arguments addressed to the command were
	// parsed and no subcommand follows, or a skip-parsing option was
	// given. Its result is returned to the caller of the pipeline.
	Execute(ctx *Context) (interface{}, error)
}

// Delegator is optionally implemented by a Command to wrap execution of a
// subcommand.
//
// ExecuteNext is called instead of Execute when a subcommand label follows
// the command arguments. It must invoke next.ExecuteContext(ctx, label,
// args) to continue execution and return its result. Commands not
// implementing Delegator delegate directly.
type Delegator interface {
	ExecuteNext(ctx *Context, current, next *Pipeline, label string, args *Tokenizer) (interface{}, error)
}

// CommandType describes a command: its identity, factory and parameters.
type CommandType struct {
	// Name identifies the command type.
	Name string
	// Usage is the command description shown in help.
	Usage string
	// New returns a new Command instance with default values set.
	New func() Command
	// Options are the command options.
	Options []*Option
	// Positionals are the command positionals, in order as consumed.
	Positionals []*Positional
}

// Pipeline is a node in a command tree. It is created by a Builder and is
// immutable, so a single Pipeline can be executed from multiple goroutines
// each with its own Tokenizer and Context.
type Pipeline struct {
	// registry is the parser registry shared by the whole tree.
	registry *Registry
	// ctype is the pipeline command type.
	ctype *CommandType
	// name is the label this pipeline is registered under in its parent
	// or the program name for the root.
	name string
	// options are the resolved command options.
	options []*Option
	// positionals are the resolved command positionals.
	positionals []*Positional
	// children maps a label to child pipeline.
	children btree.Map[string, *Pipeline]
	// parent is the parent pipeline or nil for the root.
	parent *Pipeline
	// logger is the pipeline logger.
	logger zerolog.Logger
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string { return p.name }

// Type returns the pipeline command type.
func (p *Pipeline) Type() *CommandType { return p.ctype }

// Usage returns the command type usage text.
func (p *Pipeline) Usage() string { return p.ctype.Usage }

// Registry returns the pipeline value parser registry.
func (p *Pipeline) Registry() *Registry { return p.registry }

// Options returns the pipeline options in order as declared.
func (p *Pipeline) Options() []*Option { return append([]*Option(nil), p.options...) }

// Positionals returns the pipeline positionals in order as declared.
func (p *Pipeline) Positionals() []*Positional {
	return append([]*Positional(nil), p.positionals...)
}

// Children returns child pipelines sorted by label.
func (p *Pipeline) Children() (children []*Pipeline) {
	p.children.Scan(func(_ string, child *Pipeline) bool {
		children = append(children, child)
		return true
	})
	return
}

// Child returns the child pipeline registered under label and truth if it
// exists.
func (p *Pipeline) Child(label string) (*Pipeline, bool) { return p.children.Get(label) }

// Labels returns child labels sorted.
func (p *Pipeline) Labels() []string { return p.children.Keys() }

// Parent returns the parent pipeline or nil if p is the root.
func (p *Pipeline) Parent() *Pipeline { return p.parent }

// Parents returns all parents of p starting with the root.
func (p *Pipeline) Parents() (parents []*Pipeline) {
	for parent := p.parent; parent != nil; parent = parent.parent {
		parents = append([]*Pipeline{parent}, parents...)
	}
	return
}

// Path returns names of all parents and p joined by a space.
func (p *Pipeline) Path() string {
	var names []string
	for _, parent := range p.Parents() {
		names = append(names, parent.name)
	}
	return strings.Join(append(names, p.name), " ")
}

// option returns the option having name or nil if not found.
func (p *Pipeline) option(name string) *Option {
	for _, opt := range p.options {
		if opt.hasName(name) {
			return opt
		}
	}
	return nil
}

// isOption reports if arg is addressing an option.
func isOption(arg string) bool { return strings.HasPrefix(arg, OptionPrefix) }

// labelsWithPrefix returns sorted child labels starting with prefix.
func (p *Pipeline) labelsWithPrefix(prefix string) []string {
	labels := []string{}
	p.children.Ascend(prefix, func(label string, _ *Pipeline) bool {
		if !strings.HasPrefix(label, prefix) {
			return false
		}
		labels = append(labels, label)
		return true
	})
	return labels
}
