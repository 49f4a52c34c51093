package cmdpipe

import (
	"reflect"
	"strings"
)

// OptionPrefix marks an argument as an option.
const OptionPrefix = "-"

// Field returns a pointer to a parameter's target value inside cmd.
//
// It is the write capability of a parameter declaration: the parser of the
// target type writes parsed values through the returned pointer.
type Field func(cmd Command) interface{}

// FieldOf returns a Field from a typed accessor, for example:
//
//	cmdpipe.FieldOf(func(c *listCmd) *bool { return &c.All })
func FieldOf[C Command, T any](f func(C) *T) Field {
	return func(cmd Command) interface{} { return f(cmd.(C)) }
}

// Param holds declaration fields shared by options and positionals.
type Param struct {
	// Symbol is the value placeholder shown in help.
	Symbol string
	// Desc is the help text.
	Desc string
	// Complete produces value completions. If nil, DefaultCompleter is used.
	Complete Completer
	// Field is the parameter write capability.
	Field Field

	// typ is the target value type, resolved at build time.
	typ reflect.Type
	// reg is the registry of the pipeline owning the parameter.
	reg *Registry
}

// ValueType returns the target value type.
func (p *Param) ValueType() reflect.Type { return p.typ }

// Target returns the pointer to the parameter target inside cmd.
func (p *Param) Target(cmd Command) interface{} { return p.Field(cmd) }

// Parser returns the value parser for the parameter target type.
func (p *Param) Parser() (ValueParser, error) { return p.reg.Get(p.typ) }

// Completer returns the parameter Completer.
func (p *Param) Completer() Completer {
	if p.Complete != nil {
		return p.Complete
	}
	return DefaultCompleter{}
}

// Parameter is the read-only view of a resolved option or positional
// consumed by value parsers, completers and help formatters.
type Parameter interface {
	// DisplayName returns the name the parameter is reported under.
	DisplayName() string
	// Arity returns the positional nargs, or -1 for options.
	Arity() int
	// ValueType returns the target value type.
	ValueType() reflect.Type
	// Target returns the pointer to the parameter target inside cmd.
	Target(cmd Command) interface{}
	// Parser returns the value parser for ValueType.
	Parser() (ValueParser, error)
	// Completer returns the value completer.
	Completer() Completer
}

// Option declares a named, prefixed parameter.
type Option struct {
	Param
	// Names are the exact option names including the prefix, e.g. "-v",
	// "--verbose". At least one is required.
	Names []string
	// Required options must be given at least once.
	Required bool
	// Repeatable options may be given more than once.
	Repeatable bool
	// StoreTrue makes the option a flag that writes true.
	StoreTrue bool
	// StoreFalse makes the option a flag that writes false.
	StoreFalse bool
	// SkipParsing options immediately execute the command when parsed,
	// ignoring any remaining arguments and checks.
	SkipParsing bool
}

// DisplayName returns the last of the option names.
func (o *Option) DisplayName() string {
	if len(o.Names) == 0 {
		return ""
	}
	return o.Names[len(o.Names)-1]
}

// Arity returns -1.
func (o *Option) Arity() int { return -1 }

// IsFlag reports if the option stores a constant and takes no value.
func (o *Option) IsFlag() bool { return o.StoreTrue || o.StoreFalse }

// ValueSymbol returns Symbol or the upper cased display name stripped of
// prefixes if Symbol is empty.
func (o *Option) ValueSymbol() string {
	if o.Symbol != "" {
		return o.Symbol
	}
	return strings.ToUpper(strings.TrimLeft(o.DisplayName(), OptionPrefix))
}

// hasName reports if name is one of option names.
func (o *Option) hasName(name string) bool {
	for _, n := range o.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Positional declares an unnamed parameter consumed in declaration order.
type Positional struct {
	Param
	// Name identifies the positional in errors and help.
	Name string
	// Nargs is the positional arity: N > 0 consumes exactly N arguments,
	// 0 consumes none and N < 0 consumes all remaining arguments which
	// must number at least -N.
	Nargs int
}

// DisplayName returns Name.
func (p *Positional) DisplayName() string { return p.Name }

// Arity returns Nargs.
func (p *Positional) Arity() int { return p.Nargs }

// Unlimited reports if the positional consumes all remaining arguments.
func (p *Positional) Unlimited() bool { return p.Nargs < 0 }

// ValueSymbol returns Symbol or Name if Symbol is empty.
func (p *Positional) ValueSymbol() string {
	if p.Symbol != "" {
		return p.Symbol
	}
	return p.Name
}

// elemParam presents a list parameter as its element type to the element
// value parser.
type elemParam struct {
	Parameter
	typ reflect.Type
	reg *Registry
}

// ValueType returns the element type.
func (e elemParam) ValueType() reflect.Type { return e.typ }

// Parser returns the parser of the element type.
func (e elemParam) Parser() (ValueParser, error) { return e.reg.Get(e.typ) }
