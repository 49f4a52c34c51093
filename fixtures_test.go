package cmdpipe

import (
	"bytes"
	"fmt"
	"strings"
)

// optionsCmd declares one option of every kind.
type optionsCmd struct {
	T        bool
	F        bool
	Test     string
	Repeated []int
}

func (c *optionsCmd) Execute(ctx *Context) (interface{}, error) { return ctx, nil }

var optionsType = &CommandType{
	Name: "options",
	New:  func() Command { return &optionsCmd{F: true} },
	Options: []*Option{
		{Names: []string{"-t"}, StoreTrue: true, Param: Param{Field: FieldOf(func(c *optionsCmd) *bool { return &c.T })}},
		{Names: []string{"-f"}, StoreFalse: true, Param: Param{Field: FieldOf(func(c *optionsCmd) *bool { return &c.F })}},
		{Names: []string{"-s"}, Param: Param{Field: FieldOf(func(c *optionsCmd) *string { return &c.Test })}},
		{Names: []string{"-r"}, Repeatable: true, Param: Param{Field: FieldOf(func(c *optionsCmd) *[]int { return &c.Repeated })}},
	},
}

// positionalCmd declares fixed and unlimited positionals.
type positionalCmd struct {
	First    bool
	Second   bool
	Vector   []float32
	Repeated []int
}

func (c *positionalCmd) Execute(ctx *Context) (interface{}, error) { return ctx, nil }

var positionalType = &CommandType{
	Name: "positional",
	New:  func() Command { return &positionalCmd{Second: true} },
	Positionals: []*Positional{
		{Name: "first", Nargs: 1, Param: Param{Field: FieldOf(func(c *positionalCmd) *bool { return &c.First })}},
		{Name: "second", Nargs: 1, Param: Param{Field: FieldOf(func(c *positionalCmd) *bool { return &c.Second })}},
		{Name: "vector", Nargs: 3, Param: Param{Field: FieldOf(func(c *positionalCmd) *[]float32 { return &c.Vector })}},
		{Name: "repeated", Nargs: -1, Param: Param{Symbol: "N", Field: FieldOf(func(c *positionalCmd) *[]int { return &c.Repeated })}},
	},
}

// myEnum is an Enumerable test type.
type myEnum int

const (
	enumFirst myEnum = iota
	enumSecond
	enumThird
)

func (e myEnum) String() string {
	switch e {
	case enumFirst:
		return "FIRST"
	case enumSecond:
		return "SECOND"
	case enumThird:
		return "THIRD"
	}
	return fmt.Sprintf("myEnum(%d)", int(e))
}

func (myEnum) EnumValues() []fmt.Stringer {
	return []fmt.Stringer{enumFirst, enumSecond, enumThird}
}

// enumCmd declares enum option and list positional.
type enumCmd struct {
	Value myEnum
	Rest  []myEnum
}

func (c *enumCmd) Execute(ctx *Context) (interface{}, error) { return ctx, nil }

var enumType = &CommandType{
	Name: "enum",
	New:  func() Command { return &enumCmd{} },
	Options: []*Option{
		{Names: []string{"-v"}, Param: Param{Field: FieldOf(func(c *enumCmd) *myEnum { return &c.Value })}},
	},
	Positionals: []*Positional{
		{Name: "rest", Nargs: 2, Param: Param{Field: FieldOf(func(c *enumCmd) *[]myEnum { return &c.Rest })}},
	},
}

// helpedCmd writes help to the *bytes.Buffer passed as data.
type helpedCmd struct {
	Help  bool
	Flag  bool
	Value string
	Wow   []string
}

func (c *helpedCmd) Execute(ctx *Context) (interface{}, error) {
	if c.Help {
		return nil, ShowHelp(ctx, c, ctx.Data().(*bytes.Buffer))
	}
	return ctx, nil
}

func helpedOptions() []*Option {
	return []*Option{
		{Names: []string{"-f", "--flag"}, StoreTrue: true, Param: Param{Field: FieldOf(func(c *helpedCmd) *bool { return &c.Flag })}},
		{Names: []string{"-v"}, Param: Param{Symbol: "VALUE", Desc: "Some description.", Field: FieldOf(func(c *helpedCmd) *string { return &c.Value })}},
		HelpOption(FieldOf(func(c *helpedCmd) *bool { return &c.Help })),
	}
}

var helpedType = &CommandType{
	Name:    "helped",
	Usage:   "Test command description.",
	New:     func() Command { return &helpedCmd{} },
	Options: helpedOptions(),
	Positionals: []*Positional{
		{Name: "wow", Nargs: 1, Param: Param{Symbol: "N", Desc: "Positional argument description.", Field: FieldOf(func(c *helpedCmd) *[]string { return &c.Wow })}},
	},
}

// requiredCmd declares required options and a help option.
type requiredCmd struct {
	Help  bool
	Alpha string
	Beta  int
	Gamma bool
	Delta string
}

func (c *requiredCmd) Execute(ctx *Context) (interface{}, error) {
	if c.Help {
		return "help", nil
	}
	return ctx, nil
}

var requiredType = &CommandType{
	Name: "required",
	New:  func() Command { return &requiredCmd{} },
	Options: []*Option{
		HelpOption(FieldOf(func(c *requiredCmd) *bool { return &c.Help })),
		{Names: []string{"-a", "--alpha"}, Required: true, Param: Param{Field: FieldOf(func(c *requiredCmd) *string { return &c.Alpha })}},
		{Names: []string{"-b", "--beta"}, Required: true, Param: Param{Field: FieldOf(func(c *requiredCmd) *int { return &c.Beta })}},
		{Names: []string{"-g", "--gamma"}, Required: true, StoreTrue: true, Param: Param{Field: FieldOf(func(c *requiredCmd) *bool { return &c.Gamma })}},
		{Names: []string{"-d"}, Param: Param{Field: FieldOf(func(c *requiredCmd) *string { return &c.Delta })}},
	},
}

// emptyCmd has no parameters and returns the context.
type emptyCmd struct{}

func (c *emptyCmd) Execute(ctx *Context) (interface{}, error) { return ctx, nil }

// newEmptyType returns a new parameterless command type.
func newEmptyType(name string) *CommandType {
	return &CommandType{
		Name: name,
		New:  func() Command { return &emptyCmd{} },
	}
}

// wrapperCmd records delegation around its subcommand.
type wrapperCmd struct {
	Name string
}

func (c *wrapperCmd) Execute(ctx *Context) (interface{}, error) { return "root", nil }

func (c *wrapperCmd) ExecuteNext(ctx *Context, current, next *Pipeline, label string, args *Tokenizer) (interface{}, error) {
	log := ctx.Data().(*[]string)
	*log = append(*log, "before "+label+" "+c.Name)
	result, err := next.ExecuteContext(ctx, label, args)
	*log = append(*log, "after "+label)
	return result, err
}

var wrapperType = &CommandType{
	Name: "wrapper",
	New:  func() Command { return &wrapperCmd{} },
	Options: []*Option{
		{Names: []string{"-n", "--name"}, Param: Param{Field: FieldOf(func(c *wrapperCmd) *string { return &c.Name })}},
	},
}

// leafCmd takes a single word and records it.
type leafCmd struct {
	Word string
}

func (c *leafCmd) Execute(ctx *Context) (interface{}, error) {
	log := ctx.Data().(*[]string)
	*log = append(*log, "leaf "+strings.ToUpper(c.Word))
	return c.Word, nil
}

var leafType = &CommandType{
	Name: "leaf",
	New:  func() Command { return &leafCmd{} },
	Positionals: []*Positional{
		{Name: "word", Nargs: 1, Param: Param{Field: FieldOf(func(c *leafCmd) *string { return &c.Word })}},
	},
}

// mustBuild builds a single pipeline of ct named "test".
func mustBuild(ct *CommandType) *Pipeline {
	return NewBuilder(ct, "test").MustBuild()
}
