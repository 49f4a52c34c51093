package cmdpipe

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// structCmd has a target of a type no parser supports.
type structCmd struct {
	Point struct{ X, Y int }
}

func (c *structCmd) Execute(ctx *Context) (interface{}, error) { return nil, nil }

// optionsWith returns a command type of optionsCmd declaring options.
func optionsWith(options ...*Option) *CommandType {
	return &CommandType{
		Name:    "invalid",
		New:     func() Command { return &optionsCmd{} },
		Options: options,
	}
}

// positionalsWith returns a command type of positionalCmd declaring
// positionals.
func positionalsWith(positionals ...*Positional) *CommandType {
	return &CommandType{
		Name:        "invalid",
		New:         func() Command { return &positionalCmd{} },
		Positionals: positionals,
	}
}

var (
	testField = FieldOf(func(c *optionsCmd) *string { return &c.Test })
	flagField = FieldOf(func(c *optionsCmd) *bool { return &c.T })
	listField = FieldOf(func(c *positionalCmd) *[]int { return &c.Repeated })
)

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
		want  error
	}{
		{"empty name", func() *Builder {
			return NewBuilder(optionsType, "")
		}, ErrInvalidName},
		{"nil command type", func() *Builder {
			return NewBuilder(nil, "test")
		}, ErrInvalidValue},
		{"nil factory", func() *Builder {
			return NewBuilder(&CommandType{Name: "nofactory"}, "test")
		}, ErrInvalidValue},
		{"nil instance", func() *Builder {
			return NewBuilder(&CommandType{Name: "nil", New: func() Command { return nil }}, "test")
		}, ErrInvalidValue},
		{"nil option", func() *Builder {
			return NewBuilder(optionsWith(nil), "test")
		}, ErrInvalidValue},
		{"option without names", func() *Builder {
			return NewBuilder(optionsWith(&Option{Param: Param{Field: testField}}), "test")
		}, ErrInvalidName},
		{"unprefixed option name", func() *Builder {
			return NewBuilder(optionsWith(&Option{Names: []string{"s"}, Param: Param{Field: testField}}), "test")
		}, ErrInvalidName},
		{"prefix only option name", func() *Builder {
			return NewBuilder(optionsWith(&Option{Names: []string{"-"}, Param: Param{Field: testField}}), "test")
		}, ErrInvalidName},
		{"duplicate option name", func() *Builder {
			return NewBuilder(optionsWith(
				&Option{Names: []string{"-s", "--string"}, Param: Param{Field: testField}},
				&Option{Names: []string{"-t", "-s"}, StoreTrue: true, Param: Param{Field: flagField}},
			), "test")
		}, ErrDuplicateName},
		{"store true and false", func() *Builder {
			return NewBuilder(optionsWith(&Option{Names: []string{"-t"}, StoreTrue: true, StoreFalse: true, Param: Param{Field: flagField}}), "test")
		}, ErrInvalidValue},
		{"flag on string", func() *Builder {
			return NewBuilder(optionsWith(&Option{Names: []string{"-s"}, StoreTrue: true, Param: Param{Field: testField}}), "test")
		}, ErrInvalidValue},
		{"nil field", func() *Builder {
			return NewBuilder(optionsWith(&Option{Names: []string{"-s"}}), "test")
		}, ErrInvalidValue},
		{"nil field pointer", func() *Builder {
			return NewBuilder(optionsWith(&Option{Names: []string{"-s"}, Param: Param{Field: func(Command) interface{} { return nil }}}), "test")
		}, ErrInvalidValue},
		{"unsupported type", func() *Builder {
			return NewBuilder(&CommandType{
				Name: "struct",
				New:  func() Command { return &structCmd{} },
				Options: []*Option{
					{Names: []string{"-p"}, Param: Param{Field: FieldOf(func(c *structCmd) *struct{ X, Y int } { return &c.Point })}},
				},
			}, "test")
		}, ErrUnsupportedValueType},
		{"positional without name", func() *Builder {
			return NewBuilder(positionalsWith(&Positional{Nargs: 1, Param: Param{Field: listField}}), "test")
		}, ErrInvalidName},
		{"duplicate positional name", func() *Builder {
			return NewBuilder(positionalsWith(
				&Positional{Name: "n", Nargs: 1, Param: Param{Field: listField}},
				&Positional{Name: "n", Nargs: 1, Param: Param{Field: listField}},
			), "test")
		}, ErrDuplicateName},
		{"positional after unlimited", func() *Builder {
			return NewBuilder(positionalsWith(
				&Positional{Name: "all", Nargs: -1, Param: Param{Field: listField}},
				&Positional{Name: "more", Nargs: -1, Param: Param{Field: listField}},
			), "test")
		}, ErrInvalidArity},
		{"unlimited with subcommands", func() *Builder {
			b := NewBuilder(positionalType, "test")
			b.AddSubcommand(newEmptyType("sub"), "sub")
			return b
		}, ErrInvalidArity},
		{"empty label", func() *Builder {
			b := NewBuilder(newEmptyType("root"), "test")
			b.AddSubcommand(newEmptyType("sub"), "")
			return b
		}, ErrInvalidName},
		{"duplicate label", func() *Builder {
			b := NewBuilder(newEmptyType("root"), "test")
			b.AddSubcommand(newEmptyType("a"), "sub")
			b.AddSubcommand(newEmptyType("b"), "sub")
			return b
		}, ErrDuplicateName},
		{"duplicate sibling type", func() *Builder {
			b := NewBuilder(newEmptyType("root"), "test")
			sub := newEmptyType("sub")
			b.AddSubcommand(sub, "a")
			b.AddSubcommand(sub, "b")
			return b
		}, ErrDuplicateName},
		{"duplicate sibling type name", func() *Builder {
			b := NewBuilder(newEmptyType("root"), "test")
			b.AddSubcommand(newEmptyType("sub"), "a")
			b.AddSubcommand(newEmptyType("sub"), "b")
			return b
		}, ErrDuplicateName},
		{"invalid grandchild", func() *Builder {
			b := NewBuilder(newEmptyType("root"), "test")
			b.AddSubcommand(newEmptyType("sub"), "sub").AddSubcommand(optionsWith(nil), "leaf")
			return b
		}, ErrInvalidValue},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pipeline, err := test.build().Build()
			assert.Nil(t, pipeline)
			assert.ErrorIs(t, err, ErrInvalidSchema)
			assert.ErrorIs(t, err, test.want)
		})
	}
}

func TestBuildAggregatesErrors(t *testing.T) {
	b := NewBuilder(optionsWith(
		&Option{Names: []string{"s"}, Param: Param{Field: testField}},
		&Option{Names: []string{"-t"}, StoreTrue: true, StoreFalse: true, Param: Param{Field: flagField}},
	), "test")
	b.AddSubcommand(newEmptyType("a"), "")

	_, err := b.Build()
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 3)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestMustBuildPanics(t *testing.T) {
	assert.Panics(t, func() { NewBuilder(nil, "test").MustBuild() })
}

func TestBuildTree(t *testing.T) {
	var (
		root  = newEmptyType("root")
		alpha = newEmptyType("alpha")
		beta  = newEmptyType("beta")
		gamma = newEmptyType("gamma")
		b     = NewBuilder(root, "prog")
	)
	b.AddSubcommand(beta, "b")
	b.AddSubcommand(alpha, "a").AddSubcommand(gamma, "g")
	// The same type may appear in separate branches.
	b.AddSubcommand(newEmptyType("other"), "o").AddSubcommand(gamma, "g")

	p, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "prog", p.Name())
	assert.Equal(t, root, p.Type())
	assert.Nil(t, p.Parent())
	assert.Equal(t, []string{"a", "b", "o"}, p.Labels())

	children := p.Children()
	require.Len(t, children, 3)
	assert.Equal(t, alpha, children[0].Type())
	assert.Equal(t, beta, children[1].Type())

	a, ok := p.Child("a")
	require.True(t, ok)
	g, ok := a.Child("g")
	require.True(t, ok)
	assert.Equal(t, gamma, g.Type())
	assert.Equal(t, a, g.Parent())
	assert.Equal(t, []*Pipeline{p, a}, g.Parents())
	assert.Equal(t, "prog a g", g.Path())
	assert.Equal(t, p.Registry(), g.Registry())

	_, ok = p.Child("g")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, p.labelsWithPrefix("a"))
	assert.Equal(t, []string{}, p.labelsWithPrefix("x"))
}

func TestBuildResolvesParameters(t *testing.T) {
	p := mustBuild(enumType)

	options := p.Options()
	require.Len(t, options, 1)
	assert.Equal(t, reflect.TypeOf(enumFirst), options[0].ValueType())
	// Declarations are copied, not resolved in place.
	assert.Nil(t, enumType.Options[0].ValueType())

	positionals := p.Positionals()
	require.Len(t, positionals, 1)
	assert.Equal(t, reflect.TypeOf([]myEnum(nil)), positionals[0].ValueType())

	parser, ok := p.Registry().custom[reflect.TypeOf(enumFirst)]
	require.True(t, ok, "enum parser registered at build")
	assert.IsType(t, &EnumParser{}, parser)
}

func TestBuildSharedRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterEnum(enumFirst, enumThird))

	p, err := NewBuilder(enumType, "test", WithRegistry(r)).Build()
	require.NoError(t, err)
	assert.Same(t, r, p.Registry())

	_, err = p.Execute(nil, []string{"-v", "second", "first", "third"})
	assert.ErrorIs(t, err, ErrValueParse)
}
