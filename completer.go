package cmdpipe

import (
	"reflect"
	"strings"
)

// Completer produces completion suggestions for a parameter value.
type Completer interface {
	// Complete returns suggestions for the partial value arg of p or nil
	// if no suggestions can be made.
	Complete(ctx *Context, p Parameter, arg string) []string
}

// CompleterFunc adapts a function to a Completer.
type CompleterFunc func(ctx *Context, p Parameter, arg string) []string

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx *Context, p Parameter, arg string) []string {
	return f(ctx, p, arg)
}

// DefaultCompleter suggests enum names, boolean literals and a zero for
// integers, each filtered by prefix arg. List parameters are completed by
// their element type.
type DefaultCompleter struct{}

// Complete implements Completer.
func (DefaultCompleter) Complete(ctx *Context, p Parameter, arg string) []string {
	all := possibilities(p)
	if all == nil {
		return nil
	}
	out := []string{}
	for _, s := range all {
		if strings.HasPrefix(s, arg) {
			out = append(out, s)
		}
	}
	return out
}

// possibilities returns all values a parameter accepts if they can be
// enumerated.
func possibilities(p Parameter) []string {
	t := p.ValueType()
	if t == nil {
		return nil
	}
	parser, err := p.Parser()
	if err != nil {
		return nil
	}
	if ep, ok := parser.(*EnumParser); ok {
		return ep.Names()
	}
	if lp, ok := parser.(listParser); ok {
		return possibilities(elemParam{Parameter: p, typ: t.Elem(), reg: lp.reg})
	}
	if t == charType {
		return nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return []string{"true", "false"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []string{"0"}
	}
	return nil
}
