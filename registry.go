package cmdpipe

import (
	"fmt"
	"reflect"
)

// ValueParser converts argument text to values of one type and writes them
// to parameter targets.
type ValueParser interface {
	// Parse converts raw to a value of p.ValueType().
	Parse(p Parameter, raw string) (interface{}, error)
	// Write stores value to target, a pointer to a p.ValueType() value.
	Write(p Parameter, target interface{}, value interface{}) error
	// Help returns a short description of accepted values or an empty
	// string.
	Help(p Parameter) string
}

// Registry maps value types to ValueParser instances.
//
// Registered parsers take precedence over built-in ones. Built-in parsers
// handle bool, integer, float and string kinds, Char, slices of any
// supported element type and types implementing Enumerable.
//
// Registration must complete before any pipeline using the Registry is
// executed; lookups are safe for concurrent use afterwards.
type Registry struct {
	// custom maps a type to a registered parser.
	custom map[reflect.Type]ValueParser
}

// NewRegistry returns a new *Registry.
func NewRegistry() *Registry {
	return &Registry{custom: make(map[reflect.Type]ValueParser)}
}

// Register registers parser for t, replacing any existing registration.
func (r *Registry) Register(t reflect.Type, parser ValueParser) {
	r.custom[t] = parser
}

// RegisterIfAbsent registers parser for t unless t already has a
// registered parser. Returns true if parser was registered.
func (r *Registry) RegisterIfAbsent(t reflect.Type, parser ValueParser) bool {
	if _, exists := r.custom[t]; exists {
		return false
	}
	r.custom[t] = parser
	return true
}

// RegisterEnum registers an *EnumParser for the type of values, replacing
// any existing registration.
func (r *Registry) RegisterEnum(values ...fmt.Stringer) error {
	ep, err := NewEnumParser(values...)
	if err != nil {
		return err
	}
	r.Register(ep.Type(), ep)
	return nil
}

// registerEnumIfAbsent registers an *EnumParser for t if t implements
// Enumerable and has no registered parser.
func (r *Registry) registerEnumIfAbsent(t reflect.Type) error {
	if _, exists := r.custom[t]; exists {
		return nil
	}
	e, ok := enumerableOf(t)
	if !ok {
		return nil
	}
	ep, err := NewEnumParser(e.EnumValues()...)
	if err != nil {
		return err
	}
	if ep.Type() != t {
		return fmt.Errorf("%w: %s enumerates values of type %s", ErrInvalidValue, t, ep.Type())
	}
	r.RegisterIfAbsent(t, ep)
	return nil
}

// Lookup returns the parser for t and truth if one is registered or built
// in.
func (r *Registry) Lookup(t reflect.Type) (ValueParser, bool) {
	if t == nil {
		return nil, false
	}
	if parser, ok := r.custom[t]; ok {
		return parser, true
	}
	if t == charType {
		return charParser{}, true
	}
	if e, ok := enumerableOf(t); ok {
		if ep, err := NewEnumParser(e.EnumValues()...); err == nil && ep.Type() == t {
			return ep, true
		}
		return nil, false
	}
	switch t.Kind() {
	case reflect.Bool:
		return boolParser{}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return scalarParser{}, true
	case reflect.String:
		return stringParser{}, true
	case reflect.Slice:
		if _, ok := r.Lookup(t.Elem()); ok {
			return listParser{r}, true
		}
	}
	return nil, false
}

// Get returns the parser for t or ErrUnsupportedValueType.
func (r *Registry) Get(t reflect.Type) (ValueParser, error) {
	if parser, ok := r.Lookup(t); ok {
		return parser, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedValueType, t)
}

// ParseInto parses raw using the parser of p and writes the result to the
// p target inside cmd. Conversion failures are returned as *ValueError.
func (r *Registry) ParseInto(p Parameter, cmd Command, raw string) error {
	parser, err := r.Get(p.ValueType())
	if err != nil {
		return err
	}
	value, err := parser.Parse(p, raw)
	if err != nil {
		return asValueError(p.ValueType(), raw, err)
	}
	return parser.Write(p, p.Target(cmd), value)
}

// asValueError returns err as a *ValueError for t and raw unless it already
// is one.
func asValueError(t reflect.Type, raw string, err error) error {
	if ve, ok := err.(*ValueError); ok {
		return ve
	}
	return &ValueError{Type: t, Raw: raw, Err: err}
}
