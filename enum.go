package cmdpipe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Enumerable is implemented by enumerated value types.
//
// EnumValues returns every constant of the implementing type. The String
// form of each constant is its case-insensitive command line name.
//
// Pipelines register an *EnumParser for every Enumerable parameter type
// they are built with unless a parser for that type is already registered.
type Enumerable interface {
	EnumValues() []fmt.Stringer
}

// enumerableType is the reflect.Type of Enumerable.
var enumerableType = reflect.TypeOf((*Enumerable)(nil)).Elem()

// enumerableOf returns the Enumerable zero value of t if t implements it.
func enumerableOf(t reflect.Type) (Enumerable, bool) {
	if t == nil || !t.Implements(enumerableType) {
		return nil, false
	}
	if t.Kind() == reflect.Interface {
		return nil, false
	}
	e, ok := reflect.Zero(t).Interface().(Enumerable)
	return e, ok
}

// errEmptyEnum is returned by NewEnumParser when given no values.
var errEmptyEnum = errors.New("cmdpipe: enum has no values")

// EnumParser parses lower cased constant names of one enumerated type
// case-insensitively.
type EnumParser struct {
	// typ is the enumerated type.
	typ reflect.Type
	// names holds lower cased names in order as given.
	names []string
	// values maps a lower cased name to its constant.
	values map[string]reflect.Value
}

// NewEnumParser returns a new *EnumParser for values which must all be of
// the same type and have distinct names.
func NewEnumParser(values ...fmt.Stringer) (*EnumParser, error) {
	if len(values) == 0 {
		return nil, errEmptyEnum
	}
	ep := &EnumParser{
		typ:    reflect.TypeOf(values[0]),
		values: make(map[string]reflect.Value, len(values)),
	}
	for _, value := range values {
		if t := reflect.TypeOf(value); t != ep.typ {
			return nil, fmt.Errorf("%w: enum value %v is %s, expected %s", ErrInvalidValue, value, t, ep.typ)
		}
		name := strings.ToLower(value.String())
		if _, exists := ep.values[name]; exists {
			return nil, fmt.Errorf("%w: enum value '%s'", ErrDuplicateName, name)
		}
		ep.values[name] = reflect.ValueOf(value)
		ep.names = append(ep.names, name)
	}
	return ep, nil
}

// Type returns the enumerated type.
func (ep *EnumParser) Type() reflect.Type { return ep.typ }

// Names returns the lower cased constant names in order as registered.
func (ep *EnumParser) Names() []string { return append([]string(nil), ep.names...) }

// Parse implements ValueParser.
func (ep *EnumParser) Parse(p Parameter, raw string) (interface{}, error) {
	value, ok := ep.values[strings.ToLower(raw)]
	if !ok {
		return nil, fmt.Errorf("expected enum %s but received \"%s\"", p.DisplayName(), raw)
	}
	return value.Interface(), nil
}

// Write implements ValueParser.
func (ep *EnumParser) Write(p Parameter, target, value interface{}) error {
	return setValue(target, value)
}

// Help implements ValueParser.
func (ep *EnumParser) Help(p Parameter) string {
	return "choice: " + strings.Join(ep.names, ", ")
}
