package cmdpipe

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/vedranvuk/strconvex"
)

// Char is a single character value. Targets of type Char accept exactly
// one character; targets of type rune are parsed as int32 numbers.
type Char rune

// charType is the reflect.Type of Char.
var charType = reflect.TypeOf(Char(0))

// setValue writes value to target which must be a non-nil pointer. value
// must be assignable to the target element or of the same kind so that no
// conversion across kinds, and no precision loss, can occur.
func setValue(target, value interface{}) error {
	dst := reflect.ValueOf(target)
	if !dst.IsValid() || dst.Kind() != reflect.Ptr || dst.IsNil() {
		return fmt.Errorf("%w: target %T is not a valid pointer", ErrInvalidValue, target)
	}
	dst = dst.Elem()
	src := reflect.ValueOf(value)
	if !src.IsValid() {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if src.Kind() == dst.Kind() && src.Type().ConvertibleTo(dst.Type()) {
		dst.Set(src.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("%w: cannot write %T to %s", ErrInvalidValue, value, dst.Type())
}

// boolParser parses "true" or "false" values.
type boolParser struct{}

// Parse implements ValueParser.
func (boolParser) Parse(p Parameter, raw string) (interface{}, error) {
	return parseScalar(p.ValueType(), raw)
}

// Write implements ValueParser.
func (boolParser) Write(p Parameter, target, value interface{}) error {
	return setValue(target, value)
}

// Help implements ValueParser.
func (boolParser) Help(p Parameter) string { return "boolean: true or false" }

// scalarParser parses integer and floating point values of any width.
type scalarParser struct{}

// Parse implements ValueParser.
func (scalarParser) Parse(p Parameter, raw string) (interface{}, error) {
	return parseScalar(p.ValueType(), raw)
}

// Write implements ValueParser.
func (scalarParser) Write(p Parameter, target, value interface{}) error {
	return setValue(target, value)
}

// Help implements ValueParser.
func (scalarParser) Help(p Parameter) string {
	switch p.ValueType().Kind() {
	case reflect.Int8:
		return "byte: 0"
	case reflect.Int16:
		return "short number: 0"
	case reflect.Int64:
		return "long number: 0"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "unsigned integer: 0"
	case reflect.Float32:
		return "float: 0.0"
	case reflect.Float64:
		return "double: 0.0"
	}
	return "integer: 0"
}

// parseScalar converts raw to a new value of type t. raw is parsed at the
// full width of the kind of t and rejected if it does not fit t.
func parseScalar(t reflect.Type, raw string) (interface{}, error) {
	var (
		v        reflect.Value
		overflow bool
	)
	switch t.Kind() {
	case reflect.Bool:
		var b bool
		if err := strconvex.StringToInterface(raw, &b); err != nil {
			return nil, err
		}
		v = reflect.ValueOf(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var i int64
		if err := strconvex.StringToInterface(raw, &i); err != nil {
			return nil, err
		}
		v, overflow = reflect.ValueOf(i), reflect.Zero(t).OverflowInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var u uint64
		if err := strconvex.StringToInterface(raw, &u); err != nil {
			return nil, err
		}
		v, overflow = reflect.ValueOf(u), reflect.Zero(t).OverflowUint(u)
	case reflect.Float32, reflect.Float64:
		var f float64
		if err := strconvex.StringToInterface(raw, &f); err != nil {
			return nil, err
		}
		v, overflow = reflect.ValueOf(f), reflect.Zero(t).OverflowFloat(f)
	default:
		return nil, fmt.Errorf("%w: %s is not a scalar type", ErrInvalidValue, t)
	}
	if overflow {
		return nil, fmt.Errorf("%w: %s overflows %s", strconv.ErrRange, raw, t)
	}
	return v.Convert(t).Interface(), nil
}

// stringParser returns arguments unmodified.
type stringParser struct{}

// Parse implements ValueParser.
func (stringParser) Parse(p Parameter, raw string) (interface{}, error) {
	if t := p.ValueType(); t != nil && t.Kind() == reflect.String {
		return reflect.ValueOf(raw).Convert(t).Interface(), nil
	}
	return raw, nil
}

// Write implements ValueParser.
func (stringParser) Write(p Parameter, target, value interface{}) error {
	return setValue(target, value)
}

// Help implements ValueParser.
func (stringParser) Help(p Parameter) string { return "any string" }

// errNotAChar is returned by charParser for arguments that are not exactly
// one character long.
var errNotAChar = errors.New("expected a single character")

// charParser parses single character arguments to Char.
type charParser struct{}

// Parse implements ValueParser.
func (charParser) Parse(p Parameter, raw string) (interface{}, error) {
	if utf8.RuneCountInString(raw) != 1 {
		return nil, errNotAChar
	}
	r, _ := utf8.DecodeRuneInString(raw)
	return Char(r), nil
}

// Write implements ValueParser.
func (charParser) Write(p Parameter, target, value interface{}) error {
	return setValue(target, value)
}

// Help implements ValueParser.
func (charParser) Help(p Parameter) string { return "character: 'a'" }

// listParser parses list elements using the element type parser and
// appends them to the target slice, allocating it on first write.
type listParser struct {
	reg *Registry
}

// elem returns p presented as its element type and the element parser.
func (l listParser) elem(p Parameter) (Parameter, ValueParser, error) {
	t := p.ValueType().Elem()
	parser, err := l.reg.Get(t)
	if err != nil {
		return nil, nil, err
	}
	return elemParam{Parameter: p, typ: t, reg: l.reg}, parser, nil
}

// Parse implements ValueParser.
func (l listParser) Parse(p Parameter, raw string) (interface{}, error) {
	ep, parser, err := l.elem(p)
	if err != nil {
		return nil, err
	}
	value, err := parser.Parse(ep, raw)
	if err != nil {
		return nil, asValueError(ep.ValueType(), raw, err)
	}
	return value, nil
}

// Write implements ValueParser. value is a single element. If p has a
// fixed arity the list may not grow past it.
func (l listParser) Write(p Parameter, target, value interface{}) error {
	dst := reflect.ValueOf(target)
	if !dst.IsValid() || dst.Kind() != reflect.Ptr || dst.IsNil() || dst.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: target %T is not a valid slice pointer", ErrInvalidValue, target)
	}
	list := dst.Elem()
	if n := p.Arity(); n > 0 && list.Len() >= n {
		return fmt.Errorf("%w: %s accepts %d", ErrTooManyValues, p.DisplayName(), n)
	}
	ep, parser, err := l.elem(p)
	if err != nil {
		return err
	}
	item := reflect.New(list.Type().Elem())
	if err := parser.Write(ep, item.Interface(), value); err != nil {
		return err
	}
	list.Set(reflect.Append(list, item.Elem()))
	return nil
}

// Help implements ValueParser.
func (l listParser) Help(p Parameter) string {
	ep, parser, err := l.elem(p)
	if err != nil {
		return ""
	}
	return parser.Help(ep)
}
