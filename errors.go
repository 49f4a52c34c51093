package cmdpipe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrUnknownOption is returned when a prefixed argument matches no
	// declared option name.
	ErrUnknownOption = errors.New("cmdpipe: unknown option")
	// ErrMissingValue is returned when a value option is the last argument.
	ErrMissingValue = errors.New("cmdpipe: missing value for option")
	// ErrNotRepeatable is returned when a non-repeatable option is given
	// more than once.
	ErrNotRepeatable = errors.New("cmdpipe: option is not repeatable")
	// ErrMissingRequiredOption is returned when one or more required
	// options were not given.
	ErrMissingRequiredOption = errors.New("cmdpipe: missing required option(s)")
	// ErrMissingArguments is returned when a positional has fewer
	// arguments than its arity requires.
	ErrMissingArguments = errors.New("cmdpipe: missing arguments for positional")
	// ErrUnexpectedArguments is returned when arguments remain after all
	// positionals were parsed and the pipeline has no subcommands.
	ErrUnexpectedArguments = errors.New("cmdpipe: unexpected arguments")
	// ErrUnknownSubcommand is returned when a subcommand label matches no
	// child pipeline.
	ErrUnknownSubcommand = errors.New("cmdpipe: unknown subcommand")
	// ErrValueParse is matched by every *ValueError.
	ErrValueParse = errors.New("cmdpipe: cannot parse value")
	// ErrUnsupportedValueType is returned by Registry.Get when no parser
	// is registered or built in for a type.
	ErrUnsupportedValueType = errors.New("cmdpipe: unsupported value type")
	// ErrOutOfRange is returned by Tokenizer operations that read past
	// the last argument.
	ErrOutOfRange = errors.New("cmdpipe: argument index out of range")
	// ErrTooManyValues is returned when a list bound to a fixed arity
	// positional would grow past that arity.
	ErrTooManyValues = errors.New("cmdpipe: too many values")
	// ErrInvalidValue is returned when a value cannot be written to a
	// target, i.e. the target is not a valid pointer or the value is of
	// an incompatible kind.
	ErrInvalidValue = errors.New("cmdpipe: invalid value")

	// ErrInvalidSchema wraps every error returned by Builder.Build.
	ErrInvalidSchema = errors.New("cmdpipe: invalid schema")
	// ErrInvalidName is reported for empty or unprefixed names.
	ErrInvalidName = errors.New("cmdpipe: invalid name")
	// ErrInvalidArity is reported for unlimited positionals that are not
	// last or that are declared by a pipeline with subcommands.
	ErrInvalidArity = errors.New("cmdpipe: invalid positional arity")
	// ErrDuplicateName is reported for names, labels or command types
	// declared more than once in the same scope.
	ErrDuplicateName = errors.New("cmdpipe: duplicate name")
)

// ArgError describes command line arguments that do not match the schema
// of the pipeline they were given to.
type ArgError struct {
	// Err is one of the ErrUnknownOption, ErrMissingValue,
	// ErrNotRepeatable, ErrMissingRequiredOption, ErrMissingArguments,
	// ErrUnexpectedArguments or ErrUnknownSubcommand sentinels.
	Err error
	// Pipeline is the name of the pipeline that rejected the arguments.
	Pipeline string
	// Args holds the offending option names, the positional name, the
	// leftover arguments or the subcommand label, depending on Err.
	Args []string
}

// Error implements error.
func (e *ArgError) Error() string {
	switch e.Err {
	case ErrMissingRequiredOption:
		return e.Err.Error() + ": " + strings.Join(e.Args, ", ")
	case ErrUnexpectedArguments:
		return e.Err.Error() + ": " + strings.Join(e.Args, " ")
	}
	return e.Err.Error() + " '" + strings.Join(e.Args, " ") + "'"
}

// Unwrap returns the sentinel.
func (e *ArgError) Unwrap() error { return e.Err }

// newArgError returns a new *ArgError.
func newArgError(err error, pipeline string, args ...string) *ArgError {
	return &ArgError{Err: err, Pipeline: pipeline, Args: args}
}

// ValueError is returned when an argument cannot be converted to the value
// type of the parameter it was given for.
type ValueError struct {
	// Type is the type the argument was being converted to.
	Type reflect.Type
	// Raw is the argument text.
	Raw string
	// Err is the conversion error.
	Err error
}

// Error implements error.
func (e *ValueError) Error() string {
	return fmt.Sprintf("%s %q as %s: %v", ErrValueParse.Error(), e.Raw, e.Type, e.Err)
}

// Unwrap returns ErrValueParse and the conversion error.
func (e *ValueError) Unwrap() []error { return []error{ErrValueParse, e.Err} }

// schemaError returns err annotated with the scope it was found in.
func schemaError(scope string, err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w: %s", scope, err, fmt.Sprintf(format, args...))
}
