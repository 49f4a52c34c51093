package cmdpipe

import "iter"

// Tokenizer is a cursor over a fixed slice of command line arguments.
//
// Arguments are set once by NewTokenizer then read and consumed by
// pipelines down the execution chain using Peek, Next and Skip and their
// counted variants. The cursor only moves forward except by SetIndex.
//
// A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	// args are the arguments being tokenized.
	args []string
	// index is the index of the next unconsumed argument in args.
	index int
}

// NewTokenizer returns a new *Tokenizer over a copy of args.
func NewTokenizer(args ...string) *Tokenizer {
	return &Tokenizer{args: append([]string(nil), args...)}
}

// Peek returns the next argument without consuming it.
func (t *Tokenizer) Peek() (string, error) {
	if t.index >= len(t.args) {
		return "", ErrOutOfRange
	}
	return t.args[t.index], nil
}

// PeekN returns the next n arguments without consuming them.
func (t *Tokenizer) PeekN(n int) ([]string, error) {
	if n < 0 || !t.HasNextN(n) {
		return nil, ErrOutOfRange
	}
	return append([]string(nil), t.args[t.index:t.index+n]...), nil
}

// Next consumes and returns the next argument.
func (t *Tokenizer) Next() (string, error) {
	arg, err := t.Peek()
	if err != nil {
		return "", err
	}
	t.index++
	return arg, nil
}

// NextN consumes and returns the next n arguments.
func (t *Tokenizer) NextN(n int) ([]string, error) {
	args, err := t.PeekN(n)
	if err != nil {
		return nil, err
	}
	t.index += n
	return args, nil
}

// Skip consumes the next argument.
func (t *Tokenizer) Skip() error { return t.SkipN(1) }

// SkipN consumes the next n arguments.
func (t *Tokenizer) SkipN(n int) error {
	if n < 0 || !t.HasNextN(n) {
		return ErrOutOfRange
	}
	t.index += n
	return nil
}

// HasNext reports if there is at least one unconsumed argument.
func (t *Tokenizer) HasNext() bool { return t.index < len(t.args) }

// HasNextN reports if there are at least n unconsumed arguments.
func (t *Tokenizer) HasNextN(n int) bool { return t.index+n <= len(t.args) }

// Remaining returns the number of unconsumed arguments.
func (t *Tokenizer) Remaining() int { return len(t.args) - t.index }

// Total returns the number of all arguments.
func (t *Tokenizer) Total() int { return len(t.args) }

// Index returns the index of the next unconsumed argument.
func (t *Tokenizer) Index() int { return t.index }

// SetIndex moves the cursor to i which must be in range 0..Total().
func (t *Tokenizer) SetIndex(i int) error {
	if i < 0 || i > len(t.args) {
		return ErrOutOfRange
	}
	t.index = i
	return nil
}

// Stream consumes all remaining arguments and returns them as a sequence.
// The cursor is moved to the end immediately. The returned sequence can
// be iterated once; subsequent iterations yield nothing.
func (t *Tokenizer) Stream() iter.Seq[string] {
	seq := t.PeekStream()
	t.index = len(t.args)
	return seq
}

// PeekStream returns the remaining arguments as a sequence without
// consuming them. Like Stream, the sequence can be iterated once.
func (t *Tokenizer) PeekStream() iter.Seq[string] {
	rest := t.args[t.index:]
	used := false
	return func(yield func(string) bool) {
		if used {
			return
		}
		used = true
		for _, arg := range rest {
			if !yield(arg) {
				return
			}
		}
	}
}

// Last moves the cursor past the final argument and returns it.
func (t *Tokenizer) Last() (string, error) {
	if len(t.args) == 0 {
		return "", ErrOutOfRange
	}
	t.index = len(t.args)
	return t.args[len(t.args)-1], nil
}
