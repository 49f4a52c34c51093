package cmdpipe

import (
	"sort"
	"strings"
)

// Complete returns completion suggestions for the partial command line
// args given to the pipeline under label, in a new Context carrying data.
//
// Complete never fails. It returns nil if args are empty or no suggestions
// can be made, otherwise a sorted slice of unique suggestions, which can be
// empty.
func (p *Pipeline) Complete(data interface{}, label string, args *Tokenizer) []string {
	return p.CompleteContext(NewContext(args, data), label, args)
}

// CompleteContext is the Context variant of Complete used when completion
// recurses into a child pipeline.
//
// Arguments are scanned like in ExecuteContext. While scanning options a
// value given as the last argument is completed by the option Completer;
// unknown or incomplete option names yield option names with that prefix
// and the first non-option argument yields all options that can still be
// given. If required options were not given, their names are returned.
// A partial option name as the last argument yields matching option names.
// Otherwise the first positional lacking arguments is completed by its
// Completer and, if arguments remain, completion continues in the child
// pipeline they select or yields child labels with the argument as prefix.
func (p *Pipeline) CompleteContext(ctx *Context, label string, args *Tokenizer) []string {
	cmd := p.ctype.New()
	ctx.Append(p, p.ctype, cmd, label)

	if !args.HasNext() {
		return nil
	}

	var (
		results = make(map[string]bool)
		counts  = make(map[*Option]int, len(p.options))
		// naming is set if the last argument is a partial option name.
		naming bool
	)
	for args.HasNext() {
		current, _ := args.Peek()
		if !isOption(current) {
			p.addOptionNames(results, counts, "")
			break
		}
		args.Skip()
		opt := p.option(current)
		if opt == nil || !args.HasNext() {
			p.addOptionNames(results, counts, current)
			naming = !args.HasNext()
			continue
		}
		if opt.IsFlag() || opt.SkipParsing {
			counts[opt]++
			continue
		}
		value, _ := args.Next()
		if !args.HasNext() {
			return sorted(opt.Completer().Complete(ctx, opt, value))
		}
		counts[opt]++
	}

	var missing []string
	for _, opt := range p.options {
		if opt.Required && counts[opt] == 0 {
			missing = append(missing, opt.Names...)
		}
	}
	if len(missing) > 0 {
		return sorted(missing)
	}
	if naming {
		return p.sortedResults(results)
	}

	for _, pos := range p.positionals {
		switch {
		case pos.Nargs > 0:
			if !args.HasNextN(pos.Nargs) {
				return sorted(pos.Completer().Complete(ctx, pos, lastArg(args)))
			}
			args.SkipN(pos.Nargs)
		case pos.Nargs < 0:
			return sorted(pos.Completer().Complete(ctx, pos, lastArg(args)))
		}
	}

	if args.HasNext() {
		if p.children.Len() == 0 {
			return nil
		}
		next, _ := args.Next()
		child, ok := p.children.Get(next)
		if !ok {
			return p.labelsWithPrefix(next)
		}
		return child.CompleteContext(ctx, next, args)
	}

	return p.sortedResults(results)
}

// sortedResults returns names in results sorted.
func (p *Pipeline) sortedResults(results map[string]bool) []string {
	out := make([]string, 0, len(results))
	for name := range results {
		out = append(out, name)
	}
	return sorted(out)
}

// addOptionNames adds names of options that can still be given and start
// with prefix to results.
func (p *Pipeline) addOptionNames(results map[string]bool, counts map[*Option]int, prefix string) {
	for _, opt := range p.options {
		if !opt.Repeatable && counts[opt] > 0 {
			continue
		}
		for _, name := range opt.Names {
			if strings.HasPrefix(name, prefix) {
				results[name] = true
			}
		}
	}
}

// lastArg consumes all arguments and returns the last one, which may have
// been consumed already.
func lastArg(args *Tokenizer) string {
	last, _ := args.Last()
	return last
}

// sorted returns unique values of in sorted. A nil in returns nil.
func sorted(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
