package cmdpipe

import "reflect"

// Execute executes the pipeline with args under the pipeline name in a
// new Context carrying data. It returns the result of the executed command
// or the first error encountered.
func (p *Pipeline) Execute(data interface{}, args []string) (interface{}, error) {
	return p.ExecuteTokens(data, p.name, NewTokenizer(args...))
}

// ExecuteTokens executes the pipeline with args under label in a new
// Context carrying data.
func (p *Pipeline) ExecuteTokens(data interface{}, label string, args *Tokenizer) (interface{}, error) {
	return p.ExecuteContext(NewContext(args, data), label, args)
}

// ExecuteContext executes the pipeline in ctx under label, consuming args.
// It is the entry point for delegated execution of subcommands, see
// Delegator.
//
// A new Command is created and traced in ctx, then options, required
// options and positionals are parsed from args into it. If arguments
// remain the next one selects the child pipeline execution continues in,
// otherwise the Command is executed.
//
// ExecuteContext panics if ctx already has a trace for the pipeline
// command type.
func (p *Pipeline) ExecuteContext(ctx *Context, label string, args *Tokenizer) (interface{}, error) {
	cmd := p.ctype.New()
	ctx.Append(p, p.ctype, cmd, label)
	p.logger.Debug().Str("label", label).Str("type", p.ctype.Name).Msg("executing")

	// Parse options.
	counts := make(map[*Option]int, len(p.options))
	for args.HasNext() {
		current, _ := args.Peek()
		if !isOption(current) {
			break
		}
		opt := p.option(current)
		if opt == nil {
			return nil, newArgError(ErrUnknownOption, p.name, current)
		}
		args.Skip()
		counts[opt]++

		if opt.IsFlag() {
			if err := p.writeFlag(opt, cmd); err != nil {
				return nil, err
			}
		} else {
			if counts[opt] > 1 && !opt.Repeatable {
				return nil, newArgError(ErrNotRepeatable, p.name, current)
			}
			value, err := args.Next()
			if err != nil {
				return nil, newArgError(ErrMissingValue, p.name, current)
			}
			if err := p.registry.ParseInto(opt, cmd, value); err != nil {
				return nil, err
			}
		}

		if opt.SkipParsing {
			p.logger.Debug().Str("label", label).Str("option", current).Msg("skip parsing")
			return cmd.Execute(ctx)
		}
	}

	// Check if required options were parsed.
	var missing []string
	for _, opt := range p.options {
		if opt.Required && counts[opt] == 0 {
			missing = append(missing, opt.DisplayName())
		}
	}
	if len(missing) > 0 {
		return nil, newArgError(ErrMissingRequiredOption, p.name, missing...)
	}

	// Parse positionals.
	for _, pos := range p.positionals {
		if err := p.parsePositional(pos, cmd, args); err != nil {
			return nil, err
		}
	}

	if !args.HasNext() {
		return cmd.Execute(ctx)
	}

	// Pass control to a child pipeline.
	if p.children.Len() == 0 {
		return nil, newArgError(ErrUnexpectedArguments, p.name, collect(args)...)
	}
	next, _ := args.Next()
	child, ok := p.children.Get(next)
	if !ok {
		return nil, newArgError(ErrUnknownSubcommand, p.name, next)
	}
	p.logger.Debug().Str("label", label).Str("child", next).Msg("delegating")
	if d, ok := cmd.(Delegator); ok {
		return d.ExecuteNext(ctx, p, child, next, args)
	}
	return child.ExecuteContext(ctx, next, args)
}

// writeFlag writes the constant of flag option opt to cmd.
func (p *Pipeline) writeFlag(opt *Option, cmd Command) error {
	parser, err := p.registry.Get(reflect.TypeOf(true))
	if err != nil {
		return err
	}
	return parser.Write(opt, opt.Target(cmd), opt.StoreTrue)
}

// parsePositional parses arguments of positional pos from args into cmd.
func (p *Pipeline) parsePositional(pos *Positional, cmd Command, args *Tokenizer) error {
	switch {
	case pos.Nargs > 0:
		values, err := args.NextN(pos.Nargs)
		if err != nil {
			return newArgError(ErrMissingArguments, p.name, pos.Name)
		}
		for _, value := range values {
			if err := p.registry.ParseInto(pos, cmd, value); err != nil {
				return err
			}
		}
	case pos.Nargs < 0:
		count := 0
		for value := range args.Stream() {
			if err := p.registry.ParseInto(pos, cmd, value); err != nil {
				return err
			}
			count++
		}
		if count < -pos.Nargs {
			return newArgError(ErrMissingArguments, p.name, pos.Name)
		}
	}
	return nil
}

// collect consumes and returns all remaining arguments.
func collect(args *Tokenizer) (rest []string) {
	for arg := range args.Stream() {
		rest = append(rest, arg)
	}
	return
}
