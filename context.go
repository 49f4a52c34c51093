package cmdpipe

// Trace records which pipeline, under which label, instantiated a command
// during a single execution.
type Trace struct {
	// Pipeline is the pipeline that created Command.
	Pipeline *Pipeline
	// Type is the command type of Command.
	Type *CommandType
	// Command is the command instance.
	Command Command
	// Label is the label the pipeline was invoked under.
	Label string
}

// Context is the state of a single top level execution or completion.
//
// It holds caller data passed down the pipeline chain and a Trace for every
// command instantiated while processing arguments. A Context is not safe for
// concurrent use.
type Context struct {
	// args are the arguments of the execution.
	args *Tokenizer
	// data is caller supplied data.
	data interface{}
	// traces maps a command type to its trace.
	traces map[*CommandType]*Trace
	// order holds traces in order as appended.
	order []*Trace
}

// NewContext returns a new *Context over args carrying data.
func NewContext(args *Tokenizer, data interface{}) *Context {
	return &Context{
		args:   args,
		data:   data,
		traces: make(map[*CommandType]*Trace),
	}
}

// Args returns the Context arguments.
func (c *Context) Args() *Tokenizer { return c.args }

// Data returns the caller data.
func (c *Context) Data() interface{} { return c.data }

// SetData sets the caller data.
func (c *Context) SetData(data interface{}) { c.data = data }

// Append records a trace for cmd. It panics if a trace for the command
// type is already recorded as that indicates a command type reachable
// twice on one path of a pipeline tree.
func (c *Context) Append(pipeline *Pipeline, ct *CommandType, cmd Command, label string) *Trace {
	if _, exists := c.traces[ct]; exists {
		panic("cmdpipe: trace for command type '" + ct.Name + "' already in context")
	}
	trace := &Trace{
		Pipeline: pipeline,
		Type:     ct,
		Command:  cmd,
		Label:    label,
	}
	c.traces[ct] = trace
	c.order = append(c.order, trace)
	return trace
}

// Trace returns the trace of command type ct and truth if found.
func (c *Context) Trace(ct *CommandType) (trace *Trace, ok bool) {
	trace, ok = c.traces[ct]
	return
}

// TraceOf returns the trace of command instance cmd and truth if found.
func (c *Context) TraceOf(cmd Command) (*Trace, bool) {
	for _, trace := range c.order {
		if trace.Command == cmd {
			return trace, true
		}
	}
	return nil, false
}

// Pipeline returns the pipeline that created cmd or nil if cmd was not
// created in this Context.
func (c *Context) Pipeline(cmd Command) *Pipeline {
	if trace, ok := c.TraceOf(cmd); ok {
		return trace.Pipeline
	}
	return nil
}

// Traces returns all traces in order as recorded, from the root command
// down to the last invoked subcommand.
func (c *Context) Traces() []*Trace { return append([]*Trace(nil), c.order...) }
