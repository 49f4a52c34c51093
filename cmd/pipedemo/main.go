// Command pipedemo demonstrates a cmdpipe command tree.
//
//	pipedemo [-v] greet [--day DAY] [-y] NAME [NAME..]
//	pipedemo [-v] sum N N [N..]
//	pipedemo completion SHELL
//	pipedemo __complete ARGS...
//
// Exit code is 1 for invalid arguments and 2 for any other error.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vedranvuk/cmdpipe"
)

// completeLabel is the hidden command that prints completions.
const completeLabel = "__complete"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	level := zerolog.InfoLevel
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Hook(levelHook{&level}).
		With().Timestamp().Logger()

	pipeline, err := newPipeline(logger)
	if err != nil {
		logger.Error().Err(err).Msg("invalid command schema")
		return 2
	}

	if len(args) > 0 && args[0] == completeLabel {
		suggestions := pipeline.Complete(nil, pipeline.Name(), cmdpipe.NewTokenizer(args[1:]...))
		for _, s := range suggestions {
			fmt.Fprintln(stdout, s)
		}
		return 0
	}

	result, err := pipeline.Execute(&app{out: stdout, errout: stderr, log: logger, level: &level}, args)
	return exitCode(result, err, stderr)
}

// exitCode maps an execution result to a process exit code.
func exitCode(result interface{}, err error, stderr io.Writer) int {
	if err != nil {
		var (
			argErr   *cmdpipe.ArgError
			valueErr *cmdpipe.ValueError
		)
		if errors.As(err, &argErr) || errors.As(err, &valueErr) {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stderr, "unexpected error:", err)
		return 2
	}
	if code, ok := result.(int); ok {
		return code
	}
	return 0
}

// newPipeline builds the pipedemo command tree.
func newPipeline(logger zerolog.Logger) (*cmdpipe.Pipeline, error) {
	b := cmdpipe.NewBuilder(rootType, "pipedemo", cmdpipe.WithLogger(logger))
	b.AddSubcommand(greetType, "greet")
	b.AddSubcommand(sumType, "sum")
	b.AddSubcommand(completionType, "completion")
	return b.Build()
}

// levelHook discards events below the level it points to. The pipeline
// and the commands share it so global options can change it mid execution.
type levelHook struct {
	level *zerolog.Level
}

// Run implements zerolog.Hook.
func (h levelHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level < *h.level {
		e.Discard()
	}
}

// app is the data passed down the pipeline.
type app struct {
	out    io.Writer
	errout io.Writer
	log    zerolog.Logger
	level  *zerolog.Level
}

// appOf returns the app carried by ctx.
func appOf(ctx *cmdpipe.Context) *app { return ctx.Data().(*app) }

// rootCmd holds global options.
type rootCmd struct {
	Help    bool
	Verbose bool
}

var rootType = &cmdpipe.CommandType{
	Name:  "root",
	Usage: "Demonstrates nested commands, enum values and completion.",
	New:   func() cmdpipe.Command { return &rootCmd{} },
	Options: []*cmdpipe.Option{
		cmdpipe.HelpOption(cmdpipe.FieldOf(func(c *rootCmd) *bool { return &c.Help })),
		{
			Param: cmdpipe.Param{
				Desc:  "Enable debug logging.",
				Field: cmdpipe.FieldOf(func(c *rootCmd) *bool { return &c.Verbose }),
			},
			Names:     []string{"-v", "--verbose"},
			StoreTrue: true,
		},
	},
}

// Execute prints help as no subcommand was given.
func (c *rootCmd) Execute(ctx *cmdpipe.Context) (interface{}, error) {
	if err := cmdpipe.ShowHelp(ctx, c, appOf(ctx).errout); err != nil {
		return nil, err
	}
	return 0, nil
}

// ExecuteNext applies global options before the subcommand runs.
func (c *rootCmd) ExecuteNext(ctx *cmdpipe.Context, current, next *cmdpipe.Pipeline, label string, args *cmdpipe.Tokenizer) (interface{}, error) {
	a := appOf(ctx)
	if c.Verbose {
		*a.level = zerolog.DebugLevel
	}
	a.log.Debug().Str("command", label).Msg("start")
	result, err := next.ExecuteContext(ctx, label, args)
	a.log.Debug().Str("command", label).Err(err).Msg("done")
	return result, err
}

// Weekday is a day of the week.
type Weekday int

// Weekdays.
const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String implements fmt.Stringer.
func (d Weekday) String() string {
	if d < 0 || int(d) >= len(weekdayNames) {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// EnumValues implements cmdpipe.Enumerable.
func (Weekday) EnumValues() []fmt.Stringer {
	values := make([]fmt.Stringer, 0, len(weekdayNames))
	for d := Monday; d <= Sunday; d++ {
		values = append(values, d)
	}
	return values
}

// greetCmd greets people.
type greetCmd struct {
	Help  bool
	Yes   bool
	Day   Weekday
	Names []string
}

var greetType = &cmdpipe.CommandType{
	Name:  "greet",
	Usage: "Greet one or more people.",
	New:   func() cmdpipe.Command { return &greetCmd{Day: Monday} },
	Options: []*cmdpipe.Option{
		cmdpipe.HelpOption(cmdpipe.FieldOf(func(c *greetCmd) *bool { return &c.Help })),
		{
			Param: cmdpipe.Param{
				Desc:  "Shout the greeting.",
				Field: cmdpipe.FieldOf(func(c *greetCmd) *bool { return &c.Yes }),
			},
			Names:     []string{"-y", "--yes"},
			StoreTrue: true,
		},
		{
			Param: cmdpipe.Param{
				Desc:  "Day of the week.",
				Field: cmdpipe.FieldOf(func(c *greetCmd) *Weekday { return &c.Day }),
			},
			Names: []string{"--day"},
		},
	},
	Positionals: []*cmdpipe.Positional{
		{
			Param: cmdpipe.Param{
				Symbol: "NAME",
				Desc:   "People to greet.",
				Field:  cmdpipe.FieldOf(func(c *greetCmd) *[]string { return &c.Names }),
			},
			Name:  "names",
			Nargs: -1,
		},
	},
}

// Execute greets c.Names.
func (c *greetCmd) Execute(ctx *cmdpipe.Context) (interface{}, error) {
	a := appOf(ctx)
	if c.Help {
		return 0, cmdpipe.ShowHelp(ctx, c, a.errout)
	}
	greeting := fmt.Sprintf("Happy %s, %s", c.Day, strings.Join(c.Names, " and "))
	if c.Yes {
		greeting = strings.ToUpper(greeting) + "!"
	}
	_, err := fmt.Fprintln(a.out, greeting)
	return 0, err
}

// sumCmd sums numbers.
type sumCmd struct {
	Help   bool
	Values []float64
}

var sumType = &cmdpipe.CommandType{
	Name:  "sum",
	Usage: "Print the sum of two or more numbers.",
	New:   func() cmdpipe.Command { return &sumCmd{} },
	Options: []*cmdpipe.Option{
		cmdpipe.HelpOption(cmdpipe.FieldOf(func(c *sumCmd) *bool { return &c.Help })),
	},
	Positionals: []*cmdpipe.Positional{
		{
			Param: cmdpipe.Param{
				Symbol: "N",
				Field:  cmdpipe.FieldOf(func(c *sumCmd) *[]float64 { return &c.Values }),
			},
			Name:  "values",
			Nargs: -2,
		},
	},
}

// Execute prints the sum of c.Values.
func (c *sumCmd) Execute(ctx *cmdpipe.Context) (interface{}, error) {
	a := appOf(ctx)
	if c.Help {
		return 0, cmdpipe.ShowHelp(ctx, c, a.errout)
	}
	var sum float64
	for _, v := range c.Values {
		sum += v
	}
	a.log.Debug().Int("count", len(c.Values)).Msg("summed")
	_, err := fmt.Fprintln(a.out, sum)
	return 0, err
}
