package main

import (
	"fmt"

	"github.com/vedranvuk/cmdpipe"
)

// Shell is a shell completion scripts are generated for.
type Shell int

// Shells.
const (
	Bash Shell = iota
	Zsh
	Fish
)

// String implements fmt.Stringer.
func (s Shell) String() string {
	switch s {
	case Bash:
		return "bash"
	case Zsh:
		return "zsh"
	case Fish:
		return "fish"
	}
	return fmt.Sprintf("Shell(%d)", int(s))
}

// EnumValues implements cmdpipe.Enumerable.
func (Shell) EnumValues() []fmt.Stringer { return []fmt.Stringer{Bash, Zsh, Fish} }

// Completion scripts calling the hidden completion command. Each is
// formatted with the binary name for every verb.
var (
	bashCompletion = `
_%[1]s_completion() {
    local completions
    completions=$(%[1]s __complete "${COMP_WORDS[@]:1:COMP_CWORD}")
    COMPREPLY=( $(compgen -W "$completions" -- "${COMP_WORDS[COMP_CWORD]}") )
}
complete -F _%[1]s_completion %[1]s
`
	zshCompletion = `
#compdef %[1]s

_%[1]s_completion() {
    local completions
    completions=("${(@f)$(%[1]s __complete "${(@)words[2,$CURRENT]}")}")
    compadd -a completions
}
compdef _%[1]s_completion %[1]s
`
	fishCompletion = `
function __%[1]s_complete
    set -l args (commandline -opc)[2..-1] (commandline -ct)
    %[1]s __complete $args
end
complete -c %[1]s -a "(__%[1]s_complete)" -f
`
)

// completionCmd prints a shell completion script.
type completionCmd struct {
	Help  bool
	Shell Shell
}

var completionType = &cmdpipe.CommandType{
	Name:  "completion",
	Usage: "Print a shell completion script.",
	New:   func() cmdpipe.Command { return &completionCmd{} },
	Options: []*cmdpipe.Option{
		cmdpipe.HelpOption(cmdpipe.FieldOf(func(c *completionCmd) *bool { return &c.Help })),
	},
	Positionals: []*cmdpipe.Positional{
		{
			Param: cmdpipe.Param{
				Symbol: "SHELL",
				Desc:   "One of bash, zsh or fish.",
				Field:  cmdpipe.FieldOf(func(c *completionCmd) *Shell { return &c.Shell }),
			},
			Name:  "shell",
			Nargs: 1,
		},
	},
}

// Execute prints the script for c.Shell.
func (c *completionCmd) Execute(ctx *cmdpipe.Context) (interface{}, error) {
	a := appOf(ctx)
	if c.Help {
		return 0, cmdpipe.ShowHelp(ctx, c, a.errout)
	}
	script := bashCompletion
	switch c.Shell {
	case Zsh:
		script = zshCompletion
	case Fish:
		script = fishCompletion
	}
	name := "pipedemo"
	if traces := ctx.Traces(); len(traces) > 0 {
		name = traces[0].Label
	}
	_, err := fmt.Fprintf(a.out, script, name)
	return 0, err
}
