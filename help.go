package cmdpipe

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-wordwrap"
)

// HelpOption returns the conventional "-h", "--help" option: a store true
// flag that skips parsing. field must point to a boolean the Command checks
// in Execute, calling ShowHelp if set.
func HelpOption(field Field) *Option {
	return &Option{
		Param: Param{
			Desc:  "Show this help message.",
			Field: field,
		},
		Names:       []string{"-h", "--help"},
		StoreTrue:   true,
		SkipParsing: true,
	}
}

// ShowHelp writes help of the pipeline that created cmd in ctx to w using
// DefaultHelpFormatter.
func ShowHelp(ctx *Context, cmd Command, w io.Writer) error {
	pipeline := ctx.Pipeline(cmd)
	if pipeline == nil {
		return errors.New("cmdpipe: command not traced in context")
	}
	_, err := fmt.Fprintln(w, DefaultHelpFormatter.FormatHelp(pipeline))
	return err
}

// DefaultHelpFormatter is the HelpFormatter used by ShowHelp.
var DefaultHelpFormatter = NewHelpFormatter()

// HelpFormatter formats pipeline help text.
//
//	Usage: <parents> <name> [options] <positionals> {cmd}
//
//	<usage>
//
//	Commands:
//	<label>     <usage>
//
//	Positional arguments:
//	<symbol>    <description>
//
//	Options:
//	<names>     <description>
type HelpFormatter struct {
	maxWidth int
	indent   int
}

// NewHelpFormatter returns a new *HelpFormatter with a maximum line width
// of 256 and descriptions indented by 12.
func NewHelpFormatter() *HelpFormatter {
	return &HelpFormatter{maxWidth: 256, indent: 12}
}

// MaxWidth returns the maximum line width.
func (f *HelpFormatter) MaxWidth() int { return f.maxWidth }

// Indent returns the description indent.
func (f *HelpFormatter) Indent() int { return f.indent }

// SetMaxWidth sets the maximum line width which must be greater than the
// indent.
func (f *HelpFormatter) SetMaxWidth(maxWidth int) error {
	if maxWidth <= f.indent {
		return errors.New("cmdpipe: max width must be greater than indent")
	}
	f.maxWidth = maxWidth
	return nil
}

// SetIndent sets the description indent which must be positive and less
// than the maximum width.
func (f *HelpFormatter) SetIndent(indent int) error {
	if indent < 0 {
		return errors.New("cmdpipe: indent must not be negative")
	}
	if indent >= f.maxWidth {
		return errors.New("cmdpipe: indent must be less than max width")
	}
	f.indent = indent
	return nil
}

// FormatPositional formats pos arguments as "N N [N..]". A positional
// with arity 0 formats as an empty string.
func FormatPositional(pos *Positional) string {
	var (
		symbol = pos.ValueSymbol()
		n      = pos.Nargs
		parts  []string
	)
	if n < 0 {
		n = -n
	}
	for i := 0; i < n; i++ {
		parts = append(parts, symbol)
	}
	if pos.Nargs < 0 {
		parts = append(parts, "["+symbol+"..]")
	}
	return strings.Join(parts, " ")
}

// FormatUsage formats the usage line of p.
func (f *HelpFormatter) FormatUsage(p *Pipeline) string {
	sb := &strings.Builder{}
	sb.WriteString("Usage: " + p.Path())
	if len(p.options) > 0 {
		sb.WriteString(" [options]")
	}
	for _, pos := range p.positionals {
		if s := FormatPositional(pos); s != "" {
			sb.WriteString(" " + s)
		}
	}
	if p.children.Len() > 0 {
		sb.WriteString(" {cmd}")
	}
	return sb.String()
}

// FormatHelp formats the full help text of p.
func (f *HelpFormatter) FormatHelp(p *Pipeline) string {
	sb := &strings.Builder{}
	sb.WriteString(f.FormatUsage(p))

	if usage := p.Usage(); usage != "" {
		sb.WriteString("\n\n" + usage)
	}

	if p.children.Len() > 0 {
		sb.WriteString("\n\nCommands:")
		p.children.Scan(func(label string, child *Pipeline) bool {
			sb.WriteString("\n")
			f.writeEntry(sb, label, child.Usage())
			return true
		})
	}

	if len(p.positionals) > 0 {
		sb.WriteString("\n\nPositional arguments:")
		for _, pos := range p.positionals {
			desc := pos.Desc
			if desc == "" {
				if parser, err := pos.Parser(); err == nil {
					desc = parser.Help(pos)
				}
			}
			sb.WriteString("\n")
			f.writeEntry(sb, pos.ValueSymbol(), desc)
		}
	}

	if len(p.options) > 0 {
		sb.WriteString("\n\nOptions:")
		options := p.Options()
		sort.SliceStable(options, func(i, j int) bool {
			return strings.ToLower(options[i].Names[0]) < strings.ToLower(options[j].Names[0])
		})
		for _, opt := range options {
			header := strings.Join(opt.Names, ", ")
			if !opt.IsFlag() {
				var names []string
				for _, name := range opt.Names {
					names = append(names, name+" "+opt.ValueSymbol())
				}
				header = strings.Join(names, ", ")
			}
			sb.WriteString("\n")
			f.writeEntry(sb, header, opt.Desc)
		}
	}

	return sb.String()
}

// writeEntry writes header followed by text wrapped and indented to the
// formatter indent. A header that does not fit before the indent is
// written on its own line.
func (f *HelpFormatter) writeEntry(sb *strings.Builder, header, text string) {
	const spacing = 2
	header = truncate(header, f.maxWidth)
	if text == "" {
		sb.WriteString(header)
		return
	}
	padding := strings.Repeat(" ", f.indent)
	if n := utf8.RuneCountInString(header); n <= f.indent-spacing {
		sb.WriteString(header + padding[n:])
	} else {
		sb.WriteString(header + "\n" + padding)
	}
	lines := strings.Split(wordwrap.WrapString(text, uint(f.maxWidth-f.indent)), "\n")
	sb.WriteString(strings.Join(lines, "\n"+padding))
}

// FormatTree formats an overview of p and all of its descendants, one
// pipeline, option or positional per line, indented by depth.
func (f *HelpFormatter) FormatTree(p *Pipeline) string {
	sb := &strings.Builder{}
	f.printPipeline(sb, p, 0)
	return sb.String()
}

// printPipeline is a recursive printer of pipelines and their parameters.
// Lines are written to sb from p with the indent depth(*tab).
func (f *HelpFormatter) printPipeline(sb *strings.Builder, p *Pipeline, indent int) {
	indentstr := strings.Repeat("\t", indent)
	sb.WriteString(indentstr + p.name + "\t" + p.Usage() + "\n")
	for _, opt := range p.options {
		paramtype := ""
		if !opt.IsFlag() {
			paramtype = "(" + opt.ValueType().String() + ")"
		}
		names := strings.Join(opt.Names, ", ")
		if opt.Required {
			sb.WriteString(indentstr + "\t<" + names + ">\t" + paramtype + "\t" + opt.Desc + "\n")
		} else {
			sb.WriteString(indentstr + "\t[" + names + "]\t" + paramtype + "\t" + opt.Desc + "\n")
		}
	}
	for _, pos := range p.positionals {
		sb.WriteString(indentstr + "\t" + FormatPositional(pos) + "\t(" + pos.ValueType().String() + ")\t" + pos.Desc + "\n")
	}
	p.children.Scan(func(_ string, child *Pipeline) bool {
		f.printPipeline(sb, child, indent+1)
		return true
	})
}

// truncate returns s cut to at most n runes.
func truncate(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
