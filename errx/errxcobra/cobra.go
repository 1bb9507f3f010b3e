// Package errxcobra prints errx errors from cobra commands.
//
// Text output in normal mode:
//
//	────────────────────────────────────────────────────────────
//	 ERROR ❯ Validation failed
//	────────────────────────────────────────────────────────────
//
//	   CODE ❯ SERIALX_VALIDATION_FAILED
//	   TYPE ❯ VALIDATION
//
//	 MESSAGES
//	   ❯ Field name is missing.
//	   ❯ age must be a int.  Got string.
//
// The "messages" detail, when present, is always listed since it is what a
// user needs to fix their input.
package errxcobra

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/errx"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output formats for CLI errors
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// DisplayMode controls which elements of the error are displayed
type DisplayMode string

const (
	// DisplayModeSimple shows only the error message and its messages detail
	DisplayModeSimple DisplayMode = "simple"
	// DisplayModeNormal adds code and type
	DisplayModeNormal DisplayMode = "normal"
	// DisplayModeDetailed shows all error information including details and cause chain
	DisplayModeDetailed DisplayMode = "detailed"
)

// CLIOptions configures how errors are displayed in CLI applications
type CLIOptions struct {
	Format      OutputFormat
	DisplayMode DisplayMode
	// ExitOnError calls ExitFunc after printing
	ExitOnError bool
	UseColors   bool
	ExitFunc    func(int)
	// Out receives the output, os.Stderr when nil
	Out io.Writer
}

// DefaultCLIOptions returns the default options for CLI error handling
func DefaultCLIOptions() CLIOptions {
	return CLIOptions{
		Format:      OutputFormatText,
		DisplayMode: DisplayModeNormal,
		ExitOnError: true,
		UseColors:   true,
		ExitFunc:    os.Exit,
	}
}

// CLI handles errors for command line applications
type CLI struct {
	options CLIOptions
}

// NewCLI creates a new CLI error handler with the given options
func NewCLI(options CLIOptions) *CLI {
	if options.Out == nil {
		options.Out = os.Stderr
	}
	if options.ExitFunc == nil {
		options.ExitFunc = os.Exit
	}
	return &CLI{options: options}
}

// HandleCommandError wraps a cobra RunE so errors are printed here instead of by cobra
func (c *CLI) HandleCommandError(runFn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := runFn(cmd, args); err != nil {
			c.HandleError(err)
		}
		return nil
	}
}

// ExitCode maps an error type to a process exit code
func ExitCode(err error) int {
	var xerr *errx.Error
	if !errors.As(err, &xerr) {
		return 1
	}
	switch xerr.Type {
	case errx.TypeValidation:
		return 2
	case errx.TypeAuthorization:
		return 3
	case errx.TypeNotFound:
		return 4
	case errx.TypeInternal:
		return 5
	default:
		return 1
	}
}

// HandleError prints err according to the options and exits when configured
func (c *CLI) HandleError(err error) {
	if err == nil {
		return
	}

	var xerr *errx.Error
	if !errors.As(err, &xerr) {
		xerr = &errx.Error{
			Code:    "UNKNOWN_ERROR",
			Type:    errx.TypeInternal,
			Message: err.Error(),
		}
	}

	if c.options.Format == OutputFormatJSON {
		c.outputJSON(xerr)
	} else {
		c.outputText(xerr)
	}

	if c.options.ExitOnError {
		c.options.ExitFunc(ExitCode(err))
	}
}

func (c *CLI) outputJSON(err *errx.Error) {
	body := map[string]any{"message": err.Message}
	if c.options.DisplayMode != DisplayModeSimple {
		body["code"] = err.Code
		body["type"] = err.Type
	}
	if c.options.DisplayMode == DisplayModeDetailed && len(err.Details) > 0 {
		body["details"] = err.Details
	} else if msgs := messages(err); len(msgs) > 0 {
		body["messages"] = msgs
	}

	out, _ := json.MarshalIndent(map[string]any{"error": body}, "", "  ")
	fmt.Fprintln(c.options.Out, string(out))
}

func (c *CLI) outputText(err *errx.Error) {
	w := c.options.Out

	errorColor := color.New(color.FgHiRed, color.Bold)
	codeColor := color.New(color.FgHiYellow)
	typeColor := color.New(color.FgHiCyan)
	detailKeyColor := color.New(color.FgHiGreen)
	messageColor := color.New(color.FgHiWhite)
	headerColor := color.New(color.FgHiMagenta, color.Bold)
	lineColor := color.New(color.FgHiBlue)
	for _, col := range []*color.Color{errorColor, codeColor, typeColor, detailKeyColor, messageColor, headerColor, lineColor} {
		if c.options.UseColors {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	msgs := messages(err)

	if c.options.DisplayMode == DisplayModeSimple {
		errorColor.Fprint(w, "Error: ")
		messageColor.Fprintln(w, err.Message)
		for _, m := range msgs {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		return
	}

	line := strings.Repeat("─", 60)

	fmt.Fprintln(w)
	lineColor.Fprintln(w, line)
	errorColor.Fprint(w, " ERROR ")
	headerColor.Fprint(w, "❯ ")
	messageColor.Fprintln(w, err.Message)
	lineColor.Fprintln(w, line)
	fmt.Fprintln(w)

	headerColor.Fprint(w, "   CODE ❯ ")
	codeColor.Fprintln(w, string(err.Code))
	headerColor.Fprint(w, "   TYPE ❯ ")
	typeColor.Fprintln(w, string(err.Type))

	if len(msgs) > 0 {
		fmt.Fprintln(w)
		headerColor.Fprintln(w, " MESSAGES")
		for _, m := range msgs {
			fmt.Fprintf(w, "   ❯ %s\n", m)
		}
	}

	if c.options.DisplayMode == DisplayModeDetailed {
		keys := make([]string, 0, len(err.Details))
		for k := range err.Details {
			if k != "messages" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		if len(keys) > 0 {
			fmt.Fprintln(w)
			headerColor.Fprintln(w, " DETAILS")
			for _, k := range keys {
				detailKeyColor.Fprintf(w, "   %s", k)
				fmt.Fprintf(w, " ❯ %v\n", err.Details[k])
			}
		}

		if err.Cause != nil {
			fmt.Fprintln(w)
			headerColor.Fprintln(w, "   CAUSE")
			indent := "   "
			for cause := err.Cause; cause != nil; cause = errors.Unwrap(cause) {
				fmt.Fprintf(w, "%s❯ %s\n", indent, cause.Error())
				indent += "  "
			}
		}
	}

	fmt.Fprintln(w)
	lineColor.Fprintln(w, line)
}

// messages extracts the "messages" detail as strings
func messages(err *errx.Error) []string {
	switch v := err.Details["messages"].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, len(v))
		for i, m := range v {
			out[i] = fmt.Sprint(m)
		}
		return out
	}
	return nil
}

// WithCLI wraps cmd's RunE with cli error handling
func WithCLI(cmd *cobra.Command, options CLIOptions) *CLI {
	cli := NewCLI(options)
	if cmd.RunE != nil {
		cmd.RunE = cli.HandleCommandError(cmd.RunE)
	}
	return cli
}
