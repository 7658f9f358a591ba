package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageforge/flourish/internal/dom"
	"github.com/pageforge/flourish/internal/effects"
	"github.com/pageforge/flourish/internal/scan"
	"github.com/pageforge/flourish/internal/trace"
)

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <page.html>",
		Short: "List a page's animation directives",
		Long: `Parse a page and list every animation directive in document order,
with its behavioral class and whether the engine knows the effect id.

Example:
  flourish scan ./page.html
  flourish scan ./page.html --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return scanPage(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

// directiveInfo is one scanned directive in command output.
type directiveInfo struct {
	Effect string `json:"effect"`
	Target string `json:"target"`
	Class  string `json:"class"`
	Known  bool   `json:"known"`
}

// scanReport is the scan command's output payload.
type scanReport struct {
	Page       string          `json:"page"`
	Directives []directiveInfo `json:"directives"`
}

func (r scanReport) String() string {
	out := fmt.Sprintf("%s: %d directives\n", r.Page, len(r.Directives))
	for _, d := range r.Directives {
		known := ""
		if !d.Known {
			known = "  (unknown)"
		}
		out += fmt.Sprintf("  %-20s %-16s %s%s\n", d.Effect, d.Class, d.Target, known)
	}
	return out
}

func scanPage(cmd *cobra.Command, rootOpts *RootOptions, pagePath string) error {
	configureLogging(rootOpts.Verbose)

	out := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	data, err := os.ReadFile(pagePath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read page", err)
	}
	doc, err := dom.ParseHTMLString(string(data))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to parse page", err)
	}

	report := scanReport{Page: pagePath}
	for _, d := range scan.Collect(doc) {
		report.Directives = append(report.Directives, directiveInfo{
			Effect: string(d.Effect),
			Target: trace.Describe(d.Element),
			Class:  className(effects.ClassOf(d.Effect)),
			Known:  effects.Known(d.Effect),
		})
	}

	return out.Success(report)
}

func className(c effects.Class) string {
	switch c {
	case effects.ClassOneShot:
		return "one-shot"
	case effects.ClassScrubbed:
		return "scrubbed"
	case effects.ClassAmbient:
		return "ambient"
	case effects.ClassInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}
