package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageforge/flourish/internal/effects"
	"github.com/pageforge/flourish/internal/theme"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <theme.cue>",
		Short: "Validate a theme manifest",
		Long: `Validate a theme manifest against the schema and report what it
configures. Unknown effect ids in the disabled list are flagged as
warnings - the engine tolerates them, but they are usually typos.

Example:
  flourish validate ./theme.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateTheme(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

// themeReport is the validate command's output payload.
type themeReport struct {
	Path      string   `json:"path"`
	Name      string   `json:"name,omitempty"`
	Speed     float64  `json:"speed,omitempty"`
	Disabled  []string `json:"disabled,omitempty"`
	Overrides int      `json:"overrides"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (r themeReport) String() string {
	out := fmt.Sprintf("%s: valid\n", r.Path)
	if r.Name != "" {
		out += fmt.Sprintf("  name:      %s\n", r.Name)
	}
	if r.Speed > 0 {
		out += fmt.Sprintf("  speed:     %g\n", r.Speed)
	}
	if len(r.Disabled) > 0 {
		out += fmt.Sprintf("  disabled:  %v\n", r.Disabled)
	}
	out += fmt.Sprintf("  overrides: %d effects\n", r.Overrides)
	for _, w := range r.Warnings {
		out += fmt.Sprintf("  warning: %s\n", w)
	}
	return out
}

func validateTheme(cmd *cobra.Command, rootOpts *RootOptions, path string) error {
	configureLogging(rootOpts.Verbose)

	out := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	th, err := theme.Load(path)
	if err != nil {
		_ = out.Error("E101", "invalid theme manifest", err.Error())
		return WrapExitError(ExitFailure, "invalid theme manifest", err)
	}

	report := themeReport{
		Path:      path,
		Name:      th.Name,
		Speed:     th.Speed,
		Disabled:  th.Disabled,
		Overrides: len(th.Overrides),
	}
	for _, id := range th.Disabled {
		if !effects.Known(effects.ID(id)) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("disabled effect %q is not in the catalog", id))
		}
	}
	for id := range th.Overrides {
		if !effects.Known(effects.ID(id)) {
			report.Warnings = append(report.Warnings, fmt.Sprintf("override target %q is not in the catalog", id))
		}
	}

	return out.Success(report)
}
