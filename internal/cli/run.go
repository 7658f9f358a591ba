package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pageforge/flourish/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Token    string
	sim      simOptions
}

// tokenSource mints run identifiers when --token is not given. Tests
// substitute a fixed generator to get reproducible databases.
var tokenSource interface{ Generate() string } = uuidTokenSource{}

type uuidTokenSource struct{}

func (uuidTokenSource) Generate() string { return store.NewRunToken() }

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <page.html>",
		Short: "Simulate a page load and report the trace",
		Long: `Simulate one deterministic page load: probe the environment, scan and
register every animation directive, perform a full scroll pass, and let
all tweens settle.

With --db the run's trace is persisted for later inspection and replay
verification.

Example:
  flourish run ./page.html
  flourish run ./page.html --db ./runs.db --theme ./theme.cue
  flourish run ./page.html --reduced-motion -v`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (optional)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "fixed run token (defaults to a fresh UUID)")
	cmd.Flags().StringVar(&opts.sim.ThemePath, "theme", "", "path to a theme manifest (CUE)")
	cmd.Flags().BoolVar(&opts.sim.Embedded, "embedded", false, "simulate an embedded/sandboxed context")
	cmd.Flags().BoolVar(&opts.sim.ReducedMotion, "reduced-motion", false, "simulate prefers-reduced-motion")
	cmd.Flags().BoolVar(&opts.sim.Touch, "touch", false, "simulate a touch-primary device")
	cmd.Flags().BoolVar(&opts.sim.NoPrimitives, "no-primitives", false, "simulate missing animation primitives")
	cmd.Flags().BoolVar(&opts.sim.Smooth, "smooth", false, "enable the smooth-scroll layer")
	cmd.Flags().Float64Var(&opts.sim.Width, "width", 0, "viewport width (default 1440)")
	cmd.Flags().Float64Var(&opts.sim.Height, "height", 0, "viewport height (default 900)")

	return cmd
}

// runSummary is the run command's output payload.
type runSummary struct {
	Page       string         `json:"page"`
	Token      string         `json:"token,omitempty"`
	State      string         `json:"state"`
	Directives int            `json:"directives"`
	Events     int            `json:"events"`
	ByKind     map[string]int `json:"by_kind"`
}

func (s runSummary) String() string {
	kinds := make([]string, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	out := fmt.Sprintf("page:       %s\nstate:      %s\ndirectives: %d\nevents:     %d\n",
		s.Page, s.State, s.Directives, s.Events)
	for _, k := range kinds {
		out += fmt.Sprintf("  %-13s %d\n", k, s.ByKind[k])
	}
	if s.Token != "" {
		out += fmt.Sprintf("token:      %s\n", s.Token)
	}
	return out
}

func runPage(cmd *cobra.Command, opts *RunOptions, pagePath string) error {
	configureLogging(opts.Verbose)

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	res, err := simulate(pagePath, opts.sim)
	if err != nil {
		return WrapExitError(ExitCommandError, "simulation failed", err)
	}

	summary := runSummary{
		Page:       pagePath,
		State:      res.State,
		Directives: res.Directives,
		Events:     len(res.Events),
		ByKind:     countByKind(res.Events),
	}

	if opts.Database != "" {
		token := opts.Token
		if token == "" {
			token = tokenSource.Generate()
		}
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		run := store.Run{
			Token:   token,
			Page:    pagePath,
			Profile: describeProfile(res.Profile),
			Options: encodeSimOptions(opts.sim),
		}
		if err := st.SaveTrace(cmd.Context(), run, res.Events); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist trace", err)
		}
		summary.Token = token
		out.VerboseLog("trace persisted: %s (%d events)", token, len(res.Events))
	}

	if opts.Verbose {
		for _, ev := range res.Events {
			out.VerboseLog("%5d %-13s %-18s %-20s %s", ev.Seq, ev.Kind, ev.Effect, ev.Target, ev.Detail)
		}
	}

	return out.Success(summary)
}
