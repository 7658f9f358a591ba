package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageforge/flourish/internal/store"
	"github.com/pageforge/flourish/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Kind     string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-token]",
		Short: "Inspect stored run traces",
		Long: `Without a token, list all stored runs. With a token, dump that run's
trace in sequence order, optionally filtered by event kind.

Example:
  flourish trace --db ./runs.db
  flourish trace --db ./runs.db 3f6e... --kind force_reveal`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listRuns(cmd, opts)
			}
			return dumpTrace(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show events of this kind")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// runList is the trace command's listing payload.
type runList struct {
	Runs []store.RunInfo `json:"runs"`
}

func (l runList) String() string {
	if len(l.Runs) == 0 {
		return "no stored runs"
	}
	out := fmt.Sprintf("%d runs\n", len(l.Runs))
	for _, r := range l.Runs {
		out += fmt.Sprintf("  %s  %-24s %5d events  %s\n", r.Token, r.Page, r.EventCount, r.CreatedAt)
	}
	return out
}

func listRuns(cmd *cobra.Command, opts *TraceOptions) error {
	configureLogging(opts.Verbose)
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	return out.Success(runList{Runs: runs})
}

// traceDump is the trace command's single-run payload.
type traceDump struct {
	Token  string        `json:"token"`
	Page   string        `json:"page"`
	Events []trace.Event `json:"events"`
}

func (d traceDump) String() string {
	out := fmt.Sprintf("run %s (%s): %d events\n", d.Token, d.Page, len(d.Events))
	for _, ev := range d.Events {
		out += fmt.Sprintf("%5d %-13s %-18s %-20s %s\n", ev.Seq, ev.Kind, ev.Effect, ev.Target, ev.Detail)
	}
	return out
}

func dumpTrace(cmd *cobra.Command, opts *TraceOptions, token string) error {
	configureLogging(opts.Verbose)
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	if run == nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", token))
	}

	events, err := st.ReadTrace(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	if opts.Kind != "" {
		filtered := events[:0]
		for _, ev := range events {
			if string(ev.Kind) == opts.Kind {
				filtered = append(filtered, ev)
			}
		}
		events = filtered
	}

	return out.Success(traceDump{Token: token, Page: run.Page, Events: events})
}
