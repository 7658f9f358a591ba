package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageforge/flourish/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <page.html> <run-token>",
		Short: "Verify a stored run replays identically",
		Long: `Re-simulate a stored run and compare the fresh trace event-for-event
against the persisted one. The simulation environment is rebuilt from the
options recorded with the run, so the page content and the engine are the
only variables: any divergence is a bug, and the first one is reported
with both sides.

Exit codes:
  0 - traces identical
  1 - traces diverge
  2 - command error

Example:
  flourish replay ./page.html 3f6e... --db ./runs.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return replayRun(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// replaySummary is the replay command's output payload.
type replaySummary struct {
	Token      string `json:"token"`
	Stored     int    `json:"stored"`
	Replayed   int    `json:"replayed"`
	Match      bool   `json:"match"`
	Divergence string `json:"divergence,omitempty"`
}

func (s replaySummary) String() string {
	if s.Match {
		return fmt.Sprintf("run %s: deterministic (%d events)", s.Token, s.Stored)
	}
	return fmt.Sprintf("run %s: DIVERGED\n  stored %d events, replayed %d\n  %s",
		s.Token, s.Stored, s.Replayed, s.Divergence)
}

func replayRun(cmd *cobra.Command, opts *ReplayOptions, pagePath, token string) error {
	configureLogging(opts.Verbose)
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	info, err := st.GetRun(cmd.Context(), token)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}
	if info == nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s not found", token))
	}

	simOpts, err := decodeSimOptions(info.Options)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load run", err)
	}

	res, err := simulate(pagePath, simOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "simulation failed", err)
	}

	report, err := st.Verify(cmd.Context(), token, res.Events)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay verification failed", err)
	}

	summary := replaySummary{
		Token:    report.Token,
		Stored:   report.Stored,
		Replayed: report.Replayed,
		Match:    report.Match,
	}
	if report.Divergence != nil {
		d := report.Divergence
		summary.Divergence = fmt.Sprintf("first divergence at index %d: %s", d.Index, d.Reason)
		if d.Stored != nil {
			summary.Divergence += fmt.Sprintf("\n  stored: %+v", *d.Stored)
		}
		if d.Live != nil {
			summary.Divergence += fmt.Sprintf("\n  replay: %+v", *d.Live)
		}
	}

	if err := out.Success(summary); err != nil {
		return err
	}
	if !report.Match {
		return NewExitError(ExitFailure, "replay diverged from stored trace")
	}
	return nil
}
