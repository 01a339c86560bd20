package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/CTAG07/tweetgen/pkg/archive"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List archived runs, or print one run and its tweets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if !config.Archive.Enabled {
				return errors.New("Error: no archive configured (use --archive or archive_config)")
			}
			logger := newLogger(cmd.ErrOrStderr(), config)
			out := cmd.OutOrStdout()

			return withArchive(config, logger, func(a *archive.Archive) error {
				if len(args) == 1 {
					run, err := a.GetRun(cmd.Context(), args[0])
					if errors.Is(err, sql.ErrNoRows) {
						return fmt.Errorf("Error: no archived run %q", args[0])
					}
					if err != nil {
						return err
					}
					if err = printRun(out, run); err != nil {
						return err
					}

					lines, err := a.Lines(cmd.Context(), run.ID)
					if err != nil {
						return err
					}
					for _, line := range lines {
						if _, err = fmt.Fprintln(out, line); err != nil {
							return err
						}
					}
					return nil
				}

				runs, err := a.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				for _, run := range runs {
					if err = printRun(out, run); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list (0 for all)")
	return cmd
}

// printRun writes the one-line summary of a run used by the history listing.
func printRun(w io.Writer, run archive.Run) error {
	maxWords := "all"
	if run.MaxWords > 0 {
		maxWords = fmt.Sprint(run.MaxWords)
	}
	_, err := fmt.Fprintf(w, "%s  %s  seed=%d tweets=%d max_words=%s nodes=%d corpus=%s\n",
		run.ID, run.CreatedAt.Format(time.RFC3339), run.Seed, run.TweetsRequested,
		maxWords, run.Nodes, run.Corpus)
	return err
}
