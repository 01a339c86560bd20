package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/CTAG07/tweetgen/pkg/markov"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <corpus> [max_words]",
		Short: "Build the model from a corpus and print its statistics",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var maxWords int
			if len(args) == 2 {
				var err error
				if maxWords, err = parsePositive(args[1]); err != nil {
					return err
				}
			}
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), config)

			gen, err := buildModel(cmd.Context(), config, args[0], maxWords, logger)
			if err != nil {
				return err
			}
			stats := gen.Model().Stats()

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(stats)
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	return cmd
}

func printStats(w io.Writer, stats markov.ModelStats) error {
	_, err := fmt.Fprintf(w,
		"Nodes:           %s\nEdges:           %s\nTransitions:     %s\nStarting nodes:  %s\nTerminators:     %s\nDead ends:       %s\n",
		humanize.Comma(int64(stats.Nodes)),
		humanize.Comma(int64(stats.Edges)),
		humanize.Comma(int64(stats.TotalFrequency)),
		humanize.Comma(int64(stats.StartingNodes)),
		humanize.Comma(int64(stats.Terminators)),
		humanize.Comma(int64(stats.DeadEnds)),
	)
	return err
}
