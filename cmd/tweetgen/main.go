package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by every command.
type rootOptions struct {
	configPath     string
	logLevel       string
	maxTweetLength int
	crossLineLinks bool
	archivePath    string
	dumpPath       string
}

// loadConfig builds the effective configuration: defaults, then the config
// file if one was given, then any flags set on the command line.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*Config, error) {
	config := DefaultConfig()
	if o.configPath != "" {
		var err error
		if config, err = LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		config.LogLevel = o.logLevel
	}
	if flags.Changed("max-length") {
		config.Generation.MaxTweetLength = o.maxTweetLength
	}
	if flags.Changed("cross-line") {
		config.Generation.CrossLineLinks = o.crossLineLinks
	}
	if flags.Changed("dump") {
		config.Generation.DumpPath = o.dumpPath
	}
	if flags.Changed("archive") {
		config.Archive.Enabled = o.archivePath != ""
		config.Archive.DatabasePath = o.archivePath
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func newLogger(w io.Writer, config *Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
}

// parsePositive parses a strictly positive integer argument.
func parsePositive(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, newCLIError(positiveIntError, err)
	}
	return n, nil
}

// parseGenerateArgs validates `<seed> <tweets> <corpus> [max_words]`.
func parseGenerateArgs(args []string) (generateRequest, error) {
	var req generateRequest
	if len(args) != 3 && len(args) != 4 {
		return req, newCLIError(numArgsError, nil)
	}

	seed, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return req, newCLIError(seedError, err)
	}
	req.Seed = seed

	if req.Tweets, err = parsePositive(args[1]); err != nil {
		return req, err
	}
	req.CorpusPath = args[2]

	if len(args) == 4 {
		if req.MaxWords, err = parsePositive(args[3]); err != nil {
			return req, err
		}
	}
	return req, nil
}

// numericFlagError turns the parse error for a negative number such as "-3",
// which pflag reads as an unknown shorthand, into the message for the
// positional argument it was meant to be. The seed is the first positional,
// so a negative value seen before any other positional is reported as a bad
// seed.
func numericFlagError(cmd *cobra.Command, err error) error {
	var notExist *pflag.NotExistError
	if !errors.As(err, &notExist) {
		return err
	}
	if _, convErr := strconv.Atoi(notExist.GetSpecifiedShortnames()); convErr != nil {
		return err
	}
	if cmd == cmd.Root() && cmd.Flags().NArg() == 0 {
		return newCLIError(seedError, err)
	}
	return newCLIError(positiveIntError, err)
}

// newRootCmd assembles the command tree. Output goes to the command's
// configured writers so tests can capture it.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tweetgen <seed> <tweets> <corpus> [max_words]",
		Short: "Generate pseudo-random tweets from a text corpus",
		Long: `tweetgen builds a word-transition model from a text corpus and walks it
to print short pseudo-random sentences. The same seed, corpus and arguments
always produce the same output.

max_words, when given, limits how many words of the corpus are read.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseGenerateArgs(args)
			if err != nil {
				return err
			}
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), config)
			return runGenerate(cmd.Context(), config, req, cmd.OutOrStdout(), logger)
		},
	}

	rootCmd.SetFlagErrorFunc(numericFlagError)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (.json, .yaml or .yml); created with defaults if missing")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.IntVar(&opts.maxTweetLength, "max-length", 20, "maximum number of words per tweet (1-20)")
	flags.BoolVar(&opts.crossLineLinks, "cross-line", false, "link the last word of a line to the first word of the next")
	flags.StringVar(&opts.archivePath, "archive", "", "record runs in this SQLite database")
	flags.StringVar(&opts.dumpPath, "dump", "", "write the built model as JSON to this path")

	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
