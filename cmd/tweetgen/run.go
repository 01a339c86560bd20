package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/tweetgen/pkg/archive"
	"github.com/CTAG07/tweetgen/pkg/markov"
)

// generateRequest holds the positional arguments of a generation run.
type generateRequest struct {
	Seed       uint64
	Tweets     int
	CorpusPath string
	MaxWords   int // 0 means the whole corpus is read
}

// buildModel opens the corpus and ingests it into a fresh model.
func buildModel(ctx context.Context, config *Config, corpusPath string, maxWords int, logger *slog.Logger) (*markov.Generator, error) {
	file, err := os.Open(corpusPath)
	if err != nil {
		return nil, newCLIError(filePathError, err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	model := markov.NewModel(
		markov.WithMaxNodes(config.Generation.MaxNodes),
		markov.WithMaxEdges(config.Generation.MaxEdges),
	)
	gen := markov.NewGenerator(model, markov.NewWhitespaceTokenizer())
	gen.SetLogger(logger)

	_, err = gen.Ingest(ctx, file,
		markov.WithTokenBudget(maxWords),
		markov.WithCrossLineLinks(config.Generation.CrossLineLinks),
	)
	if err != nil {
		if errors.Is(err, markov.ErrAllocation) {
			return nil, newCLIError(allocationErrorMsg, err)
		}
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return gen, nil
}

// runGenerate builds the model, prints the requested tweets to out and, when
// configured, dumps the model and archives the run.
func runGenerate(ctx context.Context, config *Config, req generateRequest, out io.Writer, logger *slog.Logger) error {
	gen, err := buildModel(ctx, config, req.CorpusPath, req.MaxWords, logger)
	if err != nil {
		return err
	}

	if config.Generation.DumpPath != "" {
		var buf bytes.Buffer
		if err = gen.ExportModel(ctx, &buf); err != nil {
			return fmt.Errorf("failed to export model: %w", err)
		}
		if err = atomic.WriteFile(config.Generation.DumpPath, &buf); err != nil {
			return fmt.Errorf("failed to write model dump: %w", err)
		}
	}

	rng := markov.NewRand(req.Seed)
	lines := make([]string, 0, req.Tweets)
	for i := 1; i <= req.Tweets; i++ {
		tokens, err := gen.Generate(ctx, rng, markov.WithMaxLength(config.Generation.MaxTweetLength))
		if err != nil {
			if errors.Is(err, markov.ErrNoStartNode) {
				return newCLIError(noStartNodeError, err)
			}
			return err
		}
		line := fmt.Sprintf("Tweet %d: %s", i, gen.Render(tokens))
		if _, err = fmt.Fprintln(out, line); err != nil {
			return err
		}
		lines = append(lines, line)
	}

	if !config.Archive.Enabled {
		return nil
	}

	stats := gen.Model().Stats()
	return withArchive(config, logger, func(a *archive.Archive) error {
		run, err := a.RecordRun(ctx, archive.Run{
			Seed:            req.Seed,
			Corpus:          req.CorpusPath,
			TweetsRequested: req.Tweets,
			MaxWords:        req.MaxWords,
			Nodes:           stats.Nodes,
			Edges:           stats.Edges,
		}, lines)
		if err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
		logger.InfoContext(ctx, "Run recorded", slog.String("run_id", run.ID))
		return nil
	})
}

// withArchive opens the configured archive database for the duration of fn.
func withArchive(config *Config, logger *slog.Logger, fn func(*archive.Archive) error) error {
	if err := os.MkdirAll(filepath.Dir(config.Archive.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	db, err := openDB(config.Archive.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open archive database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close archive database", "error", err)
		}
	}()

	if err = archive.SetupSchema(db); err != nil {
		return err
	}
	a, err := archive.New(db)
	if err != nil {
		return fmt.Errorf("failed to prepare archive: %w", err)
	}
	defer a.Close()
	a.SetLogger(logger)

	return fn(a)
}
