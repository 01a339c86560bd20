package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// IngestStats summarises a completed ingestion.
type IngestStats struct {
	Tokens        int   // Tokens consumed from the corpus.
	Lines         int   // Non-empty lines that contributed at least one token.
	Bytes         int64 // Bytes read from the underlying reader, including read-ahead.
	BudgetReached bool  // Whether the token budget was used up. The input may have had nothing left.
}

type ingestOptions struct {
	maxTokens      int
	crossLineLinks bool
}

// IngestOption is a function that configures ingestion.
type IngestOption func(*ingestOptions)

// WithTokenBudget stops ingestion once n tokens have been consumed. The rest
// of the input is left unread. A value of 0 or less means unlimited.
func WithTokenBudget(n int) IngestOption {
	return func(o *ingestOptions) { o.maxTokens = n }
}

// WithCrossLineLinks controls whether the last token of a line is linked to
// the first token of the next one. By default each line starts a fresh chain.
// Tokens ending a sentence are never linked forward either way.
func WithCrossLineLinks(enabled bool) IngestOption {
	return func(o *ingestOptions) { o.crossLineLinks = enabled }
}

// Ingest reads a corpus from data, interning each token and linking it to the
// token before it unless that one ends a sentence. Any ErrAllocation aborts
// the ingestion immediately; the model is then only partially built and
// should be discarded.
func (g *Generator) Ingest(ctx context.Context, data io.Reader, opts ...IngestOption) (IngestStats, error) {
	options := &ingestOptions{}
	for _, opt := range opts {
		opt(options)
	}

	counter := &countingReader{r: data}
	stream := g.tokenizer.NewStream(counter)

	var stats IngestStats
	var prev NodeID
	hasPrev := false

	fail := func(err error) (IngestStats, error) {
		stats.Bytes = counter.n
		return stats, err
	}

	for {
		if options.maxTokens > 0 && stats.Tokens >= options.maxTokens {
			stats.BudgetReached = true
			break
		}

		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fail(fmt.Errorf("tokenizer error: %w", err))
		}

		if token.NewLine {
			if err = ctx.Err(); err != nil {
				return fail(err)
			}
			stats.Lines++
			if !options.crossLineLinks {
				hasPrev = false
			}
		}

		id, err := g.model.Intern(token.Text)
		if err != nil {
			return fail(fmt.Errorf("could not add token %q: %w", token.Text, err))
		}

		if hasPrev && !g.model.nodes[prev].Terminator() {
			if err = g.model.Link(prev, id); err != nil {
				return fail(fmt.Errorf("could not link tokens: %w", err))
			}
		}

		prev = id
		hasPrev = true
		stats.Tokens++
	}

	stats.Bytes = counter.n
	modelStats := g.model.Stats()

	g.logger.InfoContext(ctx, "Ingestion completed",
		slog.Int("tokens_read", stats.Tokens),
		slog.Int("lines_read", stats.Lines),
		slog.String("bytes_read", humanize.Bytes(uint64(stats.Bytes))),
		slog.Bool("budget_reached", stats.BudgetReached),
		slog.Int("nodes", modelStats.Nodes),
		slog.Int("edges", modelStats.Edges),
	)

	return stats, nil
}

// countingReader tracks how many bytes have been read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
