package markov

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// DefaultMaxLength is the hard ceiling on the number of tokens in one
// generated sentence.
const DefaultMaxLength = 20

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	maxLength int
}

// GenerateOption is a function that configures generation parameters.
type GenerateOption func(*generateOptions)

// WithMaxLength sets the maximum number of tokens to generate. The walk may
// stop earlier at a sentence terminator or a node with no successors.
func WithMaxLength(n int) GenerateOption {
	return func(o *generateOptions) { o.maxLength = n }
}

// PickStart draws a uniform random node, drawing again whenever it lands on a
// sentence terminator. It returns ErrNoStartNode instead of looping when the
// model is empty or holds only terminators.
func (g *Generator) PickStart(rng Rand) (NodeID, error) {
	if g.model.starters == 0 {
		return 0, ErrNoStartNode
	}
	for {
		id := NodeID(rng.IntN(len(g.model.nodes)))
		if !g.model.nodes[id].Terminator() {
			return id, nil
		}
	}
}

// Walk performs a weighted random walk from start and returns the emitted
// tokens. See WalkSeq.
func (g *Generator) Walk(rng Rand, start NodeID, maxLength int) []string {
	return slices.Collect(g.WalkSeq(rng, start, maxLength))
}

// Generate picks a start node and walks from it, returning at most the
// configured maximum number of tokens (DefaultMaxLength unless overridden).
func (g *Generator) Generate(ctx context.Context, rng Rand, opts ...GenerateOption) ([]string, error) {
	options := &generateOptions{
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(options)
	}

	start, err := g.PickStart(rng)
	if err != nil {
		return nil, err
	}

	tokens := g.Walk(rng, start, options.maxLength)

	g.logger.DebugContext(ctx, "Sentence generated",
		slog.String("start", g.model.nodes[start].Text),
		slog.Int("max_length", options.maxLength),
		slog.Int("generated_length", len(tokens)),
	)
	return tokens, nil
}

// Render joins tokens into a single line using the tokenizer's separator.
func (g *Generator) Render(tokens []string) string {
	var builder strings.Builder
	for i, text := range tokens {
		if i > 0 {
			builder.WriteString(g.tokenizer.Separator(tokens[i-1], text))
		}
		builder.WriteString(text)
	}
	return builder.String()
}

// chooseNextEdge returns the index of the edge selected by draw, a value in
// [0, total of counts). Edges own consecutive ranges of draws in list order,
// so the first edge whose running count exceeds draw wins.
func chooseNextEdge(edges []Edge, draw int) int {
	cumulative := 0
	for i, edge := range edges {
		cumulative += edge.Count
		if draw < cumulative {
			return i
		}
	}
	return -1
}
