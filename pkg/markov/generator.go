package markov

import (
	"io"
	"log/slog"
	"math/rand/v2"
)

// Rand is the source of randomness for generation. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform integer in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRand returns a deterministic pseudo-random generator for seed. The same
// seed always yields the same sequence of draws.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Generator is the main entry point for the package. It pairs a Model with
// the Tokenizer used to fill it and to render walks over it.
type Generator struct {
	model     *Model
	tokenizer Tokenizer
	logger    *slog.Logger
}

// NewGenerator creates a Generator over model. A nil model is replaced with an
// empty one, and a nil tokenizer with a default WhitespaceTokenizer.
func NewGenerator(model *Model, tokenizer Tokenizer) *Generator {
	if model == nil {
		model = NewModel()
	}
	if tokenizer == nil {
		tokenizer = NewWhitespaceTokenizer()
	}
	return &Generator{
		model:     model,
		tokenizer: tokenizer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
// Providing a `log/slog.Logger` will enable logging for ingestion and generation.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Model returns the model the Generator reads and ingests into.
func (g *Generator) Model() *Model {
	return g.model
}
