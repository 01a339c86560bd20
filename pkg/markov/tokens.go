package markov

import (
	"io"
	"strings"
)

// Token represents a single tokenized unit of text. EOC is set when the token
// ends a sentence, NewLine when it is the first token of an input line.
type Token struct {
	Text    string
	EOC     bool
	NewLine bool
}

// Tokenizer is an interface that defines the contract for splitting input text
// into tokens. This allows the ingestion logic to be independent of the
// specific tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Separator returns the string placed between the previous and current
	// tokens when rendering a generated sentence.
	Separator(prev, current string) string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one token at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (*Token, error)
}

// IsTerminator reports whether text ends a sentence, i.e. ends with '.'.
func IsTerminator(text string) bool {
	return strings.HasSuffix(text, ".")
}
