package markov

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// DefaultDelimiters are the bytes that separate tokens in a corpus.
const DefaultDelimiters = " \t\r\n"

// WhitespaceTokenizer is the default implementation of the Tokenizer interface.
// It splits input on a fixed set of delimiter characters and
// marks tokens ending in '.' as End-Of-Chain (EOC) tokens.
// Its behavior can be customized with functional options.
type WhitespaceTokenizer struct {
	separator  string
	delimiters string
}

// Option is a function that configures a WhitespaceTokenizer.
type Option func(*WhitespaceTokenizer)

// WithSeparator sets the string used for joining tokens during rendering.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *WhitespaceTokenizer) {
		t.separator = sep
	}
}

// WithDelimiters sets the characters that split input text into tokens.
// Consecutive delimiters collapse and never produce empty tokens.
// Default: DefaultDelimiters
func WithDelimiters(delims string) Option {
	return func(t *WhitespaceTokenizer) {
		t.delimiters = delims
	}
}

// NewWhitespaceTokenizer creates a new tokenizer with default settings, which
// can be overridden by providing one or more Option functions.
func NewWhitespaceTokenizer(opts ...Option) *WhitespaceTokenizer {
	t := &WhitespaceTokenizer{
		separator:  " ",
		delimiters: DefaultDelimiters,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Separator returns the configured separator string.
func (t *WhitespaceTokenizer) Separator(_, _ string) string {
	return t.separator
}

// NewStream returns the stream processor.
func (t *WhitespaceTokenizer) NewStream(r io.Reader) StreamTokenizer {
	return &WhitespaceStreamTokenizer{
		reader:     bufio.NewReader(r),
		delimiters: t.delimiters,
		lineStart:  true,
	}
}

// WhitespaceStreamTokenizer is the stream half of WhitespaceTokenizer. It reads
// the input a rune at a time, so neither lines nor words have a length limit.
// A '\n' always ends a line, whether or not it is one of the delimiters.
type WhitespaceStreamTokenizer struct {
	reader     *bufio.Reader
	delimiters string
	word       strings.Builder
	lineStart  bool
}

// Next returns the next token from the stream. It returns a Token and a nil error on
// success. When the stream is exhausted, it returns a nil Token and io.EOF.
// Any other error indicates a problem reading from the underlying stream.
func (s *WhitespaceStreamTokenizer) Next() (*Token, error) {
	s.word.Reset()
	for {
		r, size, err := s.reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) && s.word.Len() > 0 {
				return s.token(), nil
			}
			return nil, err
		}

		// Invalid UTF-8 is kept byte for byte.
		if r == utf8.RuneError && size == 1 {
			_ = s.reader.UnreadRune()
			b, _ := s.reader.ReadByte()
			s.word.WriteByte(b)
			continue
		}

		if r != '\n' && !s.isDelimiter(r) {
			s.word.WriteRune(r)
			continue
		}

		if s.word.Len() > 0 {
			token := s.token()
			if r == '\n' {
				s.lineStart = true
			}
			return token, nil
		}
		if r == '\n' {
			s.lineStart = true
		}
	}
}

// token builds a Token from the pending word and clears the line-start mark.
func (s *WhitespaceStreamTokenizer) token() *Token {
	word := s.word.String()
	newLine := s.lineStart
	s.lineStart = false
	return &Token{Text: word, EOC: IsTerminator(word), NewLine: newLine}
}

func (s *WhitespaceStreamTokenizer) isDelimiter(r rune) bool {
	return strings.ContainsRune(s.delimiters, r)
}
