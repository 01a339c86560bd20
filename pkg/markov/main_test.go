package markov

import (
	"context"
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestGenerator creates a Generator over a fresh model and ingests corpus into it.
func setupTestGenerator(t *testing.T, corpus string, opts ...IngestOption) *Generator {
	t.Helper()
	g := NewGenerator(NewModel(), NewWhitespaceTokenizer())
	if _, err := g.Ingest(context.Background(), strings.NewReader(corpus), opts...); err != nil {
		t.Fatalf("setup: Ingest() failed: %v", err)
	}
	return g
}

// mustLookup returns the id for text or fails the test.
func mustLookup(t *testing.T, m *Model, text string) NodeID {
	t.Helper()
	id, ok := m.Lookup(text)
	if !ok {
		t.Fatalf("expected %q to be in the model", text)
	}
	return id
}

// edgeCount returns the count of the edge from -> to, or 0 if there is none.
func edgeCount(m *Model, from, to NodeID) int {
	for _, edge := range m.Node(from).Edges {
		if edge.To == to {
			return edge.Count
		}
	}
	return 0
}

// scriptedRand replays a fixed sequence of draws and records every bound it was asked for.
type scriptedRand struct {
	draws  []int
	bounds []int
}

func (r *scriptedRand) IntN(n int) int {
	r.bounds = append(r.bounds, n)
	if len(r.draws) == 0 {
		return 0
	}
	d := r.draws[0]
	r.draws = r.draws[1:]
	return d % n
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
