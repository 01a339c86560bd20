package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// executeCmd runs the CLI with args and returns what it wrote to stdout.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// writeCorpus writes content to a temporary corpus file and returns its path.
func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fishCorpus = `one fish two fish. red fish blue fish.
black fish blue fish. old fish new fish.
this one has a little star. this one has a little car.
say what a lot of fish there are.
`
