package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CTAG07/tweetgen/pkg/markov"
)

func TestGenerateOutput(t *testing.T) {
	corpus := writeCorpus(t, fishCorpus)

	out, err := executeCmd(t, "42", "5", corpus)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)
	for i, line := range lines {
		prefix := fmt.Sprintf("Tweet %d: ", i+1)
		require.True(t, strings.HasPrefix(line, prefix), "line %q should start with %q", line, prefix)

		words := strings.Fields(strings.TrimPrefix(line, prefix))
		assert.NotEmpty(t, words)
		assert.LessOrEqual(t, len(words), markov.DefaultMaxLength)
		assert.False(t, markov.IsTerminator(words[0]), "tweet %q starts with a terminator", line)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	corpus := writeCorpus(t, fishCorpus)

	first, err := executeCmd(t, "1234", "10", corpus)
	require.NoError(t, err)
	second, err := executeCmd(t, "1234", "10", corpus)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateWordBudget(t *testing.T) {
	corpus := writeCorpus(t, "a b c d e\n")

	// Only "a" is read, so it is the only possible start and it has no successors.
	out, err := executeCmd(t, "7", "3", corpus, "1")
	require.NoError(t, err)
	assert.Equal(t, "Tweet 1: a\nTweet 2: a\nTweet 3: a\n", out)
}

func TestGenerateMaxLengthFlag(t *testing.T) {
	corpus := writeCorpus(t, "a b a b a b\n")

	out, err := executeCmd(t, "--max-length", "3", "9", "2", corpus)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		_, tweet, _ := strings.Cut(line, ": ")
		assert.Len(t, strings.Fields(tweet), 3)
	}

	_, err = executeCmd(t, "--max-length", "21", "9", "2", corpus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at most 20")
}

func TestGenerateArgumentErrors(t *testing.T) {
	corpus := writeCorpus(t, fishCorpus)

	testCases := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "Too few arguments", args: []string{"1", "2"}, expected: numArgsError},
		{name: "Too many arguments", args: []string{"1", "2", corpus, "4", "5"}, expected: numArgsError},
		{name: "Zero tweets", args: []string{"1", "0", corpus}, expected: positiveIntError},
		{name: "Non-numeric tweets", args: []string{"1", "many", corpus}, expected: positiveIntError},
		{name: "Zero max words", args: []string{"1", "2", corpus, "0"}, expected: positiveIntError},
		{name: "Negative tweets", args: []string{"1", "-3", corpus}, expected: positiveIntError},
		{name: "Negative max words", args: []string{"1", "2", corpus, "-5"}, expected: positiveIntError},
		{name: "Bad seed", args: []string{"seed", "2", corpus}, expected: seedError},
		{name: "Negative seed", args: []string{"-1", "2", corpus}, expected: seedError},
		{name: "Missing corpus", args: []string{"1", "2", filepath.Join(t.TempDir(), "missing.txt")}, expected: filePathError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := executeCmd(t, tc.args...)
			require.Error(t, err)
			assert.Equal(t, tc.expected, err.Error())
			assert.Empty(t, out)
		})
	}
}

func TestUnknownFlagIsReported(t *testing.T) {
	corpus := writeCorpus(t, fishCorpus)

	_, err := executeCmd(t, "-x", "1", "2", corpus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shorthand flag: 'x'")

	_, err = executeCmd(t, "stats", corpus, "-7")
	require.Error(t, err)
	assert.Equal(t, positiveIntError, err.Error())
}

func TestGenerateNoStartNode(t *testing.T) {
	corpus := writeCorpus(t, "one.\ntwo.\nthree.\n")

	_, err := executeCmd(t, "1", "2", corpus)
	require.Error(t, err)
	assert.Equal(t, noStartNodeError, err.Error())
	assert.True(t, errors.Is(err, markov.ErrNoStartNode))
}

func TestGenerateAllocationFailure(t *testing.T) {
	corpus := writeCorpus(t, fishCorpus)
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"generation_config": {"max_tweet_length": 20, "max_nodes": 2}}`), 0o644))

	_, err := executeCmd(t, "--config", configPath, "1", "2", corpus)
	require.Error(t, err)
	assert.Equal(t, allocationErrorMsg, err.Error())
	assert.True(t, errors.Is(err, markov.ErrAllocation))
}

func TestGenerateDump(t *testing.T) {
	corpus := writeCorpus(t, "cat sat. dog ran\n")
	dumpPath := filepath.Join(t.TempDir(), "model.json")

	_, err := executeCmd(t, "--dump", dumpPath, "1", "1", corpus)
	require.NoError(t, err)

	data, err := os.ReadFile(dumpPath)
	require.NoError(t, err)

	var exported markov.ExportedModel
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, []string{"cat", "sat.", "dog", "ran"}, exported.Vocabulary)
	assert.Len(t, exported.Chains, 2)
}

func TestArchiveAndHistory(t *testing.T) {
	corpus := writeCorpus(t, fishCorpus)
	dbPath := filepath.Join(t.TempDir(), "archive", "runs.db")

	out, err := executeCmd(t, "--archive", dbPath, "99", "3", corpus)
	require.NoError(t, err)

	listing, err := executeCmd(t, "--archive", dbPath, "history")
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSuffix(listing, "\n"), "\n")
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0], "seed=99 tweets=3 max_words=all")
	assert.Contains(t, rows[0], "corpus="+corpus)

	runID := strings.Fields(rows[0])[0]
	shown, err := executeCmd(t, "--archive", dbPath, "history", runID)
	require.NoError(t, err)
	assert.Equal(t, rows[0]+"\n"+out, shown)

	_, err = executeCmd(t, "--archive", dbPath, "history", "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no archived run "no-such-run"`)
}

func TestHistoryRequiresArchive(t *testing.T) {
	_, err := executeCmd(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no archive configured")
}

func TestStatsCommand(t *testing.T) {
	corpus := writeCorpus(t, "cat sat. dog ran\nlonely\n")

	out, err := executeCmd(t, "stats", corpus)
	require.NoError(t, err)
	assert.Contains(t, out, "Nodes:           5")
	assert.Contains(t, out, "Terminators:     1")
	assert.Contains(t, out, "Dead ends:       2")

	out, err = executeCmd(t, "stats", "--json", corpus, "2")
	require.NoError(t, err)
	var stats markov.ModelStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, markov.ModelStats{Nodes: 2, Edges: 1, TotalFrequency: 1, StartingNodes: 1, Terminators: 1}, stats)
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tweetgen "+Version)
}
