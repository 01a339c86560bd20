package markov

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
)

// ExportedModel is the serializable representation of a trained model, used
// to inspect what ingestion produced. Node ids are positions in Vocabulary.
type ExportedModel struct {
	Vocabulary []string        `json:"vocabulary"`
	Chains     []ExportedChain `json:"chains"`
	Stats      ModelStats      `json:"stats"`
}

// ExportedChain is the serializable representation of a single edge.
type ExportedChain struct {
	From      int `json:"from"`
	To        int `json:"to"`
	Frequency int `json:"frequency"`
}

// ExportModel serializes the model into indented JSON and writes it to w.
// Vocabulary and chains are written in insertion order, so the output is
// stable for a given corpus.
func (g *Generator) ExportModel(ctx context.Context, w io.Writer) error {
	vocabulary := make([]string, 0, len(g.model.nodes))
	var chains []ExportedChain
	for id, node := range g.model.nodes {
		vocabulary = append(vocabulary, node.Text)
		for _, edge := range node.Edges {
			chains = append(chains, ExportedChain{From: id, To: int(edge.To), Frequency: edge.Count})
		}
	}

	exported := ExportedModel{
		Vocabulary: vocabulary,
		Chains:     chains,
		Stats:      g.model.Stats(),
	}

	g.logger.InfoContext(ctx, "Model exported",
		slog.Int("vocab_items_exported", len(vocabulary)),
		slog.Int("chains_exported", len(chains)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exported)
}
