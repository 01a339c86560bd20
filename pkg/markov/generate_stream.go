package markov

import (
	"iter"
	"log/slog"
)

// WalkSeq returns an iterator over a weighted random walk that begins at
// start. The start node's text is always yielded first. After that, while
// fewer than maxLength tokens have been yielded and the current node is not a
// sentence terminator, a successor is drawn with probability proportional to
// its edge count and yielded in turn. The walk also stops at a node with no
// edges. Nothing is yielded if maxLength < 1 or start is not in the model.
//
// Each call to the returned iterator performs a fresh walk, consuming draws
// from rng.
func (g *Generator) WalkSeq(rng Rand, start NodeID, maxLength int) iter.Seq[string] {
	return func(yield func(string) bool) {
		current := g.model.Node(start)
		if current == nil || maxLength < 1 {
			return
		}
		if !yield(current.Text) {
			return
		}

		for emitted := 1; emitted < maxLength; emitted++ {
			if current.Terminator() {
				g.logger.Debug("Walk terminated by sentence terminator", slog.Int("generated_length", emitted))
				return
			}
			if len(current.Edges) == 0 {
				g.logger.Debug("Walk terminated due to dead-end", slog.String("last_token", current.Text), slog.Int("generated_length", emitted))
				return
			}

			idx := chooseNextEdge(current.Edges, rng.IntN(current.total))
			current = g.model.nodes[current.Edges[idx].To]
			if !yield(current.Text) {
				return
			}
		}
	}
}
