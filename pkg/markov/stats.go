package markov

// ModelStats holds aggregated statistics for a Model.
type ModelStats struct {
	Nodes          int `json:"nodes"`           // The number of distinct tokens.
	Edges          int `json:"edges"`           // The number of unique node->successor links.
	TotalFrequency int `json:"total_frequency"` // The sum of all edge counts; the total number of trained transitions.
	StartingNodes  int `json:"starting_nodes"`  // The number of nodes a sentence can begin with.
	Terminators    int `json:"terminators"`     // The number of nodes that end a sentence.
	DeadEnds       int `json:"dead_ends"`       // Non-terminator nodes with no outgoing edges.
}

// Stats returns a snapshot of statistics for the model.
func (m *Model) Stats() ModelStats {
	stats := ModelStats{
		Nodes:         len(m.nodes),
		Edges:         m.edges,
		StartingNodes: m.starters,
		Terminators:   len(m.nodes) - m.starters,
	}
	for _, node := range m.nodes {
		stats.TotalFrequency += node.total
		if len(node.Edges) == 0 && !node.Terminator() {
			stats.DeadEnds++
		}
	}
	return stats
}
