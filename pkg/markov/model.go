package markov

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation is returned when the model cannot grow to hold another
	// node or edge. It is fatal for the ingestion in progress.
	ErrAllocation = errors.New("markov: allocation failed")
	// ErrNoStartNode is returned when the model holds no node a sentence can
	// begin with (it is empty, or every node is a sentence terminator).
	ErrNoStartNode = errors.New("markov: no valid starting node")
)

// NodeID identifies a Node within the Model that created it.
type NodeID int

// Edge is a weighted link from a node to one of its observed successors.
type Edge struct {
	To    NodeID
	Count int
}

// Node is the model's representation of one distinct token. Edges are kept in
// the order their successors were first seen, with at most one entry per
// successor.
type Node struct {
	Text  string
	Edges []Edge

	// total is the sum of all edge counts.
	total int
}

// Total returns the sum of the counts of all outgoing edges.
func (n *Node) Total() int {
	return n.total
}

// Terminator reports whether the node ends a sentence.
func (n *Node) Terminator() bool {
	return IsTerminator(n.Text)
}

// Model owns every Node built from a corpus. Nodes are stored in insertion
// order and are never removed individually; the whole model is released by
// dropping it.
type Model struct {
	nodes    []*Node
	index    map[string]NodeID
	edges    int
	starters int
	maxNodes int
	maxEdges int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithMaxNodes caps the number of distinct nodes the model may hold. Interning
// past the cap fails with ErrAllocation. A value of 0 means unlimited.
func WithMaxNodes(n int) ModelOption {
	return func(m *Model) { m.maxNodes = n }
}

// WithMaxEdges caps the number of distinct edges across all nodes. Linking a
// new pair past the cap fails with ErrAllocation; incrementing an existing
// edge always succeeds. A value of 0 means unlimited.
func WithMaxEdges(n int) ModelOption {
	return func(m *Model) { m.maxEdges = n }
}

// NewModel creates an empty model.
func NewModel(opts ...ModelOption) *Model {
	m := &Model{
		index: make(map[string]NodeID),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Intern returns the node for text, creating it with an empty edge list on
// first sight. Equal text always yields the same NodeID.
func (m *Model) Intern(text string) (NodeID, error) {
	if id, ok := m.index[text]; ok {
		return id, nil
	}
	if m.maxNodes > 0 && len(m.nodes) >= m.maxNodes {
		return 0, fmt.Errorf("%w: node limit of %d reached interning %q", ErrAllocation, m.maxNodes, text)
	}

	id := NodeID(len(m.nodes))
	m.nodes = append(m.nodes, &Node{Text: text})
	m.index[text] = id
	if !IsTerminator(text) {
		m.starters++
	}
	return id, nil
}

// Lookup returns the node for text without creating it.
func (m *Model) Lookup(text string) (NodeID, bool) {
	id, ok := m.index[text]
	return id, ok
}

// Link records one observation of `to` following `from`. An existing edge has
// its count incremented; otherwise a new edge with count 1 is appended.
// Self-links are allowed.
func (m *Model) Link(from, to NodeID) error {
	if !m.valid(from) || !m.valid(to) {
		return fmt.Errorf("markov: link %d -> %d references a node outside the model", from, to)
	}

	node := m.nodes[from]
	for i := range node.Edges {
		if node.Edges[i].To == to {
			node.Edges[i].Count++
			node.total++
			return nil
		}
	}

	if m.maxEdges > 0 && m.edges >= m.maxEdges {
		return fmt.Errorf("%w: edge limit of %d reached linking %q -> %q", ErrAllocation, m.maxEdges, node.Text, m.nodes[to].Text)
	}
	node.Edges = append(node.Edges, Edge{To: to, Count: 1})
	node.total++
	m.edges++
	return nil
}

// Node returns the node with the given id, or nil if the id does not belong
// to this model. The returned node must not be modified.
func (m *Model) Node(id NodeID) *Node {
	if !m.valid(id) {
		return nil
	}
	return m.nodes[id]
}

// Len returns the number of distinct nodes.
func (m *Model) Len() int {
	return len(m.nodes)
}

// Nodes returns all nodes in insertion order. The slice is shared with the
// model and must not be modified.
func (m *Model) Nodes() []*Node {
	return m.nodes
}

func (m *Model) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(m.nodes)
}
