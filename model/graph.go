package model

import (
	"fmt"
	"sort"
)

// CandidateGraph is the bounded neighborhood expanded around the seeds of one
// question. It is a value-type graph keyed by node id, never a pointer graph:
// edges reference nodes by id only. Created once per question by the
// expander, annotated in place by the prize assigner, read by the solver and
// discarded after the subgraph is emitted.
type CandidateGraph struct {
	Nodes map[string]Node `json:"nodes"`
	Edges map[string]Edge `json:"edges"` // keyed by Edge.ID()
	Seeds []string        `json:"seeds"` // resolved seed ids present in Nodes
}

// NewCandidateGraph creates an empty candidate graph
func NewCandidateGraph() *CandidateGraph {
	return &CandidateGraph{
		Nodes: make(map[string]Node),
		Edges: make(map[string]Edge),
	}
}

// AddNode inserts a node if absent. Returns true if the node was inserted,
// false if a node with the same id already existed (the existing snapshot is
// kept).
func (g *CandidateGraph) AddNode(node Node) bool {
	if _, exists := g.Nodes[node.ID]; exists {
		return false
	}
	g.Nodes[node.ID] = node
	return true
}

// AddEdge inserts an edge if absent and both endpoints exist. Returns true if
// the edge was inserted. Re-discovering an edge during expansion is a no-op.
func (g *CandidateGraph) AddEdge(edge Edge) bool {
	if _, ok := g.Nodes[edge.Source]; !ok {
		return false
	}
	if _, ok := g.Nodes[edge.Target]; !ok {
		return false
	}
	id := edge.ID()
	if _, exists := g.Edges[id]; exists {
		return false
	}
	g.Edges[id] = edge
	return true
}

// HasNode reports whether a node id is present
func (g *CandidateGraph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// NodeIDs returns all node ids in ascending order
func (g *CandidateGraph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgeIDs returns all edge ids in ascending order
func (g *CandidateGraph) EdgeIDs() []string {
	ids := make([]string, 0, len(g.Edges))
	for id := range g.Edges {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IncidentEdges returns the edges touching a node, ordered by edge id
func (g *CandidateGraph) IncidentEdges(nodeID string) []Edge {
	var edges []Edge
	for _, id := range g.EdgeIDs() {
		if edge := g.Edges[id]; edge.Touches(nodeID) {
			edges = append(edges, edge)
		}
	}
	return edges
}

// Validate checks the candidate graph invariants: every edge's endpoints
// exist in the node mapping and every seed id is present.
func (g *CandidateGraph) Validate() error {
	for id, edge := range g.Edges {
		if _, ok := g.Nodes[edge.Source]; !ok {
			return fmt.Errorf("edge %s references missing source node %s", id, edge.Source)
		}
		if _, ok := g.Nodes[edge.Target]; !ok {
			return fmt.Errorf("edge %s references missing target node %s", id, edge.Target)
		}
	}
	for _, seed := range g.Seeds {
		node, ok := g.Nodes[seed]
		if !ok {
			return fmt.Errorf("seed node %s missing from graph", seed)
		}
		if !node.IsSeed {
			return fmt.Errorf("seed node %s not flagged as seed", seed)
		}
	}
	return nil
}
