package model

import "github.com/google/uuid"

// SeedMatch represents a node matched to the question by the embedding index
type SeedMatch struct {
	NodeID     string  `json:"node_id"`
	Similarity float64 `json:"similarity"`
}

// RetrievedSubgraph is the final output of one retrieval: ordered nodes and
// edges forming a connected subgraph, except that isolated seeds may appear
// as singleton components. Nodes and edges are ordered by descending prize,
// ties broken by ascending id, for deterministic downstream serialization.
type RetrievedSubgraph struct {
	TraceID uuid.UUID `json:"trace_id"`
	Nodes   []Node    `json:"nodes"`
	Edges   []Edge    `json:"edges"`
	// Components counts the connected components in the output. Greater than
	// one only when seeds could not be bridged within the candidate graph.
	Components int `json:"components"`
	// BudgetInfeasible flags results where the seeds alone exceed the node
	// budget; the seeds are emitted anyway.
	BudgetInfeasible bool `json:"budget_infeasible,omitempty"`
}

// IsEmpty reports whether the retrieval produced nothing
func (s *RetrievedSubgraph) IsEmpty() bool {
	return len(s.Nodes) == 0
}

// NodeIDs returns the output node ids in output order
func (s *RetrievedSubgraph) NodeIDs() []string {
	ids := make([]string, 0, len(s.Nodes))
	for _, node := range s.Nodes {
		ids = append(ids, node.ID)
	}
	return ids
}

// HasNode reports whether a node id is in the output
func (s *RetrievedSubgraph) HasNode(id string) bool {
	for _, node := range s.Nodes {
		if node.ID == id {
			return true
		}
	}
	return false
}
