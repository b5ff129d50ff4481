package model

// Common label tags found in biomedical knowledge graphs.
const (
	LabelGene        = "Gene"
	LabelProtein     = "Protein"
	LabelDisease     = "Disease"
	LabelDrug        = "Drug"
	LabelPathway     = "Pathway"
	LabelPublication = "Publication"
)

// Node represents a knowledge graph node (gene, disease, drug, ...).
// Nodes are immutable snapshots fetched per question; the retrieval core
// never mutates the store they came from.
type Node struct {
	ID          string    `json:"id"` // opaque CURIE-style identifier
	Labels      []string  `json:"labels"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
	Properties  Metadata  `json:"properties,omitempty"`
	IsSeed      bool      `json:"is_seed,omitempty"`
	// Results
	Hops       int     `json:"hops,omitempty"`       // BFS layer the node was discovered in
	Similarity float64 `json:"similarity,omitempty"` // cosine similarity to the question
	Prize      float64 `json:"prize,omitempty"`
}

// HasAnyLabel reports whether the node carries at least one of the given labels.
// An empty filter matches every node.
func (n Node) HasAnyLabel(labels []string) bool {
	if len(labels) == 0 {
		return true
	}
	for _, want := range labels {
		for _, have := range n.Labels {
			if have == want {
				return true
			}
		}
	}
	return false
}

// EmbeddingText returns the text used to embed a node, combining name and
// description for richer embeddings.
func (n Node) EmbeddingText() string {
	return n.Name + ": " + n.Description
}
