package model

// RelationType represents the type of relationship between nodes
type RelationType string

const (
	RelationAssociatedWith RelationType = "ASSOCIATED_WITH"
	RelationInteractsWith  RelationType = "INTERACTS_WITH"
	RelationTreats         RelationType = "TREATS"
	RelationCauses         RelationType = "CAUSES"
	RelationExpressedIn    RelationType = "EXPRESSED_IN"
	RelationPartOf         RelationType = "PART_OF"
	RelationMentions       RelationType = "MENTIONS"
	RelationRelatedTo      RelationType = "RELATED_TO" // fallback for unknown relations
)

// Edge represents a relationship between two nodes. Direction is kept for
// display, but traversal treats edges as undirected. Edges reference nodes by
// id only.
type Edge struct {
	Source      string       `json:"source"`
	Target      string       `json:"target"`
	Relation    RelationType `json:"relation"`
	Description string       `json:"description,omitempty"`
	Properties  Metadata     `json:"properties,omitempty"`
	// Endpoint labels, carried so label filters can be applied without an
	// extra node fetch.
	SourceLabels []string `json:"source_labels,omitempty"`
	TargetLabels []string `json:"target_labels,omitempty"`
	// Results
	Prize float64 `json:"prize,omitempty"`
	Cost  float64 `json:"cost,omitempty"`
}

// ID returns the synthetic edge identifier "source__RELATION__target".
// All deterministic tie-breaks order edges by this id.
func (e Edge) ID() string {
	return e.Source + "__" + string(e.Relation) + "__" + e.Target
}

// Other returns the endpoint opposite to the given node id. Returns the
// source if the id matches neither endpoint.
func (e Edge) Other(nodeID string) string {
	if e.Source == nodeID {
		return e.Target
	}
	return e.Source
}

// Touches reports whether the edge is incident to the given node.
func (e Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}

// PairKey returns an order-independent key for the endpoint pair, used to
// deduplicate multi-edges between the same two nodes.
func (e Edge) PairKey() string {
	if e.Source < e.Target {
		return e.Source + "|" + e.Target
	}
	return e.Target + "|" + e.Source
}

// OtherLabels returns the labels of the endpoint opposite to the given node id.
func (e Edge) OtherLabels(nodeID string) []string {
	if e.Source == nodeID {
		return e.TargetLabels
	}
	return e.SourceLabels
}

// EdgeFilter narrows the edges returned by a graph store for one node.
type EdgeFilter struct {
	// Labels keeps only edges whose far endpoint carries at least one of
	// these labels. Empty means no filtering.
	Labels []string
}
