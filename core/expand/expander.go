package expand

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/biokg/retriever/model"
)

// GraphStore defines the read interface to the knowledge graph store
type GraphStore interface {
	GetNode(ctx context.Context, id string) (*model.Node, error)
	GetEdges(ctx context.Context, id string, filter *model.EdgeFilter) ([]*model.Edge, error)
}

// maxConcurrentFetches bounds the per-frontier fan-out against the store
const maxConcurrentFetches = 8

// Expander builds a bounded candidate subgraph around the seeds of one
// question via breadth-first expansion with per-node degree caps and label
// filters. Store fetches within one frontier run concurrently; merging into
// the candidate graph is sequential in frontier order so identical inputs
// yield identical graphs.
type Expander struct {
	store GraphStore
	log   *slog.Logger
}

// NewExpander creates a new expander over a graph store
func NewExpander(store GraphStore, logger *slog.Logger) *Expander {
	return &Expander{
		store: store,
		log:   logger,
	}
}

// Expand performs breadth-first expansion from all seeds simultaneously,
// frontier by frontier, up to config.MaxHops. Seeds that cannot be fetched
// are skipped with a warning; an empty seed list yields an empty graph.
func (e *Expander) Expand(ctx context.Context, seedIDs []string, config *model.RetrievalConfig) (*model.CandidateGraph, error) {
	graph := model.NewCandidateGraph()

	for _, seedID := range dedupe(seedIDs) {
		node, err := e.fetchNode(ctx, seedID, config)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn("Skipping unreachable seed", slog.String("seed", seedID), slog.String("error", err.Error()))
			continue
		}

		node.IsSeed = true
		node.Hops = 0
		graph.AddNode(*node)
		graph.Seeds = append(graph.Seeds, seedID)
	}

	if len(graph.Seeds) == 0 {
		return graph, nil
	}

	frontier := append([]string(nil), graph.Seeds...)
	sort.Strings(frontier)

	for hop := 1; hop <= config.MaxHops; hop++ {
		if len(frontier) == 0 {
			break
		}

		edgeLists, err := e.fetchFrontierEdges(ctx, frontier, config)
		if err != nil {
			return nil, err
		}

		// Merge sequentially in frontier order: collect capped edges and the
		// far endpoints not yet in the graph.
		var pendingEdges []model.Edge
		var newIDs []string
		seen := make(map[string]bool)

		for i, nodeID := range frontier {
			edges := filterByLabels(edgeLists[i], nodeID, config.LabelFilter)
			edges = capEdges(edges, config)

			for _, edge := range edges {
				far := edge.Other(nodeID)
				if !graph.HasNode(far) && !seen[far] {
					seen[far] = true
					newIDs = append(newIDs, far)
				}
				pendingEdges = append(pendingEdges, *edge)
			}
		}

		newNodes, err := e.fetchNewNodes(ctx, newIDs, config)
		if err != nil {
			return nil, err
		}

		var nextFrontier []string
		for i, id := range newIDs {
			if newNodes[i] == nil {
				continue // fetch failed, expansion of this branch is skipped
			}
			node := *newNodes[i]
			node.Hops = hop
			if graph.AddNode(node) {
				nextFrontier = append(nextFrontier, id)
			}
		}

		// Edges to already-present nodes are still added: multi-edge
		// convergence is expected and increases later prize.
		for _, edge := range pendingEdges {
			graph.AddEdge(edge)
		}

		sort.Strings(nextFrontier)
		frontier = nextFrontier
	}

	return graph, nil
}

// fetchFrontierEdges fetches incident edges for every frontier node
// concurrently. Results are indexed by frontier position; a failed fetch
// leaves a nil slot and records a warning.
func (e *Expander) fetchFrontierEdges(ctx context.Context, frontier []string, config *model.RetrievalConfig) ([][]*model.Edge, error) {
	results := make([][]*model.Edge, len(frontier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, nodeID := range frontier {
		g.Go(func() error {
			edges, err := e.fetchEdges(gctx, nodeID, config)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.log.Warn("Skipping expansion of node", slog.String("node", nodeID), slog.String("error", err.Error()))
				return nil
			}
			results[i] = edges
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// fetchNewNodes fetches newly discovered nodes concurrently, indexed by
// position in ids. Failed fetches leave a nil slot.
func (e *Expander) fetchNewNodes(ctx context.Context, ids []string, config *model.RetrievalConfig) ([]*model.Node, error) {
	results := make([]*model.Node, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, id := range ids {
		g.Go(func() error {
			node, err := e.fetchNode(gctx, id, config)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.log.Warn("Skipping unreachable node", slog.String("node", id), slog.String("error", err.Error()))
				return nil
			}
			results[i] = node
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// fetchNode fetches one node with a per-call timeout, retrying once with
// backoff on transient failures
func (e *Expander) fetchNode(ctx context.Context, id string, config *model.RetrievalConfig) (*model.Node, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, config.FetchTimeout)
	defer cancel()

	node, err := e.store.GetNode(fetchCtx, id)
	if err == nil {
		return node, nil
	}
	if !retryable(err) {
		return nil, err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	retryCtx, cancelRetry := context.WithTimeout(ctx, config.FetchTimeout)
	defer cancelRetry()

	return e.store.GetNode(retryCtx, id)
}

// fetchEdges fetches the incident edges of one node with a per-call timeout,
// retrying once with backoff on transient failures
func (e *Expander) fetchEdges(ctx context.Context, id string, config *model.RetrievalConfig) ([]*model.Edge, error) {
	filter := &model.EdgeFilter{Labels: config.LabelFilter}

	fetchCtx, cancel := context.WithTimeout(ctx, config.FetchTimeout)
	defer cancel()

	edges, err := e.store.GetEdges(fetchCtx, id, filter)
	if err == nil {
		return edges, nil
	}
	if !retryable(err) {
		return nil, err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	retryCtx, cancelRetry := context.WithTimeout(ctx, config.FetchTimeout)
	defer cancelRetry()

	return e.store.GetEdges(retryCtx, id, filter)
}

const retryBackoff = 100 * time.Millisecond

func retryable(err error) bool {
	return model.IsTransient(err) || errors.Is(err, context.DeadlineExceeded)
}

// filterByLabels drops edges whose far endpoint's labels don't intersect the
// filter. Applied before the degree cap. The store already pushes the filter
// down; the local check covers stores that ignore it.
func filterByLabels(edges []*model.Edge, nodeID string, labelFilter []string) []*model.Edge {
	if len(labelFilter) == 0 {
		return edges
	}

	var kept []*model.Edge
	for _, edge := range edges {
		far := model.Node{Labels: edge.OtherLabels(nodeID)}
		if far.HasAnyLabel(labelFilter) {
			kept = append(kept, edge)
		}
	}
	return kept
}

// capEdges bounds blow-up at densely connected hub nodes: if a node has more
// incident edges than the degree cap, only the top-ranked edges by the
// relation importance order are kept, ties broken by edge id.
func capEdges(edges []*model.Edge, config *model.RetrievalConfig) []*model.Edge {
	if len(edges) <= config.DegreeCap {
		return edges
	}

	ranked := append([]*model.Edge(nil), edges...)
	sort.Slice(ranked, func(i, j int) bool {
		ri := config.RelationRankIndex(ranked[i].Relation)
		rj := config.RelationRankIndex(ranked[j].Relation)
		if ri != rj {
			return ri < rj
		}
		return ranked[i].ID() < ranked[j].ID()
	})

	return ranked[:config.DegreeCap]
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
