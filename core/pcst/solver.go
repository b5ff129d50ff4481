package pcst

import (
	"log/slog"
	"sort"

	"github.com/biokg/retriever/model"
)

// Solver computes an approximately-optimal connected subgraph of a prized,
// costed candidate graph: maximize collected node and edge prize minus edge
// cost, under a node budget, with all resolved seeds kept whenever they are
// connected at all.
//
// The construction is a Goemans-Williamson style primal-dual approximation:
// grow a forest of clusters with prize budgets, prune negative-value leaves,
// bridge remaining seed components over the candidate graph, then enforce
// the budget. Every tie-break follows the total order by node/edge id, so
// identical inputs always yield identical output.
type Solver struct {
	log *slog.Logger
}

// NewSolver creates a new solver
func NewSolver(logger *slog.Logger) *Solver {
	return &Solver{log: logger}
}

// Result is the solver's output: the selected node and edge ids in ascending
// order. Components is greater than one when seed components could not be
// affordably bridged within the candidate graph, or when budget enforcement
// had to split a tree apart.
type Result struct {
	Nodes            []string
	Edges            []string
	Components       int
	BudgetInfeasible bool
}

// Solve runs the growth, pruning, bridging and budget phases. An empty seed
// list yields an empty result; a graph whose edge costs exceed all available
// prize degenerates to the seed set alone, which is valid.
func (s *Solver) Solve(graph *model.CandidateGraph, budget int) (*Result, error) {
	if len(graph.Seeds) == 0 {
		return &Result{}, nil
	}

	sel := s.grow(graph)
	s.pruneNegativeLeaves(graph, sel)
	s.bridge(graph, sel)
	infeasible := s.enforceBudget(graph, sel, budget)

	nodes := make([]string, 0, len(sel.nodes))
	for id := range sel.nodes {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)

	edges := make([]string, 0, len(sel.edges))
	for id := range sel.edges {
		edges = append(edges, id)
	}
	sort.Strings(edges)

	return &Result{
		Nodes:            nodes,
		Edges:            edges,
		Components:       len(sel.components()),
		BudgetInfeasible: infeasible,
	}, nil
}

// selection is the mutable working set shared by the solver phases
type selection struct {
	nodes map[string]bool
	edges map[string]model.Edge
	adj   map[string][]string // node id -> incident selected edge ids
	seeds map[string]bool
}

func (s *selection) addEdge(id string, edge model.Edge) {
	if _, exists := s.edges[id]; exists {
		return
	}
	s.edges[id] = edge
	s.adj[edge.Source] = append(s.adj[edge.Source], id)
	s.adj[edge.Target] = append(s.adj[edge.Target], id)
}

func (s *selection) removeLeaf(nodeID string, edgeID string) {
	e := s.edges[edgeID]
	delete(s.edges, edgeID)
	delete(s.nodes, nodeID)
	delete(s.adj, nodeID)
	other := e.Other(nodeID)
	s.adj[other] = removeString(s.adj[other], edgeID)
}

// removeNode drops a node and all of its selected edges, possibly splitting
// the component it belonged to.
func (s *selection) removeNode(nodeID string) {
	incident := append([]string(nil), s.adj[nodeID]...)
	for _, edgeID := range incident {
		edge := s.edges[edgeID]
		delete(s.edges, edgeID)
		other := edge.Other(nodeID)
		s.adj[other] = removeString(s.adj[other], edgeID)
	}
	delete(s.adj, nodeID)
	delete(s.nodes, nodeID)
}

func (s *selection) degree(nodeID string) int {
	return len(s.adj[nodeID])
}

// leafEdge returns the single selected edge attached to a degree-1 node
func (s *selection) leafEdge(nodeID string) (string, model.Edge) {
	id := s.adj[nodeID][0]
	return id, s.edges[id]
}

// costedEdge pairs an edge with its net growth cost
type costedEdge struct {
	id   string
	edge model.Edge
	net  float64
}

// grow runs the primal-dual growth phase: every node starts as a singleton
// cluster with a budget equal to its own prize; clusters repeatedly merge
// along the cheapest affordable edge, where an edge's net cost is its cost
// minus its own prize (floored at zero) and affordable means covered by the
// combined budget of the two clusters it would merge. Clusters that never
// connect to a seed are discarded.
func (s *Solver) grow(graph *model.CandidateGraph) *selection {
	nodeIDs := graph.NodeIDs()
	index := make(map[string]int, len(nodeIDs))
	for i, id := range nodeIDs {
		index[id] = i
	}

	uf := NewUnionFind(len(nodeIDs))
	budgets := make([]float64, len(nodeIDs))
	for i, id := range nodeIDs {
		budgets[i] = graph.Nodes[id].Prize
	}

	candidates := make([]costedEdge, 0, len(graph.Edges))
	for _, id := range graph.EdgeIDs() {
		edge := graph.Edges[id]
		net := edge.Cost - edge.Prize
		if net < 0 {
			net = 0
		}
		candidates = append(candidates, costedEdge{id: id, edge: edge, net: net})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].net != candidates[j].net {
			return candidates[i].net < candidates[j].net
		}
		return candidates[i].id < candidates[j].id
	})

	var forest []costedEdge
	for {
		merged := false
		for _, ce := range candidates {
			ra := uf.Find(index[ce.edge.Source])
			rb := uf.Find(index[ce.edge.Target])
			if ra == rb {
				continue
			}
			if budgets[ra]+budgets[rb] < ce.net {
				continue
			}
			root := uf.Union(ra, rb)
			budgets[root] = budgets[ra] + budgets[rb] - ce.net
			forest = append(forest, ce)
			merged = true
			break
		}
		if !merged {
			break
		}
	}

	// Keep only clusters anchored by a seed: non-seed clusters collect prize
	// nobody asked about.
	seedRoots := make(map[int]bool)
	seeds := make(map[string]bool, len(graph.Seeds))
	for _, seed := range graph.Seeds {
		seedRoots[uf.Find(index[seed])] = true
		seeds[seed] = true
	}

	sel := &selection{
		nodes: make(map[string]bool),
		edges: make(map[string]model.Edge),
		adj:   make(map[string][]string),
		seeds: seeds,
	}
	for i, id := range nodeIDs {
		if seedRoots[uf.Find(i)] {
			sel.nodes[id] = true
		}
	}
	for _, ce := range forest {
		if sel.nodes[ce.edge.Source] {
			sel.addEdge(ce.id, ce.edge)
		}
	}

	return sel
}

// pruneNegativeLeaves trims low-value dangling branches accumulated during
// growth: a non-seed leaf is removed while its marginal contribution (its own
// prize plus its attaching edge's prize, minus that edge's cost) is negative.
func (s *Solver) pruneNegativeLeaves(graph *model.CandidateGraph, sel *selection) {
	for {
		removed := false
		for _, nodeID := range sortedKeys(sel.nodes) {
			if sel.seeds[nodeID] || sel.degree(nodeID) != 1 {
				continue
			}
			edgeID, edge := sel.leafEdge(nodeID)
			marginal := graph.Nodes[nodeID].Prize + edge.Prize - edge.Cost
			if marginal < 0 {
				sel.removeLeaf(nodeID, edgeID)
				removed = true
			}
		}
		if !removed {
			break
		}
	}
}

// bridge attempts to connect remaining seed components using the cheapest
// path in the candidate graph: shortest in hop count, tie-broken by lowest
// total edge cost, then lexicographically by edge-id sequence. A path is
// taken only when the value the two components already collected, plus the
// prizes of the path's own nodes and edges, covers the path's cost. Paths
// the prize cannot pay for are not forced, so components stay separate both
// when no path exists and when every path is too expensive.
func (s *Solver) bridge(graph *model.CandidateGraph, sel *selection) {
	components := sel.components()
	if len(components) <= 1 {
		return
	}

	base := components[0]
	for _, target := range components[1:] {
		path, ok := cheapestPath(graph, sel, base, target)
		if !ok {
			continue
		}

		available := componentValue(graph, sel, base) + componentValue(graph, sel, target)
		cost := 0.0
		interior := make(map[string]bool)
		for _, edgeID := range path {
			edge := graph.Edges[edgeID]
			cost += edge.Cost
			available += edge.Prize
			for _, end := range []string{edge.Source, edge.Target} {
				if !sel.nodes[end] && !interior[end] {
					interior[end] = true
					available += graph.Nodes[end].Prize
				}
			}
		}
		if available < cost {
			if s.log != nil {
				s.log.Debug("Skipping unaffordable bridge",
					slog.Float64("cost", cost), slog.Float64("available", available))
			}
			continue
		}

		for _, edgeID := range path {
			edge := graph.Edges[edgeID]
			sel.nodes[edge.Source] = true
			sel.nodes[edge.Target] = true
			sel.addEdge(edgeID, edge)
			base[edge.Source] = true
			base[edge.Target] = true
		}
		for id := range target {
			base[id] = true
		}
	}
}

// componentValue is the net prize a component has collected so far: its node
// prizes plus its selected edge prizes minus those edges' costs.
func componentValue(graph *model.CandidateGraph, sel *selection, comp map[string]bool) float64 {
	value := 0.0
	counted := make(map[string]bool)
	for id := range comp {
		value += graph.Nodes[id].Prize
		for _, edgeID := range sel.adj[id] {
			if counted[edgeID] {
				continue
			}
			counted[edgeID] = true
			edge := sel.edges[edgeID]
			value += edge.Prize - edge.Cost
		}
	}
	return value
}

// components returns the connected components of the selection, ordered by
// their smallest seed id (components are always seed-anchored after growth)
func (s *selection) components() []map[string]bool {
	type anchoredComponent struct {
		anchor string
		nodes  map[string]bool
	}

	visited := make(map[string]bool)
	var comps []anchoredComponent

	for _, start := range sortedKeys(s.nodes) {
		if visited[start] {
			continue
		}
		comp := make(map[string]bool)
		queue := []string{start}
		visited[start] = true
		anchor := ""
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			comp[current] = true
			if s.seeds[current] && (anchor == "" || current < anchor) {
				anchor = current
			}
			for _, edgeID := range s.adj[current] {
				next := s.edges[edgeID].Other(current)
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		comps = append(comps, anchoredComponent{anchor: anchor, nodes: comp})
	}

	sort.SliceStable(comps, func(i, j int) bool {
		return comps[i].anchor < comps[j].anchor
	})

	out := make([]map[string]bool, len(comps))
	for i, c := range comps {
		out[i] = c.nodes
	}
	return out
}

// pathState tracks the best known path to a node at its BFS depth
type pathState struct {
	cost  float64
	edges []string
}

func betterPath(a, b pathState) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	for i := 0; i < len(a.edges) && i < len(b.edges); i++ {
		if a.edges[i] != b.edges[i] {
			return a.edges[i] < b.edges[i]
		}
	}
	return len(a.edges) < len(b.edges)
}

// cheapestPath runs a multi-source level-synchronous BFS from the base
// component over the whole candidate graph until it reaches the target
// component, keeping per node the lowest-cost, lexicographically-smallest
// edge sequence among shortest paths. Returns the edge ids of the winning
// path.
func cheapestPath(graph *model.CandidateGraph, sel *selection, base, target map[string]bool) ([]string, bool) {
	depth := make(map[string]int)
	best := make(map[string]pathState)

	frontier := sortedKeys(base)
	for _, id := range frontier {
		depth[id] = 0
		best[id] = pathState{}
	}

	for level := 0; len(frontier) > 0; level++ {
		// Finish the whole level before checking arrival so equal-hop
		// paths compete on cost and edge order.
		var arrived []string
		for _, id := range frontier {
			if target[id] {
				arrived = append(arrived, id)
			}
		}
		if len(arrived) > 0 {
			winner := arrived[0]
			for _, id := range arrived[1:] {
				if betterPath(best[id], best[winner]) {
					winner = id
				}
			}
			return best[winner].edges, true
		}

		next := make(map[string]bool)
		for _, id := range frontier {
			state := best[id]
			for _, edge := range graph.IncidentEdges(id) {
				neighbor := edge.Other(id)
				candidate := pathState{
					cost:  state.cost + edge.Cost,
					edges: appendPath(state.edges, edge.ID()),
				}
				seen, ok := depth[neighbor]
				if !ok {
					depth[neighbor] = level + 1
					best[neighbor] = candidate
					next[neighbor] = true
				} else if seen == level+1 && betterPath(candidate, best[neighbor]) {
					best[neighbor] = candidate
				}
			}
		}
		frontier = sortedKeys(next)
	}

	return nil, false
}

// enforceBudget drops the lowest-marginal-value non-seed nodes until the
// selection fits the node budget: dangling leaves first, then interior nodes
// (splitting the tree) once every remaining leaf is a seed. Seeds are never
// dropped, so the selection is flagged infeasible only when the seeds alone
// exceed the budget.
func (s *Solver) enforceBudget(graph *model.CandidateGraph, sel *selection, budget int) bool {
	for len(sel.nodes) > budget {
		if s.evictWorstLeaf(graph, sel) {
			continue
		}
		if s.evictWorstInterior(graph, sel) {
			continue
		}
		if s.log != nil {
			s.log.Warn("Seeds exceed node budget, emitting anyway",
				slog.Int("nodes", len(sel.nodes)), slog.Int("budget", budget))
		}
		return true
	}
	return false
}

func (s *Solver) evictWorstLeaf(graph *model.CandidateGraph, sel *selection) bool {
	worstID := ""
	worstEdge := ""
	worstMarginal := 0.0

	for _, nodeID := range sortedKeys(sel.nodes) {
		if sel.seeds[nodeID] || sel.degree(nodeID) != 1 {
			continue
		}
		edgeID, edge := sel.leafEdge(nodeID)
		marginal := graph.Nodes[nodeID].Prize + edge.Prize - edge.Cost
		// Ties drop the lexicographically greatest id, so smaller ids
		// survive.
		if worstID == "" || marginal < worstMarginal || (marginal == worstMarginal && nodeID > worstID) {
			worstID = nodeID
			worstEdge = edgeID
			worstMarginal = marginal
		}
	}

	if worstID == "" {
		return false
	}
	sel.removeLeaf(worstID, worstEdge)
	return true
}

// evictWorstInterior removes the lowest-value non-seed node together with all
// of its selected edges. Only reached when no non-seed leaf is left, meaning
// connectivity has to give way to the budget.
func (s *Solver) evictWorstInterior(graph *model.CandidateGraph, sel *selection) bool {
	worstID := ""
	worstMarginal := 0.0

	for _, nodeID := range sortedKeys(sel.nodes) {
		if sel.seeds[nodeID] {
			continue
		}
		marginal := graph.Nodes[nodeID].Prize
		for _, edgeID := range sel.adj[nodeID] {
			edge := sel.edges[edgeID]
			marginal += edge.Prize - edge.Cost
		}
		if worstID == "" || marginal < worstMarginal || (marginal == worstMarginal && nodeID > worstID) {
			worstID = nodeID
			worstMarginal = marginal
		}
	}

	if worstID == "" {
		return false
	}
	sel.removeNode(worstID)
	return true
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func removeString(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func appendPath(path []string, edgeID string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, edgeID)
}
