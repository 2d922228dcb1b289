// Package discovery searches a preference-graph snapshot for 2- and 3-party
// exchange cycles and selects the ones worth surfacing.
//
// An edge u → v exists when v's owner wants u's category. The search keeps
// only the top-K outgoing edges per item, looks for cycles of exactly three
// hops and anchors every cycle at its lowest node index, so partitions split
// by anchor never report the same cycle twice. Final selection runs on a
// single goroutine over the union of all partitions.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/internal/engine/scoring"
)

// Result is the outcome of one discovery pass.
type Result struct {
	// Selected holds the candidates to commit, in selection order.
	Selected []Candidate
	Nodes    int
	Edges    int
	// Found counts distinct cycles before active/cool-down/cap filtering.
	Found int
	// Partitions is the partition count used for the search.
	Partitions int
}

// ByPartition groups Selected by the partition of each cycle's anchor,
// preserving selection order inside a group.
func (r *Result) ByPartition() [][]Candidate {
	groups := make([][]Candidate, r.Partitions)
	for _, c := range r.Selected {
		groups[c.Partition] = append(groups[c.Partition], c)
	}
	return groups
}

// Engine runs discovery for one configuration.
type Engine struct {
	log    *slog.Logger
	cfg    domain.MatchingConfig
	scorer *scoring.Scorer
}

// New creates an Engine.
func New(log *slog.Logger, cfg domain.MatchingConfig) *Engine {
	return &Engine{
		log:    log.With("component", "discovery"),
		cfg:    cfg,
		scorer: scoring.New(cfg),
	}
}

type edge struct {
	to    int
	score float64
}

// graph is the filtered, index-addressed view of a snapshot. Nodes are
// sorted by item id so indices are stable for a given snapshot.
type graph struct {
	now   time.Time
	nodes []*domain.Item
	out   [][]edge
	has   []map[int]struct{}
}

func (g *graph) hasEdge(u, v int) bool {
	_, ok := g.has[u][v]
	return ok
}

// Discover searches snap and returns the selected candidates.
func (e *Engine) Discover(ctx context.Context, snap *domain.Snapshot) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}

	g := e.buildGraph(snap)
	parts := e.cfg.Partitions

	found := make([][]Candidate, parts)
	eg, egCtx := errgroup.WithContext(ctx)
	for p := range parts {
		eg.Go(func() error {
			cands, err := e.searchPartition(egCtx, g, snap, p, parts)
			if err != nil {
				return err
			}
			found[p] = cands
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("discovery: search: %w", err)
	}

	unique := dedupe(found)
	selected := e.selectCandidates(unique, snap)

	edges := 0
	for _, out := range g.out {
		edges += len(out)
	}

	e.log.DebugContext(ctx, "discovery pass finished",
		slog.Int("nodes", len(g.nodes)),
		slog.Int("edges", edges),
		slog.Int("found", len(unique)),
		slog.Int("selected", len(selected)),
	)

	return &Result{
		Selected:   selected,
		Nodes:      len(g.nodes),
		Edges:      edges,
		Found:      len(unique),
		Partitions: parts,
	}, nil
}

// eligible reports whether an item may take part in any new opportunity.
func (e *Engine) eligible(it *domain.Item, snap *domain.Snapshot) bool {
	if !it.Active || !it.Category.IsValid() || len(it.DesiredCategories) == 0 {
		return false
	}
	if _, matched := snap.MatchedItems[it.ID]; matched {
		return false
	}
	return snap.ActiveListings[it.OwnerID] <= e.cfg.MaxActiveListingsPerUser
}

func (e *Engine) buildGraph(snap *domain.Snapshot) *graph {
	nodes := make([]*domain.Item, 0, len(snap.Items))
	for i := range snap.Items {
		if it := &snap.Items[i]; e.eligible(it, snap) {
			nodes = append(nodes, it)
		}
	}
	slices.SortFunc(nodes, func(a, b *domain.Item) int { return domain.CompareIDs(a.ID, b.ID) })

	wanters := make(map[domain.Category][]int)
	for v, it := range nodes {
		for _, c := range it.DesiredCategories {
			wanters[c] = append(wanters[c], v)
		}
	}

	g := &graph{
		now:   snap.TakenAt,
		nodes: nodes,
		out:   make([][]edge, len(nodes)),
		has:   make([]map[int]struct{}, len(nodes)),
	}
	for u, from := range nodes {
		var cands []edge
		for _, v := range wanters[from.Category] {
			to := nodes[v]
			if !e.prefilter(from, to, snap) {
				continue
			}
			cands = append(cands, edge{to: v, score: e.scorer.Score(e.scorer.Edge(from, to, snap.TakenAt))})
		}
		slices.SortFunc(cands, func(a, b edge) int {
			switch {
			case a.score > b.score:
				return -1
			case a.score < b.score:
				return 1
			}
			if c := nodes[a.to].CreatedAt.Compare(nodes[b.to].CreatedAt); c != 0 {
				return c
			}
			return a.to - b.to
		})
		if len(cands) > e.cfg.TopK {
			cands = cands[:e.cfg.TopK]
		}
		g.out[u] = cands
		g.has[u] = make(map[int]struct{}, len(cands))
		for _, ed := range cands {
			g.has[u][ed.to] = struct{}{}
		}
	}
	return g
}

// prefilter is the cheap edge test applied before scoring. Category
// compatibility is implied by the wanters index.
func (e *Engine) prefilter(from, to *domain.Item, snap *domain.Snapshot) bool {
	if from.ID == to.ID || from.OwnerID == to.OwnerID {
		return false
	}
	if snap.Negative(from.ID, to.ID) {
		return false
	}
	if !scoring.ValuesOverlap(from.Value, to.Value, e.cfg.ValueTolerance) {
		return false
	}
	if from.Geo != nil && to.Geo != nil && domain.DistanceKm(*from.Geo, *to.Geo) > e.cfg.GeoRadiusKm {
		return false
	}
	return true
}

// searchPartition enumerates cycles anchored at nodes a with a % parts == p.
// Every other node of a reported cycle has an index greater than a.
func (e *Engine) searchPartition(ctx context.Context, g *graph, snap *domain.Snapshot, p, parts int) ([]Candidate, error) {
	var out []Candidate
	for a := p; a < len(g.nodes); a += parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, ab := range g.out[a] {
			b := ab.to
			if b <= a {
				continue
			}
			if e.cfg.EnableTwoWay && g.hasEdge(b, a) && !snap.QualifiesAsPair(g.nodes[a].ID, g.nodes[b].ID) {
				out = append(out, e.candidate(g, []int{a, b}, p))
			}
			for _, bc := range g.out[b] {
				c := bc.to
				if c <= a || c == b || !g.hasEdge(c, a) {
					continue
				}
				if e.coveredByPair(g, snap, a, b, c) {
					continue
				}
				out = append(out, e.candidate(g, []int{a, b, c}, p))
			}
		}
	}
	return out, nil
}

// coveredByPair reports whether any two members already form, or are about
// to form, a direct match.
func (e *Engine) coveredByPair(g *graph, snap *domain.Snapshot, a, b, c int) bool {
	ia, ib, ic := g.nodes[a].ID, g.nodes[b].ID, g.nodes[c].ID
	return snap.QualifiesAsPair(ia, ib) || snap.QualifiesAsPair(ib, ic) || snap.QualifiesAsPair(ia, ic)
}

func (e *Engine) candidate(g *graph, cycle []int, partition int) Candidate {
	items := make([]*domain.Item, len(cycle))
	parts := make([]domain.Participant, len(cycle))
	ids := make([]uuid.UUID, len(cycle))
	oldest := g.nodes[cycle[0]].CreatedAt
	for i, n := range cycle {
		it := g.nodes[n]
		items[i] = it
		parts[i] = domain.Participant{UserID: it.OwnerID, ItemID: it.ID}
		ids[i] = it.ID
		if it.CreatedAt.Before(oldest) {
			oldest = it.CreatedAt
		}
	}
	ct, _ := domain.CycleTypeForSize(len(cycle))
	score, sub := e.scorer.Cycle(items, g.now)

	return Candidate{
		CycleType:     ct,
		Participants:  parts,
		Confidence:    score,
		Scores:        sub,
		Key:           domain.ParticipantKey(ids),
		Partition:     partition,
		OldestListing: oldest,
		// Nodes are sorted by id and the anchor is the lowest index.
		MinItemID: g.nodes[cycle[0]].ID,
	}
}
