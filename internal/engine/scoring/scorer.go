// Package scoring computes confidence scores for exchange candidates.
//
// Every sub-score is normalized to [0,1] and combined as a weighted mean with
// strictly positive weights, so the final score stays in [0,1] and strictly
// increases with any single sub-score.
package scoring

import (
	"math"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// NeutralGeo is the geo sub-score used when either side has no coordinates.
const NeutralGeo = 0.5

// SubScores holds the normalized compatibility factors of a candidate.
type SubScores struct {
	CategoryAffinity       float64 `json:"category_affinity"`
	ValueCompatibility     float64 `json:"value_compatibility"`
	ConditionCompatibility float64 `json:"condition_compatibility"`
	GeoProximity           float64 `json:"geo_proximity"`
	Recency                float64 `json:"recency"`
}

// Scorer scores edges and cycles for one run's configuration.
type Scorer struct {
	weights  domain.ScoreWeights
	halfLife time.Duration
	radiusKm float64
}

// New creates a Scorer from the run configuration.
func New(cfg domain.MatchingConfig) *Scorer {
	return &Scorer{
		weights:  cfg.Weights,
		halfLife: cfg.RecencyHalfLife,
		radiusKm: cfg.GeoRadiusKm,
	}
}

// Combine returns the weighted mean of s clamped to [0,1].
func Combine(w domain.ScoreWeights, s SubScores) float64 {
	total := w.Sum()
	if total <= 0 {
		return 0
	}
	sum := w.CategoryAffinity*clamp01(s.CategoryAffinity) +
		w.ValueCompatibility*clamp01(s.ValueCompatibility) +
		w.ConditionCompatibility*clamp01(s.ConditionCompatibility) +
		w.GeoProximity*clamp01(s.GeoProximity) +
		w.Recency*clamp01(s.Recency)
	return clamp01(sum / total)
}

// Score combines s with the scorer's weights.
func (sc *Scorer) Score(s SubScores) float64 {
	return Combine(sc.weights, s)
}

// Edge scores handing item from to the owner of item to. Recency is the
// mean freshness of both items.
func (sc *Scorer) Edge(from, to *domain.Item, now time.Time) SubScores {
	return SubScores{
		CategoryAffinity:       CategoryAffinity(from.Category, to.DesiredCategories),
		ValueCompatibility:     ValueCompatibility(from.Value, to.Value),
		ConditionCompatibility: ConditionCompatibility(from.Condition, to.Condition),
		GeoProximity:           GeoProximity(from.Geo, to.Geo, sc.radiusKm),
		Recency:                (Recency(from.CreatedAt, now, sc.halfLife) + Recency(to.CreatedAt, now, sc.halfLife)) / 2,
	}
}

// Cycle scores the closed cycle items[0] → items[1] → … → items[0]. Edge
// factors are averaged over the edges, recency over the items.
func (sc *Scorer) Cycle(items []*domain.Item, now time.Time) (float64, SubScores) {
	n := len(items)
	if n < 2 {
		return 0, SubScores{}
	}

	var agg SubScores
	for i := range n {
		from, to := items[i], items[(i+1)%n]
		agg.CategoryAffinity += CategoryAffinity(from.Category, to.DesiredCategories)
		agg.ValueCompatibility += ValueCompatibility(from.Value, to.Value)
		agg.ConditionCompatibility += ConditionCompatibility(from.Condition, to.Condition)
		agg.GeoProximity += GeoProximity(from.Geo, to.Geo, sc.radiusKm)
		agg.Recency += Recency(from.CreatedAt, now, sc.halfLife)
	}
	f := float64(n)
	agg = SubScores{
		CategoryAffinity:       agg.CategoryAffinity / f,
		ValueCompatibility:     agg.ValueCompatibility / f,
		ConditionCompatibility: agg.ConditionCompatibility / f,
		GeoProximity:           agg.GeoProximity / f,
		Recency:                agg.Recency / f,
	}
	return sc.Score(agg), agg
}

// CategoryAffinity is 1 when offered is in desired and decays with the
// taxonomy distance to the nearest desired category.
func CategoryAffinity(offered domain.Category, desired []domain.Category) float64 {
	d := domain.NearestCategoryDistance(offered, desired)
	return 1 / (1 + float64(d))
}

// ValueCompatibility is the overlap ratio (intersection over union) of the
// declared value ranges. Disjoint ranges score 0; equal point values score 1.
func ValueCompatibility(a, b domain.ValueRange) float64 {
	aLo, aHi := bounds(a)
	bLo, bHi := bounds(b)

	lo, hi := math.Max(aLo, bLo), math.Min(aHi, bHi)
	if hi < lo {
		return 0
	}
	unionLo, unionHi := math.Min(aLo, bLo), math.Max(aHi, bHi)
	if unionHi == unionLo {
		return 1
	}
	return clamp01((hi - lo) / (unionHi - unionLo))
}

// ValuesOverlap is the discovery pre-filter: it reports whether the ranges
// intersect once each is widened by tol.
func ValuesOverlap(a, b domain.ValueRange, tol float64) bool {
	aLo, aHi := widen(a, tol)
	bLo, bHi := widen(b, tol)
	return math.Max(aLo, bLo) <= math.Min(aHi, bHi)
}

// ConditionCompatibility is 1 for equal conditions and falls linearly with
// the rank distance. Unknown conditions score 0.
func ConditionCompatibility(a, b domain.Condition) float64 {
	ra, rb := a.Rank(), b.Rank()
	if ra < 0 || rb < 0 {
		return 0
	}
	delta := ra - rb
	if delta < 0 {
		delta = -delta
	}
	return 1 - float64(delta)/domain.MaxConditionRankDelta
}

// GeoProximity falls linearly from 1 at zero distance to 0 at radiusKm.
// Missing coordinates on either side give NeutralGeo.
func GeoProximity(a, b *domain.GeoPoint, radiusKm float64) float64 {
	if a == nil || b == nil || radiusKm <= 0 {
		return NeutralGeo
	}
	d := domain.DistanceKm(*a, *b)
	return 1 - math.Min(d/radiusKm, 1)
}

// Recency halves every halfLife since listing. Listings from the future
// (clock skew) count as brand new.
func Recency(listedAt, now time.Time, halfLife time.Duration) float64 {
	if halfLife <= 0 {
		return 0
	}
	age := now.Sub(listedAt)
	if age < 0 {
		age = 0
	}
	return math.Pow(0.5, float64(age)/float64(halfLife))
}

func bounds(v domain.ValueRange) (float64, float64) {
	lo, hi := float64(v.Min), float64(v.Upper())
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

func widen(v domain.ValueRange, tol float64) (float64, float64) {
	lo, hi := bounds(v)
	return lo * (1 - tol), hi * (1 + tol)
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
