package shopping

import (
	"sort"

	"github.com/noah-isme/backend-grocer/internal/geo"
)

// Policy selects and orders store aggregates.
type Policy struct {
	// RequireComplete drops stores that do not carry every cart product.
	RequireComplete bool
	// StoreIDs restricts results to these stores when non-empty.
	StoreIDs map[int64]struct{}
	Origin   *geo.Point
	// RadiusKm drops stores further than this from Origin. Requires Origin.
	RadiusKm *float64
}

// Apply filters aggs and returns them sorted by total then store id.
// cartProducts is the set of product ids in the cart. The result is never nil.
func (p Policy) Apply(aggs map[int64]*StoreAggregate, cartProducts map[int64]struct{}) ([]*StoreAggregate, error) {
	if p.RadiusKm != nil && p.Origin == nil {
		return nil, ErrRadiusWithoutLocation
	}

	kept := make([]*StoreAggregate, 0, len(aggs))
	for id, agg := range aggs {
		agg.Complete = agg.covers(cartProducts)
		if p.RequireComplete && !agg.Complete {
			continue
		}
		if len(p.StoreIDs) > 0 {
			if _, ok := p.StoreIDs[id]; !ok {
				continue
			}
		}
		kept = append(kept, agg)
	}

	if p.Origin != nil {
		points := make(map[int64]geo.Point, len(kept))
		for _, agg := range kept {
			points[agg.Store.ID] = agg.Store.Point()
		}
		distances := geo.DistancesFrom(*p.Origin, points)
		withinRadius := kept[:0]
		for _, agg := range kept {
			d := distances[agg.Store.ID]
			agg.Distance = &d
			if p.RadiusKm != nil && d > *p.RadiusKm {
				continue
			}
			withinRadius = append(withinRadius, agg)
		}
		kept = withinRadius
	}

	out := kept[:0]
	for _, agg := range kept {
		if len(agg.Lines) == 0 {
			continue
		}
		out = append(out, agg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c < 0
		}
		return out[i].Store.ID < out[j].Store.ID
	})
	return out, nil
}
