package shopping

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/backend-grocer/internal/cart"
	"github.com/noah-isme/backend-grocer/internal/obs"
)

// CartLoader loads a complete cart snapshot by id.
type CartLoader interface {
	Load(ctx context.Context, cartID int64) (cart.Snapshot, error)
}

// Service answers "where is this cart cheapest".
type Service struct {
	Loader CartLoader
	// RequireComplete keeps only stores carrying every cart product.
	RequireComplete bool
}

// NewService constructs a shopping results service.
func NewService(loader CartLoader, requireComplete bool) *Service {
	return &Service{Loader: loader, RequireComplete: requireComplete}
}

// Results validates req, loads the cart and returns the ordered store results.
func (s *Service) Results(ctx context.Context, req Request) ([]Result, error) {
	if s == nil || s.Loader == nil {
		return nil, errors.New("shopping service not configured")
	}
	if err := req.Validate(); err != nil {
		recordResults("invalid", 0)
		return nil, err
	}

	snap, err := s.Loader.Load(ctx, req.CartID)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			recordResults("not_found", 0)
			return nil, notFound()
		}
		recordResults("error", 0)
		return nil, fmt.Errorf("load cart %d: %w", req.CartID, err)
	}
	if snap.Cart.UserID != req.UserID {
		recordResults("not_found", 0)
		return nil, notFound()
	}

	aggs, err := req.Policy(s.RequireComplete).Apply(Aggregate(snap), snap.ProductIDs())
	if err != nil {
		recordResults("invalid", 0)
		return nil, badRequest("radius", "radius requires user_location", err)
	}

	results := make([]Result, 0, len(aggs))
	for _, agg := range aggs {
		results = append(results, NewResult(agg))
	}
	recordResults("ok", len(results))
	return results, nil
}

func recordResults(result string, stores int) {
	if obs.ShoppingResultsTotal != nil {
		obs.ShoppingResultsTotal.WithLabelValues(result).Inc()
	}
	if result == "ok" && obs.ShoppingResultStores != nil {
		obs.ShoppingResultStores.Observe(float64(stores))
	}
}
