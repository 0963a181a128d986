package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
	"github.com/noah-isme/backend-grocer/internal/obs"
)

// Service applies cart changes. Every call runs in one transaction.
type Service struct {
	Tx TxRunner
}

// NewService constructs a cart service.
func NewService(tx TxRunner) *Service {
	return &Service{Tx: tx}
}

// ApplyChange sets the quantity of productID in the user's cart.
// A quantity of zero removes the line; removing an absent line is a no-op.
func (s *Service) ApplyChange(ctx context.Context, userID string, productID int64, quantity int) (Snapshot, error) {
	if s == nil || s.Tx == nil {
		return Snapshot{}, errors.New("cart service not configured")
	}
	userID = strings.TrimSpace(userID)
	switch {
	case userID == "":
		return Snapshot{}, badRequest("user_id", "user_id is required")
	case productID <= 0:
		return Snapshot{}, badRequest("product_id", "product_id must be a positive integer")
	case quantity < 0:
		return Snapshot{}, badRequest("quantity", "quantity must not be negative")
	case quantity > math.MaxInt32:
		return Snapshot{}, badRequest("quantity", "quantity is too large")
	}

	op := "set"
	if quantity == 0 {
		op = "remove"
	}

	var snap Snapshot
	err := s.Tx.InTx(ctx, func(q Querier) error {
		if _, err := q.GetProduct(ctx, productID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notFound("product not found")
			}
			return fmt.Errorf("get product: %w", err)
		}
		c, err := ensureCart(ctx, q, userID)
		if err != nil {
			return err
		}

		if quantity == 0 {
			if _, err := q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{CartID: c.ID, ProductID: productID}); err != nil {
				return fmt.Errorf("delete cart item: %w", err)
			}
		} else {
			if _, err := q.UpsertCartItem(ctx, dbgen.UpsertCartItemParams{
				CartID:    c.ID,
				ProductID: productID,
				Quantity:  int32(quantity),
			}); err != nil {
				return fmt.Errorf("upsert cart item: %w", err)
			}
		}

		count, err := q.CountCartItems(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("count cart items: %w", err)
		}
		if err := q.SetCartUniqueItems(ctx, dbgen.SetCartUniqueItemsParams{ID: c.ID, UniqueItems: int32(count)}); err != nil {
			return fmt.Errorf("set unique items: %w", err)
		}

		snap, err = (&Repository{Q: q}).Load(ctx, c.ID)
		return err
	})
	recordChange(op, err)
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Get returns the user's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (Snapshot, error) {
	if s == nil || s.Tx == nil {
		return Snapshot{}, errors.New("cart service not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Snapshot{}, badRequest("user_id", "user_id is required")
	}
	var snap Snapshot
	err := s.Tx.InTx(ctx, func(q Querier) error {
		c, err := ensureCart(ctx, q, userID)
		if err != nil {
			return err
		}
		snap, err = (&Repository{Q: q}).Load(ctx, c.ID)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func ensureCart(ctx context.Context, q Querier, userID string) (dbgen.Cart, error) {
	if err := q.EnsureUser(ctx, userID); err != nil {
		return dbgen.Cart{}, fmt.Errorf("ensure user: %w", err)
	}
	c, err := q.UpsertCartForUser(ctx, userID)
	if err != nil {
		return dbgen.Cart{}, fmt.Errorf("ensure cart: %w", err)
	}
	return c, nil
}

func recordChange(op string, err error) {
	if obs.CartChangesTotal == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrInvalidInput):
		result = "invalid"
	default:
		result = "error"
	}
	obs.CartChangesTotal.WithLabelValues(op, result).Inc()
}
