package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
)

// Querier is the subset of generated queries used by the cart package.
type Querier interface {
	GetProduct(ctx context.Context, id int64) (dbgen.Product, error)
	EnsureUser(ctx context.Context, id string) error
	UpsertCartForUser(ctx context.Context, userID string) (dbgen.Cart, error)
	GetCart(ctx context.Context, id int64) (dbgen.Cart, error)
	UpsertCartItem(ctx context.Context, arg dbgen.UpsertCartItemParams) (dbgen.CartItem, error)
	DeleteCartItem(ctx context.Context, arg dbgen.DeleteCartItemParams) (int64, error)
	CountCartItems(ctx context.Context, cartID int64) (int64, error)
	SetCartUniqueItems(ctx context.Context, arg dbgen.SetCartUniqueItemsParams) error
	ListCartLines(ctx context.Context, cartID int64) ([]dbgen.ListCartLinesRow, error)
	ListCartOffers(ctx context.Context, cartID int64) ([]dbgen.ListCartOffersRow, error)
}

var _ Querier = (*dbgen.Queries)(nil)

// Repository loads complete cart snapshots.
type Repository struct {
	Q Querier
}

// NewRepository constructs a Repository.
func NewRepository(q Querier) *Repository {
	return &Repository{Q: q}
}

// Load returns the cart with every line resolved to its product and all offers.
func (r *Repository) Load(ctx context.Context, cartID int64) (Snapshot, error) {
	if r == nil || r.Q == nil {
		return Snapshot{}, errors.New("cart repository not configured")
	}
	row, err := r.Q.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, notFound("cart not found")
		}
		return Snapshot{}, fmt.Errorf("get cart: %w", err)
	}
	lines, err := r.Q.ListCartLines(ctx, cartID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list cart lines: %w", err)
	}
	offers, err := r.Q.ListCartOffers(ctx, cartID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list cart offers: %w", err)
	}
	return buildSnapshot(row, lines, offers), nil
}

func buildSnapshot(row dbgen.Cart, lineRows []dbgen.ListCartLinesRow, offerRows []dbgen.ListCartOffersRow) Snapshot {
	byProduct := make(map[int64][]Offer, len(lineRows))
	for _, o := range offerRows {
		byProduct[o.ProductID] = append(byProduct[o.ProductID], Offer{
			ID:        o.ID,
			ProductID: o.ProductID,
			Price:     o.Price,
			Stock:     int(o.Stock),
			Store: Store{
				ID:        o.StoreID,
				Name:      o.StoreName,
				Location:  o.StoreLocation,
				Address:   o.StoreAddress,
				Latitude:  o.Latitude,
				Longitude: o.Longitude,
				ImageRef:  textPtr(o.StoreImageRef),
			},
		})
	}

	lines := make([]Line, 0, len(lineRows))
	for _, l := range lineRows {
		offers := byProduct[l.ProductID]
		lowest, highest := priceBounds(offers)
		lines = append(lines, Line{
			ID: l.ID,
			Product: Product{
				ID:          l.ProductID,
				Name:        l.ProductName,
				Description: l.ProductDescription,
				CategoryID:  int8Ptr(l.CategoryID),
				ImageRef:    textPtr(l.ProductImageRef),
				Locale:      l.ProductLocale,
			},
			Quantity: int(l.Quantity),
			Offers:   offers,
			Lowest:   lowest,
			Highest:  highest,
		})
	}

	return Snapshot{
		Cart:       cartFromRow(row),
		Lines:      lines,
		PriceRange: snapshotRange(lines),
	}
}

func cartFromRow(row dbgen.Cart) Cart {
	c := Cart{
		ID:          row.ID,
		UserID:      row.UserID,
		UniqueItems: int(row.UniqueItems),
	}
	if row.CreatedAt.Valid {
		c.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		c.UpdatedAt = row.UpdatedAt.Time
	}
	return c
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
