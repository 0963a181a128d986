package cart_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/backend-grocer/internal/cart"
	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
)

type postgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	svc       *cart.Service
}

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres integration suite skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(postgresSuite))
}

func (s *postgresSuite) SetupSuite() {
	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts("../../db/migrations/000001_init.up.sql"),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.pool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)

	_, err = s.pool.Exec(ctx, `
		INSERT INTO products (id, name) VALUES (1, 'Apples'), (2, 'Bread'), (3, 'Coffee');
		INSERT INTO stores (id, name, latitude, longitude) VALUES (10, 'Store X', -6.2, 106.8), (20, 'Store Y', -6.3, 106.9);
		INSERT INTO store_offers (product_id, store_id, price, stock) VALUES (1, 10, 3.00, 5), (2, 10, 5.00, 5), (2, 20, 5.00, 5);
	`)
	s.Require().NoError(err)
	s.svc = cart.NewService(cart.PgxTxRunner{Pool: s.pool})
}

func (s *postgresSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.Require().NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *postgresSuite) TestApplyChangeLifecycle() {
	ctx := context.Background()

	snap, err := s.svc.ApplyChange(ctx, "it-alice", 1, 2)
	s.Require().NoError(err)
	s.Require().Len(snap.Lines, 1)
	s.Equal(1, snap.Cart.UniqueItems)

	snap, err = s.svc.ApplyChange(ctx, "it-alice", 2, 1)
	s.Require().NoError(err)
	s.Equal(2, snap.Cart.UniqueItems)
	s.Require().NotNil(snap.PriceRange)
	s.Equal("3", snap.PriceRange.Min.String())
	s.Equal("5", snap.PriceRange.Max.String())

	snap, err = s.svc.ApplyChange(ctx, "it-alice", 1, 0)
	s.Require().NoError(err)
	s.Require().Len(snap.Lines, 1)
	s.Equal(int64(2), snap.Lines[0].Product.ID)
	s.Equal(1, snap.Cart.UniqueItems)

	loaded, err := cart.NewRepository(dbgen.New(s.pool)).Load(ctx, snap.Cart.ID)
	s.Require().NoError(err)
	s.Equal(snap.Cart.ID, loaded.Cart.ID)
	s.Len(loaded.Lines, 1)

	_, err = s.svc.ApplyChange(ctx, "it-alice", 999, 1)
	s.ErrorIs(err, cart.ErrNotFound)
}

func (s *postgresSuite) TestConcurrentFirstAccessCreatesOneCart() {
	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 16; i++ {
		productID := int64(i%3 + 1)
		g.Go(func() error {
			_, err := s.svc.ApplyChange(gctx, "it-race", productID, 1)
			if err != nil {
				return fmt.Errorf("apply %d: %w", productID, err)
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	var carts, lines, unique int
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT count(*) FROM carts WHERE user_id = 'it-race'`).Scan(&carts))
	s.Require().NoError(s.pool.QueryRow(ctx,
		`SELECT count(*), max(c.unique_items) FROM cart_items ci JOIN carts c ON c.id = ci.cart_id WHERE c.user_id = 'it-race'`,
	).Scan(&lines, &unique))
	s.Equal(1, carts)
	s.Equal(3, lines)
	s.Equal(3, unique)
}
