package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
)

// TxRunner executes fn inside a single database transaction.
// fn's error aborts the transaction and is returned unchanged.
type TxRunner interface {
	InTx(ctx context.Context, fn func(q Querier) error) error
}

// PgxTxRunner runs transactions on a pgx pool.
type PgxTxRunner struct {
	Pool *pgxpool.Pool
}

// InTx implements TxRunner.
func (r PgxTxRunner) InTx(ctx context.Context, fn func(q Querier) error) (txErr error) {
	if r.Pool == nil {
		return errors.New("cart tx runner not configured")
	}
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if txErr == nil {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rbErr))
		}
	}()

	if err := fn(dbgen.New(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
