package images

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
)

type refLister interface {
	ListProductImageRefs(ctx context.Context) ([]dbgen.ListProductImageRefsRow, error)
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Summary counts the outcome of a sync run.
type Summary struct {
	Total      int
	Queued     int
	Duplicates int
	Failed     int
}

// Sync enqueues one fetch task per product carrying an image reference.
// Enqueue failures are counted and joined into the returned error; a list
// failure aborts.
func Sync(ctx context.Context, products refLister, queue enqueuer) (Summary, error) {
	rows, err := products.ListProductImageRefs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list product images: %w", err)
	}
	sum := Summary{Total: len(rows)}
	var errs error
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return sum, errors.Join(errs, err)
		}
		task, err := NewFetchTask(Ref{ProductID: row.ID, Name: row.Name, ImageRef: row.ImageRef})
		if err != nil {
			sum.Failed++
			errs = errors.Join(errs, err)
			continue
		}
		_, err = queue.EnqueueContext(ctx, task)
		switch {
		case err == nil:
			sum.Queued++
		case errors.Is(err, asynq.ErrDuplicateTask), errors.Is(err, asynq.ErrTaskIDConflict):
			sum.Duplicates++
		default:
			sum.Failed++
			errs = errors.Join(errs, fmt.Errorf("enqueue product %d: %w", row.ID, err))
		}
	}
	return sum, errs
}
