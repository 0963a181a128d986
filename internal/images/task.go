package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-grocer/internal/obs"
	"github.com/noah-isme/backend-grocer/internal/resilience"
)

// TypeFetch is the asynq task type for product image downloads.
const TypeFetch = "images:fetch"

// uniqueFor bounds how long a duplicate enqueue for the same payload is rejected.
const uniqueFor = time.Hour

// NewFetchTask encodes ref as an images:fetch task. Identical payloads are
// deduplicated by asynq for an hour.
func NewFetchTask(ref Ref) (*asynq.Task, error) {
	if ref.ProductID <= 0 {
		return nil, fmt.Errorf("images: invalid product id %d", ref.ProductID)
	}
	payload, err := json.Marshal(ref)
	if err != nil {
		return nil, fmt.Errorf("encode fetch payload: %w", err)
	}
	return asynq.NewTask(TypeFetch, payload,
		asynq.TaskID(uuid.NewString()),
		asynq.Unique(uniqueFor),
		asynq.MaxRetry(5),
		asynq.Timeout(2*time.Minute),
	), nil
}

type fetcher interface {
	Fetch(ctx context.Context, ref Ref) (Result, error)
}

// Handler processes images:fetch tasks.
type Handler struct {
	Fetcher fetcher
}

// ProcessTask implements asynq.Handler. Malformed payloads and 4xx responses
// other than 429 are not retried.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var ref Ref
	if err := json.Unmarshal(t.Payload(), &ref); err != nil {
		recordFetch(Failed)
		return fmt.Errorf("decode %s payload: %v: %w", TypeFetch, err, asynq.SkipRetry)
	}
	logger := zerolog.Ctx(ctx).With().Int64("product_id", ref.ProductID).Logger()

	res, err := h.Fetcher.Fetch(ctx, ref)
	recordFetch(res.Outcome)
	if err != nil {
		var statusErr *resilience.StatusError
		if errors.Is(err, ErrEmptyRef) || errors.Is(err, ErrTooLarge) ||
			(errors.As(err, &statusErr) && !resilience.Retryable(statusErr.StatusCode)) {
			logger.Warn().Err(err).Msg("image fetch rejected")
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	switch res.Outcome {
	case Skipped:
		logger.Info().Str("image_ref", ref.ImageRef).Msg("image ref is not a url; skipped")
	default:
		logger.Info().Str("path", res.Path).Int64("bytes", res.Bytes).Msg("image downloaded")
	}
	return nil
}

func recordFetch(outcome Outcome) {
	if obs.ImagesFetchTotal == nil || outcome == "" {
		return
	}
	obs.ImagesFetchTotal.WithLabelValues(string(outcome)).Inc()
}
