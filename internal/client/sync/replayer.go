// Package sync drains the durable mutation queue once connectivity
// returns.
package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/dukaanly/possync/internal/client/models"
	"github.com/dukaanly/possync/internal/client/repositories/syncqueue"
	"github.com/dukaanly/possync/internal/logging"
)

// ReplayGateway is the slice of the request gateway the replayer needs:
// the online-only path that re-issues one captured mutation and reconciles
// the local mirror on success.
type ReplayGateway interface {
	Replay(ctx context.Context, item *models.QueueItem) (*models.Record, error)
}

// ErrorHook observes per-item replay failures. No user is waiting on a
// replay, so failures are reported here (and logged) instead of being
// surfaced to a caller.
type ErrorHook func(item *models.QueueItem, err error)

// Replayer drains the sync queue in FIFO order.
//
// A failed item stops the pass: items created later may depend on earlier
// ones (a bill referencing a customer created in the same offline
// session), so skipping ahead could orphan references on the server. The
// failed item and everything after it stay queued for the next reconnect.
type Replayer struct {
	queue   syncqueue.Repository
	gateway ReplayGateway
	log     logging.Logger
	onError ErrorHook

	mu sync.Mutex
}

func NewReplayer(queue syncqueue.Repository, gateway ReplayGateway, log logging.Logger, onError ErrorHook) *Replayer {
	return &Replayer{queue: queue, gateway: gateway, log: log, onError: onError}
}

// Drain runs one replay pass. Concurrent calls coalesce: while a pass is
// running, another Drain returns immediately and relies on the next
// reconnect edge. Returns the error that stopped the pass, nil when the
// queue emptied.
func (r *Replayer) Drain(ctx context.Context) error {
	if !r.mu.TryLock() {
		r.log.Debug(ctx, "replay pass already running")
		return nil
	}
	defer r.mu.Unlock()

	items, err := r.queue.GetAllOrdered(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync queue: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	r.log.Info(ctx, "replaying queued mutations", "items", len(items))

	for i := range items {
		item := &items[i]

		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := r.gateway.Replay(ctx, item); err != nil {
			r.log.Warn(ctx, "replay halted, keeping item and successors queued",
				"queue_id", item.ID, "method", item.Method, "endpoint", item.Endpoint, "error", err)
			if r.onError != nil {
				r.onError(item, err)
			}
			return err
		}

		if err := r.queue.Delete(ctx, item.ID); err != nil {
			// the mutation reached the server; keeping the item would
			// replay it twice, so stop and report
			return fmt.Errorf("failed to delete confirmed queue item %d: %w", item.ID, err)
		}

		r.log.Debug(ctx, "queued mutation confirmed",
			"queue_id", item.ID, "method", item.Method, "endpoint", item.Endpoint)
	}

	r.log.Info(ctx, "sync queue drained", "items", len(items))
	return nil
}
