// Package syncqueue persists the durable queue of not-yet-confirmed
// mutations awaiting replay.
package syncqueue

import (
	"context"

	"github.com/dukaanly/possync/internal/client/models"
)

type Repository interface {
	// Enqueue appends the item and returns the assigned sequence id.
	Enqueue(ctx context.Context, item *models.QueueItem) (int64, error)

	// GetAllOrdered returns all pending items ordered by sequence id, i.e.
	// creation order.
	GetAllOrdered(ctx context.Context) ([]models.QueueItem, error)

	// Delete removes a confirmed item.
	Delete(ctx context.Context, id int64) error

	// Len returns the number of pending items.
	Len(ctx context.Context) (int, error)
}
