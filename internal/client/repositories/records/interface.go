// Package records persists the local mirrors of backend entities (bills,
// products, customers). One logical table per entity type, primary key id.
package records

import (
	"context"

	"github.com/dukaanly/possync/internal/client/models"
)

type Repository interface {
	// Put inserts or overwrites a record by primary key.
	Put(ctx context.Context, entity models.EntityType, rec *models.Record) error

	// GetAll returns the full current contents of the entity's table.
	GetAll(ctx context.Context, entity models.EntityType) ([]models.Record, error)

	// GetByID returns one record, or common.ErrNotFound.
	GetByID(ctx context.Context, entity models.EntityType, id string) (*models.Record, error)

	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, entity models.EntityType, id string) error

	// Replace atomically removes the record under oldID and inserts rec,
	// so readers never observe both the placeholder and the authoritative
	// record, or neither.
	Replace(ctx context.Context, entity models.EntityType, oldID string, rec *models.Record) error
}
