package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dukaanly/possync/internal/client/models"
	"github.com/dukaanly/possync/internal/common"
	"github.com/dukaanly/possync/internal/dbx"
)

// tableFor maps an entity type to its mirror table. Table names are taken
// from this fixed map, never from caller input, so they are safe to splice
// into SQL.
func tableFor(entity models.EntityType) (string, error) {
	switch entity {
	case models.EntityBill:
		return "bills", nil
	case models.EntityProduct:
		return "products", nil
	case models.EntityCustomer:
		return "customers", nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnknownEntityType, entity)
	}
}

// SQLiteRepository implements Repository over the client SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func put(ctx context.Context, db dbx.DBTX, table string, rec *models.Record) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, payload, pending)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, pending = excluded.pending
	`, table)
	_, err := db.ExecContext(ctx, query, rec.ID, []byte(rec.Payload), rec.Pending)
	if err != nil {
		return fmt.Errorf("failed to upsert %s record: %w", table, err)
	}
	return nil
}

func (r *SQLiteRepository) Put(ctx context.Context, entity models.EntityType, rec *models.Record) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}
	return put(ctx, r.db, table, rec)
}

func (r *SQLiteRepository) GetAll(ctx context.Context, entity models.EntityType) ([]models.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, payload, pending FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to select %s records: %w", table, err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		var item models.Record
		var payload []byte
		if err := rows.Scan(&item.ID, &payload, &item.Pending); err != nil {
			return nil, err
		}
		item.Payload = payload
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, entity models.EntityType, id string) (*models.Record, error) {
	table, err := tableFor(entity)
	if err != nil {
		return nil, err
	}

	var item models.Record
	var payload []byte
	err = r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, payload, pending FROM %s WHERE id = ?`, table), id).
		Scan(&item.ID, &payload, &item.Pending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s record: %w", table, err)
	}
	item.Payload = payload
	return &item, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, entity models.EntityType, id string) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s record: %w", table, err)
	}
	return nil
}

// Replace swaps the placeholder row for the authoritative one in a single
// transaction.
func (r *SQLiteRepository) Replace(ctx context.Context, entity models.EntityType, oldID string, rec *models.Record) error {
	table, err := tableFor(entity)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), oldID); err != nil {
			return fmt.Errorf("failed to delete %s record: %w", table, err)
		}
		return put(ctx, tx, table, rec)
	})
}
