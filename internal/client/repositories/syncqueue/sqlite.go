package syncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukaanly/possync/internal/client/models"
	"github.com/dukaanly/possync/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, item *models.QueueItem) (int64, error) {
	headers := item.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	hdr, err := json.Marshal(headers)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal queue item headers: %w", err)
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_queue (endpoint, method, headers, body, entity_type, record_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.Endpoint, item.Method, string(hdr), []byte(item.Body), string(item.EntityType), item.RecordID, createdAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read queue sequence id: %w", err)
	}
	item.ID = id
	item.CreatedAt = createdAt
	return id, nil
}

func (r *SQLiteRepository) GetAllOrdered(ctx context.Context) ([]models.QueueItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, endpoint, method, headers, body, entity_type, record_id, created_at
		FROM sync_queue ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue items: %w", err)
	}
	defer rows.Close()

	var result []models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		var hdr string
		var body []byte
		var entity string
		var createdAt int64
		if err := rows.Scan(&item.ID, &item.Endpoint, &item.Method, &hdr, &body, &entity, &item.RecordID, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(hdr), &item.Headers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queue item headers: %w", err)
		}
		item.Body = body
		item.EntityType = models.EntityType(entity)
		item.CreatedAt = time.UnixMilli(createdAt)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete queue item %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count queue items: %w", err)
	}
	return n, nil
}
