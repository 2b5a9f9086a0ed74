package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ivanjaven/extension/types"
)

// QueueRepository handles persistence for document requests.
type QueueRepository struct {
	db *sql.DB
}

func NewQueueRepository(db *sql.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

func (r *QueueRepository) Insert(ctx context.Context, item types.QueueItem) (types.QueueItem, error) {
	item.CreatedAt = time.Now()

	const query = `
		INSERT INTO queue (resident_id, document, created_at)
		VALUES ($1, $2, $3)
		RETURNING queue_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		item.ResidentID,
		item.Document,
		item.CreatedAt,
	).Scan(&item.QueueID); err != nil {
		return types.QueueItem{}, err
	}
	return item, nil
}

// List returns queue entries joined with resident names, oldest first, with a
// short label for the document picker column.
func (r *QueueRepository) List(ctx context.Context, offset, limit int) ([]types.QueueEntry, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 25
	}

	const query = `
		SELECT
			q.queue_id,
			q.resident_id,
			q.document,
			r.full_name,
			CASE q.document
				WHEN 'Barangay Business Clearance' THEN 'Bus. Clearance'
				WHEN 'Barangay Clearance' THEN 'Brgy. Clearance'
				WHEN 'Certificate of Indigency' THEN 'Indigency Cert.'
				WHEN 'Certificate of Residency' THEN 'Residency Cert.'
				ELSE LEFT(q.document, 15)
			END,
			TO_CHAR(q.created_at, 'YYYY-MM-DD HH12:MI:SS AM')
		FROM queue q
		INNER JOIN residents r ON q.resident_id = r.resident_id
		ORDER BY q.created_at ASC
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.QueueEntry, 0, limit)
	for rows.Next() {
		var entry types.QueueEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ResidentID,
			&entry.Document,
			&entry.Name,
			&entry.Label,
			&entry.Date,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *QueueRepository) Delete(ctx context.Context, queueID int) error {
	const query = `DELETE FROM queue WHERE queue_id = $1`
	result, err := r.db.ExecContext(ctx, query, queueID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
