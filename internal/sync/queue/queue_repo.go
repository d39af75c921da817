package queue

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=queue_repo.go -destination=mock/queue_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, item Item) error
	ListPending(ctx context.Context, limit int) ([]Item, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, item Item) error {
	query := `
        INSERT INTO sync_queue (
            id, type, record_id, action, payload, status, retry_count, timestamp
        ) VALUES (?, ?, ?, ?, ?, ?, 0, ?)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		item.ID.String(), item.Type, item.RecordID.String(),
		item.Action, item.Payload, StatusPending, item.Timestamp,
	)
	return err
}

func (r *repository) ListPending(ctx context.Context, limit int) ([]Item, error) {
	query := `
SELECT id, type, record_id, action, payload, status, retry_count, timestamp
FROM sync_queue
WHERE status IN (?, ?)
ORDER BY timestamp ASC
LIMIT ?
`

	rows, err := r.db.QueryContext(ctx, query, StatusPending, StatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0, limit)
	for rows.Next() {
		var (
			item         Item
			id, recordID string
		)
		if err := rows.Scan(
			&id,
			&item.Type,
			&recordID,
			&item.Action,
			&item.Payload,
			&item.Status,
			&item.RetryCount,
			&item.Timestamp,
		); err != nil {
			return nil, err
		}
		if item.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if item.RecordID, err = uuid.Parse(recordID); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// MarkSent confirms remote application for one queued operation. Entries are
// retired one by one; a record with several queued operations keeps the
// unconfirmed ones pending. Confirmation is the only path that retires an
// entry.
func (r *repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	query := `
UPDATE sync_queue
SET status = ?, last_error = NULL
WHERE id = ?
`
	exec := r.execer()
	_, err := exec.ExecContext(ctx, query, StatusSent, id.String())
	return err
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
UPDATE sync_queue
SET status = ?, retry_count = retry_count + 1, last_error = ?
WHERE id = ?
`
	exec := r.execer()
	_, err := exec.ExecContext(ctx, query, StatusFailed, truncate(reason, 500), id.String())
	return err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// NewItem snapshots a record mutation for the queue.
func NewItem(itemType string, recordID uuid.UUID, action string, payload []byte) Item {
	return Item{
		ID:        uuid.New(),
		Type:      itemType,
		RecordID:  recordID,
		Action:    action,
		Payload:   payload,
		Status:    StatusPending,
		Timestamp: time.Now().UTC(),
	}
}
