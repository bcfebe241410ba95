package pgquery

import (
	"context"

	"parkshare/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const listWindowsByResource = `
SELECT id, resource_id, weekday, start_minute, end_minute, is_open, created_at
FROM availability_windows
WHERE resource_id = $1
ORDER BY weekday, start_minute, end_minute, id`

func (q *Queries) ListWindowsByResource(ctx context.Context, db db.DBTX, resourceID uuid.UUID) ([]AvailabilityWindow, error) {
	rows, err := db.Query(ctx, listWindowsByResource, resourceID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (AvailabilityWindow, error) {
		var w AvailabilityWindow
		err := row.Scan(&w.ID, &w.ResourceID, &w.Weekday, &w.StartMinute, &w.EndMinute, &w.IsOpen, &w.CreatedAt)
		return w, err
	})
}

const createWindow = `
INSERT INTO availability_windows (id, resource_id, weekday, start_minute, end_minute, is_open, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (q *Queries) CreateWindow(ctx context.Context, db db.DBTX, arg AvailabilityWindow) error {
	_, err := db.Exec(ctx, createWindow,
		arg.ID, arg.ResourceID, arg.Weekday, arg.StartMinute, arg.EndMinute, arg.IsOpen, arg.CreatedAt)
	return err
}

const deleteWindow = `DELETE FROM availability_windows WHERE id = $1 AND resource_id = $2`

func (q *Queries) DeleteWindow(ctx context.Context, db db.DBTX, resourceID, windowID uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, deleteWindow, windowID, resourceID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
