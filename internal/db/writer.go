package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kkysen/omny-summary/internal/history"
)

// InsertTrips stores a loaded history under a fresh import id and returns it.
// Trips keep their chronological position in seq.
func (db *DB) InsertTrips(ctx context.Context, h *history.History) (string, error) {
	importID := uuid.New().String()
	archived := 0
	if h.Archived {
		archived = 1
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO imports (import_id, source_path, archived, trip_count, loaded_at) VALUES (?, ?, ?, ?, ?)",
		importID, h.Path, archived, len(h.Trips), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (import_id, seq, trip_time, mode, product_type, fare)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare trip insert: %w", err)
	}
	defer stmt.Close()

	for i, trip := range h.Trips {
		_, err := stmt.ExecContext(ctx,
			importID,
			i,
			trip.Time.UTC().Format(time.RFC3339),
			trip.Mode,
			trip.ProductType,
			trip.Fare,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert trip %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit trips: %w", err)
	}

	return importID, nil
}
