package db

import (
	"context"
	"fmt"
)

// Column is a categorical trip column that can be counted
type Column string

const (
	ColumnMode        Column = "mode"
	ColumnProductType Column = "product_type"
	ColumnFare        Column = "fare"
)

// Count is the number of trips carrying a value
type Count struct {
	Value string
	Count int
}

// Counts is a frequency table, most frequent value first
type Counts []Count

// Get returns the count for value and whether it appears at all.
func (c Counts) Get(value string) (int, bool) {
	for _, entry := range c {
		if entry.Value == value {
			return entry.Count, true
		}
	}
	return 0, false
}

// Total sums all counts.
func (c Counts) Total() int {
	total := 0
	for _, entry := range c {
		total += entry.Count
	}
	return total
}

// ValueCounts counts the trips of an import per value of column. Ties are
// ordered by the most recent trip carrying the value, which is the order the
// export lists them in.
func (db *DB) ValueCounts(ctx context.Context, importID string, column Column) (Counts, error) {
	switch column {
	case ColumnMode, ColumnProductType, ColumnFare:
	default:
		return nil, fmt.Errorf("unknown column %q", column)
	}

	// column is one of the constants above, never user input
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS n
		FROM trips
		WHERE import_id = ?
		GROUP BY %[1]s
		ORDER BY n DESC, MAX(seq) DESC
	`, column)

	rows, err := db.conn.QueryContext(ctx, query, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", column, err)
	}
	defer rows.Close()

	var counts Counts
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Value, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
