package db

import (
	"context"
	"database/sql"
	"fmt"
)

// RandomPassage picks one stored passage uniformly at random. sql.ErrNoRows
// means the store is empty; callers fall back to the bundled list.
func (d *DB) RandomPassage(ctx context.Context) (string, error) {
	var text string
	err := d.conn.QueryRowContext(ctx, `
		SELECT text FROM passages ORDER BY random() LIMIT 1
	`).Scan(&text)
	if err != nil {
		return "", fmt.Errorf("selecting random passage: %w", err)
	}
	return text, nil
}

// InsertPassage stores one passage, ignoring duplicates by text. It reports
// whether a new row was written.
func (d *DB) InsertPassage(ctx context.Context, text, sourceURL string) (bool, error) {
	var src sql.NullString
	if sourceURL != "" {
		src = sql.NullString{String: sourceURL, Valid: true}
	}
	res, err := d.conn.ExecContext(ctx, `
		INSERT INTO passages (text, source_url) VALUES ($1, $2)
		ON CONFLICT (text) DO NOTHING
	`, text, src)
	if err != nil {
		return false, fmt.Errorf("inserting passage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting passage: %w", err)
	}
	return n > 0, nil
}

// CountPassages returns the number of stored passages.
func (d *DB) CountPassages(ctx context.Context) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting passages: %w", err)
	}
	return n, nil
}
