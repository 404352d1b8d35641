package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// FetchBatch pages undecided queue items in insertion order. The cursor is
// the last seen sequence number; "" starts from the beginning. Items stay
// in the table until MarkDecided so a crashed session can replay them.
func (d *DB) FetchBatch(ctx context.Context, cursor string, limit int) ([]domain.QueueItem, string, error) {
	if limit <= 0 {
		limit = 20
	}

	q := sq.Select("seq", "id", "kind", "payload", "options", "hint", "created_at").
		From("queue_items").
		Where(sq.Eq{"decided": false}).
		OrderBy("seq ASC").
		Limit(uint64(limit))
	if cursor != "" {
		after, err := strconv.ParseInt(cursor, 10, 64)
		if err != nil {
			return nil, "", fmt.Errorf("parse cursor %q: %w", cursor, err)
		}
		q = q.Where(sq.Gt{"seq": after})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, "", fmt.Errorf("build fetch query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("fetch batch: %w", err)
	}
	defer rows.Close()

	var items []domain.QueueItem
	var lastSeq int64
	for rows.Next() {
		var (
			item      domain.QueueItem
			kind      string
			options   string
			createdAt int64
		)
		if err := rows.Scan(&lastSeq, &item.ID, &kind, &item.Payload, &options, &item.Hint, &createdAt); err != nil {
			return nil, "", err
		}
		item.Kind = domain.ItemKind(kind)
		item.CreatedAt = time.Unix(createdAt, 0)
		if options != "" && options != "[]" {
			if err := json.Unmarshal([]byte(options), &item.Options); err != nil {
				// A corrupt options blob makes the item malformed, not
				// the batch unloadable.
				item.Options = nil
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	next := cursor
	if len(items) > 0 {
		next = strconv.FormatInt(lastSeq, 10)
	}
	return items, next, nil
}

// InsertItems queues new items for review, skipping duplicates by ID.
// Returns the number actually inserted.
func (d *DB) InsertItems(items []domain.QueueItem) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin insert items: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, item := range items {
		opts, err := json.Marshal(item.Options)
		if err != nil {
			return inserted, fmt.Errorf("marshal options for %s: %w", item.ID, err)
		}
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		query, args, err := sq.Insert("queue_items").
			Columns("id", "kind", "payload", "options", "hint", "created_at").
			Values(item.ID, string(item.Kind), item.Payload, string(opts), item.Hint, createdAt.Unix()).
			Suffix("ON CONFLICT(id) DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, fmt.Errorf("build insert: %w", err)
		}
		res, err := tx.Exec(query, args...)
		if err != nil {
			return inserted, fmt.Errorf("insert item %s: %w", item.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, err
	}
	return inserted, nil
}

// MarkDecided flags an item as consumed so it never reappears in a batch.
func (d *DB) MarkDecided(id string) error {
	res, err := d.db.Exec(`UPDATE queue_items SET decided = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// PendingCount returns the number of undecided items.
func (d *DB) PendingCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM queue_items WHERE decided = 0`).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return count, nil
}

// ResetProgress wipes player state while keeping the ingested queue.
func (d *DB) ResetProgress() error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stats", "achievements", "challenges", "score_events"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}
