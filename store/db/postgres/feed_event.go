package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/openlens/trustfeed/store"
)

func (d *DB) CreateFeedEvent(ctx context.Context, create *store.FeedEvent) (*store.FeedEvent, error) {
	fields := []string{"cid", "did", "type", "ts"}
	placeholderValues := []any{create.Cid, create.Did, create.Type, create.Ts}

	stmt := `INSERT INTO feed_event (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create feed event: %w", err)
	}

	return create, nil
}

func (d *DB) ListFeedEvents(ctx context.Context, find *store.FindFeedEvent) ([]*store.FeedEvent, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Type; v != nil {
		where, args = append(where, "feed_event.type = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Newest first; id breaks same-second ties.
	query := `
		SELECT id, cid, did, type, ts
		FROM feed_event
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY feed_event.ts DESC, feed_event.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed events: %w", err)
	}
	defer rows.Close()

	list := make([]*store.FeedEvent, 0)
	for rows.Next() {
		var event store.FeedEvent
		if err := rows.Scan(
			&event.ID,
			&event.Cid,
			&event.Did,
			&event.Type,
			&event.Ts,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feed event: %w", err)
		}
		list = append(list, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feed events: %w", err)
	}

	return list, nil
}
