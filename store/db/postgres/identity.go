package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/openlens/trustfeed/store"
)

func (d *DB) UpsertIdentity(ctx context.Context, upsert *store.Identity) (*store.Identity, error) {
	fields := []string{"id", "label"}
	placeholderValues := []any{upsert.ID, upsert.Label}

	if upsert.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, upsert.CreatedTs)
	}

	// Re-registration keeps an existing label unless a new one is supplied.
	stmt := `INSERT INTO identity (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		ON CONFLICT (id) DO UPDATE SET
			label = CASE WHEN excluded.label <> '' THEN excluded.label ELSE identity.label END,
			updated_ts = EXTRACT(EPOCH FROM NOW())
		RETURNING id, label, created_ts, updated_ts`

	identity := &store.Identity{}
	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&identity.ID,
		&identity.Label,
		&identity.CreatedTs,
		&identity.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert identity: %w", err)
	}

	return identity, nil
}

func (d *DB) ListIdentities(ctx context.Context, find *store.FindIdentity) ([]*store.Identity, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "identity.id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, label, created_ts, updated_ts
		FROM identity
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY identity.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query identities: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Identity, 0)
	for rows.Next() {
		var identity store.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.Label,
			&identity.CreatedTs,
			&identity.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		list = append(list, &identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate identities: %w", err)
	}

	return list, nil
}
