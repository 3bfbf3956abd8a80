package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openlens/trustfeed/store"
)

func (d *DB) UpsertLens(ctx context.Context, upsert *store.Lens) (*store.Lens, error) {
	seeds, err := json.Marshal(upsert.Seeds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lens seeds: %w", err)
	}

	fields := []string{"id", "label", "lambda", "seeds"}
	placeholderValues := []any{upsert.ID, upsert.Label, upsert.Lambda, string(seeds)}

	if upsert.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, upsert.CreatedTs)
	}

	// Re-creation with the same id overwrites the lens and refreshes its
	// creation timestamp so it moves to the front of ListLenses.
	stmt := `INSERT INTO lens (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		ON CONFLICT (id) DO UPDATE SET
			label = excluded.label,
			lambda = excluded.lambda,
			seeds = excluded.seeds,
			created_ts = excluded.created_ts
		RETURNING id, label, lambda, seeds, created_ts`

	lens := &store.Lens{}
	var rawSeeds string
	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&lens.ID,
		&lens.Label,
		&lens.Lambda,
		&rawSeeds,
		&lens.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert lens: %w", err)
	}
	if err := json.Unmarshal([]byte(rawSeeds), &lens.Seeds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lens seeds: %w", err)
	}

	return lens, nil
}

func (d *DB) ListLenses(ctx context.Context, find *store.FindLens) ([]*store.Lens, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "lens.id = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Most-recently-created first.
	query := `
		SELECT id, label, lambda, seeds, created_ts
		FROM lens
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY lens.created_ts DESC, lens.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lenses: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Lens, 0)
	for rows.Next() {
		var lens store.Lens
		var rawSeeds string
		if err := rows.Scan(
			&lens.ID,
			&lens.Label,
			&lens.Lambda,
			&rawSeeds,
			&lens.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lens: %w", err)
		}
		if err := json.Unmarshal([]byte(rawSeeds), &lens.Seeds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal lens seeds: %w", err)
		}
		list = append(list, &lens)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lenses: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteLens(ctx context.Context, delete *store.DeleteLens) error {
	stmt := `DELETE FROM lens WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, delete.ID); err != nil {
		return fmt.Errorf("failed to delete lens: %w", err)
	}
	return nil
}
