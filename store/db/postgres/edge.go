package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/openlens/trustfeed/store"
)

func (d *DB) UpsertEdge(ctx context.Context, upsert *store.Edge) (*store.Edge, error) {
	fields := []string{"src", "dst", "weight", "evidence_ref"}
	placeholderValues := []any{upsert.Src, upsert.Dst, upsert.Weight, upsert.EvidenceRef}

	if upsert.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, upsert.CreatedTs)
	}

	// Last-write-wins: re-inserting the same pair replaces weight,
	// evidence and timestamp.
	stmt := `INSERT INTO edge (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		ON CONFLICT (src, dst) DO UPDATE SET
			weight = excluded.weight,
			evidence_ref = excluded.evidence_ref,
			created_ts = EXTRACT(EPOCH FROM NOW())
		RETURNING src, dst, weight, evidence_ref, created_ts`

	edge := &store.Edge{}
	var evidenceRef sql.NullString
	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&edge.Src,
		&edge.Dst,
		&edge.Weight,
		&evidenceRef,
		&edge.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert edge: %w", err)
	}
	if evidenceRef.Valid {
		edge.EvidenceRef = &evidenceRef.String
	}

	return edge, nil
}

func (d *DB) ListEdges(ctx context.Context, find *store.FindEdge) ([]*store.Edge, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Src; v != nil {
		where, args = append(where, "edge.src = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Dst; v != nil {
		where, args = append(where, "edge.dst = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Sign; v != nil {
		if *v > 0 {
			where = append(where, "edge.weight > 0")
		} else if *v < 0 {
			where = append(where, "edge.weight < 0")
		}
	}

	query := `
		SELECT src, dst, weight, evidence_ref, created_ts
		FROM edge
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY edge.src ASC, edge.dst ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Edge, 0)
	for rows.Next() {
		var edge store.Edge
		var evidenceRef sql.NullString
		if err := rows.Scan(
			&edge.Src,
			&edge.Dst,
			&edge.Weight,
			&evidenceRef,
			&edge.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		if evidenceRef.Valid {
			edge.EvidenceRef = &evidenceRef.String
		}
		list = append(list, &edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate edges: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteEdge(ctx context.Context, delete *store.DeleteEdge) error {
	// Idempotent: deleting an absent pair is not an error.
	stmt := `DELETE FROM edge WHERE src = ` + placeholder(1) + ` AND dst = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, delete.Src, delete.Dst); err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	return nil
}
