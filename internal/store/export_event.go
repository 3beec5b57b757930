package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var exportSelectColumns = []string{
	"id", "sequence", "created_at", "format", "scope", "subject",
	"plan_count", "path", "bytes", "printed", "error_message",
}

func (r *EventStore) AppendExport(ctx context.Context, data ExportEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(exportEventsTable).
		Columns(exportSelectColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.Format,
			data.Scope,
			data.Subject,
			data.PlanCount,
			data.Path,
			data.Bytes,
			data.Printed,
			data.ErrorMessage,
		).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save export event: %w", err)
	}
	return nil
}

// QueryExports returns recorded exports, newest first.
func (r *EventStore) QueryExports(ctx context.Context, opts QueryOpts) ([]ExportEvent, error) {
	sel := builder().Select(exportSelectColumns...).
		From(entsql.Table(exportEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	applyTimeRange(sel, opts)
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query export events: %w", err)
	}
	defer rows.Close()

	var out []ExportEvent
	for rows.Next() {
		var (
			e            ExportEvent
			createdAt    int64
			path, errMsg sql.NullString
		)
		err := rows.Scan(
			&e.ID, &e.Sequence, &createdAt, &e.Format, &e.Scope, &e.Subject,
			&e.PlanCount, &path, &e.Bytes, &e.Printed, &errMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("scan export event: %w", err)
		}
		e.Timestamp = time.UnixMilli(createdAt)
		e.Path = path.String
		e.ErrorMessage = errMsg.String
		out = append(out, e)
	}
	return out, rows.Err()
}
