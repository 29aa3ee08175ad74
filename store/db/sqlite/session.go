package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/folio-reader/folio/store"
)

func (d *DB) CreateReaderSession(ctx context.Context, create *store.ReaderSession) (*store.ReaderSession, error) {
	fields := []string{"uid", "document_uid", "search_query", "current_index", "selection_text"}
	args := []any{create.UID, create.DocumentUID, create.SearchQuery, create.CurrentIndex, create.SelectionText}

	stmt := `INSERT INTO reader_session (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create reader session")
	}
	return create, nil
}

func (d *DB) GetReaderSession(ctx context.Context, find *store.FindReaderSession) (*store.ReaderSession, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DocumentUID; v != nil {
		where, args = append(where, "document_uid = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, created_ts, updated_ts,
			document_uid, search_query, current_index, selection_text
		FROM reader_session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC
		LIMIT 1`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query reader session")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "failed to iterate reader sessions")
		}
		return nil, nil
	}

	var session store.ReaderSession
	if err := rows.Scan(
		&session.ID,
		&session.UID,
		&session.CreatedTs,
		&session.UpdatedTs,
		&session.DocumentUID,
		&session.SearchQuery,
		&session.CurrentIndex,
		&session.SelectionText,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan reader session")
	}
	return &session, nil
}

func (d *DB) UpdateReaderSession(ctx context.Context, update *store.UpdateReaderSession) (*store.ReaderSession, error) {
	set, args := []string{"updated_ts = ?"}, []any{time.Now().Unix()}
	if v := update.SearchQuery; v != nil {
		set, args = append(set, "search_query = ?"), append(args, *v)
	}
	if v := update.CurrentIndex; v != nil {
		set, args = append(set, "current_index = ?"), append(args, *v)
	}
	if v := update.SelectionText; v != nil {
		set, args = append(set, "selection_text = ?"), append(args, *v)
	}
	args = append(args, update.UID)

	stmt := `UPDATE reader_session SET ` + strings.Join(set, ", ") + ` WHERE uid = ?`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update reader session")
	}

	return d.GetReaderSession(ctx, &store.FindReaderSession{UID: &update.UID})
}

func (d *DB) DeleteExpiredReaderSessions(ctx context.Context, beforeTs int64) (int64, error) {
	result, err := d.db.ExecContext(ctx,
		"DELETE FROM reader_session WHERE updated_ts < ?", beforeTs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired reader sessions")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read rows affected")
	}
	return n, nil
}
