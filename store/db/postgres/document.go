package postgres

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/folio-reader/folio/store"
)

func (d *DB) CreateDocument(ctx context.Context, create *store.Document) (*store.Document, error) {
	fields := []string{"uid", "title", "author", "format", "text", "size"}
	args := []any{create.UID, create.Title, create.Author, create.Format, create.Text, create.Size}

	stmt := `INSERT INTO document (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create document")
	}

	return create, nil
}

func (d *DB) GetDocument(ctx context.Context, find *store.FindDocument) (*store.Document, error) {
	list, err := d.ListDocuments(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) ListDocuments(ctx context.Context, find *store.FindDocument) ([]*store.Document, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Author; v != nil {
		where, args = append(where, "author = "+placeholder(len(args)+1)), append(args, *v)
	}

	textColumn := "text"
	if find.ExcludeText {
		textColumn = "''"
	}

	query := `
		SELECT
			id, uid, created_ts, updated_ts,
			title, author, format, ` + textColumn + `, size
		FROM document
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query documents")
	}
	defer rows.Close()

	list := make([]*store.Document, 0)
	for rows.Next() {
		var doc store.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UID,
			&doc.CreatedTs,
			&doc.UpdatedTs,
			&doc.Title,
			&doc.Author,
			&doc.Format,
			&doc.Text,
			&doc.Size,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan document")
		}
		list = append(list, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate documents")
	}
	return list, nil
}

func (d *DB) DeleteDocument(ctx context.Context, delete *store.DeleteDocument) error {
	stmts := []string{
		"DELETE FROM bookmark WHERE document_uid = $1",
		"DELETE FROM reader_session WHERE document_uid = $1",
		"DELETE FROM document WHERE uid = $1",
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, delete.UID); err != nil {
			return errors.Wrap(err, "failed to delete document")
		}
	}
	return tx.Commit()
}
