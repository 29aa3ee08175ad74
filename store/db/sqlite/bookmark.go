package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/folio-reader/folio/store"
)

func (d *DB) UpsertBookmark(ctx context.Context, upsert *store.Bookmark) (*store.Bookmark, error) {
	stmt := `INSERT INTO bookmark (document_uid, scroll_percentage, updated_ts)
		VALUES (?, ?, ?)
		ON CONFLICT (document_uid) DO UPDATE SET
			scroll_percentage = EXCLUDED.scroll_percentage,
			updated_ts = EXCLUDED.updated_ts
		RETURNING id, updated_ts`
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.DocumentUID,
		upsert.ScrollPercentage,
		time.Now().Unix(),
	).Scan(&upsert.ID, &upsert.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert bookmark")
	}
	return upsert, nil
}

func (d *DB) GetBookmark(ctx context.Context, find *store.FindBookmark) (*store.Bookmark, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.DocumentUID; v != nil {
		where, args = append(where, "document_uid = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT id, document_uid, scroll_percentage, updated_ts FROM bookmark WHERE ` +
		strings.Join(where, " AND ") + ` LIMIT 1`

	var bookmark store.Bookmark
	err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&bookmark.ID,
		&bookmark.DocumentUID,
		&bookmark.ScrollPercentage,
		&bookmark.UpdatedTs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get bookmark")
	}
	return &bookmark, nil
}
