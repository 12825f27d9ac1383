package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// AvatarStore implementation: the client-side blob cache table, primary key
// avatar id, indexed by user_id and cached_at.

func (r *Repo) Get(ctx context.Context, avatarID string) (*models.CachedAvatar, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, content_type, blob, cached_at FROM avatars WHERE id = ?`, avatarID)
	var e models.CachedAvatar
	if err := row.Scan(&e.ID, &e.UserID, &e.ContentType, &e.Blob, &e.CachedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &e, nil
}

func (r *Repo) Put(ctx context.Context, entry *models.CachedAvatar) error {
	if entry == nil {
		return fmt.Errorf("avatar entry is nil")
	}

	// INSERT OR IGNORE keeps the cache write-once per id: a racing writer that
	// loses simply has its row skipped.
	_, err := r.conn.Exec(ctx, `INSERT OR IGNORE INTO avatars (id, user_id, content_type, blob, cached_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.ContentType, entry.Blob, entry.CachedAt)
	return err
}

func (r *Repo) Delete(ctx context.Context, avatarID string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM avatars WHERE id = ?`, avatarID)
	return err
}

func (r *Repo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM avatars WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *Repo) Sweep(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).UnixMilli()
	res, err := r.conn.Exec(ctx, `DELETE FROM avatars WHERE cached_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UploadRepo implementation: server-side avatar image storage.

func (r *Repo) SaveUpload(ctx context.Context, u *models.AvatarUpload) error {
	if u == nil {
		return fmt.Errorf("upload is nil")
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO avatar_uploads (id, user_id, content_type, blob, created) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.UserID, u.ContentType, u.Blob, now())
	return err
}

func (r *Repo) GetUpload(ctx context.Context, id string) (*models.AvatarUpload, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, content_type, blob, created FROM avatar_uploads WHERE id = ?`, id)
	var u models.AvatarUpload
	if err := row.Scan(&u.ID, &u.UserID, &u.ContentType, &u.Blob, &u.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &u, nil
}

func (r *Repo) DeleteUpload(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM avatar_uploads WHERE id = ?`, id)
	return err
}

// DeleteUploadsByUser removes all uploads of a user except keepID, so only the
// current avatar stays stored after a new upload.
func (r *Repo) DeleteUploadsByUser(ctx context.Context, userID int64, keepID string) (int64, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM avatar_uploads WHERE user_id = ? AND id != ?`, userID, keepID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
