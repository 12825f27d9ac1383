package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

func (r *Repo) CreateRequest(ctx context.Context, m *models.ModerationRequest) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("moderation request is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO moderation_requests (user_id, changes_json, status, created) VALUES (?, ?, ?, ?)`,
		m.UserID, m.ChangesJSON, models.ModerationPending, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *Repo) GetRequest(ctx context.Context, id int64) (*models.ModerationRequest, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, changes_json, status, created, resolved FROM moderation_requests WHERE id = ?`, id)
	var m models.ModerationRequest
	var resolved sql.NullInt64
	if err := row.Scan(&m.ID, &m.UserID, &m.ChangesJSON, &m.Status, &m.Created, &resolved); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if resolved.Valid {
		m.Resolved = &resolved.Int64
	}

	return &m, nil
}

func (r *Repo) ListPending(ctx context.Context, limit, offset int) ([]models.ModerationRequest, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, changes_json, status, created, resolved FROM moderation_requests WHERE status = ? ORDER BY created ASC LIMIT ? OFFSET ?`,
		models.ModerationPending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ModerationRequest
	for rows.Next() {
		var m models.ModerationRequest
		var resolved sql.NullInt64
		if err := rows.Scan(&m.ID, &m.UserID, &m.ChangesJSON, &m.Status, &m.Created, &resolved); err != nil {
			return nil, err
		}
		if resolved.Valid {
			m.Resolved = &resolved.Int64
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) ResolveRequest(ctx context.Context, id int64, status string) error {
	if status != models.ModerationApproved && status != models.ModerationRejected {
		return fmt.Errorf("invalid resolution status %q", status)
	}

	_, err := r.conn.Exec(ctx, `UPDATE moderation_requests SET status = ?, resolved = ? WHERE id = ?`, status, now(), id)
	return err
}
