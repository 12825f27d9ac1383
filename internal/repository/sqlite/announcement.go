package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

func (r *Repo) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a == nil {
		return fmt.Errorf("announcement is nil")
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	ts := now()
	_, err = r.conn.Exec(ctx, `INSERT INTO announcements (id, author_id, kind, status, title, payload_json, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.AuthorID, string(a.Kind), a.Status, a.Title, string(payload), ts, ts)
	return err
}

func (r *Repo) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	row := r.conn.QueryRow(ctx, `SELECT payload_json, status, created, updated FROM announcements WHERE id = ?`, id)
	return scanAnnouncement(row)
}

func (r *Repo) ListAnnouncements(ctx context.Context, kind, status string, limit, offset int) ([]models.Announcement, error) {
	q := `SELECT payload_json, status, created, updated FROM announcements WHERE 1=1`
	args := []any{}
	if kind != "" {
		q += ` AND kind = ?`
		args = append(args, kind)
	}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnnouncements(rows)
}

func (r *Repo) ListByAuthor(ctx context.Context, authorID int64) ([]models.Announcement, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT payload_json, status, created, updated FROM announcements WHERE author_id = ? ORDER BY created DESC`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnnouncements(rows)
}

func (r *Repo) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	if a == nil {
		return fmt.Errorf("announcement is nil")
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}

	_, err = r.conn.Exec(ctx, `UPDATE announcements SET kind = ?, status = ?, title = ?, payload_json = ?, updated = ? WHERE id = ?`,
		string(a.Kind), a.Status, a.Title, string(payload), now(), a.ID)
	return err
}

func (r *Repo) DeleteAnnouncement(ctx context.Context, id string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	return err
}

func scanAnnouncement(row *sql.Row) (*models.Announcement, error) {
	var raw, status string
	var created, updated int64
	if err := row.Scan(&raw, &status, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	var a models.Announcement
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("unmarshal announcement: %w", err)
	}
	a.Status = status
	a.Created = created
	a.Updated = updated
	return &a, nil
}

func collectAnnouncements(rows *sql.Rows) ([]models.Announcement, error) {
	var out []models.Announcement
	for rows.Next() {
		var raw, status string
		var created, updated int64
		if err := rows.Scan(&raw, &status, &created, &updated); err != nil {
			return nil, err
		}

		var a models.Announcement
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("unmarshal announcement: %w", err)
		}
		a.Status = status
		a.Created = created
		a.Updated = updated
		out = append(out, a)
	}
	return out, rows.Err()
}
