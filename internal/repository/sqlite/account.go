package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

func (r *Repo) CreateAccount(ctx context.Context, a *models.Account) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("account is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO accounts (email, password_hash, is_admin, updated) VALUES (?, ?, ?, ?)`, a.Email, a.PasswordHash, boolToInt(a.IsAdmin), now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, is_admin, updated FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, email, password_hash, is_admin, updated FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *Repo) UpdateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE accounts SET email = ?, password_hash = ?, is_admin = ?, updated = ? WHERE id = ?`, a.Email, a.PasswordHash, boolToInt(a.IsAdmin), now(), a.ID)
	return err
}

func (r *Repo) DeleteAccount(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return err
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	var admin int
	var pw sql.NullString
	if err := row.Scan(&a.ID, &a.Email, &pw, &admin, &a.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if pw.Valid {
		a.PasswordHash = pw.String
	}
	a.IsAdmin = admin != 0

	return &a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
