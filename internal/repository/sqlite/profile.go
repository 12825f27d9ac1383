package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/NeGaTiVe369/DocLearn-sub000/pkg/models"
)

// profileDoc is the stored shape of a profile. Education is persisted as a
// list regardless of role; the API layer converts to the role's wire shape.
type profileDoc struct {
	models.SpecialistUser
	Education []models.Education `json:"education,omitempty"`
}

func (r *Repo) CreateProfile(ctx context.Context, u *models.SpecialistUser) error {
	if u == nil {
		return fmt.Errorf("profile is nil")
	}

	doc, err := json.Marshal(profileDoc{SpecialistUser: *u, Education: u.Education})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = r.conn.Exec(ctx, `INSERT INTO profiles (account_id, role, first_name, last_name, avatar_id, profile_json, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, string(u.Role), u.FirstName, u.LastName, u.AvatarID, string(doc), now())
	return err
}

func (r *Repo) GetByAccountID(ctx context.Context, accountID int64) (*models.SpecialistUser, error) {
	row := r.conn.QueryRow(ctx, `SELECT profile_json, updated FROM profiles WHERE account_id = ?`, accountID)
	var raw string
	var updated int64
	if err := row.Scan(&raw, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	var doc profileDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal profile %d: %w", accountID, err)
	}

	u := doc.SpecialistUser
	u.ID = accountID
	u.Education = doc.Education
	u.Updated = updated
	return &u, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, u *models.SpecialistUser) error {
	if u == nil {
		return fmt.Errorf("profile is nil")
	}

	doc, err := json.Marshal(profileDoc{SpecialistUser: *u, Education: u.Education})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = r.conn.Exec(ctx, `UPDATE profiles SET role = ?, first_name = ?, last_name = ?, avatar_id = ?, profile_json = ?, updated = ? WHERE account_id = ?`,
		string(u.Role), u.FirstName, u.LastName, u.AvatarID, string(doc), now(), u.ID)
	return err
}

func (r *Repo) DeleteProfile(ctx context.Context, accountID int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM profiles WHERE account_id = ?`, accountID)
	return err
}
