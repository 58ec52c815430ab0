package store

import (
	"fmt"
	"time"

	"github.com/pavelanni/exampaper/internal/model"
)

// GrantAccess lets a teacher work with papers of a subject and class and
// returns the stored grant. Granting the same pair twice returns the existing
// grant.
func (s *Store) GrantAccess(g model.AccessGrant) (model.AccessGrant, error) {
	_, err := s.db.Exec(
		`INSERT INTO teacher_access (user_id, subject, class_name, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, subject, class_name) DO NOTHING`,
		g.UserID, g.Subject, g.ClassName, time.Now(),
	)
	if err != nil {
		return model.AccessGrant{}, err
	}

	var stored model.AccessGrant
	err = s.db.QueryRow(
		`SELECT id, user_id, subject, class_name, created_at FROM teacher_access
		 WHERE user_id = ? AND subject = ? AND class_name = ?`,
		g.UserID, g.Subject, g.ClassName,
	).Scan(&stored.ID, &stored.UserID, &stored.Subject, &stored.ClassName, &stored.CreatedAt)
	if err != nil {
		return model.AccessGrant{}, fmt.Errorf("read access grant: %w", err)
	}
	return stored, nil
}

// RevokeAccess removes a grant by ID.
func (s *Store) RevokeAccess(id int64) error {
	res, err := s.db.Exec(`DELETE FROM teacher_access WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("access grant %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListAccess returns grants, all of them when userID is 0.
func (s *Store) ListAccess(userID int64) ([]model.AccessGrant, error) {
	query := `SELECT id, user_id, subject, class_name, created_at FROM teacher_access`
	var args []any
	if userID != 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY user_id, subject, class_name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var grants []model.AccessGrant
	for rows.Next() {
		var g model.AccessGrant
		if err := rows.Scan(&g.ID, &g.UserID, &g.Subject, &g.ClassName, &g.CreatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// HasAccess reports whether the user holds a grant for the subject and class.
func (s *Store) HasAccess(userID int64, subject, className string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM teacher_access WHERE user_id = ? AND subject = ? AND class_name = ?`,
		userID, subject, className,
	).Scan(&n)
	return n > 0, err
}
