package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pavelanni/exampaper/internal/model"
)

const paperColumns = `id, title, subject, class_name, chapter, instructions,
	time_limit_minutes, total_marks, created_by, created_at`

func scanPaper(row rowScanner) (model.Paper, error) {
	var p model.Paper
	var instructions string
	err := row.Scan(&p.ID, &p.Title, &p.Subject, &p.ClassName, &p.Chapter, &instructions,
		&p.TimeLimitMinutes, &p.TotalMarks, &p.CreatedBy, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal([]byte(instructions), &p.Instructions); err != nil {
		return p, fmt.Errorf("decode instructions of paper %d: %w", p.ID, err)
	}
	return p, nil
}

// CreatePaper stores a paper with its questions in the given order. Every
// question ID must exist.
func (s *Store) CreatePaper(p model.Paper) (int64, error) {
	if p.Instructions == nil {
		p.Instructions = []string{}
	}
	instructions, err := json.Marshal(p.Instructions)
	if err != nil {
		return 0, fmt.Errorf("encode instructions: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO papers (title, subject, class_name, chapter, instructions, time_limit_minutes, total_marks, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Subject, p.ClassName, p.Chapter, string(instructions),
		p.TimeLimitMinutes, p.TotalMarks, p.CreatedBy, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	paperID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, qID := range p.QuestionIDs {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM questions WHERE id = ?`, qID).Scan(&exists); err != nil {
			return 0, err
		}
		if exists == 0 {
			return 0, fmt.Errorf("question %s: %w", qID, ErrNotFound)
		}
		if _, err := tx.Exec(
			`INSERT INTO paper_questions (paper_id, position, question_id) VALUES (?, ?, ?)`,
			paperID, i, qID,
		); err != nil {
			return 0, err
		}
	}

	return paperID, tx.Commit()
}

// GetPaper returns a paper with its ordered question IDs.
func (s *Store) GetPaper(id int64) (model.Paper, error) {
	p, err := scanPaper(s.db.QueryRow(`SELECT `+paperColumns+` FROM papers WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("paper %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, err
	}

	rows, err := s.db.Query(`SELECT question_id FROM paper_questions WHERE paper_id = ? ORDER BY position`, id)
	if err != nil {
		return p, err
	}
	defer rows.Close()
	for rows.Next() {
		var qID string
		if err := rows.Scan(&qID); err != nil {
			return p, err
		}
		p.QuestionIDs = append(p.QuestionIDs, qID)
	}
	return p, rows.Err()
}

// ListPapers returns all papers, newest first, without question IDs.
func (s *Store) ListPapers() ([]model.Paper, error) {
	return s.queryPapers(`SELECT ` + paperColumns + ` FROM papers ORDER BY id DESC`)
}

// ListPapersForUser returns the papers whose subject and class the user has
// been granted, newest first.
func (s *Store) ListPapersForUser(userID int64) ([]model.Paper, error) {
	return s.queryPapers(
		`SELECT p.id, p.title, p.subject, p.class_name, p.chapter, p.instructions,
		        p.time_limit_minutes, p.total_marks, p.created_by, p.created_at
		 FROM papers p
		 JOIN teacher_access a ON a.subject = p.subject AND a.class_name = p.class_name
		 WHERE a.user_id = ?
		 ORDER BY p.id DESC`, userID)
}

func (s *Store) queryPapers(query string, args ...any) ([]model.Paper, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var papers []model.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// DeletePaper removes a paper and its question list.
func (s *Store) DeletePaper(id int64) error {
	res, err := s.db.Exec(`DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("paper %d: %w", id, ErrNotFound)
	}
	return nil
}
