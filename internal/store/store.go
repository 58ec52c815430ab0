package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/exampaper/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrInUse is returned when a row cannot be removed while others refer to it.
var ErrInUse = errors.New("in use")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		question_text TEXT NOT NULL,
		subject TEXT NOT NULL,
		class_name TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		blooms_level TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL DEFAULT '',
		is_twisted INTEGER NOT NULL DEFAULT 0,
		options TEXT NOT NULL DEFAULT '[]',
		correct_answer_index INTEGER NOT NULL DEFAULT 0,
		explanation TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_questions_subject_class ON questions(subject, class_name);

	CREATE TABLE IF NOT EXISTS papers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		subject TEXT NOT NULL,
		class_name TEXT NOT NULL,
		chapter TEXT NOT NULL DEFAULT '',
		instructions TEXT NOT NULL DEFAULT '[]',
		time_limit_minutes INTEGER NOT NULL DEFAULT 0,
		total_marks INTEGER NOT NULL DEFAULT 0,
		created_by INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS paper_questions (
		paper_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		question_id TEXT NOT NULL,
		PRIMARY KEY (paper_id, position),
		FOREIGN KEY (paper_id) REFERENCES papers(id) ON DELETE CASCADE,
		FOREIGN KEY (question_id) REFERENCES questions(id)
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'teacher',
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS teacher_access (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		subject TEXT NOT NULL,
		class_name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (user_id, subject, class_name),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS imported_files (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		imported_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const questionColumns = `id, question_text, subject, class_name, unit, blooms_level, difficulty,
	is_twisted, options, correct_answer_index, explanation, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (model.QuestionRecord, error) {
	var q model.QuestionRecord
	var options string
	err := row.Scan(&q.ID, &q.QuestionText, &q.Subject, &q.ClassName, &q.Unit, &q.BloomsLevel, &q.Difficulty,
		&q.IsTwisted, &options, &q.CorrectAnswerIndex, &q.Explanation, &q.CreatedAt)
	if err != nil {
		return q, err
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return q, fmt.Errorf("decode options of question %s: %w", q.ID, err)
	}
	return q, nil
}

// InsertQuestion stores a question and returns its ID. A new UUID is
// assigned when q.ID is empty.
func (s *Store) InsertQuestion(q model.QuestionRecord) (string, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	if q.Options == nil {
		q.Options = []string{}
	}
	options, err := json.Marshal(q.Options)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO questions (`+questionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.QuestionText, q.Subject, q.ClassName, q.Unit, q.BloomsLevel, q.Difficulty,
		q.IsTwisted, string(options), q.CorrectAnswerIndex, q.Explanation, q.CreatedAt,
	)
	if err != nil {
		return "", err
	}
	return q.ID, nil
}

// GetQuestion returns a question by ID.
func (s *Store) GetQuestion(id string) (model.QuestionRecord, error) {
	q, err := scanQuestion(s.db.QueryRow(`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return q, fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return q, err
}

// ListQuestions returns questions matching the filter in insertion order.
// Empty filter fields mean no filtering on that field.
func (s *Store) ListQuestions(f model.QuestionFilter) ([]model.QuestionRecord, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	var args []any
	for _, c := range []struct{ col, val string }{
		{"subject", f.Subject},
		{"class_name", f.ClassName},
		{"unit", f.Unit},
		{"difficulty", f.Difficulty},
	} {
		if c.val != "" {
			query += ` AND ` + c.col + ` = ?`
			args = append(args, c.val)
		}
	}
	if f.UserID != 0 {
		query += ` AND EXISTS (SELECT 1 FROM teacher_access a
		            WHERE a.user_id = ? AND a.subject = questions.subject AND a.class_name = questions.class_name)`
		args = append(args, f.UserID)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var questions []model.QuestionRecord
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// DeleteQuestion removes a question that no paper uses.
func (s *Store) DeleteQuestion(id string) error {
	var used int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM paper_questions WHERE question_id = ?`, id).Scan(&used); err != nil {
		return err
	}
	if used > 0 {
		return fmt.Errorf("question %s is used by %d paper(s): %w", id, used, ErrInUse)
	}
	res, err := s.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return nil
}

// QuestionCount returns the number of questions in the bank.
func (s *Store) QuestionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}
