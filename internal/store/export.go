package store

import (
	"fmt"

	"github.com/pavelanni/exampaper/internal/model"
)

// PaperQuestions returns the questions of a paper in paper order.
func (s *Store) PaperQuestions(paperID int64) ([]model.QuestionRecord, error) {
	rows, err := s.db.Query(
		`SELECT q.id, q.question_text, q.subject, q.class_name, q.unit, q.blooms_level, q.difficulty,
		        q.is_twisted, q.options, q.correct_answer_index, q.explanation, q.created_at
		 FROM paper_questions pq
		 JOIN questions q ON q.id = pq.question_id
		 WHERE pq.paper_id = ?
		 ORDER BY pq.position`, paperID,
	)
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

// PaperForExport loads a paper and its ordered questions.
func (s *Store) PaperForExport(paperID int64) (model.Paper, []model.QuestionRecord, error) {
	paper, err := s.GetPaper(paperID)
	if err != nil {
		return paper, nil, err
	}
	questions, err := s.PaperQuestions(paperID)
	if err != nil {
		return paper, nil, fmt.Errorf("questions of paper %d: %w", paperID, err)
	}
	return paper, questions, nil
}
