package pdfexport

import (
	"fmt"
	"strings"
)

// Mode selects which parts of each question an export renders.
type Mode int

const (
	// ModeFull renders questions, options and, on request, answers and explanations.
	ModeFull Mode = iota
	// ModeQuestionPaper renders a paper header followed by questions and options only.
	ModeQuestionPaper
	// ModeAnswerKey renders one correct-answer line per multiple-choice question.
	ModeAnswerKey
)

// Kind is the short name used in file names, URLs and CLI flags.
func (m Mode) Kind() string {
	switch m {
	case ModeQuestionPaper:
		return "question-paper"
	case ModeAnswerKey:
		return "answer-key"
	default:
		return "questions"
	}
}

func (m Mode) String() string {
	return m.Kind()
}

// ParseMode accepts a mode kind or one of its aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "questions", "full", "":
		return ModeFull, nil
	case "question-paper", "paper":
		return ModeQuestionPaper, nil
	case "answer-key", "answers", "key":
		return ModeAnswerKey, nil
	}
	return ModeFull, fmt.Errorf("unknown export kind %q", s)
}

// contentPolicy is the per-mode selection of blocks. The layout pipeline is
// shared; only the policy differs between modes.
type contentPolicy struct {
	paperHeader  bool
	questions    bool
	answers      bool
	explanations bool
	separators   bool
	answerKey    bool
}

func (m Mode) policy(opts Options) contentPolicy {
	switch m {
	case ModeQuestionPaper:
		return contentPolicy{paperHeader: true, questions: true}
	case ModeAnswerKey:
		return contentPolicy{answerKey: true}
	default:
		return contentPolicy{
			questions:    true,
			answers:      opts.IncludeAnswers,
			explanations: opts.IncludeExplanations,
			separators:   true,
		}
	}
}

// OptionLabel returns the letter for an option index: A for 0, B for 1, and
// spreadsheet-style AA, AB, ... from 26 on.
func OptionLabel(index int) string {
	if index < 0 {
		return "?"
	}
	label := ""
	for n := index; ; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
		if n < 26 {
			break
		}
	}
	return label
}

// Labels holds the fixed strings printed in documents.
type Labels struct {
	Subject            string
	Class              string
	Chapter            string
	Date               string
	Answer             string
	Explanation        string
	Instructions       string
	TimeLimit          string
	Minutes            string
	TotalMarks         string
	Questions          string
	TitleFull          string
	TitleQuestionPaper string
	TitleAnswerKey     string
}

// DefaultLabels returns the English labels.
func DefaultLabels() Labels {
	return Labels{
		Subject:            "Subject",
		Class:              "Class",
		Chapter:            "Chapter",
		Date:               "Date",
		Answer:             "Answer",
		Explanation:        "Explanation",
		Instructions:       "Instructions",
		TimeLimit:          "Time Limit",
		Minutes:            "minutes",
		TotalMarks:         "Total Marks",
		Questions:          "Questions",
		TitleFull:          "Question Bank Export",
		TitleQuestionPaper: "Question Paper",
		TitleAnswerKey:     "Answer Key",
	}
}

func (l Labels) defaultTitle(m Mode) string {
	switch m {
	case ModeQuestionPaper:
		return l.TitleQuestionPaper
	case ModeAnswerKey:
		return l.TitleAnswerKey
	default:
		return l.TitleFull
	}
}
