package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/exampaper/internal/model"
)

func TestQuestionImport(t *testing.T) {
	valid := model.QuestionImport{
		QuestionText:       "2 + 2 = ?",
		Subject:            "Math",
		ClassName:          "5",
		Options:            []string{"3", "4"},
		CorrectAnswerIndex: 1,
	}

	tests := []struct {
		name      string
		mutate    func(q *model.QuestionImport)
		wantField string
	}{
		{"valid", func(q *model.QuestionImport) {}, ""},
		{"free response", func(q *model.QuestionImport) { q.Options = nil; q.CorrectAnswerIndex = 0 }, ""},
		{"missing text", func(q *model.QuestionImport) { q.QuestionText = "" }, "question_text"},
		{"missing subject", func(q *model.QuestionImport) { q.Subject = "" }, "subject"},
		{"bad difficulty", func(q *model.QuestionImport) { q.Difficulty = "brutal" }, "difficulty"},
		{"empty option", func(q *model.QuestionImport) { q.Options = []string{"3", ""} }, "options[1]"},
		{"negative index", func(q *model.QuestionImport) { q.CorrectAnswerIndex = -1 }, "correct_answer_index"},
		{"index past options", func(q *model.QuestionImport) { q.CorrectAnswerIndex = 2 }, "correct_answer_index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			q.Options = append([]string(nil), valid.Options...)
			tt.mutate(&q)
			err := Struct(q)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := TranslateErrors(err)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestTranslateErrorsMessages(t *testing.T) {
	err := Struct(model.CreatePaperRequest{Subject: "Math", ClassName: "5"})
	require.Error(t, err)

	fields := TranslateErrors(err)
	assert.Equal(t, "title is a required field", fields["title"])
	assert.Contains(t, fields, "question_ids")

	err = Struct(model.QuestionImport{QuestionText: "q", Subject: "s", ClassName: "c", Options: []string{"a"}, CorrectAnswerIndex: 3})
	require.Error(t, err)
	assert.Equal(t, "correct_answer_index must point at one of the options", TranslateErrors(err)["correct_answer_index"])
}

func TestTranslateErrorsNonValidation(t *testing.T) {
	fields := TranslateErrors(errors.New("unexpected EOF"))
	assert.Equal(t, map[string]string{"detail": "unexpected EOF"}, fields)
}

func TestMessagesOrderedByField(t *testing.T) {
	req := struct {
		Zeta  string `json:"zeta" validate:"required"`
		Alpha string `json:"alpha" validate:"required"`
		Mid   string `json:"mid" validate:"required"`
	}{}
	err := Struct(req)
	require.Error(t, err)

	want := []string{
		"alpha is a required field",
		"mid is a required field",
		"zeta is a required field",
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, Messages(err))
	}
	assert.Equal(t, []string{"unexpected EOF"}, Messages(errors.New("unexpected EOF")))
}
