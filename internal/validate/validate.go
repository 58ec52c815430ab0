// Package validate checks request payloads and import records with
// go-playground/validator and reports failures keyed by JSON field name.
package validate

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/pavelanni/exampaper/internal/model"
)

var (
	once  sync.Once
	v     *govalidator.Validate
	trans ut.Translator
)

func engine() *govalidator.Validate {
	once.Do(func() {
		v = govalidator.New(govalidator.WithRequiredStructEnabled())

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		v.RegisterStructValidation(answerIndexInRange, model.QuestionImport{})
		_ = v.RegisterTranslation("answer_index", trans,
			func(ut ut.Translator) error {
				return ut.Add("answer_index", "{0} must point at one of the options", true)
			},
			func(ut ut.Translator, fe govalidator.FieldError) string {
				t, _ := ut.T("answer_index", fe.Field())
				return t
			},
		)
	})
	return v
}

// answerIndexInRange rejects multiple-choice imports whose answer index is
// past the last option.
func answerIndexInRange(sl govalidator.StructLevel) {
	qi := sl.Current().Interface().(model.QuestionImport)
	if len(qi.Options) > 0 && qi.CorrectAnswerIndex >= len(qi.Options) {
		sl.ReportError(qi.CorrectAnswerIndex, "correct_answer_index", "CorrectAnswerIndex", "answer_index", "")
	}
}

// Struct validates s against its validate tags.
func Struct(s any) error {
	return engine().Struct(s)
}

// TranslateErrors takes a validation error and returns a map of field name to
// human-readable message. Other errors come back under "detail".
func TranslateErrors(err error) map[string]string {
	engine()
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Messages returns the translated messages of err ordered by field name.
func Messages(err error) []string {
	fields := TranslateErrors(err)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fields[k])
	}
	return msgs
}
