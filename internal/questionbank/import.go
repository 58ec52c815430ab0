// Package questionbank loads question records from JSON files into the store.
package questionbank

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/validate"
)

// ErrInvalidQuestion wraps validation failures of import entries.
var ErrInvalidQuestion = errors.New("invalid question")

// Store is the part of the store the importer needs.
type Store interface {
	InsertQuestion(q model.QuestionRecord) (string, error)
	GetImportedFileHash(path string) (string, error)
	SetImportedFileHash(path, hash string) error
}

// Status describes what happened to an imported file.
type Status string

const (
	StatusImported  Status = "imported"
	StatusUnchanged Status = "unchanged"
	StatusChanged   Status = "changed"
)

// Report is the outcome of importing one file.
type Report struct {
	Name   string   `json:"name"`
	Status Status   `json:"status"`
	IDs    []string `json:"ids,omitempty"`
}

// Parse decodes a JSON array of questions and validates every entry. Nothing
// is returned unless all entries are valid.
func Parse(data []byte) ([]model.QuestionImport, error) {
	var questions []model.QuestionImport
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	for i, qi := range questions {
		qi.QuestionText = strings.TrimSpace(qi.QuestionText)
		for j := range qi.Options {
			qi.Options[j] = strings.TrimSpace(qi.Options[j])
		}
		questions[i] = qi
		if err := validate.Struct(qi); err != nil {
			return nil, fmt.Errorf("question %d: %s: %w", i+1, describe(err), ErrInvalidQuestion)
		}
	}
	return questions, nil
}

func describe(err error) string {
	return strings.Join(validate.Messages(err), "; ")
}

// Import stores the questions in data under name. A file whose content was
// imported before is skipped; a file that changed since its import is skipped
// with a warning so papers built from it keep their questions.
func Import(s Store, name string, data []byte) (Report, error) {
	report := Report{Name: name}

	hash := sha256sum(data)
	storedHash, err := s.GetImportedFileHash(name)
	if err != nil {
		return report, fmt.Errorf("check import status for %s: %w", name, err)
	}
	if storedHash == hash {
		slog.Info("questions file unchanged, skipping", "name", name)
		report.Status = StatusUnchanged
		return report, nil
	}
	if storedHash != "" {
		slog.Warn("questions file changed since last import, skipping", "name", name)
		report.Status = StatusChanged
		return report, nil
	}

	questions, err := Parse(data)
	if err != nil {
		return report, fmt.Errorf("%s: %w", name, err)
	}

	for _, qi := range questions {
		id, err := s.InsertQuestion(qi.Record())
		if err != nil {
			return report, fmt.Errorf("insert question from %s: %w", name, err)
		}
		report.IDs = append(report.IDs, id)
	}

	if err := s.SetImportedFileHash(name, hash); err != nil {
		return report, fmt.Errorf("record import for %s: %w", name, err)
	}
	report.Status = StatusImported
	slog.Info("imported questions", "name", name, "count", len(report.IDs))
	return report, nil
}

// ImportFiles imports each path in turn and stops at the first error.
func ImportFiles(s Store, paths []string) ([]Report, error) {
	var reports []Report
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return reports, fmt.Errorf("read %s: %w", path, err)
		}
		r, err := Import(s, path, data)
		if err != nil {
			return reports, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
