package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/exampaper/internal/model"
)

// Files holds the built-in prompt templates.
//
//go:embed *.txt
var Files embed.FS

var tagRegex = regexp.MustCompile(`(?i)</?\s*(topic|system-instructions)\b[^>]*>`)

// Variant selects a generation prompt.
type Variant string

const (
	// VariantStandard asks for plain curriculum questions.
	VariantStandard Variant = "standard"
	// VariantTwisted asks for questions built around a misconception.
	VariantTwisted Variant = "twisted"
)

const (
	// DefaultNumOptions is used when a request does not say how many options to write.
	DefaultNumOptions = 4
	maxFieldRunes     = 200
)

var templateFiles = map[Variant]string{
	VariantStandard: "generate.txt",
	VariantTwisted:  "generate_twisted.txt",
}

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Variant]*template.Template
)

// GenerateData holds template data for generation prompts.
type GenerateData struct {
	Subject     string
	ClassName   string
	Unit        string
	BloomsLevel string
	Difficulty  string
	Count       int
	NumOptions  int
}

// Load loads prompt templates from fsys.
// It uses sync.Once to ensure templates are loaded only once.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		templates = make(map[Variant]*template.Template)
		for v, file := range templateFiles {
			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				loadErr = fmt.Errorf("read prompt file %s: %w", file, err)
				return
			}
			tmpl, err := template.New(string(v)).Parse(string(content))
			if err != nil {
				loadErr = fmt.Errorf("parse prompt template %s: %w", file, err)
				return
			}
			templates[v] = tmpl
		}
	})
	return loadErr
}

// VariantFor picks the template for a request.
func VariantFor(req model.GenerateRequest) Variant {
	if req.Twisted {
		return VariantTwisted
	}
	return VariantStandard
}

// BuildGeneratePrompt renders the generation prompt for req.
func BuildGeneratePrompt(req model.GenerateRequest) (string, error) {
	if templates == nil {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("templates not initialized: call Load first")
	}
	tmpl := templates[VariantFor(req)]

	data := GenerateData{
		Subject:     sanitizeField(req.Subject),
		ClassName:   sanitizeField(req.ClassName),
		Unit:        sanitizeField(req.Unit),
		BloomsLevel: sanitizeField(req.BloomsLevel),
		Difficulty:  string(req.Difficulty),
		Count:       req.Count,
		NumOptions:  req.NumOptions,
	}
	if data.Difficulty == "" {
		data.Difficulty = string(model.DifficultyMedium)
	}
	if data.NumOptions == 0 {
		data.NumOptions = DefaultNumOptions
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sanitizeField(s string) string {
	s = tagRegex.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > maxFieldRunes {
		s = string([]rune(s)[:maxFieldRunes])
	}
	return s
}
