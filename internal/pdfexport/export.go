// Package pdfexport lays out question records on paginated PDF documents.
//
// All three document kinds (full question export, question paper and answer
// key) run through the same layout pipeline; a Mode only changes which
// blocks are emitted for each question.
package pdfexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pavelanni/exampaper/internal/model"
)

// ErrAnswerIndexOutOfRange is returned when a multiple-choice record's
// correct answer index does not point into its options.
var ErrAnswerIndexOutOfRange = errors.New("correct answer index out of range")

// ErrUnsupportedText is returned when text holds a character the document
// fonts have no glyph for. The document is not produced rather than printed
// with the character dropped.
var ErrUnsupportedText = errors.New("character not supported by document font")

// Options configures a single export.
type Options struct {
	Title               string
	IncludeAnswers      bool
	IncludeExplanations bool
	SubjectLabel        string
	ClassLabel          string
	ChapterLabel        string
	OutputFileName      string
	// Labels overrides the exporter's labels for this export.
	Labels *Labels

	// Question paper header. Ignored by the other modes.
	Instructions     []string
	TimeLimitMinutes int
	TotalMarks       int
}

// Result summarises a rendered document.
type Result struct {
	Mode      Mode
	FileName  string
	Pages     int
	Blocks    int
	Questions int
	// Skipped lists the IDs of questions the answer key had no line for.
	Skipped []string
	Size    int
}

// Exporter renders question documents. It holds no per-export state and is
// safe for concurrent use.
type Exporter struct {
	newCanvas CanvasFactory
	labels    Labels
	now       func() time.Time
	margin    float64
	logger    *slog.Logger
}

// Option customises an Exporter.
type Option func(*Exporter)

// WithCanvasFactory replaces the fpdf canvas.
func WithCanvasFactory(f CanvasFactory) Option {
	return func(e *Exporter) { e.newCanvas = f }
}

// WithLabels sets the document labels, e.g. a translated set.
func WithLabels(l Labels) Option {
	return func(e *Exporter) { e.labels = l }
}

// WithClock sets the time source used for dates and default file names.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithMargin sets the page margin in millimetres.
func WithMargin(m float64) Option {
	return func(e *Exporter) { e.margin = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		newCanvas: NewFPDFCanvas,
		labels:    DefaultLabels(),
		now:       time.Now,
		margin:    DefaultMargin,
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Validate checks every multiple-choice record's answer index.
func Validate(questions []model.QuestionRecord) error {
	for i, q := range questions {
		if !q.HasOptions() {
			continue
		}
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("question %d (id %q): index %d with %d options: %w",
				i+1, q.ID, q.CorrectAnswerIndex, len(q.Options), ErrAnswerIndexOutOfRange)
		}
	}
	return nil
}

// FileName returns opts.OutputFileName or the dated default for the mode.
func (e *Exporter) FileName(mode Mode, opts Options) string {
	if opts.OutputFileName != "" {
		return opts.OutputFileName
	}
	return mode.Kind() + "-export-" + e.now().Format("2006-01-02") + ".pdf"
}

// Render lays out questions and writes the finished document to w. Nothing is
// written to w unless the whole document rendered.
func (e *Exporter) Render(ctx context.Context, w io.Writer, mode Mode, questions []model.QuestionRecord, opts Options) (*Result, error) {
	if err := Validate(questions); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := e.now()
	lb := e.labels
	if opts.Labels != nil {
		lb = *opts.Labels
	}
	title := opts.Title
	if title == "" {
		title = lb.defaultTitle(mode)
	}
	canvas := e.newCanvas(DocumentInfo{
		Title:   title,
		Subject: opts.SubjectLabel,
		Created: now,
	})
	l := newLayout(canvas, e.margin)

	left := joinLabels(
		[2]string{lb.Subject, opts.SubjectLabel},
		[2]string{lb.Class, opts.ClassLabel},
	)
	right := joinLabels(
		[2]string{lb.Chapter, opts.ChapterLabel},
		[2]string{lb.Date, now.Format("2006-01-02")},
	)
	if gc, ok := canvas.(GlyphChecker); ok {
		if err := checkGlyphs(gc, lb, questions, opts, title, left, right); err != nil {
			return nil, err
		}
	}
	l.headerBand(title, left, right)

	res := &Result{Mode: mode, FileName: e.FileName(mode, opts), Questions: len(questions)}
	p := mode.policy(opts)

	if p.paperHeader {
		paperHeader(l, lb, questions, opts)
	}
	for i, q := range questions {
		if p.answerKey {
			if !q.HasOptions() {
				res.Skipped = append(res.Skipped, q.ID)
				e.logger.Warn("answer key skipped free-response question",
					"position", i+1, "question_id", q.ID)
				continue
			}
			l.addText(answerKeyLine(i, q), styleKeyLine)
			continue
		}
		question(l, lb, i, q, p)
		if p.separators && i < len(questions)-1 {
			l.addRule()
		}
	}

	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s document: %w", mode.Kind(), err)
	}
	res.Pages = l.pages
	res.Blocks = l.blocks
	res.Size = buf.Len()
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("write %s document: %w", mode.Kind(), err)
	}

	e.logger.Debug("rendered document",
		"kind", mode.Kind(),
		"questions", len(questions),
		"pages", res.Pages,
		"blocks", res.Blocks,
		"bytes", res.Size,
	)
	return res, nil
}

// Save renders the document into dir under its file name. The file is
// written to a temporary name and renamed into place, so a failed export
// leaves no file behind.
func (e *Exporter) Save(ctx context.Context, dir string, mode Mode, questions []model.QuestionRecord, opts Options) (*Result, error) {
	var buf bytes.Buffer
	res, err := e.Render(ctx, &buf, mode, questions, opts)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, res.FileName)
	tmp, err := os.CreateTemp(dir, ".exampaper-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return nil, fmt.Errorf("rename to %s: %w", path, err)
	}

	e.logger.Info("saved document", "kind", mode.Kind(), "path", path, "pages", res.Pages)
	return res, nil
}

// ExportQuestions renders the full question export.
func (e *Exporter) ExportQuestions(ctx context.Context, w io.Writer, questions []model.QuestionRecord, opts Options) (*Result, error) {
	return e.Render(ctx, w, ModeFull, questions, opts)
}

// ExportQuestionPaper renders a question paper. Answers and explanations are
// never printed, whatever opts asks for.
func (e *Exporter) ExportQuestionPaper(ctx context.Context, w io.Writer, questions []model.QuestionRecord, opts Options) (*Result, error) {
	return e.Render(ctx, w, ModeQuestionPaper, questions, opts)
}

// ExportAnswerKey renders the answer key.
func (e *Exporter) ExportAnswerKey(ctx context.Context, w io.Writer, questions []model.QuestionRecord, opts Options) (*Result, error) {
	return e.Render(ctx, w, ModeAnswerKey, questions, opts)
}

// checkGlyphs looks for text the canvas cannot draw before anything is drawn.
func checkGlyphs(gc GlyphChecker, lb Labels, questions []model.QuestionRecord, opts Options, header ...string) error {
	check := func(where, s string) error {
		if r, missing := gc.MissingGlyph(s); missing {
			return fmt.Errorf("%s: %U %q: %w", where, r, string(r), ErrUnsupportedText)
		}
		return nil
	}

	fixed := append(header,
		lb.Answer, lb.Explanation, lb.Instructions, lb.TimeLimit,
		lb.Minutes, lb.TotalMarks, lb.Questions,
	)
	fixed = append(fixed, opts.Instructions...)
	for _, s := range fixed {
		if err := check("header", s); err != nil {
			return err
		}
	}
	for i, q := range questions {
		where := fmt.Sprintf("question %d (id %q)", i+1, q.ID)
		for _, s := range append([]string{q.QuestionText, q.Explanation}, q.Options...) {
			if err := check(where, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func paperHeader(l *layout, lb Labels, questions []model.QuestionRecord, opts Options) {
	var timeLimit, marks string
	if opts.TimeLimitMinutes > 0 {
		timeLimit = strconv.Itoa(opts.TimeLimitMinutes) + " " + lb.Minutes
	}
	if opts.TotalMarks > 0 {
		marks = strconv.Itoa(opts.TotalMarks)
	}
	l.addText(joinLabels(
		[2]string{lb.TimeLimit, timeLimit},
		[2]string{lb.TotalMarks, marks},
		[2]string{lb.Questions, strconv.Itoa(len(questions))},
	), styleMeta)

	if len(opts.Instructions) > 0 {
		l.addText(lb.Instructions+":", styleMeta)
		for i, ins := range opts.Instructions {
			l.addText(strconv.Itoa(i+1)+". "+ins, styleBody)
		}
	}
	l.addRule()
}

func question(l *layout, lb Labels, i int, q model.QuestionRecord, p contentPolicy) {
	l.addText("Q"+strconv.Itoa(i+1)+". "+q.QuestionText, styleQuestion)
	for j, opt := range q.Options {
		l.addText(OptionLabel(j)+". "+opt, styleOption)
	}
	if p.answers && q.HasOptions() {
		l.addText(lb.Answer+": "+OptionLabel(q.CorrectAnswerIndex)+". "+q.Options[q.CorrectAnswerIndex], styleAnswer)
	}
	if p.explanations && q.Explanation != "" {
		l.addText(lb.Explanation+": "+q.Explanation, styleExplanation)
	}
}

func answerKeyLine(i int, q model.QuestionRecord) string {
	return "Q" + strconv.Itoa(i+1) + ": " + OptionLabel(q.CorrectAnswerIndex) + ". " + q.Options[q.CorrectAnswerIndex]
}
