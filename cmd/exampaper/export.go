package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	appI18n "github.com/pavelanni/exampaper/internal/i18n"
	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/pdfexport"
	"github.com/pavelanni/exampaper/internal/store"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export papers or question files as PDF documents",
		Long: `Export renders PDF documents from stored papers (--paper-id, repeatable)
or from a JSON file of question records (--questions).

Kinds: questions (full export), question-paper, answer-key. Use --all for all three.`,
		RunE: runExport,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.Int64Slice("paper-id", nil, "Paper to export (repeatable)")
	f.String("questions", "", "JSON file with an array of question records")
	f.StringSliceP("kind", "k", []string{"question-paper"}, "Document kind (questions, question-paper, answer-key)")
	f.Bool("all", false, "Export all three kinds")
	f.Bool("answers", false, "Include correct answers in the full export")
	f.Bool("explanations", false, "Include explanations in the full export")
	f.String("title", "", "Document title (default depends on kind or paper)")
	f.String("subject", "", "Subject shown in the header (question files only)")
	f.String("class", "", "Class shown in the header (question files only)")
	f.String("chapter", "", "Chapter shown in the header (question files only)")
	f.StringP("lang", "l", "en", "Document language (en, de)")
	f.StringP("out-dir", "o", ".", "Output directory")
	f.IntP("parallel", "p", 4, "Maximum documents rendered at once")
	return cmd
}

// exportJob is one document to render.
type exportJob struct {
	mode      pdfexport.Mode
	questions []model.QuestionRecord
	opts      pdfexport.Options
}

func runExport(cmd *cobra.Command, _ []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := appI18n.Init(v.GetString("lang")); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	ctx := appI18n.WithLocalizer(cmd.Context(), appI18n.NewLocalizer(v.GetString("lang")))
	labels := appI18n.PDFLabels(ctx)

	modes, err := exportModes(v.GetBool("all"), v.GetStringSlice("kind"))
	if err != nil {
		return err
	}

	base := pdfexport.Options{
		Title:               v.GetString("title"),
		IncludeAnswers:      v.GetBool("answers"),
		IncludeExplanations: v.GetBool("explanations"),
		Labels:              &labels,
	}

	paperIDs, err := cmd.Flags().GetInt64Slice("paper-id")
	if err != nil {
		return err
	}

	var fileQuestions []model.QuestionRecord
	fileOpts := base
	if path := v.GetString("questions"); path != "" {
		if fileQuestions, err = readQuestionFile(path); err != nil {
			return err
		}
		if fileQuestions == nil {
			fileQuestions = []model.QuestionRecord{}
		}
		fileOpts.SubjectLabel = v.GetString("subject")
		fileOpts.ClassLabel = v.GetString("class")
		fileOpts.ChapterLabel = v.GetString("chapter")
	}

	jobs, err := exportJobs(db, paperIDs, fileQuestions, modes, base, fileOpts)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("nothing to export: pass --paper-id or --questions")
	}

	outDir := v.GetString("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return runExportJobs(ctx, pdfexport.New(), outDir, jobs, v.GetInt("parallel"), cmd)
}

func exportModes(all bool, kinds []string) ([]pdfexport.Mode, error) {
	if all {
		return []pdfexport.Mode{pdfexport.ModeFull, pdfexport.ModeQuestionPaper, pdfexport.ModeAnswerKey}, nil
	}
	var modes []pdfexport.Mode
	seen := make(map[pdfexport.Mode]bool)
	for _, k := range kinds {
		m, err := pdfexport.ParseMode(k)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			modes = append(modes, m)
		}
	}
	return modes, nil
}

// exportJobs builds the jobs for the given papers and, when fileQuestions is
// not nil, for a question file. Paper file names carry the paper ID whenever
// another source shares the run.
func exportJobs(db *store.Store, paperIDs []int64, fileQuestions []model.QuestionRecord, modes []pdfexport.Mode, base, fileOpts pdfexport.Options) ([]exportJob, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, id := range paperIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	prefix := len(ids) > 1 || fileQuestions != nil

	var jobs []exportJob
	for _, id := range ids {
		paperJobs, err := paperExportJobs(db, id, modes, base, prefix)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, paperJobs...)
	}
	if fileQuestions != nil {
		for _, m := range modes {
			jobs = append(jobs, exportJob{mode: m, questions: fileQuestions, opts: fileOpts})
		}
	}
	return jobs, nil
}

// paperExportJobs builds one job per mode for a stored paper. prefix adds the
// paper ID to file names so several papers can share an output directory.
func paperExportJobs(db *store.Store, id int64, modes []pdfexport.Mode, base pdfexport.Options, prefix bool) ([]exportJob, error) {
	paper, questions, err := db.PaperForExport(id)
	if err != nil {
		return nil, fmt.Errorf("load paper %d: %w", id, err)
	}
	var jobs []exportJob
	for _, m := range modes {
		opts := base
		if opts.Title == "" {
			opts.Title = paper.Title
		}
		opts.SubjectLabel = paper.Subject
		opts.ClassLabel = paper.ClassName
		opts.ChapterLabel = paper.Chapter
		opts.Instructions = paper.Instructions
		opts.TimeLimitMinutes = paper.TimeLimitMinutes
		opts.TotalMarks = paper.TotalMarks
		if prefix {
			opts.OutputFileName = "paper-" + strconv.FormatInt(id, 10) + "-" + pdfexport.New().FileName(m, pdfexport.Options{})
		}
		jobs = append(jobs, exportJob{mode: m, questions: questions, opts: opts})
	}
	return jobs, nil
}

func readQuestionFile(path string) ([]model.QuestionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var questions []model.QuestionRecord
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = "Q" + strconv.Itoa(i+1)
		}
	}
	return questions, nil
}

// checkOutputNames rejects jobs that would write the same file, before any
// document is saved.
func checkOutputNames(exp *pdfexport.Exporter, jobs []exportJob) error {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		name := exp.FileName(job.mode, job.opts)
		if j, dup := seen[name]; dup {
			return fmt.Errorf("exports %d and %d would both write %s", j+1, i+1, name)
		}
		seen[name] = i
	}
	return nil
}

// runExportJobs renders the jobs concurrently, at most parallel at a time.
// The first failure cancels the jobs that have not started.
func runExportJobs(ctx context.Context, exp *pdfexport.Exporter, outDir string, jobs []exportJob, parallel int, cmd *cobra.Command) error {
	if parallel < 1 {
		parallel = 1
	}
	if err := checkOutputNames(exp, jobs); err != nil {
		return err
	}
	results := make([]*pdfexport.Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := exp.Save(gctx, outDir, job.mode, job.questions, job.opts)
			if err != nil {
				return fmt.Errorf("%s: %w", job.mode.Kind(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d pages\n", res.FileName, res.Pages)
		if len(res.Skipped) > 0 {
			slog.Warn("answer key left out free-response questions", "file", res.FileName, "count", len(res.Skipped))
		}
	}
	return nil
}
