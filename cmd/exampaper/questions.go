package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/exampaper/internal/llm"
	"github.com/pavelanni/exampaper/internal/model"
	"github.com/pavelanni/exampaper/internal/questionbank"
	"github.com/pavelanni/exampaper/internal/validate"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import questions from JSON files into the question bank",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}
	addCommonFlags(cmd)
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	_, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	reports, err := questionbank.ImportFiles(db, args)
	for _, r := range reports {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", r.Name, r.Status, len(r.IDs))
	}
	return err
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate multiple-choice questions with an LLM",
		RunE:  runGenerate,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.String("subject", "", "Subject (required)")
	f.String("class", "", "Class name (required)")
	f.String("unit", "", "Unit or chapter")
	f.String("blooms-level", "", "Bloom's taxonomy level (e.g. remember, apply)")
	f.StringP("difficulty", "d", "medium", "Difficulty (easy, medium, hard)")
	f.IntP("count", "n", 5, "Number of questions (1-20)")
	f.Int("num-options", 4, "Options per question (2-6)")
	f.Bool("twisted", false, "Build each question around a common misconception")
	f.Bool("save", false, "Store the generated questions in the question bank")
	f.StringP("output", "o", "-", "Write generated questions as JSON to this file (- for stdout)")
	f.Duration("timeout", 2*time.Minute, "LLM request timeout")

	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	v, db, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	req := model.GenerateRequest{
		Subject:     v.GetString("subject"),
		ClassName:   v.GetString("class"),
		Unit:        v.GetString("unit"),
		BloomsLevel: v.GetString("blooms-level"),
		Difficulty:  model.Difficulty(v.GetString("difficulty")),
		Count:       v.GetInt("count"),
		NumOptions:  v.GetInt("num-options"),
		Twisted:     v.GetBool("twisted"),
	}
	if err := validate.Struct(req); err != nil {
		var msgs []string
		for _, m := range validate.TranslateErrors(err) {
			msgs = append(msgs, m)
		}
		return fmt.Errorf("invalid request: %v", msgs)
	}

	client, err := llm.New(v.GetString("llm-url"), v.GetString("llm-key"), v.GetString("llm-model"))
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
	defer cancel()

	questions, err := client.GenerateQuestions(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("LLM did not answer within %s", v.GetDuration("timeout"))
		}
		return err
	}

	if v.GetBool("save") {
		for i := range questions {
			id, err := db.InsertQuestion(questions[i])
			if err != nil {
				return fmt.Errorf("save question: %w", err)
			}
			questions[i].ID = id
		}
		slog.Info("saved generated questions", "count", len(questions))
	}

	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput(cmd, v.GetString("output"), data)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	data = append(data, '\n')
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
