package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/exampaper/internal/llm/prompts"
	"github.com/pavelanni/exampaper/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrNoChoices is returned when the API answers without a completion.
	ErrNoChoices = errors.New("LLM returned no choices")
	// ErrNoQuestions is returned when none of the generated questions survive sanitising.
	ErrNoQuestions = errors.New("LLM returned no usable questions")
)

// MaxQuestionsPerRequest bounds a single generation call.
const MaxQuestionsPerRequest = 20

type generatedQuestion struct {
	QuestionText       string   `json:"question_text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation"`
}

type generateResponse struct {
	Questions []generatedQuestion `json:"questions"`
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client and loads the built-in prompt templates.
func New(baseURL, apiKey, modelName string) (*Client, error) {
	if err := prompts.Load(prompts.Files); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}, nil
}

// Ping checks that the endpoint is reachable and accepts the key.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM ping: %w", err)
	}
	return nil
}

// GenerateQuestions asks the model for new multiple-choice questions. Items
// that come back malformed are dropped with a warning; the rest are tagged
// with the request's subject, class and level.
func (c *Client) GenerateQuestions(ctx context.Context, req model.GenerateRequest) ([]model.QuestionRecord, error) {
	if req.Count < 1 || req.Count > MaxQuestionsPerRequest {
		return nil, fmt.Errorf("count %d outside 1..%d", req.Count, MaxQuestionsPerRequest)
	}

	prompt, err := prompts.BuildGeneratePrompt(req)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	temperature := float32(0.7)
	if req.Twisted {
		temperature = 0.9
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	return parseQuestions(raw, req)
}

func parseQuestions(raw string, req model.GenerateRequest) ([]model.QuestionRecord, error) {
	var parsed generateResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = model.DifficultyMedium
	}

	var out []model.QuestionRecord
	for i, g := range parsed.Questions {
		if len(out) == req.Count {
			slog.Warn("LLM returned more questions than requested", "requested", req.Count, "returned", len(parsed.Questions))
			break
		}
		q, reason := sanitize(g)
		if reason != "" {
			slog.Warn("dropping generated question", "index", i, "reason", reason)
			continue
		}
		q.Subject = req.Subject
		q.ClassName = req.ClassName
		q.Unit = req.Unit
		q.BloomsLevel = req.BloomsLevel
		q.Difficulty = difficulty
		q.IsTwisted = req.Twisted
		out = append(out, q)
	}

	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

// sanitize trims a generated question and reports why it is unusable, if it is.
func sanitize(g generatedQuestion) (model.QuestionRecord, string) {
	q := model.QuestionRecord{
		QuestionText:       strings.TrimSpace(g.QuestionText),
		CorrectAnswerIndex: g.CorrectAnswerIndex,
		Explanation:        strings.TrimSpace(g.Explanation),
	}
	if q.QuestionText == "" {
		return q, "empty question text"
	}
	if len(g.Options) < 2 {
		return q, "fewer than two options"
	}
	for _, o := range g.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			return q, "empty option"
		}
		q.Options = append(q.Options, o)
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return q, fmt.Sprintf("answer index %d with %d options", q.CorrectAnswerIndex, len(q.Options))
	}
	return q, ""
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
