package summarizer

import (
	"articlesummarizer/internal/domain"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultModel   = "mixtral-8x7b-32768"
	DefaultBaseURL = "https://api.groq.com/openai/v1/"

	temperature = 0.7
	maxTokens   = 800

	userPromptPrefix = "請幫我摘要以下文章：\n\n"

	systemPrompt = `你是一個專業的文章摘要助手，擅長將文章重點整理成結構化的摘要。
請遵循以下規則：
1. 使用繁體中文
2. 摘要格式：
   主要論點
   關鍵重點（列點式）
   結論或見解
3. 保持客觀專業的語氣
4. 摘要長度控制在300字以內
5. 如果是新聞文章，需包含時間、地點、人物等要素`
)

// GroqConfig contains configuration for the Groq-backed summarizer.
type GroqConfig struct {
	APIKey string
	// Model defaults to DefaultModel.
	Model string
	// BaseURL defaults to DefaultBaseURL, Groq's OpenAI-compatible endpoint.
	BaseURL string
}

// GroqSummarizer calls the Chat Completions API exposed by Groq.
type GroqSummarizer struct {
	client openai.Client
	model  string
	log    *slog.Logger
}

// NewGroqSummarizer builds a new summarizer instance. SDK retries are
// disabled so every Summarize call makes exactly one request.
func NewGroqSummarizer(cfg GroqConfig, log *slog.Logger) (*GroqSummarizer, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, domain.NewError(domain.KindAPI, "create summarizer", errors.New("API key is empty"))
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &GroqSummarizer{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
		),
		model: model,
		log:   log,
	}, nil
}

// Summarize sends the article text with the fixed system prompt and returns
// the first choice. Empty text is sent as is.
func (s *GroqSummarizer) Summarize(
	ctx context.Context,
	input Input,
) (string, error) {
	summary, err := s.summarize(ctx, input)
	if err != nil {
		return "", domain.NewError(domain.KindAPI, "generate summary", err)
	}

	return summary, nil
}

func (s *GroqSummarizer) summarize(ctx context.Context, input Input) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, newChatCompletionParams(s.model, input.Text))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			s.log.ErrorContext(ctx, "Chat completion request is rejected",
				"statusCode", apiErr.StatusCode,
				"model", s.model,
				"sourceURL", input.SourceURL)
		}

		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion choices are missing")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("chat completion choice message content is missing")
	}

	s.log.InfoContext(ctx, "Summary is generated",
		"model", s.model,
		"sourceURL", input.SourceURL,
		"finishReason", resp.Choices[0].FinishReason,
		"totalTokens", resp.Usage.TotalTokens)

	return summary, nil
}

func newChatCompletionParams(model string, text string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPromptPrefix + text),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxTokens),
	}
}
