package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const questionPromptTemplate = "Generate critical peer review questions after reading the below research paper:\n\n%s"

const (
	DefaultInferenceModel  = "intelliask"
	DefaultInferenceAPIKey = "dummy"
)

// ChatModel is the part of a langchaingo model the generator needs.
type ChatModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ChatQuestionGenerator asks a chat-completion model for review questions.
type ChatQuestionGenerator struct {
	llm ChatModel
}

func NewChatQuestionGenerator(llm ChatModel) *ChatQuestionGenerator {
	return &ChatQuestionGenerator{llm: llm}
}

// NewOpenAIChatModel builds a client for any OpenAI-compatible chat completions
// endpoint. The key may be a placeholder when the backend ignores auth.
func NewOpenAIChatModel(baseURL, apiKey, model string) (*openai.LLM, error) {
	if apiKey == "" {
		apiKey = DefaultInferenceAPIKey
	}
	if model == "" {
		model = DefaultInferenceModel
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai.New: %w", err)
	}
	return llm, nil
}

// Generate sends the whole text in one user message and returns the first
// choice verbatim.
func (g *ChatQuestionGenerator) Generate(ctx context.Context, text string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(questionPromptTemplate, text)),
	}

	resp, err := g.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", NewInferenceServiceError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", NewInferenceServiceError(errors.New("no choices returned"))
	}
	return resp.Choices[0].Content, nil
}
