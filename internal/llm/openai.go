package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAI) Complete(ctx context.Context, prompt string) (Completion, error) {
	res, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: o.model,
	})
	if err != nil {
		slog.Error("openai error: chat completions failed", "error", err)
		return Completion{}, fmt.Errorf("openai completion failed: %w", err)
	}

	if len(res.Choices) == 0 {
		return Completion{}, fmt.Errorf("openai completion returned no choices")
	}

	return Completion{
		Text:       res.Choices[0].Message.Content,
		TokensUsed: res.Usage.TotalTokens,
	}, nil
}
