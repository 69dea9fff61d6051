package inference

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	"github.com/pkg/errors"
)

type OpenAIConfig struct {
	Model    string
	APIKey   string
	Endpoint string
}

// OpenAI summarizes with an OpenAI-compatible chat completion model.
type OpenAI struct {
	client openai.Client
	model  string
}

var _ Model = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(cfg.APIKey),
		openaioption.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, openaioption.WithBaseURL(ensureTrailingSlash(cfg.Endpoint)))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (o *OpenAI) Name() string { return o.model }

func (o *OpenAI) Load(ctx context.Context) error {
	if _, err := o.client.Models.Get(ctx, o.model); err != nil {
		return errors.Wrapf(err, "load model %s", o.model)
	}
	return nil
}

func (o *OpenAI) Summarize(ctx context.Context, text string, p Params) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(p)),
			openai.UserMessage(text),
		},
		Temperature:         openai.Float(0),
		N:                   openai.Int(1),
		MaxCompletionTokens: openai.Int(tokenBudget(p)),
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion")
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyOutput
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
