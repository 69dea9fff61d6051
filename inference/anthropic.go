package inference

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

type AnthropicConfig struct {
	Model    string
	APIKey   string
	Endpoint string
}

// Anthropic summarizes with a Claude model through the Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

var _ Model = (*Anthropic)(nil)

func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(cfg.APIKey),
		anthropicoption.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, anthropicoption.WithBaseURL(ensureTrailingSlash(cfg.Endpoint)))
	}

	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (a *Anthropic) Name() string { return a.model }

// Load confirms the configured model exists for these credentials.
func (a *Anthropic) Load(ctx context.Context) error {
	if _, err := a.client.Models.Get(ctx, a.model, anthropic.ModelGetParams{}); err != nil {
		return errors.Wrapf(err, "load model %s", a.model)
	}
	return nil
}

func (a *Anthropic) Summarize(ctx context.Context, text string, p Params) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   tokenBudget(p),
		Temperature: anthropic.Float(0),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(p)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic messages")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
