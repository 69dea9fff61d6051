package inference

import (
	"fmt"

	"github.com/nijaru/yt-summary/config"
)

// New returns the backend selected by cfg.Backend. It does not load the model.
func New(cfg config.ModelConfig) (Model, error) {
	switch cfg.Backend {
	case config.BackendHuggingFace, "":
		return NewHuggingFace(HuggingFaceConfig{
			Model:    cfg.Name,
			Endpoint: cfg.Endpoint,
			Token:    cfg.APIKey,
		}), nil

	case config.BackendOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("backend %s requires an API key", cfg.Backend)
		}
		return NewOpenAI(OpenAIConfig{
			Model:    cfg.Name,
			APIKey:   cfg.APIKey,
			Endpoint: cfg.Endpoint,
		}), nil

	case config.BackendAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("backend %s requires an API key", cfg.Backend)
		}
		return NewAnthropic(AnthropicConfig{
			Model:    cfg.Name,
			APIKey:   cfg.APIKey,
			Endpoint: cfg.Endpoint,
		}), nil

	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
}
