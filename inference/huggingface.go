package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultHuggingFaceEndpoint = "https://router.huggingface.co/hf-inference"
	DefaultHuggingFaceHub      = "https://huggingface.co"

	maxHFResponseBytes = 1 << 20
)

type HuggingFaceConfig struct {
	Model    string
	Endpoint string
	HubURL   string
	Token    string
	Client   *http.Client
}

// HuggingFace runs summarization on the Hugging Face Inference API.
type HuggingFace struct {
	model      string
	endpoint   string
	hubURL     string
	token      string
	httpClient *http.Client
}

var _ Model = (*HuggingFace)(nil)

func NewHuggingFace(cfg HuggingFaceConfig) *HuggingFace {
	h := &HuggingFace{
		model:      cfg.Model,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		hubURL:     strings.TrimRight(cfg.HubURL, "/"),
		token:      cfg.Token,
		httpClient: cfg.Client,
	}
	if h.endpoint == "" {
		h.endpoint = DefaultHuggingFaceEndpoint
	}
	if h.hubURL == "" {
		h.hubURL = DefaultHuggingFaceHub
	}
	if h.httpClient == nil {
		h.httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return h
}

func (h *HuggingFace) Name() string { return h.model }

type hfModelInfo struct {
	ID          string `json:"id"`
	PipelineTag string `json:"pipeline_tag"`
}

// Load confirms the model exists on the hub.
func (h *HuggingFace) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.hubURL+"/api/models/"+modelPath(h.model), nil)
	if err != nil {
		return errors.Wrap(err, "build model info request")
	}
	h.authorize(req)

	var info hfModelInfo
	if err := h.do(req, &info); err != nil {
		return errors.Wrapf(err, "load model %s", h.model)
	}
	if info.ID == "" {
		return errors.Errorf("load model %s: hub returned no model id", h.model)
	}
	return nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfOutput struct {
	SummaryText   string `json:"summary_text"`
	GeneratedText string `json:"generated_text"`
}

func (h *HuggingFace) Summarize(ctx context.Context, text string, p Params) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			MaxLength: p.MaxLength,
			MinLength: p.MinLength,
			DoSample:  false,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return "", errors.Wrap(err, "encode inference request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/models/"+modelPath(h.model), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "build inference request")
	}
	req.Header.Set("Content-Type", "application/json")
	h.authorize(req)

	var out []hfOutput
	if err := h.do(req, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", ErrEmptyOutput
	}

	summary := out[0].SummaryText
	if summary == "" {
		summary = out[0].GeneratedText
	}
	return strings.TrimSpace(summary), nil
}

func (h *HuggingFace) authorize(req *http.Request) {
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

func (h *HuggingFace) do(req *http.Request, v any) error {
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "huggingface request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxHFResponseBytes))
	if err != nil {
		return errors.Wrap(err, "read huggingface response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &BackendError{Backend: "huggingface", StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "decode huggingface response")
	}
	return nil
}

// modelPath escapes each segment of an owner/name model id.
func modelPath(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
