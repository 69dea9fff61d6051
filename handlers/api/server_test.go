package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/inference"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/services/subtitles"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/services/video"
	"github.com/nijaru/yt-summary/youtube"
)

type captionsFunc func(ctx context.Context, videoID string) ([]youtube.Caption, error)

func (f captionsFunc) FetchCaptions(ctx context.Context, videoID string) ([]youtube.Caption, error) {
	return f(ctx, videoID)
}

type echoModel struct {
	loadErr error
	maxSeen int
}

func (m *echoModel) Name() string                   { return "echo" }
func (m *echoModel) Load(ctx context.Context) error { return m.loadErr }
func (m *echoModel) Summarize(ctx context.Context, text string, p inference.Params) (string, error) {
	if len(text) > m.maxSeen {
		m.maxSeen = len(text)
	}
	words := strings.Fields(text)
	if len(words) > 2 {
		words = words[:2]
	}
	return "summary: " + strings.Join(words, " "), nil
}

type memoryHistory struct {
	outcomes []*models.Outcome
}

func (m *memoryHistory) Name() string { return "memory" }
func (m *memoryHistory) Record(ctx context.Context, o *models.Outcome) error {
	return m.Save(ctx, o)
}
func (m *memoryHistory) Save(ctx context.Context, o *models.Outcome) error {
	m.outcomes = append(m.outcomes, o)
	return nil
}
func (m *memoryHistory) Find(ctx context.Context, id string) (*models.Outcome, error) {
	for _, o := range m.outcomes {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, errors.NotFound("memoryHistory.Find", nil, "Outcome not found")
}
func (m *memoryHistory) Recent(ctx context.Context, limit int) ([]*models.Outcome, error) {
	out := make([]*models.Outcome, 0, limit)
	for i := len(m.outcomes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.outcomes[i])
	}
	return out, nil
}

type testEnv struct {
	handler http.Handler
	model   *echoModel
	history *memoryHistory
}

func newTestEnv(t *testing.T, provider subtitles.CaptionProvider, model *echoModel, mutate func(*config.Config)) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Model.Name = "t5-small"
	cfg.Model.MaxInputChars = 512
	cfg.Model.MaxLength = 100
	cfg.Model.MinLength = 20
	if mutate != nil {
		mutate(cfg)
	}

	engine := summary.NewEngine(model, summary.ConfigFrom(cfg.Model), logger)
	engine.Load(context.Background())

	history := &memoryHistory{}
	videoSvc := video.NewService(subtitles.NewService(provider), engine, video.Config{
		FetchTimeout:     time.Second,
		InferenceTimeout: time.Second,
	}, video.WithRecorders(history))

	srv := NewServer(cfg,
		WithLogger(logger),
		WithServices(videoSvc, engine),
		WithHistory(history),
	)

	return &testEnv{handler: srv.Handler(), model: model, history: history}
}

func staticCaptions(texts ...string) captionsFunc {
	return func(ctx context.Context, videoID string) ([]youtube.Caption, error) {
		out := make([]youtube.Caption, len(texts))
		for i, text := range texts {
			out[i] = youtube.Caption{Text: text}
		}
		return out, nil
	}
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, target, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rr.Body.String(), err)
	}
}

func TestRoot(t *testing.T) {
	env := newTestEnv(t, staticCaptions("x"), &echoModel{}, nil)

	rr := doRequest(t, env.handler, http.MethodGet, "/", "")
	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var body models.StatusResponse
	decode(t, rr, &body)
	if body.Message != "YouTube Summarizer API is running" || body.Status != "active" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		model  *echoModel
		loaded bool
	}{
		{"model loaded", &echoModel{}, true},
		{"model failed to load", &echoModel{loadErr: context.DeadlineExceeded}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, staticCaptions("x"), tt.model, nil)

			for i := 0; i < 2; i++ {
				rr := doRequest(t, env.handler, http.MethodGet, "/health", "")
				if status := rr.Code; status != http.StatusOK {
					t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
				}
				if !strings.Contains(rr.Body.String(), `"model_loaded":`) {
					t.Errorf("expected model_loaded key, got %s", rr.Body.String())
				}

				var body models.HealthResponse
				decode(t, rr, &body)
				if body.Status != "healthy" || body.ModelLoaded != tt.loaded {
					t.Errorf("unexpected body %+v", body)
				}
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	env := newTestEnv(t, staticCaptions("Never", "gonna", "give"), &echoModel{}, nil)

	rr := doRequest(t, env.handler, http.MethodPost, "/summarize", `{"videoId":"https://youtu.be/dQw4w9WgXcQ"}`)
	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var body models.SummaryResponse
	decode(t, rr, &body)
	want := models.SummaryResponse{Success: true, Summary: "summary: Never gonna", VideoID: "dQw4w9WgXcQ"}
	if body != want {
		t.Errorf("got %+v want %+v", body, want)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected X-Request-ID header")
	}
	if len(env.history.outcomes) != 1 || !env.history.outcomes[0].Success {
		t.Errorf("expected one recorded successful outcome, got %+v", env.history.outcomes)
	}
}

func TestSummarizeLongTranscriptIsCapped(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 500)
	model := &echoModel{}
	env := newTestEnv(t, staticCaptions(long), model, nil)

	rr := doRequest(t, env.handler, http.MethodPost, "/summarize", `{"videoId":"dQw4w9WgXcQ"}`)
	if status := rr.Code; status != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	if model.maxSeen > 512 {
		t.Errorf("model received %d characters, want at most 512", model.maxSeen)
	}
}

func TestSummarizeFailuresUseEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		provider captionsFunc
		model    *echoModel
		body     string
		wantErr  string
	}{
		{
			name: "transcript provider error",
			provider: func(ctx context.Context, id string) ([]youtube.Caption, error) {
				return nil, youtube.ErrCaptionsDisabled
			},
			model:   &echoModel{},
			body:    `{"videoId":"dQw4w9WgXcQ"}`,
			wantErr: youtube.ErrCaptionsDisabled.Error(),
		},
		{
			name:     "unextractable id",
			provider: staticCaptions("x"),
			model:    &echoModel{},
			body:     `{"videoId":"hello"}`,
			wantErr:  `could not extract a video id from "hello"`,
		},
		{
			name:     "missing id",
			provider: staticCaptions("x"),
			model:    &echoModel{},
			body:     `{}`,
			wantErr:  `could not extract a video id from ""`,
		},
		{
			name:     "model not loaded",
			provider: staticCaptions("x"),
			model:    &echoModel{loadErr: context.Canceled},
			body:     `{"videoId":"dQw4w9WgXcQ"}`,
			wantErr:  "summarization model is not loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.provider, tt.model, nil)

			rr := doRequest(t, env.handler, http.MethodPost, "/summarize", tt.body)
			if status := rr.Code; status != http.StatusOK {
				t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
			}

			var body map[string]any
			decode(t, rr, &body)
			if body["success"] != false || body["error"] != tt.wantErr {
				t.Errorf("unexpected body %v", body)
			}
			if _, ok := body["summary"]; ok {
				t.Errorf("failure body must not carry a summary: %v", body)
			}
		})
	}
}

func TestSummarizeMalformedBody(t *testing.T) {
	env := newTestEnv(t, staticCaptions("x"), &echoModel{}, nil)

	for _, body := range []string{`{"videoId":`, `not json`, `{"videoId": 42}`} {
		rr := doRequest(t, env.handler, http.MethodPost, "/summarize", body)
		if status := rr.Code; status != http.StatusBadRequest {
			t.Errorf("body %q: handler returned wrong status code: got %v want %v", body, status, http.StatusBadRequest)
		}

		var resp models.ErrorResponse
		decode(t, rr, &resp)
		if resp.Success || resp.Error != "Invalid JSON format" {
			t.Errorf("unexpected body %+v", resp)
		}
	}

	if len(env.history.outcomes) != 0 {
		t.Errorf("malformed requests must not be recorded")
	}
}

func TestPreflight(t *testing.T) {
	env := newTestEnv(t, staticCaptions("x"), &echoModel{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/summarize", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected wildcard CORS origin")
	}
}

func TestRateLimitEnabled(t *testing.T) {
	env := newTestEnv(t, staticCaptions("x"), &echoModel{}, func(c *config.Config) {
		c.RateLimit.Enabled = true
		c.RateLimit.RequestsPerMinute = 1
		c.RateLimit.BurstSize = 1
	})

	first := doRequest(t, env.handler, http.MethodGet, "/health", "")
	second := doRequest(t, env.handler, http.MethodGet, "/health", "")

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Errorf("got statuses %d, %d want 200, 429", first.Code, second.Code)
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t, staticCaptions("a", "b"), &echoModel{}, nil)

	doRequest(t, env.handler, http.MethodPost, "/summarize", `{"videoId":"dQw4w9WgXcQ"}`)
	doRequest(t, env.handler, http.MethodPost, "/summarize", `{"videoId":"nope"}`)

	rr := doRequest(t, env.handler, http.MethodGet, "/history?limit=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var body models.HistoryResponse
	decode(t, rr, &body)
	if body.Count != 1 || body.Outcomes[0].Input != "nope" {
		t.Errorf("unexpected history %+v", body)
	}

	id := env.history.outcomes[0].ID
	rr = doRequest(t, env.handler, http.MethodGet, "/history/"+id, "")
	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	rr = doRequest(t, env.handler, http.MethodGet, "/history/unknown", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
	}

	rr = doRequest(t, env.handler, http.MethodGet, "/history?limit=0", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
	}
}

type blockingRecorder struct {
	release chan struct{}
}

func (b *blockingRecorder) Name() string { return "blocking" }
func (b *blockingRecorder) Record(ctx context.Context, o *models.Outcome) error {
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return nil
}

func TestSummarizeRespondsBeforeRecording(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Model.Name = "t5-small"
	cfg.Model.MaxInputChars = 512
	cfg.Model.MaxLength = 100
	cfg.Model.MinLength = 20

	engine := summary.NewEngine(&echoModel{}, summary.ConfigFrom(cfg.Model), logger)
	engine.Load(context.Background())

	recorder := &blockingRecorder{release: make(chan struct{})}
	videoSvc := video.NewService(subtitles.NewService(staticCaptions("Never", "gonna", "give")), engine, video.Config{
		FetchTimeout:     time.Second,
		InferenceTimeout: time.Second,
		RecordTimeout:    30 * time.Second,
	}, video.WithRecorders(recorder))

	srv := httptest.NewServer(NewServer(cfg, WithLogger(logger), WithServices(videoSvc, engine)).Handler())
	defer srv.Close()
	defer close(recorder.release)

	type result struct {
		body models.SummaryResponse
		err  error
	}
	done := make(chan result, 1)

	go func() {
		resp, err := http.Post(srv.URL+"/summarize", "application/json", strings.NewReader(`{"videoId":"dQw4w9WgXcQ"}`))
		if err != nil {
			done <- result{err: err}
			return
		}
		defer resp.Body.Close()

		var body models.SummaryResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		done <- result{body: body, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("request failed: %v", res.err)
		}
		if !res.body.Success || res.body.VideoID != "dQw4w9WgXcQ" {
			t.Errorf("unexpected response %+v", res.body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("response was held back by a blocked recorder")
	}
}
