package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultBaseURL   = "https://www.youtube.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	playerResponseMarker = "ytInitialPlayerResponse = "

	maxWatchPageBytes = 6 * 1024 * 1024
	maxTimedTextBytes = 4 * 1024 * 1024
)

// Caption is one timed fragment of a transcript.
type Caption struct {
	Start    time.Duration
	Duration time.Duration
	Text     string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	languages  []string
}

type Option func(*Client)

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		languages:  []string{"en"},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLanguages sets the caption languages to prefer, most preferred first.
func WithLanguages(langs []string) Option {
	return func(c *Client) {
		if len(langs) > 0 {
			c.languages = langs
		}
	}
}

// FetchCaptions returns the caption fragments of a video in playback order.
func (c *Client) FetchCaptions(ctx context.Context, videoID string) ([]Caption, error) {
	player, err := c.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return nil, transcriptError(videoID, err)
	}

	if err := player.playability(); err != nil {
		return nil, transcriptError(videoID, err)
	}

	if player.Captions == nil {
		return nil, transcriptError(videoID, ErrCaptionsDisabled)
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, transcriptError(videoID, ErrCaptionsDisabled)
	}

	track, ok := pickBestTrack(tracks, c.languages)
	if !ok {
		return nil, transcriptError(videoID, ErrNoTranscript)
	}

	captions, err := c.fetchTimedText(ctx, track.BaseURL)
	if err != nil {
		return nil, transcriptError(videoID, err)
	}

	return captions, nil
}

func (c *Client) fetchPlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	watchURL := c.baseURL + "/watch?" + url.Values{"v": {videoID}}.Encode()

	body, err := c.get(ctx, watchURL, maxWatchPageBytes)
	if err != nil {
		return nil, errors.Wrap(err, "watch page")
	}

	page := string(body)
	idx := strings.Index(page, playerResponseMarker)
	if idx == -1 {
		return nil, errors.Wrap(ErrVideoUnavailable, "player response not found in watch page")
	}

	raw, ok := extractJSONObject(page[idx+len(playerResponseMarker):])
	if !ok {
		return nil, errors.New("player response is not a complete JSON object")
	}

	var player playerResponse
	if err := json.Unmarshal([]byte(raw), &player); err != nil {
		return nil, errors.Wrap(err, "decode player response")
	}

	return &player, nil
}

func (c *Client) fetchTimedText(ctx context.Context, trackURL string) ([]Caption, error) {
	resolved, err := c.resolve(trackURL)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, resolved, maxTimedTextBytes)
	if err != nil {
		return nil, errors.Wrap(err, "fetch timedtext")
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, errors.Wrap(err, "parse timedtext XML")
	}

	if len(tt.Lines) == 0 {
		return nil, ErrNoTranscript
	}

	captions := make([]Caption, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		captions = append(captions, Caption{
			Start:    seconds(line.Start),
			Duration: seconds(line.Dur),
			Text:     html.UnescapeString(line.Text),
		})
	}

	return captions, nil
}

func (c *Client) get(ctx context.Context, target string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", acceptLanguage(c.languages))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrTooManyRequests
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

// resolve turns a relative caption URL into an absolute one on baseURL.
func (c *Client) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrap(err, "parse caption track URL")
	}
	if u.IsAbs() {
		return ref, nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse base URL")
	}
	return base.ResolveReference(u).String(), nil
}

func acceptLanguage(langs []string) string {
	parts := make([]string, 0, len(langs)+1)
	for i, lang := range langs {
		if i == 0 {
			parts = append(parts, lang)
			continue
		}
		q := 1.0 - float64(i)*0.1
		if q < 0.1 {
			q = 0.1
		}
		parts = append(parts, lang+";q="+strconv.FormatFloat(q, 'f', 1, 64))
	}
	return strings.Join(parts, ",")
}

func seconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
