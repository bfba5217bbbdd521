package lenfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/porrapolo/match-engine/internal/domain/result"
	"github.com/porrapolo/match-engine/internal/platform/logging"
)

const (
	defaultBaseURL = "https://feed.len.eu/api"
	sourceID       = "lenfeed"
)

type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Season     string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Client reads the continental-competition results feed. Everything this feed
// returns belongs to the Champions League, so mapped results carry the
// stricter matching treatment.
type Client struct {
	http       *fasthttp.Client
	baseURL    string
	apiKey     string
	season     string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		season:     strings.TrimSpace(cfg.Season),
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

func (c *Client) SourceID() string {
	return sourceID
}

func (c *Client) FetchResults(ctx context.Context) ([]result.RawResult, error) {
	raw, err := c.fetch(ctx, c.resultsURL())
	if err != nil {
		return nil, fmt.Errorf("fetch lenfeed results: %w", err)
	}

	var envelope matchesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode lenfeed payload: %w", err)
	}

	out := make([]result.RawResult, 0, len(envelope.Matches))
	for _, item := range envelope.Matches {
		mapped, ok := mapMatch(item)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) resultsURL() string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString("/matches?state=finished")
	if c.season != "" {
		_, _ = buf.WriteString("&season=")
		_, _ = buf.WriteString(c.season)
	}
	return buf.String()
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()

		req.SetRequestURI(fullURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		err := c.http.DoTimeout(req, resp, c.timeout)
		status := resp.StatusCode()
		body := append([]byte(nil), resp.Body()...)

		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		switch {
		case err != nil:
			lastErr = crerr.Wrap(err, "send feed request")
		case status >= 200 && status < 300:
			return body, nil
		case status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError:
			lastErr = crerr.Newf("feed status=%d", status)
		default:
			return nil, crerr.Newf("feed status=%d body=%s", status, strings.TrimSpace(string(body)))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("feed request failed")
	}
	c.logger.WarnContext(ctx, "lenfeed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

type matchesEnvelope struct {
	Matches []matchPayload `json:"matches"`
}

type matchPayload struct {
	Code      string `json:"code"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
	// RegHome/RegAway carry the end-of-regulation score when the match went
	// to a shootout.
	RegHome *int   `json:"regHome,omitempty"`
	RegAway *int   `json:"regAway,omitempty"`
	State   string `json:"state"`
	Date    string `json:"date"`
}

func mapMatch(item matchPayload) (result.RawResult, bool) {
	home := strings.TrimSpace(item.Home)
	away := strings.TrimSpace(item.Away)
	if home == "" || away == "" || item.HomeScore == nil || item.AwayScore == nil {
		return result.RawResult{}, false
	}

	playedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(item.Date))
	if err != nil {
		return result.RawResult{}, false
	}

	return result.RawResult{
		SourceID:            sourceID + ":" + strings.TrimSpace(item.Code),
		HomeTeamRaw:         home,
		AwayTeamRaw:         away,
		HomeScore:           *item.HomeScore,
		AwayScore:           *item.AwayScore,
		HomeRegulationScore: result.CloneScore(item.RegHome),
		AwayRegulationScore: result.CloneScore(item.RegAway),
		Status:              result.NormalizeStatus(item.State),
		KickoffAt:           playedAt.UTC(),
		ChampionsLeague:     true,
	}, true
}
