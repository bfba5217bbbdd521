package vpstats

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/porrapolo/match-engine/internal/domain/result"
	"github.com/porrapolo/match-engine/internal/platform/logging"
	"github.com/porrapolo/match-engine/internal/platform/resilience"
	"github.com/porrapolo/match-engine/internal/usecase"
)

const (
	defaultBaseURL = "https://api.vpstats.es/v2"
	sourceID       = "vpstats"
)

var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errVPStatsTransient = crerr.New("vpstats transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Competition    string
	WindowDays     int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads finished domestic-league games from the vpstats feed.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	competition    string
	windowDays     int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		competition:    strings.TrimSpace(cfg.Competition),
		windowDays:     windowDays,
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) SourceID() string {
	return sourceID
}

func (c *Client) FetchResults(ctx context.Context) ([]result.RawResult, error) {
	query := map[string]string{
		"days": strconv.Itoa(c.windowDays),
	}
	if c.competition != "" {
		query["competition"] = c.competition
	}

	var envelope resultsEnvelope
	if err := c.doJSON(ctx, "/results", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch vpstats results: %w", err)
	}

	out := make([]result.RawResult, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped, ok := mapGame(item)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

type resultsEnvelope struct {
	Data []gamePayload `json:"data"`
}

type gamePayload struct {
	ID         string        `json:"id"`
	HomeTeam   string        `json:"homeTeam"`
	AwayTeam   string        `json:"awayTeam"`
	HomeGoals  *int          `json:"homeGoals"`
	AwayGoals  *int          `json:"awayGoals"`
	Status     string        `json:"status"`
	PlayedAt   string        `json:"playedAt"`
	Regulation *scorePayload `json:"regulation,omitempty"`
}

type scorePayload struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func mapGame(item gamePayload) (result.RawResult, bool) {
	home := strings.TrimSpace(item.HomeTeam)
	away := strings.TrimSpace(item.AwayTeam)
	if home == "" || away == "" {
		return result.RawResult{}, false
	}
	if item.HomeGoals == nil || item.AwayGoals == nil {
		return result.RawResult{}, false
	}

	playedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(item.PlayedAt))
	if err != nil {
		return result.RawResult{}, false
	}

	mapped := result.RawResult{
		SourceID:    sourceID + ":" + strings.TrimSpace(item.ID),
		HomeTeamRaw: home,
		AwayTeamRaw: away,
		HomeScore:   *item.HomeGoals,
		AwayScore:   *item.AwayGoals,
		Status:      result.NormalizeStatus(item.Status),
		KickoffAt:   playedAt.UTC(),
	}
	if item.Regulation != nil {
		mapped.HomeRegulationScore = result.CloneScore(&item.Regulation.Home)
		mapped.AwayRegulationScore = result.CloneScore(&item.Regulation.Away)
	}
	return mapped, true
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "vpstats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	if c.token != "" {
		values.Set("api_token", c.token)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errVPStatsTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errVPStatsTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errVPStatsTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errVPStatsTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "vpstats request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
