package vpstats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/porrapolo/match-engine/internal/domain/result"
	"github.com/porrapolo/match-engine/internal/platform/resilience"
	"github.com/porrapolo/match-engine/internal/usecase"
)

func TestClient_FetchResults_MapsPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/results" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_token"); got != "secret-token" {
			t.Errorf("missing api token, got %q", got)
		}
		if got := r.URL.Query().Get("days"); got != "7" {
			t.Errorf("unexpected window, got %q", got)
		}
		if got := r.URL.Query().Get("competition"); got != "div-honor" {
			t.Errorf("unexpected competition, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"id": "101",
					"homeTeam": "CN Sabadell",
					"awayTeam": "CN Barcelona",
					"homeGoals": 12,
					"awayGoals": 9,
					"status": "FT",
					"playedAt": "2026-02-13T19:30:00Z"
				},
				{
					"id": "102",
					"homeTeam": "CN Terrassa",
					"awayTeam": "CN Mataró",
					"homeGoals": 14,
					"awayGoals": 13,
					"status": "PEN",
					"playedAt": "2026-02-13T21:00:00Z",
					"regulation": {"home": 10, "away": 10}
				},
				{
					"id": "103",
					"homeTeam": "WP Navarra",
					"awayTeam": "CN Sant Andreu",
					"status": "FT",
					"playedAt": "2026-02-13T18:00:00Z"
				},
				{
					"id": "104",
					"homeTeam": "CE Mediterrani",
					"awayTeam": "CN Catalunya",
					"homeGoals": 8,
					"awayGoals": 8,
					"status": "FT",
					"playedAt": "not-a-date"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:     srv.URL,
		Token:       "secret-token",
		Competition: "div-honor",
	})

	results, err := client.FetchResults(context.Background())
	if err != nil {
		t.Fatalf("FetchResults error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected rows without goals or dates to be dropped, got %d", len(results))
	}

	first := results[0]
	if first.SourceID != "vpstats:101" {
		t.Fatalf("unexpected source id: %s", first.SourceID)
	}
	if first.Status != result.StatusFinished || first.HomeScore != 12 || first.AwayScore != 9 {
		t.Fatalf("unexpected mapping: %+v", first)
	}
	if !first.KickoffAt.Equal(time.Date(2026, 2, 13, 19, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected kickoff: %s", first.KickoffAt)
	}
	if first.ChampionsLeague {
		t.Fatalf("domestic feed must not flag champions league")
	}

	second := results[1]
	if second.Status != result.StatusShootout {
		t.Fatalf("expected shootout status, got %s", second.Status)
	}
	if !second.HasRegulationScores() || *second.HomeRegulationScore != 10 || *second.AwayRegulationScore != 10 {
		t.Fatalf("regulation scores lost: %+v", second)
	}
}

func TestClient_FetchResults_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 1})

	results, err := client.FetchResults(context.Background())
	if err != nil {
		t.Fatalf("FetchResults error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty feed, got %d", len(results))
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected one retry, got %d calls", got)
	}
}

func TestClient_FetchResults_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad token"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 3})

	if _, err := client.FetchResults(context.Background()); err == nil {
		t.Fatal("expected error for 401")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("401 must not be retried, got %d calls", got)
	}
}

func TestClient_CircuitBreakerShortCircuits(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL: srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchResults(context.Background()); err == nil {
		t.Fatal("expected transient failure")
	}

	_, err := client.FetchResults(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker to map to dependency error, got %v", err)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial failed for ?api_token=abc123&days=7 token abc123", "abc123")
	if strings.Contains(got, "abc123") {
		t.Fatalf("token leaked: %q", got)
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://api.vpstats.es/v2/results?api_token=abc123&days=7")
	if strings.Contains(got, "abc123") {
		t.Fatalf("token leaked: %q", got)
	}
	if !strings.Contains(got, "api_token=REDACTED") {
		t.Fatalf("expected redaction marker: %q", got)
	}
}
