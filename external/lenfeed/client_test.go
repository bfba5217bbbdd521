package lenfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/porrapolo/match-engine/internal/domain/result"
)

func intPtr(v int) *int { return &v }

func TestMapMatch(t *testing.T) {
	t.Parallel()

	mapped, ok := mapMatch(matchPayload{
		Code:      "CL-0841",
		Home:      "Pro Recco",
		Away:      "CN Atlètic-Barceloneta",
		HomeScore: intPtr(15),
		AwayScore: intPtr(14),
		RegHome:   intPtr(11),
		RegAway:   intPtr(11),
		State:     "penalties",
		Date:      "2026-02-11T20:30:00+01:00",
	})
	if !ok {
		t.Fatal("expected match to map")
	}
	if mapped.SourceID != "lenfeed:CL-0841" {
		t.Fatalf("unexpected source id: %s", mapped.SourceID)
	}
	if !mapped.ChampionsLeague {
		t.Fatal("continental feed must always flag champions league")
	}
	if mapped.Status != result.StatusShootout {
		t.Fatalf("unexpected status: %s", mapped.Status)
	}
	if !mapped.HasRegulationScores() || *mapped.HomeRegulationScore != 11 || *mapped.AwayRegulationScore != 11 {
		t.Fatalf("regulation scores lost: %+v", mapped)
	}
	if !mapped.KickoffAt.Equal(time.Date(2026, 2, 11, 19, 30, 0, 0, time.UTC)) {
		t.Fatalf("kickoff not normalized to UTC: %s", mapped.KickoffAt)
	}
}

func TestMapMatch_DropsIncompleteRows(t *testing.T) {
	t.Parallel()

	base := matchPayload{
		Code:      "CL-0001",
		Home:      "Olympiacos",
		Away:      "Jug Dubrovnik",
		HomeScore: intPtr(9),
		AwayScore: intPtr(8),
		State:     "finished",
		Date:      "2026-02-10T19:00:00Z",
	}

	cases := []struct {
		name   string
		mutate func(*matchPayload)
	}{
		{"blank home", func(m *matchPayload) { m.Home = "  " }},
		{"blank away", func(m *matchPayload) { m.Away = "" }},
		{"missing home score", func(m *matchPayload) { m.HomeScore = nil }},
		{"missing away score", func(m *matchPayload) { m.AwayScore = nil }},
		{"bad date", func(m *matchPayload) { m.Date = "yesterday" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			item := base
			tc.mutate(&item)
			if _, ok := mapMatch(item); ok {
				t.Fatal("expected row to be dropped")
			}
		})
	}

	if _, ok := mapMatch(base); !ok {
		t.Fatal("base row must map")
	}
}

func TestResultsURL(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "https://feed.example.test/api/"})
	if got := client.resultsURL(); got != "https://feed.example.test/api/matches?state=finished" {
		t.Fatalf("unexpected url: %s", got)
	}

	client = NewClient(ClientConfig{BaseURL: "https://feed.example.test/api", Season: "2025-26"})
	want := "https://feed.example.test/api/matches?state=finished&season=2025-26"
	if got := client.resultsURL(); got != want {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestClient_FetchResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "feed-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if got := r.URL.Query().Get("state"); got != "finished" {
			t.Errorf("unexpected state filter %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"matches": [
				{
					"code": "CL-0842",
					"home": "Ferencváros",
					"away": "CN Marseille",
					"homeScore": 13,
					"awayScore": 10,
					"state": "finished",
					"date": "2026-02-12T18:00:00Z"
				},
				{
					"code": "CL-0843",
					"home": "",
					"away": "Radnički",
					"homeScore": 7,
					"awayScore": 9,
					"state": "finished",
					"date": "2026-02-12T20:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "feed-key"})

	results, err := client.FetchResults(context.Background())
	if err != nil {
		t.Fatalf("FetchResults error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected incomplete rows to be dropped, got %d", len(results))
	}
	if results[0].SourceID != "lenfeed:CL-0842" || results[0].HomeScore != 13 {
		t.Fatalf("unexpected mapping: %+v", results[0])
	}
}

func TestClient_FetchResults_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"matches": []}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 1})

	if _, err := client.FetchResults(context.Background()); err != nil {
		t.Fatalf("FetchResults error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected one retry, got %d calls", got)
	}
}

func TestClient_FetchResults_ClientErrorFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{BaseURL: srv.URL, MaxRetries: 3})

	if _, err := client.FetchResults(context.Background()); err == nil {
		t.Fatal("expected error for 403")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("403 must not be retried, got %d calls", got)
	}
}
