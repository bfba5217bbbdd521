package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
	"github.com/porrapolo/match-engine/internal/domain/question"
	"github.com/porrapolo/match-engine/internal/domain/result"
)

func testForm() question.Form {
	return question.Form{
		ID:       "wp-div-honor-2026-j12",
		Name:     "Jornada 12",
		GameType: question.GameTypeWaterpolo,
		Season:   "2025/2026",
		Deadline: time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestMatchService_AssignsBestPair(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(nil, nil)
	kickoff := time.Date(2026, 2, 13, 19, 30, 0, 0, time.UTC)

	questions := []question.Question{
		{FormID: "f", MatchNumber: 1, HomeTeam: "CN Atlètic-Barceloneta", AwayTeam: "CN Sabadell"},
		{FormID: "f", MatchNumber: 2, HomeTeam: "CN Terrassa", AwayTeam: "CN Mataró", GoalBonus: true},
	}
	results := []result.RawResult{
		{
			SourceID:    "vpstats:101",
			HomeTeamRaw: "Atletic Barceloneta",
			AwayTeamRaw: "Club Natació Sabadell",
			HomeScore:   12,
			AwayScore:   9,
			Status:      result.StatusFinished,
			KickoffAt:   kickoff,
		},
		{
			SourceID:    "vpstats:102",
			HomeTeamRaw: "CN Terrassa",
			AwayTeamRaw: "CN Mataro",
			HomeScore:   11,
			AwayScore:   11,
			Status:      result.StatusFinished,
			KickoffAt:   kickoff,
		},
	}

	candidates, diagnostics, err := svc.Match(context.Background(), testForm(), questions, results, DefaultThresholdPolicy())
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diagnostics)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.MatchNumber != 1 || first.SourceID != "vpstats:101" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Outcome != candidate.OutcomeHomeWin || first.HomeGoals != 12 || first.AwayGoals != 9 {
		t.Fatalf("unexpected first resolution: %+v", first)
	}
	if first.HomeGoalsBucket != "" || first.AwayGoalsBucket != "" {
		t.Fatalf("buckets must stay empty without goal bonus: %+v", first)
	}
	if first.Confidence != 100 {
		t.Fatalf("expected full confidence for exact names, got %d", first.Confidence)
	}

	second := candidates[1]
	if second.Outcome != candidate.OutcomeDraw {
		t.Fatalf("expected draw for 11-11, got %s", second.Outcome)
	}
	if second.HomeGoalsBucket != "11/12" || second.AwayGoalsBucket != "11/12" {
		t.Fatalf("unexpected goal buckets: %+v", second)
	}
}

func TestMatchService_SimilarityFloorBlocksOneSidedPairs(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(nil, nil)
	questions := []question.Question{
		{FormID: "f", MatchNumber: 1, HomeTeam: "CN Barcelona", AwayTeam: "CE Mediterrani"},
	}
	// Home is a perfect match; away is a different club entirely. The
	// averaged confidence would clear the default threshold, but the away
	// side sits below the per-side floor.
	results := []result.RawResult{
		{
			SourceID:    "vpstats:201",
			HomeTeamRaw: "CN Barcelona",
			AwayTeamRaw: "Olympiacos",
			HomeScore:   10,
			AwayScore:   8,
			Status:      result.StatusFinished,
			KickoffAt:   time.Date(2026, 2, 13, 20, 0, 0, 0, time.UTC),
		},
	}

	candidates, diagnostics, err := svc.Match(context.Background(), testForm(), questions, results, DefaultThresholdPolicy())
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %+v", candidates)
	}
	if len(diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diagnostics)
	}
}

func TestMatchService_ChampionsLeagueThresholdIsStricter(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(nil, nil)
	policy := ThresholdPolicy{Default: 50, ChampionsLeague: 95, SimilarityFloor: 40}

	questions := []question.Question{
		{FormID: "f", MatchNumber: 1, HomeTeam: "CN Terrassa", AwayTeam: "CN Mataró"},
	}
	base := result.RawResult{
		SourceID:    "lenfeed:301",
		HomeTeamRaw: "CN Terassa", // one-letter feed typo
		AwayTeamRaw: "CN Mataro",
		HomeScore:   9,
		AwayScore:   7,
		Status:      result.StatusFinished,
		KickoffAt:   time.Date(2026, 2, 13, 20, 0, 0, 0, time.UTC),
	}

	domestic := base
	candidates, _, err := svc.Match(context.Background(), testForm(), questions, []result.RawResult{domestic}, policy)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected domestic pair to clear the default threshold, got %d", len(candidates))
	}

	continental := base
	continental.ChampionsLeague = true
	candidates, _, err = svc.Match(context.Background(), testForm(), questions, []result.RawResult{continental}, policy)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected continental pair to miss the stricter threshold, got %+v", candidates)
	}
}

func TestMatchService_EachResultBindsOnce(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(nil, nil)
	questions := []question.Question{
		{FormID: "f", MatchNumber: 3, HomeTeam: "CN Sabadell", AwayTeam: "CN Barcelona"},
		{FormID: "f", MatchNumber: 1, HomeTeam: "CN Sabadell", AwayTeam: "CN Barcelona"},
	}
	results := []result.RawResult{
		{
			SourceID:    "vpstats:401",
			HomeTeamRaw: "CN Sabadell",
			AwayTeamRaw: "CN Barcelona",
			HomeScore:   8,
			AwayScore:   8,
			Status:      result.StatusFinished,
			KickoffAt:   time.Date(2026, 2, 13, 18, 0, 0, 0, time.UTC),
		},
	}

	candidates, _, err := svc.Match(context.Background(), testForm(), questions, results, DefaultThresholdPolicy())
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected a single binding for one result, got %d", len(candidates))
	}
	if candidates[0].MatchNumber != 1 {
		t.Fatalf("expected the lowest match number to win the tie, got %d", candidates[0].MatchNumber)
	}
}

func TestMatchService_TieBreakPrefersMostRecentKickoff(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(nil, nil)
	questions := []question.Question{
		{FormID: "f", MatchNumber: 1, HomeTeam: "CN Sabadell", AwayTeam: "CN Barcelona"},
	}
	// Round-robin rematch: both legs score identically against the same
	// question, the newer leg must win.
	results := []result.RawResult{
		{
			SourceID:    "vpstats:501",
			HomeTeamRaw: "CN Sabadell",
			AwayTeamRaw: "CN Barcelona",
			HomeScore:   9,
			AwayScore:   6,
			Status:      result.StatusFinished,
			KickoffAt:   time.Date(2026, 2, 8, 18, 0, 0, 0, time.UTC),
		},
		{
			SourceID:    "vpstats:502",
			HomeTeamRaw: "CN Sabadell",
			AwayTeamRaw: "CN Barcelona",
			HomeScore:   10,
			AwayScore:   10,
			Status:      result.StatusFinished,
			KickoffAt:   time.Date(2026, 2, 13, 18, 0, 0, 0, time.UTC),
		},
	}

	candidates, _, err := svc.Match(context.Background(), testForm(), questions, results, DefaultThresholdPolicy())
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}
	if candidates[0].SourceID != "vpstats:502" {
		t.Fatalf("expected the most recent leg to bind, got %s", candidates[0].SourceID)
	}
}

func TestMatchService_ScheduledResultsNeverMatch(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(nil, nil)
	questions := []question.Question{
		{FormID: "f", MatchNumber: 1, HomeTeam: "CN Sabadell", AwayTeam: "CN Barcelona"},
	}
	results := []result.RawResult{
		{
			SourceID:    "vpstats:601",
			HomeTeamRaw: "CN Sabadell",
			AwayTeamRaw: "CN Barcelona",
			Status:      result.StatusScheduled,
			KickoffAt:   time.Date(2026, 2, 15, 18, 0, 0, 0, time.UTC),
		},
	}

	candidates, _, err := svc.Match(context.Background(), testForm(), questions, results, DefaultThresholdPolicy())
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("scheduled results must never produce candidates: %+v", candidates)
	}
}

func TestMatchService_InvalidQuestionsBecomeDiagnostics(t *testing.T) {
	t.Parallel()

	svc := NewMatchService(nil, nil)
	questions := []question.Question{
		{FormID: "f", MatchNumber: 0, HomeTeam: "CN Sabadell", AwayTeam: "CN Barcelona"},
		{FormID: "f", MatchNumber: 2, HomeTeam: "", AwayTeam: "CN Barcelona"},
		{FormID: "f", MatchNumber: 3, HomeTeam: "CN Terrassa", AwayTeam: "CN Mataró"},
		{FormID: "f", MatchNumber: 3, HomeTeam: "CN Terrassa", AwayTeam: "CN Mataró"},
	}

	candidates, diagnostics, err := svc.Match(context.Background(), testForm(), questions, nil, DefaultThresholdPolicy())
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates without results, got %+v", candidates)
	}
	if len(diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %+v", diagnostics)
	}
	if diagnostics[0].MatchNumber != 0 {
		t.Fatalf("unexpected diagnostic ordering: %+v", diagnostics)
	}
	if !strings.Contains(diagnostics[2].Reason, "duplicate match number") {
		t.Fatalf("expected duplicate diagnostic, got %q", diagnostics[2].Reason)
	}
}
