package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/porrapolo/match-engine/internal/domain/result"
	"github.com/porrapolo/match-engine/internal/platform/logging"
)

// Fetcher pulls finished results from one upstream provider.
type Fetcher interface {
	SourceID() string
	FetchResults(ctx context.Context) ([]result.RawResult, error)
}

// Snapshot is the immutable view of upstream results one matching run works
// from. A run never refetches mid-flight, so every form in that run sees the
// same world.
type Snapshot struct {
	Results       []result.RawResult
	TakenAt       time.Time
	FailedSources []string
}

type AggregatorService struct {
	fetchers     []Fetcher
	windowDays   int
	fetchTimeout time.Duration
	logger       *logging.Logger
}

func NewAggregatorService(
	fetchers []Fetcher,
	windowDays int,
	fetchTimeout time.Duration,
	logger *logging.Logger,
) *AggregatorService {
	if windowDays <= 0 {
		windowDays = 7
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregatorService{
		fetchers:     fetchers,
		windowDays:   windowDays,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// Snapshot fans out to every configured source in parallel and merges what
// came back. A slow or failing source is recorded and skipped; partial data
// beats no data here because unmatched questions stay blank anyway.
func (s *AggregatorService) Snapshot(ctx context.Context, now time.Time) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregatorService.Snapshot")
	defer span.End()

	if len(s.fetchers) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no result sources configured", ErrDependencyUnavailable)
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	type fetchOutcome struct {
		sourceID string
		results  []result.RawResult
		err      error
	}

	outcomes := make([]fetchOutcome, len(s.fetchers))

	var wg conc.WaitGroup
	for i, fetcher := range s.fetchers {
		i, fetcher := i, fetcher
		wg.Go(func() {
			fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
			defer cancel()

			results, err := fetcher.FetchResults(fetchCtx)
			outcomes[i] = fetchOutcome{
				sourceID: fetcher.SourceID(),
				results:  results,
				err:      err,
			}
		})
	}
	wg.Wait()

	cutoff := now.AddDate(0, 0, -s.windowDays)
	merged := make([]result.RawResult, 0)
	failed := make([]string, 0)
	for _, outcome := range outcomes {
		if outcome.err != nil {
			failed = append(failed, outcome.sourceID)
			s.logger.WarnContext(ctx, "result source failed, continuing with partial snapshot",
				"source_id", outcome.sourceID,
				"error", outcome.err,
			)
			continue
		}
		for _, r := range outcome.results {
			if r.SourceID == "" {
				r.SourceID = outcome.sourceID
			}
			if !r.Matchable() {
				continue
			}
			if r.KickoffAt.Before(cutoff) {
				continue
			}
			merged = append(merged, r)
		}
	}

	if len(failed) == len(s.fetchers) {
		return Snapshot{}, fmt.Errorf("%w: all result sources failed", ErrDependencyUnavailable)
	}

	merged = dedupeResults(merged)
	sort.Strings(failed)

	s.logger.InfoContext(ctx, "result snapshot taken",
		"results", len(merged),
		"sources", len(s.fetchers),
		"failed_sources", len(failed),
	)

	return Snapshot{
		Results:       merged,
		TakenAt:       now,
		FailedSources: failed,
	}, nil
}

// dedupeResults collapses the same fixture reported by several sources. Two
// results are the same fixture when their normalized team pair and UTC
// kickoff day coincide; the copy with the most complete data wins, so a
// shootout report with regulation scores beats a bare full-time line.
func dedupeResults(results []result.RawResult) []result.RawResult {
	type fixtureKey struct {
		home string
		away string
		day  string
	}

	best := make(map[fixtureKey]int, len(results))
	order := make([]fixtureKey, 0, len(results))
	for i, r := range results {
		key := fixtureKey{
			home: NormalizeTeamName(r.HomeTeamRaw),
			away: NormalizeTeamName(r.AwayTeamRaw),
			day:  r.KickoffAt.UTC().Format("2006-01-02"),
		}
		current, seen := best[key]
		if !seen {
			best[key] = i
			order = append(order, key)
			continue
		}
		if r.CompletenessRank() > results[current].CompletenessRank() {
			best[key] = i
		}
	}

	out := make([]result.RawResult, 0, len(order))
	for _, key := range order {
		out = append(out, results[best[key]])
	}
	return out
}
