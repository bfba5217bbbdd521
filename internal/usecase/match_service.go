package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/porrapolo/match-engine/internal/domain/candidate"
	"github.com/porrapolo/match-engine/internal/domain/question"
	"github.com/porrapolo/match-engine/internal/domain/result"
	"github.com/porrapolo/match-engine/internal/platform/logging"
)

// ThresholdPolicy carries the confidence floors for one matching run.
// Continental fixtures use a stricter threshold than domestic ones because
// team names diverge more across languages and feeds. SimilarityFloor applies
// to each side of a pair on its own, so one perfectly matching team can never
// mask a completely wrong counterpart.
type ThresholdPolicy struct {
	Default         int
	ChampionsLeague int
	SimilarityFloor int
}

func DefaultThresholdPolicy() ThresholdPolicy {
	return ThresholdPolicy{
		Default:         50,
		ChampionsLeague: 60,
		SimilarityFloor: 40,
	}
}

func NormalizeThresholdPolicy(p ThresholdPolicy) ThresholdPolicy {
	defaults := DefaultThresholdPolicy()
	if p.Default <= 0 || p.Default > 100 {
		p.Default = defaults.Default
	}
	if p.ChampionsLeague <= 0 || p.ChampionsLeague > 100 {
		p.ChampionsLeague = defaults.ChampionsLeague
	}
	if p.SimilarityFloor <= 0 || p.SimilarityFloor > 100 {
		p.SimilarityFloor = defaults.SimilarityFloor
	}
	return p
}

func (p ThresholdPolicy) For(championsLeague bool) int {
	if championsLeague {
		return p.ChampionsLeague
	}
	return p.Default
}

type MatchService struct {
	buckets map[question.GameType]GoalBuckets
	logger  *logging.Logger
}

func NewMatchService(buckets map[question.GameType]GoalBuckets, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		buckets: buckets,
		logger:  logger,
	}
}

type scoredPair struct {
	questionIdx int
	resultIdx   int
	confidence  int
}

// Match assigns at most one result to each question slot. Every surviving
// (question, result) pair is scored, then assignment is greedy by descending
// confidence so the strongest pairs bind first; each question and each result
// is used at most once. Questions with no surviving pair are simply absent
// from the output; nothing is ever fabricated.
func (s *MatchService) Match(
	ctx context.Context,
	form question.Form,
	questions []question.Question,
	results []result.RawResult,
	policy ThresholdPolicy,
) ([]candidate.MatchCandidate, []candidate.Diagnostic, error) {
	_, span := startUsecaseSpan(ctx, "usecase.MatchService.Match")
	defer span.End()

	policy = NormalizeThresholdPolicy(policy)
	buckets := s.bucketsFor(form.GameType)

	diagnostics := make([]candidate.Diagnostic, 0)
	valid := make([]question.Question, 0, len(questions))
	seenSlots := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			diagnostics = append(diagnostics, candidate.Diagnostic{
				MatchNumber: q.MatchNumber,
				Reason:      fmt.Sprintf("%v: %v", ErrInvalidQuestion, err),
			})
			continue
		}
		if _, dup := seenSlots[q.MatchNumber]; dup {
			diagnostics = append(diagnostics, candidate.Diagnostic{
				MatchNumber: q.MatchNumber,
				Reason:      fmt.Sprintf("%v: duplicate match number", ErrInvalidQuestion),
			})
			continue
		}
		seenSlots[q.MatchNumber] = struct{}{}
		valid = append(valid, q)
	}

	matchable := make([]result.RawResult, 0, len(results))
	for _, r := range results {
		if r.Matchable() {
			matchable = append(matchable, r)
		}
	}

	pairs := make([]scoredPair, 0, len(valid))
	for qi, q := range valid {
		for ri, r := range matchable {
			homeScore := TeamSimilarity(r.HomeTeamRaw, q.HomeTeam)
			if homeScore < policy.SimilarityFloor {
				continue
			}
			awayScore := TeamSimilarity(r.AwayTeamRaw, q.AwayTeam)
			if awayScore < policy.SimilarityFloor {
				continue
			}

			confidence := (homeScore + awayScore) / 2
			if confidence < policy.For(r.ChampionsLeague) {
				continue
			}

			pairs = append(pairs, scoredPair{
				questionIdx: qi,
				resultIdx:   ri,
				confidence:  confidence,
			})
		}
	}

	// Confidence ties prefer the most recently concluded fixture: in a
	// round-robin rematch both legs score identically against the same
	// question, and the newer leg is the one the form is asking about.
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].confidence != pairs[j].confidence {
			return pairs[i].confidence > pairs[j].confidence
		}
		left := matchable[pairs[i].resultIdx].KickoffAt
		right := matchable[pairs[j].resultIdx].KickoffAt
		if !left.Equal(right) {
			return left.After(right)
		}
		if pairs[i].questionIdx != pairs[j].questionIdx {
			return valid[pairs[i].questionIdx].MatchNumber < valid[pairs[j].questionIdx].MatchNumber
		}
		return matchable[pairs[i].resultIdx].SourceID < matchable[pairs[j].resultIdx].SourceID
	})

	assignedQuestions := make(map[int]struct{}, len(valid))
	assignedResults := make(map[int]struct{}, len(matchable))
	out := make([]candidate.MatchCandidate, 0, len(valid))
	for _, pair := range pairs {
		if _, taken := assignedQuestions[pair.questionIdx]; taken {
			continue
		}
		if _, taken := assignedResults[pair.resultIdx]; taken {
			continue
		}
		assignedQuestions[pair.questionIdx] = struct{}{}
		assignedResults[pair.resultIdx] = struct{}{}

		out = append(out, buildCandidate(form.ID, valid[pair.questionIdx], matchable[pair.resultIdx], pair.confidence, buckets))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchNumber < out[j].MatchNumber
	})
	sort.SliceStable(diagnostics, func(i, j int) bool {
		return diagnostics[i].MatchNumber < diagnostics[j].MatchNumber
	})

	return out, diagnostics, nil
}

func (s *MatchService) bucketsFor(gameType question.GameType) GoalBuckets {
	if buckets, ok := s.buckets[gameType]; ok {
		return buckets
	}
	return DefaultGoalBuckets(gameType)
}

func buildCandidate(
	formID string,
	q question.Question,
	r result.RawResult,
	confidence int,
	buckets GoalBuckets,
) candidate.MatchCandidate {
	outcome, homeGoals, awayGoals := ResolveOutcome(r)

	out := candidate.MatchCandidate{
		FormID:         formID,
		MatchNumber:    q.MatchNumber,
		SourceID:       r.SourceID,
		Confidence:     confidence,
		Outcome:        outcome,
		HomeGoals:      homeGoals,
		AwayGoals:      awayGoals,
		ResultHomeTeam: r.HomeTeamRaw,
		ResultAwayTeam: r.AwayTeamRaw,
		KickoffAt:      r.KickoffAt,
	}
	if q.GoalBonus {
		out.HomeGoalsBucket = buckets.Label(homeGoals)
		out.AwayGoalsBucket = buckets.Label(awayGoals)
	}
	return out
}
